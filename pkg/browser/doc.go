// Package browser provides browser session management and interaction
// helpers over Playwright.
//
// The package is built around three core concepts:
//
//  1. Session: a Playwright browser instance with its context and page,
//     created from a resolved Config
//  2. SessionManager: registry owning all active sessions and the shared
//     Playwright driver
//  3. Interaction helpers: named wait/click/fill operations that poll a
//     condition until it holds or a deadline passes
//
// # Session Lifecycle
//
// Sessions follow this lifecycle:
//
//  1. Create: StartSession launches a local browser, or connects to a
//     remote grid when one is configured
//  2. Use: navigation, interaction helpers, screenshots
//  3. Close: CloseSession tears the session down, optionally after a
//     drain delay so in-flight page work can settle
//  4. Timeout: idle sessions are reaped by CleanupIdleSessions
//
// # Interaction helpers
//
// Every helper is a thin predicate over the poll package: the predicate
// probes the remote document through a Prober, and any side effect (a
// click, typing) happens inside the predicate as its terminal action.
// Remote failures during an attempt are treated as not-ready and retried;
// only the deadline ends a wait. See the individual methods for the
// per-operation semantics.
//
// # Configuration
//
// A Config is resolved exactly once at session start: built-in defaults,
// then the UIPROBE_HEADLESS and UIPROBE_SIZE_CLASS environment variables,
// then explicit fields. Unknown browser kinds, proxy modes, or size
// classes fail fast with UnsupportedConfigurationError and are never
// retried.
//
// # Example Usage
//
//	manager := browser.NewSessionManager()
//	if err := manager.Initialize(); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession("checkout", browser.Config{
//	    Browser:   "chromium",
//	    SizeClass: "laptop",
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := session.Navigate("https://shop.example.com", browser.NavigateOptions{}); err != nil {
//	    return err
//	}
//	if err := session.ClickWhenReady(browser.CSS("#add-to-cart"), browser.ActionOptions{}); err != nil {
//	    return err
//	}
//
//	manager.CloseSession("checkout", 500*time.Millisecond)
package browser
