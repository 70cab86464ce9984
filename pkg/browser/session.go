package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated
// resources. Interaction helpers consume it opaquely; only the
// SessionManager constructs and tears one down.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// BrowserKind is the resolved browser kind ("chromium", ...)
	BrowserKind string

	// SizeClass is the current viewport size class
	SizeClass string

	// Headless indicates if the browser is running without a window
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string

	probe        Prober
	timeout      time.Duration
	pollInterval time.Duration
}

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageGotoOptions{}

	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}

	_, err := s.Page.Goto(url, playwrightOpts)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// Resize switches the session's viewport to another size class.
func (s *Session) Resize(sizeClass string) error {
	s.UpdateLastUsed()

	vp, err := ViewportFor(sizeClass)
	if err != nil {
		return err
	}

	if err := s.Page.SetViewportSize(vp.Width, vp.Height); err != nil {
		return fmt.Errorf("resize to %s failed: %w", sizeClass, err)
	}

	s.SizeClass = sizeClass
	return nil
}

// Screenshot captures the current page as a PNG.
func (s *Session) Screenshot() ([]byte, error) {
	s.UpdateLastUsed()

	png, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return png, nil
}

// ExecuteScript evaluates a JavaScript expression in the page and
// returns its result.
func (s *Session) ExecuteScript(expression string, args ...interface{}) (interface{}, error) {
	s.UpdateLastUsed()

	result, err := s.Page.Evaluate(expression, args...)
	if err != nil {
		return nil, fmt.Errorf("script evaluation failed: %w", err)
	}
	return result, nil
}

// Cookies returns the cookies visible to the session's context.
func (s *Session) Cookies(urls ...string) ([]playwright.Cookie, error) {
	s.UpdateLastUsed()

	cookies, err := s.Context.Cookies(urls...)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	return cookies, nil
}

// ClearCookies removes all cookies from the session's context.
func (s *Session) ClearCookies() error {
	s.UpdateLastUsed()

	if err := s.Context.ClearCookies(); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}
