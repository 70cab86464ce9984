package browser

import (
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"github.com/probelab/uiprobe/pkg/logging"
)

// SessionManager manages all active browser sessions and the shared
// Playwright driver underneath them.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	maxSessions int
	idleTimeout time.Duration
	initialized bool
	log         *logrus.Entry
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		idleTimeout: DefaultIdleTimeout,
		log:         logging.New("browser"),
	}
}

// Initialize installs and starts the Playwright driver. It must be
// called before creating any sessions and is safe to call more than
// once.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Discard driver output so it cannot interleave with our own logs
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// StartSession creates a new browser session from cfg. The configuration
// is resolved (defaults, environment, validation) exactly once here; an
// empty name gets a generated one.
func (m *SessionManager) StartSession(name string, cfg Config) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		name = uuid.NewString()
	}

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}

	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}

	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	resolved, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	browser, err := m.launch(resolved)
	if err != nil {
		return nil, err
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  resolved.Viewport.Width,
			Height: resolved.Viewport.Height,
		},
	}
	if resolved.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(resolved.UserAgent)
	}
	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(float64(resolved.Timeout.Milliseconds()))

	now := time.Now()
	session := &Session{
		Name:         name,
		Browser:      browser,
		Context:      context,
		Page:         page,
		BrowserKind:  resolved.Browser,
		SizeClass:    resolved.SizeClass,
		Headless:     resolved.Headless,
		CreatedAt:    now,
		LastUsedAt:   now,
		CurrentURL:   "about:blank",
		probe:        &pageProber{page: page},
		timeout:      resolved.Timeout,
		pollInterval: resolved.PollInterval,
	}

	m.sessions[name] = session
	m.log.WithFields(logrus.Fields{
		"session":    name,
		"browser":    resolved.Browser,
		"size_class": resolved.SizeClass,
		"headless":   resolved.Headless,
	}).Info("session started")

	return session, nil
}

// launch starts a local browser or connects to the configured grid.
func (m *SessionManager) launch(cfg resolvedConfig) (playwright.Browser, error) {
	browserType, err := m.browserType(cfg.Browser)
	if err != nil {
		return nil, err
	}

	if cfg.Grid.URL != "" {
		return m.connectGrid(browserType, cfg.Grid)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.Proxy.Mode == ProxyManual {
		proxy := &playwright.Proxy{Server: cfg.Proxy.Server}
		if cfg.Proxy.Username != "" {
			proxy.Username = playwright.String(cfg.Proxy.Username)
			proxy.Password = playwright.String(cfg.Proxy.Password)
		}
		launchOpts.Proxy = proxy
	}

	browser, err := browserType.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	return browser, nil
}

// connectGrid runs the platform's pre-run hook, then connects to the
// remote grid endpoint with the credentials folded into the URL.
func (m *SessionManager) connectGrid(browserType playwright.BrowserType, grid GridConfig) (playwright.Browser, error) {
	if hook, ok := grid.PreRun[grid.Platform]; ok && hook != "" {
		if out, err := exec.Command("sh", "-c", hook).CombinedOutput(); err != nil {
			return nil, fmt.Errorf("grid pre-run hook for %s failed: %w (%s)", grid.Platform, err, out)
		}
	}

	endpoint := grid.URL
	if grid.Username != "" {
		parsed, err := url.Parse(grid.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid grid URL: %w", err)
		}
		parsed.User = url.UserPassword(grid.Username, grid.AccessKey)
		endpoint = parsed.String()
	}

	browser, err := browserType.Connect(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to grid: %w", err)
	}
	return browser, nil
}

// browserType maps a browser kind to its Playwright browser type.
func (m *SessionManager) browserType(kind string) (playwright.BrowserType, error) {
	switch kind {
	case BrowserChromium:
		return m.playwright.Chromium, nil
	case BrowserFirefox:
		return m.playwright.Firefox, nil
	case BrowserWebKit:
		return m.playwright.WebKit, nil
	default:
		return nil, &UnsupportedConfigurationError{Setting: "browser", Value: kind}
	}
}

// CloseSession closes and removes a browser session. A non-zero
// drainDelay is slept before teardown so in-flight page work (pending
// navigations, late XHRs) can settle first.
func (m *SessionManager) CloseSession(name string, drainDelay time.Duration) error {
	m.mu.Lock()
	session, exists := m.sessions[name]
	if exists {
		delete(m.sessions, name)
	}
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	if drainDelay > 0 {
		time.Sleep(drainDelay)
	}

	closeSessionResources(session)
	m.log.WithField("session", name).Info("session closed")
	return nil
}

// closeSessionResources tears down a session's Playwright resources,
// ignoring errors so cleanup always runs to completion.
func closeSessionResources(session *Session) {
	_ = session.Page.Close()
	_ = session.Context.Close()
	_ = session.Browser.Close()
}

// GetSession retrieves an active session by name.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}

	return session, nil
}

// ListSessions returns information about all active sessions.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, SessionInfo{
			Name:       session.Name,
			CurrentURL: session.CurrentURL,
			Browser:    session.BrowserKind,
			SizeClass:  session.SizeClass,
			Headless:   session.Headless,
			CreatedAt:  session.CreatedAt,
			LastUsedAt: session.LastUsedAt,
		})
	}

	return infos
}

// HasSessions returns true if there are any active sessions.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CloseAll closes all active sessions.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		closeSessionResources(session)
		delete(m.sessions, name)
	}
}

// Shutdown closes all sessions and stops the Playwright driver.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, session := range m.sessions {
		closeSessionResources(session)
		delete(m.sessions, name)
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}

	return nil
}

// CleanupIdleSessions closes sessions that have been idle for longer
// than the idle timeout.
func (m *SessionManager) CleanupIdleSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for name, session := range m.sessions {
		if now.Sub(session.LastUsedAt) <= m.idleTimeout {
			continue
		}
		closeSessionResources(session)
		delete(m.sessions, name)
		m.log.WithField("session", name).Info("idle session reaped")
	}
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

// SetIdleTimeout sets the idle timeout duration.
func (m *SessionManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idleTimeout = timeout
}
