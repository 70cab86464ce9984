package browser

import (
	"fmt"
	"os"
	"time"

	"github.com/mstoykov/envconfig"
	"gopkg.in/yaml.v3"
)

// Supported browser kinds.
const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// Proxy modes.
const (
	// ProxyDirect disables proxying entirely.
	ProxyDirect = "direct"

	// ProxyManual routes traffic through the configured server.
	ProxyManual = "manual"

	// ProxySystem leaves proxy selection to the operating system and
	// environment the browser runs in.
	ProxySystem = "system"
)

// ProxyConfig configures how the browser reaches the network.
type ProxyConfig struct {
	// Mode is one of "direct", "manual", "system". Empty means direct.
	Mode string `yaml:"mode"`

	// Server is the proxy URL, required in manual mode,
	// e.g. "http://proxy.internal:3128".
	Server string `yaml:"server"`

	// Username and Password authenticate against the proxy if set.
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GridConfig configures an optional remote grid / device cloud. When URL
// is set, sessions connect to the grid instead of launching a local
// browser.
type GridConfig struct {
	// URL is the grid websocket endpoint.
	URL string `yaml:"url"`

	// Username and AccessKey are the grid credentials. They are folded
	// into the endpoint URL's userinfo when connecting.
	Username  string `yaml:"username"`
	AccessKey string `yaml:"access_key"`

	// Platform names the target platform on the grid, e.g. "linux".
	Platform string `yaml:"platform"`

	// PreRun maps a platform name to a shell command executed before
	// connecting, for grids that need per-platform setup.
	PreRun map[string]string `yaml:"pre_run"`
}

// Config describes a browser session. The zero value is usable: all
// fields fall back to defaults and environment overrides when the config
// is resolved at session start. A Config is resolved exactly once; the
// resulting session never re-reads it.
type Config struct {
	// Browser is the browser kind: "chromium" (default), "firefox",
	// or "webkit".
	Browser string `yaml:"browser"`

	// Headless controls whether the browser runs without a visible
	// window. Nil defers to UIPROBE_HEADLESS, then to true.
	Headless *bool `yaml:"headless"`

	// SizeClass is the named viewport preset. Empty defers to
	// UIPROBE_SIZE_CLASS, then to "desktop".
	SizeClass string `yaml:"size_class"`

	// Proxy configures network proxying.
	Proxy ProxyConfig `yaml:"proxy"`

	// Grid configures an optional remote grid.
	Grid GridConfig `yaml:"grid"`

	// UserAgent overrides the browser's user agent string if set.
	UserAgent string `yaml:"user_agent"`

	// TimeoutMs is the default budget for interaction helpers, in
	// milliseconds. Zero means 10000.
	TimeoutMs float64 `yaml:"timeout_ms"`

	// PollIntervalMs is the sleep between polling attempts, in
	// milliseconds. Zero means 250.
	PollIntervalMs float64 `yaml:"poll_interval_ms"`
}

// envOverrides holds the configuration read from the environment. It is
// consulted once, at resolve time, and loses to explicit Config fields.
type envOverrides struct {
	Headless  *bool  `envconfig:"UIPROBE_HEADLESS"`
	SizeClass string `envconfig:"UIPROBE_SIZE_CLASS"`
}

// resolvedConfig is a Config with every field made concrete and
// validated. It is immutable for the session's lifetime.
type resolvedConfig struct {
	Browser      string
	Headless     bool
	SizeClass    string
	Viewport     Viewport
	Proxy        ProxyConfig
	Grid         GridConfig
	UserAgent    string
	Timeout      time.Duration
	PollInterval time.Duration
}

// LoadConfig reads a YAML session configuration from path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// resolve applies defaults and environment overrides, then validates.
// Explicit Config fields win over the environment; the environment wins
// over defaults.
func (c Config) resolve() (resolvedConfig, error) {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return resolvedConfig{}, fmt.Errorf("failed to read environment configuration: %w", err)
	}

	r := resolvedConfig{
		Browser:      c.Browser,
		SizeClass:    c.SizeClass,
		Proxy:        c.Proxy,
		Grid:         c.Grid,
		UserAgent:    c.UserAgent,
		Headless:     true,
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
	}

	if env.Headless != nil {
		r.Headless = *env.Headless
	}
	if c.Headless != nil {
		r.Headless = *c.Headless
	}

	if r.SizeClass == "" {
		r.SizeClass = env.SizeClass
	}
	if r.SizeClass == "" {
		r.SizeClass = SizeDesktop
	}

	if r.Browser == "" {
		r.Browser = BrowserChromium
	}
	if r.Proxy.Mode == "" {
		r.Proxy.Mode = ProxyDirect
	}
	if c.TimeoutMs > 0 {
		r.Timeout = time.Duration(c.TimeoutMs * float64(time.Millisecond))
	}
	if c.PollIntervalMs > 0 {
		r.PollInterval = time.Duration(c.PollIntervalMs * float64(time.Millisecond))
	}

	if err := r.validate(); err != nil {
		return resolvedConfig{}, err
	}
	return r, nil
}

// validate fails fast on unknown configuration values.
func (r *resolvedConfig) validate() error {
	switch r.Browser {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		return &UnsupportedConfigurationError{Setting: "browser", Value: r.Browser}
	}

	switch r.Proxy.Mode {
	case ProxyDirect, ProxySystem:
	case ProxyManual:
		if r.Proxy.Server == "" {
			return &UnsupportedConfigurationError{Setting: "proxy server", Value: ""}
		}
	default:
		return &UnsupportedConfigurationError{Setting: "proxy mode", Value: r.Proxy.Mode}
	}

	vp, err := ViewportFor(r.SizeClass)
	if err != nil {
		return err
	}
	r.Viewport = vp
	return nil
}
