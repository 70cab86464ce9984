package browser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigResolveDefaults(t *testing.T) {
	resolved, err := Config{}.resolve()
	require.NoError(t, err)

	assert.Equal(t, BrowserChromium, resolved.Browser)
	assert.True(t, resolved.Headless)
	assert.Equal(t, SizeDesktop, resolved.SizeClass)
	assert.Equal(t, Viewport{Width: 1920, Height: 1080}, resolved.Viewport)
	assert.Equal(t, ProxyDirect, resolved.Proxy.Mode)
	assert.Equal(t, DefaultTimeout, resolved.Timeout)
	assert.Equal(t, DefaultPollInterval, resolved.PollInterval)
}

func TestConfigResolveEnvironmentOverrides(t *testing.T) {
	t.Setenv("UIPROBE_HEADLESS", "false")
	t.Setenv("UIPROBE_SIZE_CLASS", "mobile")

	resolved, err := Config{}.resolve()
	require.NoError(t, err)

	assert.False(t, resolved.Headless)
	assert.Equal(t, SizeMobile, resolved.SizeClass)
	assert.Equal(t, Viewport{Width: 375, Height: 667}, resolved.Viewport)
}

func TestConfigResolveExplicitBeatsEnvironment(t *testing.T) {
	t.Setenv("UIPROBE_HEADLESS", "false")
	t.Setenv("UIPROBE_SIZE_CLASS", "mobile")

	headless := true
	resolved, err := Config{Headless: &headless, SizeClass: SizeTablet}.resolve()
	require.NoError(t, err)

	assert.True(t, resolved.Headless)
	assert.Equal(t, SizeTablet, resolved.SizeClass)
}

func TestConfigResolveTimeouts(t *testing.T) {
	resolved, err := Config{TimeoutMs: 2500, PollIntervalMs: 50}.resolve()
	require.NoError(t, err)

	assert.Equal(t, 2500*time.Millisecond, resolved.Timeout)
	assert.Equal(t, 50*time.Millisecond, resolved.PollInterval)
}

func TestConfigResolveRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		setting string
	}{
		{
			name:    "unknown browser",
			cfg:     Config{Browser: "netscape"},
			setting: "browser",
		},
		{
			name:    "unknown proxy mode",
			cfg:     Config{Proxy: ProxyConfig{Mode: "pac"}},
			setting: "proxy mode",
		},
		{
			name:    "manual proxy without server",
			cfg:     Config{Proxy: ProxyConfig{Mode: ProxyManual}},
			setting: "proxy server",
		},
		{
			name:    "unknown size class",
			cfg:     Config{SizeClass: "cinema"},
			setting: "size class",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.resolve()

			var unsupported *UnsupportedConfigurationError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tt.setting, unsupported.Setting)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uiprobe.yaml")
	content := []byte(`
browser: firefox
headless: false
size_class: laptop
user_agent: uiprobe-ci
timeout_ms: 5000
proxy:
  mode: manual
  server: http://proxy.internal:3128
grid:
  url: wss://grid.example.com/playwright
  username: ci
  access_key: secret
  platform: linux
  pre_run:
    linux: "true"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, BrowserFirefox, cfg.Browser)
	require.NotNil(t, cfg.Headless)
	assert.False(t, *cfg.Headless)
	assert.Equal(t, SizeLaptop, cfg.SizeClass)
	assert.Equal(t, "uiprobe-ci", cfg.UserAgent)
	assert.Equal(t, ProxyManual, cfg.Proxy.Mode)
	assert.Equal(t, "wss://grid.example.com/playwright", cfg.Grid.URL)
	assert.Equal(t, "true", cfg.Grid.PreRun["linux"])

	resolved, err := cfg.resolve()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, resolved.Timeout)
	assert.Equal(t, Viewport{Width: 1366, Height: 768}, resolved.Viewport)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestViewportFor(t *testing.T) {
	vp, err := ViewportFor(SizeTablet)
	require.NoError(t, err)
	assert.Equal(t, Viewport{Width: 768, Height: 1024}, vp)

	_, err = ViewportFor("watch")
	var unsupported *UnsupportedConfigurationError
	require.ErrorAs(t, err, &unsupported)
}

func TestLocatorString(t *testing.T) {
	assert.Equal(t, "css=#submit", CSS("#submit").String())
	assert.Equal(t, "xpath=//button[1]", XPath("//button[1]").String())
	assert.Equal(t, "text=Log in", Text("Log in").String())
}
