package browser

import (
	"fmt"
	"time"
)

// Strategy identifies how a Locator's value is interpreted.
type Strategy string

const (
	// StrategyCSS locates by CSS selector.
	StrategyCSS Strategy = "css"

	// StrategyXPath locates by XPath expression.
	StrategyXPath Strategy = "xpath"

	// StrategyText locates by exact visible text.
	StrategyText Strategy = "text"
)

// Locator identifies zero or one target elements in a remote document.
// It is an immutable value object; two locators with the same strategy
// and value are interchangeable.
type Locator struct {
	Strategy Strategy
	Value    string
}

// CSS returns a CSS-selector locator.
func CSS(selector string) Locator {
	return Locator{Strategy: StrategyCSS, Value: selector}
}

// XPath returns an XPath locator.
func XPath(expression string) Locator {
	return Locator{Strategy: StrategyXPath, Value: expression}
}

// Text returns a visible-text locator.
func Text(text string) Locator {
	return Locator{Strategy: StrategyText, Value: text}
}

// String renders the locator as a selector engine expression,
// e.g. "css=#submit".
func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

// Viewport represents browser viewport dimensions in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Named viewport size classes.
const (
	SizeDesktop = "desktop"
	SizeLaptop  = "laptop"
	SizeTablet  = "tablet"
	SizeMobile  = "mobile"
)

// sizeClasses maps each size class name to its viewport preset.
var sizeClasses = map[string]Viewport{
	SizeDesktop: {Width: 1920, Height: 1080},
	SizeLaptop:  {Width: 1366, Height: 768},
	SizeTablet:  {Width: 768, Height: 1024},
	SizeMobile:  {Width: 375, Height: 667},
}

// ViewportFor resolves a size class name to its viewport preset.
// Unknown names are a configuration error.
func ViewportFor(sizeClass string) (Viewport, error) {
	vp, ok := sizeClasses[sizeClass]
	if !ok {
		return Viewport{}, &UnsupportedConfigurationError{Setting: "size class", Value: sizeClass}
	}
	return vp, nil
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful.
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout for the navigation itself (0 means the session default)
	Timeout time.Duration
}

// ActionOptions configures a single interaction helper call.
type ActionOptions struct {
	// Timeout is the total polling budget (0 means the session default)
	Timeout time.Duration
}

// SessionInfo contains metadata about an active browser session.
type SessionInfo struct {
	Name       string
	CurrentURL string
	Browser    string
	SizeClass  string
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// Default values for session management.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
	DefaultMaxSessions  = 5
	DefaultIdleTimeout  = 5 * time.Minute
)
