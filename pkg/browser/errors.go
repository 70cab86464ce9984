package browser

import "fmt"

// UnsupportedConfigurationError reports an unknown configuration value
// (browser kind, proxy mode, size class). It is raised during session
// setup and is never retried.
type UnsupportedConfigurationError struct {
	// Setting is the configuration field, e.g. "browser" or "proxy mode".
	Setting string

	// Value is the rejected value.
	Value string
}

// Error implements the error interface.
func (e *UnsupportedConfigurationError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Setting, e.Value)
}

// VerificationMismatchError reports that a value read back from the page
// does not match what was written. During polling it counts as a
// recoverable not-ready outcome; callers only ever see it wrapped inside
// a timeout error.
type VerificationMismatchError struct {
	Locator Locator
	Want    string
	Got     string
}

// Error implements the error interface.
func (e *VerificationMismatchError) Error() string {
	return fmt.Sprintf("value of %s is %q, want %q", e.Locator, e.Got, e.Want)
}
