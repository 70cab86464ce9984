package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Prober is the element-lookup seam the interaction helpers probe
// through. The production implementation wraps a Playwright page; tests
// substitute a fake so the polling contract can be exercised without a
// browser.
type Prober interface {
	// Find returns the first element matching the locator, or (nil, nil)
	// when no element matches. Errors are transient remote failures.
	Find(loc Locator) (Element, error)

	// FindAll returns every element matching the locator.
	FindAll(loc Locator) ([]Element, error)
}

// Element is a handle to one element in the remote document. Every
// method is a stateless round trip; the handle may go stale at any time,
// in which case calls fail and the surrounding poll retries.
type Element interface {
	Visible() (bool, error)
	Click() error
	Clear() error
	Type(text string) error
	Value() (string, error)
	Checked() (bool, error)
	Text() (string, error)
	Attribute(name string) (string, error)
}

// pageProber implements Prober over a Playwright page.
type pageProber struct {
	page playwright.Page
}

// Find looks up a single element by locator.
func (p *pageProber) Find(loc Locator) (Element, error) {
	handle, err := p.page.QuerySelector(loc.String())
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", loc, err)
	}
	if handle == nil {
		return nil, nil
	}
	return &pageElement{handle: handle}, nil
}

// FindAll looks up every matching element.
func (p *pageProber) FindAll(loc Locator) ([]Element, error) {
	handles, err := p.page.QuerySelectorAll(loc.String())
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", loc, err)
	}
	elements := make([]Element, 0, len(handles))
	for _, handle := range handles {
		elements = append(elements, &pageElement{handle: handle})
	}
	return elements, nil
}

// pageElement implements Element over a Playwright element handle.
type pageElement struct {
	handle playwright.ElementHandle
}

func (e *pageElement) Visible() (bool, error) {
	return e.handle.IsVisible()
}

func (e *pageElement) Click() error {
	return e.handle.Click()
}

func (e *pageElement) Clear() error {
	return e.handle.Fill("")
}

func (e *pageElement) Type(text string) error {
	return e.handle.Type(text)
}

func (e *pageElement) Value() (string, error) {
	return e.handle.InputValue()
}

func (e *pageElement) Checked() (bool, error) {
	return e.handle.IsChecked()
}

func (e *pageElement) Text() (string, error) {
	return e.handle.TextContent()
}

func (e *pageElement) Attribute(name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", err
	}
	return value, nil
}
