package driver

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PageDriver adapts a Playwright page to the Driver interface
type PageDriver struct {
	page playwright.Page
}

// NewPageDriver wraps a Playwright page
func NewPageDriver(page playwright.Page) *PageDriver {
	return &PageDriver{page: page}
}

// Navigate loads the URL and waits for DOM content
func (d *PageDriver) Navigate(url string) error {
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// WaitReady blocks until the load event has fired
func (d *PageDriver) WaitReady(timeout time.Duration) error {
	return d.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// FindElements returns all elements matching the selector
func (d *PageDriver) FindElements(selector string) ([]Element, error) {
	handles, err := d.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	elements := make([]Element, len(handles))
	for i, h := range handles {
		elements[i] = &pageElement{handle: h}
	}
	return elements, nil
}

// Evaluate runs a JavaScript expression in the page
func (d *PageDriver) Evaluate(script string) (any, error) {
	result, err := d.page.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	return result, nil
}

// CurrentURL returns the page's current URL
func (d *PageDriver) CurrentURL() string {
	return d.page.URL()
}

type pageElement struct {
	handle playwright.ElementHandle
}

func (e *pageElement) Text() (string, error) {
	text, err := e.handle.TextContent()
	if err != nil {
		return "", fmt.Errorf("text content: %w", err)
	}
	return text, nil
}

func (e *pageElement) Attribute(name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("attribute %q: %w", name, err)
	}
	return value, nil
}

func (e *pageElement) HasAttribute(name string) (bool, error) {
	result, err := e.handle.Evaluate("(el, name) => el.hasAttribute(name)", name)
	if err != nil {
		return false, fmt.Errorf("has attribute %q: %w", name, err)
	}
	has, _ := result.(bool)
	return has, nil
}

func (e *pageElement) TagName() (string, error) {
	result, err := e.handle.Evaluate("el => el.tagName.toLowerCase()")
	if err != nil {
		return "", fmt.Errorf("tag name: %w", err)
	}
	tag, _ := result.(string)
	return tag, nil
}

func (e *pageElement) Visible() (bool, error) {
	visible, err := e.handle.IsVisible()
	if err != nil {
		return false, fmt.Errorf("visibility: %w", err)
	}
	return visible, nil
}
