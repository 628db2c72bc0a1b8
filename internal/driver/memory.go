package driver

import (
	"fmt"
	"time"
)

// MemoryDriver is an in-memory Driver used in tests and local dry runs.
// Selectors resolve against a static element map and scripts against a
// caller-supplied function.
type MemoryDriver struct {
	// Elements maps a selector to the elements it returns
	Elements map[string][]*MemoryElement
	// EvaluateFunc handles script evaluation. Nil means every script
	// returns nil.
	EvaluateFunc func(script string) (any, error)
	// FindErr forces FindElements to fail for specific selectors
	FindErr map[string]error
	// NavigateErr forces Navigate to fail
	NavigateErr error

	url string
	// Navigations records every URL passed to Navigate
	Navigations []string
	// Scripts records every evaluated script
	Scripts []string
}

// NewMemoryDriver creates an empty in-memory driver
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		Elements: make(map[string][]*MemoryElement),
		FindErr:  make(map[string]error),
	}
}

// Navigate records the URL, failing if NavigateErr is set
func (d *MemoryDriver) Navigate(url string) error {
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	d.url = url
	d.Navigations = append(d.Navigations, url)
	return nil
}

// WaitReady always succeeds
func (d *MemoryDriver) WaitReady(time.Duration) error { return nil }

// FindElements resolves the selector against the static element map
func (d *MemoryDriver) FindElements(selector string) ([]Element, error) {
	if err, ok := d.FindErr[selector]; ok {
		return nil, err
	}
	stored := d.Elements[selector]
	elements := make([]Element, len(stored))
	for i, el := range stored {
		elements[i] = el
	}
	return elements, nil
}

// Evaluate delegates to EvaluateFunc, recording the script
func (d *MemoryDriver) Evaluate(script string) (any, error) {
	d.Scripts = append(d.Scripts, script)
	if d.EvaluateFunc == nil {
		return nil, nil
	}
	return d.EvaluateFunc(script)
}

// CurrentURL returns the last navigated URL
func (d *MemoryDriver) CurrentURL() string { return d.url }

// MemoryElement is a static Element backed by plain fields
type MemoryElement struct {
	Tag         string
	Attrs       map[string]string
	TextContent string
	Hidden      bool
}

// Text returns the stored text content
func (e *MemoryElement) Text() (string, error) { return e.TextContent, nil }

// Attribute returns the stored attribute value, or "" when absent
func (e *MemoryElement) Attribute(name string) (string, error) {
	return e.Attrs[name], nil
}

// HasAttribute reports whether the attribute is stored
func (e *MemoryElement) HasAttribute(name string) (bool, error) {
	_, ok := e.Attrs[name]
	return ok, nil
}

// TagName returns the stored tag name
func (e *MemoryElement) TagName() (string, error) {
	if e.Tag == "" {
		return "", fmt.Errorf("element has no tag name")
	}
	return e.Tag, nil
}

// Visible reports the inverse of Hidden
func (e *MemoryElement) Visible() (bool, error) { return !e.Hidden, nil }
