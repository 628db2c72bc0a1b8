// Package driver abstracts the browser page so collection and
// comparison logic never touches the automation library directly.
package driver

import "time"

// Element is a handle to a DOM element
type Element interface {
	// Text returns the element's text content
	Text() (string, error)
	// Attribute returns the named attribute's value, or "" when absent
	Attribute(name string) (string, error)
	// HasAttribute reports whether the named attribute is present
	HasAttribute(name string) (bool, error)
	// TagName returns the lowercase tag name
	TagName() (string, error)
	// Visible reports whether the element is rendered
	Visible() (bool, error)
}

// Driver is a handle to a browser page in one environment
type Driver interface {
	// Navigate loads the given URL
	Navigate(url string) error
	// WaitReady blocks until the document has finished loading
	WaitReady(timeout time.Duration) error
	// FindElements returns all elements matching a CSS selector
	FindElements(selector string) ([]Element, error)
	// Evaluate runs a JavaScript expression in the page and returns
	// its JSON-serializable result.
	Evaluate(script string) (any, error)
	// CurrentURL returns the page's current URL
	CurrentURL() string
}
