package semantic

import (
	"fmt"
	"strings"

	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
)

// Snapshot captures an element's comparison-relevant attributes in one
// pass so later checks never re-query the page.
func Snapshot(el driver.Element) (domain.ElementSnapshot, error) {
	var snap domain.ElementSnapshot

	tag, err := el.TagName()
	if err != nil {
		return snap, fmt.Errorf("reading tag name: %w", err)
	}
	snap.TagName = strings.ToLower(tag)

	required, err := el.HasAttribute("required")
	if err != nil {
		return snap, fmt.Errorf("reading required: %w", err)
	}
	snap.Required = required

	for _, attr := range []struct {
		name string
		dst  *string
	}{
		{"type", &snap.Type},
		{"placeholder", &snap.Placeholder},
		{"name", &snap.Name},
		{"id", &snap.ID},
		{"aria-label", &snap.AriaLabel},
		{"title", &snap.Title},
		{"role", &snap.Role},
		{"class", &snap.Class},
	} {
		value, err := el.Attribute(attr.name)
		if err != nil {
			return snap, fmt.Errorf("reading %s: %w", attr.name, err)
		}
		*attr.dst = value
	}
	snap.Type = strings.ToLower(snap.Type)
	// an input without a type attribute is a text input; other tags keep
	// an empty type so equivalence falls back to the tag default
	if snap.TagName == "input" && snap.Type == "" {
		snap.Type = "text"
	}
	return snap, nil
}

// LabelText finds the human-visible label for a form field, checking in
// priority order: placeholder, an associated <label for=...>, the
// aria-label, then the title attribute.
func LabelText(d driver.Driver, snap domain.ElementSnapshot) string {
	if snap.Placeholder != "" {
		return snap.Placeholder
	}
	if snap.ID != "" {
		labels, err := d.FindElements(fmt.Sprintf("label[for='%s']", snap.ID))
		if err == nil && len(labels) > 0 {
			if text, err := labels[0].Text(); err == nil && strings.TrimSpace(text) != "" {
				return text
			}
		}
	}
	if snap.AriaLabel != "" {
		return snap.AriaLabel
	}
	return snap.Title
}

// ActionType classifies what kind of action an element represents.
// Explicit submit wins over the tag; anchors act as links; anything
// unrecognized is unknown.
func ActionType(snap domain.ElementSnapshot) string {
	if snap.Type == "submit" {
		return "submit"
	}
	switch snap.TagName {
	case "button":
		return "button"
	case "input":
		if snap.Type != "" {
			return snap.Type
		}
		return "text"
	case "a":
		return "link"
	default:
		return "unknown"
	}
}

// Structure reduces an element to its structural shape
func Structure(snap domain.ElementSnapshot) domain.DisplayStructure {
	return domain.DisplayStructure{
		TagName: snap.TagName,
		Role:    snap.Role,
		Class:   snap.Class,
	}
}
