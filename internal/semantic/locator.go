// Package semantic compares UI elements by role rather than by markup,
// using selector mappings that pair each logical field in the legacy
// environment with its counterpart in the modern one.
package semantic

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/uiparity/uiparity/internal/driver"
)

// containsPattern matches a trailing :contains('text') pseudo-selector,
// which CSS engines do not support natively.
var containsPattern = regexp.MustCompile(`^(.*?):contains\((?:'([^']*)'|"([^"]*)")\)$`)

// FindElements resolves a comma-separated selector list against a page,
// returning the union of matches. Selectors may carry a
// :contains('text') suffix, which filters matches to those whose text
// includes the given string, ignoring case. A selector that fails to
// resolve is logged and skipped rather than failing the whole lookup.
func FindElements(d driver.Driver, selectors string, log *zap.Logger) []driver.Element {
	if strings.TrimSpace(selectors) == "" {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}

	var found []driver.Element
	for _, raw := range strings.Split(selectors, ",") {
		selector := strings.TrimSpace(raw)
		if selector == "" {
			continue
		}
		base, filter, hasFilter := parseContains(selector)

		elements, err := d.FindElements(base)
		if err != nil {
			log.Warn("selector failed, skipping",
				zap.String("selector", selector),
				zap.Error(err))
			continue
		}

		if !hasFilter {
			found = append(found, elements...)
			continue
		}
		needle := strings.ToLower(filter)
		for _, el := range elements {
			text, err := el.Text()
			if err != nil {
				log.Warn("reading element text failed, skipping",
					zap.String("selector", selector),
					zap.Error(err))
				continue
			}
			if strings.Contains(strings.ToLower(text), needle) {
				found = append(found, el)
			}
		}
	}
	return found
}

// parseContains splits a selector into its base and :contains filter.
// A bare :contains('x') applies to all elements.
func parseContains(selector string) (base, filter string, ok bool) {
	m := containsPattern.FindStringSubmatch(selector)
	if m == nil {
		return selector, "", false
	}
	base = strings.TrimSpace(m[1])
	if base == "" {
		base = "*"
	}
	filter = m[2]
	if filter == "" {
		filter = m[3]
	}
	return base, filter, true
}
