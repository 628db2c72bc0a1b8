// Package collectors gathers DOM-derived snapshots from a page via
// in-page JavaScript, returning typed Go values for the comparators.
package collectors

import "fmt"

// Script evaluation hands back loosely typed JSON values; these helpers
// coerce them without panicking on unexpected shapes.

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func toMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func toStringSlice(v any) []string {
	raw := toSlice(v)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		out = append(out, toString(item))
	}
	return out
}

func expectMap(v any, what string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("collecting %s: expected object, got %T", what, v)
	}
	return m, nil
}
