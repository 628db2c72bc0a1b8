package semantic

import (
	"strings"

	"github.com/uiparity/uiparity/internal/config"
)

// Rules evaluates semantic equivalence between element types and tags
// using the configured category lists.
type Rules struct {
	fieldTypes  []config.SemanticCategory
	buttonTypes []config.SemanticCategory
	structural  [][]string
}

// NewRules builds rules from a parsed mappings file
func NewRules(m *config.MappingsFile) *Rules {
	if m == nil {
		return &Rules{}
	}
	return &Rules{
		fieldTypes:  m.SemanticRules.FieldTypes,
		buttonTypes: m.SemanticRules.ButtonTypes,
		structural:  m.StructuralEquivalence,
	}
}

// FieldTypesEquivalent reports whether two input types are semantically
// interchangeable, naming the category that matched them. An empty type
// on either side is always equivalent since the element relies on its
// tag's default.
func (r *Rules) FieldTypesEquivalent(legacyType, modernType string) (bool, string) {
	return typesEquivalent(r.fieldTypes, legacyType, modernType)
}

// ButtonTypesEquivalent is FieldTypesEquivalent over the button
// category list.
func (r *Rules) ButtonTypesEquivalent(legacyType, modernType string) (bool, string) {
	return typesEquivalent(r.buttonTypes, legacyType, modernType)
}

func typesEquivalent(categories []config.SemanticCategory, legacyType, modernType string) (bool, string) {
	legacyType = strings.ToLower(strings.TrimSpace(legacyType))
	modernType = strings.ToLower(strings.TrimSpace(modernType))
	if legacyType == "" || modernType == "" {
		return true, ""
	}
	for _, cat := range categories {
		if typeInCategory(cat.Types, legacyType) && typeInCategory(cat.Types, modernType) {
			return true, cat.Name
		}
	}
	return legacyType == modernType, ""
}

// typeInCategory reports whether the type matches any category token.
// Tokens may be broader than the type itself ("datetime-local" matches
// type "datetime"), so matching is by containment.
func typeInCategory(tokens []string, typ string) bool {
	for _, token := range tokens {
		if strings.Contains(token, typ) {
			return true
		}
	}
	return false
}

// StructuralGroup returns the equivalence group containing both tags,
// if any. With no group covering the pair, the tags must match exactly.
func (r *Rules) StructuralGroup(legacyTag, modernTag string) ([]string, bool) {
	legacyTag = strings.ToLower(strings.TrimSpace(legacyTag))
	modernTag = strings.ToLower(strings.TrimSpace(modernTag))
	for _, group := range r.structural {
		if tagInGroup(group, legacyTag) && tagInGroup(group, modernTag) {
			return group, true
		}
	}
	return nil, legacyTag == modernTag
}

func tagInGroup(group []string, tag string) bool {
	for _, g := range group {
		if strings.EqualFold(g, tag) {
			return true
		}
	}
	return false
}
