package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Priority ranks how important a mapped field is to the comparison
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// FieldSelector pairs a CSS selector list with a priority. In YAML it
// may be written as a plain string, in which case the priority defaults
// to medium.
type FieldSelector struct {
	Selector string   `yaml:"selector"`
	Priority Priority `yaml:"priority"`
}

// UnmarshalYAML accepts either a plain selector string or a full
// {selector, priority} mapping.
func (f *FieldSelector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Selector = node.Value
		f.Priority = PriorityMedium
		return nil
	}
	type raw FieldSelector
	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}
	*f = FieldSelector(r)
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	return nil
}

// RoleMapping maps a semantic field role to per-environment selectors
type RoleMapping struct {
	Legacy map[string]FieldSelector `yaml:"legacy"`
	Modern map[string]FieldSelector `yaml:"modern"`
}

// FieldMappings groups role mappings by comparison area
type FieldMappings struct {
	Forms       map[string]RoleMapping `yaml:"forms"`
	Navigation  RoleMapping            `yaml:"navigation"`
	Actions     RoleMapping            `yaml:"actions"`
	DataDisplay RoleMapping            `yaml:"data_display"`
}

// SemanticCategory names a group of interchangeable type tokens.
// Categories are ordered lists so matching stays deterministic.
type SemanticCategory struct {
	Name  string   `yaml:"name"`
	Types []string `yaml:"types"`
}

// SemanticRules holds the type equivalence categories
type SemanticRules struct {
	FieldTypes  []SemanticCategory `yaml:"field_types"`
	ButtonTypes []SemanticCategory `yaml:"button_types"`
}

// MappingsFile is the parsed mappings document
type MappingsFile struct {
	FieldMappings         FieldMappings `yaml:"field_mappings"`
	SemanticRules         SemanticRules `yaml:"semantic_rules"`
	StructuralEquivalence [][]string    `yaml:"structural_equivalence"`
}

// LoadMappings reads and parses the mappings file at path
func LoadMappings(path string) (*MappingsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mappings file: %w", err)
	}
	return ParseMappings(data)
}

// ParseMappings parses a mappings document from YAML bytes
func ParseMappings(data []byte) (*MappingsFile, error) {
	var m MappingsFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing mappings: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every mapped role has selectors on both sides
func (m *MappingsFile) Validate() error {
	for formType, mapping := range m.FieldMappings.Forms {
		if err := validateRoleMapping(fmt.Sprintf("forms.%s", formType), mapping); err != nil {
			return err
		}
	}
	for _, cat := range m.SemanticRules.FieldTypes {
		if len(cat.Types) == 0 {
			return fmt.Errorf("semantic field type category %q has no types", cat.Name)
		}
	}
	for _, cat := range m.SemanticRules.ButtonTypes {
		if len(cat.Types) == 0 {
			return fmt.Errorf("semantic button type category %q has no types", cat.Name)
		}
	}
	for i, group := range m.StructuralEquivalence {
		if len(group) < 2 {
			return fmt.Errorf("structural equivalence group %d needs at least two tags", i)
		}
	}
	return nil
}

func validateRoleMapping(name string, mapping RoleMapping) error {
	for role, sel := range mapping.Legacy {
		if sel.Selector == "" {
			return fmt.Errorf("%s: legacy role %q has an empty selector", name, role)
		}
	}
	for role, sel := range mapping.Modern {
		if sel.Selector == "" {
			return fmt.Errorf("%s: modern role %q has an empty selector", name, role)
		}
	}
	return nil
}
