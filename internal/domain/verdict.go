package domain

// ElementSnapshot is a stable view of a DOM element, captured once so the
// comparison logic never re-queries the live page.
type ElementSnapshot struct {
	TagName     string `json:"tag_name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder"`
	Name        string `json:"name"`
	ID          string `json:"id"`
	AriaLabel   string `json:"aria_label"`
	Title       string `json:"title"`
	Role        string `json:"role"`
	Class       string `json:"class"`
}

// LabelComparison is the fuzzy text verdict for a pair of labels
type LabelComparison struct {
	Match      bool    `json:"match"`
	Similarity float64 `json:"similarity"`
	LegacyText string  `json:"legacy_text"`
	ModernText string  `json:"modern_text"`
	Reason     string  `json:"reason,omitempty"`
}

// PropertyComparison is the type/required verdict for a pair of fields
type PropertyComparison struct {
	Match         bool            `json:"match"`
	TypeMatch     bool            `json:"type_match"`
	RequiredMatch bool            `json:"required_match"`
	Reason        string          `json:"reason,omitempty"`
	Legacy        ElementSnapshot `json:"legacy_properties"`
	Modern        ElementSnapshot `json:"modern_properties"`
}

// TypeComparison is the semantic action-type verdict
type TypeComparison struct {
	Match            bool   `json:"match"`
	SemanticCategory string `json:"semantic_category,omitempty"`
	LegacyType       string `json:"legacy_type,omitempty"`
	ModernType       string `json:"modern_type,omitempty"`
}

// DisplayStructure is the structural shape of a data display element
type DisplayStructure struct {
	TagName string `json:"tag_name"`
	Role    string `json:"role"`
	Class   string `json:"class"`
}

// StructureComparison is the structural-equivalence verdict
type StructureComparison struct {
	Match           bool             `json:"match"`
	EquivalentGroup []string         `json:"equivalent_group,omitempty"`
	Legacy          DisplayStructure `json:"legacy_structure"`
	Modern          DisplayStructure `json:"modern_structure"`
	Reason          string           `json:"reason,omitempty"`
}

// FieldVerdict is the per-field outcome of a form comparison. The three
// axes (count, properties, label) are independent; Match requires all.
type FieldVerdict struct {
	FieldName       string             `json:"field_name"`
	LegacyCount     int                `json:"legacy_count"`
	ModernCount     int                `json:"modern_count"`
	CountMatch      bool               `json:"count_match"`
	PropertiesMatch bool               `json:"properties_match"`
	LabelMatch      bool               `json:"label_match"`
	Match           bool               `json:"match"`
	Properties      PropertyComparison `json:"properties"`
	Labels          LabelComparison    `json:"labels"`
}

// FormComparison is the outcome of comparing one form type
type FormComparison struct {
	FormType      string                  `json:"form_type"`
	Fields        map[string]FieldVerdict `json:"field_comparisons"`
	OverallMatch  bool                    `json:"overall_match"`
	MissingFields []string                `json:"missing_fields"`
	ExtraFields   []string                `json:"extra_fields"`
}

// NavVerdict is the per-item outcome of a navigation comparison
type NavVerdict struct {
	NavType     string          `json:"nav_type"`
	LegacyCount int             `json:"legacy_count"`
	ModernCount int             `json:"modern_count"`
	CountMatch  bool            `json:"count_match"`
	TextMatch   bool            `json:"text_match"`
	Match       bool            `json:"match"`
	Text        LabelComparison `json:"details"`
}

// NavigationComparison is the outcome of comparing navigation elements
type NavigationComparison struct {
	Items        map[string]NavVerdict `json:"navigation_comparisons"`
	OverallMatch bool                  `json:"overall_match"`
	MissingItems []string              `json:"missing_nav_items"`
	ExtraItems   []string              `json:"extra_nav_items"`
}

// ActionVerdict is the per-action outcome of an action-button comparison
type ActionVerdict struct {
	ActionType  string          `json:"action_type"`
	LegacyCount int             `json:"legacy_count"`
	ModernCount int             `json:"modern_count"`
	CountMatch  bool            `json:"count_match"`
	TextMatch   bool            `json:"text_match"`
	TypeMatch   bool            `json:"type_match"`
	Match       bool            `json:"match"`
	Text        LabelComparison `json:"text"`
	Type        TypeComparison  `json:"type"`
}

// ActionComparison is the outcome of comparing action buttons
type ActionComparison struct {
	Actions        map[string]ActionVerdict `json:"action_comparisons"`
	OverallMatch   bool                     `json:"overall_match"`
	MissingActions []string                 `json:"missing_actions"`
	ExtraActions   []string                 `json:"extra_actions"`
}

// DisplayVerdict is the per-display outcome of a data-display comparison
type DisplayVerdict struct {
	DisplayType    string              `json:"display_type"`
	LegacyCount    int                 `json:"legacy_count"`
	ModernCount    int                 `json:"modern_count"`
	CountMatch     bool                `json:"count_match"`
	StructureMatch bool                `json:"structure_match"`
	Match          bool                `json:"match"`
	Structure      StructureComparison `json:"details"`
}

// DisplayComparison is the outcome of comparing data display elements
type DisplayComparison struct {
	Displays        map[string]DisplayVerdict `json:"display_comparisons"`
	OverallMatch    bool                      `json:"overall_match"`
	MissingDisplays []string                  `json:"missing_displays"`
	ExtraDisplays   []string                  `json:"extra_displays"`
}
