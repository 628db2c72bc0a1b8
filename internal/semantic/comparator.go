package semantic

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/uiparity/uiparity/internal/comparator"
	"github.com/uiparity/uiparity/internal/config"
	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
)

const noElementsReason = "No elements to compare"

// Options configures the field comparator thresholds
type Options struct {
	// TextSimilarityThreshold gates fuzzy label and text matches
	TextSimilarityThreshold float64
	// FieldCountTolerance is the allowed difference in element counts
	// for the same role across environments.
	FieldCountTolerance int
}

// FieldComparator compares mapped UI fields between the two
// environments by semantic role.
type FieldComparator struct {
	mappings       *config.MappingsFile
	rules          *Rules
	textThreshold  float64
	countTolerance int
	log            *zap.Logger
}

// New creates a field comparator from a mappings file
func New(mappings *config.MappingsFile, opts Options, log *zap.Logger) *FieldComparator {
	if opts.TextSimilarityThreshold == 0 {
		opts.TextSimilarityThreshold = 0.8
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FieldComparator{
		mappings:       mappings,
		rules:          NewRules(mappings),
		textThreshold:  opts.TextSimilarityThreshold,
		countTolerance: opts.FieldCountTolerance,
		log:            log,
	}
}

// FormTypes returns the configured form types in sorted order
func (c *FieldComparator) FormTypes() []string {
	if c.mappings == nil {
		return nil
	}
	types := make([]string, 0, len(c.mappings.FieldMappings.Forms))
	for t := range c.mappings.FieldMappings.Forms {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CompareFormFields compares every mapped field of a form type. A form
// type without a mapping is an error value for the caller to record.
func (c *FieldComparator) CompareFormFields(legacy, modern driver.Driver, formType string) (*domain.FormComparison, error) {
	if c.mappings == nil {
		return nil, domain.MappingMissingError("forms", formType)
	}
	mapping, ok := c.mappings.FieldMappings.Forms[formType]
	if !ok {
		return nil, domain.MappingMissingError("forms", formType)
	}

	result := &domain.FormComparison{
		FormType:      formType,
		Fields:        make(map[string]domain.FieldVerdict),
		OverallMatch:  true,
		MissingFields: []string{},
		ExtraFields:   []string{},
	}

	for _, field := range sortedKeys(mapping.Legacy) {
		legacyEls := FindElements(legacy, mapping.Legacy[field].Selector, c.log)
		modernEls := FindElements(modern, mapping.Modern[field].Selector, c.log)

		verdict := c.compareField(field, legacy, modern, legacyEls, modernEls)
		result.Fields[field] = verdict
		if !verdict.Match {
			result.OverallMatch = false
			if verdict.LegacyCount == 0 {
				result.MissingFields = append(result.MissingFields, "legacy_"+field)
			}
			if verdict.ModernCount == 0 {
				result.MissingFields = append(result.MissingFields, "modern_"+field)
			}
		}
	}

	// roles mapped only on the modern side that actually resolve are
	// additions, not regressions
	for _, field := range sortedKeys(mapping.Modern) {
		if _, mapped := mapping.Legacy[field]; mapped {
			continue
		}
		if len(FindElements(modern, mapping.Modern[field].Selector, c.log)) > 0 {
			result.ExtraFields = append(result.ExtraFields, field)
		}
	}

	return result, nil
}

func (c *FieldComparator) compareField(field string, legacy, modern driver.Driver, legacyEls, modernEls []driver.Element) domain.FieldVerdict {
	verdict := domain.FieldVerdict{
		FieldName:   field,
		LegacyCount: len(legacyEls),
		ModernCount: len(modernEls),
	}
	verdict.CountMatch = diff(len(legacyEls), len(modernEls)) <= c.countTolerance

	if len(legacyEls) == 0 || len(modernEls) == 0 {
		verdict.Properties = domain.PropertyComparison{Match: false, Reason: noElementsReason}
		verdict.Labels = domain.LabelComparison{Match: false, Reason: noElementsReason}
		verdict.Match = false
		return verdict
	}

	legacySnap, err := Snapshot(legacyEls[0])
	if err != nil {
		c.log.Warn("snapshotting legacy field failed", zap.String("field", field), zap.Error(err))
		verdict.Properties = domain.PropertyComparison{Match: false, Reason: err.Error()}
		verdict.Labels = domain.LabelComparison{Match: false, Reason: err.Error()}
		return verdict
	}
	modernSnap, err := Snapshot(modernEls[0])
	if err != nil {
		c.log.Warn("snapshotting modern field failed", zap.String("field", field), zap.Error(err))
		verdict.Properties = domain.PropertyComparison{Match: false, Reason: err.Error()}
		verdict.Labels = domain.LabelComparison{Match: false, Reason: err.Error()}
		return verdict
	}

	verdict.Properties = c.compareProperties(legacySnap, modernSnap)
	verdict.PropertiesMatch = verdict.Properties.Match
	verdict.Labels = c.compareLabels(LabelText(legacy, legacySnap), LabelText(modern, modernSnap))
	verdict.LabelMatch = verdict.Labels.Match
	verdict.Match = verdict.CountMatch && verdict.PropertiesMatch && verdict.LabelMatch
	return verdict
}

func (c *FieldComparator) compareProperties(legacy, modern domain.ElementSnapshot) domain.PropertyComparison {
	typeMatch, _ := c.rules.FieldTypesEquivalent(legacy.Type, modern.Type)
	requiredMatch := legacy.Required == modern.Required

	cmp := domain.PropertyComparison{
		Match:         typeMatch && requiredMatch,
		TypeMatch:     typeMatch,
		RequiredMatch: requiredMatch,
		Legacy:        legacy,
		Modern:        modern,
	}
	if !typeMatch {
		cmp.Reason = fmt.Sprintf("type %q not equivalent to %q", legacy.Type, modern.Type)
	} else if !requiredMatch {
		cmp.Reason = fmt.Sprintf("required %v vs %v", legacy.Required, modern.Required)
	}
	return cmp
}

func (c *FieldComparator) compareLabels(legacyText, modernText string) domain.LabelComparison {
	legacyNorm := strings.ToLower(comparator.NormalizeText(legacyText))
	modernNorm := strings.ToLower(comparator.NormalizeText(modernText))
	ratio := comparator.SequenceRatio(legacyNorm, modernNorm)

	cmp := domain.LabelComparison{
		Match:      ratio >= c.textThreshold,
		Similarity: ratio,
		LegacyText: legacyText,
		ModernText: modernText,
	}
	if !cmp.Match {
		cmp.Reason = fmt.Sprintf("similarity %.3f below threshold %.2f", ratio, c.textThreshold)
	}
	return cmp
}

// CompareNavigation compares every mapped navigation item by count and
// visible text.
func (c *FieldComparator) CompareNavigation(legacy, modern driver.Driver) (*domain.NavigationComparison, error) {
	if c.mappings == nil {
		return nil, domain.MappingMissingError("navigation", "navigation")
	}
	mapping := c.mappings.FieldMappings.Navigation

	result := &domain.NavigationComparison{
		Items:        make(map[string]domain.NavVerdict),
		OverallMatch: true,
		MissingItems: []string{},
		ExtraItems:   []string{},
	}

	for _, item := range sortedKeys(mapping.Legacy) {
		legacyEls := FindElements(legacy, mapping.Legacy[item].Selector, c.log)
		modernEls := FindElements(modern, mapping.Modern[item].Selector, c.log)

		verdict := domain.NavVerdict{
			NavType:     item,
			LegacyCount: len(legacyEls),
			ModernCount: len(modernEls),
			CountMatch:  diff(len(legacyEls), len(modernEls)) <= c.countTolerance,
		}
		if len(legacyEls) == 0 || len(modernEls) == 0 {
			verdict.Text = domain.LabelComparison{Match: false, Reason: noElementsReason}
		} else {
			verdict.Text = c.compareLabels(elementText(legacyEls[0]), elementText(modernEls[0]))
		}
		verdict.TextMatch = verdict.Text.Match
		verdict.Match = verdict.CountMatch && verdict.TextMatch

		result.Items[item] = verdict
		if !verdict.Match {
			result.OverallMatch = false
			if verdict.LegacyCount == 0 {
				result.MissingItems = append(result.MissingItems, "legacy_"+item)
			}
			if verdict.ModernCount == 0 {
				result.MissingItems = append(result.MissingItems, "modern_"+item)
			}
		}
	}

	for _, item := range sortedKeys(mapping.Modern) {
		if _, mapped := mapping.Legacy[item]; mapped {
			continue
		}
		if len(FindElements(modern, mapping.Modern[item].Selector, c.log)) > 0 {
			result.ExtraItems = append(result.ExtraItems, item)
		}
	}

	return result, nil
}

// CompareActions compares every mapped action by count, visible text,
// and semantic action type.
func (c *FieldComparator) CompareActions(legacy, modern driver.Driver) (*domain.ActionComparison, error) {
	if c.mappings == nil {
		return nil, domain.MappingMissingError("actions", "actions")
	}
	mapping := c.mappings.FieldMappings.Actions

	result := &domain.ActionComparison{
		Actions:        make(map[string]domain.ActionVerdict),
		OverallMatch:   true,
		MissingActions: []string{},
		ExtraActions:   []string{},
	}

	for _, action := range sortedKeys(mapping.Legacy) {
		legacyEls := FindElements(legacy, mapping.Legacy[action].Selector, c.log)
		modernEls := FindElements(modern, mapping.Modern[action].Selector, c.log)

		verdict := domain.ActionVerdict{
			ActionType:  action,
			LegacyCount: len(legacyEls),
			ModernCount: len(modernEls),
			CountMatch:  diff(len(legacyEls), len(modernEls)) <= c.countTolerance,
		}

		if len(legacyEls) == 0 || len(modernEls) == 0 {
			verdict.Text = domain.LabelComparison{Match: false, Reason: noElementsReason}
			verdict.Type = domain.TypeComparison{Match: false}
		} else {
			legacySnap, lerr := Snapshot(legacyEls[0])
			modernSnap, merr := Snapshot(modernEls[0])
			if lerr != nil || merr != nil {
				reason := firstError(lerr, merr).Error()
				verdict.Text = domain.LabelComparison{Match: false, Reason: reason}
				verdict.Type = domain.TypeComparison{Match: false}
			} else {
				verdict.Text = c.compareLabels(elementText(legacyEls[0]), elementText(modernEls[0]))
				legacyAction := ActionType(legacySnap)
				modernAction := ActionType(modernSnap)
				match, category := c.rules.ButtonTypesEquivalent(legacyAction, modernAction)
				verdict.Type = domain.TypeComparison{
					Match:            match,
					SemanticCategory: category,
					LegacyType:       legacyAction,
					ModernType:       modernAction,
				}
			}
		}
		verdict.TextMatch = verdict.Text.Match
		verdict.TypeMatch = verdict.Type.Match
		verdict.Match = verdict.CountMatch && verdict.TextMatch && verdict.TypeMatch

		result.Actions[action] = verdict
		if !verdict.Match {
			result.OverallMatch = false
			if verdict.LegacyCount == 0 {
				result.MissingActions = append(result.MissingActions, "legacy_"+action)
			}
			if verdict.ModernCount == 0 {
				result.MissingActions = append(result.MissingActions, "modern_"+action)
			}
		}
	}

	for _, action := range sortedKeys(mapping.Modern) {
		if _, mapped := mapping.Legacy[action]; mapped {
			continue
		}
		if len(FindElements(modern, mapping.Modern[action].Selector, c.log)) > 0 {
			result.ExtraActions = append(result.ExtraActions, action)
		}
	}

	return result, nil
}

// CompareDataDisplay compares every mapped display element by count and
// structural shape.
func (c *FieldComparator) CompareDataDisplay(legacy, modern driver.Driver) (*domain.DisplayComparison, error) {
	if c.mappings == nil {
		return nil, domain.MappingMissingError("data_display", "data_display")
	}
	mapping := c.mappings.FieldMappings.DataDisplay

	result := &domain.DisplayComparison{
		Displays:        make(map[string]domain.DisplayVerdict),
		OverallMatch:    true,
		MissingDisplays: []string{},
		ExtraDisplays:   []string{},
	}

	for _, display := range sortedKeys(mapping.Legacy) {
		legacyEls := FindElements(legacy, mapping.Legacy[display].Selector, c.log)
		modernEls := FindElements(modern, mapping.Modern[display].Selector, c.log)

		verdict := domain.DisplayVerdict{
			DisplayType: display,
			LegacyCount: len(legacyEls),
			ModernCount: len(modernEls),
			CountMatch:  diff(len(legacyEls), len(modernEls)) <= c.countTolerance,
		}

		if len(legacyEls) == 0 || len(modernEls) == 0 {
			verdict.Structure = domain.StructureComparison{Match: false, Reason: noElementsReason}
		} else {
			legacySnap, lerr := Snapshot(legacyEls[0])
			modernSnap, merr := Snapshot(modernEls[0])
			if lerr != nil || merr != nil {
				verdict.Structure = domain.StructureComparison{Match: false, Reason: firstError(lerr, merr).Error()}
			} else {
				group, match := c.rules.StructuralGroup(legacySnap.TagName, modernSnap.TagName)
				verdict.Structure = domain.StructureComparison{
					Match:           match,
					EquivalentGroup: group,
					Legacy:          Structure(legacySnap),
					Modern:          Structure(modernSnap),
				}
				if !match {
					verdict.Structure.Reason = fmt.Sprintf("tag %q not equivalent to %q", legacySnap.TagName, modernSnap.TagName)
				}
			}
		}
		verdict.StructureMatch = verdict.Structure.Match
		verdict.Match = verdict.CountMatch && verdict.StructureMatch

		result.Displays[display] = verdict
		if !verdict.Match {
			result.OverallMatch = false
			if verdict.LegacyCount == 0 {
				result.MissingDisplays = append(result.MissingDisplays, "legacy_"+display)
			}
			if verdict.ModernCount == 0 {
				result.MissingDisplays = append(result.MissingDisplays, "modern_"+display)
			}
		}
	}

	for _, display := range sortedKeys(mapping.Modern) {
		if _, mapped := mapping.Legacy[display]; mapped {
			continue
		}
		if len(FindElements(modern, mapping.Modern[display].Selector, c.log)) > 0 {
			result.ExtraDisplays = append(result.ExtraDisplays, display)
		}
	}

	return result, nil
}

func sortedKeys(m map[string]config.FieldSelector) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func elementText(el driver.Element) string {
	text, err := el.Text()
	if err != nil {
		return ""
	}
	return text
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func diff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
