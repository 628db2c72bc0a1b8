package comparator

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/uiparity/uiparity/internal/domain"
)

// architectureCountKeys is the fixed, ordered set of element counts a
// page architecture snapshot carries. Iterating a fixed list keeps diff
// output deterministic.
var architectureCountKeys = []string{
	"headings",
	"links",
	"buttons",
	"forms",
	"inputs",
	"images",
	"tables",
	"lists",
	"sections",
	"articles",
	"semantic_elements",
	"interactive_elements",
	"total_elements",
}

// architectureRatioKeys are compared with a tolerance since densities
// shift slightly between renderings.
var architectureRatioKeys = []string{
	"element_density",
	"semantic_ratio",
	"interactive_ratio",
}

const architectureRatioTolerance = 0.1

// metaExactKeys must match exactly between environments
var metaExactKeys = []string{"title", "robots", "canonical", "og_title"}

// metaFuzzyKeys tolerate rewording up to the fuzzy threshold
var metaFuzzyKeys = []string{"description", "og_description"}

// accessibilityKeys are issue counters where lower is better
var accessibilityKeys = []string{"images_missing_alt", "buttons_without_name"}

// CompareTableStructure compares table previews, enumerating every
// differing header and cell.
func (c *Comparator) CompareTableStructure(legacy, modern domain.TableData) domain.ComparisonResult {
	var diffs []string

	if len(legacy.Headers) != len(modern.Headers) {
		diffs = append(diffs, describeCount("header count", len(legacy.Headers), len(modern.Headers)))
	} else {
		for i := range legacy.Headers {
			lh, mh := NormalizeText(legacy.Headers[i]), NormalizeText(modern.Headers[i])
			if lh != mh {
				diffs = append(diffs, fmt.Sprintf("header[%d]: %q vs %q", i, lh, mh))
			}
		}
	}

	if len(legacy.Rows) != len(modern.Rows) {
		diffs = append(diffs, describeCount("row count", len(legacy.Rows), len(modern.Rows)))
	} else {
		for i := range legacy.Rows {
			if len(legacy.Rows[i]) != len(modern.Rows[i]) {
				diffs = append(diffs, describeCount(fmt.Sprintf("row[%d] cell count", i), len(legacy.Rows[i]), len(modern.Rows[i])))
				continue
			}
			for j := range legacy.Rows[i] {
				lc, mc := NormalizeText(legacy.Rows[i][j]), NormalizeText(modern.Rows[i][j])
				if lc != mc {
					diffs = append(diffs, fmt.Sprintf("row[%d][%d]: %q vs %q", i, j, lc, mc))
				}
			}
		}
	}

	if len(diffs) == 0 {
		return domain.Passf("table structure matches (%d headers, %d rows)", len(legacy.Headers), len(legacy.Rows))
	}
	return domain.Failf("table structure differs: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareFormStructure compares form summaries input by input
func (c *Comparator) CompareFormStructure(legacy, modern domain.FormSummary) domain.ComparisonResult {
	var diffs []string

	if len(legacy.Inputs) != len(modern.Inputs) {
		diffs = append(diffs, describeCount("input count", len(legacy.Inputs), len(modern.Inputs)))
	} else {
		for i := range legacy.Inputs {
			li, mi := legacy.Inputs[i], modern.Inputs[i]
			if li.Name != mi.Name {
				diffs = append(diffs, fmt.Sprintf("input[%d] name: %q vs %q", i, li.Name, mi.Name))
			}
			if li.Type != mi.Type {
				diffs = append(diffs, fmt.Sprintf("input[%d] type: %q vs %q", i, li.Type, mi.Type))
			}
			if NormalizeText(li.Label) != NormalizeText(mi.Label) {
				diffs = append(diffs, fmt.Sprintf("input[%d] label: %q vs %q", i, li.Label, mi.Label))
			}
			if li.Required != mi.Required {
				diffs = append(diffs, fmt.Sprintf("input[%d] required: %v vs %v", i, li.Required, mi.Required))
			}
			if NormalizeText(li.Placeholder) != NormalizeText(mi.Placeholder) {
				diffs = append(diffs, fmt.Sprintf("input[%d] placeholder: %q vs %q", i, li.Placeholder, mi.Placeholder))
			}
		}
	}

	if len(diffs) == 0 {
		return domain.Passf("form structure matches (%d inputs)", len(legacy.Inputs))
	}
	return domain.Failf("form structure differs: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareMetaStructure compares page metadata. Title-like keys must
// match exactly; descriptions tolerate rewording.
func (c *Comparator) CompareMetaStructure(legacy, modern map[string]string) domain.ComparisonResult {
	var diffs []string

	for _, key := range metaExactKeys {
		lv, mv := NormalizeText(legacy[key]), NormalizeText(modern[key])
		if lv != mv {
			diffs = append(diffs, fmt.Sprintf("%s: %q vs %q", key, lv, mv))
		}
	}
	for _, key := range metaFuzzyKeys {
		lv, mv := NormalizeText(legacy[key]), NormalizeText(modern[key])
		if lv == mv {
			continue
		}
		ratio := SequenceRatio(lv, mv)
		if ratio < c.fuzzyThreshold {
			diffs = append(diffs, fmt.Sprintf("%s: similarity %.3f (%q vs %q)", key, ratio, lv, mv))
		}
	}

	if len(diffs) == 0 {
		return domain.Pass("meta structure matches")
	}
	return domain.Failf("meta structure differs: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareAccessibility compares accessibility issue counters. More
// issues in the modern environment is a regression; fewer is an
// improvement and passes with a note.
func (c *Comparator) CompareAccessibility(legacy, modern map[string]int) domain.ComparisonResult {
	var regressions, improvements []string

	for _, key := range accessibilityKeys {
		lv, mv := legacy[key], modern[key]
		switch {
		case mv > lv:
			regressions = append(regressions, describeCount(key, lv, mv))
		case mv < lv:
			improvements = append(improvements, describeCount(key, lv, mv))
		}
	}

	if len(regressions) > 0 {
		return domain.Failf("accessibility regressions: %s", strings.Join(regressions, "; ")).
			WithDetails(map[string]any{"regressions": regressions, "improvements": improvements})
	}
	if len(improvements) > 0 {
		return domain.Passf("accessibility improved: %s", strings.Join(improvements, "; ")).
			WithDetails(map[string]any{"improvements": improvements})
	}
	return domain.Pass("accessibility unchanged")
}

// CompareTabs compares tab controls as ordered (label, selected) pairs
func (c *Comparator) CompareTabs(legacy, modern []domain.TabState) domain.ComparisonResult {
	if len(legacy) != len(modern) {
		return domain.Failf("tab count mismatch: %d vs %d", len(legacy), len(modern))
	}
	var diffs []string
	for i := range legacy {
		ll, ml := NormalizeText(legacy[i].Label), NormalizeText(modern[i].Label)
		if ll != ml {
			diffs = append(diffs, fmt.Sprintf("tab[%d] label: %q vs %q", i, ll, ml))
		}
		if legacy[i].Selected != modern[i].Selected {
			diffs = append(diffs, fmt.Sprintf("tab[%d] selected: %v vs %v", i, legacy[i].Selected, modern[i].Selected))
		}
	}
	if len(diffs) == 0 {
		return domain.Passf("tabs match (%d)", len(legacy))
	}
	return domain.Failf("tabs differ: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareAccordions compares accordion sections as ordered
// (text, expanded) pairs.
func (c *Comparator) CompareAccordions(legacy, modern []domain.AccordionState) domain.ComparisonResult {
	if len(legacy) != len(modern) {
		return domain.Failf("accordion count mismatch: %d vs %d", len(legacy), len(modern))
	}
	var diffs []string
	for i := range legacy {
		lt, mt := NormalizeText(legacy[i].Text), NormalizeText(modern[i].Text)
		if lt != mt {
			diffs = append(diffs, fmt.Sprintf("accordion[%d] text: %q vs %q", i, lt, mt))
		}
		if legacy[i].Expanded != modern[i].Expanded {
			diffs = append(diffs, fmt.Sprintf("accordion[%d] expanded: %v vs %v", i, legacy[i].Expanded, modern[i].Expanded))
		}
	}
	if len(diffs) == 0 {
		return domain.Passf("accordions match (%d)", len(legacy))
	}
	return domain.Failf("accordions differ: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareBooleanMap compares presence maps (landmarks, feature flags)
// across the union of keys.
func (c *Comparator) CompareBooleanMap(name string, legacy, modern map[string]bool) domain.ComparisonResult {
	keys := unionKeys(legacy, modern)
	var diffs []string
	for _, key := range keys {
		if legacy[key] != modern[key] {
			diffs = append(diffs, fmt.Sprintf("%s: %v vs %v", key, legacy[key], modern[key]))
		}
	}
	if len(diffs) == 0 {
		return domain.Passf("%s match", name)
	}
	return domain.Failf("%s differ: %s", name, strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// ComparePerformance compares page timing metrics. Each metric may
// drift within the configured tolerance.
func (c *Comparator) ComparePerformance(legacy, modern map[string]float64) domain.ComparisonResult {
	var diffs []string
	for _, key := range []string{"domContentLoaded", "loadEventEnd"} {
		lv, mv := legacy[key], modern[key]
		delta := math.Abs(lv - mv)
		if delta > c.perfToleranceMS {
			diffs = append(diffs, fmt.Sprintf("%s: %.0fms vs %.0fms (delta %.0fms)", key, lv, mv, delta))
		}
	}
	if len(diffs) == 0 {
		return domain.Passf("performance within %.0fms tolerance", c.perfToleranceMS)
	}
	return domain.Failf("performance differs: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// ComparePagination compares pagination state field by field
func (c *Comparator) ComparePagination(legacy, modern domain.Pagination) domain.ComparisonResult {
	pairs := []struct {
		key    string
		lv, mv string
	}{
		{"current", legacy.Current, modern.Current},
		{"total", legacy.Total, modern.Total},
		{"has_next", fmt.Sprintf("%v", legacy.HasNext), fmt.Sprintf("%v", modern.HasNext)},
		{"has_prev", fmt.Sprintf("%v", legacy.HasPrev), fmt.Sprintf("%v", modern.HasPrev)},
	}
	var diffs []string
	for _, p := range pairs {
		if NormalizeText(p.lv) != NormalizeText(p.mv) {
			diffs = append(diffs, fmt.Sprintf("%s: %q vs %q", p.key, p.lv, p.mv))
		}
	}
	if len(diffs) == 0 {
		return domain.Pass("pagination matches")
	}
	return domain.Failf("pagination differs: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareWidgets compares transient widget collections
func (c *Comparator) CompareWidgets(legacy, modern domain.Widgets) domain.ComparisonResult {
	var diffs []string
	diffs = append(diffs, widgetDiffs("toasts", legacy.Toasts, modern.Toasts)...)
	diffs = append(diffs, widgetDiffs("dialogs", legacy.Dialogs, modern.Dialogs)...)
	diffs = append(diffs, widgetDiffs("tooltips", legacy.Tooltips, modern.Tooltips)...)

	if len(diffs) == 0 {
		return domain.Pass("widgets match")
	}
	return domain.Failf("widgets differ: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

func widgetDiffs(name string, legacy, modern []string) []string {
	if len(legacy) != len(modern) {
		return []string{describeCount(name+" count", len(legacy), len(modern))}
	}
	var diffs []string
	for i := range legacy {
		lv, mv := NormalizeText(legacy[i]), NormalizeText(modern[i])
		if lv != mv {
			diffs = append(diffs, fmt.Sprintf("%s[%d]: %q vs %q", name, i, lv, mv))
		}
	}
	return diffs
}

// CompareImagesPreview compares capped image previews by alt text and
// loading attribute.
func (c *Comparator) CompareImagesPreview(legacy, modern []domain.ImageInfo) domain.ComparisonResult {
	if len(legacy) != len(modern) {
		return domain.Failf("image count mismatch: %d vs %d", len(legacy), len(modern))
	}
	var diffs []string
	for i := range legacy {
		la, ma := NormalizeText(legacy[i].Alt), NormalizeText(modern[i].Alt)
		if la != ma {
			diffs = append(diffs, fmt.Sprintf("image[%d] alt: %q vs %q", i, la, ma))
		}
		ll, ml := NormalizeText(legacy[i].Loading), NormalizeText(modern[i].Loading)
		if ll != ml {
			diffs = append(diffs, fmt.Sprintf("image[%d] loading: %q vs %q", i, ll, ml))
		}
	}
	if len(diffs) == 0 {
		return domain.Passf("images match (%d)", len(legacy))
	}
	return domain.Failf("images differ: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareInteractiveRoles compares capped (role, accessible name)
// pairs in document order.
func (c *Comparator) CompareInteractiveRoles(legacy, modern []domain.RolePair) domain.ComparisonResult {
	if len(legacy) != len(modern) {
		return domain.Failf("interactive element count mismatch: %d vs %d", len(legacy), len(modern))
	}
	var diffs []string
	for i := range legacy {
		if legacy[i].Role != modern[i].Role {
			diffs = append(diffs, fmt.Sprintf("element[%d] role: %q vs %q", i, legacy[i].Role, modern[i].Role))
		}
		ln, mn := NormalizeText(legacy[i].Name), NormalizeText(modern[i].Name)
		if ln != mn {
			diffs = append(diffs, fmt.Sprintf("element[%d] name: %q vs %q", i, ln, mn))
		}
	}
	if len(diffs) == 0 {
		return domain.Passf("interactive roles match (%d)", len(legacy))
	}
	return domain.Failf("interactive roles differ: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareI18N compares document language codes, ignoring case
func (c *Comparator) CompareI18N(legacyLang, modernLang string) domain.ComparisonResult {
	if strings.EqualFold(strings.TrimSpace(legacyLang), strings.TrimSpace(modernLang)) {
		return domain.Passf("language matches (%s)", legacyLang)
	}
	return domain.Failf("language mismatch: %q vs %q", legacyLang, modernLang)
}

// ComparePageArchitecture compares element counts exactly and density
// ratios within tolerance.
func (c *Comparator) ComparePageArchitecture(legacy, modern domain.PageArchitecture) domain.ComparisonResult {
	var diffs []string

	for _, key := range architectureCountKeys {
		lv := legacy.Counts[key]
		mv := modern.Counts[key]
		if lv != mv {
			diffs = append(diffs, describeCount(key, lv, mv))
		}
	}
	for _, key := range architectureRatioKeys {
		lv := legacy.Ratios[key]
		mv := modern.Ratios[key]
		if math.Abs(lv-mv) > architectureRatioTolerance {
			diffs = append(diffs, fmt.Sprintf("%s: %.3f vs %.3f", key, lv, mv))
		}
	}

	if len(diffs) == 0 {
		return domain.Pass("page architecture matches")
	}
	return domain.Failf("page architecture differs: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

// CompareIframeContent compares content collected across browsing
// contexts: the main documents, the iframe counts, and the aggregate
// element totals within tolerance.
func (c *Comparator) CompareIframeContent(legacy, modern domain.IframeContent, elementTolerance int) domain.ComparisonResult {
	var diffs []string

	lm, mm := legacy.Main(), modern.Main()
	switch {
	case lm == nil && mm == nil:
		diffs = append(diffs, "main document missing on both sides")
	case lm == nil || mm == nil:
		diffs = append(diffs, "main document missing on one side")
	default:
		if NormalizeText(lm.Title) != NormalizeText(mm.Title) {
			diffs = append(diffs, fmt.Sprintf("main title: %q vs %q", lm.Title, mm.Title))
		}
		if lm.ElementCount() != mm.ElementCount() {
			diffs = append(diffs, describeCount("main element count", lm.ElementCount(), mm.ElementCount()))
		}
	}

	if legacy.TotalIframes != modern.TotalIframes {
		diffs = append(diffs, describeCount("total iframes", legacy.TotalIframes, modern.TotalIframes))
	}
	if legacy.AccessibleIframes != modern.AccessibleIframes {
		diffs = append(diffs, describeCount("accessible iframes", legacy.AccessibleIframes, modern.AccessibleIframes))
	}
	if delta := abs(legacy.TotalElements - modern.TotalElements); delta > elementTolerance {
		diffs = append(diffs, fmt.Sprintf("total elements: %d vs %d (delta %d, tolerance %d)",
			legacy.TotalElements, modern.TotalElements, delta, elementTolerance))
	}

	if len(diffs) == 0 {
		return domain.Passf("iframe content matches (%d iframes)", legacy.TotalIframes)
	}
	return domain.Failf("iframe content differs: %s", strings.Join(diffs, "; ")).
		WithDetails(map[string]any{"differences": diffs})
}

func unionKeys(a, b map[string]bool) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var keys []string
	for k := range a {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	for k := range b {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
