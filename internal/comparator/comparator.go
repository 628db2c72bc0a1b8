package comparator

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/uiparity/uiparity/internal/domain"
)

// ComparisonType selects how two text values are compared
type ComparisonType string

const (
	CompareExact    ComparisonType = "exact_text"
	CompareFuzzy    ComparisonType = "fuzzy_text"
	CompareSemantic ComparisonType = "semantic_text"
	ComparePattern  ComparisonType = "pattern_match"
	CompareCount    ComparisonType = "count"
)

// Options configures comparison thresholds. Zero values fall back to
// the standard defaults.
type Options struct {
	FuzzyThreshold         float64
	SemanticThreshold      float64
	PerformanceToleranceMS float64
}

// Comparator implements the field-by-field comparison rules
type Comparator struct {
	fuzzyThreshold    float64
	semanticThreshold float64
	perfToleranceMS   float64
	log               *zap.Logger
}

// New creates a comparator with the given options
func New(opts Options, log *zap.Logger) *Comparator {
	if opts.FuzzyThreshold == 0 {
		opts.FuzzyThreshold = 0.9
	}
	if opts.SemanticThreshold == 0 {
		opts.SemanticThreshold = 0.8
	}
	if opts.PerformanceToleranceMS == 0 {
		opts.PerformanceToleranceMS = 500
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Comparator{
		fuzzyThreshold:    opts.FuzzyThreshold,
		semanticThreshold: opts.SemanticThreshold,
		perfToleranceMS:   opts.PerformanceToleranceMS,
		log:               log,
	}
}

// FuzzyThreshold returns the configured fuzzy similarity gate
func (c *Comparator) FuzzyThreshold() float64 { return c.fuzzyThreshold }

var (
	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
		"&copy;", "©",
		"&reg;", "®",
		"&trade;", "™",
	)
	punctReplacer = strings.NewReplacer(
		"‘", "'",
		"’", "'",
		"“", `"`,
		"”", `"`,
		"–", "-",
		"—", "-",
	)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// NormalizeText canonicalizes DOM text for comparison: trims, decodes
// the common HTML entities, collapses whitespace runs, and maps curly
// quotes and dashes to their ASCII forms.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = entityReplacer.Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = punctReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// NormalizeAll normalizes each element of a string slice
func NormalizeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = NormalizeText(s)
	}
	return out
}

// CompareText compares two text values under the given comparison type.
// Failures are reported as results, never as errors.
func (c *Comparator) CompareText(legacy, modern string, kind ComparisonType) domain.ComparisonResult {
	legacyNorm := NormalizeText(legacy)
	modernNorm := NormalizeText(modern)

	switch kind {
	case CompareExact:
		if legacyNorm == modernNorm {
			return domain.Pass("exact match")
		}
		return domain.Failf("text mismatch: %q vs %q", legacyNorm, modernNorm).WithScore(0)

	case CompareFuzzy:
		ratio := SequenceRatio(legacyNorm, modernNorm)
		if ratio >= c.fuzzyThreshold {
			return domain.Passf("fuzzy match (%.3f)", ratio).WithScore(ratio)
		}
		return domain.Failf("fuzzy similarity %.3f below threshold %.2f: %q vs %q",
			ratio, c.fuzzyThreshold, legacyNorm, modernNorm).WithScore(ratio)

	case CompareSemantic:
		if legacyNorm == "" || modernNorm == "" {
			return domain.Fail("semantic comparison requires text on both sides").WithScore(0)
		}
		overlap := WordJaccard(legacyNorm, modernNorm)
		if overlap >= c.semanticThreshold {
			return domain.Passf("semantic match (%.3f word overlap)", overlap).WithScore(overlap)
		}
		return domain.Failf("word overlap %.3f below threshold %.2f", overlap, c.semanticThreshold).WithScore(overlap)

	case ComparePattern:
		// the legacy value is the pattern, matched against the modern text
		re, err := regexp.Compile("(?i)" + legacyNorm)
		if err != nil {
			return domain.Failf("invalid pattern %q: %v", legacyNorm, err)
		}
		if re.MatchString(modernNorm) {
			return domain.Passf("pattern %q matched", legacyNorm)
		}
		return domain.Failf("pattern %q did not match %q", legacyNorm, modernNorm)

	default:
		return domain.Failf("unknown comparison type: %s", kind)
	}
}

// CompareTextFold is an exact comparison that ignores case
func (c *Comparator) CompareTextFold(legacy, modern string) domain.ComparisonResult {
	legacyNorm := NormalizeText(legacy)
	modernNorm := NormalizeText(modern)
	if strings.EqualFold(legacyNorm, modernNorm) {
		return domain.Pass("match (case-insensitive)")
	}
	return domain.Failf("mismatch: %q vs %q", legacyNorm, modernNorm)
}

// ListOptions tweaks list comparison behaviour
type ListOptions struct {
	// AllowPartial relaxes exact list comparison to a set-overlap check
	// gated on the fuzzy threshold.
	AllowPartial bool
}

// CompareLists compares two string slices under the given comparison type
func (c *Comparator) CompareLists(legacy, modern []string, kind ComparisonType, opts ListOptions) domain.ComparisonResult {
	legacyNorm := NormalizeAll(legacy)
	modernNorm := NormalizeAll(modern)

	switch kind {
	case CompareCount:
		if len(legacyNorm) == len(modernNorm) {
			return domain.Passf("counts match (%d)", len(legacyNorm))
		}
		return domain.Failf("count mismatch: %d vs %d", len(legacyNorm), len(modernNorm))

	case CompareExact:
		if len(legacyNorm) == len(modernNorm) {
			equal := true
			for i := range legacyNorm {
				if legacyNorm[i] != modernNorm[i] {
					equal = false
					break
				}
			}
			if equal {
				return domain.Passf("lists match (%d items)", len(legacyNorm))
			}
		}
		if opts.AllowPartial {
			overlap := SetJaccard(legacyNorm, modernNorm)
			if overlap >= c.fuzzyThreshold {
				return domain.Passf("partial list match (%.3f overlap)", overlap).WithScore(overlap)
			}
			return domain.Failf("list overlap %.3f below threshold %.2f", overlap, c.fuzzyThreshold).
				WithScore(overlap).
				WithDetails(listDiffDetails(legacyNorm, modernNorm))
		}
		return domain.Failf("lists differ (%d vs %d items)", len(legacyNorm), len(modernNorm)).
			WithDetails(listDiffDetails(legacyNorm, modernNorm))

	case CompareFuzzy:
		if len(legacyNorm) != len(modernNorm) {
			return domain.Failf("length mismatch: %d vs %d", len(legacyNorm), len(modernNorm))
		}
		if len(legacyNorm) == 0 {
			return domain.Pass("both lists empty").WithScore(1.0)
		}
		var total float64
		for i := range legacyNorm {
			total += SequenceRatio(legacyNorm[i], modernNorm[i])
		}
		avg := total / float64(len(legacyNorm))
		if avg >= c.fuzzyThreshold {
			return domain.Passf("fuzzy list match (%.3f avg)", avg).WithScore(avg)
		}
		return domain.Failf("average similarity %.3f below threshold %.2f", avg, c.fuzzyThreshold).WithScore(avg)

	default:
		return domain.Failf("unsupported list comparison type: %s", kind)
	}
}

func listDiffDetails(legacy, modern []string) map[string]any {
	modernSet := make(map[string]struct{}, len(modern))
	for _, s := range modern {
		modernSet[s] = struct{}{}
	}
	legacySet := make(map[string]struct{}, len(legacy))
	for _, s := range legacy {
		legacySet[s] = struct{}{}
	}
	var onlyLegacy, onlyModern []string
	for _, s := range legacy {
		if _, ok := modernSet[s]; !ok {
			onlyLegacy = append(onlyLegacy, s)
		}
	}
	for _, s := range modern {
		if _, ok := legacySet[s]; !ok {
			onlyModern = append(onlyModern, s)
		}
	}
	return map[string]any{
		"only_in_legacy": onlyLegacy,
		"only_in_modern": onlyModern,
	}
}

// CompareLinks compares two link collections. Fuzzy mode averages the
// text similarity and exact URL equality of positional pairs; exact
// mode reports the symmetric difference by link text.
func (c *Comparator) CompareLinks(legacy, modern []domain.Link, fuzzy bool) domain.ComparisonResult {
	if fuzzy {
		if len(legacy) != len(modern) {
			return domain.Failf("link count mismatch: %d vs %d", len(legacy), len(modern))
		}
		if len(legacy) == 0 {
			return domain.Pass("no links on either page").WithScore(1.0)
		}
		var total float64
		for i := range legacy {
			textRatio := SequenceRatio(NormalizeText(legacy[i].Text), NormalizeText(modern[i].Text))
			urlScore := 0.0
			if legacy[i].Href == modern[i].Href {
				urlScore = 1.0
			}
			total += (textRatio + urlScore) / 2
		}
		avg := total / float64(len(legacy))
		if avg >= c.fuzzyThreshold {
			return domain.Passf("links match (%.3f avg)", avg).WithScore(avg)
		}
		return domain.Failf("link similarity %.3f below threshold %.2f", avg, c.fuzzyThreshold).WithScore(avg)
	}

	legacyMap := make(map[string]string, len(legacy))
	for _, l := range legacy {
		legacyMap[NormalizeText(l.Text)] = l.Href
	}
	modernMap := make(map[string]string, len(modern))
	for _, l := range modern {
		modernMap[NormalizeText(l.Text)] = l.Href
	}

	var onlyLegacy, onlyModern []string
	mismatchedHrefs := map[string]any{}
	for text, href := range legacyMap {
		modernHref, ok := modernMap[text]
		if !ok {
			onlyLegacy = append(onlyLegacy, text)
			continue
		}
		if href != modernHref {
			mismatchedHrefs[text] = map[string]string{"legacy": href, "modern": modernHref}
		}
	}
	for text := range modernMap {
		if _, ok := legacyMap[text]; !ok {
			onlyModern = append(onlyModern, text)
		}
	}

	if len(onlyLegacy) == 0 && len(onlyModern) == 0 && len(mismatchedHrefs) == 0 {
		return domain.Passf("link maps match (%d links)", len(legacyMap))
	}
	return domain.Failf("link maps differ: %d only in legacy, %d only in modern, %d href mismatches",
		len(onlyLegacy), len(onlyModern), len(mismatchedHrefs)).
		WithDetails(map[string]any{
			"only_in_legacy":   onlyLegacy,
			"only_in_modern":   onlyModern,
			"mismatched_hrefs": mismatchedHrefs,
		})
}

// WeightedComparison pairs a sub-result with its weight
type WeightedComparison struct {
	Name   string
	Weight float64
	Result domain.ComparisonResult
}

// CompareWithWeights folds sub-results into one weighted verdict. Each
// sub-result contributes its similarity score, or 1/0 for plain
// pass/fail results without one.
func (c *Comparator) CompareWithWeights(parts []WeightedComparison) domain.ComparisonResult {
	if len(parts) == 0 {
		return domain.Fail("no comparisons to weight")
	}
	var totalWeight, weightedSum float64
	breakdown := make(map[string]any, len(parts))
	for _, p := range parts {
		score := 0.0
		if p.Result.Similarity != nil {
			score = *p.Result.Similarity
		} else if p.Result.Success {
			score = 1.0
		}
		weightedSum += score * p.Weight
		totalWeight += p.Weight
		breakdown[p.Name] = map[string]any{"score": score, "weight": p.Weight}
	}
	if totalWeight == 0 {
		return domain.Fail("total weight is zero")
	}
	final := weightedSum / totalWeight
	if final >= c.fuzzyThreshold {
		return domain.Passf("weighted score %.3f", final).WithScore(final).WithDetails(breakdown)
	}
	return domain.Failf("weighted score %.3f below threshold %.2f", final, c.fuzzyThreshold).
		WithScore(final).
		WithDetails(breakdown)
}

// describeCount renders a count pair for diff messages
func describeCount(key string, a, b int) string {
	return fmt.Sprintf("%s: %d vs %d", key, a, b)
}
