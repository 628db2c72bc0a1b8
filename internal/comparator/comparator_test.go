package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiparity/uiparity/internal/domain"
)

func newTestComparator() *Comparator {
	return New(Options{}, nil)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims", "  hello  ", "hello"},
		{"empty", "", ""},
		{"whitespace only", "   \t\n  ", ""},
		{"entities", "Cats &amp; Dogs &lt;3", "Cats & Dogs <3"},
		{"nbsp and copy", "Acme&nbsp;Corp &copy; 2024", "Acme Corp © 2024"},
		{"quot and apos", "&quot;it&#39;s&quot;", `"it's"`},
		{"whitespace runs", "a  b\t\tc\n\nd", "a b c d"},
		{"curly quotes", "“smart” and ‘single’", `"smart" and 'single'`},
		{"dashes", "range 1–5 — done", "range 1-5 - done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestCompareTextExact(t *testing.T) {
	c := newTestComparator()

	res := c.CompareText("  Hello &amp; Welcome  ", "Hello & Welcome", CompareExact)
	assert.True(t, res.Success)

	res = c.CompareText("Hello", "Goodbye", CompareExact)
	assert.False(t, res.Success)
	require.NotNil(t, res.Similarity)
	assert.Equal(t, 0.0, *res.Similarity)
}

func TestCompareTextFuzzy(t *testing.T) {
	c := newTestComparator()

	res := c.CompareText("Submit Order", "Submit Orders", CompareFuzzy)
	assert.True(t, res.Success)
	require.NotNil(t, res.Similarity)
	assert.Greater(t, *res.Similarity, 0.9)

	res = c.CompareText("Submit Order", "Cancel", CompareFuzzy)
	assert.False(t, res.Success)
}

func TestCompareTextSemantic(t *testing.T) {
	c := newTestComparator()

	// same words, different order
	res := c.CompareText("Welcome back, user", "user back, Welcome", CompareSemantic)
	assert.True(t, res.Success)

	// empty side always fails
	res = c.CompareText("", "something", CompareSemantic)
	assert.False(t, res.Success)
	res = c.CompareText("something", "", CompareSemantic)
	assert.False(t, res.Success)
}

func TestCompareTextPattern(t *testing.T) {
	c := newTestComparator()

	// the legacy side carries the pattern, matched against the modern text
	res := c.CompareText(`order #\d+`, "Order #12345 confirmed", ComparePattern)
	assert.True(t, res.Success, "pattern match is case-insensitive")

	res = c.CompareText(`\d+`, "no numbers here", ComparePattern)
	assert.False(t, res.Success)

	// an unanchored pattern matches anywhere in the modern text; the
	// reverse direction would find nothing
	res = c.CompareText("confirmed", "Order #12345 confirmed", ComparePattern)
	assert.True(t, res.Success)

	// invalid regex is a failed result, not a panic
	res = c.CompareText(`[unclosed`, "text", ComparePattern)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "invalid pattern")
}

func TestCompareTextUnknownType(t *testing.T) {
	c := newTestComparator()
	res := c.CompareText("a", "a", ComparisonType("bogus"))
	assert.False(t, res.Success)
}

func TestCompareTextFold(t *testing.T) {
	c := newTestComparator()
	assert.True(t, c.CompareTextFold("EN-us", "en-US").Success)
	assert.False(t, c.CompareTextFold("en", "fr").Success)
}

func TestCompareListsCount(t *testing.T) {
	c := newTestComparator()
	assert.True(t, c.CompareLists([]string{"a", "b"}, []string{"x", "y"}, CompareCount, ListOptions{}).Success)
	assert.False(t, c.CompareLists([]string{"a"}, []string{"x", "y"}, CompareCount, ListOptions{}).Success)
}

func TestCompareListsExact(t *testing.T) {
	c := newTestComparator()

	res := c.CompareLists([]string{" Home ", "About"}, []string{"Home", "About"}, CompareExact, ListOptions{})
	assert.True(t, res.Success)

	res = c.CompareLists([]string{"Home", "About"}, []string{"About", "Home"}, CompareExact, ListOptions{})
	assert.False(t, res.Success, "exact comparison is ordered")

	// partial mode tolerates reordering via set overlap
	res = c.CompareLists([]string{"Home", "About"}, []string{"About", "Home"}, CompareExact, ListOptions{AllowPartial: true})
	assert.True(t, res.Success)

	res = c.CompareLists([]string{"Home", "About"}, []string{"Home", "Contact"}, CompareExact, ListOptions{})
	assert.False(t, res.Success)
	only, ok := res.Details["only_in_legacy"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"About"}, only)
}

func TestCompareListsFuzzy(t *testing.T) {
	c := newTestComparator()

	res := c.CompareLists([]string{"Sign In", "Register"}, []string{"Sign In", "Registers"}, CompareFuzzy, ListOptions{})
	assert.True(t, res.Success)

	res = c.CompareLists([]string{"a"}, []string{"a", "b"}, CompareFuzzy, ListOptions{})
	assert.False(t, res.Success, "fuzzy list comparison requires equal lengths")

	res = c.CompareLists(nil, nil, CompareFuzzy, ListOptions{})
	assert.True(t, res.Success)
}

func TestCompareLinksFuzzy(t *testing.T) {
	c := newTestComparator()

	legacy := []domain.Link{{Text: "Home", Href: "/"}, {Text: "Products", Href: "/products"}}
	modern := []domain.Link{{Text: "Home", Href: "/"}, {Text: "Products", Href: "/products"}}
	assert.True(t, c.CompareLinks(legacy, modern, true).Success)

	// href mismatch halves that pair's score
	modern[1].Href = "/catalog"
	res := c.CompareLinks(legacy, modern, true)
	assert.False(t, res.Success)
	require.NotNil(t, res.Similarity)
	assert.InDelta(t, 0.75, *res.Similarity, 0.001)

	assert.False(t, c.CompareLinks(legacy, modern[:1], true).Success, "count mismatch fails fuzzy mode")
}

func TestCompareLinksExact(t *testing.T) {
	c := newTestComparator()

	legacy := []domain.Link{{Text: "Home", Href: "/"}, {Text: "Legacy Only", Href: "/old"}}
	modern := []domain.Link{{Text: "Home", Href: "/"}, {Text: "Modern Only", Href: "/new"}}

	res := c.CompareLinks(legacy, modern, false)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Legacy Only"}, res.Details["only_in_legacy"])
	assert.Equal(t, []string{"Modern Only"}, res.Details["only_in_modern"])
}

func TestCompareWithWeights(t *testing.T) {
	c := newTestComparator()

	score := 0.8
	parts := []WeightedComparison{
		{Name: "title", Weight: 3, Result: domain.Pass("ok")},
		{Name: "body", Weight: 1, Result: domain.ComparisonResult{Success: false, Similarity: &score}},
	}
	// (1.0*3 + 0.8*1) / 4 = 0.95 >= 0.9
	res := c.CompareWithWeights(parts)
	assert.True(t, res.Success)
	require.NotNil(t, res.Similarity)
	assert.InDelta(t, 0.95, *res.Similarity, 0.001)

	// plain fail contributes zero
	parts[1].Result = domain.Fail("no")
	res = c.CompareWithWeights(parts)
	assert.False(t, res.Success)
	assert.InDelta(t, 0.75, *res.Similarity, 0.001)

	assert.False(t, c.CompareWithWeights(nil).Success)
}

func TestNewDefaults(t *testing.T) {
	c := New(Options{}, nil)
	assert.Equal(t, 0.9, c.FuzzyThreshold())
}
