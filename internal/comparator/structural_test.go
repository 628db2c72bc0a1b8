package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiparity/uiparity/internal/domain"
)

func TestCompareTableStructure(t *testing.T) {
	c := newTestComparator()

	table := domain.TableData{
		Headers: []string{"Name", "Price"},
		Rows:    [][]string{{"Widget", "$5"}, {"Gadget", "$10"}},
	}
	assert.True(t, c.CompareTableStructure(table, table).Success)

	changed := domain.TableData{
		Headers: []string{"Name", "Cost"},
		Rows:    [][]string{{"Widget", "$5"}, {"Gadget", "$12"}},
	}
	res := c.CompareTableStructure(table, changed)
	assert.False(t, res.Success)
	diffs, ok := res.Details["differences"].([]string)
	require.True(t, ok)
	assert.Len(t, diffs, 2, "every differing header and cell is enumerated")
	assert.Contains(t, diffs[0], "header[1]")
	assert.Contains(t, diffs[1], "row[1][1]")
}

func TestCompareFormStructure(t *testing.T) {
	c := newTestComparator()

	form := domain.FormSummary{Inputs: []domain.FormInput{
		{Name: "email", Type: "email", Label: "Email", Required: true},
		{Name: "pass", Type: "password", Label: "Password", Required: true},
	}}
	assert.True(t, c.CompareFormStructure(form, form).Success)

	changed := domain.FormSummary{Inputs: []domain.FormInput{
		{Name: "email", Type: "text", Label: "Email", Required: false},
		{Name: "pass", Type: "password", Label: "Password", Required: true},
	}}
	res := c.CompareFormStructure(form, changed)
	assert.False(t, res.Success)
	diffs := res.Details["differences"].([]string)
	assert.Len(t, diffs, 2)

	fewer := domain.FormSummary{Inputs: form.Inputs[:1]}
	res = c.CompareFormStructure(form, fewer)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "input count")
}

func TestCompareMetaStructure(t *testing.T) {
	c := newTestComparator()

	legacy := map[string]string{
		"title":       "Acme Store",
		"robots":      "index,follow",
		"description": "Shop the finest widgets online",
	}
	modern := map[string]string{
		"title":       "Acme Store",
		"robots":      "index,follow",
		"description": "Shop the finest widgets online!",
	}
	// description is fuzzy; one trailing character stays above threshold
	assert.True(t, c.CompareMetaStructure(legacy, modern).Success)

	modern["title"] = "Acme Shop"
	res := c.CompareMetaStructure(legacy, modern)
	assert.False(t, res.Success, "title is an exact key")

	modern["title"] = "Acme Store"
	modern["description"] = "Completely different marketing copy"
	res = c.CompareMetaStructure(legacy, modern)
	assert.False(t, res.Success)
}

func TestCompareAccessibility(t *testing.T) {
	c := newTestComparator()

	same := map[string]int{"images_missing_alt": 2, "buttons_without_name": 0}
	assert.True(t, c.CompareAccessibility(same, same).Success)

	worse := map[string]int{"images_missing_alt": 5, "buttons_without_name": 0}
	res := c.CompareAccessibility(same, worse)
	assert.False(t, res.Success, "more issues in modern is a regression")

	better := map[string]int{"images_missing_alt": 0, "buttons_without_name": 0}
	res = c.CompareAccessibility(same, better)
	assert.True(t, res.Success, "fewer issues in modern is an improvement")
	assert.Contains(t, res.Message, "improved")
}

func TestCompareTabsAndAccordions(t *testing.T) {
	c := newTestComparator()

	tabs := []domain.TabState{{Label: "Overview", Selected: true}, {Label: "Settings", Selected: false}}
	assert.True(t, c.CompareTabs(tabs, tabs).Success)

	flipped := []domain.TabState{{Label: "Overview", Selected: false}, {Label: "Settings", Selected: true}}
	res := c.CompareTabs(tabs, flipped)
	assert.False(t, res.Success)
	assert.Len(t, res.Details["differences"].([]string), 2)

	assert.False(t, c.CompareTabs(tabs, tabs[:1]).Success)

	acc := []domain.AccordionState{{Text: "FAQ", Expanded: false}}
	assert.True(t, c.CompareAccordions(acc, acc).Success)
	open := []domain.AccordionState{{Text: "FAQ", Expanded: true}}
	assert.False(t, c.CompareAccordions(acc, open).Success)
}

func TestCompareBooleanMap(t *testing.T) {
	c := newTestComparator()

	legacy := map[string]bool{"header": true, "nav": true, "footer": true}
	modern := map[string]bool{"header": true, "nav": true, "footer": true}
	assert.True(t, c.CompareBooleanMap("landmarks", legacy, modern).Success)

	// keys only present on one side still count via the union
	modern["main"] = true
	res := c.CompareBooleanMap("landmarks", legacy, modern)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "main")
}

func TestComparePerformance(t *testing.T) {
	c := newTestComparator()

	legacy := map[string]float64{"domContentLoaded": 800, "loadEventEnd": 1500}
	modern := map[string]float64{"domContentLoaded": 1200, "loadEventEnd": 1600}
	assert.True(t, c.ComparePerformance(legacy, modern).Success, "within 500ms tolerance")

	modern["domContentLoaded"] = 1400
	res := c.ComparePerformance(legacy, modern)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "domContentLoaded")
}

func TestComparePagination(t *testing.T) {
	c := newTestComparator()

	p := domain.Pagination{Current: "2", Total: "10", HasNext: true, HasPrev: true}
	assert.True(t, c.ComparePagination(p, p).Success)

	q := p
	q.HasNext = false
	res := c.ComparePagination(p, q)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "has_next")
}

func TestCompareWidgets(t *testing.T) {
	c := newTestComparator()

	w := domain.Widgets{Toasts: []string{"Saved"}, Dialogs: nil, Tooltips: []string{"Help"}}
	assert.True(t, c.CompareWidgets(w, w).Success)

	v := domain.Widgets{Toasts: []string{"Saved", "Error"}, Tooltips: []string{"Help"}}
	res := c.CompareWidgets(w, v)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "toasts count")
}

func TestCompareImagesPreview(t *testing.T) {
	c := newTestComparator()

	imgs := []domain.ImageInfo{{Alt: "Logo", Loading: "lazy"}}
	assert.True(t, c.CompareImagesPreview(imgs, imgs).Success)

	eager := []domain.ImageInfo{{Alt: "Logo", Loading: "eager"}}
	assert.False(t, c.CompareImagesPreview(imgs, eager).Success)
	assert.False(t, c.CompareImagesPreview(imgs, nil).Success)
}

func TestCompareInteractiveRoles(t *testing.T) {
	c := newTestComparator()

	roles := []domain.RolePair{{Role: "button", Name: "Save"}, {Role: "link", Name: "Home"}}
	assert.True(t, c.CompareInteractiveRoles(roles, roles).Success)

	swapped := []domain.RolePair{{Role: "link", Name: "Home"}, {Role: "button", Name: "Save"}}
	assert.False(t, c.CompareInteractiveRoles(roles, swapped).Success, "order matters")
}

func TestCompareI18N(t *testing.T) {
	c := newTestComparator()
	assert.True(t, c.CompareI18N("en-US", "EN-us").Success)
	assert.False(t, c.CompareI18N("en", "de").Success)
}

func TestComparePageArchitecture(t *testing.T) {
	c := newTestComparator()

	legacy := domain.PageArchitecture{
		Counts: map[string]int{"headings": 4, "links": 20, "buttons": 3},
		Ratios: map[string]float64{"element_density": 0.50, "semantic_ratio": 0.30},
	}
	modern := domain.PageArchitecture{
		Counts: map[string]int{"headings": 4, "links": 20, "buttons": 3},
		Ratios: map[string]float64{"element_density": 0.55, "semantic_ratio": 0.32},
	}
	assert.True(t, c.ComparePageArchitecture(legacy, modern).Success, "ratios within 0.1 tolerance")

	// the modern side's values must actually be read from the modern
	// snapshot: identical legacy with divergent modern counts fails
	diverged := domain.PageArchitecture{
		Counts: map[string]int{"headings": 9, "links": 20, "buttons": 3},
		Ratios: modern.Ratios,
	}
	res := c.ComparePageArchitecture(legacy, diverged)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "headings: 4 vs 9")

	drifted := domain.PageArchitecture{
		Counts: legacy.Counts,
		Ratios: map[string]float64{"element_density": 0.75, "semantic_ratio": 0.30},
	}
	assert.False(t, c.ComparePageArchitecture(legacy, drifted).Success)
}

func TestCompareIframeContent(t *testing.T) {
	c := newTestComparator()

	content := domain.IframeContent{
		Documents: []domain.IframeDocument{
			{Context: domain.ContextMainDocument, Title: "Dashboard", Headings: []string{"Welcome"}, Buttons: []string{"Go"}},
			{Context: domain.ContextIframe, Index: 0, Title: "Embedded", Headings: []string{"Chart"}},
		},
		TotalIframes:      1,
		AccessibleIframes: 1,
		TotalElements:     3,
	}
	assert.True(t, c.CompareIframeContent(content, content, 5).Success)

	// element totals may drift within the tolerance
	drifted := content
	drifted.TotalElements = 7
	assert.True(t, c.CompareIframeContent(content, drifted, 5).Success)

	drifted.TotalElements = 9
	res := c.CompareIframeContent(content, drifted, 5)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "total elements")

	fewer := content
	fewer.TotalIframes = 0
	assert.False(t, c.CompareIframeContent(content, fewer, 5).Success)
}
