package semantic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiparity/uiparity/internal/config"
	"github.com/uiparity/uiparity/internal/domain"
	"github.com/uiparity/uiparity/internal/driver"
)

func loginMappings() *config.MappingsFile {
	return &config.MappingsFile{
		FieldMappings: config.FieldMappings{
			Forms: map[string]config.RoleMapping{
				"login": {
					Legacy: map[string]config.FieldSelector{
						"username": {Selector: "input[name='username']"},
						"password": {Selector: "input[name='password']"},
					},
					Modern: map[string]config.FieldSelector{
						"username":    {Selector: "input[data-testid='username']"},
						"password":    {Selector: "input[data-testid='password']"},
						"remember_me": {Selector: "input[data-testid='remember']"},
					},
				},
			},
			Navigation: config.RoleMapping{
				Legacy: map[string]config.FieldSelector{"home": {Selector: "a.home"}},
				Modern: map[string]config.FieldSelector{"home": {Selector: "nav a[href='/']"}},
			},
			Actions: config.RoleMapping{
				Legacy: map[string]config.FieldSelector{"submit": {Selector: "input.submit"}},
				Modern: map[string]config.FieldSelector{"submit": {Selector: "button.submit"}},
			},
			DataDisplay: config.RoleMapping{
				Legacy: map[string]config.FieldSelector{"results": {Selector: "table.results"}},
				Modern: map[string]config.FieldSelector{"results": {Selector: "div.results"}},
			},
		},
		SemanticRules: config.SemanticRules{
			FieldTypes: []config.SemanticCategory{
				{Name: "text_input", Types: []string{"text", "email"}},
			},
			ButtonTypes: []config.SemanticCategory{
				{Name: "submission", Types: []string{"submit", "button"}},
			},
		},
		StructuralEquivalence: [][]string{{"table", "div"}},
	}
}

func newLoginComparator(t *testing.T) *FieldComparator {
	t.Helper()
	return New(loginMappings(), Options{FieldCountTolerance: 2}, nil)
}

func TestCompareFormFieldsMatch(t *testing.T) {
	c := newLoginComparator(t)

	legacy := driver.NewMemoryDriver()
	legacy.Elements["input[name='username']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "text", "placeholder": "Username", "required": ""}},
	}
	legacy.Elements["input[name='password']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password", "required": ""}},
	}

	modern := driver.NewMemoryDriver()
	// type changed text -> email, label reworded slightly; both should
	// still count as the same field
	modern.Elements["input[data-testid='username']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "email", "placeholder": "User Name", "required": ""}},
	}
	modern.Elements["input[data-testid='password']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password", "required": ""}},
	}

	result, err := c.CompareFormFields(legacy, modern, "login")
	require.NoError(t, err)
	assert.True(t, result.OverallMatch)
	assert.Empty(t, result.MissingFields)

	username := result.Fields["username"]
	assert.True(t, username.Match)
	assert.True(t, username.Properties.TypeMatch, "text and email are semantically equivalent")
	assert.True(t, username.Labels.Match)
	assert.Greater(t, username.Labels.Similarity, 0.8)
}

func TestCompareFormFieldsRequiredMismatch(t *testing.T) {
	c := newLoginComparator(t)

	legacy := driver.NewMemoryDriver()
	legacy.Elements["input[name='username']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "text", "placeholder": "Username", "required": ""}},
	}
	legacy.Elements["input[name='password']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password", "required": ""}},
	}

	modern := driver.NewMemoryDriver()
	modern.Elements["input[data-testid='username']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "text", "placeholder": "Username"}},
	}
	modern.Elements["input[data-testid='password']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password", "required": ""}},
	}

	result, err := c.CompareFormFields(legacy, modern, "login")
	require.NoError(t, err)
	assert.False(t, result.OverallMatch)

	username := result.Fields["username"]
	assert.False(t, username.Match)
	assert.True(t, username.Properties.TypeMatch)
	assert.False(t, username.Properties.RequiredMatch)
	// the field exists on both sides, so it is not tagged missing
	assert.Empty(t, result.MissingFields)
}

func TestCompareFormFieldsUntypedInputIsText(t *testing.T) {
	c := newLoginComparator(t)

	legacy := driver.NewMemoryDriver()
	legacy.Elements["input[name='username']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "checkbox", "placeholder": "Username"}},
	}
	legacy.Elements["input[name='password']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password"}},
	}

	modern := driver.NewMemoryDriver()
	// dropping the type attribute makes this a text input, not a
	// wildcard that matches the legacy checkbox
	modern.Elements["input[data-testid='username']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"placeholder": "Username"}},
	}
	modern.Elements["input[data-testid='password']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password"}},
	}

	result, err := c.CompareFormFields(legacy, modern, "login")
	require.NoError(t, err)
	assert.False(t, result.OverallMatch)
	assert.False(t, result.Fields["username"].Properties.TypeMatch,
		"a checkbox is not interchangeable with an untyped input")
}

func TestCompareFormFieldsCountTolerance(t *testing.T) {
	c := newLoginComparator(t)

	field := &driver.MemoryElement{Tag: "input", Attrs: map[string]string{"type": "text", "placeholder": "Username"}}
	pass := &driver.MemoryElement{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password"}}

	legacy := driver.NewMemoryDriver()
	legacy.Elements["input[name='username']"] = []*driver.MemoryElement{field, field, field}
	legacy.Elements["input[name='password']"] = []*driver.MemoryElement{pass}

	modern := driver.NewMemoryDriver()
	modern.Elements["input[data-testid='username']"] = []*driver.MemoryElement{field}
	modern.Elements["input[data-testid='password']"] = []*driver.MemoryElement{pass}

	// difference of 2 is within the tolerance
	result, err := c.CompareFormFields(legacy, modern, "login")
	require.NoError(t, err)
	assert.True(t, result.Fields["username"].CountMatch)

	// difference of 3 is not
	legacy.Elements["input[name='username']"] = []*driver.MemoryElement{field, field, field, field}
	result, err = c.CompareFormFields(legacy, modern, "login")
	require.NoError(t, err)
	assert.False(t, result.Fields["username"].CountMatch)
	assert.False(t, result.OverallMatch)
}

func TestCompareFormFieldsMissingModernSide(t *testing.T) {
	c := newLoginComparator(t)

	legacy := driver.NewMemoryDriver()
	legacy.Elements["input[name='username']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "text", "placeholder": "Username"}},
	}
	legacy.Elements["input[name='password']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password"}},
	}

	modern := driver.NewMemoryDriver()
	modern.Elements["input[data-testid='username']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "text", "placeholder": "Username"}},
	}
	// no password field in the modern environment

	result, err := c.CompareFormFields(legacy, modern, "login")
	require.NoError(t, err)
	assert.False(t, result.OverallMatch)
	assert.Contains(t, result.MissingFields, "modern_password")
	assert.NotContains(t, result.MissingFields, "legacy_password")

	password := result.Fields["password"]
	assert.False(t, password.Match)
	assert.Equal(t, noElementsReason, password.Properties.Reason)
	assert.Equal(t, noElementsReason, password.Labels.Reason)
}

func TestCompareFormFieldsExtraFields(t *testing.T) {
	c := newLoginComparator(t)

	common := &driver.MemoryElement{Tag: "input", Attrs: map[string]string{"type": "text", "placeholder": "Username"}}
	pass := &driver.MemoryElement{Tag: "input", Attrs: map[string]string{"type": "password", "placeholder": "Password"}}

	legacy := driver.NewMemoryDriver()
	legacy.Elements["input[name='username']"] = []*driver.MemoryElement{common}
	legacy.Elements["input[name='password']"] = []*driver.MemoryElement{pass}

	modern := driver.NewMemoryDriver()
	modern.Elements["input[data-testid='username']"] = []*driver.MemoryElement{common}
	modern.Elements["input[data-testid='password']"] = []*driver.MemoryElement{pass}
	modern.Elements["input[data-testid='remember']"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "checkbox"}},
	}

	result, err := c.CompareFormFields(legacy, modern, "login")
	require.NoError(t, err)
	assert.Equal(t, []string{"remember_me"}, result.ExtraFields)
	assert.True(t, result.OverallMatch, "extra fields do not fail the form")
}

func TestCompareFormFieldsMissingMapping(t *testing.T) {
	c := newLoginComparator(t)

	_, err := c.CompareFormFields(driver.NewMemoryDriver(), driver.NewMemoryDriver(), "checkout")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMappingMissingVal))
}

func TestCompareNavigation(t *testing.T) {
	c := newLoginComparator(t)

	legacy := driver.NewMemoryDriver()
	legacy.Elements["a.home"] = []*driver.MemoryElement{{Tag: "a", TextContent: "Home"}}

	modern := driver.NewMemoryDriver()
	modern.Elements["nav a[href='/']"] = []*driver.MemoryElement{{Tag: "a", TextContent: "Home"}}

	result, err := c.CompareNavigation(legacy, modern)
	require.NoError(t, err)
	assert.True(t, result.OverallMatch)
	assert.True(t, result.Items["home"].Match)

	// nav item gone from the modern build
	modern.Elements["nav a[href='/']"] = nil
	result, err = c.CompareNavigation(legacy, modern)
	require.NoError(t, err)
	assert.False(t, result.OverallMatch)
	assert.Contains(t, result.MissingItems, "modern_home")
}

func TestCompareActions(t *testing.T) {
	c := newLoginComparator(t)

	legacy := driver.NewMemoryDriver()
	legacy.Elements["input.submit"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "submit"}, TextContent: "Log In"},
	}

	modern := driver.NewMemoryDriver()
	modern.Elements["button.submit"] = []*driver.MemoryElement{
		{Tag: "button", TextContent: "Log In"},
	}

	result, err := c.CompareActions(legacy, modern)
	require.NoError(t, err)
	assert.True(t, result.OverallMatch)

	submit := result.Actions["submit"]
	assert.Equal(t, "submit", submit.Type.LegacyType, "explicit type=submit wins")
	assert.Equal(t, "button", submit.Type.ModernType)
	assert.True(t, submit.Type.Match, "submit and button share a category")
	assert.Equal(t, "submission", submit.Type.SemanticCategory)
}

func TestCompareActionsTypeRegression(t *testing.T) {
	c := newLoginComparator(t)

	legacy := driver.NewMemoryDriver()
	legacy.Elements["input.submit"] = []*driver.MemoryElement{
		{Tag: "input", Attrs: map[string]string{"type": "submit"}, TextContent: "Log In"},
	}

	modern := driver.NewMemoryDriver()
	modern.Elements["button.submit"] = []*driver.MemoryElement{
		{Tag: "a", TextContent: "Log In"},
	}

	result, err := c.CompareActions(legacy, modern)
	require.NoError(t, err)
	assert.False(t, result.OverallMatch)
	assert.False(t, result.Actions["submit"].TypeMatch, "a link is not a submit control")
}

func TestCompareDataDisplay(t *testing.T) {
	c := newLoginComparator(t)

	legacy := driver.NewMemoryDriver()
	legacy.Elements["table.results"] = []*driver.MemoryElement{
		{Tag: "table", Attrs: map[string]string{"class": "results"}},
	}

	modern := driver.NewMemoryDriver()
	modern.Elements["div.results"] = []*driver.MemoryElement{
		{Tag: "div", Attrs: map[string]string{"role": "table", "class": "results"}},
	}

	result, err := c.CompareDataDisplay(legacy, modern)
	require.NoError(t, err)
	assert.True(t, result.OverallMatch)

	results := result.Displays["results"]
	assert.True(t, results.StructureMatch, "table and div are in an equivalence group")
	assert.Equal(t, []string{"table", "div"}, results.Structure.EquivalentGroup)

	// a tag outside any group must match exactly
	modern.Elements["div.results"] = []*driver.MemoryElement{{Tag: "span"}}
	result, err = c.CompareDataDisplay(legacy, modern)
	require.NoError(t, err)
	assert.False(t, result.OverallMatch)
}

func TestFormTypes(t *testing.T) {
	c := newLoginComparator(t)
	assert.Equal(t, []string{"login"}, c.FormTypes())

	empty := New(nil, Options{}, nil)
	assert.Nil(t, empty.FormTypes())
}
