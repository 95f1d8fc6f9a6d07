package parser

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"login-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_JSONSurroundedByProse(t *testing.T) {
	span := `{"username": "#login-user", "password": "#pw", "submit": null}`
	text := "Here is the mapping you asked for:\n```json\n" + span + "\n```\nLet me know if you need more."

	res, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, KindMapping, res.Kind)

	var direct map[string]*string
	require.NoError(t, json.Unmarshal([]byte(span), &direct))
	assert.Equal(t, len(direct), res.Mapping.Len())
	assert.Equal(t, []string{"username", "password", "submit"}, res.Mapping.Keys())

	sel, ok := res.Mapping.Selector("username")
	assert.True(t, ok)
	assert.Equal(t, "#login-user", sel)

	_, ok = res.Mapping.Selector("submit")
	assert.False(t, ok)
	assert.True(t, res.Mapping.Has("submit"))
}

func TestParse_JSONAcrossNewlines(t *testing.T) {
	text := "{\n  \"username\": \"input[name='user']\",\n  \"password\": \"#password\"\n}"

	m, err := ParseMapping(text)
	require.NoError(t, err)
	sel, ok := m.Selector("username")
	assert.True(t, ok)
	assert.Equal(t, "input[name='user']", sel)
	assert.Equal(t, 2, m.Len())
}

func TestParse_NonStringValuesAreNull(t *testing.T) {
	m, err := ParseMapping(`{"username": 12, "password": {"css": "#pw"}, "submit": "#go"}`)
	require.NoError(t, err)

	_, ok := m.Selector("username")
	assert.False(t, ok)
	_, ok = m.Selector("password")
	assert.False(t, ok)
	sel, ok := m.Selector("submit")
	assert.True(t, ok)
	assert.Equal(t, "#go", sel)
}

func TestParse_DoubleQuotedToken(t *testing.T) {
	res, err := Parse(`The best choice is "a.nav-login" because it says Login`)
	require.NoError(t, err)
	assert.Equal(t, KindSelector, res.Kind)
	assert.Equal(t, "a.nav-login", res.Selector)
}

func TestParse_SingleQuotedWinsOverDoubleQuoted(t *testing.T) {
	res, err := Parse(`Try "#second" or maybe '#first'`)
	require.NoError(t, err)
	assert.Equal(t, "#first", res.Selector)
}

func TestParse_BareToken(t *testing.T) {
	res, err := Parse("Click #sign-in-link")
	require.NoError(t, err)
	assert.Equal(t, KindSelector, res.Kind)
	assert.Equal(t, "#sign-in-link", res.Selector)
}

func TestParse_InvalidJSONFallsBackToSelector(t *testing.T) {
	res, err := Parse(`{not json} use ".btn-login"`)
	require.NoError(t, err)
	assert.Equal(t, KindSelector, res.Kind)
	assert.Equal(t, ".btn-login", res.Selector)
}

func TestParse_PlainProseFails(t *testing.T) {
	_, err := Parse("I could not find any login form on this page")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrResolutionFailure)
}

func TestParse_BlankQuotesAreIgnored(t *testing.T) {
	res, err := Parse(`'' then "  " then "#real"`)
	require.NoError(t, err)
	assert.Equal(t, "#real", res.Selector)
}

func TestParseMapping_RejectsSelectorShape(t *testing.T) {
	_, err := ParseMapping(`"#username"`)
	assert.ErrorIs(t, err, entity.ErrResolutionFailure)
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"quoted bare selector", `'.btn-login'`, ".btn-login"},
		{"unquoted single token", "  #sign-in-link\n", "#sign-in-link"},
		{"tag and class", "button.login", "button.login"},
		{"backticks", "`a#login`", "a#login"},
		{"sentence", `You should click "a.account-link" to log in.`, "a.account-link"},
		{"json selector key", `{"selector": "#login"}`, "#login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelector(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelector_Failures(t *testing.T) {
	for _, text := range []string{"", "None", "no login element here", `{"username": "#u"}`} {
		_, err := ParseSelector(text)
		assert.ErrorIs(t, err, entity.ErrResolutionFailure, "text %q", text)
	}
}

func TestParseMapping_KeepsProviderKeyOrder(t *testing.T) {
	m, err := ParseMapping(`{"zeta": "#z", "submit": null, "alpha": "#a", "zeta": "#z2", "count": 3}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "submit", "alpha", "count"}, m.Keys())
	sel, ok := m.Selector("zeta")
	assert.True(t, ok)
	assert.Equal(t, "#z2", sel)
	assert.True(t, m.Has("count"))
	_, ok = m.Selector("count")
	assert.False(t, ok)
}

func TestAbbreviate_KeepsRunesWhole(t *testing.T) {
	out := abbreviate("a" + strings.Repeat("é", 150))

	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.Equal(t, 199+len("..."), len(out))
}
