package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"fr", LanguageFR},
		{"EN", LanguageEN},
		{" de ", LanguageDE},
		{"it", LanguageIT},
		{"es", LanguageFR},
		{"", LanguageFR},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLanguage(tt.in))
		})
	}
}

func TestLanguageNextCycles(t *testing.T) {
	lang := LanguageFR
	seen := []Language{lang}
	for i := 0; i < 4; i++ {
		lang = lang.Next()
		seen = append(seen, lang)
	}
	assert.Equal(t, []Language{LanguageFR, LanguageEN, LanguageDE, LanguageIT, LanguageFR}, seen)
}

func TestBodiesBodyFallsBackToFrench(t *testing.T) {
	b := Bodies{TextFR: "bonjour", TextEN: "hello"}
	assert.Equal(t, "hello", b.Body(LanguageEN))
	assert.Equal(t, "bonjour", b.Body(Language("xx")))
	assert.Equal(t, "", b.Body(LanguageDE))
}

func TestTokenValidate(t *testing.T) {
	tests := []struct {
		name    string
		token   Token
		wantErr bool
	}{
		{"valid", Token{Token: "{name}"}, false},
		{"valid number", Token{Token: "{amount}", InputType: InputTypeNumber}, false},
		{"missing braces", Token{Token: "name"}, true},
		{"only open brace", Token{Token: "{name"}, true},
		{"two placeholders", Token{Token: "{a}{b}"}, true},
		{"empty", Token{}, true},
		{"bad input type", Token{Token: "{x}", InputType: "color"}, true},
		{"number default", Token{Token: "{n}", InputType: InputTypeNumber, Default: ptr("12.5")}, false},
		{"non-numeric default", Token{Token: "{n}", InputType: InputTypeNumber, Default: ptr("twelve")}, true},
		{"bad date default", Token{Token: "{d}", InputType: InputTypeDate, Default: ptr("31/12/2026")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.token.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
		})
	}
}

func ptr(s string) *string { return &s }

func TestInputTypeCheckValue(t *testing.T) {
	tests := []struct {
		inputType InputType
		value     string
		wantErr   bool
	}{
		{InputTypeText, "anything at all", false},
		{InputTypeNumber, "", false},
		{InputTypeNumber, "42", false},
		{InputTypeNumber, " -3.5 ", false},
		{InputTypeNumber, "1e3", false},
		{InputTypeNumber, "abc", true},
		{InputTypeNumber, "NaN", true},
		{InputTypeNumber, "Inf", true},
		{InputTypeDate, "2026-10-19", false},
		{InputTypeDate, "2026-13-01", true},
		{InputTypeDate, "19/10/2026", true},
		{InputTypeDate, "2026-10", true},
	}
	for _, tt := range tests {
		err := tt.inputType.CheckValue(tt.value)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidValue, "%s %q", tt.inputType, tt.value)
			continue
		}
		assert.NoError(t, err, "%s %q", tt.inputType, tt.value)
	}
}

func TestInputTypeAcceptsRune(t *testing.T) {
	assert.True(t, InputTypeNumber.AcceptsRune('7'))
	assert.True(t, InputTypeNumber.AcceptsRune('.'))
	assert.False(t, InputTypeNumber.AcceptsRune('a'))
	assert.True(t, InputTypeDate.AcceptsRune('-'))
	assert.False(t, InputTypeDate.AcceptsRune('/'))
	assert.True(t, InputTypeText.AcceptsRune('/'))
	assert.True(t, InputType("").AcceptsRune('x'))
}

func TestTokenDefault(t *testing.T) {
	tok := &Token{Token: "{name}"}
	_, ok := tok.DefaultValue()
	assert.False(t, ok)

	tok.SetDefault("  Bob ")
	value, ok := tok.DefaultValue()
	require.True(t, ok)
	assert.Equal(t, "Bob", value)

	tok.SetDefault("")
	assert.Nil(t, tok.Default)
}

func TestTokenJSONOmitsAbsentDefault(t *testing.T) {
	data, err := json.Marshal(Token{ID: "1", Token: "{x}", Label: "X", InputType: InputTypeText})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","token":"{x}","label":"X","input_type":"text"}`, string(data))
}

func TestTemplateJSONInlinesBodies(t *testing.T) {
	tmpl := Template{
		ID:     "t1",
		Title:  "Welcome",
		Type:   TemplateTypeEmail,
		Order:  1,
		Bodies: Bodies{TextFR: "Bonjour {name}"},
	}
	data, err := json.Marshal(tmpl)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Bonjour {name}", raw["text_fr"])
	assert.NotContains(t, raw, "Bodies")
	assert.NotContains(t, raw, "variants")
}

func TestTemplateValidate(t *testing.T) {
	valid := Template{Title: "T", Type: TemplateTypeSMS}
	require.NoError(t, valid.Validate())

	missing := Template{Type: "fax"}
	err := missing.Validate()
	require.Error(t, err)
	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.Fields, "title")
	assert.Contains(t, verrs.Fields, "type")

	dup := Template{
		Title: "T",
		Type:  TemplateTypeOther,
		Variants: []Variant{
			{ID: "v", Name: "a"},
			{ID: "v", Name: "b"},
			{Name: ""},
		},
	}
	err = dup.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate variant id")
	assert.Contains(t, err.Error(), "variant name is required")
}

func TestTemplateAllBodiesKeepsVariantsSeparate(t *testing.T) {
	tmpl := Template{
		Bodies: Bodies{TextFR: "a"},
		Variants: []Variant{
			{ID: "v1", Name: "one", Bodies: Bodies{TextEN: "b"}},
		},
	}
	assert.Equal(t, []string{"a", "", "", "", "", "b", "", ""}, tmpl.AllBodies())
	assert.Equal(t, "a", tmpl.TextFR)

	v, ok := tmpl.Variant("v1")
	require.True(t, ok)
	assert.Equal(t, "one", v.Name)
	_, ok = tmpl.Variant("missing")
	assert.False(t, ok)
}
