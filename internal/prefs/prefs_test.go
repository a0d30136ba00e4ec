package prefs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/maxtype/internal/model"
)

func custom() model.Preferences {
	return model.Preferences{
		Language:       model.LanguageFrench,
		KeyboardLayout: model.LayoutAzertyFR,
		TestDuration:   model.Duration60,
		ShowKeyboard:   false,
		Theme:          model.ThemeDark,
		TextType:       model.TextSentences,
	}
}

func TestDefaultsAreValidAndDetached(t *testing.T) {
	d := Defaults()
	require.NoError(t, Validate(d))
	assert.True(t, IsDefault(d))

	d.Theme = model.ThemeDark
	assert.False(t, IsDefault(d))
	assert.Equal(t, model.ThemeSystem, Defaults().Theme, "mutating a copy must not change the defaults")
}

func TestShouldMigrate(t *testing.T) {
	local := custom()
	assert.True(t, ShouldMigrate(Defaults(), &local))
	assert.False(t, ShouldMigrate(custom(), &local))
	assert.False(t, ShouldMigrate(Defaults(), nil))

	invalid := custom()
	invalid.Theme = "neon"
	assert.False(t, ShouldMigrate(Defaults(), &invalid))

	almost := Defaults()
	almost.ShowKeyboard = false
	assert.False(t, ShouldMigrate(almost, &local), "any customized field blocks migration")
}

func TestMergePreferencesAcceptsCompleteCandidate(t *testing.T) {
	p, err := MergePreferences(Candidate(custom()))
	require.NoError(t, err)
	assert.Equal(t, custom(), p)
}

func TestMergePreferencesRejectsUnknownField(t *testing.T) {
	candidate := Candidate(custom())
	candidate["fontSize"] = "large"

	p, err := MergePreferences(candidate)
	require.Error(t, err)
	assert.Equal(t, model.Preferences{}, p)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("fontSize"))
	assert.Len(t, verr.Fields, 1)
}

func TestMergePreferencesListsEveryOffendingField(t *testing.T) {
	candidate := map[string]any{
		FieldLanguage:       "klingon",
		FieldKeyboardLayout: "qwerty_us",
		FieldTestDuration:   30,
		FieldShowKeyboard:   "yes",
		FieldTheme:          "light",
	}
	_, err := MergePreferences(candidate)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{FieldLanguage, FieldTestDuration, FieldShowKeyboard, FieldTextType} {
		assert.True(t, verr.Has(field), "expected %s to be reported", field)
	}
	assert.False(t, verr.Has(FieldTheme))
	assert.False(t, verr.Has(FieldKeyboardLayout))
	assert.Contains(t, err.Error(), `language: invalid value "klingon"`)
	assert.Contains(t, err.Error(), "textType: is required")
}

func TestMergePreferencesNilCandidate(t *testing.T) {
	_, err := MergePreferences(nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, len(Fields))
}

func TestValidate(t *testing.T) {
	p := custom()
	p.KeyboardLayout = "qwerty"
	p.TestDuration = "45"
	err := Validate(p)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has(FieldKeyboardLayout))
	assert.True(t, verr.Has(FieldTestDuration))
	assert.Len(t, verr.Fields, 2)
}

func TestApplyAndParseAssignments(t *testing.T) {
	changes, err := ParseAssignments([]string{"theme=dark", "showKeyboard=false", " language = sv "})
	require.NoError(t, err)

	p, err := MergePreferences(Apply(Defaults(), changes))
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, p.Theme)
	assert.Equal(t, model.LanguageSwedish, p.Language)
	assert.False(t, p.ShowKeyboard)
	assert.Equal(t, model.LayoutQwertyUS, p.KeyboardLayout)

	_, err = ParseAssignments([]string{"theme"})
	assert.Error(t, err)
	_, err = ParseAssignments([]string{"showKeyboard=maybe"})
	assert.Error(t, err)

	changes, err = ParseAssignments([]string{"colour=red"})
	require.NoError(t, err)
	_, err = MergePreferences(Apply(Defaults(), changes))
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	raw, err := EncodeSnapshot(custom())
	require.NoError(t, err)

	p, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, custom(), p)

	_, err = DecodeSnapshot(`{"language":"en"`)
	assert.Error(t, err)

	_, err = DecodeSnapshot(`{"language":"en","keyboardLayout":"qwerty_us","testDuration":"30","showKeyboard":true,"theme":"system","textType":"words","extra":1}`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("extra"))
}
