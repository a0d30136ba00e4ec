// Package prefs validates preference records and decides guest-to-account migration.
package prefs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/maxtype/internal/model"
)

// StorageKey is the local-store key holding a guest's preferences.
const StorageKey = "maxtype-preferences"

// Field names of the preference schema.
const (
	FieldLanguage       = "language"
	FieldKeyboardLayout = "keyboardLayout"
	FieldTestDuration   = "testDuration"
	FieldShowKeyboard   = "showKeyboard"
	FieldTheme          = "theme"
	FieldTextType       = "textType"
)

// Fields lists the schema fields in canonical order.
var Fields = []string{
	FieldLanguage,
	FieldKeyboardLayout,
	FieldTestDuration,
	FieldShowKeyboard,
	FieldTheme,
	FieldTextType,
}

var defaults = model.Preferences{
	Language:       model.LanguageEnglish,
	KeyboardLayout: model.LayoutQwertyUS,
	TestDuration:   model.Duration30,
	ShowKeyboard:   true,
	Theme:          model.ThemeSystem,
	TextType:       model.TextWords,
}

// Defaults returns the default preferences.
func Defaults() model.Preferences {
	return defaults
}

// IsDefault reports whether p equals the defaults on every field.
func IsDefault(p model.Preferences) bool {
	return p == defaults
}

// ShouldMigrate reports whether a guest's local preferences should replace
// the durable ones: local must be present and valid, and durable untouched.
func ShouldMigrate(durable model.Preferences, local *model.Preferences) bool {
	if local == nil {
		return false
	}
	if Validate(*local) != nil {
		return false
	}
	return IsDefault(durable)
}

// Validate checks that every field of p is within its domain.
func Validate(p model.Preferences) error {
	var verr ValidationError
	if !p.Language.Valid() {
		verr.add(FieldLanguage, invalidChoice(string(p.Language)))
	}
	if !p.KeyboardLayout.Valid() {
		verr.add(FieldKeyboardLayout, invalidChoice(string(p.KeyboardLayout)))
	}
	if !p.TestDuration.Valid() {
		verr.add(FieldTestDuration, invalidChoice(string(p.TestDuration)))
	}
	if !p.Theme.Valid() {
		verr.add(FieldTheme, invalidChoice(string(p.Theme)))
	}
	if !p.TextType.Valid() {
		verr.add(FieldTextType, invalidChoice(string(p.TextType)))
	}
	return verr.errOrNil()
}

// MergePreferences validates an untyped candidate against the closed schema.
// Every field is required, no other field is allowed, and each value must be
// of the right type and within its domain. On failure the returned
// *ValidationError lists all offending fields.
func MergePreferences(candidate map[string]any) (model.Preferences, error) {
	var verr ValidationError
	if candidate == nil {
		for _, f := range Fields {
			verr.add(f, "is required")
		}
		return model.Preferences{}, &verr
	}

	unknown := make([]string, 0)
	for key := range candidate {
		if !isField(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		verr.add(key, "unknown field")
	}

	var p model.Preferences
	p.Language = model.Language(enumField(&verr, candidate, FieldLanguage, func(v string) bool {
		return model.Language(v).Valid()
	}))
	p.KeyboardLayout = model.KeyboardLayout(enumField(&verr, candidate, FieldKeyboardLayout, func(v string) bool {
		return model.KeyboardLayout(v).Valid()
	}))
	p.TestDuration = model.TestDuration(enumField(&verr, candidate, FieldTestDuration, func(v string) bool {
		return model.TestDuration(v).Valid()
	}))
	p.Theme = model.Theme(enumField(&verr, candidate, FieldTheme, func(v string) bool {
		return model.Theme(v).Valid()
	}))
	p.TextType = model.TextType(enumField(&verr, candidate, FieldTextType, func(v string) bool {
		return model.TextType(v).Valid()
	}))
	if raw, ok := candidate[FieldShowKeyboard]; !ok {
		verr.add(FieldShowKeyboard, "is required")
	} else if b, ok := raw.(bool); !ok {
		verr.add(FieldShowKeyboard, "must be a boolean")
	} else {
		p.ShowKeyboard = b
	}

	if err := verr.errOrNil(); err != nil {
		return model.Preferences{}, err
	}
	return p, nil
}

func enumField(verr *ValidationError, candidate map[string]any, field string, valid func(string) bool) string {
	raw, ok := candidate[field]
	if !ok {
		verr.add(field, "is required")
		return ""
	}
	v, ok := raw.(string)
	if !ok {
		verr.add(field, "must be a string")
		return ""
	}
	if !valid(v) {
		verr.add(field, invalidChoice(v))
		return ""
	}
	return v
}

func isField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

func invalidChoice(v string) string {
	return fmt.Sprintf("invalid value %q", v)
}

// Candidate converts typed preferences to the untyped candidate form.
func Candidate(p model.Preferences) map[string]any {
	return map[string]any{
		FieldLanguage:       string(p.Language),
		FieldKeyboardLayout: string(p.KeyboardLayout),
		FieldTestDuration:   string(p.TestDuration),
		FieldShowKeyboard:   p.ShowKeyboard,
		FieldTheme:          string(p.Theme),
		FieldTextType:       string(p.TextType),
	}
}

// Apply overlays changes on base and returns the resulting candidate.
// Unknown keys are carried over so that MergePreferences rejects them.
func Apply(base model.Preferences, changes map[string]any) map[string]any {
	out := Candidate(base)
	for k, v := range changes {
		out[k] = v
	}
	return out
}

// ParseAssignments turns "key=value" pairs into a change set. The value of
// showKeyboard is parsed as a boolean; other values stay strings.
func ParseAssignments(args []string) (map[string]any, error) {
	changes := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		value = strings.TrimSpace(value)
		if key == FieldShowKeyboard {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%s must be true or false, got %q", key, value)
			}
			changes[key] = b
			continue
		}
		changes[key] = value
	}
	return changes, nil
}

// DecodeSnapshot parses a stored JSON snapshot through the strict schema.
func DecodeSnapshot(raw string) (model.Preferences, error) {
	var candidate map[string]any
	if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
		return model.Preferences{}, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return MergePreferences(candidate)
}

// EncodeSnapshot renders p as the JSON stored in the local tier.
func EncodeSnapshot(p model.Preferences) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode preferences: %w", err)
	}
	return string(raw), nil
}
