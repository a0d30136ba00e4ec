package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreatedAt(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-05-15T12:30:00Z", time.Date(2024, 5, 15, 12, 30, 0, 0, time.UTC), true},
		{"2024-05-15T12:30:00.250+02:00", time.Date(2024, 5, 15, 10, 30, 0, 250_000_000, time.UTC), true},
		{"2024-05-15T12:30:00", time.Date(2024, 5, 15, 12, 30, 0, 0, time.UTC), true},
		{" 2024-05-15 12:30:00 ", time.Date(2024, 5, 15, 12, 30, 0, 0, time.UTC), true},
		{"2024-05-15", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"2024-13-40", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseCreatedAt(tc.in)
		require.Equal(t, tc.ok, ok, "ParseCreatedAt(%q)", tc.in)
		if ok {
			assert.True(t, got.Equal(tc.want), "ParseCreatedAt(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("sv", "120s", "", "qwerty_sv")
	require.NoError(t, err)
	assert.Equal(t, ConfigFilter{Language: LanguageSwedish, TestDuration: Duration120, KeyboardLayout: LayoutQwertySV}, f)

	_, err = ParseFilter("", "", "", "")
	assert.NoError(t, err, "empty filter is valid")
	_, err = ParseFilter("klingon", "", "", "")
	assert.Error(t, err, "unknown language")
	_, err = ParseFilter("", "45", "", "")
	assert.Error(t, err, "unknown duration")
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, LayoutColemak.Valid())
	assert.False(t, KeyboardLayout("qwerty").Valid())
	assert.True(t, ThemeSystem.Valid())
	assert.False(t, Theme("neon").Valid())
	assert.True(t, TextPunctuation.Valid())
	assert.False(t, TextType("").Valid())
}
