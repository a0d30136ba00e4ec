// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Language is the language of the test text.
type Language string

// Supported languages.
const (
	LanguageEnglish    Language = "en"
	LanguageSpanish    Language = "es"
	LanguageFrench     Language = "fr"
	LanguageGerman     Language = "de"
	LanguageSwedish    Language = "sv"
	LanguagePortuguese Language = "pt"
)

// Languages lists every supported language.
var Languages = []Language{
	LanguageEnglish,
	LanguageSpanish,
	LanguageFrench,
	LanguageGerman,
	LanguageSwedish,
	LanguagePortuguese,
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	for _, v := range Languages {
		if l == v {
			return true
		}
	}
	return false
}

// KeyboardLayout is the physical layout the test was taken on.
type KeyboardLayout string

// Supported keyboard layouts.
const (
	LayoutQwertyUS KeyboardLayout = "qwerty_us"
	LayoutQwertySV KeyboardLayout = "qwerty_sv"
	LayoutAzertyFR KeyboardLayout = "azerty_fr"
	LayoutQwertzDE KeyboardLayout = "qwertz_de"
	LayoutQwertyES KeyboardLayout = "qwerty_es"
	LayoutQwertyPT KeyboardLayout = "qwerty_pt"
	LayoutDvorakUS KeyboardLayout = "dvorak_us"
	LayoutColemak  KeyboardLayout = "colemak"
)

// KeyboardLayouts lists every supported keyboard layout.
var KeyboardLayouts = []KeyboardLayout{
	LayoutQwertyUS,
	LayoutQwertySV,
	LayoutAzertyFR,
	LayoutQwertzDE,
	LayoutQwertyES,
	LayoutQwertyPT,
	LayoutDvorakUS,
	LayoutColemak,
}

// Valid reports whether k is a supported keyboard layout.
func (k KeyboardLayout) Valid() bool {
	for _, v := range KeyboardLayouts {
		if k == v {
			return true
		}
	}
	return false
}

// TestDuration is the test length in seconds.
type TestDuration string

// Supported test durations.
const (
	Duration30  TestDuration = "30"
	Duration60  TestDuration = "60"
	Duration120 TestDuration = "120"
)

// TestDurations lists every supported duration.
var TestDurations = []TestDuration{Duration30, Duration60, Duration120}

// Valid reports whether d is a supported duration.
func (d TestDuration) Valid() bool {
	for _, v := range TestDurations {
		if d == v {
			return true
		}
	}
	return false
}

// TextType is the kind of text used for a test.
type TextType string

// Supported text types.
const (
	TextWords       TextType = "words"
	TextSentences   TextType = "sentences"
	TextParagraphs  TextType = "paragraphs"
	TextPunctuation TextType = "punctuation"
	TextCustom      TextType = "custom"
)

// TextTypes lists every supported text type.
var TextTypes = []TextType{TextWords, TextSentences, TextParagraphs, TextPunctuation, TextCustom}

// Valid reports whether t is a supported text type.
func (t TextType) Valid() bool {
	for _, v := range TextTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Theme is the UI color scheme preference.
type Theme string

// Supported themes.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Themes lists every supported theme.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeSystem}

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	for _, v := range Themes {
		if t == v {
			return true
		}
	}
	return false
}

// TestConfig describes the settings a test was taken with.
type TestConfig struct {
	Language       Language       `json:"language" yaml:"language"`
	KeyboardLayout KeyboardLayout `json:"keyboardLayout" yaml:"keyboardLayout"`
	TestDuration   TestDuration   `json:"testDuration" yaml:"testDuration"`
	TextType       TextType       `json:"textType" yaml:"textType"`
}

// Metrics holds the performance numbers of one test.
type Metrics struct {
	WPM         float64 `json:"wpm" yaml:"wpm"`
	NetWPM      float64 `json:"netWpm" yaml:"netWpm"`
	Accuracy    float64 `json:"accuracy" yaml:"accuracy"`
	Consistency float64 `json:"consistency" yaml:"consistency"`
}

// ResultRecord captures one completed typing test.
// CreatedAt keeps the producer's raw timestamp; it may not parse.
type ResultRecord struct {
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	CreatedAt string     `json:"createdAt" yaml:"createdAt"`
	Config    TestConfig `json:"testConfig" yaml:"testConfig"`
	Metrics   Metrics    `json:"results" yaml:"results"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCreatedAt parses a record timestamp. Values without a zone are UTC.
func ParseCreatedAt(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreatedTime returns the parsed CreatedAt of the record.
func (r ResultRecord) CreatedTime() (time.Time, bool) {
	return ParseCreatedAt(r.CreatedAt)
}

// ConfigFilter selects records by configuration. Empty fields match anything.
type ConfigFilter struct {
	Language       Language
	TestDuration   TestDuration
	TextType       TextType
	KeyboardLayout KeyboardLayout
}

// ParseFilter validates filter values. Empty values match everything.
func ParseFilter(lang, duration, textType, layout string) (ConfigFilter, error) {
	f := ConfigFilter{
		Language:       Language(lang),
		TestDuration:   TestDuration(strings.TrimSuffix(duration, "s")),
		TextType:       TextType(textType),
		KeyboardLayout: KeyboardLayout(layout),
	}
	if f.Language != "" && !f.Language.Valid() {
		return ConfigFilter{}, fmt.Errorf("unknown language %q", lang)
	}
	if f.TestDuration != "" && !f.TestDuration.Valid() {
		return ConfigFilter{}, fmt.Errorf("unknown duration %q (use 30, 60 or 120)", duration)
	}
	if f.TextType != "" && !f.TextType.Valid() {
		return ConfigFilter{}, fmt.Errorf("unknown text type %q", textType)
	}
	if f.KeyboardLayout != "" && !f.KeyboardLayout.Valid() {
		return ConfigFilter{}, fmt.Errorf("unknown keyboard layout %q", layout)
	}
	return f, nil
}

// AggregateStats summarizes a set of records.
type AggregateStats struct {
	TotalTests    int        `json:"totalTests" yaml:"totalTests"`
	BestWPM       float64    `json:"bestWpm" yaml:"bestWpm"`
	BestAccuracy  float64    `json:"bestAccuracy" yaml:"bestAccuracy"`
	AverageWPM    float64    `json:"averageWpm" yaml:"averageWpm"`
	CurrentStreak int        `json:"currentStreak" yaml:"currentStreak"`
	LastTestDate  *time.Time `json:"lastTestDate,omitempty" yaml:"lastTestDate,omitempty"`
}

// ConfigKey identifies a personal-best bucket.
type ConfigKey struct {
	Language     Language     `json:"language" yaml:"language"`
	TestDuration TestDuration `json:"testDuration" yaml:"testDuration"`
	TextType     TextType     `json:"textType" yaml:"textType"`
}

// ConfigurationBest holds personal bests for one configuration tuple.
type ConfigurationBest struct {
	ConfigKey      `yaml:",inline"`
	BestWPM        float64    `json:"bestWpm" yaml:"bestWpm"`
	BestAccuracy   float64    `json:"bestAccuracy" yaml:"bestAccuracy"`
	TestsCompleted int        `json:"testsCompleted" yaml:"testsCompleted"`
	LastTestDate   *time.Time `json:"lastTestDate,omitempty" yaml:"lastTestDate,omitempty"`
}

// Preferences is the closed set of user settings.
type Preferences struct {
	Language       Language       `json:"language" yaml:"language"`
	KeyboardLayout KeyboardLayout `json:"keyboardLayout" yaml:"keyboardLayout"`
	TestDuration   TestDuration   `json:"testDuration" yaml:"testDuration"`
	ShowKeyboard   bool           `json:"showKeyboard" yaml:"showKeyboard"`
	Theme          Theme          `json:"theme" yaml:"theme"`
	TextType       TextType       `json:"textType" yaml:"textType"`
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	User        string
	Filter      ConfigFilter
	Advanced    bool
	Format      string
	CurveWindow int
}
