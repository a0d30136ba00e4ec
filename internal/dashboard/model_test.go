package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/maxtype/internal/model"
)

var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	records []model.ResultRecord
	err     error
	filters []model.ConfigFilter
}

func (f *fakeSource) ListResults(_ context.Context, _ string, filter model.ConfigFilter) ([]model.ResultRecord, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func sampleRecords() []model.ResultRecord {
	out := make([]model.ResultRecord, 0, 3)
	for i := 0; i < 3; i++ {
		out = append(out, model.ResultRecord{
			CreatedAt: fixedNow.AddDate(0, 0, -i).Format(time.RFC3339),
			Config: model.TestConfig{
				Language:       model.LanguageEnglish,
				KeyboardLayout: model.LayoutQwertyUS,
				TestDuration:   model.Duration60,
				TextType:       model.TextWords,
			},
			Metrics: model.Metrics{WPM: float64(50 + i), NetWPM: 48, Accuracy: 96, Consistency: 80},
		})
	}
	return out
}

func newSizedModel(t *testing.T, src *fakeSource) *Model {
	t.Helper()
	m := NewModel(src, model.StatsConfig{CurveWindow: 2}, func() time.Time { return fixedNow })
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestOverviewShowsSummary(t *testing.T) {
	m := newSizedModel(t, &fakeSource{records: sampleRecords()})
	view := m.View()
	for _, want := range []string{"Overview", "Best WPM", "52.00", "Active today"} {
		assert.Contains(t, view, want)
	}
}

func TestTabsCycle(t *testing.T) {
	m := newSizedModel(t, &fakeSource{records: sampleRecords()})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabBests, m.activeTab)
	assert.Contains(t, m.View(), "Best Acc")

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, tabTrend, m.activeTab, "left from overview wraps to trend")
	assert.Contains(t, m.View(), "Learning Curve")
}

func TestEmptyAndErrorStates(t *testing.T) {
	m := newSizedModel(t, &fakeSource{})
	assert.Contains(t, m.View(), "No tests found.")

	failing := newSizedModel(t, &fakeSource{err: errors.New("db locked")})
	assert.Contains(t, failing.View(), "db locked", "error shown in footer")
}

func TestFilterFormAppliesFilter(t *testing.T) {
	src := &fakeSource{records: sampleRecords()}
	m := newSizedModel(t, src)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.filterMode)
	m.filterInputs[filterLang].SetValue("de")
	m.filterInputs[filterDuration].SetValue("60s")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.filterMode, "filter form stays open: %q", m.filterError)
	require.NotEmpty(t, src.filters)
	last := src.filters[len(src.filters)-1]
	assert.Equal(t, model.LanguageGerman, last.Language)
	assert.Equal(t, model.Duration60, last.TestDuration)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.filterInputs[filterTextType].SetValue("poems")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.filterMode, "unknown text type keeps the form open")
	assert.NotEmpty(t, m.filterError)
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.next, nextCurveWindow(tc.in), "next(%d)", tc.in)
		assert.Equal(t, tc.prev, prevCurveWindow(tc.in), "prev(%d)", tc.in)
	}
}
