package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/maxtype/internal/model"
)

func TestGenerateSummary(t *testing.T) {
	es := record(daysAgo(1), 70, 96)
	es.Config.Language = model.LanguageSpanish
	es.Config.TestDuration = model.Duration60
	records := []model.ResultRecord{
		record(daysAgo(0), 50, 90),
		record(daysAgo(2), 60, 92),
		es,
	}
	s := GenerateSummary(records, refNow)
	assert.Equal(t, 3, s.TotalTests)
	assert.Equal(t, 70.0, s.BestWPM)
	assert.Equal(t, 60.0, s.AverageWPM)
	assert.Equal(t, 96.0, s.BestAccuracy)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, model.LanguageEnglish, s.TopLanguage)
	assert.Equal(t, model.Duration30, s.FavoriteTestDuration)
	assert.Equal(t, "Active today", s.RecentActivity)
}

func TestGenerateSummaryEmpty(t *testing.T) {
	s := GenerateSummary(nil, refNow)
	assert.Empty(t, s.TopLanguage)
	assert.Empty(t, s.FavoriteTestDuration)
	assert.Equal(t, "No recent activity", s.RecentActivity)
}

func TestGenerateSummaryTieBreak(t *testing.T) {
	sv := record(daysAgo(0), 50, 90)
	sv.Config.Language = model.LanguageSwedish
	sv.Config.TestDuration = model.Duration120
	de := record(daysAgo(0), 50, 90)
	de.Config.Language = model.LanguageGerman
	de.Config.TestDuration = model.Duration60
	for i := 0; i < 5; i++ {
		s := GenerateSummary([]model.ResultRecord{sv, de}, refNow)
		assert.Equal(t, model.LanguageGerman, s.TopLanguage, "lexicographic tie-break")
		assert.Equal(t, model.Duration120, s.FavoriteTestDuration, "lexicographic tie-break")
	}
}

func TestRecentActivity(t *testing.T) {
	at := func(d time.Duration) *time.Time {
		v := refNow.Add(-d)
		return &v
	}
	day := 24 * time.Hour
	tests := []struct {
		name string
		last *time.Time
		want string
	}{
		{name: "none", last: nil, want: "No recent activity"},
		{name: "earlier today", last: at(3 * time.Hour), want: "Active today"},
		{name: "late yesterday", last: at(13 * time.Hour), want: "Last active yesterday"},
		{name: "three days", last: at(3 * day), want: "Last active 3 days ago"},
		{name: "six days", last: at(6 * day), want: "Last active 6 days ago"},
		{name: "a week", last: at(7 * day), want: "Last active over a week ago"},
		{name: "future", last: at(-2 * time.Hour), want: "Active today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecentActivity(tt.last, refNow))
		})
	}
}
