package stats

import (
	"fmt"
	"time"

	"github.com/verte-zerg/maxtype/internal/model"
)

// Summary is a display-oriented digest of a record set.
type Summary struct {
	TotalTests           int                `json:"totalTests" yaml:"totalTests"`
	BestWPM              float64            `json:"bestWpm" yaml:"bestWpm"`
	AverageWPM           float64            `json:"averageWpm" yaml:"averageWpm"`
	BestAccuracy         float64            `json:"bestAccuracy" yaml:"bestAccuracy"`
	CurrentStreak        int                `json:"currentStreak" yaml:"currentStreak"`
	RecentActivity       string             `json:"recentActivity" yaml:"recentActivity"`
	TopLanguage          model.Language     `json:"topLanguage,omitempty" yaml:"topLanguage,omitempty"`
	FavoriteTestDuration model.TestDuration `json:"favoriteTestDuration,omitempty" yaml:"favoriteTestDuration,omitempty"`
}

// GenerateSummary builds a Summary relative to the reference time now.
// Ties for the most used language or duration go to the lexicographically smallest value.
func GenerateSummary(records []model.ResultRecord, now time.Time) Summary {
	basic := ComputeBasicStats(records, now)

	langCounts := map[string]int{}
	durationCounts := map[string]int{}
	for _, r := range records {
		langCounts[string(r.Config.Language)]++
		durationCounts[string(r.Config.TestDuration)]++
	}

	return Summary{
		TotalTests:           basic.TotalTests,
		BestWPM:              basic.BestWPM,
		AverageWPM:           basic.AverageWPM,
		BestAccuracy:         basic.BestAccuracy,
		CurrentStreak:        basic.CurrentStreak,
		RecentActivity:       RecentActivity(basic.LastTestDate, now),
		TopLanguage:          model.Language(mostCommon(langCounts)),
		FavoriteTestDuration: model.TestDuration(mostCommon(durationCounts)),
	}
}

func mostCommon(counts map[string]int) string {
	best := ""
	bestCount := 0
	for value, count := range counts {
		if count > bestCount || (count == bestCount && value < best) {
			best = value
			bestCount = count
		}
	}
	return best
}

// RecentActivity describes how long ago the last test was, in calendar days.
func RecentActivity(lastTest *time.Time, now time.Time) string {
	if lastTest == nil {
		return "No recent activity"
	}
	days := daysBetween(*lastTest, now)
	switch {
	case days <= 0:
		return "Active today"
	case days == 1:
		return "Last active yesterday"
	case days < 7:
		return fmt.Sprintf("Last active %d days ago", days)
	default:
		return "Last active over a week ago"
	}
}
