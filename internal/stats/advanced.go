package stats

import (
	"sort"
	"strconv"
	"time"

	"github.com/verte-zerg/maxtype/internal/model"
)

// Trend classifies recent progress.
type Trend string

// Trend values.
const (
	TrendImproving        Trend = "improving"
	TrendStable           Trend = "stable"
	TrendDeclining        Trend = "declining"
	TrendInsufficientData Trend = "insufficient_data"
)

const (
	trendWindow       = 5
	wpmThreshold      = 2.0
	accuracyThreshold = 2.0
)

// Improvement compares the latest tests with the ones before them.
type Improvement struct {
	WPMChange      float64 `json:"wpmChange" yaml:"wpmChange"`
	AccuracyChange float64 `json:"accuracyChange" yaml:"accuracyChange"`
	Trend          Trend   `json:"trend" yaml:"trend"`
}

// AdvancedStats extends the basic aggregates with trend and personal bests.
type AdvancedStats struct {
	BasicStats         model.AggregateStats      `json:"basicStats" yaml:"basicStats"`
	RecentImprovement  Improvement               `json:"recentImprovement" yaml:"recentImprovement"`
	ConfigurationBests []model.ConfigurationBest `json:"configurationBests" yaml:"configurationBests"`
}

// ComputeAdvancedStats computes aggregates, the recent trend and per-configuration bests.
func ComputeAdvancedStats(records []model.ResultRecord, now time.Time) AdvancedStats {
	return AdvancedStats{
		BasicStats:         ComputeBasicStats(records, now),
		RecentImprovement:  RecentImprovement(records),
		ConfigurationBests: ConfigurationBests(records),
	}
}

// RecentImprovement compares the mean of the 5 newest records with the next 5.
// Fewer than 10 records yields TrendInsufficientData with zero changes.
func RecentImprovement(records []model.ResultRecord) Improvement {
	if len(records) < 2*trendWindow {
		return Improvement{Trend: TrendInsufficientData}
	}
	sorted := SortByCreatedAt(records)
	recentWPM, recentAcc := meanMetrics(sorted[:trendWindow])
	prevWPM, prevAcc := meanMetrics(sorted[trendWindow : 2*trendWindow])
	wpmDelta := recentWPM - prevWPM
	accDelta := recentAcc - prevAcc
	return Improvement{
		WPMChange:      round2(wpmDelta),
		AccuracyChange: round2(accDelta),
		Trend:          ClassifyTrend(wpmDelta, accDelta),
	}
}

func meanMetrics(records []model.ResultRecord) (wpm, accuracy float64) {
	for _, r := range records {
		wpm += r.Metrics.WPM
		accuracy += r.Metrics.Accuracy
	}
	n := float64(len(records))
	return wpm / n, accuracy / n
}

// ClassifyTrend maps metric deltas to a trend. A significant gain wins only
// when neither metric drops significantly, and the reverse for a decline.
func ClassifyTrend(wpmDelta, accuracyDelta float64) Trend {
	wpmUp := wpmDelta > wpmThreshold
	accUp := accuracyDelta > accuracyThreshold
	wpmDown := wpmDelta < -wpmThreshold
	accDown := accuracyDelta < -accuracyThreshold

	switch {
	case (wpmUp || accUp) && !wpmDown && !accDown:
		return TrendImproving
	case (wpmDown || accDown) && !wpmUp && !accUp:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// ConfigurationBests groups records by (language, duration, text type) and
// returns the bests of each group ordered by that tuple.
func ConfigurationBests(records []model.ResultRecord) []model.ConfigurationBest {
	groups := map[model.ConfigKey]*model.ConfigurationBest{}
	for _, d := range sortDated(records) {
		r := d.record
		key := model.ConfigKey{
			Language:     r.Config.Language,
			TestDuration: r.Config.TestDuration,
			TextType:     r.Config.TextType,
		}
		best, ok := groups[key]
		if !ok {
			best = &model.ConfigurationBest{
				ConfigKey:    key,
				BestWPM:      r.Metrics.WPM,
				BestAccuracy: r.Metrics.Accuracy,
			}
			groups[key] = best
		}
		best.TestsCompleted++
		if r.Metrics.WPM > best.BestWPM {
			best.BestWPM = r.Metrics.WPM
		}
		if r.Metrics.Accuracy > best.BestAccuracy {
			best.BestAccuracy = r.Metrics.Accuracy
		}
		// Records arrive newest first, so the first parseable date wins.
		if best.LastTestDate == nil && d.ok {
			at := d.at
			best.LastTestDate = &at
		}
	}

	out := make([]model.ConfigurationBest, 0, len(groups))
	for _, best := range groups {
		out = append(out, *best)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ConfigKey, out[j].ConfigKey
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		if a.TestDuration != b.TestDuration {
			return durationSeconds(a.TestDuration) < durationSeconds(b.TestDuration)
		}
		return a.TextType < b.TextType
	})
	return out
}

func durationSeconds(d model.TestDuration) int {
	n, err := strconv.Atoi(string(d))
	if err != nil {
		return 0
	}
	return n
}
