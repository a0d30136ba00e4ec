// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/maxtype/internal/model"
)

const dayLayout = "2006-01-02"

type datedRecord struct {
	record model.ResultRecord
	at     time.Time
	ok     bool
}

// SortByCreatedAt returns a copy of records ordered newest first.
// Records with unparseable dates go last, keeping their relative order.
func SortByCreatedAt(records []model.ResultRecord) []model.ResultRecord {
	dated := sortDated(records)
	out := make([]model.ResultRecord, len(dated))
	for i, d := range dated {
		out[i] = d.record
	}
	return out
}

func sortDated(records []model.ResultRecord) []datedRecord {
	dated := make([]datedRecord, len(records))
	for i, r := range records {
		at, ok := r.CreatedTime()
		dated[i] = datedRecord{record: r, at: at, ok: ok}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		a, b := dated[i], dated[j]
		if !a.ok || !b.ok {
			return a.ok && !b.ok
		}
		return a.at.After(b.at)
	})
	return dated
}

// ComputeBasicStats aggregates records relative to the reference time now.
func ComputeBasicStats(records []model.ResultRecord, now time.Time) model.AggregateStats {
	if len(records) == 0 {
		return model.AggregateStats{}
	}
	dated := sortDated(records)

	var lastTest *time.Time
	for _, d := range dated {
		if d.ok {
			at := d.at
			lastTest = &at
			break
		}
	}

	bestWPM := records[0].Metrics.WPM
	bestAcc := records[0].Metrics.Accuracy
	var totalWPM float64
	for _, r := range records {
		if r.Metrics.WPM > bestWPM {
			bestWPM = r.Metrics.WPM
		}
		if r.Metrics.Accuracy > bestAcc {
			bestAcc = r.Metrics.Accuracy
		}
		totalWPM += r.Metrics.WPM
	}

	return model.AggregateStats{
		TotalTests:    len(records),
		BestWPM:       round2(bestWPM),
		BestAccuracy:  round2(bestAcc),
		AverageWPM:    round2(totalWPM / float64(len(records))),
		CurrentStreak: streakFromDays(activeDays(dated, now.Location()), now),
		LastTestDate:  lastTest,
	}
}

// CurrentStreak counts consecutive active days ending today or yesterday.
func CurrentStreak(records []model.ResultRecord, now time.Time) int {
	return streakFromDays(activeDays(sortDated(records), now.Location()), now)
}

func activeDays(dated []datedRecord, loc *time.Location) map[string]struct{} {
	days := make(map[string]struct{}, len(dated))
	for _, d := range dated {
		if !d.ok {
			continue
		}
		days[d.at.In(loc).Format(dayLayout)] = struct{}{}
	}
	return days
}

func streakFromDays(days map[string]struct{}, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	day := startOfDay(now)
	// No test yet today does not break the streak.
	if _, ok := days[day.Format(dayLayout)]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[day.Format(dayLayout)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween returns the number of calendar days from 'from' to 'to' in to's location.
func daysBetween(from, to time.Time) int {
	a := startOfDay(from.In(to.Location()))
	b := startOfDay(to)
	// Round absorbs 23h/25h days around DST changes.
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// round2 rounds to two decimals, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}
