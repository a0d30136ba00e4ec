package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/maxtype/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	trendLabelWidth     = 12
)

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TerminalWidth returns the width of stdout, or a fallback when it is not a terminal.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return terminalWidthBackup
}

// RenderSummary prints the summary block.
func RenderSummary(w io.Writer, s Summary) error {
	if s.TotalTests == 0 {
		_, err := fmt.Fprintln(w, "No tests found.")
		return err
	}
	rows := [][]string{
		{"Tests", fmt.Sprintf("%d", s.TotalTests)},
		{"Best WPM", fmt.Sprintf("%.2f", s.BestWPM)},
		{"Average WPM", fmt.Sprintf("%.2f", s.AverageWPM)},
		{"Best accuracy", fmt.Sprintf("%.2f%%", s.BestAccuracy)},
		{"Streak", pluralDays(s.CurrentStreak)},
		{"Activity", s.RecentActivity},
		{"Top language", orDash(string(s.TopLanguage))},
		{"Favorite duration", orDash(durationLabel(s.FavoriteTestDuration))},
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	return writeLines(w, keyValueTable(rows))
}

// RenderAdvanced prints the trend and the personal bests table.
func RenderAdvanced(w io.Writer, a AdvancedStats) error {
	imp := a.RecentImprovement
	if _, err := fmt.Fprintln(w, "Recent Trend"); err != nil {
		return err
	}
	if imp.Trend == TrendInsufficientData {
		if _, err := fmt.Fprintf(w, "Not enough tests yet (need %d).\n\n", 2*trendWindow); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "%s: WPM %+.2f, accuracy %+.2f\n\n", imp.Trend, imp.WPMChange, imp.AccuracyChange); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Personal Bests"); err != nil {
		return err
	}
	if len(a.ConfigurationBests) == 0 {
		_, err := fmt.Fprintln(w, "No personal bests yet.")
		return err
	}
	return writeLines(w, bestsTable(a.ConfigurationBests))
}

// RenderTrend prints smoothed WPM and accuracy sparklines, oldest to newest.
func RenderTrend(w io.Writer, records []model.ResultRecord, window, totalWidth int) error {
	if len(records) == 0 {
		return nil
	}
	sorted := SortByCreatedAt(records)
	wpms := make([]float64, len(sorted))
	accs := make([]float64, len(sorted))
	for i, r := range sorted {
		j := len(sorted) - 1 - i
		wpms[j] = r.Metrics.WPM
		accs[j] = r.Metrics.Accuracy
	}
	width := totalWidth - trendLabelWidth
	if width < 10 {
		width = 10
	}
	if _, err := fmt.Fprintln(w, "Learning Curve"); err != nil {
		return err
	}
	lines := []string{
		trendLine("WPM", MovingAverage(wpms, window), width),
		trendLine("Accuracy", MovingAverage(accs, window), width),
	}
	return writeLines(w, lines)
}

func trendLine(label string, values []float64, width int) string {
	if len(values) > width {
		values = values[len(values)-width:]
	}
	return padCell(label, trendLabelWidth-1, false) + " " + Sparkline(values)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func durationLabel(d model.TestDuration) string {
	if d == "" {
		return ""
	}
	return string(d) + "s"
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
