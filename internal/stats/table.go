package stats

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/maxtype/internal/model"
)

// column describes one table column; numeric columns are right-aligned.
type column struct {
	title   string
	numeric bool
	cell    func(model.ConfigurationBest) string
}

var bestsColumns = []column{
	{title: "Language", cell: func(b model.ConfigurationBest) string { return string(b.Language) }},
	{title: "Duration", cell: func(b model.ConfigurationBest) string { return durationLabel(b.TestDuration) }},
	{title: "Text", cell: func(b model.ConfigurationBest) string { return string(b.TextType) }},
	{title: "Best WPM", numeric: true, cell: func(b model.ConfigurationBest) string { return fmt.Sprintf("%.2f", b.BestWPM) }},
	{title: "Best Acc", numeric: true, cell: func(b model.ConfigurationBest) string { return fmt.Sprintf("%.2f%%", b.BestAccuracy) }},
	{title: "Tests", numeric: true, cell: func(b model.ConfigurationBest) string { return fmt.Sprintf("%d", b.TestsCompleted) }},
	{title: "Last", cell: lastTestDay},
}

// bestsTable lays out one line per configuration under a header line.
func bestsTable(bests []model.ConfigurationBest) []string {
	rows := make([][]string, 0, len(bests))
	for _, b := range bests {
		row := make([]string, len(bestsColumns))
		for i, col := range bestsColumns {
			row[i] = col.cell(b)
		}
		rows = append(rows, row)
	}
	return formatTable(bestsColumns, rows)
}

// keyValueTable lays out label/value pairs without a header line.
func keyValueTable(rows [][]string) []string {
	return formatTable([]column{{}, {}}, rows)
}

func lastTestDay(b model.ConfigurationBest) string {
	if b.LastTestDate == nil {
		return "-"
	}
	return b.LastTestDate.Format(dayLayout)
}

// formatTable sizes each column to its widest cell. The header line is
// emitted only when at least one column has a title.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	titled := false
	for i, col := range cols {
		widths[i] = displayWidth(col.title)
		titled = titled || col.title != ""
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], displayWidth(row[i]))
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if titled {
		titles := make([]string, len(cols))
		for i, col := range cols {
			titles[i] = col.title
		}
		lines = append(lines, formatRow(cols, titles, widths))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(cols, row, widths))
	}
	return lines
}

func formatRow(cols []column, row []string, widths []int) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = padCell(cell, widths[i], col.numeric)
	}
	return strings.Join(cells, " ")
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - displayWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
