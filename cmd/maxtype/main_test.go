package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/maxtype/internal/model"
	"github.com/verte-zerg/maxtype/internal/stats"
)

func validRecord() model.ResultRecord {
	return model.ResultRecord{
		CreatedAt: "2024-05-15T12:00:00Z",
		Config: model.TestConfig{
			Language:       model.LanguageEnglish,
			KeyboardLayout: model.LayoutQwertyUS,
			TestDuration:   model.Duration30,
			TextType:       model.TextWords,
		},
		Metrics: model.Metrics{WPM: 60, NetWPM: 58, Accuracy: 97, Consistency: 85},
	}
}

func TestValidateRecord(t *testing.T) {
	require.NoError(t, validateRecord(validRecord()))

	bad := validRecord()
	bad.Config.TestDuration = "45"
	bad.Metrics.Accuracy = 101
	err := validateRecord(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration")
	assert.Contains(t, err.Error(), "accuracy")

	fast := validRecord()
	fast.Metrics.WPM = 450
	fast.Metrics.NetWPM = 999
	err = validateRecord(fast)
	require.Error(t, err, "wpm above 300 is rejected")
	assert.Contains(t, err.Error(), "wpm must be between 0 and 300, got 450")
	assert.Contains(t, err.Error(), "net wpm must be between 0 and 300, got 999")

	edge := validRecord()
	edge.Metrics.WPM = 300
	edge.Metrics.NetWPM = 0
	edge.Metrics.Accuracy = 100
	assert.NoError(t, validateRecord(edge), "bounds are inclusive")
}

func TestReadRecordsFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "results.yaml")
	yamlData := `
- createdAt: "2024-05-15T12:00:00Z"
  testConfig:
    language: de
    keyboardLayout: qwertz_de
    testDuration: "60"
    textType: sentences
  results:
    wpm: 55
    netWpm: 50
    accuracy: 94.5
    consistency: 70
`
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlData), 0o644))
	records, err := readRecordsFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.LanguageGerman, records[0].Config.Language)
	assert.Equal(t, 94.5, records[0].Metrics.Accuracy)

	jsonPath := filepath.Join(dir, "results.json")
	data, err := json.Marshal([]model.ResultRecord{validRecord(), validRecord()})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jsonPath, data, 0o644))
	records, err = readRecordsFile(jsonPath)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 58.0, records[1].Metrics.NetWPM)

	_, err = readRecordsFile(filepath.Join(dir, "results.csv"))
	assert.Error(t, err, "unsupported extension")
}

func TestValidateStatsConfig(t *testing.T) {
	assert.NoError(t, validateStatsConfig(model.StatsConfig{Format: "yaml", CurveWindow: 1}))
	assert.Error(t, validateStatsConfig(model.StatsConfig{Format: "xml", CurveWindow: 1}), "unknown format")
	assert.Error(t, validateStatsConfig(model.StatsConfig{Format: "text"}), "zero curve window")
}

func TestWriteReportFormats(t *testing.T) {
	now := time.Date(2024, 5, 15, 18, 0, 0, 0, time.UTC)
	records := []model.ResultRecord{validRecord()}
	report := stats.Report{
		Records:  records,
		Summary:  stats.GenerateSummary(records, now),
		Advanced: stats.ComputeAdvancedStats(records, now),
	}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, model.StatsConfig{Format: "json", CurveWindow: 1}, 80))
	var summary map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &summary))
	assert.Equal(t, float64(1), summary["totalTests"])
	assert.Equal(t, "Active today", summary["recentActivity"])

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, model.StatsConfig{Format: "yaml", Advanced: true, CurveWindow: 1}, 80))
	assert.Contains(t, buf.String(), "configurationBests:")

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, model.StatsConfig{Format: "text", Advanced: true, CurveWindow: 1}, 80))
	for _, want := range []string{"Summary", "Learning Curve", "Personal Bests"} {
		assert.Contains(t, buf.String(), want)
	}
}
