package stats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/maxtype/internal/model"
	"github.com/verte-zerg/maxtype/internal/store"
)

func openReportStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "maxtype.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestBuildReport(t *testing.T) {
	st := openReportStore(t)
	ctx := context.Background()
	other := record(daysAgo(0), 90, 99)
	other.Config.Language = model.LanguageFrench
	records := []model.ResultRecord{
		record(daysAgo(2), 40, 90),
		record(daysAgo(1), 50, 95),
		other,
		record("not a date", 45, 92),
	}
	_, err := st.InsertResults(ctx, "u1", records)
	require.NoError(t, err)
	_, err = st.InsertResult(ctx, "u2", record(daysAgo(0), 120, 100))
	require.NoError(t, err)

	report, err := BuildReport(ctx, st, "u1", model.ConfigFilter{Language: model.LanguageEnglish}, refNow)
	require.NoError(t, err)
	assert.Len(t, report.Records, 3)
	assert.Equal(t, 3, report.Summary.TotalTests)
	assert.Equal(t, 50.0, report.Summary.BestWPM)
	assert.Equal(t, 2, report.Summary.CurrentStreak)
	assert.Len(t, report.Advanced.ConfigurationBests, 1)
	assert.Equal(t, TrendInsufficientData, report.Advanced.RecentImprovement.Trend)
}

func TestBuildReportEmpty(t *testing.T) {
	st := openReportStore(t)

	report, err := BuildReport(context.Background(), st, "nobody", model.ConfigFilter{}, refNow)
	require.NoError(t, err)
	assert.Zero(t, report.Summary.TotalTests)
	assert.Equal(t, "No recent activity", report.Summary.RecentActivity)
	assert.Empty(t, report.Advanced.ConfigurationBests)
}
