package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/maxtype/internal/model"
)

// ResultSource yields the stored results of a user.
type ResultSource interface {
	ListResults(ctx context.Context, user string, filter model.ConfigFilter) ([]model.ResultRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Records  []model.ResultRecord `json:"-" yaml:"-"`
	Summary  Summary              `json:"summary" yaml:"summary"`
	Advanced AdvancedStats        `json:"advanced" yaml:"advanced"`
}

// BuildReport loads the user's records and computes every aggregate at once.
func BuildReport(ctx context.Context, src ResultSource, user string, filter model.ConfigFilter, now time.Time) (Report, error) {
	records, err := src.ListResults(ctx, user, filter)
	if err != nil {
		return Report{}, err
	}
	// The source may ignore some axes; filter again in memory.
	records = FilterByConfig(records, filter)
	return Report{
		Records:  records,
		Summary:  GenerateSummary(records, now),
		Advanced: ComputeAdvancedStats(records, now),
	}, nil
}
