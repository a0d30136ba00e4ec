package stats

import "github.com/verte-zerg/maxtype/internal/model"

// FilterByConfig returns the records matching every non-empty filter axis.
func FilterByConfig(records []model.ResultRecord, filter model.ConfigFilter) []model.ResultRecord {
	out := make([]model.ResultRecord, 0, len(records))
	for _, r := range records {
		if matchesFilter(r.Config, filter) {
			out = append(out, r)
		}
	}
	return out
}

func matchesFilter(cfg model.TestConfig, filter model.ConfigFilter) bool {
	if filter.Language != "" && cfg.Language != filter.Language {
		return false
	}
	if filter.TestDuration != "" && cfg.TestDuration != filter.TestDuration {
		return false
	}
	if filter.TextType != "" && cfg.TextType != filter.TextType {
		return false
	}
	if filter.KeyboardLayout != "" && cfg.KeyboardLayout != filter.KeyboardLayout {
		return false
	}
	return true
}
