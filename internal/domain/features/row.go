package features

import (
	"context"
	"fmt"

	"github.com/pitchdata/matchform/internal/domain/fixture"
	"github.com/pitchdata/matchform/internal/domain/teamform"
)

// FeatureRow is one fully enriched fixture: the original match columns plus
// pre-match rolling stats for both sides, comparison features, and the
// encoded team indicators. This is the unit handed to writers and the
// feature store.
type FeatureRow struct {
	Fixture    fixture.Fixture
	Home       teamform.RollingStats
	Away       teamform.RollingStats
	Comparison ComparisonFeatures

	// Indicators is aligned with the dataset encoder's Columns().
	Indicators []float64
}

// Dataset is the engineered feature table for one season.
type Dataset struct {
	Season  string
	Window  int
	Rows    []FeatureRow
	Encoder *TeamEncoder
}

// Repository persists engineered feature rows. Indicator vectors are an
// output-file concern and are not stored relationally.
type Repository interface {
	UpsertBatch(ctx context.Context, rows []FeatureRow) error
	ListBySeason(ctx context.Context, season string) ([]FeatureRow, error)
	DeleteBySeason(ctx context.Context, season string) (int, error)
}

// rollingSuffixes is the contract column order for the eight rolling stats,
// completed with the window size: form_last_5, avg_goals_last_5, ...
var rollingSuffixes = []string{
	"form",
	"avg_goals",
	"avg_goals_conceded",
	"avg_xg",
	"avg_xg_conceded",
	"avg_poss",
	"avg_shots",
	"avg_shots_on_target",
}

// RollingColumns yields the output column names for one side's rolling stats,
// e.g. RollingColumns("home_", 5)[0] == "home_form_last_5".
func RollingColumns(prefix string, window int) []string {
	out := make([]string, 0, len(rollingSuffixes))
	for _, suffix := range rollingSuffixes {
		out = append(out, fmt.Sprintf("%s%s_last_%d", prefix, suffix, window))
	}
	return out
}

// RollingValues flattens a stat set in RollingColumns order.
func RollingValues(stats teamform.RollingStats) []*float64 {
	return []*float64{
		stats.Form,
		stats.AvgGoals,
		stats.AvgGoalsConceded,
		stats.AvgXG,
		stats.AvgXGConceded,
		stats.AvgPossession,
		stats.AvgShots,
		stats.AvgShotsOnTarget,
	}
}

// ComparisonColumns is the contract order for the difference features.
var ComparisonColumns = []string{
	"form_difference",
	"goals_difference",
	"xg_difference",
	"poss_difference",
	"defensive_difference",
}

// ComparisonValues flattens comparison features in ComparisonColumns order.
func ComparisonValues(c ComparisonFeatures) []*float64 {
	return []*float64{c.Form, c.Goals, c.XG, c.Possession, c.Defensive}
}
