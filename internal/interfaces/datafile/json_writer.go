package datafile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/pitchdata/matchform/internal/domain/features"
	"github.com/pitchdata/matchform/internal/domain/fixture"
	"github.com/pitchdata/matchform/internal/platform/logging"
)

const engineeredJSONSuffix = "_engineered.json"

// JSONDatasetWriter mirrors the CSV output as a column-oriented JSON document
// for consumers that want typed nulls instead of empty cells.
type JSONDatasetWriter struct {
	logger *logging.Logger
}

func NewJSONDatasetWriter(logger *logging.Logger) *JSONDatasetWriter {
	if logger == nil {
		logger = logging.Default()
	}

	return &JSONDatasetWriter{logger: logger}
}

type jsonDataset struct {
	Season  string   `json:"season"`
	Window  int      `json:"window"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (w *JSONDatasetWriter) WriteDataset(ctx context.Context, dir string, dataset features.Dataset) (string, error) {
	ctx, span := startSpan(ctx, "datafile.JSONDatasetWriter.WriteDataset")
	defer span.End()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	document := jsonDataset{
		Season:  dataset.Season,
		Window:  dataset.Window,
		Columns: engineeredColumns(dataset),
		Rows:    make([][]any, 0, len(dataset.Rows)),
	}
	for _, row := range dataset.Rows {
		document.Rows = append(document.Rows, engineeredValues(row))
	}

	payload, err := sonic.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("marshal dataset: %w", err)
	}

	path := filepath.Join(dir, dataset.Season+engineeredJSONSuffix)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	w.logger.DebugContext(ctx, "engineered dataset written",
		"path", path, "season", dataset.Season, "rows", len(dataset.Rows))
	return path, nil
}

// engineeredValues flattens a row in engineeredColumns order. Undefined stats
// become JSON nulls.
func engineeredValues(row features.FeatureRow) []any {
	f := row.Fixture

	values := make([]any, 0, len(identityColumns)+16+len(row.Indicators)+len(features.ComparisonColumns))
	values = append(values,
		f.MatchDate.Format(fixture.DateLayout),
		f.Kickoff,
		f.Round,
		f.HomeTeam,
		f.AwayTeam,
		f.Venue,
		int(f.Outcome),
		f.HomeGoals,
		f.AwayGoals,
		f.HomePossession,
		f.AwayPossession,
		f.HomeXG,
		f.AwayXG,
		f.HomeShots,
		f.AwayShots,
		f.HomeShotsOnTarget,
		f.AwayShotsOnTarget,
	)

	for _, value := range features.RollingValues(row.Home) {
		values = append(values, optionalValue(value))
	}
	for _, value := range features.RollingValues(row.Away) {
		values = append(values, optionalValue(value))
	}
	for _, indicator := range row.Indicators {
		values = append(values, int(indicator))
	}
	for _, value := range features.ComparisonValues(row.Comparison) {
		values = append(values, optionalValue(value))
	}
	return values
}

func optionalValue(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
