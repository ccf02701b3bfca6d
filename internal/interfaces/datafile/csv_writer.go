package datafile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/pitchdata/matchform/internal/domain/features"
	"github.com/pitchdata/matchform/internal/domain/fixture"
	"github.com/pitchdata/matchform/internal/platform/logging"
)

// identityColumns is the fixed head of every engineered dataset, before the
// rolling, indicator, and comparison blocks.
var identityColumns = []string{
	"date",
	"time",
	"round",
	"home_team",
	"away_team",
	"venue",
	"result",
	"home_goals",
	"away_goals",
	"home_poss",
	"away_poss",
	"home_xg",
	"away_xg",
	"home_sh",
	"away_sh",
	"home_shot_on_target",
	"away_shot_on_target",
}

// CSVDatasetWriter writes one engineered season per file, named
// <season>_engineered.csv. Undefined rolling stats become empty cells.
type CSVDatasetWriter struct {
	logger *logging.Logger
}

func NewCSVDatasetWriter(logger *logging.Logger) *CSVDatasetWriter {
	if logger == nil {
		logger = logging.Default()
	}

	return &CSVDatasetWriter{logger: logger}
}

func (w *CSVDatasetWriter) WriteDataset(ctx context.Context, dir string, dataset features.Dataset) (string, error) {
	ctx, span := startSpan(ctx, "datafile.CSVDatasetWriter.WriteDataset")
	defer span.End()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	// The whole file is assembled in memory first so a failed run never
	// leaves a truncated dataset on disk.
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := csv.NewWriter(buf)
	if err := writer.Write(engineeredColumns(dataset)); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i, row := range dataset.Rows {
		if err := writer.Write(engineeredRecord(row)); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush dataset: %w", err)
	}

	path := filepath.Join(dir, dataset.Season+engineeredSuffix)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	w.logger.DebugContext(ctx, "engineered dataset written",
		"path", path, "season", dataset.Season, "rows", len(dataset.Rows))
	return path, nil
}

// engineeredColumns yields the full output header: identity, home rolling,
// away rolling, team indicators, comparisons.
func engineeredColumns(dataset features.Dataset) []string {
	columns := make([]string, 0, len(identityColumns)+16+len(features.ComparisonColumns))
	columns = append(columns, identityColumns...)
	columns = append(columns, features.RollingColumns("home_", dataset.Window)...)
	columns = append(columns, features.RollingColumns("away_", dataset.Window)...)
	if dataset.Encoder != nil {
		columns = append(columns, dataset.Encoder.Columns()...)
	}
	columns = append(columns, features.ComparisonColumns...)
	return columns
}

func engineeredRecord(row features.FeatureRow) []string {
	f := row.Fixture

	record := make([]string, 0, len(identityColumns)+16+len(row.Indicators)+len(features.ComparisonColumns))
	record = append(record,
		f.MatchDate.Format(fixture.DateLayout),
		f.Kickoff,
		f.Round,
		f.HomeTeam,
		f.AwayTeam,
		f.Venue,
		strconv.Itoa(int(f.Outcome)),
		formatStat(f.HomeGoals),
		formatStat(f.AwayGoals),
		formatStat(f.HomePossession),
		formatStat(f.AwayPossession),
		formatStat(f.HomeXG),
		formatStat(f.AwayXG),
		formatStat(f.HomeShots),
		formatStat(f.AwayShots),
		formatStat(f.HomeShotsOnTarget),
		formatStat(f.AwayShotsOnTarget),
	)

	for _, value := range features.RollingValues(row.Home) {
		record = append(record, formatOptionalStat(value))
	}
	for _, value := range features.RollingValues(row.Away) {
		record = append(record, formatOptionalStat(value))
	}
	for _, indicator := range row.Indicators {
		record = append(record, strconv.Itoa(int(indicator)))
	}
	for _, value := range features.ComparisonValues(row.Comparison) {
		record = append(record, formatOptionalStat(value))
	}
	return record
}

func formatStat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// formatOptionalStat renders undefined stats as empty cells, the way a
// dataframe export leaves missing values blank.
func formatOptionalStat(value *float64) string {
	if value == nil {
		return ""
	}
	return formatStat(*value)
}
