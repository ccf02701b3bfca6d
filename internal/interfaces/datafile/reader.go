package datafile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pitchdata/matchform/internal/platform/logging"
	"github.com/pitchdata/matchform/internal/usecase"
)

// engineeredSuffix marks pipeline outputs so re-runs never ingest them when
// the input and output directories coincide.
const engineeredSuffix = "_engineered.csv"

// CSVResultReader reads raw per-team result files as exported by the match
// scraper. Column order is not fixed; columns are located by header name and
// unknown columns are ignored.
type CSVResultReader struct {
	validator *validator.Validate
	logger    *logging.Logger
}

func NewCSVResultReader(logger *logging.Logger) *CSVResultReader {
	if logger == nil {
		logger = logging.Default()
	}

	return &CSVResultReader{
		validator: validator.New(),
		logger:    logger,
	}
}

// ListSeasonFiles returns the raw CSV files under dir, sorted by name.
func (r *CSVResultReader) ListSeasonFiles(ctx context.Context, dir string) ([]string, error) {
	_, span := startSpan(ctx, "datafile.CSVResultReader.ListSeasonFiles")
	defer span.End()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		if strings.HasSuffix(name, engineeredSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// ReadSeasonFile parses one raw results file into perspective rows. The file
// must carry every column the pipeline consumes; malformed cells fail the
// whole file with the offending row number.
func (r *CSVResultReader) ReadSeasonFile(ctx context.Context, path string) ([]usecase.RawResultRow, error) {
	ctx, span := startSpan(ctx, "datafile.CSVResultReader.ReadSeasonFile")
	defer span.End()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows := make([]usecase.RawResultRow, 0, 512)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, line, err)
		}

		row, err := r.buildRow(ctx, columns, record)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, line, err)
		}
		rows = append(rows, row)
	}

	r.logger.DebugContext(ctx, "raw result file read", "path", path, "rows", len(rows))
	return rows, nil
}

// rawRecordIdentity carries the fields that must be present on every row for
// pairing and season partitioning to work at all.
type rawRecordIdentity struct {
	Date     string `validate:"required"`
	Team     string `validate:"required"`
	Opponent string `validate:"required"`
	Venue    string `validate:"required,oneof=Home Away"`
	Result   string `validate:"required"`
	Season   string `validate:"required"`
}

func (r *CSVResultReader) buildRow(ctx context.Context, columns map[string]int, record []string) (usecase.RawResultRow, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	identity := rawRecordIdentity{
		Date:     cell(columnDate),
		Team:     cell(columnTeam),
		Opponent: cell(columnOpponent),
		Venue:    cell(columnVenue),
		Result:   cell(columnResult),
		Season:   cell(columnSeason),
	}
	if err := r.validator.StructCtx(ctx, identity); err != nil {
		return usecase.RawResultRow{}, fmt.Errorf("validation failed: %v", err)
	}

	row := usecase.RawResultRow{
		Date:         identity.Date,
		Kickoff:      cell(columnTime),
		Round:        cell(columnRound),
		Team:         identity.Team,
		Opponent:     identity.Opponent,
		Venue:        identity.Venue,
		Result:       identity.Result,
		Formation:    cell(columnFormation),
		OppFormation: cell(columnOppFormation),
		Season:       identity.Season,
	}

	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{columnGoalsFor, &row.GoalsFor},
		{columnGoalsAgainst, &row.GoalsAgainst},
		{columnPossession, &row.Possession},
		{columnXG, &row.XG},
		{columnXGAgainst, &row.XGAgainst},
		{columnShots, &row.Shots},
		{columnShotsOnTarget, &row.ShotsOnTarget},
	} {
		value, err := parseFloatCell(cell(field.name), field.name)
		if err != nil {
			return usecase.RawResultRow{}, err
		}
		*field.dst = value
	}

	// Distance is dropped during preprocessing and is routinely blank in
	// scraped files, so an empty cell is not an error.
	if raw := cell(columnDistance); raw != "" {
		value, err := parseFloatCell(raw, columnDistance)
		if err != nil {
			return usecase.RawResultRow{}, err
		}
		row.Distance = value
	}

	return row, nil
}

func parseFloatCell(raw, column string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("column %q: empty numeric cell", column)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %v", column, err)
	}
	return value, nil
}

const (
	columnDate          = "date"
	columnTime          = "time"
	columnRound         = "round"
	columnTeam          = "team"
	columnOpponent      = "opponent"
	columnVenue         = "venue"
	columnResult        = "result"
	columnGoalsFor      = "gf"
	columnGoalsAgainst  = "ga"
	columnFormation     = "formation"
	columnOppFormation  = "opp formation"
	columnPossession    = "poss"
	columnXG            = "xg"
	columnXGAgainst     = "xga"
	columnShots         = "sh"
	columnShotsOnTarget = "sot"
	columnDistance      = "dist"
	columnSeason        = "season"
)

var requiredColumns = []string{
	columnDate,
	columnTeam,
	columnOpponent,
	columnVenue,
	columnResult,
	columnGoalsFor,
	columnGoalsAgainst,
	columnPossession,
	columnXG,
	columnXGAgainst,
	columnShots,
	columnShotsOnTarget,
	columnSeason,
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, exists := columns[key]; exists {
			return nil, fmt.Errorf("duplicate column %q", key)
		}
		columns[key] = idx
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return columns, nil
}
