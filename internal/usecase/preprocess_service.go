package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pitchdata/matchform/internal/domain/fixture"
	"github.com/pitchdata/matchform/internal/platform/logging"
)

// RawResultRow is one record from a raw results file. Every record describes
// a match from a single team's perspective, so a full fixture is a Home row
// paired with the opponent's Away row for the same date.
type RawResultRow struct {
	Date          string
	Kickoff       string
	Round         string
	Team          string
	Opponent      string
	Venue         string
	GoalsFor      float64
	GoalsAgainst  float64
	Result        string
	Formation     string
	OppFormation  string
	Possession    float64
	XG            float64
	XGAgainst     float64
	Shots         float64
	ShotsOnTarget float64
	Distance      float64
	Season        string
}

// SeasonBatch groups the fixtures of one season, ordered by match date.
type SeasonBatch struct {
	Season   string
	Fixtures []fixture.Fixture
}

type PreprocessService struct {
	logger *logging.Logger
}

func NewPreprocessService(logger *logging.Logger) *PreprocessService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PreprocessService{logger: logger}
}

// Preprocess turns perspective rows into paired fixtures and partitions them
// by season. Team spellings are canonicalized first so that the team and
// opponent columns agree; home rows without an away counterpart are dropped.
func (s *PreprocessService) Preprocess(ctx context.Context, rows []RawResultRow) ([]SeasonBatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreprocessService.Preprocess")
	defer span.End()

	if len(rows) == 0 {
		return nil, nil
	}

	rows, err := standardizeTeamNames(rows)
	if err != nil {
		return nil, err
	}

	homeRows, awayRows, skipped := splitByVenue(rows)
	if skipped > 0 {
		s.logger.WarnContext(ctx, "skipped rows with unrecognized venue", "count", skipped)
	}

	awayByKey := make(map[string]RawResultRow, len(awayRows))
	for _, row := range awayRows {
		key := pairKey(row.Date, row.Opponent, row.Team)
		if _, exists := awayByKey[key]; exists {
			return nil, fmt.Errorf("%w: duplicate away record for %s", ErrInvalidInput, key)
		}
		awayByKey[key] = row
	}

	sort.SliceStable(homeRows, func(i, j int) bool {
		if homeRows[i].Date != homeRows[j].Date {
			return homeRows[i].Date < homeRows[j].Date
		}
		return homeRows[i].Kickoff < homeRows[j].Kickoff
	})

	seenFixtures := make(map[string]struct{}, len(homeRows))
	bySeason := make(map[string][]fixture.Fixture)
	unpaired := 0
	for _, home := range homeRows {
		key := pairKey(home.Date, home.Team, home.Opponent)
		if _, exists := seenFixtures[key]; exists {
			return nil, fmt.Errorf("%w: duplicate home record for %s", ErrInvalidInput, key)
		}
		seenFixtures[key] = struct{}{}

		away, ok := awayByKey[key]
		if !ok {
			unpaired++
			continue
		}

		f, err := buildFixture(home, away)
		if err != nil {
			return nil, err
		}
		bySeason[f.Season] = append(bySeason[f.Season], f)
	}
	if unpaired > 0 {
		s.logger.WarnContext(ctx, "dropped home rows without an away counterpart", "count", unpaired)
	}

	seasons := make([]string, 0, len(bySeason))
	for season := range bySeason {
		seasons = append(seasons, season)
	}
	sort.Strings(seasons)

	out := make([]SeasonBatch, 0, len(seasons))
	for _, season := range seasons {
		out = append(out, SeasonBatch{Season: season, Fixtures: bySeason[season]})
	}
	return out, nil
}

// standardizeTeamNames rewrites the team column to the opponent column's
// spelling. Both columns enumerate the same clubs, so the sorted vocabularies
// line up positionally; a size mismatch means the two columns disagree on
// which clubs exist.
func standardizeTeamNames(rows []RawResultRow) ([]RawResultRow, error) {
	teams := uniqueSorted(rows, func(r RawResultRow) string { return r.Team })
	opponents := uniqueSorted(rows, func(r RawResultRow) string { return r.Opponent })
	if len(teams) != len(opponents) {
		return nil, fmt.Errorf("%w: team and opponent vocabularies differ in size (%d vs %d)", ErrInvalidInput, len(teams), len(opponents))
	}

	canonical := make(map[string]string, len(teams))
	for i := range teams {
		canonical[teams[i]] = opponents[i]
	}

	out := make([]RawResultRow, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].Team = canonical[out[i].Team]
	}
	return out, nil
}

func uniqueSorted(rows []RawResultRow, pick func(RawResultRow) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		value := pick(row)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

func splitByVenue(rows []RawResultRow) (home, away []RawResultRow, skipped int) {
	for _, row := range rows {
		switch strings.ToLower(strings.TrimSpace(row.Venue)) {
		case "home":
			home = append(home, row)
		case "away":
			away = append(away, row)
		default:
			skipped++
		}
	}
	return home, away, skipped
}

func pairKey(date, homeTeam, awayTeam string) string {
	return date + "|" + homeTeam + "|" + awayTeam
}

// buildFixture merges a home row with its away counterpart. Goals and xG for
// both sides already appear on the home row (gf/ga and xg/xga); possession
// and shot counts for the away side only exist on the away row.
func buildFixture(home, away RawResultRow) (fixture.Fixture, error) {
	matchDate, err := fixture.ParseMatchDate(home.Date)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("parse match date %q: %w", home.Date, err)
	}
	outcome, err := fixture.ParseOutcome(home.Result)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("parse result for %s vs %s on %s: %w", home.Team, home.Opponent, home.Date, err)
	}
	season, err := seasonLabel(home.Season)
	if err != nil {
		return fixture.Fixture{}, err
	}

	return fixture.Fixture{
		MatchDate:         matchDate,
		Kickoff:           home.Kickoff,
		Round:             home.Round,
		Season:            season,
		Venue:             home.Venue,
		HomeTeam:          home.Team,
		AwayTeam:          home.Opponent,
		Outcome:           outcome,
		HomeGoals:         home.GoalsFor,
		AwayGoals:         home.GoalsAgainst,
		HomeXG:            home.XG,
		AwayXG:            home.XGAgainst,
		HomePossession:    home.Possession,
		AwayPossession:    away.Possession,
		HomeShots:         home.Shots,
		AwayShots:         away.Shots,
		HomeShotsOnTarget: home.ShotsOnTarget,
		AwayShotsOnTarget: away.ShotsOnTarget,
	}, nil
}

// seasonLabel maps a raw season value to its display label. Feeds encode a
// season either as the label itself ("2020-2021") or as the closing year
// (2021 means the 2020-2021 season).
func seasonLabel(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("%w: season is empty", ErrInvalidInput)
	}
	if strings.Contains(value, "-") {
		return value, nil
	}

	year, err := strconv.Atoi(value)
	if err != nil {
		return "", fmt.Errorf("%w: unrecognized season value %q", ErrInvalidInput, raw)
	}
	return fmt.Sprintf("%d-%d", year-1, year), nil
}
