package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pitchdata/matchform/internal/domain/features"
	"github.com/pitchdata/matchform/internal/domain/fixture"
)

const featureTolerance = 1e-9

func engineerDay(day int) time.Time {
	return time.Date(2024, time.August, day, 0, 0, 0, 0, time.UTC)
}

func closeTo(got *float64, want float64) bool {
	return got != nil && math.Abs(*got-want) <= featureTolerance
}

// seasonFixtures is a small three-team season with known rolling values.
func seasonFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			MatchDate: engineerDay(1), Season: "2020-2021",
			HomeTeam: "Arsenal", AwayTeam: "Brentford",
			Outcome: fixture.OutcomeWin, HomeGoals: 2, AwayGoals: 0,
			HomeXG: 1.5, AwayXG: 0.4, HomePossession: 60, AwayPossession: 40,
			HomeShots: 14, AwayShots: 6, HomeShotsOnTarget: 5, AwayShotsOnTarget: 2,
		},
		{
			MatchDate: engineerDay(2), Season: "2020-2021",
			HomeTeam: "Chelsea", AwayTeam: "Arsenal",
			Outcome: fixture.OutcomeDraw, HomeGoals: 1, AwayGoals: 1,
			HomeXG: 0.9, AwayXG: 1.1, HomePossession: 52, AwayPossession: 48,
			HomeShots: 10, AwayShots: 11, HomeShotsOnTarget: 4, AwayShotsOnTarget: 3,
		},
		{
			MatchDate: engineerDay(3), Season: "2020-2021",
			HomeTeam: "Brentford", AwayTeam: "Chelsea",
			Outcome: fixture.OutcomeWin, HomeGoals: 3, AwayGoals: 1,
			HomeXG: 2.0, AwayXG: 0.7, HomePossession: 45, AwayPossession: 55,
			HomeShots: 13, AwayShots: 9, HomeShotsOnTarget: 7, AwayShotsOnTarget: 3,
		},
		{
			MatchDate: engineerDay(4), Season: "2020-2021",
			HomeTeam: "Arsenal", AwayTeam: "Chelsea",
			Outcome: fixture.OutcomeLoss, HomeGoals: 0, AwayGoals: 1,
			HomeXG: 0.8, AwayXG: 1.0, HomePossession: 58, AwayPossession: 42,
			HomeShots: 12, AwayShots: 8, HomeShotsOnTarget: 4, AwayShotsOnTarget: 4,
		},
	}
}

func TestFeatureService_Engineer(t *testing.T) {
	t.Parallel()

	svc := NewFeatureService(FeatureConfig{FormWindow: 5, TeamWorkers: 4}, nil)

	dataset, err := svc.Engineer(context.Background(), seasonFixtures())
	if err != nil {
		t.Fatalf("engineer: %v", err)
	}
	if dataset.Season != "2020-2021" {
		t.Fatalf("unexpected season: %s", dataset.Season)
	}
	if dataset.Window != 5 {
		t.Fatalf("unexpected window: %d", dataset.Window)
	}
	if len(dataset.Rows) != 4 {
		t.Fatalf("expected one feature row per fixture, got %d", len(dataset.Rows))
	}
	if dataset.Encoder == nil {
		t.Fatalf("dataset must carry its encoder")
	}

	// First fixture: neither side has prior matches.
	first := dataset.Rows[0]
	if first.Home.Defined() || first.Away.Defined() {
		t.Fatalf("first fixture must have undefined rolling stats")
	}
	if first.Comparison.Form != nil || first.Comparison.Defensive != nil {
		t.Fatalf("first fixture must have undefined comparisons")
	}

	// Fourth fixture: Arsenal prior results W,D and Chelsea prior D,L.
	last := dataset.Rows[3]
	if !closeTo(last.Home.Form, 0.5) {
		t.Fatalf("unexpected home form: %+v", last.Home.Form)
	}
	if !closeTo(last.Home.AvgGoals, 1.5) {
		t.Fatalf("unexpected home avg goals: %+v", last.Home.AvgGoals)
	}
	if !closeTo(last.Home.AvgGoalsConceded, 0.5) {
		t.Fatalf("unexpected home avg goals conceded: %+v", last.Home.AvgGoalsConceded)
	}
	if !closeTo(last.Home.AvgXG, 1.3) {
		t.Fatalf("unexpected home avg xg: %+v", last.Home.AvgXG)
	}
	if !closeTo(last.Away.Form, -0.5) {
		t.Fatalf("unexpected away form: %+v", last.Away.Form)
	}
	if !closeTo(last.Away.AvgGoals, 1.0) {
		t.Fatalf("unexpected away avg goals: %+v", last.Away.AvgGoals)
	}
	if !closeTo(last.Away.AvgGoalsConceded, 2.0) {
		t.Fatalf("unexpected away avg goals conceded: %+v", last.Away.AvgGoalsConceded)
	}

	if !closeTo(last.Comparison.Form, 1.0) {
		t.Fatalf("unexpected form difference: %+v", last.Comparison.Form)
	}
	if !closeTo(last.Comparison.Goals, 0.5) {
		t.Fatalf("unexpected goals difference: %+v", last.Comparison.Goals)
	}
	if !closeTo(last.Comparison.Defensive, 1.5) {
		t.Fatalf("unexpected defensive difference: %+v", last.Comparison.Defensive)
	}

	// Indicator vector: vocabulary is Arsenal, Brentford, Chelsea.
	wantIndicators := []float64{1, 0, 0, 0, 0, 1}
	if len(last.Indicators) != len(wantIndicators) {
		t.Fatalf("unexpected indicator length: %d", len(last.Indicators))
	}
	for i, want := range wantIndicators {
		if last.Indicators[i] != want {
			t.Fatalf("indicator[%d]: got=%v want=%v", i, last.Indicators[i], want)
		}
	}
}

func TestFeatureService_Engineer_DeterministicAcrossWorkerCounts(t *testing.T) {
	t.Parallel()

	serial := NewFeatureService(FeatureConfig{FormWindow: 5, TeamWorkers: 1}, nil)
	parallel := NewFeatureService(FeatureConfig{FormWindow: 5, TeamWorkers: 8}, nil)

	a, err := serial.Engineer(context.Background(), seasonFixtures())
	if err != nil {
		t.Fatalf("serial engineer: %v", err)
	}
	b, err := parallel.Engineer(context.Background(), seasonFixtures())
	if err != nil {
		t.Fatalf("parallel engineer: %v", err)
	}

	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		if !a.Rows[i].Home.Equal(b.Rows[i].Home) || !a.Rows[i].Away.Equal(b.Rows[i].Away) {
			t.Fatalf("row %d differs between worker counts", i)
		}
	}
}

func TestFeatureService_Engineer_DuplicateFixture(t *testing.T) {
	t.Parallel()

	fixtures := seasonFixtures()
	fixtures = append(fixtures, fixtures[0])

	svc := NewFeatureService(FeatureConfig{}, nil)
	if _, err := svc.Engineer(context.Background(), fixtures); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate fixture, got %v", err)
	}
}

func TestFeatureService_Engineer_MixedSeasons(t *testing.T) {
	t.Parallel()

	fixtures := seasonFixtures()
	fixtures[2].Season = "2021-2022"

	svc := NewFeatureService(FeatureConfig{}, nil)
	if _, err := svc.Engineer(context.Background(), fixtures); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for mixed seasons, got %v", err)
	}
}

func TestFeatureService_Engineer_Empty(t *testing.T) {
	t.Parallel()

	svc := NewFeatureService(FeatureConfig{FormWindow: 3}, nil)
	dataset, err := svc.Engineer(context.Background(), nil)
	if err != nil {
		t.Fatalf("engineer: %v", err)
	}
	if len(dataset.Rows) != 0 {
		t.Fatalf("expected empty dataset, got %d rows", len(dataset.Rows))
	}
	if dataset.Window != 3 {
		t.Fatalf("window must be carried even on empty input: %d", dataset.Window)
	}
}

func TestFeatureService_ColumnNamesEmbedWindow(t *testing.T) {
	t.Parallel()

	svc := NewFeatureService(FeatureConfig{FormWindow: 3}, nil)
	dataset, err := svc.Engineer(context.Background(), seasonFixtures())
	if err != nil {
		t.Fatalf("engineer: %v", err)
	}

	columns := features.RollingColumns("home_", dataset.Window)
	if columns[0] != "home_form_last_3" {
		t.Fatalf("rolling column names must embed the window: %s", columns[0])
	}
}
