package postgres

import (
	"testing"
	"time"

	"github.com/pitchdata/matchform/internal/domain/features"
	"github.com/pitchdata/matchform/internal/domain/fixture"
	"github.com/pitchdata/matchform/internal/domain/teamform"
)

func statPtr(v float64) *float64 { return &v }

func TestMatchFeatureModelRoundTrip(t *testing.T) {
	t.Parallel()

	row := features.FeatureRow{
		Fixture: fixture.Fixture{
			MatchDate:         time.Date(2021, 1, 9, 0, 0, 0, 0, time.UTC),
			Kickoff:           "17:30",
			Round:             "Matchweek 18",
			Season:            "2020-2021",
			Venue:             "Home",
			HomeTeam:          "Arsenal",
			AwayTeam:          "Chelsea",
			Outcome:           fixture.OutcomeWin,
			HomeGoals:         2,
			AwayGoals:         0,
			HomeXG:            1.5,
			AwayXG:            0.4,
			HomeShots:         14,
			AwayShots:         8,
			HomeShotsOnTarget: 5,
			AwayShotsOnTarget: 2,
			HomePossession:    55,
			AwayPossession:    45,
		},
		Home: teamform.RollingStats{
			Form:             statPtr(0.6),
			AvgGoals:         statPtr(1.8),
			AvgGoalsConceded: statPtr(0.8),
			AvgXG:            statPtr(1.55),
			AvgXGConceded:    statPtr(0.9),
			AvgPossession:    statPtr(58),
			AvgShots:         statPtr(13.2),
			AvgShotsOnTarget: statPtr(4.6),
		},
		Comparison: features.ComparisonFeatures{
			Form: statPtr(0.6),
		},
	}

	model := matchFeatureInsertModelFromRow(row)
	if model.Season != "2020-2021" || model.Result != 1 {
		t.Fatalf("unexpected insert model identity: %+v", model)
	}
	if model.HomeForm == nil || *model.HomeForm != 0.6 {
		t.Fatalf("unexpected home form: %v", model.HomeForm)
	}
	if model.AwayForm != nil {
		t.Fatalf("undefined away stats must map to nil, got %v", model.AwayForm)
	}

	restored := featureRowFromModel(matchFeatureTableModel{
		ID:        7,
		Season:    model.Season,
		MatchDate: model.MatchDate,
		Kickoff:   model.Kickoff,
		Round:     model.Round,
		Venue:     model.Venue,
		HomeTeam:  model.HomeTeam,
		AwayTeam:  model.AwayTeam,
		Result:    model.Result,

		HomeGoals:         model.HomeGoals,
		AwayGoals:         model.AwayGoals,
		HomeXG:            model.HomeXG,
		AwayXG:            model.AwayXG,
		HomeShots:         model.HomeShots,
		AwayShots:         model.AwayShots,
		HomeShotsOnTarget: model.HomeShotsOnTarget,
		AwayShotsOnTarget: model.AwayShotsOnTarget,
		HomePossession:    model.HomePossession,
		AwayPossession:    model.AwayPossession,

		HomeForm:             model.HomeForm,
		HomeAvgGoals:         model.HomeAvgGoals,
		HomeAvgGoalsConceded: model.HomeAvgGoalsConceded,
		HomeAvgXG:            model.HomeAvgXG,
		HomeAvgXGConceded:    model.HomeAvgXGConceded,
		HomeAvgPossession:    model.HomeAvgPossession,
		HomeAvgShots:         model.HomeAvgShots,
		HomeAvgShotsOnTarget: model.HomeAvgShotsOnTarget,

		FormDifference: model.FormDifference,
	})

	if restored.Fixture.Key() != row.Fixture.Key() {
		t.Fatalf("fixture identity must survive the round trip: %s vs %s", restored.Fixture.Key(), row.Fixture.Key())
	}
	if restored.Fixture.Outcome != fixture.OutcomeWin || restored.Fixture.HomeXG != 1.5 {
		t.Fatalf("unexpected restored fixture: %+v", restored.Fixture)
	}
	if !restored.Home.Equal(row.Home) {
		t.Fatalf("home rolling stats must survive the round trip")
	}
	if restored.Away.Defined() {
		t.Fatalf("away stats must stay undefined")
	}
	if restored.Comparison.Form == nil || *restored.Comparison.Form != 0.6 {
		t.Fatalf("unexpected comparison: %v", restored.Comparison.Form)
	}
	if restored.Indicators != nil {
		t.Fatalf("indicators are not persisted and must be nil")
	}
}
