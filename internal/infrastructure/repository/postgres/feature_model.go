package postgres

import (
	"time"

	"github.com/pitchdata/matchform/internal/domain/features"
	"github.com/pitchdata/matchform/internal/domain/fixture"
	"github.com/pitchdata/matchform/internal/domain/teamform"
)

type matchFeatureTableModel struct {
	ID        int64     `db:"id"`
	Season    string    `db:"season"`
	MatchDate time.Time `db:"match_date"`
	Kickoff   string    `db:"kickoff"`
	Round     string    `db:"round"`
	Venue     string    `db:"venue"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	Result    int       `db:"result"`

	HomeGoals         float64 `db:"home_goals"`
	AwayGoals         float64 `db:"away_goals"`
	HomeXG            float64 `db:"home_xg"`
	AwayXG            float64 `db:"away_xg"`
	HomeShots         float64 `db:"home_sh"`
	AwayShots         float64 `db:"away_sh"`
	HomeShotsOnTarget float64 `db:"home_sot"`
	AwayShotsOnTarget float64 `db:"away_sot"`
	HomePossession    float64 `db:"home_poss"`
	AwayPossession    float64 `db:"away_poss"`

	HomeForm             *float64 `db:"home_form"`
	HomeAvgGoals         *float64 `db:"home_avg_goals"`
	HomeAvgGoalsConceded *float64 `db:"home_avg_goals_conceded"`
	HomeAvgXG            *float64 `db:"home_avg_xg"`
	HomeAvgXGConceded    *float64 `db:"home_avg_xg_conceded"`
	HomeAvgPossession    *float64 `db:"home_avg_poss"`
	HomeAvgShots         *float64 `db:"home_avg_shots"`
	HomeAvgShotsOnTarget *float64 `db:"home_avg_shots_on_target"`

	AwayForm             *float64 `db:"away_form"`
	AwayAvgGoals         *float64 `db:"away_avg_goals"`
	AwayAvgGoalsConceded *float64 `db:"away_avg_goals_conceded"`
	AwayAvgXG            *float64 `db:"away_avg_xg"`
	AwayAvgXGConceded    *float64 `db:"away_avg_xg_conceded"`
	AwayAvgPossession    *float64 `db:"away_avg_poss"`
	AwayAvgShots         *float64 `db:"away_avg_shots"`
	AwayAvgShotsOnTarget *float64 `db:"away_avg_shots_on_target"`

	FormDifference      *float64 `db:"form_difference"`
	GoalsDifference     *float64 `db:"goals_difference"`
	XGDifference        *float64 `db:"xg_difference"`
	PossDifference      *float64 `db:"poss_difference"`
	DefensiveDifference *float64 `db:"defensive_difference"`

	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type matchFeatureInsertModel struct {
	Season    string    `db:"season"`
	MatchDate time.Time `db:"match_date"`
	Kickoff   string    `db:"kickoff"`
	Round     string    `db:"round"`
	Venue     string    `db:"venue"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	Result    int       `db:"result"`

	HomeGoals         float64 `db:"home_goals"`
	AwayGoals         float64 `db:"away_goals"`
	HomeXG            float64 `db:"home_xg"`
	AwayXG            float64 `db:"away_xg"`
	HomeShots         float64 `db:"home_sh"`
	AwayShots         float64 `db:"away_sh"`
	HomeShotsOnTarget float64 `db:"home_sot"`
	AwayShotsOnTarget float64 `db:"away_sot"`
	HomePossession    float64 `db:"home_poss"`
	AwayPossession    float64 `db:"away_poss"`

	HomeForm             *float64 `db:"home_form"`
	HomeAvgGoals         *float64 `db:"home_avg_goals"`
	HomeAvgGoalsConceded *float64 `db:"home_avg_goals_conceded"`
	HomeAvgXG            *float64 `db:"home_avg_xg"`
	HomeAvgXGConceded    *float64 `db:"home_avg_xg_conceded"`
	HomeAvgPossession    *float64 `db:"home_avg_poss"`
	HomeAvgShots         *float64 `db:"home_avg_shots"`
	HomeAvgShotsOnTarget *float64 `db:"home_avg_shots_on_target"`

	AwayForm             *float64 `db:"away_form"`
	AwayAvgGoals         *float64 `db:"away_avg_goals"`
	AwayAvgGoalsConceded *float64 `db:"away_avg_goals_conceded"`
	AwayAvgXG            *float64 `db:"away_avg_xg"`
	AwayAvgXGConceded    *float64 `db:"away_avg_xg_conceded"`
	AwayAvgPossession    *float64 `db:"away_avg_poss"`
	AwayAvgShots         *float64 `db:"away_avg_shots"`
	AwayAvgShotsOnTarget *float64 `db:"away_avg_shots_on_target"`

	FormDifference      *float64 `db:"form_difference"`
	GoalsDifference     *float64 `db:"goals_difference"`
	XGDifference        *float64 `db:"xg_difference"`
	PossDifference      *float64 `db:"poss_difference"`
	DefensiveDifference *float64 `db:"defensive_difference"`
}

func matchFeatureInsertModelFromRow(row features.FeatureRow) matchFeatureInsertModel {
	f := row.Fixture
	return matchFeatureInsertModel{
		Season:    f.Season,
		MatchDate: f.MatchDate,
		Kickoff:   f.Kickoff,
		Round:     f.Round,
		Venue:     f.Venue,
		HomeTeam:  f.HomeTeam,
		AwayTeam:  f.AwayTeam,
		Result:    int(f.Outcome),

		HomeGoals:         f.HomeGoals,
		AwayGoals:         f.AwayGoals,
		HomeXG:            f.HomeXG,
		AwayXG:            f.AwayXG,
		HomeShots:         f.HomeShots,
		AwayShots:         f.AwayShots,
		HomeShotsOnTarget: f.HomeShotsOnTarget,
		AwayShotsOnTarget: f.AwayShotsOnTarget,
		HomePossession:    f.HomePossession,
		AwayPossession:    f.AwayPossession,

		HomeForm:             row.Home.Form,
		HomeAvgGoals:         row.Home.AvgGoals,
		HomeAvgGoalsConceded: row.Home.AvgGoalsConceded,
		HomeAvgXG:            row.Home.AvgXG,
		HomeAvgXGConceded:    row.Home.AvgXGConceded,
		HomeAvgPossession:    row.Home.AvgPossession,
		HomeAvgShots:         row.Home.AvgShots,
		HomeAvgShotsOnTarget: row.Home.AvgShotsOnTarget,

		AwayForm:             row.Away.Form,
		AwayAvgGoals:         row.Away.AvgGoals,
		AwayAvgGoalsConceded: row.Away.AvgGoalsConceded,
		AwayAvgXG:            row.Away.AvgXG,
		AwayAvgXGConceded:    row.Away.AvgXGConceded,
		AwayAvgPossession:    row.Away.AvgPossession,
		AwayAvgShots:         row.Away.AvgShots,
		AwayAvgShotsOnTarget: row.Away.AvgShotsOnTarget,

		FormDifference:      row.Comparison.Form,
		GoalsDifference:     row.Comparison.Goals,
		XGDifference:        row.Comparison.XG,
		PossDifference:      row.Comparison.Possession,
		DefensiveDifference: row.Comparison.Defensive,
	}
}

// featureRowFromModel rebuilds a feature row from storage. Indicator vectors
// are not persisted, so Indicators is always nil on loaded rows.
func featureRowFromModel(model matchFeatureTableModel) features.FeatureRow {
	return features.FeatureRow{
		Fixture: fixture.Fixture{
			MatchDate: model.MatchDate.UTC(),
			Kickoff:   model.Kickoff,
			Round:     model.Round,
			Season:    model.Season,
			Venue:     model.Venue,
			HomeTeam:  model.HomeTeam,
			AwayTeam:  model.AwayTeam,
			Outcome:   fixture.Outcome(model.Result),

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
		},
		Home: teamform.RollingStats{
			Form:             model.HomeForm,
			AvgGoals:         model.HomeAvgGoals,
			AvgGoalsConceded: model.HomeAvgGoalsConceded,
			AvgXG:            model.HomeAvgXG,
			AvgXGConceded:    model.HomeAvgXGConceded,
			AvgPossession:    model.HomeAvgPossession,
			AvgShots:         model.HomeAvgShots,
			AvgShotsOnTarget: model.HomeAvgShotsOnTarget,
		},
		Away: teamform.RollingStats{
			Form:             model.AwayForm,
			AvgGoals:         model.AwayAvgGoals,
			AvgGoalsConceded: model.AwayAvgGoalsConceded,
			AvgXG:            model.AwayAvgXG,
			AvgXGConceded:    model.AwayAvgXGConceded,
			AvgPossession:    model.AwayAvgPossession,
			AvgShots:         model.AwayAvgShots,
			AvgShotsOnTarget: model.AwayAvgShotsOnTarget,
		},
		Comparison: features.ComparisonFeatures{
			Form:       model.FormDifference,
			Goals:      model.GoalsDifference,
			XG:         model.XGDifference,
			Possession: model.PossDifference,
			Defensive:  model.DefensiveDifference,
		},
	}
}
