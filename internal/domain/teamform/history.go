package teamform

import (
	"sort"

	"github.com/pitchdata/matchform/internal/domain/fixture"
)

// BuildHistories groups the fixture set into one team-perspective sequence
// per team in a single traversal. Each fixture contributes two records: a
// home-perspective record to the home team's sequence and an away-perspective
// record (outcome negated, own/conceded stats swapped) to the away team's.
// Sequences come back ordered ascending by match date; two matches on the
// same date keep their input order.
func BuildHistories(fixtures []fixture.Fixture) map[string][]TeamMatchRecord {
	histories := make(map[string][]TeamMatchRecord)
	for _, f := range fixtures {
		histories[f.HomeTeam] = append(histories[f.HomeTeam], homeRecord(f))
		histories[f.AwayTeam] = append(histories[f.AwayTeam], awayRecord(f))
	}

	for team := range histories {
		seq := histories[team]
		sort.SliceStable(seq, func(i, j int) bool {
			return seq[i].MatchDate.Before(seq[j].MatchDate)
		})
	}

	return histories
}

func homeRecord(f fixture.Fixture) TeamMatchRecord {
	return TeamMatchRecord{
		Team:          f.HomeTeam,
		MatchDate:     f.MatchDate,
		Home:          true,
		Outcome:       f.Outcome,
		Goals:         f.HomeGoals,
		GoalsConceded: f.AwayGoals,
		XG:            f.HomeXG,
		XGConceded:    f.AwayXG,
		Possession:    f.HomePossession,
		Shots:         f.HomeShots,
		ShotsOnTarget: f.HomeShotsOnTarget,
	}
}

func awayRecord(f fixture.Fixture) TeamMatchRecord {
	return TeamMatchRecord{
		Team:          f.AwayTeam,
		MatchDate:     f.MatchDate,
		Home:          false,
		Outcome:       -f.Outcome,
		Goals:         f.AwayGoals,
		GoalsConceded: f.HomeGoals,
		XG:            f.AwayXG,
		XGConceded:    f.HomeXG,
		Possession:    f.AwayPossession,
		Shots:         f.AwayShots,
		ShotsOnTarget: f.AwayShotsOnTarget,
	}
}
