package features

import "github.com/pitchdata/matchform/internal/domain/teamform"

// ComparisonFeatures are the signed differences between the two sides'
// pre-match rolling stats. All are home minus away except Defensive, which
// is away-conceded minus home-conceded so that a positive value always
// favors the home side. Nil operands propagate: no imputation.
type ComparisonFeatures struct {
	Form       *float64
	Goals      *float64
	XG         *float64
	Possession *float64
	Defensive  *float64
}

// Compare derives the five difference features from both sides' rolling
// stats. Pure function; a missing operand yields a missing difference.
func Compare(home, away teamform.RollingStats) ComparisonFeatures {
	return ComparisonFeatures{
		Form:       diff(home.Form, away.Form),
		Goals:      diff(home.AvgGoals, away.AvgGoals),
		XG:         diff(home.AvgXG, away.AvgXG),
		Possession: diff(home.AvgPossession, away.AvgPossession),
		Defensive:  diff(away.AvgGoalsConceded, home.AvgGoalsConceded),
	}
}

func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := *a - *b
	return &d
}
