package teamform

import (
	"time"

	"github.com/pitchdata/matchform/internal/domain/fixture"
)

// DefaultWindow is the trailing-window size for rolling form statistics.
const DefaultWindow = 5

// TeamMatchRecord is a fixture re-expressed from one participating team's
// point of view: own vs. conceded statistics, independent of home/away role.
// The outcome is sign-flipped for away appearances so +1 always means the
// acting team won.
type TeamMatchRecord struct {
	Team      string
	MatchDate time.Time
	Home      bool

	Outcome       fixture.Outcome
	Goals         float64
	GoalsConceded float64
	XG            float64
	XGConceded    float64
	Possession    float64
	Shots         float64
	ShotsOnTarget float64
}

// RollingStats carries the trailing means computed strictly from a team's
// prior matches. Nil means undefined: the team had no prior match in scope.
type RollingStats struct {
	Form             *float64
	AvgGoals         *float64
	AvgGoalsConceded *float64
	AvgXG            *float64
	AvgXGConceded    *float64
	AvgPossession    *float64
	AvgShots         *float64
	AvgShotsOnTarget *float64
}

// Defined reports whether any statistic is present. All eight fields are set
// together, so checking one would do, but callers should not depend on that.
func (s RollingStats) Defined() bool {
	return s.Form != nil || s.AvgGoals != nil || s.AvgGoalsConceded != nil ||
		s.AvgXG != nil || s.AvgXGConceded != nil || s.AvgPossession != nil ||
		s.AvgShots != nil || s.AvgShotsOnTarget != nil
}

// Equal compares two stat sets field by field, treating nil as a distinct
// value rather than zero.
func (s RollingStats) Equal(other RollingStats) bool {
	return ptrEqual(s.Form, other.Form) &&
		ptrEqual(s.AvgGoals, other.AvgGoals) &&
		ptrEqual(s.AvgGoalsConceded, other.AvgGoalsConceded) &&
		ptrEqual(s.AvgXG, other.AvgXG) &&
		ptrEqual(s.AvgXGConceded, other.AvgXGConceded) &&
		ptrEqual(s.AvgPossession, other.AvgPossession) &&
		ptrEqual(s.AvgShots, other.AvgShots) &&
		ptrEqual(s.AvgShotsOnTarget, other.AvgShotsOnTarget)
}

func ptrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
