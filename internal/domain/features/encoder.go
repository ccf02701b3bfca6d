package features

import (
	"sort"

	"github.com/pitchdata/matchform/internal/domain/fixture"
)

// TeamEncoder expands team identities into one indicator column per known
// team, one block for the home role and one for the away role. The
// vocabulary is fixed at construction from the dataset itself; encoding an
// unseen team yields an all-zero block rather than an error, so a row never
// fails late in the pipeline over an identity the vocabulary missed.
type TeamEncoder struct {
	teams []string
	index map[string]int
}

// NewTeamEncoder fixes the vocabulary as the sorted union of home and away
// identities in the fixture set.
func NewTeamEncoder(fixtures []fixture.Fixture) *TeamEncoder {
	seen := make(map[string]struct{}, len(fixtures))
	for _, f := range fixtures {
		seen[f.HomeTeam] = struct{}{}
		seen[f.AwayTeam] = struct{}{}
	}

	teams := make([]string, 0, len(seen))
	for team := range seen {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	index := make(map[string]int, len(teams))
	for i, team := range teams {
		index[team] = i
	}

	return &TeamEncoder{teams: teams, index: index}
}

// Teams returns the fixed vocabulary in column order.
func (e *TeamEncoder) Teams() []string {
	out := make([]string, len(e.teams))
	copy(out, e.teams)
	return out
}

// Columns returns all indicator column names: the home block followed by the
// away block, each in vocabulary order.
func (e *TeamEncoder) Columns() []string {
	out := make([]string, 0, 2*len(e.teams))
	for _, team := range e.teams {
		out = append(out, "home_"+team)
	}
	for _, team := range e.teams {
		out = append(out, "away_"+team)
	}
	return out
}

// Encode returns the indicator vector for one fixture's team pair, aligned
// with Columns(). Deterministic, so re-encoding an already encoded row
// reproduces the same vector.
func (e *TeamEncoder) Encode(homeTeam, awayTeam string) []float64 {
	n := len(e.teams)
	out := make([]float64, 2*n)
	if i, ok := e.index[homeTeam]; ok {
		out[i] = 1
	}
	if i, ok := e.index[awayTeam]; ok {
		out[n+i] = 1
	}
	return out
}
