package teamform

import (
	"errors"
	"fmt"
	"time"

	"github.com/pitchdata/matchform/internal/domain/fixture"
)

var ErrAmbiguousMatch = errors.New("ambiguous team/date match")

// History pairs one team's ordered record sequence with the rolling stats
// computed for it. Rolling[i] belongs to Records[i].
type History struct {
	Team    string
	Records []TeamMatchRecord
	Rolling []RollingStats
}

// StatsIndex maps (team, match date) to that team's pre-match rolling stats.
// It is built once and then supports the fixture join with two lookups per
// row instead of a rescan per row.
type StatsIndex map[string]RollingStats

func statsKey(team string, date time.Time) string {
	return team + "|" + date.Format(fixture.DateLayout)
}

// BuildStatsIndex flattens per-team histories into a single keyed index. A
// team playing twice on one date with differing rolling values means the
// upstream data is duplicated or corrupt and the build fails with
// ErrAmbiguousMatch; an exact repeat of the same values is tolerated.
func BuildStatsIndex(histories []History) (StatsIndex, error) {
	size := 0
	for _, h := range histories {
		size += len(h.Records)
	}

	index := make(StatsIndex, size)
	for _, h := range histories {
		for i, rec := range h.Records {
			key := statsKey(rec.Team, rec.MatchDate)
			existing, seen := index[key]
			if !seen {
				index[key] = h.Rolling[i]
				continue
			}
			if !existing.Equal(h.Rolling[i]) {
				return nil, fmt.Errorf("%w: team=%s date=%s", ErrAmbiguousMatch, rec.Team, rec.MatchDate.Format(fixture.DateLayout))
			}
		}
	}

	return index, nil
}

// Lookup returns the rolling stats for a team on a date. A missing key is the
// expected shape of a team's first recorded match, not an error.
func (idx StatsIndex) Lookup(team string, date time.Time) (RollingStats, bool) {
	stats, ok := idx[statsKey(team, date)]
	return stats, ok
}
