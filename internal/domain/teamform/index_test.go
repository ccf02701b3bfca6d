package teamform

import (
	"errors"
	"testing"
)

func fv(v float64) *float64 { return &v }

func TestBuildStatsIndex_LookupAndMiss(t *testing.T) {
	histories := []History{
		{
			Team: "A",
			Records: []TeamMatchRecord{
				{Team: "A", MatchDate: day("2024-08-10")},
				{Team: "A", MatchDate: day("2024-08-17")},
			},
			Rolling: []RollingStats{
				{},
				{Form: fv(1), AvgGoals: fv(2)},
			},
		},
	}

	index, err := BuildStatsIndex(histories)
	if err != nil {
		t.Fatalf("build stats index: %v", err)
	}

	stats, ok := index.Lookup("A", day("2024-08-17"))
	if !ok {
		t.Fatalf("expected stats for A on 2024-08-17")
	}
	if stats.Form == nil || *stats.Form != 1 {
		t.Fatalf("unexpected form: %+v", stats)
	}

	if _, ok := index.Lookup("A", day("2024-09-01")); ok {
		t.Fatalf("lookup for an unplayed date must miss")
	}
	if _, ok := index.Lookup("Z", day("2024-08-17")); ok {
		t.Fatalf("lookup for an unknown team must miss")
	}

	first, ok := index.Lookup("A", day("2024-08-10"))
	if !ok {
		t.Fatalf("first match must still be indexed")
	}
	if first.Defined() {
		t.Fatalf("first match stats must be undefined: %+v", first)
	}
}

func TestBuildStatsIndex_AmbiguousDuplicate(t *testing.T) {
	histories := []History{
		{
			Team:    "A",
			Records: []TeamMatchRecord{{Team: "A", MatchDate: day("2024-08-10")}},
			Rolling: []RollingStats{{Form: fv(0.5)}},
		},
		{
			Team:    "A",
			Records: []TeamMatchRecord{{Team: "A", MatchDate: day("2024-08-10")}},
			Rolling: []RollingStats{{Form: fv(-0.5)}},
		},
	}

	if _, err := BuildStatsIndex(histories); !errors.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("expected ErrAmbiguousMatch, got %v", err)
	}
}

func TestBuildStatsIndex_IdenticalDuplicateTolerated(t *testing.T) {
	histories := []History{
		{
			Team:    "A",
			Records: []TeamMatchRecord{{Team: "A", MatchDate: day("2024-08-10")}},
			Rolling: []RollingStats{{Form: fv(0.5)}},
		},
		{
			Team:    "A",
			Records: []TeamMatchRecord{{Team: "A", MatchDate: day("2024-08-10")}},
			Rolling: []RollingStats{{Form: fv(0.5)}},
		},
	}

	index, err := BuildStatsIndex(histories)
	if err != nil {
		t.Fatalf("identical duplicate must be tolerated: %v", err)
	}
	if len(index) != 1 {
		t.Fatalf("unexpected index size: got=%d want=1", len(index))
	}
}
