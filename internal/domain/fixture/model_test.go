package fixture

import (
	"errors"
	"testing"
	"time"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		want      Outcome
		targetErr error
	}{
		{name: "win", label: "W", want: OutcomeWin},
		{name: "draw", label: "D", want: OutcomeDraw},
		{name: "loss", label: "L", want: OutcomeLoss},
		{name: "lowercase", label: "w", want: OutcomeWin},
		{name: "padded", label: " L ", want: OutcomeLoss},
		{name: "unknown label", label: "X", targetErr: ErrUnrecognizedOutcome},
		{name: "empty label", label: "", targetErr: ErrUnrecognizedOutcome},
		{name: "full word", label: "Win", targetErr: ErrUnrecognizedOutcome},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseOutcome(tc.label)
			if tc.targetErr != nil {
				if !errors.Is(err, tc.targetErr) {
					t.Fatalf("expected %v, got %v", tc.targetErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse outcome %q: %v", tc.label, err)
			}
			if got != tc.want {
				t.Fatalf("unexpected outcome: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestParseMatchDate(t *testing.T) {
	got, err := ParseMatchDate("2024-08-17")
	if err != nil {
		t.Fatalf("parse match date: %v", err)
	}
	want := time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date: got=%v want=%v", got, want)
	}

	for _, raw := range []string{"", "17/08/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseMatchDate(raw); !errors.Is(err, ErrMalformedDate) {
			t.Fatalf("expected ErrMalformedDate for %q, got %v", raw, err)
		}
	}
}

func TestFixtureKey(t *testing.T) {
	f := Fixture{
		MatchDate: time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC),
		HomeTeam:  "Arsenal",
		AwayTeam:  "Wolves",
	}
	if got, want := f.Key(), "2024-08-17|Arsenal|Wolves"; got != want {
		t.Fatalf("unexpected key: got=%s want=%s", got, want)
	}
}
