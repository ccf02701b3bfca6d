package fixture

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnrecognizedOutcome = errors.New("unrecognized outcome label")
	ErrMalformedDate       = errors.New("malformed match date")
)

// Outcome is the signed match result: +1 win, 0 draw, -1 loss. On a Fixture it
// is always from the home team's perspective.
type Outcome int

const (
	OutcomeWin  Outcome = 1
	OutcomeDraw Outcome = 0
	OutcomeLoss Outcome = -1
)

// DateLayout is the calendar-date format raw result files carry.
const DateLayout = "2006-01-02"

// Fixture represents one played match with both sides' recorded statistics.
// Identity fields (MatchDate, HomeTeam, AwayTeam, Season) never change once
// the fixture is built; downstream stages only attach derived features.
type Fixture struct {
	MatchDate time.Time
	Kickoff   string
	Round     string
	Season    string
	Venue     string

	HomeTeam string
	AwayTeam string

	Outcome Outcome

	HomeGoals float64
	AwayGoals float64
	HomeXG    float64
	AwayXG    float64

	HomeShots         float64
	AwayShots         float64
	HomeShotsOnTarget float64
	AwayShotsOnTarget float64
	HomePossession    float64
	AwayPossession    float64
}

// Key identifies a fixture within a season. Exactly one fixture may exist per
// key.
func (f Fixture) Key() string {
	return f.MatchDate.Format(DateLayout) + "|" + f.HomeTeam + "|" + f.AwayTeam
}

// ParseOutcome maps a raw result label to its signed value from the home
// team's perspective. Labels outside {W, D, L} are structural input errors.
func ParseOutcome(label string) (Outcome, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "W":
		return OutcomeWin, nil
	case "D":
		return OutcomeDraw, nil
	case "L":
		return OutcomeLoss, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedOutcome, label)
	}
}

// ParseMatchDate parses a calendar date in the raw-file layout. The time
// component is always midnight UTC so dates compare and key consistently.
func ParseMatchDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	parsed, err := time.ParseInLocation(DateLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, value)
	}
	return parsed, nil
}
