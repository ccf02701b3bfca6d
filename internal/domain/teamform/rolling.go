package teamform

import "gonum.org/v1/gonum/stat"

// ComputeRolling derives trailing means for one team's ordered sequence. The
// window for record i is records [max(0, i-window), i-1]: up to `window` most
// recent matches strictly preceding i, at least one required. Record i never
// contributes to its own stats, so the first record has no defined values.
func ComputeRolling(seq []TeamMatchRecord, window int) []RollingStats {
	if window <= 0 {
		window = DefaultWindow
	}

	n := len(seq)
	out := make([]RollingStats, n)
	if n == 0 {
		return out
	}

	outcomes := make([]float64, n)
	goals := make([]float64, n)
	conceded := make([]float64, n)
	xg := make([]float64, n)
	xgConceded := make([]float64, n)
	possession := make([]float64, n)
	shots := make([]float64, n)
	shotsOnTarget := make([]float64, n)
	for i, rec := range seq {
		outcomes[i] = float64(rec.Outcome)
		goals[i] = rec.Goals
		conceded[i] = rec.GoalsConceded
		xg[i] = rec.XG
		xgConceded[i] = rec.XGConceded
		possession[i] = rec.Possession
		shots[i] = rec.Shots
		shotsOnTarget[i] = rec.ShotsOnTarget
	}

	for i := 1; i < n; i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		out[i] = RollingStats{
			Form:             windowMean(outcomes[lo:i]),
			AvgGoals:         windowMean(goals[lo:i]),
			AvgGoalsConceded: windowMean(conceded[lo:i]),
			AvgXG:            windowMean(xg[lo:i]),
			AvgXGConceded:    windowMean(xgConceded[lo:i]),
			AvgPossession:    windowMean(possession[lo:i]),
			AvgShots:         windowMean(shots[lo:i]),
			AvgShotsOnTarget: windowMean(shotsOnTarget[lo:i]),
		}
	}

	return out
}

func windowMean(values []float64) *float64 {
	mean := stat.Mean(values, nil)
	return &mean
}
