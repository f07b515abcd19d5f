package classify

import "math"

// The functions in this file are not part of spec.md's classification
// rule set; they are a supplemented enrichment (SPEC_FULL.md §12)
// providing a complete ACPL/accuracy/performance-rating/win-probability
// pipeline. They run alongside, never instead of, CPL/Assess above.

// MaxCPLossPerMove caps a single move's contribution to accuracy so one
// blunder can't flatten the whole-game score.
const MaxCPLossPerMove = 500.0

// Performance-rating tuning constants.
const (
	WinBonus       = 400
	LossPenalty    = -400
	DrawAdjustment = 0
	AccuracyWeight = 8.0
)

// GameResult is the outcome of a game from one player's perspective.
type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

// MoveRecord is the minimal per-move shape the metrics below need;
// internal/result maps its richer row type onto this before calling in.
type MoveRecord struct {
	White         bool
	CentipawnLoss int
}

// ACPL is the average centipawn loss across moves played by the given
// colour.
func ACPL(moves []MoveRecord, white bool) float64 {
	var total float64
	var n int
	for _, m := range moves {
		if m.White != white {
			continue
		}
		total += float64(m.CentipawnLoss)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Accuracy is 100 minus the capped, normalised average centipawn loss.
func Accuracy(moves []MoveRecord, white bool) float64 {
	var totalCapped float64
	var n int
	for _, m := range moves {
		if m.White != white {
			continue
		}
		totalCapped += math.Min(float64(m.CentipawnLoss), MaxCPLossPerMove)
		n++
	}
	if n == 0 {
		return 100.0
	}
	maxPossible := float64(n) * MaxCPLossPerMove
	acc := 100.0 - (totalCapped/maxPossible)*100.0
	return math.Max(0, math.Min(100, acc))
}

// T1Accuracy is Lichess's ACPL-to-accuracy curve: a more forgiving view
// than the linear Accuracy above.
func T1Accuracy(acpl float64) float64 {
	if acpl <= 0 {
		return 100.0
	}
	acc := 103.1668*math.Exp(-0.04354*acpl) - 3.1669
	return math.Max(0, math.Min(100, acc))
}

// PerformanceRating estimates a performance rating from an opponent
// rating, this player's accuracy, and the game result.
func PerformanceRating(opponentRating int, accuracy float64, result GameResult) int {
	base := float64(opponentRating)
	accuracyBonus := (accuracy - 50.0) * AccuracyWeight

	var resultBonus float64
	switch result {
	case ResultWin:
		resultBonus = WinBonus
	case ResultLoss:
		resultBonus = LossPenalty
	case ResultDraw:
		resultBonus = DrawAdjustment
	}

	return int(math.Round(base + accuracyBonus + resultBonus))
}

// EvalToWinProbability converts a centipawn evaluation to a winning
// probability using the standard logistic approximation.
func EvalToWinProbability(cp int) float64 {
	exponent := float64(-cp) / 400.0
	return 1.0 / (1.0 + math.Pow(10, exponent))
}

// WinProbabilityToElo converts a win-probability difference into an Elo
// difference.
func WinProbabilityToElo(winProbDiff float64) float64 {
	if winProbDiff <= 0 {
		return -400.0
	}
	if winProbDiff >= 1 {
		return 400.0
	}
	return 400.0 * math.Log10(winProbDiff/(1-winProbDiff))
}

// Complexity estimates a position's complexity from the spread of the
// top engine evaluations: the wider the disagreement between PV1..PVk,
// the sharper the position.
func Complexity(topEvals []int) float64 {
	if len(topEvals) < 2 {
		return 0.0
	}
	var sum, sumSq float64
	for _, e := range topEvals {
		sum += float64(e)
		sumSq += float64(e * e)
	}
	n := float64(len(topEvals))
	mean := sum / n
	variance := (sumSq / n) - (mean * mean)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
