package classify

import "strings"

// NormalizeMove strips "+"/"#", lowercases, and trims a SAN string, per
// spec.md §4.3's move-normalisation rule. Two SAN strings "match" iff
// their normalised forms are equal.
func NormalizeMove(san string) string {
	san = strings.TrimSpace(san)
	san = strings.ReplaceAll(san, "+", "")
	san = strings.ReplaceAll(san, "#", "")
	return strings.ToLower(san)
}

// MovesMatch reports whether two SAN strings denote the same move under
// NormalizeMove.
func MovesMatch(a, b string) bool {
	return NormalizeMove(a) == NormalizeMove(b)
}

func signedLoss(white bool, betterForMover, worseForMover int) int {
	loss := betterForMover - worseForMover
	if !white {
		loss = -loss
	}
	if loss < 0 {
		return 0
	}
	return loss
}

// CPLInputs bundles the evaluation facts CPL needs for one half-move.
// BestPostEvalKnown distinguishes "the best move's resulting evaluation
// was computed" from "only the pre-move evaluation is known" (spec.md
// §4.3's second vs. third CPL branch).
type CPLInputs struct {
	White             bool
	PlayedMatchesBest bool

	EvalBefore Score // evaluation of the position before the move
	EvalAfterBest     Score // evaluation after playing the engine's best move
	BestPostEvalKnown bool
	EvalAfterPlayed   Score // evaluation after the played move
}

// CPL computes the centipawn loss of a played move per spec.md §4.3,
// including the full 5-branch mate table. The result is always >= 0.
func CPL(in CPLInputs) int {
	if in.PlayedMatchesBest {
		return 0
	}

	if in.EvalAfterBest.IsMate || in.EvalAfterPlayed.IsMate {
		return mateTableCPL(in)
	}

	if in.BestPostEvalKnown {
		return signedLoss(in.White, in.EvalAfterBest.Cp, in.EvalAfterPlayed.Cp)
	}

	return signedLoss(in.White, in.EvalBefore.Cp, in.EvalAfterPlayed.Cp)
}

// mateTableCPL implements spec.md §4.3's mate table. Every mate branch
// compares the pre-move evaluation (EvalBefore) with the post-move
// evaluation (EvalAfterPlayed). EvalAfterBest is used only in the final
// fallthrough, where neither of those two is a mate score, and is then
// compared with EvalAfterPlayed through the extreme cp encoding.
func mateTableCPL(in CPLInputs) int {
	before := in.EvalBefore
	after := in.EvalAfterPlayed
	var best Score
	haveBest := in.BestPostEvalKnown
	if haveBest {
		best = in.EvalAfterBest
	}

	// Delivered mate: mate 0 after the mover's move means the side now to
	// move is checkmated, so the mover delivered it.
	if after.MateZero() {
		return 0
	}

	// Only post (played) is mate: delivering mate for the mover is never
	// punished; allowing the opponent's mate is scored like a blunder.
	if after.IsMate && !before.IsMate {
		if mateFavoursMover(after, in.White) {
			return 0
		}
		return signedLoss(in.White, before.Extreme(), after.Extreme())
	}

	// Only pre (before) is mate: losing a mate advantage.
	if before.IsMate && !after.IsMate {
		return signedLoss(in.White, before.Extreme(), after.Extreme())
	}

	// Both are mate.
	if before.IsMate && after.IsMate {
		beforeWhiteWins := before.WinningSideIsWhite()
		afterWhiteWins := after.WinningSideIsWhite()
		if beforeWhiteWins == afterWhiteWins {
			// Same winning side: compare mate distance.
			delta := abs(after.MatePlies) - abs(before.MatePlies)
			moverIsWinner := (in.White && afterWhiteWins) || (!in.White && !afterWhiteWins)
			if moverIsWinner {
				if delta <= 0 {
					return abs(delta) * 50
				}
				return delta * 100
			}
			// Mover is the losing side: symmetric, "good" means the mate
			// got pushed further away (delta > 0).
			if delta > 0 {
				return 0
			}
			return abs(delta) * 50
		}
		// Sides flipped: compare via the extreme cp encoding.
		return signedLoss(in.White, before.Extreme(), after.Extreme())
	}

	// Fall through: best-vs-played or before-vs-played comparison using
	// the extreme encoding so a non-mate endpoint still compares sanely
	// against a mate endpoint.
	if haveBest {
		return signedLoss(in.White, best.Extreme(), after.Extreme())
	}
	return signedLoss(in.White, before.Extreme(), after.Extreme())
}

func mateFavoursMover(s Score, white bool) bool {
	if white {
		return s.MatePlies > 0
	}
	return s.MatePlies < 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// PVCPL computes the PV2/PV3 centipawn loss: max(0, pv_score -
// eval_after_played) for White, negated for Black, per spec.md §4.3.
// Callers only invoke this when the PV slot was reported.
func PVCPL(white bool, pvScore, evalAfterPlayed int) int {
	return signedLoss(white, pvScore, evalAfterPlayed)
}
