package classify

// AssessInputs bundles the facts Assess needs to pick a label, in the
// order spec.md §4.3 checks them: book move, exact best-move match,
// miss, then CPL buckets. Brilliant is a separate refinement pass
// (Brilliant, below), never produced by Assess itself.
type AssessInputs struct {
	IsBookMove        bool
	PlayedMatchesBest bool
	CPL               int
	// BestIsTactical: the engine's best move either delivers mate or is
	// a capture (SAN contains "x", or the board oracle agrees).
	BestIsTactical bool
	// PlayedIsCaptureOrMate: the played move itself captured or
	// delivered checkmate.
	PlayedIsCaptureOrMate bool
}

// Assess applies spec.md §4.3's assessment-label ordering.
func Assess(in AssessInputs, th Thresholds) Label {
	if in.IsBookMove {
		return BookMove
	}
	if in.PlayedMatchesBest {
		return BestMove
	}
	if IsMiss(in.CPL, in.BestIsTactical, in.PlayedIsCaptureOrMate, th) {
		return Miss
	}
	return bucketByCPL(in.CPL, th)
}

func bucketByCPL(cpl int, th Thresholds) Label {
	switch {
	case cpl <= th.GoodMoveMaxCPL:
		return GoodMove
	case cpl <= th.InaccuracyMaxCPL:
		return Inaccuracy
	case cpl <= th.MistakeMaxCPL:
		return Mistake
	default:
		return Blunder
	}
}

// IsMiss implements spec.md §4.3's four-condition Miss rule: a played
// move is a Miss iff it ignored a tactical best move (mate or capture)
// without itself being tactical, and the resulting loss is severe enough
// (over the Mistake threshold, or in the Mistake range but >= 150cp).
func IsMiss(cpl int, bestIsTactical, playedIsCaptureOrMate bool, th Thresholds) bool {
	if cpl < 100 {
		return false
	}
	if !bestIsTactical {
		return false
	}
	if playedIsCaptureOrMate {
		return false
	}
	if cpl > th.MistakeMaxCPL {
		return true
	}
	return cpl >= 150
}

// BrilliantInputs bundles the facts the Brilliant refinement pass needs.
// MaterialLostCp is the centipawn material the mover gave up within the
// configured lookahead window (computed by the caller, C4, which owns
// the board replay; see internal/board). It is not zeroed for captures;
// PlayedIsCapture carries that case, since a capturing move is never a
// sacrifice.
type BrilliantInputs struct {
	White          bool
	PlayedIsCapture bool
	MaterialLostCp int
	EvalBefore     int
	EvalAfter      int
}

// Brilliant implements spec.md §4.3's three-check Brilliant rule. It is
// applied as a refinement pass over an already-labelled row (never
// produced inline by Assess), and never fires for a move that was itself
// a capture.
func Brilliant(in BrilliantInputs, th Thresholds) bool {
	if in.PlayedIsCapture {
		return false
	}
	if in.MaterialLostCp < th.MinMaterialSacrifice {
		return false
	}

	swing := in.EvalAfter - in.EvalBefore
	if in.White {
		if swing < th.MinEvalSwing {
			return false
		}
	} else {
		if swing > -th.MinEvalSwing {
			return false
		}
	}

	if th.ExcludeAlreadyWinning {
		if in.White {
			if in.EvalBefore > th.MaxEvalBefore {
				return false
			}
		} else {
			if in.EvalBefore < -th.MaxEvalBefore {
				return false
			}
		}
	}

	return true
}
