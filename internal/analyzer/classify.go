package analyzer

import (
	chess "github.com/corentings/chess/v2"

	"github.com/eloinsight/analysis-service/internal/board"
	"github.com/eloinsight/analysis-service/internal/classify"
	"github.com/eloinsight/analysis-service/internal/result"
	"github.com/eloinsight/analysis-service/internal/worker"
)

// classify turns one ply's before/after engine output into a result row
// half: the book-move short-circuit, the 5-branch CPL math, the
// assessment label, and the inline (lookahead=1) brilliant check, in the
// order spec.md §4.3/§4.4 lays them out.
func (a *Analyzer) classify(hm board.HalfMove, bestData, playedData *worker.Result, movesSoFar []*chess.Move) *result.HalfMoveResult {
	half := &result.HalfMoveResult{
		SAN:             hm.SAN,
		UCI:             hm.UCI,
		FENBefore:       hm.FENBefore,
		FENAfter:        hm.FENAfter,
		CapturedPiece:   hm.CapturedPiece,
		MaterialWhite:   hm.MaterialWhite,
		MaterialBlack:   hm.MaterialBlack,
		Depth:           bestData.Depth,
		ContinuationUCI: playedData.PV[0].MovesUCI,
	}

	bestKnown := len(bestData.PV[0].MovesUCI) > 0
	evalAfterBest := bestData.PV[0].Score
	// Nothing was reported at all (an already-terminal before-position):
	// fall back to the "assumed equal" zero value spec.md §4.4 uses to
	// seed the very first ply.
	evalBefore := evalAfterBest

	half.EvalAfterBest = evalAfterBest
	half.EvalBefore = evalBefore
	half.EvalAfterPlayed = playedData.PV[0].Score

	for i, slot := range bestData.PV {
		half.BestSAN[i] = slot.FirstSAN
	}

	bestSAN := half.BestSAN[0]
	if bestSAN == "" {
		bestUCI := bestData.BestMoveUCI
		if bestUCI == "" && bestKnown {
			bestUCI = bestData.PV[0].MovesUCI[0]
		}
		if bestUCI != "" {
			if san, err := board.UCIToSAN(hm.FENBefore, bestUCI); err == nil {
				bestSAN = san
			}
		}
	}

	playedMatchesBest := bestSAN != "" && classify.MovesMatch(hm.SAN, bestSAN)
	half.PlayedInTop3 = playedMatchesBest
	if !half.PlayedInTop3 {
		for _, san := range half.BestSAN {
			if san != "" && classify.MovesMatch(hm.SAN, san) {
				half.PlayedInTop3 = true
				break
			}
		}
	}

	if a.oracle.IsBookMove(movesSoFar) {
		half.IsBookMove = true
		half.Label = classify.BookMove
		half.BestSAN = [3]string{}
		half.PlayedInTop3 = false
		half.Depth = 0
		return half
	}

	half.CPL = classify.CPL(classify.CPLInputs{
		White:             hm.WhiteToMove,
		PlayedMatchesBest: playedMatchesBest,
		EvalBefore:        evalBefore,
		EvalAfterBest:     evalAfterBest,
		BestPostEvalKnown: bestKnown,
		EvalAfterPlayed:   half.EvalAfterPlayed,
	})

	if bestData.PV[1].FirstSAN != "" {
		half.PV2CPL = classify.PVCPL(hm.WhiteToMove, bestData.PV[1].Score.Extreme(), half.EvalAfterPlayed.Extreme())
	}
	if bestData.PV[2].FirstSAN != "" {
		half.PV3CPL = classify.PVCPL(hm.WhiteToMove, bestData.PV[2].Score.Extreme(), half.EvalAfterPlayed.Extreme())
	}

	bestIsTactical := false
	if bestSAN != "" {
		if capture, mate, err := board.IsCaptureOrMate(hm.FENBefore, bestSAN); err == nil {
			bestIsTactical = capture || mate
		}
	}

	half.Label = classify.Assess(classify.AssessInputs{
		PlayedMatchesBest:     playedMatchesBest,
		CPL:                   half.CPL,
		BestIsTactical:        bestIsTactical,
		PlayedIsCaptureOrMate: hm.IsCapture || hm.IsCheckmate,
	}, a.cfg.Thresholds)

	if half.Label != classify.Brilliant {
		lost := materialSacrificed(hm, half.ContinuationUCI, a.cfg.Thresholds.InlineLookaheadPlies)
		if classify.Brilliant(classify.BrilliantInputs{
			White:           hm.WhiteToMove,
			PlayedIsCapture: hm.IsCapture,
			MaterialLostCp:  lost,
			EvalBefore:      evalBefore.Extreme(),
			EvalAfter:       half.EvalAfterPlayed.Extreme(),
		}, a.cfg.Thresholds) {
			half.Label = classify.Brilliant
		}
	}

	return half
}

// materialSacrificed walks up to plies moves of continuation (the
// engine's own predicted PV1 line from the position right after the
// played move) and reports how much material the mover has given back
// by the end of the window, relative to right after the played move.
// A continuation shorter than the window is walked to its end. Zero if
// the continuation is empty or unreadable, or the mover gained material
// instead.
func materialSacrificed(hm board.HalfMove, continuation []string, plies int) int {
	if plies <= 0 || len(continuation) == 0 {
		return 0
	}
	if plies > len(continuation) {
		plies = len(continuation)
	}

	fen := hm.FENAfter
	for i := 0; i < plies; i++ {
		next, err := board.ApplyUCI(fen, continuation[i])
		if err != nil {
			return 0
		}
		fen = next
	}
	white, black, err := board.MaterialAtFEN(fen)
	if err != nil {
		return 0
	}

	if hm.WhiteToMove {
		lost := hm.MaterialWhite - white
		if lost < 0 {
			return 0
		}
		return lost
	}
	lost := hm.MaterialBlack - black
	if lost < 0 {
		return 0
	}
	return lost
}

// refineBrilliancy re-runs the Brilliant material-sacrifice check with
// the deeper refinement lookahead window (spec.md §4.3's
// RefinementLookaheadPlies, normally 3 plies vs. the inline pass's 1)
// over every already-labelled half-move, using the same stored PV
// continuation -- no extra engine calls. It only ever upgrades a label
// to Brilliant; book moves and moves already labelled Brilliant are
// left untouched.
func (a *Analyzer) refineBrilliancy(g *result.Game, halfMoves []board.HalfMove) {
	for i := range g.Rows {
		refineHalf(g.Rows[i].White, halfMoves, 2*i, a.cfg.Thresholds)
		refineHalf(g.Rows[i].Black, halfMoves, 2*i+1, a.cfg.Thresholds)
	}
}

func refineHalf(half *result.HalfMoveResult, halfMoves []board.HalfMove, ply int, th classify.Thresholds) {
	if half == nil || half.IsBookMove || half.Label == classify.Brilliant {
		return
	}
	if ply < 0 || ply >= len(halfMoves) {
		return
	}
	hm := halfMoves[ply]

	lost := materialSacrificed(hm, half.ContinuationUCI, th.RefinementLookaheadPlies)
	if classify.Brilliant(classify.BrilliantInputs{
		White:           hm.WhiteToMove,
		PlayedIsCapture: hm.IsCapture,
		MaterialLostCp:  lost,
		EvalBefore:      half.EvalBefore.Extreme(),
		EvalAfter:       half.EvalAfterPlayed.Extreme(),
	}, th) {
		half.Label = classify.Brilliant
	}
}
