// Package result owns the row objects Result Assembly (C6) produces: a
// per-move-number row with two symmetric white/black halves and shared
// fields, plus aggregated per-player metrics. Grounded on
// original_source/app/services/bulk_analysis_service.py's move_data
// field assignments.
package result

import (
	"github.com/eloinsight/analysis-service/internal/board"
	"github.com/eloinsight/analysis-service/internal/classify"
)

// HalfMoveResult is one side's half of a move-number row. A nil
// *HalfMoveResult means that side hasn't moved yet (e.g. White's row
// before Black has replied) or the move was skipped after an engine
// error.
type HalfMoveResult struct {
	SAN       string
	UCI       string
	FENBefore string
	FENAfter  string

	EvalBefore      classify.Score
	EvalAfterPlayed classify.Score
	EvalAfterBest   classify.Score

	BestSAN [3]string // empty slots mean that PV wasn't reported, or the move was a book move

	// ContinuationUCI is the engine's own predicted PV1 continuation
	// from the position right after the played move, in UCI long
	// algebraic. The brilliant-move sacrifice check (inline and
	// refinement passes) walks a prefix of this slice instead of
	// re-searching, per spec.md §4.3.
	ContinuationUCI []string

	CPL          int
	PV2CPL       int
	PV3CPL       int
	Label        classify.Label
	PlayedInTop3 bool
	IsBookMove   bool

	CapturedPiece board.PieceLetter
	MaterialWhite int
	MaterialBlack int

	Depth int
}

// Row is one move-number's result: shared fields plus each side's half.
// Updates are per half-move and never cross halves, per spec.md §4.6.
type Row struct {
	MoveNumber int
	Opening    string // resolved opening tag, or the repeat-indicator sentinel
	White      *HalfMoveResult
	Black      *HalfMoveResult
}

// RowAt returns rows grown to at least moveNumber entries, appending
// rows numbered in sequence, so callers can assign
// rows[moveNumber-1].White/.Black without a prior length check.
func RowAt(rows []Row, moveNumber int) []Row {
	for len(rows) < moveNumber {
		rows = append(rows, Row{MoveNumber: len(rows) + 1})
	}
	return rows
}

// Outcome is the terminal state of a single-game analysis.
type Outcome string

const (
	OutcomeCompleted  Outcome = "Completed"
	OutcomeEngineDied Outcome = "EngineDied"
)

// PlayerMetrics aggregates one player's move-quality counts and scores
// across a completed game.
type PlayerMetrics struct {
	TotalMoves     int
	BookMoves      int
	BestMoves      int
	GoodMoves      int
	Inaccuracies   int
	Mistakes       int
	Blunders       int
	Misses         int
	BrilliantMoves int

	ACPL              float64
	Accuracy          float64
	T1Accuracy        float64
	PerformanceRating int
}

// GameMetrics pairs both players' aggregated metrics.
type GameMetrics struct {
	White PlayerMetrics
	Black PlayerMetrics
}

// Game is the complete Result Assembly output for one analysed game.
type Game struct {
	GameID        string
	Rows          []Row
	Metrics       GameMetrics
	TotalTimeMs   int64
	EngineVersion string
	Outcome       Outcome
}

// CountLabel tallies half into the running PlayerMetrics counters by
// its Label and counts it in TotalMoves; a nil half is ignored. It does
// not touch the derived scores, which FinalizeScores computes.
func CountLabel(m *PlayerMetrics, half *HalfMoveResult) {
	if half == nil {
		return
	}
	m.TotalMoves++
	switch half.Label {
	case classify.BookMove:
		m.BookMoves++
	case classify.BestMove:
		m.BestMoves++
	case classify.GoodMove:
		m.GoodMoves++
	case classify.Inaccuracy:
		m.Inaccuracies++
	case classify.Mistake:
		m.Mistakes++
	case classify.Blunder:
		m.Blunders++
	case classify.Miss:
		m.Misses++
	case classify.Brilliant:
		m.BrilliantMoves++
	}
}

// FinalizeScores computes ACPL/Accuracy/T1Accuracy from the raw
// MoveRecord list built alongside the row walk, and PerformanceRating
// from the supplied opponent rating and game outcome.
func FinalizeScores(m *PlayerMetrics, moves []classify.MoveRecord, white bool, opponentRating int, gameResult classify.GameResult) {
	m.ACPL = classify.ACPL(moves, white)
	m.Accuracy = classify.Accuracy(moves, white)
	m.T1Accuracy = classify.T1Accuracy(m.ACPL)
	m.PerformanceRating = classify.PerformanceRating(opponentRating, m.Accuracy, gameResult)
}
