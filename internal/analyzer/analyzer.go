// Package analyzer implements the Single-Game Analyzer (C4): given a
// game record and a position analyzer worker, it produces a per-ply
// result list and persists it, grounded on
// original_source/app/services/bulk_analysis_service.py's analyze_game
// for the per-move loop shape and failure semantics.
package analyzer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eloinsight/analysis-service/internal/board"
	"github.com/eloinsight/analysis-service/internal/book"
	"github.com/eloinsight/analysis-service/internal/classify"
	"github.com/eloinsight/analysis-service/internal/errs"
	"github.com/eloinsight/analysis-service/internal/result"
	"github.com/eloinsight/analysis-service/internal/sink"
	"github.com/eloinsight/analysis-service/internal/store"
	"github.com/eloinsight/analysis-service/internal/worker"
)

// maxConsecutiveErrors aborts the whole game with EngineDied, per
// spec.md §4.4's failure semantics.
const maxConsecutiveErrors = 3

// lateBestmoveGrace is the window StartSearch's caller waits for a late
// bestmove after a timeout-triggered stop.
const lateBestmoveGrace = 500 * time.Millisecond

// Config carries the tunables spec.md §6 lists as consumed
// configuration for the game-analysis path.
type Config struct {
	MaxDepth           int
	TimeLimitMs        int
	ProgressIntervalMs int
	Thresholds         classify.Thresholds

	BrilliancyRefinement bool
	TagPersistence       bool

	OpponentRating int
	WhiteResult    classify.GameResult
}

// GameInput is the mainline to analyse: a starting position and an
// ordered list of SAN moves (the original PGN text, if any, has already
// been parsed by an out-of-scope collaborator per spec.md §1's
// Non-goals).
type GameInput struct {
	GameID   string
	StartFEN string
	SANMoves []string
}

// Analyzer runs the per-move algorithm of spec.md §4.4 against one
// worker, one opening-book oracle, and one result store.
type Analyzer struct {
	worker *worker.Worker
	oracle book.Oracle
	store  store.ResultStore
	sink   sink.Sink
	logger *zap.Logger
	cfg    Config
}

// New constructs an Analyzer. oracle and st may be nil, in which case a
// book.NullOracle and no persistence are used respectively.
func New(w *worker.Worker, oracle book.Oracle, st store.ResultStore, s sink.Sink, logger *zap.Logger, cfg Config) *Analyzer {
	if oracle == nil {
		oracle = book.NullOracle{}
	}
	if cfg.ProgressIntervalMs == 0 {
		cfg.ProgressIntervalMs = 500
	}
	if (cfg.Thresholds == classify.Thresholds{}) {
		cfg.Thresholds = classify.DefaultThresholds()
	}
	return &Analyzer{worker: w, oracle: oracle, store: st, sink: s, logger: logger, cfg: cfg}
}

// AnalyzeGame runs the complete per-ply algorithm and returns the
// assembled result. A single position's timeout or error does not fail
// the game (the row is left blank and analysis continues); only
// maxConsecutiveErrors in a row, or an engine death, aborts with
// OutcomeEngineDied.
func (a *Analyzer) AnalyzeGame(input GameInput, cancel <-chan struct{}) (*result.Game, error) {
	start := time.Now()
	a.sink.Emit(sink.Event{Kind: sink.AnalysisStarted})

	g, err := board.NewGame(input.StartFEN, input.SANMoves)
	if err != nil {
		return nil, errs.Wrap(errs.NoMoves, "replay mainline", err)
	}
	halfMoves := g.HalfMoves()
	n := len(halfMoves)
	if n == 0 {
		return nil, errs.New(errs.NoMoves, "game has zero mainline moves")
	}

	rows := make([]result.Row, 0, (n+1)/2)
	whiteMoves := make([]classify.MoveRecord, 0, n/2+1)
	blackMoves := make([]classify.MoveRecord, 0, n/2+1)

	var cachedBestOfNext *worker.Result
	var prevOpening string
	consecutiveErrors := 0
	outcome := result.OutcomeCompleted

	select {
	case <-cancel:
		a.sink.Emit(sink.Event{Kind: sink.AnalysisCancelled})
		return nil, errs.New(errs.Cancelled, "cancelled before analysis began")
	default:
	}

	for k, hm := range halfMoves {
		select {
		case <-cancel:
			a.sink.Emit(sink.Event{Kind: sink.AnalysisCancelled})
			return a.assemble(input.GameID, rows, whiteMoves, blackMoves, start, result.OutcomeCompleted), errs.New(errs.Cancelled, "analysis cancelled")
		default:
		}

		a.emitMoveProgress(k, n, hm)

		bestData, err := a.bestMoveData(hm, cachedBestOfNext, cancel)
		if err != nil {
			consecutiveErrors++
			if consecutiveErrors >= maxConsecutiveErrors || errs.Is(err, errs.EngineTerminated) {
				outcome = result.OutcomeEngineDied
				break
			}
			rows = result.RowAt(rows, hm.MoveNumber)
			cachedBestOfNext = nil
			continue
		}

		playedData, err := a.analyzeAfter(hm, cancel)
		if err != nil {
			consecutiveErrors++
			if consecutiveErrors >= maxConsecutiveErrors || errs.Is(err, errs.EngineTerminated) {
				outcome = result.OutcomeEngineDied
				break
			}
			rows = result.RowAt(rows, hm.MoveNumber)
			cachedBestOfNext = nil
			continue
		}
		consecutiveErrors = 0
		cachedBestOfNext = playedData

		half := a.classify(hm, bestData, playedData, g.MovesThrough(k+1))

		resolved := prevOpening
		if eco, name, found := a.oracle.OpeningInfo(g.MovesThrough(k + 1)); found {
			tag := name
			if eco != "" {
				tag = fmt.Sprintf("%s: %s", eco, name)
			}
			resolved = tag
		}
		rowOpening := resolved
		if resolved == prevOpening && resolved != "" {
			rowOpening = a.cfg.Thresholds.RepeatIndicator
		}
		prevOpening = resolved

		rows = result.RowAt(rows, hm.MoveNumber)
		idx := hm.MoveNumber - 1
		rows[idx].MoveNumber = hm.MoveNumber
		rows[idx].Opening = rowOpening
		if hm.WhiteToMove {
			rows[idx].White = half
			whiteMoves = append(whiteMoves, classify.MoveRecord{White: true, CentipawnLoss: half.CPL})
		} else {
			rows[idx].Black = half
			blackMoves = append(blackMoves, classify.MoveRecord{White: false, CentipawnLoss: half.CPL})
		}

		a.sink.Emit(sink.Event{Kind: sink.MoveAnalyzed, RowIndex: idx})
	}

	g2 := a.assemble(input.GameID, rows, whiteMoves, blackMoves, start, outcome)

	if a.cfg.BrilliancyRefinement {
		a.refineBrilliancy(g2, halfMoves)
	}

	if a.cfg.TagPersistence && a.store != nil {
		if err := a.store.Store(input.GameID, g2.Rows); err == nil {
			a.sink.Emit(sink.Event{Kind: sink.GameAnalyzed, GameID: input.GameID})
		}
	}

	if outcome == result.OutcomeEngineDied {
		a.sink.Emit(sink.Event{Kind: sink.AnalysisCancelled})
		return g2, errs.New(errs.EngineTerminated, "game aborted after repeated engine failures")
	}
	a.sink.Emit(sink.Event{Kind: sink.AnalysisCompleted})
	return g2, nil
}

func (a *Analyzer) emitMoveProgress(k, n int, hm board.HalfMove) {
	side := "W"
	if !hm.WhiteToMove {
		side = "B"
	}
	a.sink.Emit(sink.Event{
		Kind:    sink.AnalysisProgress,
		Current: k + 1,
		Total:   n,
		Message: fmt.Sprintf("Analysing move %d/%d (%d%s)", k+1, n, hm.MoveNumber, side),
	})
}

func (a *Analyzer) deadline() time.Time {
	movetime := a.cfg.TimeLimitMs
	ceiling := time.Duration(movetime)*time.Millisecond + maxDuration(time.Duration(float64(movetime)*0.2)*time.Millisecond, 5*time.Second)
	return time.Now().Add(ceiling)
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

func (a *Analyzer) req(fen string) worker.Request {
	return worker.Request{
		FEN:           fen,
		Depth:         a.cfg.MaxDepth,
		MovetimeMs:    a.cfg.TimeLimitMs,
		ProgressEvery: time.Duration(a.cfg.ProgressIntervalMs) * time.Millisecond,
	}
}

// bestMoveData reuses cachedBestOfNext when present (move k's "before"
// is move k-1's "after"), or submits a fresh analysis for ply 0.
func (a *Analyzer) bestMoveData(hm board.HalfMove, cached *worker.Result, cancel <-chan struct{}) (*worker.Result, error) {
	if cached != nil {
		return cached, nil
	}
	res, err := a.worker.Analyze(a.req(hm.FENBefore), a.deadline(), cancel)
	if err != nil && !errs.Is(err, errs.SearchTimeout) {
		return nil, err
	}
	return &res, nil
}

func (a *Analyzer) analyzeAfter(hm board.HalfMove, cancel <-chan struct{}) (*worker.Result, error) {
	res, err := a.worker.Analyze(a.req(hm.FENAfter), a.deadline(), cancel)
	if err != nil && !errs.Is(err, errs.SearchTimeout) {
		return nil, err
	}
	return &res, nil
}

func (a *Analyzer) assemble(gameID string, rows []result.Row, whiteMoves, blackMoves []classify.MoveRecord, start time.Time, outcome result.Outcome) *result.Game {
	g := &result.Game{
		GameID:      gameID,
		Rows:        rows,
		TotalTimeMs: time.Since(start).Milliseconds(),
		Outcome:     outcome,
	}
	for _, row := range rows {
		result.CountLabel(&g.Metrics.White, row.White)
		result.CountLabel(&g.Metrics.Black, row.Black)
	}
	blackResult := classify.ResultDraw
	switch a.cfg.WhiteResult {
	case classify.ResultWin:
		blackResult = classify.ResultLoss
	case classify.ResultLoss:
		blackResult = classify.ResultWin
	}
	result.FinalizeScores(&g.Metrics.White, whiteMoves, true, a.cfg.OpponentRating, a.cfg.WhiteResult)
	result.FinalizeScores(&g.Metrics.Black, blackMoves, false, a.cfg.OpponentRating, blackResult)
	return g
}
