// Package worker implements the Position Analyzer Worker (C2): a Worker
// owns one UCI engine and analyses one position per Analyze call,
// synchronously in the caller's goroutine, grounded on spec.md §4.2. It
// runs no goroutine of its own and keeps no request queue; callers
// sequence requests themselves.
package worker

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eloinsight/analysis-service/internal/board"
	"github.com/eloinsight/analysis-service/internal/classify"
	"github.com/eloinsight/analysis-service/internal/engine"
	"github.com/eloinsight/analysis-service/internal/errs"
	"github.com/eloinsight/analysis-service/internal/sink"
)

// Request is one position-analysis request (spec.md §3 "Position
// analysis request").
type Request struct {
	FEN         string
	Depth       int
	MovetimeMs  int
	EngineName  string
	ProgressEvery time.Duration
}

// PVSlot is one Multi-PV table entry: the long-algebraic move list plus
// its normalised score.
type PVSlot struct {
	Score    classify.Score
	MovesUCI []string
	FirstSAN string
}

// Result is the completion payload of one analysis (spec.md §3
// "Position-analysis result"). Partial=true means analysis was salvaged
// from progress state after a caller-side timeout; PV slots are empty
// in that case.
type Result struct {
	FEN         string
	Depth       int
	SelDepth    int
	NPS         int64
	ElapsedMs   int64
	PV          [3]PVSlot
	BestMoveUCI string
	PonderUCI   string
	MateZero    bool
	Partial     bool
}

// Worker owns a single Engine and analyses requests one at a time.
type Worker struct {
	eng    *engine.Engine
	logger *zap.Logger
	sink   sink.Sink
	name   string
}

const (
	initTimeout  = 5 * time.Second
	readPollStep = 100 * time.Millisecond
	// noProgressFloor is the minimum no-progress watchdog window,
	// regardless of how small movetime is (spec.md §4.2).
	noProgressFloor = 10 * time.Second
)

// New spawns and initializes an Engine for this worker, applying
// Threads/MultiPV per spec.md §4.2 step 2.
func New(cfg engine.Config, logger *zap.Logger, taps *engine.Taps, s sink.Sink) (*Worker, error) {
	if cfg.MultiPV == 0 {
		cfg.MultiPV = 3
	}
	eng := engine.NewEngine(cfg, logger, taps)
	if err := eng.Spawn(); err != nil {
		return nil, err
	}
	if err := eng.Initialize(initTimeout); err != nil {
		eng.Cleanup()
		return nil, err
	}
	if err := eng.ConfirmReady(initTimeout); err != nil {
		eng.Cleanup()
		return nil, err
	}
	return &Worker{eng: eng, logger: logger, sink: s, name: cfg.Identifier}, nil
}

// Adopt wraps an already spawned, initialized, and ready-confirmed
// Engine (typically borrowed from internal/pool) as a Worker, without
// performing the spawn/initialize/confirm-ready handshake New does --
// for callers (internal/rpc) that multiplex one-off requests across a
// shared pool instead of owning a dedicated engine for a long-running
// analysis.
func Adopt(eng *engine.Engine, logger *zap.Logger, name string, s sink.Sink) *Worker {
	return &Worker{eng: eng, logger: logger, sink: s, name: name}
}

// Close shuts the worker's engine down. Callers that obtained their
// Worker via Adopt should not call Close -- the pool owns that engine's
// lifecycle instead.
func (w *Worker) Close() { w.eng.Cleanup() }

// Engine exposes the underlying driver, e.g. for pool reuse.
func (w *Worker) Engine() *engine.Engine { return w.eng }

type pvState struct {
	maxDepth, maxSelDepth int
	bestScore             classify.Score
	bestKnown             bool
	pv                    [3]PVSlot
	lastNPS               int64
}

// Analyze runs one position analysis to completion, a caller-imposed
// deadline, or cancellation via cancel. It always returns the best
// Result it can assemble; Partial is set if deadline/cancel fired
// before a final bestmove line arrived.
func (w *Worker) Analyze(req Request, deadline time.Time, cancel <-chan struct{}) (Result, error) {
	whiteToMove, err := board.SideToMoveWhite(req.FEN)
	if err != nil {
		return Result{}, errs.Wrap(errs.SearchFailed, "parse fen", err)
	}

	if err := w.eng.SetPosition(req.FEN); err != nil {
		return Result{}, err
	}
	if err := w.eng.StartSearch(engine.SearchParams{Depth: req.Depth, MovetimeMs: req.MovetimeMs}); err != nil {
		return Result{}, err
	}

	start := time.Now()
	var state pvState
	progressEvery := req.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = time.Second
	}
	lastProgress := time.Time{}
	lastInfoLine := start

	// No-progress watchdog per spec.md §4.2: abort a search that hasn't
	// produced a new info line in max(2×movetime, 10s).
	watchdogWindow := time.Duration(req.MovetimeMs) * time.Millisecond * 2
	if watchdogWindow < noProgressFloor {
		watchdogWindow = noProgressFloor
	}

	for {
		select {
		case <-cancel:
			_ = w.eng.StopSearch()
			return w.salvage(req.FEN, state, start), errs.New(errs.Cancelled, "analysis cancelled")
		default:
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			_ = w.eng.StopSearch()
			// 500ms grace for a late bestmove, per spec.md §4.2 timeout policy.
			if line, ok := w.eng.ReadLine(500 * time.Millisecond); ok {
				if res, done := w.handleLine(line, whiteToMove, req.FEN, &state, start); done {
					return res, nil
				}
			}
			return w.salvage(req.FEN, state, start), errs.New(errs.SearchTimeout, "analysis deadline exceeded")
		}

		if time.Since(lastInfoLine) >= watchdogWindow {
			_ = w.eng.StopSearch()
			if line, ok := w.eng.ReadLine(500 * time.Millisecond); ok {
				if res, done := w.handleLine(line, whiteToMove, req.FEN, &state, start); done {
					return res, nil
				}
			}
			return w.salvage(req.FEN, state, start), errs.New(errs.SearchTimeout, "no-progress watchdog tripped")
		}

		if !w.eng.IsAlive() {
			return w.salvage(req.FEN, state, start), errs.New(errs.EngineTerminated, "engine died mid-search")
		}

		line, ok := w.eng.ReadLine(readPollStep)
		if !ok {
			continue
		}
		if strings.HasPrefix(line, "info") {
			lastInfoLine = time.Now()
		}

		if res, done := w.handleLine(line, whiteToMove, req.FEN, &state, start); done {
			return res, nil
		}

		if time.Since(lastProgress) >= progressEvery {
			lastProgress = time.Now()
			w.emitProgress(state, start, req.EngineName)
		}
	}
}

func (w *Worker) handleLine(line string, whiteToMove bool, fen string, state *pvState, start time.Time) (Result, bool) {
	if strings.HasPrefix(line, "bestmove") {
		bm, ok := engine.ParseBestMove(line)
		if !ok {
			return Result{}, false
		}
		res := w.assemble(fen, *state, start)
		if bm.None {
			res.MateZero = true
			res.BestMoveUCI = ""
			// No score was reported for this terminal position: fill PV
			// slot 1 with a fabricated mate-0 score.
			if !state.bestKnown {
				res.PV[0].Score = classify.MateScore(0)
			}
		} else {
			res.BestMoveUCI = bm.BestMove
			res.PonderUCI = bm.PonderMove
		}
		return res, true
	}

	if !strings.HasPrefix(line, "info") {
		return Result{}, false
	}
	info := engine.ParseInfoLine(line)
	if info.Depth > state.maxDepth {
		state.maxDepth = info.Depth
	}
	if info.SelDepth > state.maxSelDepth {
		state.maxSelDepth = info.SelDepth
	}
	if info.NPS > 0 {
		state.lastNPS = info.NPS
	}
	if !info.HasScore {
		return Result{}, false
	}

	score := engine.NormalizeToWhite(info.Score, whiteToMove)
	slot := info.MultiPV
	if slot == 0 {
		slot = 1
	}
	if slot >= 1 && slot <= 3 {
		idx := slot - 1
		state.pv[idx] = PVSlot{Score: score, MovesUCI: info.PV}
		if len(info.PV) > 0 {
			if san, err := board.UCIToSAN(fen, info.PV[0]); err == nil {
				state.pv[idx].FirstSAN = san
			}
		}
	}
	if slot == 1 {
		state.bestScore = score
		state.bestKnown = true
	}
	return Result{}, false
}

func (w *Worker) assemble(fen string, state pvState, start time.Time) Result {
	return Result{
		FEN:       fen,
		Depth:     state.maxDepth,
		SelDepth:  state.maxSelDepth,
		NPS:       state.lastNPS,
		ElapsedMs: time.Since(start).Milliseconds(),
		PV:        state.pv,
	}
}

func (w *Worker) salvage(fen string, state pvState, start time.Time) Result {
	res := w.assemble(fen, state, start)
	res.Partial = true
	res.PV = [3]PVSlot{}
	return res
}

func (w *Worker) emitProgress(state pvState, start time.Time, engineName string) {
	if w.sink == nil {
		return
	}
	cp := 0
	if state.bestKnown {
		cp = state.bestScore.Extreme()
	}
	w.sink.Emit(sink.Event{
		Kind:       sink.AnalysisProgress,
		Depth:      state.maxDepth,
		SelDepth:   state.maxSelDepth,
		Cp:         cp,
		EngineName: engineName,
		ElapsedMs:  time.Since(start).Milliseconds(),
	})
}
