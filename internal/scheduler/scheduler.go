// Package scheduler implements the Bulk Parallel Scheduler (C5): thread
// partitioning across a bounded pool of engine instances, a FIFO game
// queue, progress aggregation, and cooperative cancellation, grounded on
// original_source/app/services/bulk_analysis_service.py's
// calculate_parallel_resources and bulk_analysis_controller.py's
// ContinuousGameAnalysisWorker/BulkAnalysisThread worker-pool pattern.
package scheduler

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eloinsight/analysis-service/internal/analyzer"
	"github.com/eloinsight/analysis-service/internal/board"
	"github.com/eloinsight/analysis-service/internal/book"
	"github.com/eloinsight/analysis-service/internal/engine"
	"github.com/eloinsight/analysis-service/internal/result"
	"github.com/eloinsight/analysis-service/internal/sink"
	"github.com/eloinsight/analysis-service/internal/store"
	"github.com/eloinsight/analysis-service/internal/worker"
)

// Partition implements spec.md §4.5's thread-partitioning law: P' =
// min(P, cores), base = cores/P', rem = cores mod P', and the first rem
// slots get one extra thread. Every core is assigned; P' is always at
// least 1.
func Partition(maxParallelGames, availableCores int) []int {
	if availableCores < 1 {
		availableCores = 1
	}
	p := maxParallelGames
	if p > availableCores {
		p = availableCores
	}
	if p < 1 {
		p = 1
	}

	base := availableCores / p
	rem := availableCores % p

	threads := make([]int, p)
	for i := range threads {
		threads[i] = base
		if i < rem {
			threads[i]++
		}
	}
	return threads
}

// ThreadDistributionStatus formats the thread distribution the way
// spec.md §4.5 specifies: "{total} threads ({P}×{T})" when every slot
// carries the same thread count, "{total} threads ({t0}+{t1}+...)"
// otherwise.
func ThreadDistributionStatus(threads []int) string {
	total := 0
	homogeneous := true
	for i, t := range threads {
		total += t
		if i > 0 && t != threads[0] {
			homogeneous = false
		}
	}
	if homogeneous && len(threads) > 0 {
		return fmt.Sprintf("%d threads (%d×%d)", total, len(threads), threads[0])
	}
	parts := make([]string, len(threads))
	for i, t := range threads {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return fmt.Sprintf("%d threads (%s)", total, strings.Join(parts, "+"))
}

// Game is one queued unit of work.
type Game struct {
	ID       string
	StartFEN string
	SANMoves []string
}

// GameOutcome is the per-game terminal state the scheduler reports.
type GameOutcome struct {
	Game    Game
	Skipped bool
	Error   error
	Result  *result.Game
}

// Config configures one scheduler run.
type Config struct {
	MaxParallelGames int
	MaxTotalThreads  int // 0 = detect via runtime.NumCPU
	ReAnalyze        bool
	StatusInterval   time.Duration // default 100ms, per ui.dialogs.bulk_analysis_dialog.threading.status_update_interval

	EngineConfig engine.Config
	AnalyzerCfg  analyzer.Config
	Oracle       book.Oracle
	Store        store.ResultStore
}

type progressEntry struct {
	current, total int
	depth, seldepth int
	startedAt      time.Time
}

// Scheduler runs a bounded pool of single-game analyzer workers over a
// FIFO queue of games, aggregating progress and honouring cooperative
// cancellation, per spec.md §4.5.
type Scheduler struct {
	cfg     Config
	threads []int
	logger  *zap.Logger
	status  sink.Sink

	mu         sync.Mutex
	progress   map[string]*progressEntry
	slotGame   map[int]string
	cumDepth   int64
	cumSeldepth int64
	cumSamples int64

	cancel chan struct{}
	once   sync.Once
}

// New computes the thread partition from cfg and constructs a
// Scheduler. logger is used for per-worker lifecycle logging; status is
// the throttled rolled-up status sink (spec.md §4.5's UI-thread sink).
func New(cfg Config, logger *zap.Logger, status sink.Sink) *Scheduler {
	if cfg.MaxParallelGames < 1 {
		cfg.MaxParallelGames = 1
	}
	cores := cfg.MaxTotalThreads
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	if cfg.StatusInterval <= 0 {
		cfg.StatusInterval = 100 * time.Millisecond
	}
	return &Scheduler{
		cfg:      cfg,
		threads:  Partition(cfg.MaxParallelGames, cores),
		logger:   logger,
		status:   status,
		progress: make(map[string]*progressEntry),
		slotGame: make(map[int]string),
		cancel:   make(chan struct{}),
	}
}

// Cancel sets the cooperative cancel flag; in-flight games are left in
// their partial state, queued games are discarded.
func (s *Scheduler) Cancel() {
	s.once.Do(func() { close(s.cancel) })
}

// Run drains games through len(s.threads) workers, each owning one
// freshly spawned and partitioned engine, and returns one GameOutcome
// per game that was dequeued (cancelled-before-dequeue games are never
// reported). It blocks until every worker has exited.
func (s *Scheduler) Run(games []Game) []GameOutcome {
	queue := make(chan Game, len(games))
	for _, g := range games {
		queue <- g
	}
	close(queue)

	results := make(chan GameOutcome, len(games))
	statusDone := make(chan struct{})
	go s.statusLoop(statusDone)

	var wg sync.WaitGroup
	for i, threadCount := range s.threads {
		wg.Add(1)
		go func(slot, threads int) {
			defer wg.Done()
			s.runWorker(slot, threads, queue, results)
		}(i, threadCount)
	}

	wg.Wait()
	close(results)
	close(statusDone)

	out := make([]GameOutcome, 0, len(games))
	for r := range results {
		out = append(out, r)
	}

	analysed, skipped, errored := 0, 0, 0
	for _, r := range out {
		switch {
		case r.Skipped:
			skipped++
		case r.Error != nil:
			errored++
		default:
			analysed++
		}
	}
	final := fmt.Sprintf("Completed: %d analysed, %d skipped, %d errors", analysed, skipped, errored)
	select {
	case <-s.cancel:
		final = "Cancelled by user"
	default:
	}
	s.status.Emit(sink.Event{Kind: sink.Finished, Message: final, Success: errored == 0})
	return out
}

func (s *Scheduler) runWorker(slot, threads int, queue <-chan Game, results chan<- GameOutcome) {
	engCfg := s.cfg.EngineConfig
	engCfg.Threads = threads
	engCfg.Identifier = fmt.Sprintf("%s-slot%d", engCfg.Identifier, slot)

	workerSink := sink.NewSink(32)
	w, err := worker.New(engCfg, s.logger, nil, workerSink)
	if err != nil {
		s.logger.Error("scheduler worker failed to start", zap.Int("slot", slot), zap.Error(err))
		// Drain the queue without analysing so other workers can make
		// progress on the remainder; every drained game reports as an
		// error from this dead slot.
		for game := range queue {
			results <- GameOutcome{Game: game, Error: err}
		}
		return
	}
	defer w.Close()

	go s.drainWorkerProgress(slot, workerSink)

	a := analyzer.New(w, s.cfg.Oracle, s.cfg.Store, workerSink, s.logger, s.cfg.AnalyzerCfg)

	for {
		select {
		case <-s.cancel:
			return
		default:
		}

		select {
		case game, ok := <-queue:
			if !ok {
				return
			}
			s.runGame(slot, a, game, results)
		case <-s.cancel:
			return
		}
	}
}

func (s *Scheduler) runGame(slot int, a *analyzer.Analyzer, game Game, results chan<- GameOutcome) {
	if !s.cfg.ReAnalyze && s.cfg.Store != nil && s.cfg.Store.Has(game.ID) {
		results <- GameOutcome{Game: game, Skipped: true}
		return
	}

	s.mu.Lock()
	s.progress[game.ID] = &progressEntry{startedAt: time.Now()}
	s.slotGame[slot] = game.ID
	s.mu.Unlock()

	correlationID := uuid.NewString()
	g, err := a.AnalyzeGame(analyzer.GameInput{
		GameID:   game.ID,
		StartFEN: game.StartFEN,
		SANMoves: game.SANMoves,
	}, s.cancel)

	s.mu.Lock()
	delete(s.progress, game.ID)
	delete(s.slotGame, slot)
	s.mu.Unlock()

	s.logger.Debug("game finished", zap.String("gameId", game.ID), zap.String("correlationId", correlationID), zap.Error(err))
	results <- GameOutcome{Game: game, Error: err, Result: g}
}

// drainWorkerProgress folds one worker's analysis-progress events into
// the scheduler's shared progress map, under a mutex held only long
// enough to update the snapshot, per spec.md §4.5's shared-resource
// policy.
func (s *Scheduler) drainWorkerProgress(slot int, events sink.Sink) {
	for ev := range events {
		if ev.Kind != sink.AnalysisProgress {
			continue
		}
		s.mu.Lock()
		s.cumDepth += int64(ev.Depth)
		s.cumSeldepth += int64(ev.SelDepth)
		s.cumSamples++
		if gameID, ok := s.slotGame[slot]; ok {
			if entry, ok := s.progress[gameID]; ok {
				entry.current = ev.Current
				entry.total = ev.Total
				entry.depth = ev.Depth
				entry.seldepth = ev.SelDepth
			}
		}
		s.mu.Unlock()
	}
}

// statusLoop emits a rolled-up status event at most once per
// StatusInterval until done is closed.
func (s *Scheduler) statusLoop(done <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.StatusInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.emitStatus()
		}
	}
}

func (s *Scheduler) emitStatus() {
	s.mu.Lock()
	active := len(s.progress)
	var avgDepth, avgSeldepth float64
	if s.cumSamples > 0 {
		avgDepth = float64(s.cumDepth) / float64(s.cumSamples)
		avgSeldepth = float64(s.cumSeldepth) / float64(s.cumSamples)
	}
	var avgPercent float64
	var oldest time.Time
	for _, entry := range s.progress {
		if entry.total > 0 {
			avgPercent += float64(entry.current) / float64(entry.total)
		}
		if oldest.IsZero() || entry.startedAt.Before(oldest) {
			oldest = entry.startedAt
		}
	}
	if active > 0 {
		avgPercent /= float64(active)
	}
	s.mu.Unlock()

	var eta time.Duration
	if avgPercent > 0 && !oldest.IsZero() {
		elapsed := time.Since(oldest)
		eta = time.Duration(float64(elapsed) * (1/avgPercent - 1))
	}

	s.status.Emit(sink.Event{
		Kind:       sink.StatusUpdateRequested,
		Current:    active,
		Depth:      int(avgDepth),
		SelDepth:   int(avgSeldepth),
		Percent:    avgPercent * 100,
		PercentStr: ThreadDistributionStatus(s.threads),
		ElapsedMs:  eta.Milliseconds(),
	})
}

// AlreadyAnalysed reports whether the given game has a stored result,
// for callers building the Game list that want to report a skip count
// up front. It is a thin wrapper so callers don't need to import
// internal/store directly just to pre-filter.
func AlreadyAnalysed(st store.ResultStore, gameID string) bool {
	return st != nil && st.Has(gameID)
}

// validateFEN is a defensive check used when constructing a Game from
// external input: an unparsable starting FEN should surface as a
// construction-time error rather than an opaque per-ply decode failure
// deep in the analyzer.
func validateFEN(fen string) error {
	if fen == "" {
		return nil
	}
	_, _, err := board.MaterialAtFEN(fen)
	return err
}

// NewGame validates fen before returning a Game, surfacing a malformed
// starting position immediately instead of deep inside the analyzer.
func NewGame(id, fen string, sanMoves []string) (Game, error) {
	if err := validateFEN(fen); err != nil {
		return Game{}, err
	}
	return Game{ID: id, StartFEN: fen, SANMoves: sanMoves}, nil
}
