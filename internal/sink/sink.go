// Package sink models the observer-callback surface of the original
// implementation (analysis_started, analysis_progress, move_analyzed, ...)
// as a typed event sent over a channel the owner drains, per the
// Signal/slot re-architecture note: no callback registries, no
// back-pointers from analyzer to caller.
package sink

// EventKind distinguishes the observable signals the core emits.
type EventKind string

const (
	AnalysisStarted   EventKind = "analysis_started"
	AnalysisProgress  EventKind = "analysis_progress"
	MoveAnalyzed      EventKind = "move_analyzed"
	AnalysisCompleted EventKind = "analysis_completed"
	AnalysisCancelled EventKind = "analysis_cancelled"

	ProgressUpdated       EventKind = "progress_updated"
	StatusUpdateRequested EventKind = "status_update_requested"
	GameAnalyzed          EventKind = "game_analyzed"
	Finished              EventKind = "finished"
)

// Event is one observable signal. Only the fields relevant to Kind are
// populated; the rest are zero values.
type Event struct {
	Kind EventKind

	// analysis_progress / progress_updated
	Current    int
	Total      int
	Depth      int
	SelDepth   int
	Cp         int
	EngineName string
	Threads    int
	ElapsedMs  int64
	Percent    float64
	Message    string
	PercentStr string

	// move_analyzed
	RowIndex int

	// game_analyzed
	GameID string

	// finished
	Success bool
}

// Sink is the typed channel an owner drains for progress/lifecycle
// events emitted by a worker, analyzer, or scheduler. Send must never
// block the emitter indefinitely; callers construct Sink with enough
// buffer for their fan-out, and Emit drops the event rather than block
// if the channel is full, matching the "coalesced, may reorder" ordering
// guarantee for progress emissions in spec.md's concurrency model.
type Sink chan Event

// NewSink creates a buffered Sink. A buffer of 0 is valid but means
// Emit will drop every event whose receiver isn't already waiting.
func NewSink(buffer int) Sink {
	return make(Sink, buffer)
}

// Emit sends ev on s without blocking; if s is full the event is
// dropped. A nil Sink silently discards all events.
func (s Sink) Emit(ev Event) {
	if s == nil {
		return
	}
	select {
	case s <- ev:
	default:
	}
}

// Close closes the underlying channel. Must only be called by the
// owner that created the Sink, never by an emitter.
func (s Sink) Close() {
	if s != nil {
		close(s)
	}
}
