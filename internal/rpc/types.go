// Package rpc exposes the analysis core over gRPC without a generated
// protobuf stub: request/response shapes are plain Go structs carried by
// a registered JSON codec (see codec.go), and the service is wired by
// hand-building a grpc.ServiceDesc (see service.go) instead of importing
// protoc-gen-go output. See SPEC_FULL.md §6 for why: this pack ships no
// .proto file or generated code for this wire protocol (confirmed by
// search over this module's tree), so a literal transliteration of the
// original AnalysisService .proto messages would import a package that
// was never generated here. The field shapes below are carried over
// verbatim from that original schema; only the transport codec changes.
package rpc

// PositionAnalysisRequest mirrors the original AnalyzePositionRequest
// message.
type PositionAnalysisRequest struct {
	FEN     string
	Depth   int32
	MultiPV int32
}

// Evaluation mirrors the original oneof Evaluation (Centipawns or
// MateIn), flattened to two fields tagged by IsMate.
type Evaluation struct {
	IsMate     bool
	Centipawns int32
	MateIn     int32
}

// PositionAnalysis mirrors the original PositionAnalysis response
// message.
type PositionAnalysis struct {
	FEN        string
	Depth      int32
	BestMove   string
	TimeMs     int64
	Evaluation *Evaluation
	PV         []string
	Nodes      int64
	NPS        int64
}

// GameAnalysisRequest mirrors the original AnalyzeGameRequest message,
// with PGN text replaced by an already-extracted SAN move list per
// SPEC_FULL.md's Non-goals (PGN parsing is an external, out-of-scope
// concern).
type GameAnalysisRequest struct {
	GameID   string
	StartFEN string
	SANMoves []string
	Depth    int32
}

// MoveClassification mirrors the original MoveClassification enum,
// carried as the string label internal/classify already produces.
type MoveClassification string

// MoveAnalysis mirrors the original MoveAnalysis message, one flattened
// row per half-move (the original model was already per-ply, not
// per move-pair; callers wanting move-number pairing index
// GameAnalysis.Moves by two).
type MoveAnalysis struct {
	MoveNumber     int32
	Ply            int32
	Color          string
	PlayedMove     string
	PlayedMoveUCI  string
	BestMove       string
	BestMoveUCI    string
	FENBefore      string
	FENAfter       string
	EvalBefore     *Evaluation
	EvalAfter      *Evaluation
	CentipawnLoss  int32
	Classification MoveClassification
	PV             []string
	Depth          int32
}

// GameMetrics mirrors the original GameMetrics message.
type GameMetrics struct {
	Accuracy          float32
	ACPL              float32
	Blunders          int32
	Mistakes          int32
	Inaccuracies      int32
	GoodMoves         int32
	BestMoves         int32
	BrilliantMoves    int32
	BookMoves         int32
	Misses            int32
	TotalMoves        int32
	PerformanceRating int32
}

// GameAnalysis mirrors the original GameAnalysis message.
type GameAnalysis struct {
	GameID        string
	TotalTimeMs   int64
	EngineVersion string
	WhiteMetrics  *GameMetrics
	BlackMetrics  *GameMetrics
	Moves         []*MoveAnalysis
}

// GameAnalysisProgress mirrors the original streaming progress message.
type GameAnalysisProgress struct {
	GameID          string
	CurrentMove     int32
	TotalMoves      int32
	ProgressPercent float32
	Status          string
	ErrorMessage    string
	MoveAnalysis    *MoveAnalysis
}

// GetBestMovesRequest mirrors the original GetBestMovesRequest message.
type GetBestMovesRequest struct {
	FEN   string
	Count int32
	Depth int32
}

// BestMove mirrors the original BestMove message.
type BestMove struct {
	Rank       int32
	MoveUCI    string
	Evaluation *Evaluation
	PV         []string
}

// BestMovesResponse mirrors the original BestMovesResponse message.
type BestMovesResponse struct {
	FEN   string
	Depth int32
	Moves []*BestMove
}

// HealthCheckRequest mirrors the original (empty) HealthCheckRequest
// message.
type HealthCheckRequest struct{}

// HealthCheckResponse mirrors the original HealthCheckResponse message.
type HealthCheckResponse struct {
	Healthy          bool
	Status           string
	AvailableWorkers int32
	TotalWorkers     int32
	EngineVersion    string
	UptimeSeconds    int64
}
