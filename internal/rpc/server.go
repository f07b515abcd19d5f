package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/eloinsight/analysis-service/internal/analyzer"
	"github.com/eloinsight/analysis-service/internal/book"
	"github.com/eloinsight/analysis-service/internal/classify"
	"github.com/eloinsight/analysis-service/internal/pool"
	"github.com/eloinsight/analysis-service/internal/result"
	"github.com/eloinsight/analysis-service/internal/sink"
	"github.com/eloinsight/analysis-service/internal/store"
	"github.com/eloinsight/analysis-service/internal/worker"
)

func errUnimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// Server implements AnalysisServiceServer against a shared engine pool:
// each request borrows one pooled engine for its duration via
// worker.Adopt, runs it through the same worker/analyzer pipeline the
// bulk scheduler uses, and returns it to the pool. Grounded on
// original_source's gRPC server module for the method surface and
// request-validation style (field presence before dispatch).
type Server struct {
	UnimplementedAnalysisServiceServer

	pool       *pool.Pool
	oracle     book.Oracle
	store      store.ResultStore
	cfg        analyzer.Config
	logger     *zap.Logger
	startTime  time.Time
}

// NewServer constructs a Server borrowing engines from p for every
// request.
func NewServer(p *pool.Pool, oracle book.Oracle, st store.ResultStore, cfg analyzer.Config, logger *zap.Logger) *Server {
	return &Server{pool: p, oracle: oracle, store: st, cfg: cfg, logger: logger, startTime: time.Now()}
}

func (s *Server) borrow(ctx context.Context) (*worker.Worker, func(), error) {
	eng, err := s.pool.Get(ctx)
	if err != nil {
		return nil, nil, status.Errorf(codes.ResourceExhausted, "no engine available: %v", err)
	}
	w := worker.Adopt(eng, s.logger, "rpc", nil)
	return w, func() { s.pool.Put(eng) }, nil
}

func depthOrDefault(d int32, def int) int {
	if d <= 0 {
		return def
	}
	return int(d)
}

// AnalyzePosition analyzes a single FEN position to a fixed depth.
func (s *Server) AnalyzePosition(ctx context.Context, req *PositionAnalysisRequest) (*PositionAnalysis, error) {
	if req.FEN == "" {
		return nil, status.Error(codes.InvalidArgument, "FEN is required")
	}
	w, release, err := s.borrow(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	r := worker.Request{FEN: req.FEN, Depth: depthOrDefault(req.Depth, s.cfg.MaxDepth), MovetimeMs: s.cfg.TimeLimitMs}
	deadline := time.Now().Add(time.Duration(r.MovetimeMs+5000) * time.Millisecond)
	res, err := w.Analyze(r, deadline, ctx.Done())
	if err != nil && res.PV[0].MovesUCI == nil && !res.MateZero {
		return nil, status.Errorf(codes.Internal, "analysis failed: %v", err)
	}

	return &PositionAnalysis{
		FEN:        req.FEN,
		Depth:      int32(res.Depth),
		BestMove:   res.BestMoveUCI,
		TimeMs:     res.ElapsedMs,
		Evaluation: convertEvaluation(res.PV[0].Score),
		PV:         res.PV[0].MovesUCI,
		NPS:        res.NPS,
	}, nil
}

// AnalyzePositionStream streams progressively deeper position analyses
// at a fixed depth ladder.
func (s *Server) AnalyzePositionStream(req *PositionAnalysisRequest, stream AnalysisService_AnalyzePositionStreamServer) error {
	if req.FEN == "" {
		return status.Error(codes.InvalidArgument, "FEN is required")
	}
	maxDepth := depthOrDefault(req.Depth, s.cfg.MaxDepth)
	depths := []int{8, 12, 16, 20}
	if maxDepth > 20 {
		depths = append(depths, maxDepth)
	}

	w, release, err := s.borrow(stream.Context())
	if err != nil {
		return err
	}
	defer release()

	for _, d := range depths {
		if d > maxDepth {
			break
		}
		select {
		case <-stream.Context().Done():
			return stream.Context().Err()
		default:
		}

		r := worker.Request{FEN: req.FEN, Depth: d}
		deadline := time.Now().Add(10 * time.Second)
		res, analyzeErr := w.Analyze(r, deadline, stream.Context().Done())
		if analyzeErr != nil && res.PV[0].MovesUCI == nil {
			continue
		}

		if err := stream.Send(&PositionAnalysis{
			FEN:        req.FEN,
			Depth:      int32(res.Depth),
			BestMove:   res.BestMoveUCI,
			TimeMs:     res.ElapsedMs,
			Evaluation: convertEvaluation(res.PV[0].Score),
			PV:         res.PV[0].MovesUCI,
			NPS:        res.NPS,
		}); err != nil {
			return err
		}
	}
	return nil
}

// AnalyzeGame analyzes a complete game to completion and returns the
// assembled result in one response.
func (s *Server) AnalyzeGame(ctx context.Context, req *GameAnalysisRequest) (*GameAnalysis, error) {
	if len(req.SANMoves) == 0 {
		return nil, status.Error(codes.InvalidArgument, "move list is required")
	}
	w, release, err := s.borrow(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	cfg := s.cfg
	if req.Depth > 0 {
		cfg.MaxDepth = int(req.Depth)
	}
	a := analyzer.New(w, s.oracle, s.store, nil, s.logger, cfg)
	g, err := a.AnalyzeGame(analyzer.GameInput{GameID: req.GameID, StartFEN: req.StartFEN, SANMoves: req.SANMoves}, ctx.Done())
	if err != nil && g == nil {
		return nil, status.Errorf(codes.Internal, "game analysis failed: %v", err)
	}
	return convertGameAnalysis(g), nil
}

// AnalyzeGameStream analyzes a complete game, streaming the analyzer's
// AnalysisProgress and MoveAnalyzed events as they occur.
func (s *Server) AnalyzeGameStream(req *GameAnalysisRequest, stream AnalysisService_AnalyzeGameStreamServer) error {
	if len(req.SANMoves) == 0 {
		return status.Error(codes.InvalidArgument, "move list is required")
	}
	w, release, err := s.borrow(stream.Context())
	if err != nil {
		return err
	}
	defer release()

	events := sink.NewSink(64)
	cfg := s.cfg
	if req.Depth > 0 {
		cfg.MaxDepth = int(req.Depth)
	}
	a := analyzer.New(w, s.oracle, s.store, events, s.logger, cfg)

	done := make(chan struct{})
	var g *result.Game
	var analyzeErr error
	go func() {
		defer close(done)
		defer events.Close()
		g, analyzeErr = a.AnalyzeGame(analyzer.GameInput{GameID: req.GameID, StartFEN: req.StartFEN, SANMoves: req.SANMoves}, stream.Context().Done())
	}()

	total := len(req.SANMoves)
	for ev := range events {
		if ev.Kind != sink.AnalysisProgress && ev.Kind != sink.MoveAnalyzed {
			continue
		}
		progress := &GameAnalysisProgress{
			GameID:          req.GameID,
			CurrentMove:     int32(ev.Current),
			TotalMoves:      int32(total),
			ProgressPercent: float32(ev.Current) / float32(max(total, 1)) * 100,
			Status:          "analyzing",
		}
		if err := stream.Send(progress); err != nil {
			<-done
			return err
		}
	}
	<-done

	if analyzeErr != nil && g == nil {
		return status.Errorf(codes.Internal, "game analysis failed: %v", analyzeErr)
	}

	final := &GameAnalysisProgress{
		GameID:          req.GameID,
		CurrentMove:     int32(total),
		TotalMoves:      int32(total),
		ProgressPercent: 100,
		Status:          "completed",
	}
	if analyzeErr != nil {
		final.Status = "error"
		final.ErrorMessage = analyzeErr.Error()
	}
	if len(g.Rows) > 0 {
		last := g.Rows[len(g.Rows)-1]
		if last.Black != nil {
			final.MoveAnalysis = convertHalfMove(last.Black, last.MoveNumber, false)
		} else if last.White != nil {
			final.MoveAnalysis = convertHalfMove(last.White, last.MoveNumber, true)
		}
	}
	return stream.Send(final)
}

// GetBestMoves returns the engine's top-N move evaluations for a
// position.
func (s *Server) GetBestMoves(ctx context.Context, req *GetBestMovesRequest) (*BestMovesResponse, error) {
	if req.FEN == "" {
		return nil, status.Error(codes.InvalidArgument, "FEN is required")
	}
	w, release, err := s.borrow(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	depth := depthOrDefault(req.Depth, s.cfg.MaxDepth)
	count := int(req.Count)
	if count <= 0 || count > 3 {
		count = 3
	}

	r := worker.Request{FEN: req.FEN, Depth: depth}
	deadline := time.Now().Add(time.Duration(depth)*200*time.Millisecond + 5*time.Second)
	res, analyzeErr := w.Analyze(r, deadline, ctx.Done())
	if analyzeErr != nil && res.PV[0].MovesUCI == nil {
		return nil, status.Errorf(codes.Internal, "analysis failed: %v", analyzeErr)
	}

	resp := &BestMovesResponse{FEN: req.FEN, Depth: int32(depth), Moves: make([]*BestMove, 0, count)}
	for i := 0; i < count && i < len(res.PV); i++ {
		slot := res.PV[i]
		if len(slot.MovesUCI) == 0 {
			continue
		}
		resp.Moves = append(resp.Moves, &BestMove{
			Rank:       int32(i + 1),
			MoveUCI:    slot.MovesUCI[0],
			Evaluation: convertEvaluation(slot.Score),
			PV:         slot.MovesUCI,
		})
	}
	return resp, nil
}

// HealthCheck reports pool occupancy and engine version, per spec.md §6.
func (s *Server) HealthCheck(ctx context.Context, req *HealthCheckRequest) (*HealthCheckResponse, error) {
	stats := s.pool.GetStats()
	return &HealthCheckResponse{
		Healthy:          stats.Available > 0,
		Status:           "ok",
		AvailableWorkers: int32(stats.Available),
		TotalWorkers:     int32(stats.Size),
		EngineVersion:    stats.Version,
		UptimeSeconds:    int64(stats.Uptime.Seconds()),
	}, nil
}

func convertEvaluation(score classify.Score) *Evaluation {
	if score.IsMate {
		return &Evaluation{IsMate: true, MateIn: int32(score.MatePlies)}
	}
	return &Evaluation{Centipawns: int32(score.Cp)}
}

func convertHalfMove(half *result.HalfMoveResult, moveNumber int, white bool) *MoveAnalysis {
	if half == nil {
		return nil
	}
	color := "black"
	ply := 2 * moveNumber
	if white {
		color = "white"
		ply--
	}
	pv := make([]string, 0, 3)
	for _, san := range half.BestSAN {
		if san != "" {
			pv = append(pv, san)
		}
	}
	return &MoveAnalysis{
		MoveNumber:     int32(moveNumber),
		Ply:            int32(ply),
		Color:          color,
		PlayedMove:     half.SAN,
		PlayedMoveUCI:  half.UCI,
		BestMove:       half.BestSAN[0],
		FENBefore:      half.FENBefore,
		FENAfter:       half.FENAfter,
		EvalBefore:     convertEvaluation(half.EvalBefore),
		EvalAfter:      convertEvaluation(half.EvalAfterPlayed),
		CentipawnLoss:  int32(half.CPL),
		Classification: MoveClassification(half.Label),
		PV:             pv,
		Depth:          int32(half.Depth),
	}
}

func convertMetrics(m result.PlayerMetrics) *GameMetrics {
	return &GameMetrics{
		Accuracy:          float32(m.Accuracy),
		ACPL:              float32(m.ACPL),
		Blunders:          int32(m.Blunders),
		Mistakes:          int32(m.Mistakes),
		Inaccuracies:      int32(m.Inaccuracies),
		GoodMoves:         int32(m.GoodMoves),
		BestMoves:         int32(m.BestMoves),
		BrilliantMoves:    int32(m.BrilliantMoves),
		BookMoves:         int32(m.BookMoves),
		Misses:            int32(m.Misses),
		TotalMoves:        int32(m.TotalMoves),
		PerformanceRating: int32(m.PerformanceRating),
	}
}

func convertGameAnalysis(g *result.Game) *GameAnalysis {
	if g == nil {
		return &GameAnalysis{}
	}
	out := &GameAnalysis{
		GameID:        g.GameID,
		TotalTimeMs:   g.TotalTimeMs,
		EngineVersion: g.EngineVersion,
		WhiteMetrics:  convertMetrics(g.Metrics.White),
		BlackMetrics:  convertMetrics(g.Metrics.Black),
		Moves:         make([]*MoveAnalysis, 0, len(g.Rows)*2),
	}
	for _, row := range g.Rows {
		if m := convertHalfMove(row.White, row.MoveNumber, true); m != nil {
			out.Moves = append(out.Moves, m)
		}
		if m := convertHalfMove(row.Black, row.MoveNumber, false); m != nil {
			out.Moves = append(out.Moves, m)
		}
	}
	return out
}

