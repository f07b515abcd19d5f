package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/eloinsight/analysis-service/internal/analyzer"
	"github.com/eloinsight/analysis-service/internal/book"
	"github.com/eloinsight/analysis-service/internal/config"
	"github.com/eloinsight/analysis-service/internal/engine"
	"github.com/eloinsight/analysis-service/internal/pool"
	"github.com/eloinsight/analysis-service/internal/registry"
	"github.com/eloinsight/analysis-service/internal/rpc"
	"github.com/eloinsight/analysis-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	logger.Info("Starting EloInsight Analysis Service",
		zap.String("grpcPort", cfg.GRPCPort),
		zap.Int("workers", cfg.WorkerPoolSize))

	engineConfig := engine.Config{
		BinaryPath: cfg.Stockfish.BinaryPath,
		Threads:    cfg.Stockfish.Threads,
		Hash:       cfg.Stockfish.Hash,
		MultiPV:    cfg.Stockfish.MultiPV,
		Options:    convertOptions(cfg.Stockfish.Options),
	}

	enginePool, err := pool.New(cfg.WorkerPoolSize, engineConfig, logger, nil)
	if err != nil {
		logger.Fatal("Failed to create engine pool", zap.Error(err))
	}
	defer enginePool.Close()

	engines := registry.New(nil)
	desc := engines.Add(registry.Descriptor{
		Path:    cfg.Stockfish.BinaryPath,
		Name:    "stockfish",
		Version: enginePool.GetStats().Version,
		IsValid: true,
	})
	logger.Info("engine registered", zap.String("id", desc.ID), zap.String("version", desc.Version))

	oracle := book.Oracle(book.NewECOOracle())
	resultStore := store.NewMemoryStore()

	analyzerCfg := analyzer.Config{
		MaxDepth:             cfg.MaxDepth,
		TimeLimitMs:          cfg.TimeLimitPerMoveMs,
		ProgressIntervalMs:   int(cfg.ProgressUpdateInterval / time.Millisecond),
		Thresholds:           cfg.Thresholds,
		BrilliancyRefinement: true,
		TagPersistence:       true,
	}

	rpcServer := rpc.NewServer(enginePool, oracle, resultStore, analyzerCfg, logger)

	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(10*1024*1024),
		grpc.MaxSendMsgSize(10*1024*1024),
	)
	rpc.RegisterAnalysisServiceServer(grpcServer, rpcServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	listener, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Fatal("Failed to listen", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("address", listener.Addr().String()))
		if err := grpcServer.Serve(listener); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	httpServer := startHealthHTTP(cfg.HTTPPort, enginePool, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		logger.Warn("Shutdown timeout, forcing exit")
		grpcServer.Stop()
	case <-stopped:
		logger.Info("Graceful shutdown complete")
	}

	_ = httpServer.Shutdown(ctx)
}

// startHealthHTTP serves a plain-JSON /healthz alongside the gRPC
// HealthCheck RPC, for load balancers and liveness probes that speak
// HTTP rather than gRPC.
func startHealthHTTP(port string, p *pool.Pool, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := p.GetStats()
		w.Header().Set("Content-Type", "application/json")
		if stats.Available == 0 && stats.InUse == stats.Size {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"available": stats.Available,
			"size":      stats.Size,
			"version":   stats.Version,
			"uptime_s":  int64(stats.Uptime.Seconds()),
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		logger.Info("health HTTP listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health HTTP server error", zap.Error(err))
		}
	}()
	return srv
}

// convertOptions adapts the arbitrary "Name=Value" string map config
// parses from STOCKFISH_OPTIONS into the typed option values
// engine.Config.Options requires, treating every value as a UCI string
// option (the engine itself coerces numeric/boolean option values on
// its end of setoption).
func convertOptions(opts map[string]string) map[string]engine.OptionValue {
	if len(opts) == 0 {
		return nil
	}
	out := make(map[string]engine.OptionValue, len(opts))
	for name, value := range opts {
		out[name] = engine.StringOption(value)
	}
	return out
}

func setupLogger(level string, format string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zapcore.DebugLevel
	case "info":
		logLevel = zapcore.InfoLevel
	case "warn":
		logLevel = zapcore.WarnLevel
	case "error":
		logLevel = zapcore.ErrorLevel
	default:
		logLevel = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(logLevel)

	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}

	return logger
}
