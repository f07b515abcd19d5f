// Package config loads the service's runtime configuration from the
// environment (and an optional .env file), covering the classification/
// scheduler keys spec.md §6 names as "recognised options the core
// consumes".
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/eloinsight/analysis-service/internal/classify"
)

// Config holds all service configuration.
type Config struct {
	// Server settings
	GRPCPort string
	HTTPPort string

	// Stockfish settings
	Stockfish StockfishConfig

	// Worker pool / scheduler settings
	WorkerPoolSize        int
	MaxConcurrentAnalyses int
	MaxParallelGames      int
	StatusUpdateInterval  time.Duration

	// game_analysis.* — per spec.md §6
	MaxDepth                int
	TimeLimitPerMoveMs      int
	MaxThreads              int
	ProgressUpdateInterval  time.Duration

	MinDepth        int
	AnalysisTimeout time.Duration

	Thresholds classify.Thresholds

	// Logging
	LogLevel  string
	LogFormat string
}

// StockfishConfig holds Stockfish-specific settings, including the
// arbitrary per-engine options map spec.md §6 calls "Per-engine options"
// (passed through verbatim to setoption).
type StockfishConfig struct {
	BinaryPath string
	Threads    int
	Hash       int // MB
	MultiPV    int
	Options    map[string]string
}

// Load loads configuration from the environment, applying spec.md §6's
// stated defaults for every key it doesn't find set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	th := classify.DefaultThresholds()

	return &Config{
		GRPCPort: getEnv("GRPC_PORT", "50051"),
		HTTPPort: getEnv("HTTP_PORT", "8081"),

		Stockfish: StockfishConfig{
			BinaryPath: getEnv("STOCKFISH_PATH", "/usr/local/bin/stockfish"),
			Threads:    getEnvInt("STOCKFISH_THREADS", 4),
			Hash:       getEnvInt("STOCKFISH_HASH", 2048),
			MultiPV:    getEnvInt("STOCKFISH_MULTI_PV", 3),
			Options:    getEnvOptionsMap("STOCKFISH_OPTIONS"),
		},

		WorkerPoolSize:        getEnvInt("WORKER_POOL_SIZE", 4),
		MaxConcurrentAnalyses: getEnvInt("MAX_CONCURRENT_ANALYSES", 10),
		MaxParallelGames:      getEnvInt("MAX_PARALLEL_GAMES", 4),
		StatusUpdateInterval:  time.Duration(getEnvFloatMillis("UI_DIALOGS_BULK_ANALYSIS_DIALOG_THREADING_STATUS_UPDATE_INTERVAL", 0.1)) * time.Millisecond,

		MaxDepth:               getEnvInt("GAME_ANALYSIS_MAX_DEPTH", 18),
		TimeLimitPerMoveMs:     getEnvInt("GAME_ANALYSIS_TIME_LIMIT_PER_MOVE_MS", 3000),
		MaxThreads:             getEnvInt("GAME_ANALYSIS_MAX_THREADS", 6),
		ProgressUpdateInterval: time.Duration(getEnvInt("GAME_ANALYSIS_PROGRESS_UPDATE_INTERVAL_MS", 500)) * time.Millisecond,

		MinDepth:        getEnvInt("MIN_DEPTH", 10),
		AnalysisTimeout: time.Duration(getEnvInt("ANALYSIS_TIMEOUT_SECONDS", 60)) * time.Second,

		Thresholds: classify.Thresholds{
			GoodMoveMaxCPL:           getEnvInt("THRESHOLDS_GOOD_MOVE_MAX_CPL", th.GoodMoveMaxCPL),
			InaccuracyMaxCPL:         getEnvInt("THRESHOLDS_INACCURACY_MAX_CPL", th.InaccuracyMaxCPL),
			MistakeMaxCPL:            getEnvInt("THRESHOLDS_MISTAKE_MAX_CPL", th.MistakeMaxCPL),
			MinEvalSwing:             getEnvInt("THRESHOLDS_MIN_EVAL_SWING", th.MinEvalSwing),
			MinMaterialSacrifice:     getEnvInt("THRESHOLDS_MIN_MATERIAL_SACRIFICE", th.MinMaterialSacrifice),
			MaxEvalBefore:            getEnvInt("THRESHOLDS_MAX_EVAL_BEFORE", th.MaxEvalBefore),
			ExcludeAlreadyWinning:    getEnvBool("THRESHOLDS_EXCLUDE_ALREADY_WINNING", th.ExcludeAlreadyWinning),
			InlineLookaheadPlies:     getEnvInt("THRESHOLDS_INLINE_LOOKAHEAD_PLIES", th.InlineLookaheadPlies),
			RefinementLookaheadPlies: getEnvInt("THRESHOLDS_REFINEMENT_LOOKAHEAD_PLIES", th.RefinementLookaheadPlies),
			RepeatIndicator:          getEnv("THRESHOLDS_REPEAT_INDICATOR", th.RepeatIndicator),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvFloatMillis parses a float-seconds environment value (spec.md
// §6's status_update_interval is stated in seconds) and returns it as
// whole milliseconds, falling back to defaultSeconds when unset or
// unparsable.
func getEnvFloatMillis(key string, defaultSeconds float64) int {
	seconds := defaultSeconds
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			seconds = f
		}
	}
	return int(seconds * 1000)
}

// getEnvOptionsMap parses a "Name=Value,Name2=Value2" environment value
// into the arbitrary per-engine options map spec.md §6 passes through
// verbatim to setoption.
func getEnvOptionsMap(key string) map[string]string {
	out := make(map[string]string)
	value := os.Getenv(key)
	if value == "" {
		return out
	}
	for _, pair := range strings.Split(value, ",") {
		name, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(val)
	}
	return out
}
