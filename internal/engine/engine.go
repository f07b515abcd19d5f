// Package engine implements the UCI Driver (C1): a full-duplex
// line-oriented protocol driver over a child process, with non-blocking
// reads, lifecycle and timeout handling, grounded on
// original_source/app/services/uci_communication_service.py's exact
// lifecycle and binary-mode rationale.
package engine

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eloinsight/analysis-service/internal/errs"
)

// Config is the configuration an Engine is spawned with.
type Config struct {
	BinaryPath string
	Threads    int
	Hash       int
	MultiPV    int
	// Options are additional engine-specific UCI options applied during
	// Initialize, after Threads/Hash/MultiPV.
	Options map[string]OptionValue
	// Identifier names the role this engine instance serves (e.g.
	// "GameAnalysis", "Evaluation", "ManualAnalysis"), surfaced in debug
	// logs exactly as the original's per-instance identifier.
	Identifier string
}

// Engine is a single-owner driver for one UCI engine child process.
// After Cleanup, all further operations return errs.NotInitialized.
type Engine struct {
	mu     sync.Mutex
	config Config
	logger *zap.Logger
	taps   *Taps

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser

	lines      chan string
	readerDone chan struct{}

	ready       bool
	initialized bool
	cleanedUp   bool
	version     string
	author      string
}

// NewEngine constructs an Engine bound to config, not yet spawned. taps
// may be nil, in which case all debug taps are treated as disabled.
func NewEngine(config Config, logger *zap.Logger, taps *Taps) *Engine {
	if taps == nil {
		taps = NewTaps()
	}
	return &Engine{config: config, logger: logger, taps: taps}
}

func (e *Engine) lifecycle(event, details string) {
	if e.taps.Lifecycle() {
		if details != "" {
			e.logger.Info("uci lifecycle", zap.String("identifier", e.config.Identifier), zap.String("event", event), zap.String("details", details))
		} else {
			e.logger.Info("uci lifecycle", zap.String("identifier", e.config.Identifier), zap.String("event", event))
		}
	}
}

// Spawn launches the child process with piped, unbuffered binary
// stdin/stdout, per spec.md §4.1.
func (e *Engine) Spawn() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cmd := exec.Command(e.config.BinaryPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errs.Wrap(errs.SpawnFailed, "stdin pipe", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errs.Wrap(errs.SpawnFailed, "stdout pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return errs.Wrap(errs.SpawnFailed, "start process", err)
	}

	e.cmd = cmd
	e.stdin = stdin
	e.stdout = stdout
	e.lines = make(chan string, 256)
	e.readerDone = make(chan struct{})

	go e.readLoop()

	e.lifecycle("STARTED", fmt.Sprintf("PID:%d", cmd.Process.Pid))
	return nil
}

// readLoop owns the raw byte buffer and manual line splitting described
// in spec.md §4.1's binary-mode rationale: it reads raw bytes from
// stdout and splits on '\n' itself rather than relying on a blocking
// line reader, so a complete line is available the instant it arrives.
// Exposing it as a channel lets ReadLine implement the "fast path if
// already buffered, else wait up to timeout" contract with select
// instead of manual polling.
func (e *Engine) readLoop() {
	defer close(e.lines)
	defer close(e.readerDone)

	r := bufio.NewReaderSize(e.stdout, 4096)
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if len(buf) > 0 {
				e.lines <- decodeLine(buf)
			}
			return
		}
		if b == '\n' {
			e.lines <- decodeLine(buf)
			buf = buf[:0]
			continue
		}
		buf = append(buf, b)
	}
}

// decodeLine strips a trailing '\r' and replaces invalid UTF-8 bytes
// rather than failing, per spec.md §4.1 ("decoding errors replace the
// offending byte rather than fail").
func decodeLine(b []byte) string {
	s := strings.TrimRight(string(b), "\r")
	return strings.ToValidUTF8(s, "�")
}

// ReadLine returns the first complete line already buffered without
// blocking (fast path), or waits up to timeout for one to arrive.
// Returns ("", false) on timeout or process death.
func (e *Engine) ReadLine(timeout time.Duration) (string, bool) {
	select {
	case line, ok := <-e.lines:
		if !ok {
			return "", false
		}
		e.tapInbound(line)
		return line, true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case line, ok := <-e.lines:
		if !ok {
			return "", false
		}
		e.tapInbound(line)
		return line, true
	case <-timer.C:
		return "", false
	}
}

func (e *Engine) tapInbound(line string) {
	if e.taps.Inbound() {
		e.logger.Debug("uci recv", zap.String("identifier", e.config.Identifier), zap.String("line", line))
	}
}

func (e *Engine) send(command string) error {
	e.mu.Lock()
	stdin := e.stdin
	cleanedUp := e.cleanedUp
	e.mu.Unlock()

	if cleanedUp || stdin == nil {
		return errs.New(errs.NotInitialized, "engine not initialized")
	}
	if e.taps.Outbound() {
		e.logger.Debug("uci send", zap.String("identifier", e.config.Identifier), zap.String("line", command))
	}
	if _, err := io.WriteString(stdin, command+"\n"); err != nil {
		return errs.Wrap(errs.EngineTerminated, "write command", err)
	}
	return nil
}

// Initialize sends `uci` and waits for `uciok` or timeout.
func (e *Engine) Initialize(timeout time.Duration) error {
	if err := e.send("uci"); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !e.IsAlive() {
			return errs.New(errs.EngineTerminated, "engine died during initialization")
		}
		line, ok := e.ReadLine(100 * time.Millisecond)
		if !ok {
			continue
		}
		if strings.HasPrefix(line, "id name ") {
			e.version = strings.TrimPrefix(line, "id name ")
		}
		if strings.HasPrefix(line, "id author ") {
			e.author = strings.TrimPrefix(line, "id author ")
		}
		if line == "uciok" {
			e.mu.Lock()
			e.initialized = true
			e.mu.Unlock()
			return e.applyStandardOptions()
		}
	}
	return errs.New(errs.HandshakeTimeout, "no uciok within timeout")
}

func (e *Engine) applyStandardOptions() error {
	if e.config.Threads > 0 {
		if err := e.SetOption("Threads", IntOption(int64(e.config.Threads))); err != nil {
			return err
		}
	}
	if e.config.Hash > 0 {
		if err := e.SetOption("Hash", IntOption(int64(e.config.Hash))); err != nil {
			return err
		}
	}
	if e.config.MultiPV > 1 {
		if err := e.SetOption("MultiPV", IntOption(int64(e.config.MultiPV))); err != nil {
			return err
		}
	}
	for name, value := range e.config.Options {
		if err := e.SetOption(name, value); err != nil {
			return err
		}
	}
	return nil
}

// SetOption sends `setoption name <N> value <V>`; it does not wait for
// acknowledgement unless the caller subsequently calls ConfirmReady.
func (e *Engine) SetOption(name string, value OptionValue) error {
	return e.send(fmt.Sprintf("setoption name %s value %s", name, value.WireValue()))
}

// ConfirmReady sends `isready` and waits for `readyok`.
func (e *Engine) ConfirmReady(timeout time.Duration) error {
	if err := e.send("isready"); err != nil {
		return err
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !e.IsAlive() {
			return errs.New(errs.EngineTerminated, "engine died waiting for readyok")
		}
		line, ok := e.ReadLine(100 * time.Millisecond)
		if !ok {
			continue
		}
		if line == "readyok" {
			e.mu.Lock()
			e.ready = true
			e.mu.Unlock()
			return nil
		}
	}
	return errs.New(errs.ReadyTimeout, "no readyok within timeout")
}

// SetPosition sends `position fen <FEN>`.
func (e *Engine) SetPosition(fen string) error {
	return e.send("position fen " + fen)
}

// SearchParams are the `go` parameters of spec.md §4.1. A zero value in
// both fields emits `go infinite`.
type SearchParams struct {
	Depth      int
	MovetimeMs int
}

// StartSearch emits `go` with the supplied non-zero parameters, or `go
// infinite` if both are zero.
func (e *Engine) StartSearch(p SearchParams) error {
	var parts []string
	if p.Depth > 0 {
		parts = append(parts, "depth "+strconv.Itoa(p.Depth))
	}
	if p.MovetimeMs > 0 {
		parts = append(parts, "movetime "+strconv.Itoa(p.MovetimeMs))
	}
	if len(parts) == 0 {
		return e.send("go infinite")
	}
	return e.send("go " + strings.Join(parts, " "))
}

// StopSearch emits `stop`.
func (e *Engine) StopSearch() error {
	err := e.send("stop")
	if err == nil {
		e.lifecycle("STOPPED", "search stopped")
	}
	return err
}

// QuitEngine emits `quit`.
func (e *Engine) QuitEngine() error {
	err := e.send("quit")
	if err == nil {
		e.lifecycle("QUIT", "quit command sent")
	}
	return err
}

// IsAlive reports whether the child process has not yet exited.
func (e *Engine) IsAlive() bool {
	e.mu.Lock()
	cmd := e.cmd
	cleanedUp := e.cleanedUp
	e.mu.Unlock()
	if cmd == nil || cleanedUp || cmd.Process == nil {
		return false
	}
	return cmd.ProcessState == nil
}

// PID returns the child process ID, if spawned.
func (e *Engine) PID() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil || e.cmd.Process == nil {
		return 0, false
	}
	return e.cmd.Process.Pid, true
}

// Version is the engine's `id name` string, captured during Initialize.
func (e *Engine) Version() string { return e.version }

// Author is the engine's `id author` string, captured during Initialize.
func (e *Engine) Author() string { return e.author }

// Ready reports whether ConfirmReady has most recently succeeded.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Taps exposes the engine's debug-tap controls.
func (e *Engine) Taps() *Taps { return e.taps }

// Reset prepares the engine for a new analysis by sending ucinewgame and
// confirming readiness, so a pooled engine can be handed to the next
// caller without a full respawn.
func (e *Engine) Reset(timeout time.Duration) error {
	if err := e.send("ucinewgame"); err != nil {
		return err
	}
	e.mu.Lock()
	e.ready = false
	e.mu.Unlock()
	return e.ConfirmReady(timeout)
}

// Cleanup is idempotent: it tries `quit`, waits up to 2s, then kills.
// Safe to call after any prior failure; after Cleanup all operations
// return errs.NotInitialized.
func (e *Engine) Cleanup() {
	e.mu.Lock()
	if e.cleanedUp {
		e.mu.Unlock()
		return
	}
	cmd := e.cmd
	stdin := e.stdin
	alive := cmd != nil && cmd.Process != nil && cmd.ProcessState == nil
	e.cleanedUp = true
	e.mu.Unlock()

	if cmd == nil {
		return
	}

	if alive {
		if stdin != nil {
			_, _ = io.WriteString(stdin, "quit\n")
		}
		done := make(chan error, 1)
		go func() { done <- cmd.Wait() }()
		select {
		case <-done:
			e.lifecycle("TERMINATED", "quit acknowledged")
		case <-time.After(2 * time.Second):
			_ = cmd.Process.Kill()
			<-done
			e.lifecycle("KILLED", "process killed after timeout")
		}
	}

	if stdin != nil {
		_ = stdin.Close()
	}
	if e.readerDone != nil {
		<-e.readerDone
	}
}
