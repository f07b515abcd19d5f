// Package pool manages a fixed-size set of spawned, initialized UCI
// engines that workers borrow and return, built against the
// internal/engine lifecycle (Spawn/Initialize/ConfirmReady/Reset/
// Cleanup).
package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/eloinsight/analysis-service/internal/engine"
	"github.com/eloinsight/analysis-service/internal/errs"
)

// InitTimeout bounds the uciok/readyok handshake performed when a new
// engine joins the pool.
const InitTimeout = 10 * time.Second

// Pool is a fixed-size, replace-on-failure pool of ready engines.
type Pool struct {
	engines chan *engine.Engine
	config  engine.Config
	logger  *zap.Logger
	taps    *engine.Taps
	size    int

	available int32
	inUse     int32

	mu        sync.Mutex
	closed    bool
	startTime time.Time
}

// New creates a Pool of size engines, spawning and handshaking each one
// before returning. If any engine fails to spawn, already-created
// engines are cleaned up and the error is returned.
func New(size int, config engine.Config, logger *zap.Logger, taps *engine.Taps) (*Pool, error) {
	if size <= 0 {
		return nil, errs.New(errs.EngineInvalid, "pool size must be positive")
	}

	p := &Pool{
		engines:   make(chan *engine.Engine, size),
		config:    config,
		logger:    logger,
		taps:      taps,
		size:      size,
		startTime: time.Now(),
	}

	for i := 0; i < size; i++ {
		eng, err := p.spawnOne()
		if err != nil {
			p.Close()
			return nil, err
		}
		p.engines <- eng
		atomic.AddInt32(&p.available, 1)
	}

	logger.Info("engine pool created", zap.Int("size", size))
	return p, nil
}

func (p *Pool) spawnOne() (*engine.Engine, error) {
	eng := engine.NewEngine(p.config, p.logger, p.taps)
	if err := eng.Spawn(); err != nil {
		return nil, err
	}
	if err := eng.Initialize(InitTimeout); err != nil {
		eng.Cleanup()
		return nil, err
	}
	if err := eng.ConfirmReady(InitTimeout); err != nil {
		eng.Cleanup()
		return nil, err
	}
	return eng, nil
}

// Get acquires an engine from the pool, blocking until one is available
// or ctx is done.
func (p *Pool) Get(ctx context.Context) (*engine.Engine, error) {
	if p.isClosed() {
		return nil, errs.New(errs.NotInitialized, "pool is closed")
	}
	select {
	case eng := <-p.engines:
		atomic.AddInt32(&p.available, -1)
		atomic.AddInt32(&p.inUse, 1)
		return eng, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Put returns an engine to the pool after resetting it for reuse. A
// dead or unresettable engine is replaced transparently rather than
// propagating the failure to the caller.
func (p *Pool) Put(eng *engine.Engine) {
	if p.isClosed() {
		eng.Cleanup()
		return
	}

	if !eng.IsAlive() {
		p.logger.Warn("returned engine is dead, replacing")
		p.replace()
		return
	}

	if err := eng.Reset(InitTimeout); err != nil {
		p.logger.Warn("failed to reset engine, replacing", zap.Error(err))
		eng.Cleanup()
		p.replace()
		return
	}

	atomic.AddInt32(&p.inUse, -1)
	atomic.AddInt32(&p.available, 1)
	p.engines <- eng
}

func (p *Pool) replace() {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return
	}

	atomic.AddInt32(&p.inUse, -1)
	eng, err := p.spawnOne()
	if err != nil {
		p.logger.Error("failed to create replacement engine", zap.Error(err))
		return
	}
	atomic.AddInt32(&p.available, 1)
	p.engines <- eng
	p.logger.Info("engine replaced")
}

// Stats summarizes current pool occupancy.
type Stats struct {
	Size      int
	Available int
	InUse     int
	Version   string
	Uptime    time.Duration
}

// GetStats samples current pool occupancy and, opportunistically, the
// version string of an idle engine, without blocking.
func (p *Pool) GetStats() Stats {
	version := "unknown"
	select {
	case eng := <-p.engines:
		version = eng.Version()
		p.engines <- eng
	default:
	}

	return Stats{
		Size:      p.size,
		Available: int(atomic.LoadInt32(&p.available)),
		InUse:     int(atomic.LoadInt32(&p.inUse)),
		Version:   version,
		Uptime:    time.Since(p.startTime),
	}
}

// Size returns the configured pool size.
func (p *Pool) Size() int { return p.size }

// Available returns the number of currently idle engines.
func (p *Pool) Available() int { return int(atomic.LoadInt32(&p.available)) }

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Close shuts down every engine currently idle in the pool. Engines
// checked out at the time of Close are cleaned up as they're returned.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.engines)
	for eng := range p.engines {
		eng.Cleanup()
	}
	p.logger.Info("engine pool closed")
}

// HealthCheck cycles every engine through Get/Put, confirming liveness.
func (p *Pool) HealthCheck(ctx context.Context) error {
	checked := make([]*engine.Engine, 0, p.size)
	for i := 0; i < p.size; i++ {
		eng, err := p.Get(ctx)
		if err != nil {
			for _, e := range checked {
				p.Put(e)
			}
			return err
		}
		if !eng.IsAlive() {
			for _, e := range checked {
				p.Put(e)
			}
			p.Put(eng)
			return errs.New(errs.EngineTerminated, "engine not alive during health check")
		}
		checked = append(checked, eng)
	}
	for _, eng := range checked {
		p.Put(eng)
	}
	return nil
}
