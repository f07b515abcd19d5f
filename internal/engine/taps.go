package engine

import "sync/atomic"

// Taps are the three independently toggleable debug sinks spec.md §4.1
// names: outbound commands, inbound lines, lifecycle events. Each is a
// thread-safe flag consulted at every event, mirroring the original
// implementation's module-level debug flags without the global mutable
// state -- a *Taps is constructed once and threaded through every
// Engine that should share a debug configuration (e.g. all workers in a
// bulk run).
type Taps struct {
	outbound  atomic.Bool
	inbound   atomic.Bool
	lifecycle atomic.Bool
}

// NewTaps constructs a Taps with all three sinks disabled.
func NewTaps() *Taps { return &Taps{} }

func (t *Taps) SetOutbound(enabled bool) { t.outbound.Store(enabled) }
func (t *Taps) SetInbound(enabled bool)  { t.inbound.Store(enabled) }
func (t *Taps) SetLifecycle(enabled bool) { t.lifecycle.Store(enabled) }

func (t *Taps) Outbound() bool  { return t != nil && t.outbound.Load() }
func (t *Taps) Inbound() bool   { return t != nil && t.inbound.Load() }
func (t *Taps) Lifecycle() bool { return t != nil && t.lifecycle.Load() }
