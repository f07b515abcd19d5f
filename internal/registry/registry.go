// Package registry holds the set of configured engine descriptors and
// their task assignments, grounded on
// original_source/app/models/engine_model.py's EngineModel (the
// signal-emitting Qt model re-expressed as a plain, mutex-guarded Go
// struct per Design Notes §9's "no callback registries" note). Mutations
// change state only; the registry emits no Sink events itself.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eloinsight/analysis-service/internal/errs"
	"github.com/eloinsight/analysis-service/internal/sink"
)

// Task names an engine role a descriptor may be assigned to.
type Task string

const (
	TaskGameAnalysis   Task = "game_analysis"
	TaskEvaluation     Task = "evaluation"
	TaskManualAnalysis Task = "manual_analysis"
)

var allTasks = []Task{TaskGameAnalysis, TaskEvaluation, TaskManualAnalysis}

// Descriptor is one configured engine (spec.md §3 "Engine descriptor").
type Descriptor struct {
	ID              string
	Path            string
	Name            string
	Author          string
	Version         string
	IsValid         bool
	ValidationError string
	LastValidated   time.Time
}

// Registry holds configured engines and their task assignments.
type Registry struct {
	mu          sync.RWMutex
	engines     map[string]Descriptor
	assignments map[Task]string // engine ID, "" means unassigned
	sink        sink.Sink
}

// New constructs an empty Registry. sink may be nil.
func New(s sink.Sink) *Registry {
	return &Registry{
		engines:     make(map[string]Descriptor),
		assignments: map[Task]string{TaskGameAnalysis: "", TaskEvaluation: "", TaskManualAnalysis: ""},
		sink:        s,
	}
}

// Engines returns all configured descriptors, order unspecified.
func (r *Registry) Engines() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.engines))
	for _, d := range r.engines {
		out = append(out, d)
	}
	return out
}

// Get returns the descriptor for id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.engines[id]
	return d, ok
}

// GetByPath returns the first descriptor whose Path matches.
func (r *Registry) GetByPath(path string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.engines {
		if d.Path == path {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Add registers a new descriptor, generating its ID if empty. Any task
// currently unassigned is automatically assigned to the new engine.
func (r *Registry) Add(d Descriptor) Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.LastValidated.IsZero() {
		d.LastValidated = time.Now()
	}
	r.engines[d.ID] = d

	for _, task := range allTasks {
		if r.assignments[task] == "" {
			r.assignments[task] = d.ID
		}
	}
	return d
}

// Remove deletes a descriptor, reassigning any task that pointed at it
// to one of the remaining engines (or to "" if none remain). Which
// remaining engine is picked follows map iteration and is not defined;
// it is not the first one added.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[id]; !ok {
		return false
	}
	delete(r.engines, id)

	var fallback string
	for otherID := range r.engines {
		fallback = otherID
		break
	}
	for _, task := range allTasks {
		if r.assignments[task] == id {
			r.assignments[task] = fallback
		}
	}
	return true
}

// Update replaces the stored descriptor for d.ID.
func (r *Registry) Update(d Descriptor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.engines[d.ID]; !ok {
		return false
	}
	r.engines[d.ID] = d
	return true
}

// Assignment returns the engine ID assigned to task, or "" if none.
func (r *Registry) Assignment(task Task) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.assignments[task]
}

// SetAssignment assigns engineID to task. Passing "" clears the
// assignment. Returns errs.EngineInvalid if engineID doesn't exist.
func (r *Registry) SetAssignment(task Task, engineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assignments[task]; !ok {
		return errs.New(errs.EngineInvalid, "unknown task")
	}
	if engineID != "" {
		if _, ok := r.engines[engineID]; !ok {
			return errs.New(errs.EngineInvalid, "unknown engine id")
		}
	}
	r.assignments[task] = engineID
	return nil
}

// Assignments returns a snapshot of all task->engine assignments.
func (r *Registry) Assignments() map[Task]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Task]string, len(r.assignments))
	for k, v := range r.assignments {
		out[k] = v
	}
	return out
}

// ConfigFor resolves the Descriptor assigned to task, erroring with
// errs.NoEngineAssigned if the task has no engine assigned.
func (r *Registry) ConfigFor(task Task) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id := r.assignments[task]
	if id == "" {
		return Descriptor{}, errs.New(errs.NoEngineAssigned, "no engine assigned to task "+string(task))
	}
	d, ok := r.engines[id]
	if !ok {
		return Descriptor{}, errs.New(errs.EngineInvalid, "assigned engine no longer registered")
	}
	return d, nil
}
