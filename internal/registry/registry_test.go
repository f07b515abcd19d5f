package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_GeneratesIDAndAutoAssignsUnassignedTasks(t *testing.T) {
	r := New(nil)
	d := r.Add(Descriptor{Path: "/usr/bin/stockfish", Name: "stockfish"})
	require.NotEmpty(t, d.ID)
	for _, task := range allTasks {
		assert.Equal(t, d.ID, r.Assignment(task), "task %s should auto-assign to the first engine", task)
	}
}

func TestAdd_SecondEngineDoesNotStealAssignment(t *testing.T) {
	r := New(nil)
	first := r.Add(Descriptor{Path: "/a"})
	r.Add(Descriptor{Path: "/b"})
	assert.Equal(t, first.ID, r.Assignment(TaskGameAnalysis))
}

func TestRemove_ReassignsToFallback(t *testing.T) {
	r := New(nil)
	first := r.Add(Descriptor{Path: "/a"})
	r.Add(Descriptor{Path: "/b"})

	require.True(t, r.Remove(first.ID))
	assert.NotEqual(t, first.ID, r.Assignment(TaskGameAnalysis))
}

func TestRemove_UnknownIDReturnsFalse(t *testing.T) {
	r := New(nil)
	assert.False(t, r.Remove("nonexistent"))
}

func TestSetAssignment_RejectsUnknownEngine(t *testing.T) {
	r := New(nil)
	assert.Error(t, r.SetAssignment(TaskGameAnalysis, "bogus"))
}

func TestConfigFor_ErrorsWhenUnassigned(t *testing.T) {
	r := New(nil)
	_, err := r.ConfigFor(TaskGameAnalysis)
	assert.Error(t, err)
}

func TestConfigFor_ResolvesAssignedDescriptor(t *testing.T) {
	r := New(nil)
	added := r.Add(Descriptor{Path: "/a", Name: "stockfish"})
	got, err := r.ConfigFor(TaskGameAnalysis)
	require.NoError(t, err)
	assert.Equal(t, added.ID, got.ID)
}
