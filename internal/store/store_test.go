package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRows struct {
	Moves []string
}

func TestMemoryStore_HasIsFalseForUnknownGame(t *testing.T) {
	s := NewMemoryStore()
	assert.False(t, s.Has("nope"))
}

func TestMemoryStore_StoreThenHasAndGetRaw(t *testing.T) {
	s := NewMemoryStore()
	rows := sampleRows{Moves: []string{"e4", "e5"}}
	require.NoError(t, s.Store("game-1", rows))
	assert.True(t, s.Has("game-1"))

	raw, ok := s.GetRaw("game-1")
	require.True(t, ok)
	assert.Equal(t, `{"Moves":["e4","e5"]}`, raw)
}

func TestMemoryStore_GetRawMissingReturnsFalse(t *testing.T) {
	s := NewMemoryStore()
	_, ok := s.GetRaw("missing")
	assert.False(t, ok)
}

func TestMemoryStore_OverwriteReplacesTag(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Store("game-1", sampleRows{Moves: []string{"e4"}}))
	require.NoError(t, s.Store("game-1", sampleRows{Moves: []string{"d4"}}))

	raw, ok := s.GetRaw("game-1")
	require.True(t, ok)
	assert.Equal(t, `{"Moves":["d4"]}`, raw)
}
