package caching

import (
	"context"
	"errors"
	"sync"
	"time"
)

const reloadAttempts = 3

// ErrReloadRaced means every fetched snapshot was older than a local mutation.
// The mirror keeps its incrementally maintained state.
var ErrReloadRaced = errors.New("mirror mutated during reload")

// Mirror is an in-process snapshot of store state owned by one service.
// Readers get copies of the held value and never observe a half-applied write.
type Mirror[T any] struct {
	mu         sync.RWMutex
	value      T
	generation uint64
	loaded     bool
	loadedAt   time.Time
}

func NewMirror[T any](initial T) *Mirror[T] {
	return &Mirror[T]{value: initial}
}

// Read runs fn under the read lock
func (m *Mirror[T]) Read(fn func(v T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.value)
}

// Update runs fn under the write lock and stores its result
func (m *Mirror[T]) Update(fn func(v T) T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = fn(m.value)
	m.generation++
}

// Generation counts the mutations applied through Update
func (m *Mirror[T]) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// Replace swaps in v if no mutation happened after gen was read
func (m *Mirror[T]) Replace(gen uint64, v T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		return false
	}
	m.value = v
	m.loaded = true
	m.loadedAt = time.Now()
	return true
}

// Reload fetches a full snapshot and installs it. A snapshot fetched while a
// mutation landed is discarded and fetched again.
func (m *Mirror[T]) Reload(ctx context.Context, fetch func(ctx context.Context) (T, error)) error {
	for i := 0; i < reloadAttempts; i++ {
		gen := m.Generation()
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		if m.Replace(gen, v) {
			return nil
		}
	}
	return ErrReloadRaced
}

// Loaded reports whether a full load has completed and when
func (m *Mirror[T]) Loaded() (bool, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded, m.loadedAt
}
