package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/ports"
)

// Memory is an in-memory StateStore for tests. It counts saves and can be
// made to fail them.
type Memory struct {
	mu      sync.Mutex
	state   *domain.AppState
	saves   int
	saveErr error
}

// Ensure Memory implements ports.StateStore.
var _ ports.StateStore = (*Memory)(nil)

// NewMemory creates an in-memory store seeded with initial (may be nil).
func NewMemory(initial *domain.AppState) *Memory {
	if initial == nil {
		initial = domain.NewAppState()
	}
	return &Memory{state: initial.Clone()}
}

// Load returns a copy of the stored state.
func (m *Memory) Load(ctx context.Context) (*domain.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

// Save stores a copy of state unless a failure has been injected.
func (m *Memory) Save(ctx context.Context, state *domain.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersist, m.saveErr)
	}
	m.state = state.Clone()
	m.saves++
	return nil
}

// Location implements ports.StateStore.
func (m *Memory) Location() string {
	return ":memory:"
}

// Saves returns the number of successful saves.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailSaves makes subsequent saves fail with err; nil restores them.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}
