// Package ports defines the interfaces (driven and driving ports)
// between the record store and the adapters around it, following
// hexagonal architecture principles.
package ports

import (
	"context"

	"github.com/xvierd/streak-cli/internal/domain"
)

// StateStore translates the whole AppState to and from durable storage.
// This is a driven port (implemented by adapters).
type StateStore interface {
	// Load returns the persisted state, or the empty default when nothing has
	// been stored yet. Unreadable content is recovered by the adapter and is
	// not reported as an error.
	Load(ctx context.Context) (*domain.AppState, error)

	// Save replaces the persisted state with state. Failures wrap
	// domain.ErrPersist.
	Save(ctx context.Context, state *domain.AppState) error

	// Location describes where the state lives, for messages and logs.
	Location() string
}
