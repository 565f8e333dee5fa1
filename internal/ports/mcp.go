package ports

import (
	"context"

	"github.com/xvierd/streak-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// RecordStore is the mutation surface presentation adapters (MCP, TUI)
// call into. This is a driven port (implemented by the services layer).
type RecordStore interface {
	Snapshot() *domain.AppState
	Today() string

	AddTask(ctx context.Context, text string) (*domain.Task, error)
	ToggleTask(ctx context.Context, id string) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (bool, error)

	AddHabit(ctx context.Context, name string) (*domain.Habit, error)
	DeleteHabit(ctx context.Context, id string) (bool, error)
	SetHabitToday(ctx context.Context, id string, completed bool) (*domain.Habit, error)

	ClearAll(ctx context.Context) error
}
