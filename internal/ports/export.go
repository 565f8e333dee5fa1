package ports

import (
	"context"
	"io"

	"github.com/xvierd/streak-cli/internal/domain"
)

// Exporter renders a snapshot of the state in some external format.
// This is a driven port (implemented by adapters).
type Exporter interface {
	// Format is the short name used on the command line (json, csv, ...).
	Format() string

	// Export writes state to w.
	Export(ctx context.Context, w io.Writer, state *domain.AppState) error
}

// Notifier delivers desktop notifications.
type Notifier interface {
	Notify(title, message string) error
	IsEnabled() bool
}
