package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xvierd/streak-cli/internal/adapters/storage"
	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/ports"
)

// JSON writes the state in the storage file format, so an export can be
// used as a data file directly.
type JSON struct{}

var _ ports.Exporter = JSON{}

// Format implements ports.Exporter.
func (JSON) Format() string { return FormatJSON }

// Export implements ports.Exporter.
func (JSON) Export(ctx context.Context, w io.Writer, state *domain.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := storage.EncodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	_, err = w.Write(data)
	return err
}
