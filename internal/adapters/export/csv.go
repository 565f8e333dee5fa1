package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/ports"
)

// CSV writes one row per record. Tasks come first, then habits; the kind
// column tells them apart.
type CSV struct{}

var _ ports.Exporter = CSV{}

var csvHeader = []string{"kind", "id", "label", "done", "created_at", "completed_dates"}

// Format implements ports.Exporter.
func (CSV) Format() string { return FormatCSV }

// Export implements ports.Exporter.
func (CSV) Export(ctx context.Context, w io.Writer, state *domain.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range state.Tasks {
		if err := cw.Write([]string{
			"task",
			t.ID,
			t.Text,
			strconv.FormatBool(t.Done),
			timestamp(t.CreatedAt),
			"",
		}); err != nil {
			return err
		}
	}
	for _, h := range state.Habits {
		if err := cw.Write([]string{
			"habit",
			h.ID,
			h.Name,
			"",
			timestamp(h.CreatedAt),
			strings.Join(h.SortedDates(false), ";"),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
