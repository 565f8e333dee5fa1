// Package export renders snapshots of the record state in external formats.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xvierd/streak-cli/internal/ports"
)

// Option configures the exporters built by New.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used for "today" and generation stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns the exporter for format.
func New(format string, opts ...Option) (ports.Exporter, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		return JSON{}, nil
	case FormatCSV:
		return CSV{}, nil
	case FormatMarkdown, "markdown":
		return Markdown{Now: o.now}, nil
	case FormatSQLite:
		return SQLite{}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

// Format names accepted by New.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatSQLite   = "sqlite"
)

// Formats lists the supported format names.
func Formats() []string {
	f := []string{FormatJSON, FormatCSV, FormatMarkdown, FormatSQLite}
	sort.Strings(f)
	return f
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
