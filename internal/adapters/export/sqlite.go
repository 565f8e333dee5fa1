package export

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/ports"
	_ "modernc.org/sqlite"
)

// SQLite writes a standalone SQLite database with tasks, habits and
// habit_completions tables. The database is built in a temporary file and
// then copied to the writer. When ids repeat, the first record wins.
type SQLite struct{}

var _ ports.Exporter = SQLite{}

const sqliteSchema = `
CREATE TABLE tasks (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE habits (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE habit_completions (
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	date TEXT NOT NULL,
	PRIMARY KEY (habit_id, date)
);

CREATE INDEX idx_habit_completions_date ON habit_completions(date);
`

// Format implements ports.Exporter.
func (SQLite) Format() string { return FormatSQLite }

// Export implements ports.Exporter.
func (SQLite) Export(ctx context.Context, w io.Writer, state *domain.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "streak-export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dbPath := filepath.Join(dir, "streak.db")
	if err := writeDatabase(ctx, dbPath, state); err != nil {
		return err
	}

	f, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}
	return nil
}

func writeDatabase(ctx context.Context, dbPath string, state *domain.AppState) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range state.Tasks {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO tasks (id, text, done, created_at) VALUES (?, ?, ?, ?)",
			t.ID, t.Text, t.Done, timestamp(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
		}
	}
	for _, h := range state.Habits {
		res, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO habits (id, name, created_at) VALUES (?, ?, ?)",
			h.ID, h.Name, timestamp(h.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert habit %s: %w", h.ID, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to insert habit %s: %w", h.ID, err)
		}
		// A repeated id keeps the first habit and its completions.
		if inserted == 0 {
			continue
		}
		for _, d := range h.CompletedDates {
			_, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO habit_completions (habit_id, date) VALUES (?, ?)",
				h.ID, d)
			if err != nil {
				return fmt.Errorf("failed to insert completion for %s: %w", h.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
