package cmd

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func seedEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.mustRun(t, "add", "buy milk")
	env.mustRun(t, "habit", "add", "stretch")
	env.mustRun(t, "habit", "check", "stretch")
	return env
}

func TestExport_CSV(t *testing.T) {
	env := seedEnv(t)

	out := env.mustRun(t, "export", "--format", "csv")
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "task", rows[1][0])
	assert.Equal(t, "habit", rows[2][0])
}

func TestExport_JSONIsLoadable(t *testing.T) {
	env := seedEnv(t)

	out := env.mustRun(t, "export")
	copyPath := filepath.Join(env.dir, "copy.json")
	require.NoError(t, os.WriteFile(copyPath, []byte(out), 0644))

	listed, err := env.run(t, "--file", copyPath, "list")
	require.NoError(t, err)
	assert.Contains(t, listed, "buy milk")
}

func TestExport_SQLiteToFile(t *testing.T) {
	env := seedEnv(t)
	dbPath := filepath.Join(env.dir, "streak.db")

	env.mustRun(t, "export", "-f", "sqlite", "-o", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM habit_completions").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestExport_UnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "export", "--format", "xml")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestReport_Raw(t *testing.T) {
	env := seedEnv(t)

	out := env.mustRun(t, "report", "--raw")
	assert.Contains(t, out, "# streak report")
	assert.Contains(t, out, "1/1 habits done (100%)")
	assert.Contains(t, out, "- [ ] buy milk")
}
