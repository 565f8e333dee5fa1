// Package storage provides the file-backed implementation of ports.StateStore
// plus an in-memory one for tests.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/xvierd/streak-cli/internal/domain"
	"github.com/xvierd/streak-cli/internal/logging"
	"github.com/xvierd/streak-cli/internal/ports"
)

// DefaultFileName is the storage file name inside the data directory.
const DefaultFileName = "data.json"

const filePerm os.FileMode = 0o644

// CorruptionError describes a storage file that exists but cannot be read as
// the expected structure. Load handles it by backing the file up and starting
// from the default state; it is never returned to Load's callers.
type CorruptionError struct {
	Path     string
	Location string
	Reason   string
	Err      error
}

func (e *CorruptionError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("corrupt state file %s at %s: %s", e.Path, e.Location, e.Reason)
	}
	return fmt.Sprintf("corrupt state file %s: %s", e.Path, e.Reason)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// LoadResult reports what Load found on disk.
type LoadResult struct {
	State *domain.AppState

	// Existed is false when there was no file and the default state was used.
	Existed bool

	// Recovered is set when the file was unreadable and has been moved to
	// BackupPath.
	Recovered  bool
	BackupPath string
	Corruption *CorruptionError

	// Defaulted lists top-level collections that were missing and filled in.
	Defaulted []string
}

// JSONFile persists the whole AppState as one pretty-printed JSON document.
type JSONFile struct {
	path   string
	schema *jsonschema.Schema
	now    func() time.Time
	logger *log.Logger
}

// Ensure JSONFile implements ports.StateStore.
var _ ports.StateStore = (*JSONFile)(nil)

// Option configures a JSONFile.
type Option func(*JSONFile)

// WithClock sets the clock used to stamp backup file names.
func WithClock(now func() time.Time) Option {
	return func(f *JSONFile) {
		if now != nil {
			f.now = now
		}
	}
}

// WithLogger sets the logger for recovery and save events.
func WithLogger(logger *log.Logger) Option {
	return func(f *JSONFile) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewJSONFile creates a store for the file at path. The file is not touched
// until Load or Save is called.
func NewJSONFile(path string, opts ...Option) (*JSONFile, error) {
	if path == "" {
		return nil, errors.New("storage path is empty")
	}

	schema, err := compileStateSchema()
	if err != nil {
		return nil, err
	}

	f := &JSONFile{
		path:   path,
		schema: schema,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Location returns the storage file path.
func (f *JSONFile) Location() string {
	return f.path
}

// Load returns the persisted state. See LoadDetailed.
func (f *JSONFile) Load(ctx context.Context) (*domain.AppState, error) {
	res, err := f.LoadDetailed(ctx)
	if err != nil {
		return nil, err
	}
	return res.State, nil
}

// LoadDetailed reads the storage file. A missing file yields the default
// state and is not created. An unreadable file is renamed to
// <path>.bak.<unix-seconds> and the default state is returned without error.
// Only I/O failures are returned as errors.
func (f *JSONFile) LoadDetailed(ctx context.Context) (LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Debug("no state file yet, starting empty", "path", f.path)
		return LoadResult{State: domain.NewAppState()}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read state file: %w", err)
	}

	state, defaulted, err := f.decode(data)
	var corrupt *CorruptionError
	if errors.As(err, &corrupt) {
		backup, berr := f.backup()
		if berr != nil {
			return LoadResult{}, fmt.Errorf("failed to back up unreadable state file: %w", berr)
		}
		f.logger.Info("state file unreadable, started fresh", "path", f.path, "backup", backup, "reason", corrupt.Error())
		return LoadResult{
			State:      domain.NewAppState(),
			Existed:    true,
			Recovered:  true,
			BackupPath: backup,
			Corruption: corrupt,
		}, nil
	}
	if err != nil {
		return LoadResult{}, err
	}

	if len(defaulted) > 0 {
		f.logger.Info("state file missing collections, defaulted", "path", f.path, "keys", defaulted)
	}
	return LoadResult{State: state, Existed: true, Defaulted: defaulted}, nil
}

// decode parses and validates the file content. Every structural problem is
// reported as *CorruptionError.
func (f *JSONFile) decode(data []byte) (*domain.AppState, []string, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, &CorruptionError{Path: f.path, Reason: "invalid JSON", Err: err}
	}

	if err := f.schema.Validate(raw); err != nil {
		location, message := firstSchemaCause(err)
		return nil, nil, &CorruptionError{Path: f.path, Location: location, Reason: message, Err: err}
	}

	if location, err := checkKeySpelling(raw); err != nil {
		return nil, nil, &CorruptionError{Path: f.path, Location: location, Reason: err.Error(), Err: err}
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, &CorruptionError{Path: f.path, Reason: "unexpected structure", Err: err}
	}

	state, defaulted, err := file.toState()
	if err != nil {
		return nil, nil, &CorruptionError{Path: f.path, Reason: err.Error(), Err: err}
	}
	return state, defaulted, nil
}

// backup moves the storage file aside. If a backup for the current second
// already exists the suffix is bumped so earlier copies survive.
func (f *JSONFile) backup() (string, error) {
	epoch := f.now().Unix()
	for {
		name := fmt.Sprintf("%s.bak.%d", f.path, epoch)
		_, err := os.Lstat(name)
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.Rename(f.path, name); err != nil {
				return "", err
			}
			return name, nil
		}
		if err != nil {
			return "", err
		}
		epoch++
	}
}

// Save writes the entire state, replacing the file atomically.
func (f *JSONFile) Save(ctx context.Context, state *domain.AppState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeState(state)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrPersist, err)
	}
	if err := writeFileAtomic(f.path, data, filePerm); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrPersist, f.path, err)
	}

	f.logger.Debug("state saved", "path", f.path, "tasks", len(state.Tasks), "habits", len(state.Habits))
	return nil
}

// EncodeState renders state in the storage file format: indented JSON with
// non-ASCII text kept verbatim.
func EncodeState(state *domain.AppState) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toSnapshot(state)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
