package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/xvierd/streak-cli/internal/adapters/notification"
	"github.com/xvierd/streak-cli/internal/adapters/storage"
	"github.com/xvierd/streak-cli/internal/config"
	"github.com/xvierd/streak-cli/internal/logging"
	"github.com/xvierd/streak-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	configPath string
	logger     *log.Logger
	file       *storage.JSONFile
	store      *services.RecordStore
	notifier   *notification.Notifier
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(cmd *cobra.Command) error {
	// Load configuration
	var err error
	app.configPath = configPath
	if app.configPath == "" {
		app.configPath, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}
	var cfgErr error
	app.config, cfgErr = config.LoadFrom(app.configPath)
	if cfgErr != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
		app.config.Storage.DataDir = defaultDataDir()
	}

	level := app.config.Log.Level
	if verbose {
		level = "debug"
	}
	app.logger = logging.New(cmd.ErrOrStderr(), level)
	if cfgErr != nil {
		app.logger.Warn("using default configuration", "path", app.configPath, "err", cfgErr)
	}

	// Initialize notifier
	app.notifier = notification.New(&app.config.Notifications)

	// Determine data file path
	path := filePath
	if path == "" {
		path = app.config.StatePath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Initialize storage
	app.file, err = storage.NewJSONFile(path, storage.WithLogger(app.logger))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize record store
	app.store, err = services.Open(context.Background(), app.file, services.WithLogger(app.logger))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	app.logger.Debug("state loaded", "path", path)

	return nil
}

// cleanupServices releases per-invocation state. The record store holds no
// open resources between operations.
func cleanupServices() error {
	app = appDeps{}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".streak"
	}
	return filepath.Join(home, ".streak")
}
