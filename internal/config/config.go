// Package config provides configuration management for streak.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. STREAK_STORAGE_DATA_DIR.
	EnvPrefix = "STREAK"

	defaultDataDir  = "~/.streak"
	defaultFileName = "data.json"
)

// Config holds all configuration for the streak application.
type Config struct {
	Storage       StorageConfig      `mapstructure:"storage"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir  string `mapstructure:"data_dir"`
	FileName string `mapstructure:"file_name"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorTitle   string `mapstructure:"color_title"`
	ColorDone    string `mapstructure:"color_done"`
	ColorPending string `mapstructure:"color_pending"`
	ColorCursor  string `mapstructure:"color_cursor"`
	ColorHelp    string `mapstructure:"color_help"`
	IconHabit    string `mapstructure:"icon_habit"`
	IconTask     string `mapstructure:"icon_task"`
	IconStreak   string `mapstructure:"icon_streak"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorTitle:   "#7C6FE0",
		ColorDone:    "#2ECC71",
		ColorPending: "#A0AEC0",
		ColorCursor:  "#4ECDC4",
		ColorHelp:    "#95A5A6",
		IconHabit:    "🌱",
		IconTask:     "📋",
		IconStreak:   "🔥",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir:  defaultDataDir,
			FileName: defaultFileName,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Theme: DefaultThemeConfig(),
	}
}

// StatePath returns the path of the JSON state file.
func (c *Config) StatePath() string {
	name := c.Storage.FileName
	if name == "" {
		name = defaultFileName
	}
	return filepath.Join(c.Storage.DataDir, name)
}

// LoadFrom loads the configuration from configPath. A missing file is created
// with defaults; environment variables override file values.
func LoadFrom(configPath string) (*Config, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// SaveTo writes cfg as TOML to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.file_name", cfg.Storage.FileName)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("log.level", cfg.Log.Level)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_done", cfg.Theme.ColorDone)
	v.Set("theme.color_pending", cfg.Theme.ColorPending)
	v.Set("theme.color_cursor", cfg.Theme.ColorCursor)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.icon_habit", cfg.Theme.IconHabit)
	v.Set("theme.icon_task", cfg.Theme.IconTask)
	v.Set("theme.icon_streak", cfg.Theme.IconStreak)

	return v.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".streak", "config.toml"), nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default values for viper. Every key needs a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.file_name", defaults.Storage.FileName)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.sound", defaults.Notifications.Sound)
	v.SetDefault("log.level", defaults.Log.Level)

	// Theme defaults
	v.SetDefault("theme.color_title", defaults.Theme.ColorTitle)
	v.SetDefault("theme.color_done", defaults.Theme.ColorDone)
	v.SetDefault("theme.color_pending", defaults.Theme.ColorPending)
	v.SetDefault("theme.color_cursor", defaults.Theme.ColorCursor)
	v.SetDefault("theme.color_help", defaults.Theme.ColorHelp)
	v.SetDefault("theme.icon_habit", defaults.Theme.IconHabit)
	v.SetDefault("theme.icon_task", defaults.Theme.IconTask)
	v.SetDefault("theme.icon_streak", defaults.Theme.IconStreak)
}

// expandHome resolves a leading ~ and substitutes the default data dir for
// an empty value.
func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}
