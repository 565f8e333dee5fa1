package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak-cli/internal/config"
	"github.com/xvierd/streak-cli/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config
		out := cmd.OutOrStdout()

		if jsonOutput {
			return printJSON(out, map[string]interface{}{
				"config_file":           app.configPath,
				"data_file":             app.store.Location(),
				"storage.data_dir":      cfg.Storage.DataDir,
				"storage.file_name":     cfg.Storage.FileName,
				"notifications.enabled": cfg.Notifications.Enabled,
				"notifications.sound":   cfg.Notifications.Sound,
				"log.level":             cfg.Log.Level,
			}, "config")
		}

		notifStatus := "off"
		if cfg.Notifications.Enabled {
			notifStatus = "on"
			if cfg.Notifications.Sound {
				notifStatus = "on (with sound)"
			}
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Current configuration:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    Config file:    %s\n", app.configPath)
		fmt.Fprintf(out, "    Data file:      %s\n", app.store.Location())
		fmt.Fprintf(out, "    Notifications:  %s\n", notifStatus)
		fmt.Fprintf(out, "    Log level:      %s\n", cfg.Log.Level)
		fmt.Fprintln(out)
		fmt.Fprintln(out, `  Change a value with "streak config set <key> <value>".`)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change a configuration value and save the config file.

Keys: storage.data_dir, storage.file_name, notifications.enabled,
notifications.sound, log.level`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *app.config
		if err := applyConfigValue(&cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := config.SaveTo(app.configPath, &cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  ✓ %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "storage.data_dir":
		cfg.Storage.DataDir = value
	case "storage.file_name":
		cfg.Storage.FileName = value
	case "notifications.enabled", "notifications.sound":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		if strings.HasSuffix(key, "enabled") {
			cfg.Notifications.Enabled = b
		} else {
			cfg.Notifications.Sound = b
		}
	case "log.level":
		level := strings.ToLower(value)
		if logging.ParseLevel(level).String() != level {
			return fmt.Errorf("unknown log level %q", value)
		}
		cfg.Log.Level = level
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
