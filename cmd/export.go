package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/xvierd/streak-cli/internal/adapters/export"
)

var (
	exportFormat string
	exportOut    string
	reportRaw    bool
	reportStyle  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks and habits",
	Long:  `Export every task and habit as JSON, CSV, Markdown or a SQLite database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		exporter, err := export.New(exportFormat)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := exporter.Export(ctx, &buf, app.store.Snapshot()); err != nil {
			return fmt.Errorf("failed to export %s: %w", exporter.Format(), err)
		}

		if exportOut == "" || exportOut == "-" {
			_, err := io.Copy(cmd.OutOrStdout(), &buf)
			return err
		}
		if err := os.WriteFile(exportOut, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "📦 Exported %s to %s\n", exporter.Format(), exportOut)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a formatted summary of habits and tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		md := export.Markdown{}.Render(app.store.Snapshot())

		out := cmd.OutOrStdout()
		if reportRaw || !isInteractive() {
			_, err := io.WriteString(out, md)
			return err
		}

		rendered, err := glamour.Render(md, reportStyle)
		if err != nil {
			app.logger.Warn("markdown rendering failed", "err", err)
			rendered = md
		}
		fmt.Fprintln(out, strings.TrimRight(rendered, "\n"))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", export.FormatJSON, "Output format: "+strings.Join(export.Formats(), ", "))
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to file instead of stdout")

	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print plain Markdown")
	reportCmd.Flags().StringVar(&reportStyle, "style", "dark", "glamour style: dark, light, notty, ascii")
}
