package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server communicates over stdio and exposes tools to read and change tasks and habits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so status goes to stderr
		app.logger.Info("starting MCP server on stdio", "file", app.store.Location())

		server := mcp.NewServer(app.store, Version)
		if err := server.Start(setupSignalHandler()); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}
