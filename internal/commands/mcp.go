package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rbum/devtools/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:    "mcp",
	Short:  "Run the MCP server (used by coding agents)",
	Long:   "Starts the rbumdev MCP server over stdio. Agents use it to stamp headers and audit the project via typed tool calls.",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return mcpserver.Run(ctx, Version, appLogger.Logger)
	},
}
