package main

import (
	"context"
	"os"

	"github.com/aretw0/companion/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the assistant as MCP tools: run_command executes a request and
interpret_command only shows the actions it maps to.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		// Logs must not corrupt JSON-RPC on Stdout.
		app, err := buildApp(sigCtx, cmd, cli.BuildOptions{Terminal: os.Stderr})
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		return app.ServeMCP(sigCtx, transport, addr)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", "127.0.0.1:8766", "Address to listen on (only for SSE)")
}
