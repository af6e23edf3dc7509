package main

import (
	"context"

	"github.com/aretw0/companion/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept requests on a local HTTP endpoint",
	Long: `Starts the assistant behind POST /submit, GET /health and GET /metrics.
Requests are executed one at a time in arrival order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		app, err := buildApp(sigCtx, cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			addr = app.Config.Serve.Addr
		}
		return app.Serve(sigCtx, addr, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "127.0.0.1:8765", "Address to listen on")
}
