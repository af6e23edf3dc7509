package main

import (
	"context"
	"strings"

	"github.com/aretw0/companion/internal/cli"
	"github.com/spf13/cobra"
)

var doCmd = &cobra.Command{
	Use:   "do <request...>",
	Short: "Run a single request and print its status",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		app, err := buildApp(sigCtx, cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		app.Do(sigCtx, strings.Join(args, " "), cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doCmd)
}
