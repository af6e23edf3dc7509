package main

import (
	"context"
	"strings"

	"github.com/aretw0/companion/internal/cli"
	"github.com/spf13/cobra"
)

var interpretCmd = &cobra.Command{
	Use:   "interpret <request...>",
	Short: "Print the actions a request maps to without executing them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		app, err := buildApp(context.Background(), cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		return app.Interpret(cmd.Context(), strings.Join(args, " "), raw, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(interpretCmd)
	interpretCmd.Flags().Bool("raw", false, "Also print the model reply")
}
