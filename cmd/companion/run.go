package main

import (
	"context"

	"github.com/aretw0/companion/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive assistant",
	Long: `Reads one request per line and prints the result of every action.
Type 'help' for examples and 'exit' or 'quit' to leave.
With --voice, requests spoken after the wake word are accepted too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		voice, _ := cmd.Flags().GetBool("voice")
		noWatch, _ := cmd.Flags().GetBool("no-watch")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		app, err := buildApp(sigCtx, cmd, cli.BuildOptions{})
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		return app.Run(sigCtx, cli.RunOptions{
			Out:   cmd.OutOrStdout(),
			Voice: voice,
			Watch: !noWatch,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("voice", false, "Also listen for the wake word on the configured transcription command")
	runCmd.Flags().Bool("no-watch", false, "Do not reload the catalog when the configuration changes")

	// 'run' is the default when no command is provided.
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.RunE = runCmd.RunE
}
