package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/companion"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of companion",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "companion version %s\n", strings.TrimSpace(companion.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
