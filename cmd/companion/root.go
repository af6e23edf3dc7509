package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/companion/internal/cli"
	"github.com/aretw0/companion/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Companion is a desktop command assistant",
	Long: `Companion turns plain-language requests into desktop actions: opening applications,
running allow-listed system tasks and creating generated files in an editor workspace.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default ~/.config/companion/config.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "File with KEY=VALUE credentials")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug events to stderr")
}

// loadConfig reads the credential files and the configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	path, _ := cmd.Flags().GetString("config")

	envFiles := []string{envFile}
	if path == "" {
		envFiles = append(envFiles, filepath.Join(filepath.Dir(config.DefaultPath()), ".env"))
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, err
	}
	return config.Load(path)
}

// buildApp loads the configuration and assembles the assistant.
func buildApp(ctx context.Context, cmd *cobra.Command, opts cli.BuildOptions) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	return cli.Build(ctx, cfg, opts)
}
