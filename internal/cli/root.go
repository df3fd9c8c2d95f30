package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tourney",
		Short: "CLI tool for the tournament log API",
		Long: `tourney is a CLI tool for interacting with the tournament log JSON API.

It can create and inspect tournaments, submit operations, read and roll back
operation logs, and sync a tournament with a log exported from another server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: TOURNEY_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: TOURNEY_OUTPUT)")

	// Add subcommands
	rootCmd.AddCommand(newTournamentCmd())
	rootCmd.AddCommand(newOpCmd())
	rootCmd.AddCommand(newOpsCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newRoundCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// output returns a formatter writing to the command's output
func output(cmd *cobra.Command) *Output {
	return NewOutput(cmd.OutOrStdout(), cfg.Output)
}
