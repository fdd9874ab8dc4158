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
		Use:   "minegrid",
		Short: "CLI tool for the minegrid API",
		Long: `minegrid is a CLI tool for playing hidden-hazard grid games.

It drives a minegrid server over its JSON API, streams a game's events
in real time, or runs a game locally with the play command.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load the current game from file if not provided via flag/env
			if err := cfg.LoadGame(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL)
			if cfg.Verbose {
				client.SetTrace(cmd.ErrOrStderr())
			}
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: MINEGRID_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.GameID, "game", cfg.GameID, "Game id (env: MINEGRID_GAME)")
	rootCmd.PersistentFlags().StringVar(&cfg.GameFile, "game-file", cfg.GameFile, "Current game file path (env: MINEGRID_GAME_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newPlayCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
