package main

import (
	"fmt"
	"os"

	"github.com/genricoloni/musicbridge/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig string
	flagDebug  bool
)

// cfg holds the loaded configuration (merged: defaults < config file < env < flags).
var cfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "musicbridge",
	Short: "Bridge a local media player to status, tree and panel surfaces",
	Long: `Musicbridge polls a local media player through its scripting interpreter
and exposes the current track on several surfaces: a status strip, a command tree,
a live HTML panel and a terminal view.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadCLIConfig,
	RunE:              serveRun,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "musicbridge %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to the TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadCLIConfig loads and merges configuration: defaults < config file < env < CLI flags.
func loadCLIConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig(Options{ConfigPath: flagConfig, Debug: flagDebug})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return nil
}
