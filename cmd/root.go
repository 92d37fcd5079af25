// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the harmonizer CLI.
// It validates SQL CREATE TABLE scripts locally, relays valid schemas to the
// harmonizer service, and exposes the same operations through a local relay
// server. Commands are built with Cobra and render output with pterm.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"harmonizer/cli/internal/config"
	"harmonizer/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	showVersion bool

	// cfg is the effective configuration, loaded before every command runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "harmonizer",
	Short: "Validate SQL schemas and turn them into ontologies with the harmonizer",
	Long: `harmonizer validates SQL CREATE TABLE scripts locally and sends valid schemas to the
harmonizer service, which builds an ontology and metamodel from them.

Schemas can be read from files, stdin, or pulled from a live MySQL or PostgreSQL database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		logger := logging.New(cmd.ErrOrStderr(), cfg.Level())
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logging.WithLogger(ctx, logger))
		if cfg.File != "" {
			logger.Debug("loaded config", "file", cfg.File)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return printVersion(cmd, false)
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/harmonizer/config.yaml)")
	rootCmd.PersistentFlags().String("api-host", "", "Harmonizer service base URL")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose debug output")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}
