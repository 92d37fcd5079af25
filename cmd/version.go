// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

var checkService bool

// versionCmd prints the CLI version and optionally checks the service.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd, checkService)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&checkService, "check", false, "Also check that the harmonizer service is reachable")
}

func printVersion(cmd *cobra.Command, check bool) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "harmonizer %s\n", Version)
	if !check {
		return nil
	}
	if err := newClient(cmd).Ping(cmd.Context()); err != nil {
		fmt.Fprintf(out, "service %s unreachable\n", cfg.APIHost)
		return relayError(cmd, "Checking service", err)
	}
	fmt.Fprintf(out, "service %s ok\n", cfg.APIHost)
	return nil
}
