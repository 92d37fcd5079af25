// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"os"

	"harmonizer/cli/internal/keychain"
	"harmonizer/cli/internal/logging"
	"harmonizer/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tokenCmd groups commands that manage the harmonizer bearer token.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the harmonizer API token stored in the OS keychain",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Store the API token",
	Long: `Stores the bearer token sent to the harmonizer service. Without an argument the token
is read from a hidden prompt, or from stdin when it is not a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var token string
		if len(args) == 1 {
			token = args[0]
		} else {
			var err error
			if f, ok := cmd.InOrStdin().(*os.File); ok {
				token, err = terminal.ReadSecret(f, cmd.OutOrStdout(), "API token: ")
			} else {
				token, err = terminal.ReadLine(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
		}

		km, err := keychainManager()
		if err != nil {
			return err
		}
		if err := km.SaveAPIToken(token); err != nil {
			return err
		}
		pterm.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("API token saved (%s)", logging.MaskToken(token)))
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API token, masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if env := os.Getenv(envToken); env != "" {
			pterm.Fprintln(out, logging.MaskToken(env)+" (from "+envToken+")")
			return nil
		}
		km, err := keychainManager()
		if err != nil {
			return err
		}
		token, err := km.LoadAPIToken()
		if errors.Is(err, keychain.ErrNotFound) {
			pterm.Fprintln(out, "⚠️  No API token configured")
			pterm.Fprintln(out, "   Please run: harmonizer token set")
			return nil
		}
		if err != nil {
			return err
		}
		pterm.Fprintln(out, logging.MaskToken(token))
		return nil
	},
}

var clearAll bool

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychainManager()
		if err != nil {
			return err
		}
		if clearAll {
			if err := km.ClearAll(); err != nil {
				return err
			}
			pterm.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprint("API token and database connection removed"))
			return nil
		}
		if err := km.Delete(keychain.KeyAPIToken); err != nil && !errors.Is(err, keychain.ErrNotFound) {
			return err
		}
		pterm.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprint("API token removed"))
		return nil
	},
}

func init() {
	tokenClearCmd.Flags().BoolVar(&clearAll, "all", false, "Also remove the saved database connection")
	tokenCmd.AddCommand(tokenSetCmd, tokenShowCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
