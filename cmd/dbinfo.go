// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"

	"harmonizer/cli/internal/dsn"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// dbinfoCmd represents the dbinfo command for displaying database connection information.
// It shows the current database connection string with the password masked for security.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show current database connection string",
	Long: `The dbinfo command displays the currently configured database connection string (DSN)
with the password masked for security. This helps verify which database 'harmonizer pull'
reads from without exposing sensitive credentials.

The password in the DSN will be replaced with *** for security.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		raw, source, err := resolveDSN("")
		if err != nil {
			pterm.Fprintln(out, "⚠️  "+err.Error())
			return nil
		}

		info := map[string]string{"dsn": dsn.Redact(raw), "source": source}
		if parsed, err := dsn.ParseInfo(raw); err == nil {
			info["type"] = string(parsed.Type)
			info["host"] = parsed.Host
			info["database"] = parsed.Database
		}

		return render(out, info, func(w io.Writer) error {
			pterm.Fprintln(w, "Using DSN from "+source)
			pterm.Fprintln(w)
			pterm.Fprintln(w, pterm.DefaultBox.
				WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Database Connection")).
				WithPadding(1).
				Sprint(info["dsn"]))
			pterm.Fprintln(w)
			pterm.Fprintln(w, "To update this connection, run: harmonizer connect")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}
