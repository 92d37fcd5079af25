// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"harmonizer/cli/internal/ddl"
	"harmonizer/cli/internal/dsn"
	herr "harmonizer/cli/internal/errors"
	"harmonizer/cli/internal/logging"
	"harmonizer/cli/internal/schemasource"
	"harmonizer/cli/internal/xdg"

	"github.com/spf13/cobra"
)

var (
	pullDSN    string
	pullSchema string
	pullSend   bool
	pullStream bool
	pullDDL    bool
	pullSave   bool
)

// openSource connects to a live database. Tests replace it.
var openSource = schemasource.Open

// pullCmd reads the schema of a live database.
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Read CREATE TABLE statements from a live MySQL or PostgreSQL database",
	Long: `The pull command connects to a MySQL or PostgreSQL database, reads the definition of
every base table and validates the resulting script. With --send the script is then
submitted to the harmonizer.

The DSN is taken from --dsn, then HARMONIZER_DSN or DATABASE_URL, then the OS keychain
(see 'harmonizer connect').`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, source, err := resolveDSN(pullDSN)
		if err != nil {
			return err
		}
		logger := logging.FromContext(cmd.Context())
		logger.Debug("pulling schema", "dsn", dsn.Redact(raw), "source", source)

		sql, err := pullDDLFrom(cmd.Context(), raw, pullSchema)
		if err != nil {
			return err
		}

		if pullSave {
			path, err := savePulled(sql)
			if err != nil {
				return err
			}
			logger.Info("saved pulled schema", "file", path)
		}

		if pullDDL {
			fmt.Fprintln(cmd.OutOrStdout(), sql)
			return nil
		}
		if pullSend {
			return sendSchema(cmd, "database", sql, pullStream)
		}
		report := ddl.Check(sql)
		if err := renderReport(cmd.OutOrStdout(), "database", report); err != nil {
			return err
		}
		if !report.IsValid {
			return errInvalidSchema
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().StringVar(&pullDSN, "dsn", "", "Database DSN (postgres://... or mysql user:pass@tcp(host:3306)/db)")
	pullCmd.Flags().StringVar(&pullSchema, "schema", "", "PostgreSQL schema to read (default public)")
	pullCmd.Flags().BoolVar(&pullSend, "send", false, "Send the schema to the harmonizer when it is valid")
	pullCmd.Flags().BoolVar(&pullStream, "stream", false, "With --send, stream the response")
	pullCmd.Flags().BoolVar(&pullDDL, "ddl", false, "Print the pulled script instead of validating it")
	pullCmd.Flags().BoolVar(&pullSave, "save", false, "Save the pulled script as pulled.sql in the state directory")
}

// pullDDLFrom connects, checks the connection and returns the schema script.
func pullDDLFrom(ctx context.Context, raw, schema string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	src, err := openSource(ctx, raw, schema)
	if err != nil {
		return "", herr.Wrap(herr.SchemaPullFailed, "open database", err)
	}
	defer src.Close()

	if err := src.Ping(ctx); err != nil {
		return "", herr.Wrap(herr.SchemaPullFailed, "connect to database", err)
	}
	sql, err := src.DDL(ctx)
	if err != nil {
		return "", herr.Wrap(herr.SchemaPullFailed, "read schema", err)
	}
	return sql, nil
}

// savePulled writes sql to pulled.sql in the state directory.
func savePulled(sql string) (string, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "pulled.sql")
	if err := os.WriteFile(path, []byte(sql), 0o600); err != nil {
		return "", fmt.Errorf("save pulled schema: %w", err)
	}
	return path, nil
}
