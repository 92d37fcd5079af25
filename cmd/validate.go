// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"harmonizer/cli/internal/ddl"
	"harmonizer/cli/internal/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// errInvalidSchema is returned after an invalid report has been printed.
var errInvalidSchema = errors.New("schema is invalid")

var watchValidate bool

// validateCmd validates a SQL script locally.
var validateCmd = &cobra.Command{
	Use:   "validate [file|-]",
	Short: "Validate a SQL CREATE TABLE script",
	Long: `The validate command checks a SQL script made of CREATE TABLE statements and reports
the tables and columns it defines. The script is read from the given file, or from
stdin when no file or "-" is given.

With --watch the file is validated again every time it changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchValidate {
			if len(args) == 0 || args[0] == "-" {
				return errors.New("--watch requires a file")
			}
			return watchFile(cmd.Context(), args[0], func() {
				_ = validateOnce(cmd, args)
			})
		}
		return validateOnce(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&watchValidate, "watch", "w", false, "Re-validate when the file changes")
}

func validateOnce(cmd *cobra.Command, args []string) error {
	sql, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	report := ddl.Check(sql)
	logging.FromContext(cmd.Context()).Debug("validated schema", "source", name, "valid", report.IsValid)
	if err := renderReport(cmd.OutOrStdout(), name, report); err != nil {
		return err
	}
	if !report.IsValid {
		return errInvalidSchema
	}
	return nil
}

// renderReport prints a validation report in the configured format.
func renderReport(w io.Writer, name string, r ddl.Report) error {
	return render(w, r, func(w io.Writer) error {
		if !r.IsValid {
			pterm.Fprintln(w, pterm.Error.Sprintf("%s: %s", name, r.Error))
			return nil
		}
		pterm.Fprintln(w, pterm.Success.Sprintf("%s: %s", name, r.Message))
		pterm.Fprintln(w, tablesSummary(r.Tables))
		return nil
	})
}

// tablesSummary renders one row per table with its column count and primary keys.
func tablesSummary(tables []ddl.TableInfo) string {
	data := pterm.TableData{{"Table", "Columns", "Primary key"}}
	for _, t := range tables {
		data = append(data, []string{t.TableName, strconv.Itoa(len(t.Columns)), strings.Join(t.PrimaryKeys(), ", ")})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return ""
	}
	return out
}

// watchFile calls fn now and after every write to path until ctx is done.
// Events are debounced so editors that write in several steps trigger one run.
func watchFile(ctx context.Context, path string, fn func()) error {
	logger := logging.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are still seen
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	fn()
	logger.Info("watching for changes", "file", path)

	changed := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case <-changed:
			logger.Debug("file changed", "file", path)
			fn()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
