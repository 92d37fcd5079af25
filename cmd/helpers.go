// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"harmonizer/cli/internal/harmonizer"
	"harmonizer/cli/internal/keychain"
	"harmonizer/cli/internal/logging"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Environment variables read outside the config layer because they hold secrets.
const (
	envToken       = "HARMONIZER_TOKEN"
	envDSN         = "HARMONIZER_DSN"
	envDatabaseURL = "DATABASE_URL"
)

// keychainManager returns the secret store. Tests replace it with a memory manager.
var keychainManager = keychain.GetManager

// outputFormat returns the configured output format.
func outputFormat() string {
	if cfg == nil || cfg.Output == "" {
		return "text"
	}
	return cfg.Output
}

// render writes v as JSON or YAML when requested, otherwise calls text.
func render(w io.Writer, v any, text func(w io.Writer) error) error {
	switch outputFormat() {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(w)
}

// renderRaw prints a raw JSON service response in the configured format.
func renderRaw(w io.Writer, raw json.RawMessage) error {
	var v any
	if len(raw) == 0 {
		v = map[string]any{}
	} else if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return render(w, v, func(w io.Writer) error {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			_, err = fmt.Fprintln(w, string(raw))
			return err
		}
		_, err := fmt.Fprintln(w, buf.String())
		return err
	})
}

// readInput returns the contents of the file named by args[0], or of stdin
// when no file or "-" is given, together with a display name.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), "stdin", nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(b), args[0], nil
}

// resolveToken returns the bearer token from HARMONIZER_TOKEN or the keychain.
// A missing token is not an error; the service decides whether it needs one.
func resolveToken() string {
	if env := strings.TrimSpace(os.Getenv(envToken)); env != "" {
		return env
	}
	km, err := keychainManager()
	if err != nil {
		return ""
	}
	token, err := km.LoadAPIToken()
	if err != nil {
		return ""
	}
	return token
}

// resolveDSN returns the database DSN from flag, environment or keychain,
// and a description of where it came from.
func resolveDSN(flag string) (string, string, error) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, "--dsn flag", nil
	}
	if env := strings.TrimSpace(os.Getenv(envDSN)); env != "" {
		return env, envDSN + " environment variable", nil
	}
	if env := strings.TrimSpace(os.Getenv(envDatabaseURL)); env != "" {
		return env, envDatabaseURL + " environment variable", nil
	}

	km, err := keychainManager()
	if err != nil {
		return "", "", fmt.Errorf("secure storage is not available: %w", err)
	}
	d, err := km.LoadDBDSN()
	if errors.Is(err, keychain.ErrNotFound) {
		return "", "", errors.New("no database connection configured, run: harmonizer connect")
	}
	if err != nil {
		return "", "", err
	}
	return d, "OS keychain", nil
}

// newClient builds a harmonizer client from the effective configuration.
func newClient(cmd *cobra.Command) *harmonizer.Client {
	return harmonizer.New(cfg.APIHost, cfg.Endpoints, clientOptions(cmd)...)
}

func clientOptions(cmd *cobra.Command) []harmonizer.Option {
	opts := []harmonizer.Option{
		harmonizer.WithTimeout(cfg.Timeout),
		harmonizer.WithLogger(logging.FromContext(cmd.Context())),
	}
	if token := resolveToken(); token != "" {
		opts = append(opts, harmonizer.WithToken(token))
	}
	return opts
}
