// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"
	"strings"

	"harmonizer/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// configCmd groups commands that inspect and change the config file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd.OutOrStdout(), cfg, func(w io.Writer) error {
			file := cfg.File
			if file == "" {
				file = "(none, defaults in use)"
			}
			data := pterm.TableData{
				{"Key", "Value"},
				{"api_host", cfg.APIHost},
				{"timeout", cfg.Timeout.String()},
				{"transport", cfg.Transport},
				{"grpc_addr", cfg.GRPCAddr},
				{"output", cfg.Output},
				{"log_level", cfg.LogLevel},
				{"serve.addr", cfg.Serve.Addr},
				{"endpoints.init_message", cfg.Endpoints.InitMessage},
				{"endpoints.chat", cfg.Endpoints.Chat},
				{"endpoints.chat_stream", cfg.Endpoints.ChatStream},
				{"endpoints.visualization", cfg.Endpoints.Visualization},
				{"endpoints.metamodel", cfg.Endpoints.MetaModel},
				{"endpoints.health", cfg.Endpoints.Health},
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			pterm.Fprintln(w, "Config file: "+file)
			pterm.Fprintln(w, table)
			return nil
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting in the config file",
	Long: "Persist a setting in the config file. Known keys:\n  " +
		strings.Join(config.Keys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Set(cfgFile, args[0], args[1])
		if err != nil {
			return err
		}
		pterm.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("%s = %s (saved to %s)", args[0], args[1], path))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path(cfgFile)
		if err != nil {
			return err
		}
		pterm.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
