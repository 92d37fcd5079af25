// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"harmonizer/cli/internal/logging"
	"harmonizer/cli/internal/server"

	"github.com/spf13/cobra"
)

var noRelay bool

// serveCmd runs the local relay server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local validation and relay server",
	Long: `The serve command starts an HTTP server that validates schemas and relays valid ones to
the harmonizer service:

  POST /api/validate      validation report
  POST /api/init-message  validate, then submit to the harmonizer
  POST /api/stream        validate, then stream the harmonizer response as datastar signals
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scfg := server.Config{
			Addr:   cfg.Serve.Addr,
			Logger: logging.FromContext(cmd.Context()),
		}
		if !noRelay {
			scfg.Relay = newClient(cmd)
		}
		return server.New(scfg).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default :8765)")
	serveCmd.Flags().BoolVar(&noRelay, "no-relay", false, "Serve validation only, without a harmonizer relay")
}
