// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

// metamodelCmd fetches the metamodel of a generated model.
var metamodelCmd = &cobra.Command{
	Use:   "metamodel <id>",
	Short: "Show the metamodel of a generated model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newClient(cmd).MetaModel(cmd.Context(), args[0])
		if err != nil {
			return relayError(cmd, "Fetching metamodel", err)
		}
		return renderRaw(cmd.OutOrStdout(), out)
	},
}

// visualizationCmd fetches the visualization data of a generated model.
var visualizationCmd = &cobra.Command{
	Use:   "visualization <id>",
	Short: "Show the visualization data of a generated model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newClient(cmd).Visualization(cmd.Context(), args[0])
		if err != nil {
			return relayError(cmd, "Fetching visualization", err)
		}
		return renderRaw(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(metamodelCmd, visualizationCmd)
}
