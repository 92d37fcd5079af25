// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"
	"time"

	"harmonizer/cli/internal/bridge/model"

	"github.com/spf13/cobra"
)

var streamChat bool

// chatCmd sends a follow-up chat message about the current model.
var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a chat message about the current model",
	Long: `The chat command sends a message to the harmonizer about the model it built from the
last submitted schema, e.g. to ask for a missing relation or a renamed entity.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")
		if streamChat {
			return streamRequest(cmd, model.Request{Kind: model.KindChat, Text: message})
		}

		stop := startInlineSpinner(cmd.ErrOrStderr(), "waiting for reply", spinnerFrames, 100*time.Millisecond)
		out, err := newClient(cmd).SendChat(cmd.Context(), message)
		stop()
		if err != nil {
			return relayError(cmd, "Chat", err)
		}
		return renderRaw(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&streamChat, "stream", false, "Stream the reply as it is generated")
	chatCmd.Flags().String("transport", "", "Stream transport: sse or grpc")
}
