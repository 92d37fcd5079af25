// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"harmonizer/cli/internal/bridge"
	"harmonizer/cli/internal/bridge/model"
	"harmonizer/cli/internal/ddl"
	"harmonizer/cli/internal/httperrors"
	"harmonizer/cli/internal/logging"
	"harmonizer/cli/internal/stream"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	streamSend bool
	showData   bool
)

// sendCmd validates a schema and submits it to the harmonizer.
var sendCmd = &cobra.Command{
	Use:   "send [file|-]",
	Short: "Validate a SQL schema and send it to the harmonizer",
	Long: `The send command validates a SQL script locally and, when it is valid, submits it to
the harmonizer service to build an ontology. Invalid scripts are never sent.

With --stream the response is streamed over the configured transport (sse or grpc)
and rendered as it arrives.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sql, name, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		return sendSchema(cmd, name, sql, streamSend)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().BoolVar(&streamSend, "stream", false, "Stream the response as it is generated")
	sendCmd.Flags().String("transport", "", "Stream transport: sse or grpc")
	sendCmd.Flags().BoolVar(&showData, "show-data", false, "Print raw payloads of untyped stream events")
}

// sendSchema validates sql and relays it, streaming when requested.
func sendSchema(cmd *cobra.Command, name, sql string, streaming bool) error {
	report := ddl.Check(sql)
	if !report.IsValid {
		if err := renderReport(cmd.OutOrStdout(), name, report); err != nil {
			return err
		}
		return errInvalidSchema
	}
	logging.FromContext(cmd.Context()).Debug("schema valid, sending", "source", name, "tables", report.TableCount)

	if streaming {
		return streamRequest(cmd, model.Request{Kind: model.KindInitMessage, Text: sql})
	}

	stop := startInlineSpinner(cmd.ErrOrStderr(), "sending schema", spinnerFrames, 100*time.Millisecond)
	out, err := newClient(cmd).InitMessage(cmd.Context(), sql)
	stop()
	if err != nil {
		return relayError(cmd, "Sending schema", err)
	}
	return renderRaw(cmd.OutOrStdout(), out)
}

// relayError presents a failed harmonizer call and returns it.
func relayError(cmd *cobra.Command, action string, err error) error {
	if httperrors.Classify(err) != httperrors.Generic {
		return httperrors.FormatNetworkError(cmd.ErrOrStderr(), err, action, httperrors.ExtractHostFromURL(cfg.APIHost))
	}
	pterm.Fprintln(cmd.ErrOrStderr(), logging.PresentError(action, err))
	return err
}

// streamRequest sends req over the configured bridge and renders events until
// the stream ends.
func streamRequest(cmd *cobra.Command, req model.Request) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	b, err := bridge.New(cfg.Transport, cfg.Endpoints, clientOptions(cmd)...)
	if err != nil {
		return err
	}
	addr := cfg.APIHost
	if strings.EqualFold(cfg.Transport, bridge.TransportGRPC) {
		if cfg.GRPCAddr == "" {
			return errors.New("grpc transport needs grpc_addr (set HARMONIZER_GRPC_ADDR or run: harmonizer config set grpc_addr <host:port>)")
		}
		addr = cfg.GRPCAddr
	}

	if err := b.Connect(ctx, addr, resolveToken()); err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	defer func() { _ = b.Close(context.Background()) }()

	if err := b.Send(ctx, req); err != nil {
		return relayError(cmd, "Starting stream", err)
	}
	logger.Debug("stream started", "transport", cfg.Transport, "addr", addr, "kind", req.Kind)

	renderer := stream.NewRenderer().WithWriter(cmd.OutOrStdout()).WithData(showData)
	progress := stream.NewProgress()
	spin := startAreaSpinner("waiting for the harmonizer")

	err = bridge.Collect(ctx, b, func(ev stream.Event) {
		spin.Stop()
		progress.Apply(ev)
		if ev.Type == stream.EventStreamError {
			// Presented below with a hint
			return
		}
		renderer.Render(ev)
	})
	spin.Stop()
	renderer.Finish()
	if err != nil {
		return err
	}

	if progress.HasFailures() {
		logging.PresentStreamError(cmd.ErrOrStderr(), progress.Err())
		return errors.New("stream failed")
	}
	if progress.ModelID != "" {
		pterm.Fprintln(cmd.OutOrStdout(), pterm.Info.Sprintf("model id: %s", progress.ModelID))
	}
	logger.Debug("stream finished", "events", progress.Total(), "completed", progress.Completed)
	return nil
}
