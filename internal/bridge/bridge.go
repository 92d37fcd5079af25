// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge defines the transport between the CLI and the harmonizer service.
// A bridge carries one request and streams the resulting events back, over either
// HTTP server-sent events or a gRPC server stream.
package bridge

import (
	"context"
	"fmt"
	"strings"

	"harmonizer/cli/internal/bridge/grpcclient"
	"harmonizer/cli/internal/bridge/model"
	"harmonizer/cli/internal/bridge/sseclient"
	"harmonizer/cli/internal/harmonizer"
	"harmonizer/cli/internal/stream"
)

// Transport names accepted by New.
const (
	TransportSSE  = "sse"
	TransportGRPC = "grpc"
)

// Bridge represents a connection to the harmonizer for one streamed request.
type Bridge interface {
	// Connect prepares the transport. addr is the base URL for SSE or the gRPC address.
	Connect(ctx context.Context, addr string, accessToken string) error
	// Send starts the request. Events are delivered on Events.
	Send(ctx context.Context, req model.Request) error
	// Events returns the stream of events; it is closed after a terminal event.
	Events() <-chan stream.Event
	Close(ctx context.Context) error
}

var (
	_ Bridge = (*sseclient.Client)(nil)
	_ Bridge = (*grpcclient.Client)(nil)
)

// New creates a bridge for transport. Extra harmonizer client options are
// applied when the SSE transport builds its client.
func New(transport string, endpoints harmonizer.Endpoints, opts ...harmonizer.Option) (Bridge, error) {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "", TransportSSE:
		return &sseclient.Client{
			New: func(addr, token string) sseclient.Streamer {
				o := append([]harmonizer.Option{harmonizer.WithToken(token)}, opts...)
				return harmonizer.New(addr, endpoints, o...)
			},
		}, nil
	case TransportGRPC:
		return &grpcclient.Client{}, nil
	}
	return nil, fmt.Errorf("unknown transport %q (want %s or %s)", transport, TransportSSE, TransportGRPC)
}

// Collect drains b until its event channel closes, calling fn for each event.
// It stops early when ctx is done.
func Collect(ctx context.Context, b Bridge, fn func(stream.Event)) error {
	events := b.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			fn(ev)
		}
	}
}
