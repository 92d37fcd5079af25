// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcclient provides a gRPC-backed implementation of the Bridge interface.
// Requests and responses travel as google.protobuf.Struct messages on the
// server-streaming method /harmonizer.Harmonizer/Stream, so no generated stubs
// are needed on either side. Each response message is converted to a stream.Event.
package grpcclient

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strings"
	"sync"

	"harmonizer/cli/internal/bridge/model"
	"harmonizer/cli/internal/stream"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// StreamMethod is the full gRPC method name of the harmonizer stream.
const StreamMethod = "/harmonizer.Harmonizer/Stream"

// Client implements bridge.Bridge using the Harmonizer.Stream server stream.
type Client struct {
	// DialOptions replace the default transport credentials when set.
	DialOptions []grpc.DialOption

	conn   *grpc.ClientConn
	events chan stream.Event
	token  string
	cancel context.CancelFunc
	mu     sync.Mutex
	sent   bool
}

// Target resolves addr into a dial target and reports whether it needs TLS.
// grpc://host:port is plaintext; grpcs://host, https://host and bare host[:port]
// use TLS, with port 443 added when missing. Resolver targets such as
// dns:///host or passthrough:///host are returned unchanged with plaintext.
func Target(addr string) (target string, serverName string, useTLS bool) {
	host := strings.TrimSpace(addr)
	useTLS = true
	if scheme, rest, ok := strings.Cut(host, "://"); ok {
		switch strings.ToLower(scheme) {
		case "grpc", "http":
			useTLS = false
			host = rest
		case "grpcs", "https":
			host = rest
		default:
			return host, "", false
		}
		host, _, _ = strings.Cut(host, "/")
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return host, h, useTLS
	}
	port := "443"
	if !useTLS {
		port = "80"
	}
	return net.JoinHostPort(host, port), host, useTLS
}

// Connect creates the gRPC client connection. The access token is sent as
// bearer authorization metadata on every stream.
func (c *Client) Connect(ctx context.Context, addr string, accessToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target, serverName, useTLS := Target(addr)
	opts := c.DialOptions
	if len(opts) == 0 {
		creds := insecure.NewCredentials()
		if useTLS {
			creds = credentials.NewTLS(&tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12})
		}
		opts = []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return err
	}
	c.conn = conn
	c.token = accessToken
	c.events = make(chan stream.Event, 64)
	return nil
}

// Send opens the stream, sends req as the single request message and starts
// receiving. Events are delivered on Events until a terminal event.
func (c *Client) Send(ctx context.Context, req model.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.conn == nil:
		return errors.New("bridge not connected")
	case c.sent:
		return errors.New("request already sent on this bridge")
	case !req.Valid():
		return errors.New("invalid request")
	}

	msg, err := structpb.NewStruct(map[string]any{
		"kind":      string(req.Kind),
		req.Field(): req.Text,
	})
	if err != nil {
		return err
	}

	reqID := req.RequestID
	if reqID == "" {
		reqID = uuid.NewString()
	}
	md := metadata.Pairs("x-request-id", reqID)
	if c.token != "" {
		md.Append("authorization", "Bearer "+c.token)
	}
	sctx, cancel := context.WithCancel(metadata.NewOutgoingContext(ctx, md))

	cs, err := c.conn.NewStream(sctx, &grpc.StreamDesc{ServerStreams: true}, StreamMethod)
	if err != nil {
		cancel()
		return err
	}
	st := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: cs}
	if err := st.Send(msg); err != nil {
		cancel()
		return err
	}
	if err := st.CloseSend(); err != nil {
		cancel()
		return err
	}

	c.sent = true
	c.cancel = cancel
	go c.receiveLoop(sctx, st)
	return nil
}

func (c *Client) receiveLoop(ctx context.Context, st *grpc.GenericClientStream[structpb.Struct, structpb.Struct]) {
	defer close(c.events)
	emit := func(ev stream.Event) bool {
		select {
		case c.events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	for {
		msg, err := st.Recv()
		if err != nil {
			// Differentiate normal close vs error; avoid printing raw EOF as info in UI
			switch {
			case errors.Is(err, io.EOF):
				emit(stream.Event{Type: stream.EventStreamClosed, Message: "stream closed"})
			case ctx.Err() != nil:
			default:
				if s, ok := status.FromError(err); ok {
					emit(stream.Event{Type: stream.EventStreamError, Message: s.Code().String() + ": " + s.Message()})
				} else {
					emit(stream.Event{Type: stream.EventStreamError, Message: err.Error()})
				}
			}
			return
		}
		raw, err := protojson.Marshal(msg)
		if err != nil {
			continue
		}
		if !emit(stream.FromPayload(raw)) {
			return
		}
	}
}

// Events returns the stream of events for the current request.
func (c *Client) Events() <-chan stream.Event { return c.events }

// Close cancels the stream and closes the connection.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	if c.cancel != nil {
		c.cancel()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
