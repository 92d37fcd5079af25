// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package grpcclient

import (
	"context"
	"net"
	"testing"
	"time"

	"harmonizer/cli/internal/bridge/model"
	"harmonizer/cli/internal/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type received struct {
	method string
	md     metadata.MD
	req    *structpb.Struct
}

// startServer runs a gRPC server that answers every stream with replies,
// then ends it with final.
func startServer(t *testing.T, replies []map[string]any, final error) (*Client, <-chan received) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	got := make(chan received, 1)

	srv := grpc.NewServer(grpc.UnknownServiceHandler(func(_ any, ss grpc.ServerStream) error {
		method, _ := grpc.MethodFromServerStream(ss)
		md, _ := metadata.FromIncomingContext(ss.Context())
		in := &structpb.Struct{}
		if err := ss.RecvMsg(in); err != nil {
			return err
		}
		got <- received{method: method, md: md, req: in}
		for _, r := range replies {
			msg, err := structpb.NewStruct(r)
			if err != nil {
				return err
			}
			if err := ss.SendMsg(msg); err != nil {
				return err
			}
		}
		return final
	}))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c := &Client{DialOptions: []grpc.DialOption{
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}}
	require.NoError(t, c.Connect(context.Background(), "passthrough:///bufnet", "tok"))
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, got
}

func drain(t *testing.T, c *Client) []stream.Event {
	t.Helper()
	var out []stream.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-c.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for events")
			return out
		}
	}
}

func TestTarget(t *testing.T) {
	tests := []struct {
		addr, target, server string
		tls                  bool
	}{
		{"api.example.com", "api.example.com:443", "api.example.com", true},
		{"api.example.com:8443", "api.example.com:8443", "api.example.com", true},
		{"grpc://localhost:50051", "localhost:50051", "localhost", false},
		{"grpc://localhost", "localhost:80", "localhost", false},
		{"https://api.example.com/", "api.example.com:443", "api.example.com", true},
		{"passthrough:///bufnet", "passthrough:///bufnet", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			target, server, useTLS := Target(tt.addr)
			assert.Equal(t, tt.target, target)
			assert.Equal(t, tt.server, server)
			assert.Equal(t, tt.tls, useTLS)
		})
	}
}

func TestSendAndReceive(t *testing.T) {
	c, got := startServer(t, []map[string]any{
		{"type": "progress", "message": "parsing schema"},
		{"type": "metamodel", "data": map[string]any{"model_id": "m-1"}},
		{"type": "done"},
	}, nil)

	err := c.Send(context.Background(), model.Request{
		RequestID: "req-1",
		Kind:      model.KindInitMessage,
		Text:      "CREATE TABLE t (a INT)",
	})
	require.NoError(t, err)

	events := drain(t, c)
	require.Len(t, events, 4)
	assert.Equal(t, stream.EventProgress, events[0].Type)
	assert.Equal(t, "parsing schema", events[0].Message)
	assert.Equal(t, stream.EventMetaModel, events[1].Type)
	assert.Equal(t, "m-1", stream.ExtractModelID(events[1].Data))
	assert.Equal(t, stream.EventDone, events[2].Type)
	assert.Equal(t, stream.EventStreamClosed, events[3].Type)

	r := <-got
	assert.Equal(t, StreamMethod, r.method)
	assert.Equal(t, []string{"Bearer tok"}, r.md.Get("authorization"))
	assert.Equal(t, []string{"req-1"}, r.md.Get("x-request-id"))
	assert.Equal(t, "CREATE TABLE t (a INT)", r.req.GetFields()["sqlQuery"].GetStringValue())
	assert.Equal(t, "init_message", r.req.GetFields()["kind"].GetStringValue())
}

func TestStreamError(t *testing.T) {
	c, got := startServer(t, nil, status.Error(codes.Unauthenticated, "token expired"))

	require.NoError(t, c.Send(context.Background(), model.Request{Kind: model.KindChat, Text: "hi"}))
	events := drain(t, c)
	require.Len(t, events, 1)
	assert.Equal(t, stream.EventStreamError, events[0].Type)
	assert.Equal(t, "Unauthenticated: token expired", events[0].Message)

	r := <-got
	assert.Equal(t, "hi", r.req.GetFields()["message"].GetStringValue())
	assert.NotEmpty(t, r.md.Get("x-request-id"))
}

func TestSendGuards(t *testing.T) {
	c := &Client{}
	err := c.Send(context.Background(), model.Request{Kind: model.KindChat, Text: "hi"})
	assert.EqualError(t, err, "bridge not connected")

	c2, _ := startServer(t, []map[string]any{{"type": "done"}}, nil)
	assert.EqualError(t, c2.Send(context.Background(), model.Request{Kind: model.KindChat, Text: " "}), "invalid request")
	require.NoError(t, c2.Send(context.Background(), model.Request{Kind: model.KindChat, Text: "hi"}))
	assert.EqualError(t, c2.Send(context.Background(), model.Request{Kind: model.KindChat, Text: "again"}), "request already sent on this bridge")
	drain(t, c2)
}
