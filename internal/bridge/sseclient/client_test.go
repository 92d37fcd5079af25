// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sseclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"harmonizer/cli/internal/bridge/model"
	"harmonizer/cli/internal/harmonizer"
	"harmonizer/cli/internal/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStreamer struct {
	payloads []string
	err      error
	gotKind  string
	gotText  string
}

func (f *fakeStreamer) feed(ctx context.Context, onData harmonizer.DataFunc) error {
	for _, p := range f.payloads {
		if err := onData(json.RawMessage(p)); err != nil {
			if errors.Is(err, harmonizer.ErrStopStream) {
				return nil
			}
			return err
		}
	}
	return f.err
}

func (f *fakeStreamer) StreamInitMessage(ctx context.Context, sql string, onData harmonizer.DataFunc) error {
	f.gotKind, f.gotText = "init", sql
	return f.feed(ctx, onData)
}

func (f *fakeStreamer) StreamChat(ctx context.Context, message string, onData harmonizer.DataFunc) error {
	f.gotKind, f.gotText = "chat", message
	return f.feed(ctx, onData)
}

func collect(t *testing.T, c *Client) []stream.Event {
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

func TestSendStopsAtDone(t *testing.T) {
	f := &fakeStreamer{payloads: []string{
		`{"type":"token","text":"a"}`,
		`{"type":"done"}`,
		`{"type":"token","text":"never"}`,
	}}
	c := &Client{API: f}
	require.NoError(t, c.Connect(context.Background(), "", ""))
	require.NoError(t, c.Send(context.Background(), model.Request{Kind: model.KindInitMessage, Text: "CREATE TABLE t (a INT)"}))

	events := collect(t, c)
	require.Len(t, events, 3)
	assert.Equal(t, stream.EventToken, events[0].Type)
	assert.Equal(t, stream.EventDone, events[1].Type)
	assert.Equal(t, stream.EventStreamClosed, events[2].Type)
	assert.Equal(t, "init", f.gotKind)
	assert.Equal(t, "CREATE TABLE t (a INT)", f.gotText)
}

func TestSendReportsStreamError(t *testing.T) {
	f := &fakeStreamer{err: errors.New("chat stream failed: HTTP error! status: 500")}
	c := &Client{API: f}
	require.NoError(t, c.Connect(context.Background(), "", ""))
	require.NoError(t, c.Send(context.Background(), model.Request{Kind: model.KindChat, Text: "hi"}))

	events := collect(t, c)
	require.Len(t, events, 1)
	assert.Equal(t, stream.EventStreamError, events[0].Type)
	assert.Contains(t, events[0].Message, "status: 500")
	assert.Equal(t, "chat", f.gotKind)
}

func TestConnectBuildsStreamer(t *testing.T) {
	var gotAddr, gotToken string
	c := &Client{New: func(addr, token string) Streamer {
		gotAddr, gotToken = addr, token
		return &fakeStreamer{}
	}}
	require.NoError(t, c.Connect(context.Background(), "http://h:8000", "tok"))
	assert.Equal(t, "http://h:8000", gotAddr)
	assert.Equal(t, "tok", gotToken)

	assert.Error(t, (&Client{}).Connect(context.Background(), "", ""))
}

func TestSendGuards(t *testing.T) {
	c := &Client{API: &fakeStreamer{}}
	assert.EqualError(t, c.Send(context.Background(), model.Request{Kind: model.KindChat, Text: "x"}), "bridge not connected")

	require.NoError(t, c.Connect(context.Background(), "", ""))
	assert.EqualError(t, c.Send(context.Background(), model.Request{Kind: "bogus", Text: "x"}), "invalid request")
	require.NoError(t, c.Send(context.Background(), model.Request{Kind: model.KindChat, Text: "x"}))
	assert.EqualError(t, c.Send(context.Background(), model.Request{Kind: model.KindChat, Text: "y"}), "request already sent on this bridge")
	collect(t, c)
}
