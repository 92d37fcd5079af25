// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sseclient provides a Bridge implementation over the harmonizer's
// HTTP text/event-stream endpoints.
package sseclient

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"harmonizer/cli/internal/bridge/model"
	"harmonizer/cli/internal/harmonizer"
	"harmonizer/cli/internal/stream"
)

// Streamer is the part of the harmonizer API this bridge needs.
type Streamer interface {
	StreamInitMessage(ctx context.Context, sql string, onData harmonizer.DataFunc) error
	StreamChat(ctx context.Context, message string, onData harmonizer.DataFunc) error
}

// Client implements bridge.Bridge on top of a harmonizer streaming client.
// One Client carries a single request; its event channel closes when that
// request's stream ends.
type Client struct {
	// New builds the streamer on Connect when API is nil.
	New func(addr, accessToken string) Streamer
	// API is the streamer used for requests.
	API Streamer

	events chan stream.Event
	cancel context.CancelFunc
	mu     sync.Mutex
	sent   bool
}

// Connect prepares the client. addr is the harmonizer base URL.
func (c *Client) Connect(ctx context.Context, addr string, accessToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.API == nil {
		if c.New == nil {
			return errors.New("no harmonizer client configured")
		}
		c.API = c.New(addr, accessToken)
	}
	c.events = make(chan stream.Event, 64)
	return nil
}

// Send starts the stream for req and returns immediately; events are
// delivered on Events until a terminal event is emitted.
func (c *Client) Send(ctx context.Context, req model.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.events == nil:
		return errors.New("bridge not connected")
	case c.sent:
		return errors.New("request already sent on this bridge")
	case !req.Valid():
		return errors.New("invalid request")
	}
	c.sent = true

	sctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(sctx, req)
	return nil
}

func (c *Client) run(ctx context.Context, req model.Request) {
	defer close(c.events)
	onData := func(data json.RawMessage) error {
		ev := stream.FromPayload(data)
		select {
		case c.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
		if ev.Type == stream.EventDone {
			return harmonizer.ErrStopStream
		}
		return nil
	}

	var err error
	switch req.Kind {
	case model.KindChat:
		err = c.API.StreamChat(ctx, req.Text, onData)
	default:
		err = c.API.StreamInitMessage(ctx, req.Text, onData)
	}

	final := stream.Event{Type: stream.EventStreamClosed, Message: "stream closed"}
	if err != nil && !errors.Is(err, context.Canceled) {
		final = stream.Event{Type: stream.EventStreamError, Message: err.Error()}
	}
	select {
	case c.events <- final:
	case <-ctx.Done():
	}
}

// Events returns the stream of events for the current request.
func (c *Client) Events() <-chan stream.Event { return c.events }

// Close cancels an in-flight stream.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}
