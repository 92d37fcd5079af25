// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package harmonizer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	herr "harmonizer/cli/internal/errors"
)

// API defines harmonizer operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// InitMessage submits a validated SQL schema and returns the service response.
	InitMessage(ctx context.Context, sql string) (json.RawMessage, error)
	// StreamInitMessage submits a schema and delivers each streamed chunk to onData.
	StreamInitMessage(ctx context.Context, sql string, onData DataFunc) error
	// SendChat sends a follow-up chat message about the current model.
	SendChat(ctx context.Context, message string) (json.RawMessage, error)
	// StreamChat sends a chat message and delivers each streamed chunk to onData.
	StreamChat(ctx context.Context, message string, onData DataFunc) error
	// Visualization returns the visualization data of a generated model.
	Visualization(ctx context.Context, id string) (json.RawMessage, error)
	// MetaModel returns the metamodel of a generated model.
	MetaModel(ctx context.Context, id string) (json.RawMessage, error)
}

var _ API = (*Client)(nil)

type initMessageRequest struct {
	SQLQuery string `json:"sqlQuery"`
}

type chatRequest struct {
	Message string `json:"message"`
}

func initBody(sql string) (initMessageRequest, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return initMessageRequest{}, herr.New(herr.EmptyMessage, "SQL query is empty")
	}
	return initMessageRequest{SQLQuery: sql}, nil
}

func chatBody(msg string) (chatRequest, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return chatRequest{}, herr.New(herr.EmptyMessage, "chat message is empty")
	}
	return chatRequest{Message: msg}, nil
}

// wrap attaches a relay kind to a failed call.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if herr.KindOf(err) != "" {
		return err
	}
	kind := herr.RequestFailed
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.IsNetwork() {
		kind = herr.NetworkError
	}
	return herr.Wrap(kind, op+" failed", err)
}

// InitMessage calls POST /init-message with {"sqlQuery": ...}.
func (c *Client) InitMessage(ctx context.Context, sql string) (json.RawMessage, error) {
	body, err := initBody(sql)
	if err != nil {
		return nil, err
	}
	out, err := c.Post(ctx, c.endpoints.InitMessage, body)
	return out, wrap("init message", err)
}

// StreamInitMessage calls POST /init-message and reads the event stream.
func (c *Client) StreamInitMessage(ctx context.Context, sql string, onData DataFunc) error {
	body, err := initBody(sql)
	if err != nil {
		return err
	}
	return wrap("init message stream", c.Stream(ctx, c.endpoints.InitMessage, body, onData))
}

// SendChat calls POST /chat with {"message": ...}.
func (c *Client) SendChat(ctx context.Context, message string) (json.RawMessage, error) {
	body, err := chatBody(message)
	if err != nil {
		return nil, err
	}
	out, err := c.Post(ctx, c.endpoints.Chat, body)
	return out, wrap("chat", err)
}

// StreamChat calls POST /chat/stream and reads the event stream.
func (c *Client) StreamChat(ctx context.Context, message string, onData DataFunc) error {
	body, err := chatBody(message)
	if err != nil {
		return err
	}
	return wrap("chat stream", c.Stream(ctx, c.endpoints.ChatStream, body, onData))
}

// Visualization calls GET /visualization/{id}.
func (c *Client) Visualization(ctx context.Context, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, herr.New(herr.EmptyMessage, "model id is required")
	}
	out, err := c.Get(ctx, resourcePath(c.endpoints.Visualization, id))
	return out, wrap("visualization", err)
}

// MetaModel calls GET /metamodel/{id}.
func (c *Client) MetaModel(ctx context.Context, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, herr.New(herr.EmptyMessage, "model id is required")
	}
	out, err := c.Get(ctx, resourcePath(c.endpoints.MetaModel, id))
	return out, wrap("metamodel", err)
}

// Ping checks that the service answers on its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, c.endpoints.Health)
	return wrap("health check", err)
}
