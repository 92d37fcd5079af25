// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package harmonizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	herr "harmonizer/cli/internal/errors"
	"harmonizer/cli/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	return New(srv.URL+"/", Endpoints{}, opts...)
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NormalizeBaseURL(""))
	assert.Equal(t, "http://api.local:9000", NormalizeBaseURL("api.local:9000/"))
	assert.Equal(t, "https://h.example.com", NormalizeBaseURL(" https://h.example.com// "))
}

func TestEndpointsWithDefaults(t *testing.T) {
	e := Endpoints{Chat: "/v2/chat"}.WithDefaults()
	assert.Equal(t, "/v2/chat", e.Chat)
	assert.Equal(t, "/init-message", e.InitMessage)
	assert.Equal(t, "/metamodel/a%2Fb", resourcePath(e.MetaModel, "a/b"))
}

func TestInitMessage(t *testing.T) {
	var gotBody map[string]string
	var gotHeaders http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/init-message", r.URL.Path)
		gotHeaders = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"m1","status":"accepted"}`)
	}, WithToken("secret"))

	out, err := c.InitMessage(context.Background(), "  CREATE TABLE t (a INT)  ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"m1","status":"accepted"}`, string(out))
	assert.Equal(t, "CREATE TABLE t (a INT)", gotBody["sqlQuery"])
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", gotHeaders.Get("Authorization"))
	assert.NotEmpty(t, gotHeaders.Get(RequestIDHeader))
}

func TestInitMessageEmpty(t *testing.T) {
	c := New("http://127.0.0.1:1", Endpoints{})
	_, err := c.InitMessage(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, herr.EmptyMessage, herr.KindOf(err))
}

func TestHTTPErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"detail":"upstream down"}`)
	})

	_, err := c.SendChat(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, herr.RequestFailed, herr.KindOf(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "HTTP error! status: 502", apiErr.Message)
	assert.Contains(t, apiErr.Body, "upstream down")
	assert.Equal(t, "chat failed: HTTP error! status: 502", err.Error())
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, Endpoints{}, WithTimeout(time.Second))
	_, err := c.Visualization(context.Background(), "m1")
	require.Error(t, err)
	assert.Equal(t, herr.NetworkError, herr.KindOf(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNetwork())
}

func TestGetResources(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = fmt.Fprintf(w, `{"path":%q}`, r.URL.Path)
	})

	viz, err := c.Visualization(context.Background(), "m1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/visualization/m1"}`, string(viz))

	mm, err := c.MetaModel(context.Background(), "m1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/metamodel/m1"}`, string(mm))

	_, err = c.MetaModel(context.Background(), " ")
	assert.Equal(t, herr.EmptyMessage, herr.KindOf(err))
}

func TestEmptyResponseBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	out, err := c.Delete(context.Background(), "/models/1")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestStreamChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/stream", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = io.WriteString(w, "data: {\"type\":\"token\",\"text\":\"he\"}\n\n")
		flusher.Flush()
		_, _ = io.WriteString(w, ": keep-alive\n\ndata: not json\n\n")
		_, _ = io.WriteString(w, "event: chunk\r\ndata: {\"type\":\"token\",\"text\":\"llo\"}\r\n\r\n")
		_, _ = io.WriteString(w, "data: {\"type\":\"done\"}\n\n")
	})

	var got []string
	err := c.StreamChat(context.Background(), "hi", func(data json.RawMessage) error {
		got = append(got, string(data))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		`{"type":"token","text":"he"}`,
		`{"type":"token","text":"llo"}`,
		`{"type":"done"}`,
	}, got)
}

func TestStreamStop(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: 1\n\ndata: 2\n\ndata: 3\n\n")
	})

	var n int
	err := c.StreamInitMessage(context.Background(), "CREATE TABLE t (a INT)", func(json.RawMessage) error {
		n++
		if n == 2 {
			return ErrStopStream
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStreamCallbackError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {}\n\n")
	})
	boom := errors.New("boom")
	err := c.StreamChat(context.Background(), "hi", func(json.RawMessage) error { return boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, herr.RequestFailed, herr.KindOf(err))
}

func TestStreamStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	err := c.StreamChat(context.Background(), "hi", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
