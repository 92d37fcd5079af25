// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package harmonizer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// DataFunc receives one decoded "data:" payload of an event stream.
// Returning an error stops the stream and the error is returned to the caller.
type DataFunc func(data json.RawMessage) error

// ErrStopStream can be returned by a DataFunc to end a stream without error.
var ErrStopStream = errors.New("stop stream")

const (
	dataPrefix = "data: "
	// maxEventLine bounds a single event stream line.
	maxEventLine = 1 << 20
)

// Stream POSTs body to path with Accept: text/event-stream and feeds every
// data line to onData. Lines that are not valid JSON are logged and skipped.
// It returns when the server closes the stream, ctx is cancelled or onData fails.
func (c *Client) Stream(ctx context.Context, path string, body any, onData DataFunc) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	err = readEventStream(resp.Body, func(line string) error {
		payload, ok := strings.CutPrefix(line, dataPrefix)
		if !ok {
			return nil
		}
		raw := []byte(strings.TrimSpace(payload))
		if !json.Valid(raw) {
			c.logger.Warn("skipping undecodable stream data", "data", payload)
			return nil
		}
		if onData == nil {
			return nil
		}
		return onData(json.RawMessage(raw))
	})
	if errors.Is(err, ErrStopStream) {
		return nil
	}
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// readEventStream calls fn for every line of r, with line endings removed.
// Lines split across reads are reassembled by the scanner.
func readEventStream(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxEventLine)
	for sc.Scan() {
		if err := fn(strings.TrimRight(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return networkError(err)
	}
	return nil
}
