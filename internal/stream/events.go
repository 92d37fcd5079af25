// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package stream defines the events delivered by the harmonizer while it builds a
// model from a submitted schema, together with the progress tracking and terminal
// rendering used to display them in the CLI.
//
// Events arrive either as server-sent "data:" payloads or as gRPC messages; both
// transports normalize them into Event before handing them to the UI.
package stream

import (
	"encoding/json"
	"strings"
)

// EventType enumerates known stream event kinds.
type EventType string

const (
	// EventMessage is a generic payload without a recognized type.
	EventMessage EventType = "message"
	// EventToken carries an incremental piece of generated text.
	EventToken EventType = "token"
	// EventProgress reports a processing stage.
	EventProgress EventType = "progress"
	// EventMetaModel carries a metamodel chunk or the complete metamodel.
	EventMetaModel EventType = "metamodel"
	// EventVisualization carries visualization data.
	EventVisualization EventType = "visualization"
	// EventDone marks the successful end of the stream.
	EventDone EventType = "done"
	// EventError reports a failure raised by the service inside the stream.
	EventError EventType = "error"
	// EventStreamClosed is emitted locally when the transport closes normally.
	EventStreamClosed EventType = "stream_closed"
	// EventStreamError is emitted locally when the transport fails.
	EventStreamError EventType = "stream_error"
)

// aliases maps alternative type names used by services onto known kinds.
var aliases = map[string]EventType{
	"complete":   EventDone,
	"completed":  EventDone,
	"end":        EventDone,
	"chunk":      EventToken,
	"delta":      EventToken,
	"status":     EventProgress,
	"meta_model": EventMetaModel,
	"failed":     EventError,
}

// Event is a generic container for stream UI events.
type Event struct {
	Type EventType `json:"type"`
	// Message is the human-readable text of the event, if any.
	Message string `json:"message,omitempty"`
	// Data is the raw payload as received.
	Data json.RawMessage `json:"data,omitempty"`
}

// Terminal reports whether no further events follow this one.
func (e Event) Terminal() bool {
	switch e.Type {
	case EventDone, EventStreamClosed, EventStreamError:
		return true
	}
	return false
}

// Failed reports whether the event signals a failure.
func (e Event) Failed() bool {
	return e.Type == EventError || e.Type == EventStreamError
}

// FromPayload builds an Event from one JSON payload. The type is read from a
// "type" or "event" field and defaults to EventMessage; the message is read
// with ExtractText.
func FromPayload(raw json.RawMessage) Event {
	ev := Event{Type: EventMessage, Data: raw}

	var top map[string]any
	if err := json.Unmarshal(raw, &top); err != nil {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			ev.Message = s
		}
		return ev
	}
	for _, key := range []string{"type", "event"} {
		if s, ok := top[key].(string); ok && s != "" {
			ev.Type = normalizeType(s)
			break
		}
	}
	ev.Message = ExtractText(top)
	return ev
}

func normalizeType(s string) EventType {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := aliases[s]; ok {
		return t
	}
	return EventType(s)
}
