// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines shared data structures for bridge communication.
// The types in this package are transport-agnostic and are converted to the
// wire format of each bridge implementation.
package model

import "strings"

// RequestKind selects the harmonizer operation a request starts.
type RequestKind string

const (
	// KindInitMessage submits a SQL schema for model generation.
	KindInitMessage RequestKind = "init_message"
	// KindChat sends a chat message about the current model.
	KindChat RequestKind = "chat"
)

// Request is a unit of work sent to the harmonizer over a bridge.
type Request struct {
	RequestID string
	Kind      RequestKind
	// Text is the SQL script for KindInitMessage or the message for KindChat.
	Text string
}

// Valid reports whether the request has a known kind and non-blank text.
func (r Request) Valid() bool {
	switch r.Kind {
	case KindInitMessage, KindChat:
		return strings.TrimSpace(r.Text) != ""
	}
	return false
}

// Field returns the JSON field name that carries Text on the wire.
func (r Request) Field() string {
	if r.Kind == KindChat {
		return "message"
	}
	return "sqlQuery"
}
