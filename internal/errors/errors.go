// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Validation failures produced by the DDL parser and
// failures talking to the harmonizer service share the same representation, so the
// CLI and the relay server can branch on Kind while showing only Message to users.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

// Validation kinds. The set is closed; every rejected input maps to exactly one.
const (
	EmptyInput              Kind = "empty_input"
	NoCreateTableFound      Kind = "no_create_table_found"
	InvalidTableName        Kind = "invalid_table_name"
	UnbalancedParentheses   Kind = "unbalanced_parentheses"
	MissingColumnBlock      Kind = "missing_column_block"
	EmptyColumnBlock        Kind = "empty_column_block"
	InvalidColumnDefinition Kind = "invalid_column_definition"
	InvalidColumnName       Kind = "invalid_column_name"
	MissingDataType         Kind = "missing_data_type"
	UnsupportedDataType     Kind = "unsupported_data_type"
	DuplicateColumnName     Kind = "duplicate_column_name"
	DuplicateTableName      Kind = "duplicate_table_name"
	InternalParseError      Kind = "internal_parse_error"
)

// Relay kinds.
const (
	// EmptyMessage indicates a blank payload was about to be sent to the harmonizer.
	EmptyMessage Kind = "empty_message"
	// RequestFailed indicates the harmonizer answered with a non-success status.
	RequestFailed Kind = "request_failed"
	// NetworkError indicates the harmonizer could not be reached.
	NetworkError Kind = "network_error"
	// StreamFailed indicates a streaming session ended abnormally.
	StreamFailed Kind = "stream_failed"
	// SchemaPullFailed indicates a live database schema could not be read.
	SchemaPullFailed Kind = "schema_pull_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

// Error returns the human-readable message, followed by the cause when present.
func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E with the same Kind.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	return ok && t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &E{Kind: kind})
}
