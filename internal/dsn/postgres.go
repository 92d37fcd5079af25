// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"net/url"
	"strings"
)

// PostgreSQLResolver handles PostgreSQL DSN parsing and normalization
type PostgreSQLResolver struct {
	form urlForm
}

// NewPostgreSQLResolver creates a new PostgreSQL resolver
func NewPostgreSQLResolver() *PostgreSQLResolver {
	return &PostgreSQLResolver{form: urlForm{
		dbType:      DBTypePostgreSQL,
		schemes:     []string{"postgres", "postgresql"},
		defaultPort: "5432",
	}}
}

// Parse parses a postgres:// or postgresql:// DSN.
func (r *PostgreSQLResolver) Parse(dsn string) (*DSNInfo, error) {
	return r.form.parse(dsn)
}

// Normalize renders info as a postgresql:// URL with the user and password
// escaped, so it can be handed to pgx as is.
func (r *PostgreSQLResolver) Normalize(info *DSNInfo) (string, error) {
	if info == nil {
		return "", NewParseError("", "nil DSN info", "")
	}

	var builder strings.Builder
	builder.WriteString("postgresql://")
	if info.User != "" {
		builder.WriteString(url.QueryEscape(info.User))
		if info.Password != "" {
			builder.WriteString(":")
			builder.WriteString(url.QueryEscape(info.Password))
		}
		builder.WriteString("@")
	}

	port := info.Port
	if port == "" {
		port = r.form.defaultPort
	}
	builder.WriteString(info.Host + ":" + port)
	builder.WriteString("/" + info.Database)

	if len(info.Params) > 0 {
		builder.WriteString("?" + encodeParams(info.Params))
	}
	return builder.String(), nil
}

// Validate checks if the DSN is valid for PostgreSQL
func (r *PostgreSQLResolver) Validate(dsn string) error {
	_, err := r.Parse(dsn)
	return err
}
