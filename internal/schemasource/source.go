// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package schemasource reads CREATE TABLE statements from a live database so they
// can be validated and sent to the harmonizer. MySQL schemas come from SHOW CREATE
// TABLE; PostgreSQL schemas are rebuilt from information_schema.
package schemasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"harmonizer/cli/internal/dsn"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source produces the DDL of every table in one database or schema.
type Source interface {
	// Tables lists table names in a stable order.
	Tables(ctx context.Context) ([]string, error)
	// DDL returns one CREATE TABLE statement per table, separated by ";\n\n".
	DDL(ctx context.Context) (string, error)
	// Ping verifies the connection.
	Ping(ctx context.Context) error
	Close()
}

// Open connects to the database described by raw, a PostgreSQL or MySQL DSN.
// schema selects the PostgreSQL schema; it is ignored for MySQL.
func Open(ctx context.Context, raw, schema string) (Source, error) {
	info, err := dsn.ParseInfo(raw)
	if err != nil {
		return nil, err
	}
	normalized, err := dsn.Parse(raw)
	if err != nil {
		return nil, err
	}

	switch info.Type {
	case dsn.DBTypeMySQL:
		db, err := sql.Open("mysql", normalized)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		return NewMySQL(db), nil
	case dsn.DBTypePostgreSQL:
		pool, err := pgxpool.New(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return NewPostgres(pool, schema), nil
	}
	return nil, fmt.Errorf("unsupported database type %s", info.Type)
}

func joinStatements(stmts []string) string {
	if len(stmts) == 0 {
		return ""
	}
	return strings.Join(stmts, ";\n\n") + ";\n"
}
