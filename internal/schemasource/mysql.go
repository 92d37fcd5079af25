// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package schemasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// MySQL reads DDL with SHOW TABLES and SHOW CREATE TABLE.
type MySQL struct {
	db *sql.DB
}

// NewMySQL wraps an open database handle. Close closes it.
func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

// Ping verifies the connection.
func (m *MySQL) Ping(ctx context.Context) error { return m.db.PingContext(ctx) }

// Close closes the database handle.
func (m *MySQL) Close() { _ = m.db.Close() }

// Tables lists base tables of the current database. Views are skipped.
func (m *MySQL) Tables(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, "SHOW FULL TABLES WHERE Table_type = 'BASE TABLE'")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DDL returns SHOW CREATE TABLE output for every table, with the table options
// after the closing parenthesis removed.
func (m *MySQL) DDL(ctx context.Context) (string, error) {
	tables, err := m.Tables(ctx)
	if err != nil {
		return "", err
	}
	stmts := make([]string, 0, len(tables))
	for _, t := range tables {
		var name, create string
		q := "SHOW CREATE TABLE `" + strings.ReplaceAll(t, "`", "``") + "`"
		if err := m.db.QueryRowContext(ctx, q).Scan(&name, &create); err != nil {
			return "", fmt.Errorf("show create table %s: %w", t, err)
		}
		stmts = append(stmts, StripTableOptions(create))
	}
	return joinStatements(stmts), nil
}

// StripTableOptions drops everything after the last closing parenthesis, such
// as ENGINE=InnoDB DEFAULT CHARSET=utf8mb4.
func StripTableOptions(create string) string {
	create = strings.TrimSpace(create)
	if i := strings.LastIndexByte(create, ')'); i >= 0 {
		return create[:i+1]
	}
	return create
}
