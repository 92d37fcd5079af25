// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package schemasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Column is one row of information_schema.columns. The information_schema
// domains are cast to plain text and int in the query.
type Column struct {
	Table     string
	Name      string
	DataType  string
	MaxLength *int32
	Precision *int32
	Scale     *int32
	Nullable  bool
	Default   *string
}

// Postgres rebuilds CREATE TABLE statements from information_schema.
type Postgres struct {
	pool   *pgxpool.Pool
	schema string
}

// NewPostgres wraps a pool. schema defaults to public.
func NewPostgres(pool *pgxpool.Pool, schema string) *Postgres {
	if strings.TrimSpace(schema) == "" {
		schema = "public"
	}
	return &Postgres{pool: pool, schema: schema}
}

// Ping verifies the connection.
func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

// Close closes the pool.
func (p *Postgres) Close() { p.pool.Close() }

// Tables lists base tables of the schema.
func (p *Postgres) Tables(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT table_name::text
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, p.schema)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// DDL returns a CREATE TABLE statement per table including primary keys.
func (p *Postgres) DDL(ctx context.Context) (string, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT c.table_name::text, c.column_name::text, c.data_type::text,
		       c.character_maximum_length::int, c.numeric_precision::int, c.numeric_scale::int,
		       c.is_nullable = 'YES', c.column_default::text
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position`, p.schema)
	if err != nil {
		return "", fmt.Errorf("load columns: %w", err)
	}
	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Column, error) {
		var c Column
		err := row.Scan(&c.Table, &c.Name, &c.DataType, &c.MaxLength, &c.Precision, &c.Scale, &c.Nullable, &c.Default)
		return c, err
	})
	if err != nil {
		return "", fmt.Errorf("load columns: %w", err)
	}

	pkRows, err := conn.Query(ctx, `
		SELECT kc.table_name::text, kc.column_name::text
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kc
		  ON tc.constraint_name = kc.constraint_name AND tc.table_schema = kc.table_schema
		WHERE tc.table_schema = $1 AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kc.table_name, kc.ordinal_position`, p.schema)
	if err != nil {
		return "", fmt.Errorf("load primary keys: %w", err)
	}
	primary := map[string][]string{}
	var table, column string
	_, err = pgx.ForEachRow(pkRows, []any{&table, &column}, func() error {
		primary[table] = append(primary[table], column)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("load primary keys: %w", err)
	}
	return RenderPostgres(cols, primary), nil
}

// RenderPostgres builds CREATE TABLE statements from columns ordered by table
// and position. primary maps a table to its primary key columns.
func RenderPostgres(cols []Column, primary map[string][]string) string {
	var stmts []string
	for start := 0; start < len(cols); {
		end := start
		for end < len(cols) && cols[end].Table == cols[start].Table {
			end++
		}
		stmts = append(stmts, renderTable(cols[start].Table, cols[start:end], primary[cols[start].Table]))
		start = end
	}
	return joinStatements(stmts)
}

func renderTable(name string, cols []Column, pk []string) string {
	lines := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		line := "  " + c.Name + " " + pgType(c)
		if !c.Nullable {
			line += " NOT NULL"
		}
		if c.Default != nil && !strings.HasPrefix(*c.Default, "nextval(") {
			line += " DEFAULT " + *c.Default
		}
		lines = append(lines, line)
	}
	if len(pk) > 0 {
		lines = append(lines, "  PRIMARY KEY ("+strings.Join(pk, ", ")+")")
	}
	return "CREATE TABLE " + name + " (\n" + strings.Join(lines, ",\n") + "\n)"
}

// pgType maps an information_schema data type onto an accepted type name.
func pgType(c Column) string {
	withLen := func(base string) string {
		if c.MaxLength != nil {
			return fmt.Sprintf("%s(%d)", base, *c.MaxLength)
		}
		return base
	}
	switch c.DataType {
	case "character varying":
		return withLen("VARCHAR")
	case "character":
		return withLen("CHAR")
	case "text", "citext", "xml":
		return "TEXT"
	case "integer":
		return "INTEGER"
	case "bigint":
		return "BIGINT"
	case "smallint":
		return "SMALLINT"
	case "numeric":
		if c.Precision != nil && c.Scale != nil {
			return fmt.Sprintf("NUMERIC(%d,%d)", *c.Precision, *c.Scale)
		}
		return "NUMERIC"
	case "real":
		return "REAL"
	case "double precision":
		return "DOUBLE"
	case "boolean":
		return "BOOLEAN"
	case "date":
		return "DATE"
	case "time without time zone", "time with time zone":
		return "TIME"
	case "timestamp without time zone", "timestamp with time zone":
		return "TIMESTAMP"
	case "json", "jsonb":
		return "JSON"
	case "uuid":
		return "CHAR(36)"
	case "bytea":
		return "BLOB"
	case "bit", "bit varying":
		return "BIT"
	}
	return strings.ToUpper(strings.ReplaceAll(c.DataType, " ", "_"))
}
