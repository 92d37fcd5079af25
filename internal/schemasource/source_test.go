// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package schemasource

import (
	"context"
	"errors"
	"testing"

	"harmonizer/cli/internal/ddl"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersCreate = "CREATE TABLE `users` (\n" +
	"  `id` int NOT NULL AUTO_INCREMENT,\n" +
	"  `email` varchar(255) NOT NULL,\n" +
	"  `created_at` datetime DEFAULT CURRENT_TIMESTAMP,\n" +
	"  PRIMARY KEY (`id`),\n" +
	"  UNIQUE KEY `email` (`email`)\n" +
	") ENGINE=InnoDB AUTO_INCREMENT=42 DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_0900_ai_ci"

const ordersCreate = "CREATE TABLE `orders` (\n" +
	"  `id` bigint NOT NULL,\n" +
	"  `user_id` int NOT NULL,\n" +
	"  `total` decimal(10,2) DEFAULT NULL,\n" +
	"  PRIMARY KEY (`id`),\n" +
	"  KEY `user_id` (`user_id`),\n" +
	"  CONSTRAINT `orders_ibfk_1` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`)\n" +
	") ENGINE=InnoDB"

func newMock(t *testing.T) (*MySQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMySQL(db), mock
}

func TestMySQLDDL(t *testing.T) {
	src, mock := newMock(t)
	mock.ExpectQuery("SHOW FULL TABLES WHERE Table_type = 'BASE TABLE'").
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_shop", "Table_type"}).
			AddRow("orders", "BASE TABLE").
			AddRow("users", "BASE TABLE"))
	mock.ExpectQuery("SHOW CREATE TABLE `orders`").
		WillReturnRows(sqlmock.NewRows([]string{"Table", "Create Table"}).AddRow("orders", ordersCreate))
	mock.ExpectQuery("SHOW CREATE TABLE `users`").
		WillReturnRows(sqlmock.NewRows([]string{"Table", "Create Table"}).AddRow("users", usersCreate))

	out, err := src.DDL(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.NotContains(t, out, "ENGINE=")

	res, err := ddl.Validate(out)
	require.NoError(t, err, out)
	assert.Equal(t, 2, res.TableCount)
	assert.Equal(t, "orders", res.Tables[0].TableName)
	assert.Equal(t, 3, len(res.Tables[0].Columns))
	assert.Equal(t, "decimal(10,2) DEFAULT NULL", res.Tables[0].Columns[2].Definition)
}

func TestMySQLDDLQueryError(t *testing.T) {
	src, mock := newMock(t)
	mock.ExpectQuery("SHOW FULL TABLES WHERE Table_type = 'BASE TABLE'").
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_shop", "Table_type"}).AddRow("a`b", "BASE TABLE"))
	mock.ExpectQuery("SHOW CREATE TABLE `a``b`").WillReturnError(errors.New("access denied"))

	_, err := src.DDL(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "show create table a`b: access denied")
}

func TestMySQLEmpty(t *testing.T) {
	src, mock := newMock(t)
	mock.ExpectQuery("SHOW FULL TABLES WHERE Table_type = 'BASE TABLE'").
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_shop", "Table_type"}))

	out, err := src.DDL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestStripTableOptions(t *testing.T) {
	assert.Equal(t, "CREATE TABLE t (a INT)", StripTableOptions("CREATE TABLE t (a INT) ENGINE=InnoDB\n"))
	assert.Equal(t, "no parens", StripTableOptions(" no parens "))
}

func int32p(v int32) *int32 { return &v }
func strp(v string) *string { return &v }

func TestRenderPostgres(t *testing.T) {
	cols := []Column{
		{Table: "accounts", Name: "id", DataType: "integer", Default: strp("nextval('accounts_id_seq'::regclass)")},
		{Table: "accounts", Name: "handle", DataType: "character varying", MaxLength: int32p(64)},
		{Table: "accounts", Name: "status", DataType: "text", Nullable: true, Default: strp("'active'::text")},
		{Table: "accounts", Name: "balance", DataType: "numeric", Precision: int32p(12), Scale: int32p(2), Nullable: true},
		{Table: "accounts", Name: "ref", DataType: "uuid", Nullable: true},
		{Table: "events", Name: "at", DataType: "timestamp with time zone", Default: strp("now()")},
		{Table: "events", Name: "payload", DataType: "jsonb", Nullable: true},
	}
	out := RenderPostgres(cols, map[string][]string{"accounts": {"id"}})

	assert.Equal(t, "CREATE TABLE accounts (\n"+
		"  id INTEGER NOT NULL,\n"+
		"  handle VARCHAR(64) NOT NULL,\n"+
		"  status TEXT DEFAULT 'active'::text,\n"+
		"  balance NUMERIC(12,2),\n"+
		"  ref CHAR(36),\n"+
		"  PRIMARY KEY (id)\n"+
		");\n\n"+
		"CREATE TABLE events (\n"+
		"  at TIMESTAMP NOT NULL DEFAULT now(),\n"+
		"  payload JSON\n"+
		");\n", out)

	res, err := ddl.Validate(out)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TableCount)
	assert.Equal(t, 7, res.TotalColumns)
	assert.True(t, res.Tables[0].Columns[2].HasDefault)
}

func TestPgTypeFallback(t *testing.T) {
	assert.Equal(t, "USER-DEFINED", pgType(Column{DataType: "USER-DEFINED"}))
	assert.Equal(t, "INTERVAL", pgType(Column{DataType: "interval"}))
	assert.Equal(t, "VARCHAR", pgType(Column{DataType: "character varying"}))
}

func TestOpenRejectsUnknownDSN(t *testing.T) {
	_, err := Open(context.Background(), "mongodb://h/db", "")
	assert.Error(t, err)
}
