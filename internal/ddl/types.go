// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ddl validates SQL CREATE TABLE scripts and extracts table and column
// metadata from them. It accepts a permissive, MySQL-flavoured subset of DDL:
// CREATE TABLE statements are parsed, CREATE INDEX statements are counted, and
// every other statement is ignored.
//
// Parsing runs in four stages, each a pure function of its input: the statement
// splitter, the statement classifier, the table parser and the column parser.
// Validation is fail-fast; the first error wins and no partial result is returned.
package ddl

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// supportedTypes is the closed set of accepted base type names.
var supportedTypes = map[string]struct{}{
	"INT": {}, "INTEGER": {}, "BIGINT": {}, "SMALLINT": {}, "TINYINT": {}, "MEDIUMINT": {},
	"VARCHAR": {}, "CHAR": {}, "TEXT": {}, "LONGTEXT": {}, "MEDIUMTEXT": {}, "TINYTEXT": {},
	"DECIMAL": {}, "NUMERIC": {}, "FLOAT": {}, "DOUBLE": {}, "REAL": {},
	"DATE": {}, "TIME": {}, "DATETIME": {}, "TIMESTAMP": {}, "YEAR": {},
	"BOOLEAN": {}, "BOOL": {}, "BIT": {},
	"BLOB": {}, "LONGBLOB": {}, "MEDIUMBLOB": {}, "TINYBLOB": {},
	"JSON": {}, "ENUM": {}, "SET": {},
}

// IsSupportedType reports whether base (case-insensitive) is an accepted type name.
func IsSupportedType(base string) bool {
	_, ok := supportedTypes[strings.ToUpper(base)]
	return ok
}

// TypeSpec is a column data type: an upper-cased base name plus its parameter
// list copied verbatim, parentheses included (e.g. "(10,2)"). Params is empty
// when the type has no parameter list.
type TypeSpec struct {
	Base   string
	Params string
}

// String returns the type as written in the column list, e.g. DECIMAL(10,2).
func (t TypeSpec) String() string { return t.Base + t.Params }

// MarshalText encodes the type as its string form.
func (t TypeSpec) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// MarshalYAML encodes the type as its string form.
func (t TypeSpec) MarshalYAML() (any, error) { return t.String(), nil }

// UnmarshalText decodes the string form. Everything from the first '(' on is
// the parameter list.
func (t *TypeSpec) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '('); i >= 0 {
		*t = TypeSpec{Base: strings.ToUpper(s[:i]), Params: s[i:]}
		return nil
	}
	*t = TypeSpec{Base: strings.ToUpper(s)}
	return nil
}

// UnmarshalYAML decodes the string form from a scalar node.
func (t *TypeSpec) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// ColumnInfo describes one column definition. The four flags are independent
// case-insensitive tests over Definition and may all be true at once.
type ColumnInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Type       TypeSpec `json:"type" yaml:"type"`
	Definition string   `json:"definition" yaml:"definition"`
	IsPrimary  bool     `json:"isPrimary" yaml:"isPrimary"`
	IsNotNull  bool     `json:"isNotNull" yaml:"isNotNull"`
	IsUnique   bool     `json:"isUnique" yaml:"isUnique"`
	HasDefault bool     `json:"hasDefault" yaml:"hasDefault"`
}

// TableInfo is a parsed CREATE TABLE statement. Columns is never empty and its
// names are unique ignoring case.
type TableInfo struct {
	TableName string       `json:"tableName" yaml:"tableName"`
	Columns   []ColumnInfo `json:"columns" yaml:"columns"`
}

// Summary returns the per-table success message.
func (t TableInfo) Summary() string {
	return fmt.Sprintf("valid CREATE TABLE statement. table: %s, columns: %d", t.TableName, len(t.Columns))
}

// PrimaryKeys returns the names of columns flagged as primary keys.
func (t TableInfo) PrimaryKeys() []string {
	var out []string
	for _, c := range t.Columns {
		if c.IsPrimary {
			out = append(out, c.Name)
		}
	}
	return out
}

// Result is the outcome of a successful validation.
type Result struct {
	Tables       []TableInfo
	TableCount   int
	IndexCount   int
	TotalColumns int
	Message      string
}

// summarize builds the script-level success message.
func summarize(tables, indexes, columns int) string {
	return fmt.Sprintf("valid SQL. tables: %d, indexes: %d, columns: %d", tables, indexes, columns)
}
