// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ddl

import (
	"strings"

	herr "harmonizer/cli/internal/errors"
)

// IsIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

// stripQuotes removes every backtick and double quote from an identifier.
func stripQuotes(s string) string {
	return strings.NewReplacer("`", "", `"`, "").Replace(s)
}

// tableHeader is the result of the createTable header production.
type tableHeader struct {
	name  string
	open  int // offset of the '(' that opens the column block
	found bool
}

// parseHeader matches CREATE TABLE [IF NOT EXISTS] name '(' at the start of stmt.
// Whitespace is required after TABLE and after EXISTS and optional before '('.
func parseHeader(stmt string) tableHeader {
	lx := newLexer(stmt)
	toks := lx.peek(7)
	at := func(i int) token {
		if i < len(toks) {
			return toks[i]
		}
		return token{kind: tokEOF}
	}
	gapAfter := func(i int) bool { return at(i+1).pos > at(i).end }

	if !at(0).is("CREATE") || !at(1).is("TABLE") || !gapAfter(1) {
		return tableHeader{}
	}
	i := 2
	if at(2).is("IF") && at(3).is("NOT") && at(4).is("EXISTS") {
		if !gapAfter(4) {
			return tableHeader{}
		}
		i = 5
	}
	name, open := at(i), at(i+1)
	if name.kind != tokWord || !open.punct('(') {
		return tableHeader{}
	}
	return tableHeader{name: stripQuotes(name.text), open: open.pos, found: true}
}

// columnBlock returns the text between the '(' at open and the final ')' of
// stmt. The ')' may only be followed by whitespace and one optional ';'.
func columnBlock(stmt string, open int) (string, bool) {
	end := strings.TrimRight(stmt, " \t\n\r\f\v")
	end = strings.TrimSuffix(end, ";")
	end = strings.TrimRight(end, " \t\n\r\f\v")
	if len(end) <= open+1 || end[len(end)-1] != ')' {
		return "", false
	}
	return end[open+1 : len(end)-1], true
}

// ParseTable parses a single CREATE TABLE statement.
//
// Parenthesis balance is a raw count over the whole statement, so parentheses
// inside string literals take part in it.
func ParseTable(stmt string) (*TableInfo, error) {
	stmt = strings.TrimSpace(stmt)
	if Classify(stmt) != StatementCreateTable {
		return nil, herr.New(herr.InvalidTableName, "not a CREATE TABLE statement")
	}

	hdr := parseHeader(stmt)
	if !hdr.found {
		return nil, herr.New(herr.InvalidTableName, "table name not found")
	}
	if !IsIdentifier(hdr.name) {
		return nil, herr.Newf(herr.InvalidTableName,
			"invalid table name: %s (only letters, digits and underscores are allowed)", hdr.name)
	}

	if strings.Count(stmt, "(") != strings.Count(stmt, ")") {
		return nil, herr.New(herr.UnbalancedParentheses, "parentheses are not balanced")
	}

	block, ok := columnBlock(stmt, hdr.open)
	if !ok {
		return nil, herr.New(herr.MissingColumnBlock, "column definitions not found")
	}
	block = strings.TrimSpace(block)
	if block == "" {
		return nil, herr.New(herr.EmptyColumnBlock, "column definitions are empty")
	}

	cols, err := ParseColumns(block)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, herr.New(herr.EmptyColumnBlock, "at least one column required")
	}

	if dups := duplicates(cols, func(c ColumnInfo) string { return c.Name }); len(dups) > 0 {
		return nil, herr.New(herr.DuplicateColumnName, "duplicate column names: "+strings.Join(dups, ", "))
	}

	return &TableInfo{TableName: hdr.name, Columns: cols}, nil
}

// duplicates returns the lower-cased keys that occur more than once, each
// reported once, in order of their second occurrence.
func duplicates[T any](items []T, key func(T) string) []string {
	seen := make(map[string]int, len(items))
	var out []string
	for _, it := range items {
		k := strings.ToLower(key(it))
		seen[k]++
		if seen[k] == 2 {
			out = append(out, k)
		}
	}
	return out
}
