// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ddl

import (
	"regexp"
	"strings"
)

// lineComment is the comment marker; everything after it on a line is dropped.
const lineComment = "--"

// SplitStatements turns raw SQL text into an ordered list of trimmed,
// non-empty statements with line comments removed.
//
// The comment marker is matched anywhere on a line, including inside string
// literals. Statement delimiters are matched only outside quotes, unless a
// quote is still open at the end of the text (typically one cut short by the
// comment marker); then every ';' ends a statement.
func SplitStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, lineComment); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	text := strings.Join(lines, "\n")

	pieces, balanced := splitStatementText(text)
	if !balanced {
		pieces = strings.Split(text, ";")
	}

	var out []string
	for _, piece := range pieces {
		if stmt := strings.TrimSpace(piece); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// splitStatementText splits text at ';' outside quotes and reports whether
// the scan ended outside any quote.
func splitStatementText(text string) ([]string, bool) {
	var (
		sc    scanner
		parts []string
		start int
	)
	for i := 0; i < len(text); i++ {
		if sc.step(text[i], false) && text[i] == ';' {
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:]), sc.state == stateNormal
}

// StatementKind is the classification of a single statement.
type StatementKind int

const (
	// StatementOther is any statement that is neither a table nor an index definition.
	StatementOther StatementKind = iota
	// StatementCreateTable is a CREATE TABLE statement.
	StatementCreateTable
	// StatementCreateIndex is a CREATE INDEX statement.
	StatementCreateIndex
)

func (k StatementKind) String() string {
	switch k {
	case StatementCreateTable:
		return "create_table"
	case StatementCreateIndex:
		return "create_index"
	default:
		return "other"
	}
}

var (
	createTablePrefix = regexp.MustCompile(`(?i)^\s*CREATE\s+TABLE\s+`)
	createIndexPrefix = regexp.MustCompile(`(?i)^\s*CREATE\s+INDEX\s+`)
)

// Classify returns the kind of a single statement by its leading keywords.
func Classify(stmt string) StatementKind {
	switch {
	case createTablePrefix.MatchString(stmt):
		return StatementCreateTable
	case createIndexPrefix.MatchString(stmt):
		return StatementCreateIndex
	default:
		return StatementOther
	}
}

// Classified groups statements by kind, preserving input order within a group.
type Classified struct {
	Tables  []string
	Indexes []string
	Ignored []string
}

// ClassifyAll groups a statement list into tables, indexes and ignored statements.
func ClassifyAll(stmts []string) Classified {
	var c Classified
	for _, s := range stmts {
		switch Classify(s) {
		case StatementCreateTable:
			c.Tables = append(c.Tables, s)
		case StatementCreateIndex:
			c.Indexes = append(c.Indexes, s)
		default:
			c.Ignored = append(c.Ignored, s)
		}
	}
	return c
}
