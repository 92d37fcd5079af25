// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ddl

import (
	"fmt"
	"regexp"
	"strings"

	herr "harmonizer/cli/internal/errors"
)

var (
	primaryKeyFlag = regexp.MustCompile(`(?i)PRIMARY\s+KEY`)
	notNullFlag    = regexp.MustCompile(`(?i)NOT\s+NULL`)
	uniqueFlag     = regexp.MustCompile(`(?i)UNIQUE`)
	defaultFlag    = regexp.MustCompile(`(?i)DEFAULT`)
)

// ParseColumns parses the text between a table's outer parentheses into its
// column definitions. Table-level constraint clauses are skipped.
func ParseColumns(block string) (cols []ColumnInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			cols = nil
			err = herr.Newf(herr.InternalParseError, "column parsing failed: %v", r)
		}
	}()

	for _, raw := range splitTopLevel(block, ',', true) {
		def := strings.TrimSpace(raw)
		if def == "" || isConstraintClause(def) {
			continue
		}
		col, err := parseColumnDef(def)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// constraintPrefix matches definitions that open with a table-level
// constraint keyword. The match is a plain prefix test, so a column whose
// name begins with KEY, INDEX, CHECK, CONSTRAINT or UNIQUE is skipped too.
var constraintPrefix = regexp.MustCompile(`(?i)^\s*(PRIMARY\s+KEY|FOREIGN\s+KEY|UNIQUE|KEY|INDEX|CONSTRAINT|CHECK)`)

// isConstraintClause reports whether def is a table-level constraint.
func isConstraintClause(def string) bool {
	return constraintPrefix.MatchString(def)
}

// parseColumnDef parses `name type [attributes...]`.
func parseColumnDef(def string) (ColumnInfo, error) {
	name, rest, ok := splitColumnName(def)
	if !ok {
		return ColumnInfo{}, herr.Newf(herr.InvalidColumnDefinition, "invalid column definition: %s", def)
	}
	if !IsIdentifier(name) {
		return ColumnInfo{}, herr.Newf(herr.InvalidColumnName, "invalid column name: %s", name)
	}

	typ, ok := parseTypeSpec(rest)
	if !ok {
		return ColumnInfo{}, herr.Newf(herr.MissingDataType, "data type not found: %s", name)
	}
	if !IsSupportedType(typ.Base) {
		return ColumnInfo{}, herr.Newf(herr.UnsupportedDataType, "unsupported data type: %s", typ.Base)
	}

	return ColumnInfo{
		Name:       name,
		Type:       typ,
		Definition: rest,
		IsPrimary:  primaryKeyFlag.MatchString(rest),
		IsNotNull:  notNullFlag.MatchString(rest),
		IsUnique:   uniqueFlag.MatchString(rest),
		HasDefault: defaultFlag.MatchString(rest),
	}, nil
}

// splitColumnName reads an identifier, optionally wrapped in backticks or
// double quotes, that must be followed by whitespace and a non-empty rest.
// The returned name has its quotes stripped; rest is trimmed.
func splitColumnName(def string) (name, rest string, ok bool) {
	def = strings.TrimLeft(def, " \t\n\r\f\v")
	i := 0
	if i < len(def) && (def[i] == '`' || def[i] == '"') {
		i++
	}
	if i >= len(def) || !isIdentStart(def[i]) {
		return "", "", false
	}
	for i < len(def) && isIdentPart(def[i]) {
		i++
	}
	if i < len(def) && (def[i] == '`' || def[i] == '"') {
		i++
	}
	nameEnd := i
	for i < len(def) && isSpace(def[i]) {
		i++
	}
	if i == nameEnd {
		return "", "", false
	}
	rest = strings.TrimSpace(def[i:])
	if rest == "" {
		return "", "", false
	}
	return stripQuotes(def[:nameEnd]), rest, true
}

// parseTypeSpec reads the leading alphabetic run of a column definition as
// the base type. A '(' directly after it opens a parameter list that is copied
// verbatim up to its matching ')'. A list that never closes is left out.
func parseTypeSpec(rest string) (TypeSpec, bool) {
	i := 0
	for i < len(rest) && isLetter(rest[i]) {
		i++
	}
	if i == 0 {
		return TypeSpec{}, false
	}
	ts := TypeSpec{Base: strings.ToUpper(rest[:i])}
	if i < len(rest) && rest[i] == '(' {
		if end := matchingParen(rest, i); end > 0 {
			ts.Params = rest[i : end+1]
		}
	}
	return ts, true
}

// FormatColumn renders a column as a single line for diagnostics.
func FormatColumn(c ColumnInfo) string {
	var flags []string
	if c.IsPrimary {
		flags = append(flags, "PK")
	}
	if c.IsNotNull {
		flags = append(flags, "NOT NULL")
	}
	if c.IsUnique {
		flags = append(flags, "UNIQUE")
	}
	if c.HasDefault {
		flags = append(flags, "DEFAULT")
	}
	if len(flags) == 0 {
		return fmt.Sprintf("%s %s", c.Name, c.Type)
	}
	return fmt.Sprintf("%s %s [%s]", c.Name, c.Type, strings.Join(flags, ", "))
}
