// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ddl

import (
	"strings"

	herr "harmonizer/cli/internal/errors"
)

// Validate checks a SQL script and returns the parsed tables, or the first
// error found. It is a pure function and is safe for concurrent use.
//
// Tables are parsed in script order; a table name repeated (ignoring case)
// fails the whole script, as does any table that fails to parse.
func Validate(sql string) (*Result, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, herr.New(herr.EmptyInput, "SQL query is empty")
	}

	groups := ClassifyAll(SplitStatements(sql))
	if len(groups.Tables) == 0 {
		return nil, herr.New(herr.NoCreateTableFound, "no CREATE TABLE statement found")
	}

	res := &Result{IndexCount: len(groups.Indexes)}
	seen := make(map[string]struct{}, len(groups.Tables))
	for _, stmt := range groups.Tables {
		tbl, err := ParseTable(stmt)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(tbl.TableName)
		if _, dup := seen[key]; dup {
			return nil, herr.New(herr.DuplicateTableName, "duplicate table names: "+key)
		}
		seen[key] = struct{}{}

		res.Tables = append(res.Tables, *tbl)
		res.TotalColumns += len(tbl.Columns)
	}
	res.TableCount = len(res.Tables)
	res.Message = summarize(res.TableCount, res.IndexCount, res.TotalColumns)
	return res, nil
}
