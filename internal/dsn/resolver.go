// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"strings"
)

// resolvers holds one resolver per supported database type.
var resolvers = map[DBType]Resolver{
	DBTypePostgreSQL: NewPostgreSQLResolver(),
	DBTypeMySQL:      NewMySQLResolver(),
}

// DetectDBType detects the database type from a DSN string.
// Native go-sql-driver DSNs such as user:pass@tcp(host:3306)/db are MySQL.
func DetectDBType(dsn string) DBType {
	lower := strings.ToLower(strings.TrimSpace(dsn))

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DBTypePostgreSQL
	case strings.HasPrefix(lower, "mysql://"):
		return DBTypeMySQL
	case !strings.Contains(lower, "://") && (strings.Contains(lower, "@tcp(") || strings.Contains(lower, "@unix(")):
		return DBTypeMySQL
	}
	return DBTypeUnknown
}

func resolverFor(dsn string) (Resolver, error) {
	if dsn == "" {
		return nil, NewParseError(dsn, "empty DSN", "provide a valid database connection string")
	}
	r, ok := resolvers[DetectDBType(dsn)]
	if !ok {
		return nil, NewParseError(dsn, "unknown database type", "use postgres://, mysql:// or user:pass@tcp(host:3306)/db")
	}
	return r, nil
}

// Parse parses a DSN string and returns the normalized connection string.
// This is the main entry point for DSN parsing
func Parse(dsn string) (string, error) {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return "", err
	}
	info, err := resolver.Parse(dsn)
	if err != nil {
		return "", err
	}
	return resolver.Normalize(info)
}

// Validate validates a DSN string without normalizing it
func Validate(dsn string) error {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return err
	}
	return resolver.Validate(dsn)
}

// ParseInfo parses a DSN string and returns detailed DSN info
// Useful for inspecting connection details
func ParseInfo(dsn string) (*DSNInfo, error) {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return nil, err
	}
	return resolver.Parse(dsn)
}

// Redact returns dsn with its password replaced by ***.
// Unparseable input is returned with everything before the last @ masked.
func Redact(dsn string) string {
	info, err := ParseInfo(dsn)
	if err != nil || info.Password == "" {
		if at := strings.LastIndex(dsn, "@"); err != nil && at > 0 {
			if scheme := strings.Index(dsn, "://"); scheme >= 0 && scheme < at {
				return dsn[:scheme+3] + "***" + dsn[at:]
			}
			return "***" + dsn[at:]
		}
		return dsn
	}
	info.Password = "***"
	out, nerr := resolvers[info.Type].Normalize(info)
	if nerr != nil {
		return "***"
	}
	return strings.Replace(out, "%2A%2A%2A", "***", 1)
}
