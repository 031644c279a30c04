package database

import (
	"strings"
)

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
//
// Example:
//
//	input:    "SELECT text FROM translations WHERE locale = ? AND text_key = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT text FROM translations WHERE locale = $1 AND text_key = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1
	inQuote := false

	for i := 0; i < len(query); i++ {
		switch c := query[i]; {
		case c == '\'':
			inQuote = !inQuote
			result.WriteByte(c)
		case c == '?' && !inQuote:
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		default:
			result.WriteByte(c)
		}
	}

	return result.String()
}
