// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

package query

import (
	"strconv"
	"strings"
	"time"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("c.state", "successful")
//	wb.AddNotNull("c.user_id")
//	wb.AddDateRange("c.purchased_at", since, until)
//	whereClause, args := wb.Build()
//	// c.state = ? AND c.user_id IS NOT NULL AND c.purchased_at >= ? AND c.purchased_at < ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?".
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(column+" = ?", value)
}

// AddNotNull adds "column IS NOT NULL" for each column.
func (wb *WhereBuilder) AddNotNull(columns ...string) *WhereBuilder {
	for _, c := range columns {
		wb.clauses = append(wb.clauses, c+" IS NOT NULL")
	}
	return wb
}

// AddDateRange adds a half-open [start, end) filter on column. Nil bounds
// are skipped.
func (wb *WhereBuilder) AddDateRange(column string, start, end *time.Time) *WhereBuilder {
	if start != nil {
		wb.AddClause(column+" >= ?", *start)
	}
	if end != nil {
		wb.AddClause(column+" < ?", *end)
	}
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Rebind rewrites "?" placeholders as "$1", "$2", ... for Postgres.
// Question marks inside single-quoted literals are left alone.
func Rebind(sql string) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)

	n := 0
	inLiteral := false
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case ch == '\'':
			inLiteral = !inLiteral
			b.WriteByte(ch)
		case ch == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// QuoteIdent quotes an SQL identifier, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral quotes an SQL string literal, doubling embedded quotes.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Qualified returns schema.table with both parts quoted. An empty schema
// yields just the quoted table.
func Qualified(schema, table string) string {
	if schema == "" {
		return QuoteIdent(table)
	}
	return QuoteIdent(schema) + "." + QuoteIdent(table)
}
