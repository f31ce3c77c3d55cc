package store

import (
	"fmt"
	"strings"
)

// WhereBuilder accumulates AND-joined conditions with dialect-correct
// placeholders. Start it at a later argument index when other arguments
// precede the WHERE clause.
type WhereBuilder struct {
	dialect    Dialect
	conditions []string
	args       []any
	argIndex   int
}

// NewWhereBuilder returns an empty builder whose first placeholder is 1.
func NewWhereBuilder(d Dialect) *WhereBuilder {
	return &WhereBuilder{dialect: d, argIndex: 1}
}

func (wb *WhereBuilder) next() string {
	p := wb.dialect.Placeholder(wb.argIndex)
	wb.argIndex++
	return p
}

// Add appends "expr = value".
func (wb *WhereBuilder) Add(expr string, value any) {
	wb.conditions = append(wb.conditions, fmt.Sprintf("%s = %s", expr, wb.next()))
	wb.args = append(wb.args, value)
}

// AddSearch matches term case-insensitively against any of exprs. A blank
// term or an empty expression list adds nothing.
func (wb *WhereBuilder) AddSearch(term string, exprs []string) {
	term = strings.TrimSpace(term)
	if term == "" || len(exprs) == 0 {
		return
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	parts := make([]string, len(exprs))
	for i, expr := range exprs {
		parts[i] = fmt.Sprintf("LOWER(COALESCE(CAST(%s AS TEXT), '')) LIKE %s ESCAPE '\\'", expr, wb.next())
		wb.args = append(wb.args, pattern)
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(parts, " OR ")+")")
}

// Build returns " WHERE ..." (leading space) and its arguments, or "" and nil
// when no condition was added.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

// NextIndex is the placeholder index the next argument appended after the
// WHERE clause should use.
func (wb *WhereBuilder) NextIndex() int {
	return wb.argIndex
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
