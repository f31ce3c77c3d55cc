// Package store defines the data-access boundary used by the core package.
//
// Two adapters implement it: store/postgres (pgx connection pool, production)
// and store/sqlite (modernc.org/sqlite, embedded development mode and tests).
// Both run SQL built by [Table] and [WhereBuilder]; the only dialect-specific
// detail the builders need is the bind placeholder syntax.
package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNoRows is returned by Row.Scan when a query selected nothing.
var ErrNoRows = errors.New("store: no rows in result set")

// ErrConflict marks writes rejected by a constraint or by a concurrently
// committed transaction (unique/foreign key violations, serialization failures).
var ErrConflict = errors.New("store: write conflict")

// Dialect identifies the SQL flavour spoken by a backend.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// Placeholder returns the bind parameter marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Scanner is satisfied by both Row and Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Row is the result of QueryRow.
type Row interface {
	Scanner
}

// Rows is a forward-only cursor. Close must be called when done.
type Rows interface {
	Scanner
	Next() bool
	Err() error
	Close()
}

// Querier runs statements. It is satisfied by the pooled DB and by the
// transaction handed to InTx callbacks.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Dialect() Dialect
}

// DB is a pooled connection that can open a unit of work.
type DB interface {
	Querier

	// InTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise. fn must use only the Querier it
	// is given.
	InTx(ctx context.Context, fn func(q Querier) error) error

	Ping(ctx context.Context) error
	Close()
}

// ConflictError wraps a driver error classified as a write conflict.
type ConflictError struct {
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	if e.Constraint != "" {
		return "conflict on " + e.Constraint + ": " + e.Err.Error()
	}
	return "conflict: " + e.Err.Error()
}

func (e *ConflictError) Unwrap() error { return e.Err }

// Is reports ErrConflict as a match so callers can use errors.Is.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// QuoteIdentifier quotes a SQL identifier. Both dialects accept double quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Time scans timestamps from either backend. pgx yields time.Time; SQLite
// may hand back text when the declared column type is not recognised.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Scan implements sql.Scanner.
func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return errors.New("store: unsupported time value")
	}
}

func (t *Time) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return errors.New("store: unparseable time " + strconv.Quote(s))
}
