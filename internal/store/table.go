package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Table describes how one entity type maps onto a relational table. The
// primary key column is always "id"; Columns lists the remaining mutable
// columns in the order Values returns them.
type Table[T any] struct {
	Name string

	// Columns are the writable columns, excluding id and version.
	Columns []string

	// ParentColumn names the foreign key to the owning parent, if any.
	ParentColumn string

	// Versioned tables carry a "version" column bumped on every update.
	Versioned bool

	// Scan reads one row laid out as: id, Columns..., [version].
	Scan func(s Scanner) (T, error)

	// Values returns the column values of v in Columns order.
	Values func(v T) []any

	// ID returns the primary key of v.
	ID func(v T) int64
}

func (t *Table[T]) selectList() string {
	cols := make([]string, 0, len(t.Columns)+2)
	cols = append(cols, "id")
	for _, c := range t.Columns {
		cols = append(cols, QuoteIdentifier(c))
	}
	if t.Versioned {
		cols = append(cols, "version")
	}
	return strings.Join(cols, ", ")
}

// Get loads one row by id. Returns ErrNoRows when it does not exist.
func (t *Table[T]) Get(ctx context.Context, q Querier, id int64) (T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s",
		t.selectList(), QuoteIdentifier(t.Name), q.Dialect().Placeholder(1))
	return t.Scan(q.QueryRow(ctx, query, id))
}

// ListByParent loads every row owned by parentID, ordered by id.
func (t *Table[T]) ListByParent(ctx context.Context, q Querier, parentID int64) ([]T, error) {
	if t.ParentColumn == "" {
		return nil, fmt.Errorf("table %s has no parent column", t.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s ORDER BY id",
		t.selectList(), QuoteIdentifier(t.Name), QuoteIdentifier(t.ParentColumn), q.Dialect().Placeholder(1))

	rows, err := q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.Name, err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		v, err := t.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows %s: %w", t.Name, err)
	}
	return result, nil
}

// Insert writes v and returns the id minted by the store.
func (t *Table[T]) Insert(ctx context.Context, q Querier, v T) (int64, error) {
	d := q.Dialect()
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = QuoteIdentifier(c)
		marks[i] = d.Placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		QuoteIdentifier(t.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))

	var id int64
	if err := q.QueryRow(ctx, query, t.Values(v)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert %s: %w", t.Name, err)
	}
	return id, nil
}

// Update overwrites every column of v. Returns the number of rows affected.
func (t *Table[T]) Update(ctx context.Context, q Querier, v T) (int64, error) {
	query, args := t.updateSQL(q.Dialect(), v, 0)
	n, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", t.Name, err)
	}
	return n, nil
}

// UpdateVersion overwrites v only if its stored version still equals version,
// bumping the version on success. Zero rows affected means the row is gone
// or was changed by someone else.
func (t *Table[T]) UpdateVersion(ctx context.Context, q Querier, v T, version int64) (int64, error) {
	if !t.Versioned {
		return 0, fmt.Errorf("table %s is not versioned", t.Name)
	}
	query, args := t.updateSQL(q.Dialect(), v, version)
	n, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", t.Name, err)
	}
	return n, nil
}

func (t *Table[T]) updateSQL(d Dialect, v T, version int64) (string, []any) {
	values := t.Values(v)
	sets := make([]string, 0, len(t.Columns)+1)
	args := make([]any, 0, len(values)+2)
	for i, c := range t.Columns {
		sets = append(sets, fmt.Sprintf("%s = %s", QuoteIdentifier(c), d.Placeholder(i+1)))
		args = append(args, values[i])
	}
	if t.Versioned {
		sets = append(sets, "version = version + 1")
	}

	args = append(args, t.ID(v))
	where := "id = " + d.Placeholder(len(args))
	if version > 0 {
		args = append(args, version)
		where += " AND version = " + d.Placeholder(len(args))
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		QuoteIdentifier(t.Name), strings.Join(sets, ", "), where), args
}

// Delete removes the row with the given id. Returns the number of rows affected.
func (t *Table[T]) Delete(ctx context.Context, q Querier, id int64) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = %s", QuoteIdentifier(t.Name), q.Dialect().Placeholder(1))
	n, err := q.Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", t.Name, err)
	}
	return n, nil
}

// Exists reports whether a row with the given id is present.
func (t *Table[T]) Exists(ctx context.Context, q Querier, id int64) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = %s", QuoteIdentifier(t.Name), q.Dialect().Placeholder(1))
	var one int
	err := q.QueryRow(ctx, query, id).Scan(&one)
	if errors.Is(err, ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", t.Name, err)
	}
	return true, nil
}

// Count returns the number of rows in the table.
func (t *Table[T]) Count(ctx context.Context, q Querier) (int64, error) {
	var n int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+QuoteIdentifier(t.Name)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.Name, err)
	}
	return n, nil
}
