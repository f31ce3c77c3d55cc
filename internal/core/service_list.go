package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/pmadmin/internal/store"
)

// ListQuery is a request for one page of an entity list.
type ListQuery struct {
	Kind     EntityKind
	Page     int
	PageSize int // 0 uses the configured default
	Sort     SortSpec
	Search   string
}

// ListRow is one rendered row of a list page.
type ListRow struct {
	ID       int64
	Position int64    // 0-based position in the full ordered list
	Cells    []string // Formatted per ListColumn
}

// ListPage is the result of List.
type ListPage struct {
	Definition EntityDefinition
	Paging     PagingInfo
	Decision   PageDecision
	Rows       []ListRow
	Search     string
}

// listSQL holds the pieces shared by the count, page, export and
// navigation queries of one list request.
type listSQL struct {
	def   EntityDefinition
	where string
	args  []any
	next  int
	order string
}

func (s *Service) prepareList(kind EntityKind, sort SortSpec, search string) (listSQL, error) {
	def, ok := Get(kind)
	if !ok {
		return listSQL{}, &Error{Kind: ErrNotFound, Op: "list", Msg: fmt.Sprintf("unknown entity %q", kind)}
	}

	wb := store.NewWhereBuilder(s.db.Dialect())
	wb.AddSearch(search, def.Search)
	where, args := wb.Build()

	return listSQL{
		def:   def,
		where: where,
		args:  args,
		next:  wb.NextIndex(),
		order: sortKeys.OrderBy(kind, sort, def.IDExpr()),
	}, nil
}

func (l listSQL) selectList() string {
	exprs := make([]string, 0, len(l.def.Columns)+1)
	exprs = append(exprs, l.def.IDExpr())
	for _, c := range l.def.Columns {
		exprs = append(exprs, c.Expr)
	}
	return strings.Join(exprs, ", ")
}

func (l listSQL) count(ctx context.Context, q store.Querier) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", l.def.From, l.where)
	var n int64
	if err := q.QueryRow(ctx, query, l.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", l.def.Kind, err)
	}
	return n, nil
}

// pageSize resolves a requested page size against the configuration.
func (s *Service) pageSize(requested int) int {
	size := requested
	if size < 1 {
		size = s.paging.PageSize
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if s.paging.MaxPageSize > 0 && size > s.paging.MaxPageSize {
		size = s.paging.MaxPageSize
	}
	return size
}

// PageOf returns the 1-based page holding the 0-based position for the
// requested page size.
func (s *Service) PageOf(position int64, requested int) int {
	if position < 0 {
		return 1
	}
	return int(position/int64(s.pageSize(requested))) + 1
}

// List computes the page window for lq and, when the page is renderable,
// fetches its rows. For any other decision Rows is empty and the caller
// redirects.
func (s *Service) List(ctx context.Context, lq ListQuery) (ListPage, error) {
	l, err := s.prepareList(lq.Kind, lq.Sort, lq.Search)
	if err != nil {
		return ListPage{}, err
	}

	total, err := l.count(ctx, s.db)
	if err != nil {
		return ListPage{}, classify("list "+string(lq.Kind), err)
	}

	policy := PagingPolicy{
		PageSize:              s.pageSize(lq.PageSize),
		RedirectEmptyToCreate: l.def.RedirectEmptyToCreate || s.paging.EmptyRedirectCreate,
	}
	info, decision := Window(lq.Page, lq.Sort, total, policy)

	page := ListPage{Definition: l.def, Paging: info, Decision: decision, Search: lq.Search}
	if decision != PageRender || total == 0 {
		return page, nil
	}

	d := s.db.Dialect()
	query := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT %s OFFSET %s",
		l.selectList(), l.def.From, l.where, l.order,
		d.Placeholder(l.next), d.Placeholder(l.next+1))
	args := append(append([]any(nil), l.args...), info.Limit(), info.Offset())

	position := info.FirstPosition()
	err = s.scanList(ctx, l, query, args, func(row ListRow) error {
		row.Position = position
		position++
		page.Rows = append(page.Rows, row)
		return nil
	})
	if err != nil {
		return ListPage{}, classify("list "+string(lq.Kind), err)
	}
	return page, nil
}

// StreamList calls fn for every row of the ordered, searched list without
// paging. Used by the CSV export.
func (s *Service) StreamList(ctx context.Context, kind EntityKind, sort SortSpec, search string, fn func(ListRow) error) error {
	l, err := s.prepareList(kind, sort, search)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s%s", l.selectList(), l.def.From, l.where, l.order)
	var position int64
	err = s.scanList(ctx, l, query, l.args, func(row ListRow) error {
		row.Position = position
		position++
		return fn(row)
	})
	if err != nil {
		return classify("export "+string(kind), err)
	}
	return nil
}

func (s *Service) scanList(ctx context.Context, l listSQL, query string, args []any, fn func(ListRow) error) error {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", l.def.Kind, err)
	}
	defer rows.Close()

	values := make([]any, len(l.def.Columns))
	dest := make([]any, len(l.def.Columns)+1)
	for i := range values {
		dest[i+1] = &values[i]
	}

	for rows.Next() {
		var row ListRow
		dest[0] = &row.ID
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan %s: %w", l.def.Kind, err)
		}
		row.Cells = make([]string, len(values))
		for i, v := range values {
			row.Cells[i] = formatCell(v, l.def.Columns[i].Format)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Neighbors finds the records before and after position in the list
// ordered by sort and filtered by search.
func (s *Service) Neighbors(ctx context.Context, kind EntityKind, sort SortSpec, search string, position int64) (Neighbors, error) {
	l, err := s.prepareList(kind, sort, search)
	if err != nil {
		return Neighbors{}, err
	}
	n, err := FindNeighbors(ctx, orderedQuery{q: s.db, l: l}, position)
	if err != nil {
		return Neighbors{}, classify("neighbors "+string(kind), err)
	}
	return n, nil
}

// orderedQuery is the OrderedSource over a list query.
type orderedQuery struct {
	q store.Querier
	l listSQL
}

func (o orderedQuery) Count(ctx context.Context) (int64, error) {
	return o.l.count(ctx, o.q)
}

func (o orderedQuery) IDAt(ctx context.Context, position int64) (int64, error) {
	d := o.q.Dialect()
	query := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT 1 OFFSET %s",
		o.l.def.IDExpr(), o.l.def.From, o.l.where, o.l.order, d.Placeholder(o.l.next))
	args := append(append([]any(nil), o.l.args...), position)

	var id int64
	if err := o.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Counts returns the number of rows of every registered entity kind.
func (s *Service) Counts(ctx context.Context) (map[EntityKind]int64, error) {
	counts := make(map[EntityKind]int64, EntityCount())
	for _, def := range All() {
		l, err := s.prepareList(def.Kind, DefaultSort, "")
		if err != nil {
			return nil, err
		}
		n, err := l.count(ctx, s.db)
		if err != nil {
			return nil, classify("count", err)
		}
		counts[def.Kind] = n
	}
	return counts, nil
}

// formatCell renders a raw list value. Both drivers hand back a small set
// of Go types: int64, float64, string, []byte, time.Time or nil.
func formatCell(v any, format ColumnFormat) string {
	if v == nil {
		return ""
	}

	switch format {
	case ColumnDate:
		switch val := v.(type) {
		case time.Time:
			return DateOf(val).String()
		case string:
			if len(val) > 10 {
				return val[:10]
			}
			return val
		case []byte:
			return formatCell(string(val), format)
		}
	case ColumnMoney:
		if n, ok := toInt64(v); ok {
			return FormatMoney(n)
		}
	case ColumnHours:
		if f, ok := toFloat64(v); ok {
			return FormatHours(f)
		}
	case ColumnCount:
		if n, ok := toInt64(v); ok {
			return strconv.FormatInt(n, 10)
		}
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
