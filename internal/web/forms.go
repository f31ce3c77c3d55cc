package web

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/JonMunkholm/pmadmin/internal/core/reconcile"
	"github.com/JonMunkholm/pmadmin/internal/web/templates"
	"github.com/google/uuid"
)

// blankRows is the number of empty child rows offered on every form.
const blankRows = 2

// newRowPrefix marks client-side keys of rows that do not exist yet.
const newRowPrefix = "new-"

var childKeyRegex = regexp.MustCompile(`^children\[(\d+)\]\.([a-z_]+)$`)

// formData is a form in its string representation, either loaded from a
// record or as posted by the browser.
type formData struct {
	ID      int64
	Version int64
	Values  map[string]string
	Rows    []templates.Row
}

// newRowKey returns a fresh client key for an unsaved row.
func newRowKey() string {
	return newRowPrefix + uuid.NewString()
}

// withBlankRows returns rows followed by n empty rows.
func withBlankRows(rows []templates.Row, n int) []templates.Row {
	out := append([]templates.Row(nil), rows...)
	for i := 0; i < n; i++ {
		out = append(out, templates.Row{Key: newRowKey(), Values: map[string]string{}})
	}
	return out
}

// parseForm reads the parent fields and the indexed child rows of a posted
// form. Rows marked remove are dropped, as are new rows left blank.
func parseForm(r *http.Request, fields, childFields []templates.Field) (formData, error) {
	if err := r.ParseForm(); err != nil {
		return formData{}, fmt.Errorf("parse form: %w", err)
	}

	fd := formData{Values: make(map[string]string, len(fields))}
	for _, f := range fields {
		fd.Values[f.Name] = strings.TrimSpace(r.PostForm.Get(f.Name))
	}
	if len(childFields) > 0 {
		fd.Rows = parseChildRows(r.PostForm, childFields)
	}

	// The values are returned with a version error so the form can be
	// shown again as submitted.
	if v := strings.TrimSpace(r.PostForm.Get("version")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return fd, core.ValidationFailed("parse form",
				core.ValidationError{Field: "version", Value: v, Message: "invalid version"})
		}
		fd.Version = n
	}
	return fd, nil
}

func parseChildRows(form url.Values, childFields []templates.Field) []templates.Row {
	type posted struct {
		row    templates.Row
		remove bool
	}
	byIndex := make(map[int]*posted)

	allowed := make(map[string]bool, len(childFields))
	for _, f := range childFields {
		allowed[f.Name] = true
	}

	for key, vals := range form {
		m := childKeyRegex.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		p, ok := byIndex[idx]
		if !ok {
			p = &posted{row: templates.Row{Values: map[string]string{}}}
			byIndex[idx] = p
		}

		value := strings.TrimSpace(vals[0])
		switch name := m[2]; {
		case name == "id":
			p.row.Key = value
		case name == "remove":
			p.remove = value != "" && value != "0" && value != "false"
		case allowed[name]:
			p.row.Values[name] = value
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	var rows []templates.Row
	for _, idx := range indexes {
		p := byIndex[idx]
		if p.remove {
			continue
		}
		if isNewKey(p.row.Key) && isBlank(p.row.Values) {
			continue
		}
		rows = append(rows, p.row)
	}
	return rows
}

func isBlank(values map[string]string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

// isNewKey reports whether key names a row that does not exist yet.
func isNewKey(key string) bool {
	id, insert, err := rowID(key)
	return err == nil && (insert || id == 0)
}

// rowID interprets a posted row key. Empty keys, zero or negative numbers
// and "new-<uuid>" keys are inserts; positive numbers refer to stored rows.
func rowID(key string) (int64, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, true, nil
	}
	if rest, ok := strings.CutPrefix(key, newRowPrefix); ok {
		if _, err := uuid.Parse(rest); err != nil {
			return 0, false, fmt.Errorf("invalid row key %q", key)
		}
		return 0, true, nil
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid row key %q", key)
	}
	if id <= 0 {
		return 0, true, nil
	}
	return id, false, nil
}

// childOps converts posted rows to reconciler operations. Row numbers in
// the returned problems are 1-based positions among the submitted rows.
func childOps[F comparable](rows []templates.Row, parse func(p *fieldParser, values map[string]string) F) ([]reconcile.ChildOp[F], []core.ValidationError) {
	ops := make([]reconcile.ChildOp[F], 0, len(rows))
	var problems []core.ValidationError

	for i, row := range rows {
		p := &fieldParser{row: i + 1}
		fields := parse(p, row.Values)

		id, insert, err := rowID(row.Key)
		if err != nil {
			p.errs = append(p.errs, core.ValidationError{Row: i + 1, Field: "id", Value: row.Key, Message: "invalid row id"})
		}
		problems = append(problems, p.errs...)

		if insert {
			ops = append(ops, reconcile.Insert(fields))
		} else {
			ops = append(ops, reconcile.Keep(id, fields))
		}
	}
	return ops, problems
}

// fieldParser converts form strings to typed values and collects every
// problem instead of stopping at the first.
type fieldParser struct {
	row  int
	errs []core.ValidationError
}

func (p *fieldParser) fail(field, value string, err error) {
	p.errs = append(p.errs, core.ValidationError{Row: p.row, Field: field, Value: value, Message: err.Error()})
}

func (p *fieldParser) date(field, value string) core.Date {
	d, err := core.ParseDate(value)
	if err != nil {
		p.fail(field, value, err)
	}
	return d
}

func (p *fieldParser) money(field, value string) int64 {
	n, err := core.ParseMoney(value)
	if err != nil {
		p.fail(field, value, err)
	}
	return n
}

func (p *fieldParser) hours(field, value string) float64 {
	h, err := core.ParseHours(value)
	if err != nil {
		p.fail(field, value, err)
	}
	return h
}

func (p *fieldParser) ref(field, value string) int64 {
	id, err := core.ParseID(value)
	if err != nil {
		p.fail(field, value, err)
	}
	return id
}
