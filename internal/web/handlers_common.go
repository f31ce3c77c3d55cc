package web

// Shared utilities used across handlers.

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/JonMunkholm/pmadmin/internal/logging"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// pagerWidth is the number of page links shown around the current page.
const pagerWidth = 7

// auditLimit is the number of audit entries shown on a detail page.
const auditLimit = 20

// listState is the list view a request came from or links to: page, sort
// and search, carried through the query string as page, sort, asc and q.
type listState struct {
	Page     int
	PageSize int
	Sort     core.SortSpec
	Search   string
}

// parseListState reads list parameters from the query string. A missing
// page is page 1; an unparseable one becomes 0 so the list redirects to
// page 1.
func parseListState(r *http.Request) listState {
	q := r.URL.Query()
	st := listState{
		Page:     1,
		PageSize: parseIntParam(r, "size", 0),
		Sort:     parseSort(r),
		Search:   strings.TrimSpace(q.Get("q")),
	}
	if v := q.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			p = 0
		}
		st.Page = p
	}
	return st
}

// values returns st as query parameters, leaving defaults out.
func (st listState) values() url.Values {
	v := url.Values{}
	if st.Page > 1 {
		v.Set("page", strconv.Itoa(st.Page))
	}
	if st.PageSize > 0 {
		v.Set("size", strconv.Itoa(st.PageSize))
	}
	if st.Sort != core.DefaultSort {
		v.Set("sort", strconv.Itoa(st.Sort.Code))
		v.Set("asc", boolParam(st.Sort.Ascending))
	}
	if st.Search != "" {
		v.Set("q", st.Search)
	}
	return v
}

// withPage returns a copy of st on page.
func (st listState) withPage(page int) listState {
	st.Page = page
	return st
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseSort reads sort and asc. The default is sort code 1 ascending;
// unknown codes are left to the sort registry, which falls back to id.
func parseSort(r *http.Request) core.SortSpec {
	q := r.URL.Query()
	spec := core.DefaultSort
	if v := q.Get("sort"); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			spec.Code = code
		}
	}
	switch strings.ToLower(q.Get("asc")) {
	case "0", "false", "no":
		spec.Ascending = false
	case "1", "true", "yes":
		spec.Ascending = true
	}
	return spec
}

// parsePosition reads the 0-based list position a record was opened from.
// Returns -1 when absent or invalid.
func parsePosition(r *http.Request) int64 {
	v := r.URL.Query().Get("pos")
	if v == "" {
		return -1
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func listURL(kind core.EntityKind, st listState) string {
	return withQuery("/"+string(kind), st.values())
}

func newURL(kind core.EntityKind) string {
	return "/" + string(kind) + "/new"
}

func exportURL(kind core.EntityKind, st listState) string {
	st.Page = 1
	st.PageSize = 0
	return withQuery("/"+string(kind)+"/export.csv", st.values())
}

func recordPath(kind core.EntityKind, id int64) string {
	return "/" + string(kind) + "/" + strconv.FormatInt(id, 10)
}

// recordURL links to a record at position in the list described by st.
func recordURL(kind core.EntityKind, id, position int64, st listState) string {
	v := st.values()
	v.Del("page")
	v.Set("pos", strconv.FormatInt(position, 10))
	return withQuery(recordPath(kind, id), v)
}

// kindParam resolves the {kind} URL segment.
func kindParam(r *http.Request) (core.EntityKind, *resource, error) {
	kind := core.EntityKind(chi.URLParam(r, "kind"))
	res, ok := lookupResource(kind)
	if !ok {
		return "", nil, &core.Error{Kind: core.ErrNotFound, Op: "route", Msg: "unknown entity " + strconv.Quote(string(kind))}
	}
	return kind, res, nil
}

// idParam parses the {id} URL segment.
func idParam(r *http.Request, kind core.EntityKind) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, &core.Error{Kind: core.ErrNotFound, Op: "route", Msg: "invalid " + string(kind) + " id " + strconv.Quote(raw)}
	}
	return id, nil
}

// render writes an HTML component with status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render", "path", r.URL.Path, "error", err)
	}
}
