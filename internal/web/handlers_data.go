package web

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/JonMunkholm/pmadmin/internal/logging"
	"github.com/JonMunkholm/pmadmin/internal/web/templates"
)

// handleList renders one page of an entity list, or redirects when the
// page is out of range or the list is empty and opts into create.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, _, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	st := parseListState(r)

	page, err := s.service.List(r.Context(), core.ListQuery{
		Kind:     kind,
		Page:     st.Page,
		PageSize: st.PageSize,
		Sort:     st.Sort,
		Search:   st.Search,
	})
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	switch page.Decision {
	case core.PageRedirectFirst:
		http.Redirect(w, r, listURL(kind, st.withPage(1)), http.StatusSeeOther)
		return
	case core.PageRedirectCreate:
		http.Redirect(w, r, newURL(kind), http.StatusSeeOther)
		return
	}

	def := page.Definition
	v := templates.ListView{
		Title:     def.Label,
		NewURL:    newURL(kind),
		ExportURL: exportURL(kind, st),
		FormURL:   "/" + string(kind),
		Search:    st.Search,
		Total:     page.Paging.TotalItems,
	}

	for _, col := range def.Columns {
		h := templates.Header{Label: col.Header}
		if col.Sortable {
			h.Active = st.Sort.Code == col.SortCode
			h.Ascending = st.Sort.Ascending

			// Clicking the active column flips its direction.
			next := st.withPage(1)
			next.Sort = core.SortSpec{Code: col.SortCode, Ascending: !h.Active || !st.Sort.Ascending}
			h.URL = listURL(kind, next)
		}
		v.Headers = append(v.Headers, h)
	}

	for _, row := range page.Rows {
		v.Rows = append(v.Rows, templates.ListRow{
			URL:   recordURL(kind, row.ID, row.Position, st),
			Cells: row.Cells,
		})
	}

	current := page.Paging.CurrentPage
	for _, n := range page.Paging.Pages(pagerWidth) {
		v.Pages = append(v.Pages, templates.PageLink{
			Number:  n,
			URL:     listURL(kind, st.withPage(n)),
			Current: n == current,
		})
	}
	if page.Paging.HasPrevious() {
		v.PrevURL = listURL(kind, st.withPage(current-1))
	}
	if page.Paging.HasNext() {
		v.NextURL = listURL(kind, st.withPage(current+1))
	}

	render(w, r, http.StatusOK, templates.List(templates.Navigation(kind), v))
}

// handleExport streams the whole ordered, filtered list as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, _, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	def, _ := core.Get(kind)
	st := parseListState(r)

	release, err := s.service.BeginExport(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrTooManyExports) {
			w.Header().Set("Retry-After", "5")
		}
		s.respondError(w, r, err, 0)
		return
	}
	defer release()

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.csv", kind, timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	csvWriter := csv.NewWriter(w)

	header := make([]string, len(def.Columns))
	for i, col := range def.Columns {
		header[i] = col.Header
	}
	if err := csvWriter.Write(header); err != nil {
		return
	}

	// Batch flushing: flush every N rows
	const flushInterval = 500
	rowCount := 0

	err = s.service.StreamList(r.Context(), kind, st.Sort, st.Search, func(row core.ListRow) error {
		if err := csvWriter.Write(row.Cells); err != nil {
			return err
		}
		rowCount++
		if rowCount%flushInterval == 0 {
			csvWriter.Flush()
			if err := csvWriter.Error(); err != nil {
				return err
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
		return nil
	})

	csvWriter.Flush()
	if err == nil {
		err = csvWriter.Error()
	}
	if err != nil {
		// Headers are sent; all that is left is to log.
		logging.FromContext(r.Context()).Error("export failed",
			"entity", kind,
			"rows_written", rowCount,
			"error", err,
		)
	}
}

// neighborsResponse is the JSON body of the neighbors endpoint. Absent
// neighbors are omitted.
type neighborsResponse struct {
	Position    int64  `json:"position"`
	Total       int64  `json:"total"`
	PreviousID  int64  `json:"previousId,omitempty"`
	NextID      int64  `json:"nextId,omitempty"`
	PreviousURL string `json:"previousUrl,omitempty"`
	NextURL     string `json:"nextUrl,omitempty"`
}

// handleNeighbors resolves the previous and next records around pos in
// the list described by sort, asc and q.
func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	kind, _, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if _, err := idParam(r, kind); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	st := parseListState(r)
	pos := parsePosition(r)

	n, err := s.service.Neighbors(r.Context(), kind, st.Sort, st.Search, pos)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	resp := neighborsResponse{
		Position:   n.Position,
		Total:      n.Total,
		PreviousID: n.PreviousID,
		NextID:     n.NextID,
	}
	if n.HasPrevious() {
		resp.PreviousURL = recordURL(kind, n.PreviousID, pos-1, st)
	}
	if n.HasNext() {
		resp.NextURL = recordURL(kind, n.NextID, pos+1, st)
	}
	writeJSON(w, http.StatusOK, resp)
}
