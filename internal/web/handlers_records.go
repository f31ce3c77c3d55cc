package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/JonMunkholm/pmadmin/internal/logging"
	"github.com/JonMunkholm/pmadmin/internal/web/templates"
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// handleShow renders a record with its children, its neighbors in the
// list it was opened from and its recent audit entries.
func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, res, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	id, err := idParam(r, kind)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	fd, err := res.load(s.service, ctx, id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	fields, childFields, err := res.resolveFields(ctx, s.service)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	audit, err := s.service.AuditTrail(ctx, kind, id, auditLimit)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	st := parseListState(r)
	pos := parsePosition(r)
	nav := templates.RecordNav{Position: -1}
	if pos >= 0 {
		st.Page = s.service.PageOf(pos, st.PageSize)

		// Navigation is best-effort; a failed lookup only hides the links.
		n, err := s.service.Neighbors(ctx, kind, st.Sort, st.Search, pos)
		if err != nil {
			logging.FromContext(ctx).Warn("neighbors lookup failed", "entity", kind, "position", pos, "error", err)
		} else {
			nav.Total = n.Total
			if pos < n.Total {
				nav.Position = pos
			}
			if n.HasPrevious() {
				nav.PrevURL = recordURL(kind, n.PreviousID, pos-1, st)
			}
			if n.HasNext() {
				nav.NextURL = recordURL(kind, n.NextID, pos+1, st)
			}
		}
	}

	def, _ := core.Get(kind)
	v := templates.DetailView{
		Title:     fmt.Sprintf("%s %d", capitalize(def.Singular), id),
		Fields:    fields,
		Values:    fd.Values,
		Nav:       nav,
		ListURL:   listURL(kind, st),
		EditURL:   withQuery(recordPath(kind, id)+"/edit", r.URL.Query()),
		DeleteURL: withQuery(recordPath(kind, id)+"/delete", st.values()),
		Audit:     audit,
	}
	if res.children != nil {
		v.Children = &templates.ChildTable{Title: res.children.title, Fields: childFields, Rows: fd.Rows}
	}

	render(w, r, http.StatusOK, templates.Detail(templates.Navigation(kind), v))
}

// handleNew renders an empty create form. Parent fields may be prefilled
// from the query string, e.g. /tasks/new?request_id=3.
func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	kind, res, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	fd := formData{Values: make(map[string]string, len(res.fields))}
	q := r.URL.Query()
	for _, f := range res.fields {
		fd.Values[f.Name] = strings.TrimSpace(q.Get(f.Name))
	}
	s.renderForm(w, r, kind, res, fd, http.StatusOK, nil)
}

// handleEdit renders the edit form of a stored record.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	kind, res, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	id, err := idParam(r, kind)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	fd, err := res.load(s.service, r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	s.renderForm(w, r, kind, res, fd, http.StatusOK, nil)
}

// handleCreate saves a new record and redirects to it.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, res, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	fd, err := parseForm(r, res.fields, res.childFields())
	if err == nil {
		fd.ID = 0
		var result core.SaveResult
		result, err = res.save(s.service, r.Context(), fd)
		if err == nil {
			s.logSaved(r, kind, result)
			http.Redirect(w, r, recordPath(kind, result.ID), http.StatusSeeOther)
			return
		}
	}
	s.saveFailed(w, r, kind, res, fd, err)
}

// handleUpdate saves an edit form and redirects back to the record,
// keeping the list context it was opened from.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, res, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	id, err := idParam(r, kind)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	fd, err := parseForm(r, res.fields, res.childFields())
	fd.ID = id
	if err == nil {
		var result core.SaveResult
		result, err = res.save(s.service, r.Context(), fd)
		if err == nil {
			s.logSaved(r, kind, result)
			http.Redirect(w, r, withQuery(recordPath(kind, id), r.URL.Query()), http.StatusSeeOther)
			return
		}
	}
	s.saveFailed(w, r, kind, res, fd, err)
}

// handleDelete removes a record and returns to the list.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, res, err := kindParam(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	id, err := idParam(r, kind)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if err := res.remove(s.service, r.Context(), id); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	logging.FromContext(r.Context()).Info("record deleted", "entity", kind, "id", id)
	http.Redirect(w, r, listURL(kind, parseListState(r)), http.StatusSeeOther)
}

func (s *Server) logSaved(r *http.Request, kind core.EntityKind, result core.SaveResult) {
	logging.FromContext(r.Context()).Info("record saved",
		"entity", kind,
		"id", result.ID,
		"changes", result.Summary.String(),
	)
}

// saveFailed re-renders the submitted form for validation, integrity and
// conflict failures. Anything else is an error page.
func (s *Server) saveFailed(w http.ResponseWriter, r *http.Request, kind core.EntityKind, res *resource, fd formData, err error) {
	status := statusFor(err)
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrIntegrity), errors.Is(err, core.ErrConflict):
		logging.FromContext(r.Context()).Warn("save rejected",
			"entity", kind,
			"id", fd.ID,
			"status", status,
			"error", err,
		)
		s.renderForm(w, r, kind, res, fd, status, err)
	default:
		if status == http.StatusInternalServerError && fd.Values == nil {
			status = http.StatusBadRequest
		}
		s.respondError(w, r, err, status)
	}
}

// renderForm renders the create or edit form for fd. A non-nil saveErr is
// shown as a banner with its per-field problems.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, kind core.EntityKind, res *resource, fd formData, status int, saveErr error) {
	fields, childFields, err := res.resolveFields(r.Context(), s.service)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	def, _ := core.Get(kind)
	v := templates.FormView{
		Title:   "New " + def.Singular,
		Action:  "/" + string(kind),
		Cancel:  listURL(kind, listState{}),
		Version: fd.Version,
		Fields:  fields,
		Values:  fd.Values,
	}
	if fd.ID > 0 {
		back := withQuery(recordPath(kind, fd.ID), r.URL.Query())
		v.Title = fmt.Sprintf("Edit %s %d", def.Singular, fd.ID)
		v.Action = back
		v.Cancel = back
	}
	if res.children != nil {
		v.Children = &templates.ChildTable{
			Title:  res.children.title,
			Fields: childFields,
			Rows:   withBlankRows(fd.Rows, blankRows),
		}
	}
	if saveErr != nil {
		msg := core.MapError(saveErr)
		v.Error = &msg
		v.Problems = problemsOf(saveErr)
	}

	render(w, r, status, templates.Form(templates.Navigation(kind), v))
}
