package web

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/pmadmin/internal/core"
	"github.com/JonMunkholm/pmadmin/internal/logging"
	"github.com/JonMunkholm/pmadmin/internal/web/templates"
)

// healthTimeout bounds the store ping of the health check.
const healthTimeout = 2 * time.Second

// handleDashboard renders record counts for every entity kind.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := s.service.Counts(r.Context())
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	var cards []templates.DashboardCard
	for _, def := range core.All() {
		cards = append(cards, templates.DashboardCard{
			Label: def.Label,
			URL:   "/" + string(def.Kind),
			Count: counts[def.Kind],
		})
	}
	render(w, r, http.StatusOK, templates.Dashboard(templates.Navigation(""), cards))
}

type healthResponse struct {
	Status  string             `json:"status"`
	Exports *core.ExportStatus `json:"exports,omitempty"`
}

// handleHealth reports whether the store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.service.Ping(ctx); err != nil {
		logging.FromContext(r.Context()).Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	exports := s.service.ExportStatus()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Exports: &exports})
}
