// File path: internal/api/portal_handler.go
package api

import (
	"net/http"

	"github.com/nicodishanthj/advisor_portal/internal/sqlite"
)

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	state := s.catalog.Snapshot()
	writeJSON(w, http.StatusOK, clientResponse{
		Client:    state.Client,
		Dashboard: state.Dashboard(),
		Today:     s.catalog.Today(),
	})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entities": s.catalog.Snapshot().Entities()})
}

func (s *Server) handleAdvisor(w http.ResponseWriter, r *http.Request) {
	state := s.catalog.Snapshot()
	writeJSON(w, http.StatusOK, advisorResponse{
		Advisor:     state.Advisor,
		QuickTopics: state.QuickTopics,
		Urgencies:   sqlite.Urgencies(),
	})
}
