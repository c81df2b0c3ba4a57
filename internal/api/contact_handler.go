// File path: internal/api/contact_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/advisor_portal/internal/common/telemetry"
	"github.com/nicodishanthj/advisor_portal/internal/sqlite"
)

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	msg, err := s.inbox.Submit(r.Context(), sqlite.ContactMessage{
		Topic:   req.Topic,
		Urgency: sqlite.Urgency(req.Urgency),
		Message: req.Message,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	telemetry.RecordContact()
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleContactList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	msgs, err := s.inbox.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("list inbox: %w", err))
		return
	}
	counts, err := s.inbox.UrgencyCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("count inbox: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs, "urgency_counts": counts})
}

func (s *Server) handleContactMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msg, err := s.inbox.Get(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	trail, err := s.inbox.AuditTrail(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("audit trail: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, contactDetailResponse{Message: msg, Audit: trail})
}
