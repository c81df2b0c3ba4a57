// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/advisor_portal/internal/assistant"
	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/data/orchestrator"
	"github.com/nicodishanthj/advisor_portal/internal/portal"
	"github.com/nicodishanthj/advisor_portal/internal/sqlite"
)

// maxUploadMemory is the multipart buffer kept in memory before spilling to
// temporary files.
const maxUploadMemory = 32 << 20

type Server struct {
	router   chi.Router
	catalog  *portal.Catalog
	bridge   *assistant.Bridge
	sessions *assistant.Registry
	inbox    *sqlite.Store

	orchestrator *orchestrator.Orchestrator
}

func NewServer(orch *orchestrator.Orchestrator) (*Server, error) {
	logger := common.Logger()
	if orch == nil {
		return nil, fmt.Errorf("orchestrator required")
	}
	catalog := orch.Catalog()
	if catalog == nil {
		return nil, fmt.Errorf("catalog unavailable")
	}
	inbox := orch.Inbox()
	if inbox == nil {
		return nil, fmt.Errorf("inbox unavailable")
	}
	state := catalog.Snapshot()
	logger.Info(
		"api: building server",
		"projects", len(state.Projects),
		"documents", len(state.Documents),
		"provider", orch.Bridge().Provider(),
	)
	srv := &Server{
		router:       chi.NewRouter(),
		catalog:      catalog,
		bridge:       orch.Bridge(),
		sessions:     orch.Sessions(),
		inbox:        inbox,
		orchestrator: orch,
	}
	srv.routes()
	logger.Info("api: server ready", "routes", true)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Handle("/debug/vars", expvar.Handler())

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/client", s.handleClient)
		r.Get("/entities", s.handleEntities)

		r.Get("/projects", s.handleProjects)
		r.Get("/projects/{id}", s.handleProject)
		r.Get("/projects/{id}/documents/{index}/download", s.handleProjectDocumentDownload)

		r.Get("/documents", s.handleDocuments)
		r.Get("/documents/categories", s.handleCategories)
		r.Post("/documents/classify", s.handleClassify)
		r.Post("/documents/upload", s.handleUpload)
		r.Get("/documents/{id}/download", s.handleDocumentDownload)

		r.Post("/chat", s.handleChat)
		r.Post("/chat/sessions", s.handleCreateSession)
		r.Get("/chat/sessions/{id}", s.handleSession)
		r.Post("/chat/sessions/{id}/messages", s.handleSend)

		r.Get("/advisor", s.handleAdvisor)
		r.Post("/contact", s.handleContactSubmit)
		r.Get("/contact", s.handleContactList)
		r.Get("/contact/{id}", s.handleContactMessage)

		r.Get("/reports", s.handleReports)
		r.Get("/reports/{id}/download", s.handleReportDownload)

		r.Get("/logs", s.handleLogs)
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := common.LogFilter{
		Level:     q.Get("level"),
		Component: q.Get("component"),
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		filter.Limit = limit
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.FilterLogEntries(filter)})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return value, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, portal.ErrNotFound), errors.Is(err, assistant.ErrSessionNotFound),
		errors.Is(err, sqlite.ErrContactNotFound):
		return http.StatusNotFound
	case errors.Is(err, assistant.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, assistant.ErrEmptyMessage), errors.Is(err, sqlite.ErrInvalidContact):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeDownload(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
