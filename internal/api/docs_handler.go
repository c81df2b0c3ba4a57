// File path: internal/api/docs_handler.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/common/telemetry"
	"github.com/nicodishanthj/advisor_portal/internal/search"
	"github.com/nicodishanthj/advisor_portal/internal/upload"
)

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	docs := search.Documents(s.catalog.Snapshot().Documents, query, category)
	telemetry.RecordFilter("documents")
	resp := documentsResponse{Documents: docs, Total: len(docs)}
	if len(docs) == 0 {
		resp.EmptyMessage = search.EmptyMessage(query)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories":         search.Categories(),
		"allowed_extensions": upload.AllowedExtensions(),
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("filename required"))
		return
	}
	resp := classifyResponse{
		Classification: upload.Classify(req.Filename),
		Allowed:        upload.Allowed(req.Filename),
	}
	if req.Size > 0 {
		resp.Size = upload.FormatSize(req.Size)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDocumentDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, ok := s.catalog.Snapshot().Document(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("document %q not found", id))
		return
	}
	payload, err := upload.Payload(doc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("prepare download: %w", err))
		return
	}
	common.Logger().Info("api: document download", "id", id, "placeholder", payload.Placeholder, "bytes", len(payload.Body))
	writeDownload(w, payload.Filename, payload.ContentType, payload.Body)
}
