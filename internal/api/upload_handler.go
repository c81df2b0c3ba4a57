// File path: internal/api/upload_handler.go
package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/upload"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}
	project := strings.TrimSpace(r.FormValue("project"))
	batch := s.orchestrator.NewUploadBatch(project)

	files := make([]upload.File, 0, len(headers))
	for _, header := range headers {
		files = append(files, upload.File{
			Name: header.Filename,
			Open: func() (io.ReadCloser, error) { return openPart(header) },
		})
	}
	results := batch.Process(r.Context(), files)

	resp := uploadResponse{Project: batch.Project(), Results: results}
	for _, res := range results {
		if res.OK() {
			resp.Uploaded++
		} else {
			resp.Failed++
		}
	}
	logger.Info("api: upload processed", "files", len(files), "uploaded", resp.Uploaded, "failed", resp.Failed)
	status := http.StatusOK
	if resp.Uploaded == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func openPart(header *multipart.FileHeader) (io.ReadCloser, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	return f, nil
}
