// File path: internal/api/projects_handler.go
package api

import (
	"fmt"
	"net/http"

	"github.com/nicodishanthj/advisor_portal/internal/common/telemetry"
	"github.com/nicodishanthj/advisor_portal/internal/search"
	"github.com/nicodishanthj/advisor_portal/internal/upload"
)

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	status := r.URL.Query().Get("status")
	projects := search.Projects(s.catalog.Snapshot().Projects, query, status)
	telemetry.RecordFilter("projects")
	resp := projectsResponse{Projects: projects, Total: len(projects)}
	if len(projects) == 0 {
		resp.EmptyMessage = search.ProjectsEmptyMessage(query)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	project, ok := s.catalog.Snapshot().Project(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("project %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleProjectDocumentDownload(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	project, ok := s.catalog.Snapshot().Project(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("project %d not found", id))
		return
	}
	if index < 0 || index >= len(project.Documents) {
		writeError(w, http.StatusNotFound, fmt.Errorf("project %d has no document %d", id, index))
		return
	}
	ref := project.Documents[index]
	writeDownload(w, ref.Name, "application/pdf", upload.SamplePDF(ref, project, s.catalog.Today()))
}
