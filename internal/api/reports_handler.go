// File path: internal/api/reports_handler.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	period := strings.TrimSpace(r.URL.Query().Get("period"))
	if period == "" {
		period = "all"
	}
	state := s.catalog.Snapshot()
	writeJSON(w, http.StatusOK, reportsResponse{
		Period:    period,
		Reports:   state.ReportsFor(period),
		Financial: state.Financial,
	})
}

func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	report, ok := s.catalog.Snapshot().Report(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("report %d not found", id))
		return
	}
	if !report.Ready() {
		writeError(w, http.StatusConflict, fmt.Errorf("report %q is still %s", report.Name, strings.ToLower(report.Status)))
		return
	}
	writeDownload(w, reportFilename(report), "text/plain; charset=utf-8", []byte(reportText(report, s.catalog.Today())))
}

func reportFilename(report portal.Report) string {
	return strings.ReplaceAll(report.Name, " ", "_") + ".txt"
}

func reportText(report portal.Report, generated string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", report.Name)
	fmt.Fprintf(&b, "Type: %s\n", report.Type)
	fmt.Fprintf(&b, "Date: %s\n", report.Date)
	fmt.Fprintf(&b, "Size: %s\n", report.Size)
	fmt.Fprintf(&b, "Generated: %s\n", generated)
	b.WriteString("\nThis is a sample report. Contact your advisor for the full document.\n")
	return b.String()
}
