package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/datetable/internal/export"
	"github.com/JonMunkholm/datetable/internal/logging"
)

// handleExportCSV streams every row passing the session's filter, in its
// sort order, as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "csv")
}

// handleExportPDF renders the same rows as a PDF table.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "pdf")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	sess, err := requestSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	release, err := s.service.Exports().Acquire(r.Context(), format)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer release()

	now := time.Now()
	sheet := export.FromModel(s.service.Labels().Title, sess.Model())
	filename := fmt.Sprintf("datetable_%s.%s", now.Format("20060102_150405"), format)
	logger := logging.WithFields(r.Context(), "format", format)

	switch format {
	case "pdf":
		// Buffered so a failure can still become an error response.
		var buf bytes.Buffer
		if err := export.WritePDF(&buf, sheet, export.PDFOptions{Generated: now}); err != nil {
			respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		setDownloadHeaders(w, "application/pdf", filename)
		if _, err := buf.WriteTo(w); err != nil {
			logger.Warn("pdf export interrupted", "error", err)
		}

	default:
		setDownloadHeaders(w, "text/csv; charset=utf-8", filename)
		// Headers are sent with the first row; later failures are only logged.
		if err := export.WriteCSV(w, sheet); err != nil {
			logger.Warn("csv export interrupted", "error", err)
		}
	}

	logger.Info("table exported", "rows", len(sheet.Rows), "filename", filename)
}

func setDownloadHeaders(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
