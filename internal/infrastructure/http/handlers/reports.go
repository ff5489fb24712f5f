package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutricoach/v1/internal/domain/health"
	"github.com/nutricoach/v1/internal/ports/inbound"
	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
)

// maxUploadBytes caps uploaded health documents at 16 MB
const maxUploadBytes = 16 << 20

// ReportHandlers serves the health report endpoints
type ReportHandlers struct {
	reports inbound.HealthReportService
	logger  *zap.Logger
}

// NewReportHandlers creates the report handlers
func NewReportHandlers(reports inbound.HealthReportService, logger *zap.Logger) *ReportHandlers {
	return &ReportHandlers{reports: reports, logger: logger.Named("report-handlers")}
}

type reportResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	ReportText string `json:"report_text"`
	FileName   string `json:"file_name"`
	CreatedAt  string `json:"created_at"`
}

func toReportResponse(report *health.Report) reportResponse {
	return reportResponse{
		ID:         report.ID.String(),
		UserID:     report.UserID,
		ReportText: report.ReportText,
		FileName:   report.FileName,
		CreatedAt:  report.CreatedAt.Format(time.RFC3339),
	}
}

// ProcessDocument accepts a multipart file upload, runs the
// summarization pipeline and returns the stored report.
func (h *ReportHandlers) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, h.logger, errors.NewValidationError("invalid multipart form").WithCause(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("missing file field").WithCause(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, h.logger, errors.NewValidationError("failed to read upload").WithCause(err))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	report, err := h.reports.ProcessDocument(r.Context(), chi.URLParam(r, "userID"), header.Filename, mimeType, data)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toReportResponse(report))
}

// LatestReport returns the user's most recent report
func (h *ReportHandlers) LatestReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.LatestReport(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toReportResponse(report))
}
