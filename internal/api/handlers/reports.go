package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Profit-Tracker/internal/service"
)

// ReportHandler serves the owner profit report.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Report handles GET requests to compute the report from the current ledger.
// Owners whose prices could not be fetched are listed in the table's
// incomplete field; the request still succeeds.
//
// Endpoint: GET /api/report
// Response: 200 OK with report.Table
// Error: 500 Internal Server Error if the ledger cannot be read
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	table, err := h.reportService.BuildReport(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToBuildReport)
		return
	}

	response.RespondJSON(w, http.StatusOK, table)
}

// LatestReport handles GET requests for the last built report.
//
// Endpoint: GET /api/report/latest
// Response: 200 OK with report.Table
// Error: 503 Service Unavailable if no report has been built yet
func (h *ReportHandler) LatestReport(w http.ResponseWriter, _ *http.Request) {
	table, err := h.reportService.Latest()
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToBuildReport)
		return
	}

	response.RespondJSON(w, http.StatusOK, table)
}
