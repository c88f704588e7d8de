package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
)

// SnapshotHandler serves the CSV export and import.
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// Export downloads the current state as snapshot CSV.
//
// Endpoint: GET /api/snapshot/export
// Response: 200 OK with text/csv attachment
func (h *SnapshotHandler) Export(w http.ResponseWriter, _ *http.Request) {
	data, err := h.snapshotService.Export()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExportSnapshot.Error(), err.Error())
		return
	}

	response.RespondCSV(w, "portfolio-"+time.Now().Format("20060102")+".csv", data)
}

// Import replaces holdings, dividends and cash with the CSV in the request body.
// With dryRun=true the parsed snapshot is returned without being applied.
//
// Endpoint: POST /api/snapshot/import?dryRun=true
// Request Body: snapshot CSV
// Response: 200 OK with ImportResponse
// Error: 400 Bad Request if the CSV is malformed; nothing is changed
func (h *SnapshotHandler) Import(w http.ResponseWriter, r *http.Request) {
	dryRun, err := parseBoolParam(r, "dryRun")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid dryRun parameter", err.Error())
		return
	}

	data, err := readBody(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.snapshotService.Import(r.Context(), data, dryRun)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportSnapshot)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
