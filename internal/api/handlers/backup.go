package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
)

// BackupHandler exposes the on-disk snapshot backups.
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
	}
}

// List returns the backup file names, newest first.
//
// Endpoint: GET /api/backup
// Error: 503 Service Unavailable if backups are not configured
func (h *BackupHandler) List(w http.ResponseWriter, _ *http.Request) {
	names, err := h.backupService.List()
	if err != nil {
		respondServiceError(w, err, apperrors.ErrBackupNotFound)
		return
	}

	response.RespondJSON(w, http.StatusOK, names)
}

// Create writes a backup now.
//
// Endpoint: POST /api/backup
// Response: 201 Created with BackupResult
// Error: 503 Service Unavailable if backups are not configured
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	result, err := h.backupService.Run(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateBackup)
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}

// Restore imports a backup file by name.
//
// Endpoint: POST /api/backup/{name}/restore?dryRun=true
// Response: 200 OK with ImportResponse
// Error: 404 Not Found if no such backup exists
// Error: 400 Bad Request if the file cannot be decrypted or parsed
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	dryRun, err := parseBoolParam(r, "dryRun")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid dryRun parameter", err.Error())
		return
	}

	resp, err := h.backupService.Restore(r.Context(), name, dryRun)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportSnapshot)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
