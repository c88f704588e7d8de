package handlers

import (
	"net/http"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/validation"
)

// SettingsHandler handles the cash balance and user settings.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// CashResponse is the body of the cash endpoints.
type CashResponse struct {
	Amount float64 `json:"amount"`
}

// GetCash returns the uninvested cash balance.
//
// Endpoint: GET /api/cash
func (h *SettingsHandler) GetCash(w http.ResponseWriter, _ *http.Request) {
	cash, err := h.settingsService.GetCash()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, CashResponse{Amount: cash})
}

// UpdateCash sets the uninvested cash balance.
//
// Endpoint: PUT /api/cash
// Request Body: UpdateCashRequest
// Response: 200 OK with CashResponse
// Error: 400 Bad Request if the amount is negative
func (h *SettingsHandler) UpdateCash(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateCashRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCash(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSettings)
		return
	}

	if err := h.settingsService.SetCash(r.Context(), req.Amount); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to update cash", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, CashResponse{Amount: req.Amount})
}

// GetSettings returns every user setting with defaults applied.
//
// Endpoint: GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}

// UpdateSettings stores the provided settings.
//
// Endpoint: PUT /api/settings
// Request Body: UpdateSettingsRequest (all fields optional)
// Response: 200 OK with Settings
// Error: 400 Bad Request if validation fails
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateSettingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSettings(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSettings)
		return
	}

	settings, err := h.settingsService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to update settings", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}
