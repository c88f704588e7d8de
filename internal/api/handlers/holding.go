package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/validation"
)

// HoldingHandler handles HTTP requests for holding endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the holdingService.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// GetHoldings handles GET requests to retrieve all holdings with their valuation.
//
// Endpoint: GET /api/holding
// Response: 200 OK with array of CalculatedHolding
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) GetHoldings(w http.ResponseWriter, _ *http.Request) {
	holdings, err := h.holdingService.GetCalculatedHoldings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// GetHolding handles GET requests to retrieve a single holding.
//
// Endpoint: GET /api/holding/{id}
// Response: 200 OK with CalculatedHolding
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the holding does not exist
func (h *HoldingHandler) GetHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "id")

	holding, err := h.holdingService.GetHolding(holdingID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHolding)
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// CreateHolding handles POST requests to add a holding.
//
// Endpoint: POST /api/holding
// Request Body: CreateHoldingRequest
// Response: 201 Created with CalculatedHolding
// Error: 400 Bad Request if validation fails or request body is invalid
func (h *HoldingHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateHolding(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHolding)
		return
	}

	holding, err := h.holdingService.CreateHolding(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create holding", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, holding)
}

// UpdateHolding handles PUT requests to edit a holding. Omitted fields are kept.
//
// Endpoint: PUT /api/holding/{id}
// Request Body: UpdateHoldingRequest (all fields optional)
// Response: 200 OK with CalculatedHolding
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the holding does not exist
func (h *HoldingHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "id")

	req, err := parseJSON[request.UpdateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateHolding(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHolding)
		return
	}

	holding, err := h.holdingService.UpdateHolding(r.Context(), holdingID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHolding)
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE requests to remove a holding.
//
// Endpoint: DELETE /api/holding/{id}
// Response: 204 No Content
// Error: 404 Not Found if the holding does not exist
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "id")

	if err := h.holdingService.DeleteHolding(r.Context(), holdingID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHolding)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// UpdatePrices handles PUT requests carrying a partial code → price map.
// Holdings whose code is not in the map keep their price.
//
// Endpoint: PUT /api/holding/prices
// Request Body: UpdatePricesRequest
// Response: 200 OK with PriceUpdateResponse
// Error: 400 Bad Request if a price is not positive
func (h *HoldingHandler) UpdatePrices(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdatePricesRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidatePriceUpdate(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdatePrices)
		return
	}

	resp, err := h.holdingService.ApplyPrices(r.Context(), req.Prices)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdatePrices)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// RefreshPrices handles POST requests to fetch and apply the latest quotes.
//
// Endpoint: POST /api/holding/prices/refresh
// Response: 200 OK with PriceUpdateResponse
// Error: 400 Bad Request if there are no holdings to quote
// Error: 502 Bad Gateway if no quote source could be reached; prices are unchanged
func (h *HoldingHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	resp, err := h.holdingService.RefreshPrices(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdatePrices)
		return
	}

	response.RespondJSON(w, http.StatusOK, resp)
}
