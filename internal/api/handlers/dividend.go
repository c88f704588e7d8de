package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/validation"
)

// DividendHandler handles HTTP requests for dividend endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the dividendService.
type DividendHandler struct {
	dividendService *service.DividendService
	now             func() time.Time
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
		now:             time.Now,
	}
}

// GetDividends handles GET requests to retrieve all dividend records, newest first.
//
// Endpoint: GET /api/dividend
// Response: 200 OK with array of Dividend
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) GetDividends(w http.ResponseWriter, _ *http.Request) {
	dividends, err := h.dividendService.GetDividends()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dividends)
}

// GetDividend handles GET requests to retrieve a single dividend record.
//
// Endpoint: GET /api/dividend/{id}
// Response: 200 OK with Dividend
// Error: 404 Not Found if the dividend does not exist
func (h *DividendHandler) GetDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "id")

	dividend, err := h.dividendService.GetDividend(dividendID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDividend)
		return
	}

	response.RespondJSON(w, http.StatusOK, dividend)
}

// CreateDividend handles POST requests to record a dividend payment.
// When paymentDate is omitted it is derived from exDividendDate.
//
// Endpoint: POST /api/dividend
// Request Body: CreateDividendRequest (ticker, amount, paymentDate or exDividendDate, optional note)
// Response: 201 Created with Dividend
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *DividendHandler) CreateDividend(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDividend(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDividend)
		return
	}

	dividend, err := h.dividendService.CreateDividend(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create dividend", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, dividend)
}

// UpdateDividend handles PUT requests to update an existing dividend.
// Validates the request body and updates the specified dividend fields.
//
// Endpoint: PUT /api/dividend/{id}
// Request Body: UpdateDividendRequest (all fields optional)
// Response: 200 OK with updated Dividend
// Error: 400 Bad Request if dividend ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if dividend not found
// Error: 500 Internal Server Error if update fails
func (h *DividendHandler) UpdateDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "id")

	req, err := parseJSON[request.UpdateDividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateDividend(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDividend)
		return
	}

	dividend, err := h.dividendService.UpdateDividend(r.Context(), dividendID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDividend)
		return
	}

	response.RespondJSON(w, http.StatusOK, dividend)
}

// DeleteDividend handles DELETE requests to remove a dividend record.
//
// Endpoint: DELETE /api/dividend/{id}
// Response: 204 No Content
// Error: 404 Not Found if dividend not found
func (h *DividendHandler) DeleteDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "id")

	if err := h.dividendService.DeleteDividend(r.Context(), dividendID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveDividend)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Analysis handles GET requests for the dividend dashboard figures.
// year defaults to the year of asOf, asOf to today, and goal to the stored
// monthly dividend goal.
//
// Endpoint: GET /api/dividend/analysis?year=2024&asOf=2024-06-30&goal=10000
// Response: 200 OK with DividendAnalysis
// Error: 400 Bad Request if a query parameter is malformed
func (h *DividendHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateParam(r, "asOf", h.now())
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), err.Error())
		return
	}

	var year int
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year < 1 {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidYear.Error(), raw)
			return
		}
	}

	goal, err := parseFloatParam(r, "goal")
	if err != nil || (goal != nil && *goal < 0) {
		response.RespondError(w, http.StatusBadRequest, "invalid goal parameter", r.URL.Query().Get("goal"))
		return
	}

	analysis, err := h.dividendService.GetAnalysis(year, asOf, goal)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToAnalyzeDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, analysis)
}
