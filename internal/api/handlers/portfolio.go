package handlers

import (
	"net/http"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Overview returns the enriched holdings together with the summary.
//
// Endpoint: GET /api/portfolio
func (h *PortfolioHandler) Overview(w http.ResponseWriter, _ *http.Request) {
	overview, err := h.portfolioService.GetOverview()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, overview)
}

// Summary returns the portfolio totals and stock/bond ratios.
//
// Endpoint: GET /api/portfolio/summary
func (h *PortfolioHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.portfolioService.GetSummary()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Rebalance suggests a switch and an inflow that restore the target stock fraction.
// Without a target query parameter the stored setting is used.
//
// Endpoint: GET /api/portfolio/rebalance?target=0.6
// Response: 200 OK with RebalanceSuggestion
// Error: 400 Bad Request unless 0 < target < 1
func (h *PortfolioHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	target, err := parseFloatParam(r, "target")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTargetFraction.Error(), err.Error())
		return
	}

	suggestion, err := h.portfolioService.GetRebalance(target)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetSummary)
		return
	}

	response.RespondJSON(w, http.StatusOK, suggestion)
}
