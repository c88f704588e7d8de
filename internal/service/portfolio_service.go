package service

import (
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/validation"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/valuation"
)

// PortfolioService derives portfolio-level figures from holdings and cash.
type PortfolioService struct {
	holdingService  *HoldingService
	settingsService *SettingsService
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(holdingService *HoldingService, settingsService *SettingsService) *PortfolioService {
	return &PortfolioService{
		holdingService:  holdingService,
		settingsService: settingsService,
	}
}

// GetOverview returns the enriched holdings together with the portfolio summary.
func (s *PortfolioService) GetOverview() (model.PortfolioOverview, error) {
	holdings, err := s.holdingService.GetCalculatedHoldings()
	if err != nil {
		return model.PortfolioOverview{}, err
	}

	cash, err := s.settingsService.GetCash()
	if err != nil {
		return model.PortfolioOverview{}, err
	}

	return model.PortfolioOverview{
		Holdings: holdings,
		Summary:  valuation.SummarizePortfolio(holdings, cash),
	}, nil
}

// GetSummary returns the portfolio summary.
func (s *PortfolioService) GetSummary() (model.PortfolioSummary, error) {
	overview, err := s.GetOverview()
	if err != nil {
		return model.PortfolioSummary{}, err
	}
	return overview.Summary, nil
}

// GetRebalance suggests how to reach the target stock fraction.
// A nil target uses the stored setting.
// Returns apperrors.ErrInvalidTargetFraction unless 0 < target < 1.
func (s *PortfolioService) GetRebalance(target *float64) (model.RebalanceSuggestion, error) {
	var f float64
	if target != nil {
		f = *target
	} else {
		settings, err := s.settingsService.GetSettings()
		if err != nil {
			return model.RebalanceSuggestion{}, err
		}
		f = settings.TargetStockFraction
	}

	if err := validation.ValidateTargetFraction(f); err != nil {
		return model.RebalanceSuggestion{}, err
	}

	summary, err := s.GetSummary()
	if err != nil {
		return model.RebalanceSuggestion{}, err
	}

	return valuation.ComputeRebalance(summary.StockValue, summary.BondValue, f), nil
}
