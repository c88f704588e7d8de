package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/valuation"
)

// PaymentLag is added to the ex-dividend date when no payment date is given.
const PaymentLag = 30 * 24 * time.Hour

// DividendService handles dividend-related business logic operations.
type DividendService struct {
	dividendRepo    *repository.DividendRepository
	holdingRepo     *repository.HoldingRepository
	settingsService *SettingsService
}

// NewDividendService creates a new DividendService with the provided dependencies.
func NewDividendService(
	dividendRepo *repository.DividendRepository,
	holdingRepo *repository.HoldingRepository,
	settingsService *SettingsService,
) *DividendService {
	return &DividendService{
		dividendRepo:    dividendRepo,
		holdingRepo:     holdingRepo,
		settingsService: settingsService,
	}
}

// GetDividends retrieves all dividend records, newest payment first.
func (s *DividendService) GetDividends() ([]model.Dividend, error) {
	return s.dividendRepo.GetDividends()
}

// GetDividend retrieves a single dividend record.
// Returns apperrors.ErrDividendNotFound if it does not exist.
func (s *DividendService) GetDividend(dividendID string) (model.Dividend, error) {
	return s.dividendRepo.GetDividend(dividendID)
}

// CreateDividend records a dividend payment.
// When the payment date is omitted it is derived as exDividendDate + PaymentLag.
// The request is expected to have passed validation.ValidateCreateDividend.
func (s *DividendService) CreateDividend(ctx context.Context, req request.CreateDividendRequest) (model.Dividend, error) {
	d := model.Dividend{
		ID:     uuid.New().String(),
		Ticker: req.Ticker,
		Amount: req.Amount,
		Note:   req.Note,
	}

	if req.ExDividendDate != "" {
		exDividend, err := parseDate(req.ExDividendDate)
		if err != nil {
			return model.Dividend{}, fmt.Errorf("invalid exDividendDate: %w", err)
		}
		d.ExDividendDate = &exDividend
	}

	if req.PaymentDate != "" {
		paid, err := parseDate(req.PaymentDate)
		if err != nil {
			return model.Dividend{}, fmt.Errorf("invalid paymentDate: %w", err)
		}
		d.PaymentDate = paid
	} else if d.ExDividendDate != nil {
		d.PaymentDate = d.ExDividendDate.Add(PaymentLag)
	}

	if err := s.dividendRepo.InsertDividend(ctx, d); err != nil {
		return model.Dividend{}, fmt.Errorf("failed to create dividend: %w", err)
	}

	return d, nil
}

// UpdateDividend applies the provided fields to an existing dividend.
// An empty exDividendDate clears it.
func (s *DividendService) UpdateDividend(ctx context.Context, dividendID string, req request.UpdateDividendRequest) (model.Dividend, error) {
	d, err := s.dividendRepo.GetDividend(dividendID)
	if err != nil {
		return model.Dividend{}, err
	}

	if req.PaymentDate != nil {
		paid, err := parseDate(*req.PaymentDate)
		if err != nil {
			return model.Dividend{}, fmt.Errorf("invalid paymentDate: %w", err)
		}
		d.PaymentDate = paid
	}
	if req.ExDividendDate != nil {
		if *req.ExDividendDate == "" {
			d.ExDividendDate = nil
		} else {
			exDividend, err := parseDate(*req.ExDividendDate)
			if err != nil {
				return model.Dividend{}, fmt.Errorf("invalid exDividendDate: %w", err)
			}
			d.ExDividendDate = &exDividend
		}
	}
	if req.Ticker != nil {
		d.Ticker = *req.Ticker
	}
	if req.Amount != nil {
		d.Amount = *req.Amount
	}
	if req.Note != nil {
		d.Note = *req.Note
	}

	if err := s.dividendRepo.UpdateDividend(ctx, d); err != nil {
		return model.Dividend{}, fmt.Errorf("failed to update dividend: %w", err)
	}

	return d, nil
}

// DeleteDividend removes a dividend record.
// Returns apperrors.ErrDividendNotFound if it does not exist.
func (s *DividendService) DeleteDividend(ctx context.Context, dividendID string) error {
	return s.dividendRepo.DeleteDividend(ctx, dividendID)
}

// GetAnalysis aggregates the dividend ledger for the selected year.
// A zero year selects asOf's year; a nil goal uses the stored monthly goal.
func (s *DividendService) GetAnalysis(year int, asOf time.Time, goal *float64) (model.DividendAnalysis, error) {
	dividends, err := s.dividendRepo.GetDividends()
	if err != nil {
		return model.DividendAnalysis{}, err
	}

	holdings, err := s.holdingRepo.GetHoldings()
	if err != nil {
		return model.DividendAnalysis{}, err
	}

	var monthlyGoal float64
	if goal != nil {
		monthlyGoal = *goal
	} else {
		settings, err := s.settingsService.GetSettings()
		if err != nil {
			return model.DividendAnalysis{}, err
		}
		monthlyGoal = settings.MonthlyDividendGoal
	}

	if year == 0 {
		year = asOf.Year()
	}

	return valuation.AnalyzeDividends(dividends, holdings, year, asOf, monthlyGoal), nil
}
