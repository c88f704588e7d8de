package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/pricesource"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/valuation"
)

// QuoteFetcher resolves holding codes to latest prices.
// *pricesource.Chain satisfies it.
type QuoteFetcher interface {
	Fetch(ctx context.Context, codes []string) (pricesource.Result, error)
}

// HoldingService handles holding-related business logic operations.
type HoldingService struct {
	db             *sql.DB
	holdingRepo    *repository.HoldingRepository
	rules          valuation.Rules
	quotes         QuoteFetcher
	refreshTimeout time.Duration
	logger         *zap.Logger
}

// NewHoldingService creates a new HoldingService.
// A zero refreshTimeout leaves price refreshes bounded only by the caller's context.
func NewHoldingService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	rules valuation.Rules,
	quotes QuoteFetcher,
	refreshTimeout time.Duration,
	logger *zap.Logger,
) *HoldingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HoldingService{
		db:             db,
		holdingRepo:    holdingRepo,
		rules:          rules,
		quotes:         quotes,
		refreshTimeout: refreshTimeout,
		logger:         logger,
	}
}

// Rules returns the fee/tax rule set used for valuation.
func (s *HoldingService) Rules() valuation.Rules {
	return s.rules
}

// GetHoldings retrieves the raw holdings in display order.
func (s *HoldingService) GetHoldings() ([]model.Holding, error) {
	return s.holdingRepo.GetHoldings()
}

// GetCalculatedHoldings retrieves every holding enriched with its valuation.
func (s *HoldingService) GetCalculatedHoldings() ([]model.CalculatedHolding, error) {
	holdings, err := s.holdingRepo.GetHoldings()
	if err != nil {
		return nil, err
	}
	return s.rules.EnrichAll(holdings), nil
}

// GetHolding retrieves a single enriched holding.
// Returns apperrors.ErrHoldingNotFound if it does not exist.
func (s *HoldingService) GetHolding(holdingID string) (model.CalculatedHolding, error) {
	h, err := s.holdingRepo.GetHolding(holdingID)
	if err != nil {
		return model.CalculatedHolding{}, err
	}
	return s.rules.Enrich(h), nil
}

// CreateHolding adds a holding at the end of the list.
func (s *HoldingService) CreateHolding(ctx context.Context, req request.CreateHoldingRequest) (model.CalculatedHolding, error) {
	h := model.Holding{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Code:         req.Code,
		Class:        model.InstrumentClass(strings.ToUpper(req.Type)),
		Quantity:     req.Quantity,
		AvgPrice:     req.AvgPrice,
		CurrentPrice: req.CurrentPrice,
	}

	if err := s.holdingRepo.InsertHolding(ctx, h); err != nil {
		return model.CalculatedHolding{}, fmt.Errorf("failed to create holding: %w", err)
	}

	return s.rules.Enrich(h), nil
}

// UpdateHolding applies the provided fields to an existing holding.
// Omitted fields remain unchanged.
func (s *HoldingService) UpdateHolding(ctx context.Context, holdingID string, req request.UpdateHoldingRequest) (model.CalculatedHolding, error) {
	h, err := s.holdingRepo.GetHolding(holdingID)
	if err != nil {
		return model.CalculatedHolding{}, err
	}

	if req.Name != nil {
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		h.Code = *req.Code
	}
	if req.Type != nil {
		h.Class = model.InstrumentClass(strings.ToUpper(*req.Type))
	}
	if req.Quantity != nil {
		h.Quantity = *req.Quantity
	}
	if req.AvgPrice != nil {
		h.AvgPrice = *req.AvgPrice
	}
	if req.CurrentPrice != nil {
		h.CurrentPrice = *req.CurrentPrice
	}

	if err := s.holdingRepo.UpdateHolding(ctx, h); err != nil {
		return model.CalculatedHolding{}, fmt.Errorf("failed to update holding: %w", err)
	}

	return s.rules.Enrich(h), nil
}

// DeleteHolding removes a holding.
// Returns apperrors.ErrHoldingNotFound if it does not exist.
func (s *HoldingService) DeleteHolding(ctx context.Context, holdingID string) error {
	return s.holdingRepo.DeleteHolding(ctx, holdingID)
}

// ApplyPrices sets the current price of every holding whose code appears in prices.
// Holdings whose code is absent keep their price, and codes matching no holding
// are reported as unresolved. All updates commit together or not at all.
func (s *HoldingService) ApplyPrices(ctx context.Context, prices map[string]float64) (*model.PriceUpdateResponse, error) {
	resp := &model.PriceUpdateResponse{
		UpdatedHoldings: []model.UpdatedHolding{},
		Unresolved:      []string{},
		Quotes:          prices,
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := s.holdingRepo.WithTx(tx)

		holdings, err := repo.GetHoldings()
		if err != nil {
			return err
		}

		byCode := make(map[string][]model.Holding)
		for _, h := range holdings {
			byCode[h.Code] = append(byCode[h.Code], h)
		}

		codes := make([]string, 0, len(prices))
		for code := range prices {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			matched := byCode[code]
			if len(matched) == 0 {
				resp.Unresolved = append(resp.Unresolved, code)
				continue
			}

			price := prices[code]
			if _, err := repo.UpdateCurrentPriceByCode(ctx, code, price); err != nil {
				return err
			}
			for _, h := range matched {
				if h.CurrentPrice == price {
					continue
				}
				resp.UpdatedHoldings = append(resp.UpdatedHoldings, model.UpdatedHolding{
					HoldingID: h.ID,
					Name:      h.Name,
					Code:      h.Code,
					OldPrice:  h.CurrentPrice,
					NewPrice:  price,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToUpdatePrices, err)
	}

	resp.TotalUpdated = len(resp.UpdatedHoldings)
	return resp, nil
}

// RefreshPrices fetches quotes for every held code and applies them.
// When no source can be reached the stored prices are left untouched and the
// error wraps apperrors.ErrQuoteServiceUnavailable.
func (s *HoldingService) RefreshPrices(ctx context.Context) (*model.PriceUpdateResponse, error) {
	holdings, err := s.holdingRepo.GetHoldings()
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(holdings))
	for _, h := range holdings {
		codes = append(codes, h.Code)
	}
	codes = distinctCodes(codes)
	if len(codes) == 0 {
		return nil, apperrors.ErrNoCodesToQuote
	}

	if s.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.refreshTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.quotes.Fetch(ctx, codes)
	if err != nil {
		s.logger.Error("Price refresh failed",
			zap.Int("codes", len(codes)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	resp, err := s.ApplyPrices(ctx, result.Quotes)
	if err != nil {
		return nil, err
	}
	resp.Source = result.Source

	for _, code := range codes {
		if _, ok := result.Quotes[code]; !ok {
			resp.Unresolved = append(resp.Unresolved, code)
		}
	}

	s.logger.Info("Prices refreshed",
		zap.String("source", result.Source),
		zap.Int("codes", len(codes)),
		zap.Int("updated", resp.TotalUpdated),
		zap.Strings("unresolved", resp.Unresolved),
		zap.Duration("elapsed", time.Since(start)))

	return resp, nil
}
