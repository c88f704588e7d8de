package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/snapshot"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/valuation"
)

// SnapshotService exports and imports the full portfolio state as CSV.
type SnapshotService struct {
	db           *sql.DB
	holdingRepo  *repository.HoldingRepository
	dividendRepo *repository.DividendRepository
	settingRepo  *repository.SettingRepository
	rules        valuation.Rules
	logger       *zap.Logger
	now          func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	dividendRepo *repository.DividendRepository,
	settingRepo *repository.SettingRepository,
	rules valuation.Rules,
	logger *zap.Logger,
) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		db:           db,
		holdingRepo:  holdingRepo,
		dividendRepo: dividendRepo,
		settingRepo:  settingRepo,
		rules:        rules,
		logger:       logger,
		now:          time.Now,
	}
}

// Current loads the state a snapshot carries.
func (s *SnapshotService) Current() (model.Snapshot, error) {
	holdings, err := s.holdingRepo.GetHoldings()
	if err != nil {
		return model.Snapshot{}, err
	}

	dividends, err := s.dividendRepo.GetDividends()
	if err != nil {
		return model.Snapshot{}, err
	}

	cash, err := s.settingRepo.GetFloat(model.SettingCash, 0)
	if err != nil {
		return model.Snapshot{}, err
	}

	return model.Snapshot{Cash: cash, Holdings: holdings, Dividends: dividends}, nil
}

// Export renders the current state as snapshot CSV.
func (s *SnapshotService) Export() ([]byte, error) {
	current, err := s.Current()
	if err != nil {
		return nil, err
	}
	return snapshot.Export(current, s.rules, s.now()), nil
}

// Import parses data and replaces holdings, dividends and cash with its contents.
// Parsing completes before anything is written, so malformed input leaves the
// stored state untouched. With dryRun the parsed snapshot is returned unapplied.
func (s *SnapshotService) Import(ctx context.Context, data []byte, dryRun bool) (model.ImportResponse, error) {
	parsed, err := snapshot.Parse(data)
	if err != nil {
		s.logger.Warn("Rejected snapshot import",
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return model.ImportResponse{}, err
	}

	resp := model.ImportResponse{
		DryRun:        dryRun,
		HoldingCount:  len(parsed.Holdings),
		DividendCount: len(parsed.Dividends),
		Snapshot:      parsed,
	}
	if dryRun {
		return resp, nil
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.holdingRepo.WithTx(tx).ReplaceHoldings(ctx, parsed.Holdings); err != nil {
			return err
		}
		if err := s.dividendRepo.WithTx(tx).ReplaceDividends(ctx, parsed.Dividends); err != nil {
			return err
		}
		return s.settingRepo.WithTx(tx).SetFloat(ctx, model.SettingCash, parsed.Cash)
	})
	if err != nil {
		return model.ImportResponse{}, fmt.Errorf("failed to apply snapshot: %w", err)
	}

	s.logger.Info("Imported snapshot",
		zap.Int("holdings", resp.HoldingCount),
		zap.Int("dividends", resp.DividendCount),
		zap.Float64("cash", parsed.Cash))

	resp.Applied = true
	return resp, nil
}
