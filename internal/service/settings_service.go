package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/repository"
)

// SettingsService handles the cash balance and user preferences.
// Values never written fall back to the configured defaults.
type SettingsService struct {
	db          *sql.DB
	settingRepo *repository.SettingRepository
	defaults    model.Settings
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *sql.DB, settingRepo *repository.SettingRepository, defaults model.Settings) *SettingsService {
	return &SettingsService{
		db:          db,
		settingRepo: settingRepo,
		defaults:    defaults,
	}
}

// GetSettings returns every setting, defaults applied.
func (s *SettingsService) GetSettings() (model.Settings, error) {
	var (
		out model.Settings
		err error
	)
	if out.Cash, err = s.settingRepo.GetFloat(model.SettingCash, s.defaults.Cash); err != nil {
		return model.Settings{}, err
	}
	if out.MonthlyDividendGoal, err = s.settingRepo.GetFloat(model.SettingMonthlyDividendGoal, s.defaults.MonthlyDividendGoal); err != nil {
		return model.Settings{}, err
	}
	if out.TargetStockFraction, err = s.settingRepo.GetFloat(model.SettingTargetStockFraction, s.defaults.TargetStockFraction); err != nil {
		return model.Settings{}, err
	}
	return out, nil
}

// GetCash returns the uninvested cash balance.
func (s *SettingsService) GetCash() (float64, error) {
	return s.settingRepo.GetFloat(model.SettingCash, s.defaults.Cash)
}

// SetCash stores the uninvested cash balance.
func (s *SettingsService) SetCash(ctx context.Context, amount float64) error {
	if err := s.settingRepo.SetFloat(ctx, model.SettingCash, amount); err != nil {
		return fmt.Errorf("failed to set cash: %w", err)
	}
	return nil
}

// UpdateSettings stores the provided settings together and returns the result.
func (s *SettingsService) UpdateSettings(ctx context.Context, req request.UpdateSettingsRequest) (model.Settings, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := s.settingRepo.WithTx(tx)
		updates := []struct {
			key   string
			value *float64
		}{
			{model.SettingCash, req.Cash},
			{model.SettingMonthlyDividendGoal, req.MonthlyDividendGoal},
			{model.SettingTargetStockFraction, req.TargetStockFraction},
		}
		for _, u := range updates {
			if u.value == nil {
				continue
			}
			if err := repo.SetFloat(ctx, u.key, *u.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}

	return s.GetSettings()
}
