package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
)

// SettingRepository provides data access methods for the setting key/value table.
// Values are stored as text; numeric helpers convert on the way in and out.
type SettingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// WithTx returns a new SettingRepository scoped to the provided transaction.
func (r *SettingRepository) WithTx(tx *sql.Tx) *SettingRepository {
	return &SettingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SettingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetSetting returns the raw value stored under key.
// Returns ErrSettingNotFound if the key has never been written.
func (r *SettingRepository) GetSetting(key string) (string, error) {
	var value string
	err := r.getQuerier().QueryRow(`SELECT value FROM setting WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrSettingNotFound
		}
		return "", fmt.Errorf("failed to query setting %s: %w", key, err)
	}
	return value, nil
}

// GetFloat returns the numeric value stored under key, or def when the key is unset.
func (r *SettingRepository) GetFloat(key string, def float64) (float64, error) {
	value, err := r.GetSetting(key)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return def, nil
	}
	if err != nil {
		return 0, err
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("setting %s holds a non-numeric value %q: %w", key, value, err)
	}
	return f, nil
}

// SetSetting inserts or replaces the value stored under key.
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO setting (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
    `
	if _, err := r.getQuerier().ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// SetFloat stores a numeric value under key.
func (r *SettingRepository) SetFloat(ctx context.Context, key string, value float64) error {
	return r.SetSetting(ctx, key, strconv.FormatFloat(value, 'f', -1, 64))
}
