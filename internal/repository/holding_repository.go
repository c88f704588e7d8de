package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
// Holdings are returned in their display order (the position column).
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const holdingColumns = `id, name, code, instrument_class, quantity, avg_price, current_price`

// GetHoldings retrieves all holdings in display order.
// Returns an empty slice if no holdings are found.
func (r *HoldingRepository) GetHoldings() ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding ORDER BY position ASC, created_at ASC, id ASC`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// GetHolding retrieves a single holding by ID.
// Returns ErrHoldingNotFound if no holding with the given ID exists.
func (r *HoldingRepository) GetHolding(holdingID string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE id = ?`

	h, err := scanHolding(r.getQuerier().QueryRow(query, holdingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Holding{}, apperrors.ErrHoldingNotFound
		}
		return model.Holding{}, err
	}
	return h, nil
}

// InsertHolding appends a holding at the end of the display order.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h model.Holding) error {
	query := `
        INSERT INTO holding (id, name, code, instrument_class, quantity, avg_price, current_price, position)
        VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM holding))
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		h.ID,
		h.Name,
		h.Code,
		string(h.Class),
		h.Quantity,
		h.AvgPrice,
		h.CurrentPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}

	return nil
}

// UpdateHolding overwrites every editable field of a holding.
// Returns ErrHoldingNotFound if no record with the given ID exists.
func (r *HoldingRepository) UpdateHolding(ctx context.Context, h model.Holding) error {
	query := `
        UPDATE holding
        SET name = ?, code = ?, instrument_class = ?, quantity = ?, avg_price = ?, current_price = ?
        WHERE id = ?
    `

	result, err := r.getQuerier().ExecContext(ctx, query,
		h.Name,
		h.Code,
		string(h.Class),
		h.Quantity,
		h.AvgPrice,
		h.CurrentPrice,
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	return requireAffected(result, apperrors.ErrHoldingNotFound)
}

// UpdateCurrentPriceByCode sets the current price of every holding with the given code.
// Returns the number of holdings changed; duplicate codes all receive the price.
func (r *HoldingRepository) UpdateCurrentPriceByCode(ctx context.Context, code string, price float64) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `UPDATE holding SET current_price = ? WHERE code = ?`, price, code)
	if err != nil {
		return 0, fmt.Errorf("failed to update current price for %s: %w", code, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// DeleteHolding removes a holding by its ID.
// Returns ErrHoldingNotFound if no record with the given ID exists.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, holdingID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM holding WHERE id = ?`, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	return requireAffected(result, apperrors.ErrHoldingNotFound)
}

// ReplaceHoldings deletes every holding and inserts the given ones in order.
// Callers should scope the repository to a transaction.
func (r *HoldingRepository) ReplaceHoldings(ctx context.Context, holdings []model.Holding) error {
	q := r.getQuerier()

	if _, err := q.ExecContext(ctx, `DELETE FROM holding`); err != nil {
		return fmt.Errorf("failed to clear holding table: %w", err)
	}

	query := `
        INSERT INTO holding (id, name, code, instrument_class, quantity, avg_price, current_price, position)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	for i, h := range holdings {
		_, err := q.ExecContext(ctx, query,
			h.ID,
			h.Name,
			h.Code,
			string(h.Class),
			h.Quantity,
			h.AvgPrice,
			h.CurrentPrice,
			i+1,
		)
		if err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.ID, err)
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (model.Holding, error) {
	var h model.Holding
	var class string

	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Code,
		&class,
		&h.Quantity,
		&h.AvgPrice,
		&h.CurrentPrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Holding{}, err
		}
		return model.Holding{}, fmt.Errorf("failed to scan holding table results: %w", err)
	}
	h.Class = model.InstrumentClass(class)

	return h, nil
}

// requireAffected returns notFound when the statement touched no rows.
func requireAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
