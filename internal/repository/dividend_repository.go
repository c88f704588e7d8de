package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

// DividendRepository provides data access methods for the dividend table.
type DividendRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewDividendRepository creates a new DividendRepository with the provided database connection.
func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

// WithTx returns a new DividendRepository scoped to the provided transaction.
func (r *DividendRepository) WithTx(tx *sql.Tx) *DividendRepository {
	return &DividendRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *DividendRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const dividendColumns = `id, payment_date, ex_dividend_date, ticker, amount, note`

// GetDividends retrieves all dividend records, newest payment first.
// Returns an empty slice if no dividends are found.
func (r *DividendRepository) GetDividends() ([]model.Dividend, error) {
	query := `SELECT ` + dividendColumns + ` FROM dividend ORDER BY payment_date DESC, created_at DESC, id ASC`

	rows, err := r.getQuerier().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend table: %w", err)
	}
	defer rows.Close()

	dividends := []model.Dividend{}
	for rows.Next() {
		d, err := scanDividend(rows)
		if err != nil {
			return nil, err
		}
		dividends = append(dividends, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend table: %w", err)
	}

	return dividends, nil
}

// GetDividend retrieves a single dividend record by ID.
// Returns ErrDividendNotFound if no record with the given ID exists.
func (r *DividendRepository) GetDividend(dividendID string) (model.Dividend, error) {
	query := `SELECT ` + dividendColumns + ` FROM dividend WHERE id = ?`

	d, err := scanDividend(r.getQuerier().QueryRow(query, dividendID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Dividend{}, apperrors.ErrDividendNotFound
		}
		return model.Dividend{}, err
	}
	return d, nil
}

// InsertDividend stores a new dividend record.
func (r *DividendRepository) InsertDividend(ctx context.Context, d model.Dividend) error {
	query := `
        INSERT INTO dividend (id, payment_date, ex_dividend_date, ticker, amount, note)
        VALUES (?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query, dividendArgs(d)...)
	if err != nil {
		return fmt.Errorf("failed to insert dividend: %w", err)
	}

	return nil
}

// UpdateDividend overwrites every editable field of a dividend record.
// Returns ErrDividendNotFound if no record with the given ID exists.
func (r *DividendRepository) UpdateDividend(ctx context.Context, d model.Dividend) error {
	query := `
        UPDATE dividend
        SET payment_date = ?, ex_dividend_date = ?, ticker = ?, amount = ?, note = ?
        WHERE id = ?
    `

	args := append(dividendArgs(d)[1:], d.ID)
	result, err := r.getQuerier().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update dividend: %w", err)
	}

	return requireAffected(result, apperrors.ErrDividendNotFound)
}

// DeleteDividend removes a dividend record by its ID.
// Returns ErrDividendNotFound if no record with the given ID exists.
func (r *DividendRepository) DeleteDividend(ctx context.Context, dividendID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM dividend WHERE id = ?`, dividendID)
	if err != nil {
		return fmt.Errorf("failed to delete dividend: %w", err)
	}

	return requireAffected(result, apperrors.ErrDividendNotFound)
}

// ReplaceDividends deletes every dividend record and inserts the given ones.
// Callers should scope the repository to a transaction.
func (r *DividendRepository) ReplaceDividends(ctx context.Context, dividends []model.Dividend) error {
	q := r.getQuerier()

	if _, err := q.ExecContext(ctx, `DELETE FROM dividend`); err != nil {
		return fmt.Errorf("failed to clear dividend table: %w", err)
	}

	query := `
        INSERT INTO dividend (id, payment_date, ex_dividend_date, ticker, amount, note)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	for _, d := range dividends {
		if _, err := q.ExecContext(ctx, query, dividendArgs(d)...); err != nil {
			return fmt.Errorf("failed to insert dividend %s: %w", d.ID, err)
		}
	}

	return nil
}

func dividendArgs(d model.Dividend) []any {
	var exDividend sql.NullString
	if d.ExDividendDate != nil {
		exDividend = sql.NullString{String: formatDate(*d.ExDividendDate), Valid: true}
	}
	return []any{
		d.ID,
		formatDate(d.PaymentDate),
		exDividend,
		d.Ticker,
		d.Amount,
		d.Note,
	}
}

func scanDividend(row rowScanner) (model.Dividend, error) {
	var d model.Dividend
	var paymentDateStr string
	var exDividendStr sql.NullString

	err := row.Scan(
		&d.ID,
		&paymentDateStr,
		&exDividendStr,
		&d.Ticker,
		&d.Amount,
		&d.Note,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Dividend{}, err
		}
		return model.Dividend{}, fmt.Errorf("failed to scan dividend table results: %w", err)
	}

	d.PaymentDate, err = ParseTime(paymentDateStr)
	if err != nil || d.PaymentDate.IsZero() {
		return model.Dividend{}, fmt.Errorf("failed to parse payment_date: %w", err)
	}

	// ExDividendDate is nullable
	if exDividendStr.Valid {
		exDividend, err := ParseTime(exDividendStr.String)
		if err != nil || exDividend.IsZero() {
			return model.Dividend{}, fmt.Errorf("failed to parse ex_dividend_date: %w", err)
		}
		d.ExDividendDate = &exDividend
	}

	return d, nil
}
