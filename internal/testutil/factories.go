package testutil

import (
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	// Simple creation with defaults
//	holding := testutil.NewHolding().Build(t, db)
//
//	// Customized holding
//	holding := testutil.NewHolding().
//	    WithCode("0050").
//	    WithQuantity(10000).
//	    WithPrices(137.17, 140.1).
//	    Build(t, db)
type HoldingBuilder struct {
	ID           string
	Name         string
	Code         string
	Class        model.InstrumentClass
	Quantity     float64
	AvgPrice     float64
	CurrentPrice float64
	Position     int
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding() *HoldingBuilder {
	return &HoldingBuilder{
		ID:           MakeID(),
		Name:         MakeHoldingName("Test ETF"),
		Code:         MakeCode(),
		Class:        model.ClassStock,
		Quantity:     1000,
		AvgPrice:     100,
		CurrentPrice: 110,
	}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id string) *HoldingBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *HoldingBuilder) WithName(name string) *HoldingBuilder {
	b.Name = name
	return b
}

// WithCode sets the instrument code.
func (b *HoldingBuilder) WithCode(code string) *HoldingBuilder {
	b.Code = code
	return b
}

// WithQuantity sets the number of units held.
func (b *HoldingBuilder) WithQuantity(qty float64) *HoldingBuilder {
	b.Quantity = qty
	return b
}

// WithPrices sets the average and current price.
func (b *HoldingBuilder) WithPrices(avgPrice, currentPrice float64) *HoldingBuilder {
	b.AvgPrice = avgPrice
	b.CurrentPrice = currentPrice
	return b
}

// WithPosition sets the display position.
func (b *HoldingBuilder) WithPosition(position int) *HoldingBuilder {
	b.Position = position
	return b
}

// Bond marks the holding as a bond fund.
func (b *HoldingBuilder) Bond() *HoldingBuilder {
	b.Class = model.ClassBond
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	position := b.Position
	if position == 0 {
		if err := db.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM holding`).Scan(&position); err != nil {
			t.Fatalf("Failed to read holding position: %v", err)
		}
	}

	query := `
		INSERT INTO holding (id, name, code, instrument_class, quantity, avg_price, current_price, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Code, string(b.Class), b.Quantity, b.AvgPrice, b.CurrentPrice, position)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:           b.ID,
		Name:         b.Name,
		Code:         b.Code,
		Class:        b.Class,
		Quantity:     b.Quantity,
		AvgPrice:     b.AvgPrice,
		CurrentPrice: b.CurrentPrice,
	}
}

// CreateHolding creates a stock holding with the given code and default values.
//
// Example usage:
//
//	holding := testutil.CreateHolding(t, db, "0050")
func CreateHolding(t *testing.T, db *sql.DB, code string) model.Holding {
	t.Helper()
	return NewHolding().WithCode(code).Build(t, db)
}

// DividendBuilder provides a fluent interface for creating test dividends.
//
// Example usage:
//
//	dividend := testutil.NewDividend("0050").
//	    WithPaymentDate(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)).
//	    WithAmount(4000).
//	    Build(t, db)
type DividendBuilder struct {
	ID             string
	PaymentDate    time.Time
	ExDividendDate *time.Time
	Ticker         string
	Amount         float64
	Note           string
}

// NewDividend creates a DividendBuilder for ticker with sensible defaults.
func NewDividend(ticker string) *DividendBuilder {
	return &DividendBuilder{
		ID:          MakeID(),
		PaymentDate: time.Now().UTC().AddDate(0, -1, 0).Truncate(24 * time.Hour),
		Ticker:      ticker,
		Amount:      1000,
	}
}

// WithID sets a custom ID.
func (b *DividendBuilder) WithID(id string) *DividendBuilder {
	b.ID = id
	return b
}

// WithPaymentDate sets the payment date.
func (b *DividendBuilder) WithPaymentDate(date time.Time) *DividendBuilder {
	b.PaymentDate = date
	return b
}

// WithExDividendDate sets the ex-dividend date.
func (b *DividendBuilder) WithExDividendDate(date time.Time) *DividendBuilder {
	b.ExDividendDate = &date
	return b
}

// WithAmount sets the amount paid.
func (b *DividendBuilder) WithAmount(amount float64) *DividendBuilder {
	b.Amount = amount
	return b
}

// WithNote sets the free-text note.
func (b *DividendBuilder) WithNote(note string) *DividendBuilder {
	b.Note = note
	return b
}

// Build creates the dividend in the database and returns it.
func (b *DividendBuilder) Build(t *testing.T, db *sql.DB) model.Dividend {
	t.Helper()

	var exDividend any
	if b.ExDividendDate != nil {
		exDividend = b.ExDividendDate.UTC().Format("2006-01-02")
	}

	query := `
		INSERT INTO dividend (id, payment_date, ex_dividend_date, ticker, amount, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PaymentDate.UTC().Format("2006-01-02"), exDividend, b.Ticker, b.Amount, b.Note)
	if err != nil {
		t.Fatalf("Failed to create test dividend: %v", err)
	}

	return model.Dividend{
		ID:             b.ID,
		PaymentDate:    b.PaymentDate,
		ExDividendDate: b.ExDividendDate,
		Ticker:         b.Ticker,
		Amount:         b.Amount,
		Note:           b.Note,
	}
}

// SetSetting writes a raw setting value.
//
// Example usage:
//
//	testutil.SetSetting(t, db, model.SettingTargetStockFraction, "0.7")
func SetSetting(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()

	_, err := db.Exec(`INSERT OR REPLACE INTO setting (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		t.Fatalf("Failed to set setting %s: %v", key, err)
	}
}

// SetCash stores the cash balance.
func SetCash(t *testing.T, db *sql.DB, amount float64) {
	t.Helper()
	SetSetting(t, db, model.SettingCash, strconv.FormatFloat(amount, 'f', -1, 64))
}
