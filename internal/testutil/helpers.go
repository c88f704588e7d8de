package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/config"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/valuation"
)

// DefaultSettings are the setting fallbacks used by test services.
var DefaultSettings = model.Settings{
	Cash:                0,
	MonthlyDividendGoal: 0,
	TargetStockFraction: valuation.DefaultTargetStockFraction,
}

// NewTestHoldingService creates a HoldingService backed by a mock price source
// that resolves nothing.
func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()
	return NewTestHoldingServiceWithQuotes(t, db, NewMockPriceSource(nil))
}

// NewTestHoldingServiceWithQuotes creates a HoldingService using the given quote fetcher.
func NewTestHoldingServiceWithQuotes(t *testing.T, db *sql.DB, quotes service.QuoteFetcher) *service.HoldingService {
	t.Helper()

	return service.NewHoldingService(
		db,
		repository.NewHoldingRepository(db),
		valuation.DefaultRules,
		quotes,
		0,
		nil,
	)
}

func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()
	return service.NewSettingsService(db, repository.NewSettingRepository(db), DefaultSettings)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()
	return service.NewPortfolioService(NewTestHoldingService(t, db), NewTestSettingsService(t, db))
}

func NewTestDividendService(t *testing.T, db *sql.DB) *service.DividendService {
	t.Helper()

	return service.NewDividendService(
		repository.NewDividendRepository(db),
		repository.NewHoldingRepository(db),
		NewTestSettingsService(t, db),
	)
}

func NewTestSnapshotService(t *testing.T, db *sql.DB) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		db,
		repository.NewHoldingRepository(db),
		repository.NewDividendRepository(db),
		repository.NewSettingRepository(db),
		valuation.DefaultRules,
		nil,
	)
}

// NewTestBackupService creates a BackupService writing to dir. An empty key
// writes plain CSV.
func NewTestBackupService(t *testing.T, db *sql.DB, dir, key string) *service.BackupService {
	t.Helper()

	svc, err := service.NewBackupService(NewTestSnapshotService(t, db), config.BackupConfig{
		Dir: dir,
		Key: key,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create backup service: %v", err)
	}
	return svc
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, false)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeCode generates a numeric-looking instrument code for testing.
//
// Example usage:
//
//	code := testutil.MakeCode()
//	// Returns: "00A7K2"
func MakeCode() string {
	return "00" + randomAlphanumeric(4)
}

// MakeHoldingName generates a unique holding name for testing.
//
// Example usage:
//
//	name := testutil.MakeHoldingName("Taiwan 50")
//	// Returns: "Taiwan 50 ABC123"
func MakeHoldingName(base string) string {
	if base == "" {
		base = "Holding"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
