package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/testutil"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/valuation"
)

func TestSettingsService(t *testing.T) {
	ctx := context.Background()

	t.Run("returns defaults when nothing stored", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		// Execute
		settings, err := svc.GetSettings()

		// Assert
		if err != nil {
			t.Fatalf("GetSettings() returned unexpected error: %v", err)
		}
		if settings.Cash != 0 || settings.TargetStockFraction != valuation.DefaultTargetStockFraction {
			t.Errorf("Unexpected defaults: %+v", settings)
		}
	})

	t.Run("set cash", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		// Execute
		if err := svc.SetCash(ctx, 123456); err != nil {
			t.Fatalf("SetCash() returned unexpected error: %v", err)
		}

		// Assert
		cash, err := svc.GetCash()
		if err != nil {
			t.Fatalf("GetCash() returned unexpected error: %v", err)
		}
		if cash != 123456 {
			t.Errorf("GetCash() = %v, want 123456", cash)
		}
	})

	t.Run("update stores only provided fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)
		testutil.SetCash(t, db, 500)

		// Execute
		settings, err := svc.UpdateSettings(ctx, request.UpdateSettingsRequest{
			MonthlyDividendGoal: ptr(20000.0),
			TargetStockFraction: ptr(0.7),
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateSettings() returned unexpected error: %v", err)
		}
		if settings.Cash != 500 || settings.MonthlyDividendGoal != 20000 || settings.TargetStockFraction != 0.7 {
			t.Errorf("Unexpected settings: %+v", settings)
		}
		testutil.AssertRowCount(t, db, "setting", 3)
	})
}
