package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func TestHoldingService_GetCalculatedHoldings(t *testing.T) {
	t.Run("returns empty slice when no holdings exist", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		// Execute
		holdings, err := svc.GetCalculatedHoldings()

		// Assert
		if err != nil {
			t.Fatalf("GetCalculatedHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 0 {
			t.Errorf("Expected empty slice, got %d holdings", len(holdings))
		}
	})

	t.Run("enriches holdings with fees and tax", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)
		testutil.NewHolding().WithQuantity(22000).WithPrices(62.35, 63.7).Build(t, db)

		// Execute
		holdings, err := svc.GetCalculatedHoldings()

		// Assert
		if err != nil {
			t.Fatalf("GetCalculatedHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].Cost != 1372247 || holdings[0].PresentValue != 1399439 {
			t.Errorf("Cost/PresentValue = %v/%v, want 1372247/1399439", holdings[0].Cost, holdings[0].PresentValue)
		}
		if holdings[0].Profit != 27192 {
			t.Errorf("Profit = %v, want 27192", holdings[0].Profit)
		}
	})
}

func TestHoldingService_CRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create normalises type and trims name", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		// Execute
		h, err := svc.CreateHolding(ctx, request.CreateHoldingRequest{
			Name:         "  Yuanta US Treasury 20+  ",
			Code:         "00679B",
			Type:         "bond",
			Quantity:     1000,
			AvgPrice:     100,
			CurrentPrice: 110,
		})

		// Assert
		if err != nil {
			t.Fatalf("CreateHolding() returned unexpected error: %v", err)
		}
		if h.ID == "" {
			t.Error("Expected generated ID")
		}
		if h.Class != model.ClassBond || h.Name != "Yuanta US Treasury 20+" {
			t.Errorf("Unexpected holding: %+v", h.Holding)
		}
		// Bonds carry no transaction tax: 110000 − 43.89
		if h.PresentValue != 109956 {
			t.Errorf("PresentValue = %v, want 109956", h.PresentValue)
		}
		testutil.AssertRowCount(t, db, "holding", 1)
	})

	t.Run("update changes only provided fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)
		existing := testutil.NewHolding().WithCode("0050").Build(t, db)

		// Execute
		h, err := svc.UpdateHolding(ctx, existing.ID, request.UpdateHoldingRequest{
			Quantity: ptr(2500.0),
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateHolding() returned unexpected error: %v", err)
		}
		if h.Quantity != 2500 || h.Code != "0050" || h.Name != existing.Name {
			t.Errorf("Unexpected holding after update: %+v", h.Holding)
		}

		stored, _ := svc.GetHolding(existing.ID)
		if stored.Quantity != 2500 {
			t.Errorf("Stored quantity = %v, want 2500", stored.Quantity)
		}
	})

	t.Run("missing holding", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		// Execute / Assert
		if _, err := svc.GetHolding("missing"); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("GetHolding() error = %v, want ErrHoldingNotFound", err)
		}
		if _, err := svc.UpdateHolding(ctx, "missing", request.UpdateHoldingRequest{}); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("UpdateHolding() error = %v, want ErrHoldingNotFound", err)
		}
		if err := svc.DeleteHolding(ctx, "missing"); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("DeleteHolding() error = %v, want ErrHoldingNotFound", err)
		}
	})
}

// TestHoldingService_ApplyPrices tests partial price maps.
//
// WHY: codes can repeat across holdings, and a price map may name codes the
// user does not hold. Neither may fail the whole update.
func TestHoldingService_ApplyPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("updates every holding sharing a code", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)
		a := testutil.NewHolding().WithCode("0056").WithPrices(30, 33).Build(t, db)
		b := testutil.NewHolding().WithCode("0056").WithPrices(31, 33).Build(t, db)
		c := testutil.NewHolding().WithCode("0050").WithPrices(130, 140).Build(t, db)

		// Execute
		resp, err := svc.ApplyPrices(ctx, map[string]float64{"0056": 35.2})

		// Assert
		if err != nil {
			t.Fatalf("ApplyPrices() returned unexpected error: %v", err)
		}
		if resp.TotalUpdated != 2 {
			t.Errorf("TotalUpdated = %d, want 2", resp.TotalUpdated)
		}
		for _, id := range []string{a.ID, b.ID} {
			h, _ := svc.GetHolding(id)
			if h.CurrentPrice != 35.2 {
				t.Errorf("holding %s price = %v, want 35.2", id, h.CurrentPrice)
			}
		}
		h, _ := svc.GetHolding(c.ID)
		if h.CurrentPrice != 140 {
			t.Errorf("holding without a quote changed price to %v", h.CurrentPrice)
		}
	})

	t.Run("reports unknown codes as unresolved", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)
		testutil.NewHolding().WithCode("0050").WithPrices(130, 140).Build(t, db)

		// Execute
		resp, err := svc.ApplyPrices(ctx, map[string]float64{"0050": 140, "9999": 10})

		// Assert
		if err != nil {
			t.Fatalf("ApplyPrices() returned unexpected error: %v", err)
		}
		if len(resp.Unresolved) != 1 || resp.Unresolved[0] != "9999" {
			t.Errorf("Unresolved = %v, want [9999]", resp.Unresolved)
		}
		if resp.TotalUpdated != 0 {
			t.Errorf("Unchanged price counted as update: %+v", resp.UpdatedHoldings)
		}
	})

	t.Run("empty map changes nothing", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)
		testutil.NewHolding().Build(t, db)

		// Execute
		resp, err := svc.ApplyPrices(ctx, map[string]float64{})

		// Assert
		if err != nil {
			t.Fatalf("ApplyPrices() returned unexpected error: %v", err)
		}
		if resp.TotalUpdated != 0 || len(resp.Unresolved) != 0 {
			t.Errorf("Unexpected response: %+v", resp)
		}
	})
}

func TestHoldingService_RefreshPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("applies fetched quotes and lists missing codes", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockPriceSource(map[string]float64{"0050": 141.5})
		svc := testutil.NewTestHoldingServiceWithQuotes(t, db, mock)
		held := testutil.NewHolding().WithCode("0050").WithPrices(130, 140).Build(t, db)
		testutil.NewHolding().WithCode("0050").WithPrices(120, 140).Build(t, db)
		testutil.NewHolding().WithCode("00713").Build(t, db)

		// Execute
		resp, err := svc.RefreshPrices(ctx)

		// Assert
		if err != nil {
			t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
		}
		if resp.Source != "mock" {
			t.Errorf("Source = %q, want mock", resp.Source)
		}
		if len(mock.LastCodes) != 2 {
			t.Errorf("Expected distinct codes to be queried, got %v", mock.LastCodes)
		}
		if resp.TotalUpdated != 2 {
			t.Errorf("TotalUpdated = %d, want 2", resp.TotalUpdated)
		}
		if len(resp.Unresolved) != 1 || resp.Unresolved[0] != "00713" {
			t.Errorf("Unresolved = %v, want [00713]", resp.Unresolved)
		}

		h, _ := svc.GetHolding(held.ID)
		if h.CurrentPrice != 141.5 {
			t.Errorf("CurrentPrice = %v, want 141.5", h.CurrentPrice)
		}
	})

	t.Run("failure leaves prices untouched", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockPriceSource(nil).WithError(apperrors.ErrQuoteServiceUnavailable)
		svc := testutil.NewTestHoldingServiceWithQuotes(t, db, mock)
		held := testutil.NewHolding().WithPrices(100, 110).Build(t, db)

		// Execute
		_, err := svc.RefreshPrices(ctx)

		// Assert
		if !errors.Is(err, apperrors.ErrQuoteServiceUnavailable) {
			t.Fatalf("RefreshPrices() error = %v, want ErrQuoteServiceUnavailable", err)
		}
		h, _ := svc.GetHolding(held.ID)
		if h.CurrentPrice != 110 {
			t.Errorf("CurrentPrice = %v, want 110", h.CurrentPrice)
		}
	})

	t.Run("no holdings means nothing to quote", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockPriceSource(nil)
		svc := testutil.NewTestHoldingServiceWithQuotes(t, db, mock)

		// Execute
		_, err := svc.RefreshPrices(ctx)

		// Assert
		if !errors.Is(err, apperrors.ErrNoCodesToQuote) {
			t.Errorf("RefreshPrices() error = %v, want ErrNoCodesToQuote", err)
		}
		if mock.Calls != 0 {
			t.Errorf("Expected no fetch, got %d calls", mock.Calls)
		}
	})
}
