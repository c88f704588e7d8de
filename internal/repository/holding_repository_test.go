package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/testutil"
)

func TestHoldingRepository_GetHoldings(t *testing.T) {
	t.Run("returns empty slice when no holdings exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		holdings, err := repo.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if holdings == nil || len(holdings) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", holdings)
		}
	})

	t.Run("returns holdings in display order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		second := testutil.NewHolding().WithPosition(2).Build(t, db)
		first := testutil.NewHolding().WithPosition(1).Bond().Build(t, db)

		holdings, err := repo.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 2 {
			t.Fatalf("Expected 2 holdings, got %d", len(holdings))
		}
		if holdings[0].ID != first.ID || holdings[1].ID != second.ID {
			t.Errorf("Expected order [%s %s], got [%s %s]", first.ID, second.ID, holdings[0].ID, holdings[1].ID)
		}
		if holdings[0].Class != model.ClassBond {
			t.Errorf("Expected BOND class, got %q", holdings[0].Class)
		}
	})
}

func TestHoldingRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)

	existing := testutil.NewHolding().Build(t, db)

	h := model.Holding{
		ID:           testutil.MakeID(),
		Name:         "Yuanta Taiwan 50",
		Code:         "0050",
		Class:        model.ClassStock,
		Quantity:     10000,
		AvgPrice:     137.17,
		CurrentPrice: 140.1,
	}

	t.Run("insert appends at the end", func(t *testing.T) {
		if err := repo.InsertHolding(ctx, h); err != nil {
			t.Fatalf("InsertHolding() returned unexpected error: %v", err)
		}

		holdings, err := repo.GetHoldings()
		if err != nil {
			t.Fatalf("GetHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 2 || holdings[0].ID != existing.ID || holdings[1] != h {
			t.Errorf("Expected [existing, inserted], got %+v", holdings)
		}
	})

	t.Run("get returns stored values", func(t *testing.T) {
		got, err := repo.GetHolding(h.ID)
		if err != nil {
			t.Fatalf("GetHolding() returned unexpected error: %v", err)
		}
		if got != h {
			t.Errorf("GetHolding() = %+v, want %+v", got, h)
		}
	})

	t.Run("update overwrites fields", func(t *testing.T) {
		h.Quantity = 12000
		h.Class = model.ClassBond
		if err := repo.UpdateHolding(ctx, h); err != nil {
			t.Fatalf("UpdateHolding() returned unexpected error: %v", err)
		}

		got, _ := repo.GetHolding(h.ID)
		if got.Quantity != 12000 || got.Class != model.ClassBond {
			t.Errorf("Update not persisted: %+v", got)
		}
	})

	t.Run("missing holding", func(t *testing.T) {
		if _, err := repo.GetHolding("missing"); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("GetHolding() error = %v, want ErrHoldingNotFound", err)
		}
		if err := repo.UpdateHolding(ctx, model.Holding{ID: "missing"}); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("UpdateHolding() error = %v, want ErrHoldingNotFound", err)
		}
		if err := repo.DeleteHolding(ctx, "missing"); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("DeleteHolding() error = %v, want ErrHoldingNotFound", err)
		}
	})

	t.Run("delete removes the row", func(t *testing.T) {
		if err := repo.DeleteHolding(ctx, h.ID); err != nil {
			t.Fatalf("DeleteHolding() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "holding", 1)
	})
}

func TestHoldingRepository_UpdateCurrentPriceByCode(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)

	a := testutil.NewHolding().WithCode("0056").Build(t, db)
	b := testutil.NewHolding().WithCode("0056").Build(t, db)
	other := testutil.NewHolding().WithCode("0050").WithPrices(100, 120).Build(t, db)

	n, err := repo.UpdateCurrentPriceByCode(ctx, "0056", 35.5)
	if err != nil {
		t.Fatalf("UpdateCurrentPriceByCode() returned unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected both holdings with the code updated, got %d", n)
	}

	for _, id := range []string{a.ID, b.ID} {
		got, _ := repo.GetHolding(id)
		if got.CurrentPrice != 35.5 {
			t.Errorf("holding %s price = %v, want 35.5", id, got.CurrentPrice)
		}
	}
	got, _ := repo.GetHolding(other.ID)
	if got.CurrentPrice != 120 {
		t.Errorf("unrelated holding price = %v, want 120", got.CurrentPrice)
	}
}

func TestHoldingRepository_ReplaceHoldings(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)

	testutil.NewHolding().Build(t, db)

	replacement := []model.Holding{
		{ID: "b", Name: "B", Code: "0056", Class: model.ClassStock, Quantity: 1},
		{ID: "a", Name: "A", Code: "00679B", Class: model.ClassBond, Quantity: 2},
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin() returned unexpected error: %v", err)
	}
	if err := repo.WithTx(tx).ReplaceHoldings(ctx, replacement); err != nil {
		t.Fatalf("ReplaceHoldings() returned unexpected error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() returned unexpected error: %v", err)
	}

	holdings, err := repo.GetHoldings()
	if err != nil {
		t.Fatalf("GetHoldings() returned unexpected error: %v", err)
	}
	if len(holdings) != 2 || holdings[0].ID != "b" || holdings[1].ID != "a" {
		t.Errorf("Expected replacement order [b a], got %+v", holdings)
	}
}
