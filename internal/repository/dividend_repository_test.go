package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/testutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDividendRepository_GetDividends(t *testing.T) {
	t.Run("returns empty slice when no dividends exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewDividendRepository(db)

		dividends, err := repo.GetDividends()
		if err != nil {
			t.Fatalf("GetDividends() returned unexpected error: %v", err)
		}
		if dividends == nil || len(dividends) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", dividends)
		}
	})

	t.Run("returns newest payment first with dates intact", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewDividendRepository(db)

		older := testutil.NewDividend("0050").WithPaymentDate(date(2024, 1, 15)).Build(t, db)
		newer := testutil.NewDividend("0056").
			WithPaymentDate(date(2024, 7, 15)).
			WithExDividendDate(date(2024, 6, 15)).
			WithNote("semi-annual, raised").
			Build(t, db)

		dividends, err := repo.GetDividends()
		if err != nil {
			t.Fatalf("GetDividends() returned unexpected error: %v", err)
		}
		if len(dividends) != 2 {
			t.Fatalf("Expected 2 dividends, got %d", len(dividends))
		}
		if dividends[0].ID != newer.ID || dividends[1].ID != older.ID {
			t.Errorf("Expected newest first, got %s then %s", dividends[0].ID, dividends[1].ID)
		}
		if !dividends[0].PaymentDate.Equal(date(2024, 7, 15)) {
			t.Errorf("PaymentDate = %v, want 2024-07-15", dividends[0].PaymentDate)
		}
		if dividends[0].ExDividendDate == nil || !dividends[0].ExDividendDate.Equal(date(2024, 6, 15)) {
			t.Errorf("ExDividendDate = %v, want 2024-06-15", dividends[0].ExDividendDate)
		}
		if dividends[1].ExDividendDate != nil {
			t.Errorf("Expected nil ExDividendDate, got %v", dividends[1].ExDividendDate)
		}
		if dividends[0].Note != "semi-annual, raised" {
			t.Errorf("Note = %q", dividends[0].Note)
		}
	})
}

func TestDividendRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewDividendRepository(db)

	ex := date(2024, 6, 15)
	d := model.Dividend{
		ID:             testutil.MakeID(),
		PaymentDate:    date(2024, 7, 15),
		ExDividendDate: &ex,
		Ticker:         "0050",
		Amount:         4000,
		Note:           `said "thanks"`,
	}

	if err := repo.InsertDividend(ctx, d); err != nil {
		t.Fatalf("InsertDividend() returned unexpected error: %v", err)
	}

	got, err := repo.GetDividend(d.ID)
	if err != nil {
		t.Fatalf("GetDividend() returned unexpected error: %v", err)
	}
	if got.Amount != 4000 || got.Note != d.Note || got.Ticker != "0050" {
		t.Errorf("GetDividend() = %+v, want %+v", got, d)
	}

	d.Amount = 4200
	d.ExDividendDate = nil
	if err := repo.UpdateDividend(ctx, d); err != nil {
		t.Fatalf("UpdateDividend() returned unexpected error: %v", err)
	}
	got, _ = repo.GetDividend(d.ID)
	if got.Amount != 4200 || got.ExDividendDate != nil {
		t.Errorf("Update not persisted: %+v", got)
	}

	if err := repo.DeleteDividend(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDividend() returned unexpected error: %v", err)
	}
	if _, err := repo.GetDividend(d.ID); !errors.Is(err, apperrors.ErrDividendNotFound) {
		t.Errorf("GetDividend() after delete error = %v, want ErrDividendNotFound", err)
	}
	if err := repo.DeleteDividend(ctx, d.ID); !errors.Is(err, apperrors.ErrDividendNotFound) {
		t.Errorf("DeleteDividend() twice error = %v, want ErrDividendNotFound", err)
	}
	if err := repo.UpdateDividend(ctx, d); !errors.Is(err, apperrors.ErrDividendNotFound) {
		t.Errorf("UpdateDividend() missing error = %v, want ErrDividendNotFound", err)
	}
}

func TestDividendRepository_ReplaceDividends(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewDividendRepository(db)

	testutil.NewDividend("0050").Build(t, db)
	testutil.NewDividend("0050").Build(t, db)

	err := repo.ReplaceDividends(ctx, []model.Dividend{
		{ID: "d1", PaymentDate: date(2023, 1, 1), Ticker: "0056", Amount: 1},
	})
	if err != nil {
		t.Fatalf("ReplaceDividends() returned unexpected error: %v", err)
	}

	testutil.AssertRowCount(t, db, "dividend", 1)
}
