package valuation

import (
	"math"
	"testing"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

const tolerance = 1e-6

func TestSummarizePortfolio(t *testing.T) {
	t.Run("empty holdings with cash", func(t *testing.T) {
		got := SummarizePortfolio(nil, 1_000_000)

		if got.TotalAssets != 1_000_000 {
			t.Errorf("TotalAssets = %v, want 1000000", got.TotalAssets)
		}
		if got.CashValue != 1_000_000 {
			t.Errorf("CashValue = %v, want 1000000", got.CashValue)
		}
		if got.StockRatio != 0 || got.BondRatio != 0 {
			t.Errorf("ratios = %v/%v, want 0/0", got.StockRatio, got.BondRatio)
		}
		if got.TotalROI != 0 {
			t.Errorf("TotalROI = %v, want 0", got.TotalROI)
		}
	})

	t.Run("mixed portfolio", func(t *testing.T) {
		holdings := []model.CalculatedHolding{
			{Holding: model.Holding{Class: model.ClassStock}, Cost: 500, PresentValue: 600},
			{Holding: model.Holding{Class: model.ClassStock}, Cost: 100, PresentValue: 150},
			{Holding: model.Holding{Class: model.ClassBond}, Cost: 300, PresentValue: 250},
		}

		got := SummarizePortfolio(holdings, 200)

		want := model.PortfolioSummary{
			TotalAssets:        1200,
			StockValue:         750,
			BondValue:          250,
			CashValue:          200,
			TotalInvestedValue: 1000,
			TotalCost:          900,
			TotalProfit:        100,
			TotalROI:           100.0 / 900.0 * 100,
			StockRatio:         75,
			BondRatio:          25,
		}
		if got != want {
			t.Errorf("SummarizePortfolio() = %+v, want %+v", got, want)
		}
	})

	t.Run("ratios add up to 100", func(t *testing.T) {
		holdings := EnrichHoldings([]model.Holding{
			{Class: model.ClassStock, Quantity: 22000, AvgPrice: 62.35, CurrentPrice: 63.7},
			{Class: model.ClassBond, Quantity: 13000, AvgPrice: 33.1, CurrentPrice: 32.87},
			{Class: model.ClassStock, Quantity: 777, AvgPrice: 17.2, CurrentPrice: 19.9},
		})

		got := SummarizePortfolio(holdings, 0)

		if math.Abs(got.StockRatio+got.BondRatio-100) > tolerance {
			t.Errorf("StockRatio + BondRatio = %v, want 100", got.StockRatio+got.BondRatio)
		}
	})

	t.Run("zero-valued positions keep ratios at zero", func(t *testing.T) {
		holdings := EnrichHoldings([]model.Holding{
			{Class: model.ClassStock, Quantity: 0, AvgPrice: 10, CurrentPrice: 10},
			{Class: model.ClassBond, Quantity: 10, AvgPrice: 10, CurrentPrice: 0},
		})

		got := SummarizePortfolio(holdings, 50)

		if got.StockRatio != 0 || got.BondRatio != 0 {
			t.Errorf("ratios = %v/%v, want 0/0", got.StockRatio, got.BondRatio)
		}
		if got.TotalAssets != 50 {
			t.Errorf("TotalAssets = %v, want 50", got.TotalAssets)
		}
	})
}

func TestComputeRebalance(t *testing.T) {
	t.Run("no positions returns sentinel", func(t *testing.T) {
		got := ComputeRebalance(0, 0, 0.6)

		if got.HasPositions {
			t.Error("expected HasPositions = false")
		}
		if got.InflowAmount != 0 || got.SwitchAmount != 0 {
			t.Errorf("expected zero amounts, got %+v", got)
		}
		if got.InflowType != model.InflowNone || got.SwitchAction != model.SwitchNone {
			t.Errorf("expected none/none, got %s/%s", got.InflowType, got.SwitchAction)
		}
	})

	t.Run("stock underweight", func(t *testing.T) {
		got := ComputeRebalance(400, 600, 0.6)

		if got.SwitchAction != model.SwitchBuyStock {
			t.Errorf("SwitchAction = %s, want %s", got.SwitchAction, model.SwitchBuyStock)
		}
		if math.Abs(got.SwitchAmount-200) > tolerance {
			t.Errorf("SwitchAmount = %v, want 200", got.SwitchAmount)
		}
		if got.InflowType != model.InflowStock {
			t.Errorf("InflowType = %s, want %s", got.InflowType, model.InflowStock)
		}
		if math.Abs(got.InflowAmount-500) > tolerance {
			t.Errorf("InflowAmount = %v, want 500", got.InflowAmount)
		}
	})

	t.Run("bond underweight", func(t *testing.T) {
		got := ComputeRebalance(800, 200, 0.6)

		if got.SwitchAction != model.SwitchBuyBond {
			t.Errorf("SwitchAction = %s, want %s", got.SwitchAction, model.SwitchBuyBond)
		}
		if math.Abs(got.SwitchAmount-200) > tolerance {
			t.Errorf("SwitchAmount = %v, want 200", got.SwitchAmount)
		}
		if got.InflowType != model.InflowBond {
			t.Errorf("InflowType = %s, want %s", got.InflowType, model.InflowBond)
		}
		// (400 − 200) / 0.6
		if math.Abs(got.InflowAmount-1000.0/3.0) > tolerance {
			t.Errorf("InflowAmount = %v, want %v", got.InflowAmount, 1000.0/3.0)
		}
	})

	t.Run("already balanced", func(t *testing.T) {
		got := ComputeRebalance(600, 400, 0.6)

		if math.Abs(got.SwitchAmount) > tolerance || math.Abs(got.InflowAmount) > tolerance {
			t.Errorf("expected no movement, got %+v", got)
		}
	})

	// WHY: the closed forms are rearrangements of "ratio after adding x to one
	// side". Applying the suggestion must land exactly on the target.
	t.Run("applying suggestions restores the target ratio", func(t *testing.T) {
		cases := []struct{ stock, bond, target float64 }{
			{400, 600, 0.6},
			{800, 200, 0.6},
			{1_399_439, 427_282, 0.6},
			{10, 990, 0.3},
			{990, 10, 0.8},
			{1, 0, 0.5},
			{0, 1, 0.5},
		}

		for _, c := range cases {
			got := ComputeRebalance(c.stock, c.bond, c.target)
			if got.SwitchAmount < 0 || got.InflowAmount < 0 {
				t.Errorf("%+v: negative amounts %+v", c, got)
				continue
			}

			// switch
			stock, bond := c.stock, c.bond
			if got.SwitchAction == model.SwitchBuyStock {
				stock, bond = stock+got.SwitchAmount, bond-got.SwitchAmount
			} else {
				stock, bond = stock-got.SwitchAmount, bond+got.SwitchAmount
			}
			if ratio := stock / (stock + bond); math.Abs(ratio-c.target) > tolerance {
				t.Errorf("%+v: ratio after switch = %v, want %v", c, ratio, c.target)
			}

			// inflow
			stock, bond = c.stock, c.bond
			if got.InflowType == model.InflowStock {
				stock += got.InflowAmount
			} else {
				bond += got.InflowAmount
			}
			if ratio := stock / (stock + bond); math.Abs(ratio-c.target) > tolerance {
				t.Errorf("%+v: ratio after inflow = %v, want %v", c, ratio, c.target)
			}
		}
	})

	t.Run("degenerate targets are unreachable by inflow", func(t *testing.T) {
		got := ComputeRebalance(400, 600, 1)
		if got.InflowType != model.InflowUnreachable || got.InflowAmount != 0 {
			t.Errorf("target 1: got %s %v", got.InflowType, got.InflowAmount)
		}
		if math.Abs(got.SwitchAmount-600) > tolerance {
			t.Errorf("target 1: SwitchAmount = %v, want 600", got.SwitchAmount)
		}

		got = ComputeRebalance(400, 600, 0)
		if got.InflowType != model.InflowUnreachable || got.InflowAmount != 0 {
			t.Errorf("target 0: got %s %v", got.InflowType, got.InflowAmount)
		}
	})
}
