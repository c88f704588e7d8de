package valuation

import (
	"math"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

// DefaultTargetStockFraction is the 60/40 stock/bond allocation target.
const DefaultTargetStockFraction = 0.6

// SummarizePortfolio aggregates enriched holdings and cash into portfolio totals.
//
// Stock and bond values are sums of present values; the ratios share the
// invested value as denominator so they add up to 100 whenever anything is
// invested. An empty portfolio reports both ratios and the ROI as 0.
func SummarizePortfolio(holdings []model.CalculatedHolding, cash float64) model.PortfolioSummary {
	var stockValue, bondValue, totalCost float64

	for _, h := range holdings {
		switch h.Class {
		case model.ClassStock:
			stockValue += h.PresentValue
		case model.ClassBond:
			bondValue += h.PresentValue
		}
		totalCost += h.Cost
	}

	invested := stockValue + bondValue
	totalProfit := invested - totalCost

	return model.PortfolioSummary{
		TotalAssets:        invested + cash,
		StockValue:         stockValue,
		BondValue:          bondValue,
		CashValue:          cash,
		TotalInvestedValue: invested,
		TotalCost:          totalCost,
		TotalProfit:        totalProfit,
		TotalROI:           percentOf(totalProfit, totalCost),
		StockRatio:         percentOf(stockValue, invested),
		BondRatio:          percentOf(bondValue, invested),
	}
}

// ComputeRebalance suggests how to restore the stock share of the invested
// value to targetStockFraction, either by switching between classes or by
// adding new cash to the underweight class only.
//
// The inflow amount x solves (stock+x)/(total+x) = f when stocks are
// underweight, and (bond+x)/(total+x) = 1−f otherwise. When no finite x
// exists (f at or beyond 0 or 1 on the wrong side) the inflow is reported as
// unreachable with amount 0.
func ComputeRebalance(stockValue, bondValue, targetStockFraction float64) model.RebalanceSuggestion {
	invested := stockValue + bondValue
	if invested == 0 {
		return model.RebalanceSuggestion{
			HasPositions:        false,
			TargetStockFraction: targetStockFraction,
			InflowType:          model.InflowNone,
			SwitchAction:        model.SwitchNone,
		}
	}

	targetStockValue := invested * targetStockFraction
	diff := targetStockValue - stockValue

	suggestion := model.RebalanceSuggestion{
		HasPositions:        true,
		TargetStockFraction: targetStockFraction,
		TargetStockValue:    targetStockValue,
		SwitchAmount:        math.Abs(diff),
		SwitchAction:        model.SwitchBuyBond,
	}
	if diff > 0 {
		suggestion.SwitchAction = model.SwitchBuyStock
	}

	if diff > 0 {
		suggestion.InflowType = model.InflowStock
		if targetStockFraction >= 1 {
			suggestion.InflowType = model.InflowUnreachable
			return suggestion
		}
		suggestion.InflowAmount = diff / (1 - targetStockFraction)
		return suggestion
	}

	suggestion.InflowType = model.InflowBond
	if diff == 0 {
		return suggestion
	}
	if targetStockFraction <= 0 {
		suggestion.InflowType = model.InflowUnreachable
		return suggestion
	}
	targetBondValue := invested * (1 - targetStockFraction)
	suggestion.InflowAmount = (targetBondValue - bondValue) / targetStockFraction
	return suggestion
}
