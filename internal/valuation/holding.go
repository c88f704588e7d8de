package valuation

import "github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"

// Enrich derives the valuation of a single holding under the rule set.
// It never fails and always returns the same output for the same input.
func (r Rules) Enrich(h model.Holding) model.CalculatedHolding {
	cost := r.Cost(h.Quantity, h.AvgPrice)
	presentValue := r.PresentValue(h.Quantity, h.CurrentPrice, h.Class)
	profit := presentValue - cost

	return model.CalculatedHolding{
		Holding:        h,
		MarketValueRaw: h.Quantity * h.CurrentPrice,
		Cost:           cost,
		PresentValue:   presentValue,
		Profit:         profit,
		ROI:            percentOf(profit, cost),
	}
}

// EnrichAll enriches every holding, preserving order.
func (r Rules) EnrichAll(holdings []model.Holding) []model.CalculatedHolding {
	calculated := make([]model.CalculatedHolding, len(holdings))
	for i, h := range holdings {
		calculated[i] = r.Enrich(h)
	}
	return calculated
}

// EnrichHolding enriches a holding under DefaultRules.
func EnrichHolding(h model.Holding) model.CalculatedHolding {
	return DefaultRules.Enrich(h)
}

// EnrichHoldings enriches holdings under DefaultRules.
func EnrichHoldings(holdings []model.Holding) []model.CalculatedHolding {
	return DefaultRules.EnrichAll(holdings)
}

// percentOf returns part/whole×100, or 0 when whole is 0.
func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
