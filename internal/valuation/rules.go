// Package valuation implements the pure calculation core of the tracker:
// the fee/tax rule set, per-holding valuation, portfolio aggregation,
// rebalancing and dividend analysis.
//
// Every function in this package is total and side-effect free. Invalid or
// unusual inputs (zero or negative quantities and prices) are treated as
// plain numbers; sanitising input is the caller's job.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

// Default fee and tax parameters.
const (
	DefaultFeeRate      = 0.001425 // brokerage fee, charged on buy and on sell
	DefaultFeeDiscount  = 0.28     // broker discount multiplied into the fee rate
	DefaultStockTaxRate = 0.001    // transaction tax on selling equity ETFs
	DefaultBondTaxRate  = 0.0      // bond ETFs are exempt
)

// Rules is the fee/tax rule set applied to every holding.
type Rules struct {
	FeeRate      float64
	FeeDiscount  float64
	StockTaxRate float64
	BondTaxRate  float64
}

// DefaultRules is the rule set used when no override is configured.
var DefaultRules = Rules{
	FeeRate:      DefaultFeeRate,
	FeeDiscount:  DefaultFeeDiscount,
	StockTaxRate: DefaultStockTaxRate,
	BondTaxRate:  DefaultBondTaxRate,
}

// EffectiveFeeRate returns the fee rate after the broker discount.
func (r Rules) EffectiveFeeRate() float64 {
	return r.effectiveFee().InexactFloat64()
}

func (r Rules) effectiveFee() decimal.Decimal {
	return decimal.NewFromFloat(r.FeeRate).Mul(decimal.NewFromFloat(r.FeeDiscount))
}

// TaxRate returns the sell-side transaction tax for the instrument class.
// Unknown classes are taxed like bonds.
func (r Rules) TaxRate(class model.InstrumentClass) float64 {
	if class == model.ClassStock {
		return r.StockTaxRate
	}
	return r.BondTaxRate
}

// Cost returns the acquisition cost of qty units bought at avgPrice,
// including the buy-side fee, rounded once to whole currency units.
//
//	cost = round(qty·avgPrice + qty·avgPrice·fee)
func (r Rules) Cost(qty, avgPrice float64) float64 {
	gross := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(avgPrice))
	return roundUnits(gross.Add(gross.Mul(r.effectiveFee())))
}

// PresentValue returns the liquidation value of qty units at price, net of the
// sell-side fee and the class tax, rounded once to whole currency units.
//
//	presentValue = round(qty·price − qty·price·fee − qty·price·tax)
func (r Rules) PresentValue(qty, price float64, class model.InstrumentClass) float64 {
	gross := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price))
	fee := gross.Mul(r.effectiveFee())
	tax := gross.Mul(decimal.NewFromFloat(r.TaxRate(class)))
	return roundUnits(gross.Sub(fee).Sub(tax))
}

// roundUnits rounds half away from zero to an integer.
func roundUnits(d decimal.Decimal) float64 {
	return d.Round(0).InexactFloat64()
}
