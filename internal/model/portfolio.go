package model

// PortfolioSummary represents the valuation of the whole portfolio, cash included.
// It is a pure projection of the current holdings and cash and is never stored.
// Ratios are percentages of the invested value and are both 0 for an empty portfolio.
type PortfolioSummary struct {
	TotalAssets        float64 `json:"totalAssets"`        // invested value + cash
	StockValue         float64 `json:"stockValue"`         // Σ present value of STOCK holdings
	BondValue          float64 `json:"bondValue"`          // Σ present value of BOND holdings
	CashValue          float64 `json:"cashValue"`          // uninvested cash
	TotalInvestedValue float64 `json:"totalInvestedValue"` // stockValue + bondValue
	TotalCost          float64 `json:"totalCost"`          // Σ cost of all holdings
	TotalProfit        float64 `json:"totalProfit"`        // invested value − total cost
	TotalROI           float64 `json:"totalRoi"`           // total profit as a percentage of total cost
	StockRatio         float64 `json:"stockRatio"`
	BondRatio          float64 `json:"bondRatio"`
}

// Rebalance inflow types and switch actions.
const (
	InflowStock       = "stock"
	InflowBond        = "bond"
	InflowNone        = "none"
	InflowUnreachable = "unreachable"

	SwitchBuyStock = "buy_stock"
	SwitchBuyBond  = "buy_bond"
	SwitchNone     = "none"
)

// RebalanceSuggestion describes two ways to bring the stock share of the
// invested value back to the target fraction.
//
// Switch keeps the invested total constant: sell SwitchAmount of one class and
// buy the same amount of the other. Inflow adds InflowAmount of new cash to the
// underweight class only. HasPositions is false when nothing is invested, in
// which case both amounts are 0.
type RebalanceSuggestion struct {
	HasPositions        bool    `json:"hasPositions"`
	TargetStockFraction float64 `json:"targetStockFraction"`
	TargetStockValue    float64 `json:"targetStockValue"`
	InflowAmount        float64 `json:"inflowAmount"`
	InflowType          string  `json:"inflowType"`
	SwitchAmount        float64 `json:"switchAmount"`
	SwitchAction        string  `json:"switchAction"`
}

// PortfolioOverview bundles the enriched holdings with their summary.
type PortfolioOverview struct {
	Holdings []CalculatedHolding `json:"holdings"`
	Summary  PortfolioSummary    `json:"summary"`
}
