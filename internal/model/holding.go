package model

// InstrumentClass classifies a holding as an equity or a bond fund.
// It decides which transaction tax applies and which side of the
// stock/bond allocation the holding counts toward.
type InstrumentClass string

const (
	ClassStock InstrumentClass = "STOCK"
	ClassBond  InstrumentClass = "BOND"
)

// Valid reports whether c is one of the known instrument classes.
func (c InstrumentClass) Valid() bool {
	return c == ClassStock || c == ClassBond
}

// Holding represents a raw, user-editable position as stored in the database.
// Code is the instrument ticker used to match price quotes and dividend records;
// it is not guaranteed to be unique across holdings.
type Holding struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	Class        InstrumentClass `json:"type"`
	Quantity     float64         `json:"quantity"`
	AvgPrice     float64         `json:"avgPrice"`
	CurrentPrice float64         `json:"currentPrice"`
}

// CalculatedHolding is a Holding enriched with its derived valuation.
// It is recomputed on every read and never persisted.
// Cost and PresentValue are whole currency units.
type CalculatedHolding struct {
	Holding
	MarketValueRaw float64 `json:"marketValueRaw"` // quantity × currentPrice, before fees and tax
	Cost           float64 `json:"cost"`           // acquisition cost including the buy fee
	PresentValue   float64 `json:"presentValue"`   // liquidation value net of sell fee and tax
	Profit         float64 `json:"profit"`         // presentValue − cost
	ROI            float64 `json:"roi"`            // profit as a percentage of cost, 0 when cost is 0
}
