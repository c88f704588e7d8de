package model

// PriceUpdateResponse reports the outcome of applying a code → price map.
// Codes that matched no holding are listed in Unresolved and left untouched.
type PriceUpdateResponse struct {
	Source          string             `json:"source,omitempty"` // strategy that answered, empty for manual updates
	UpdatedHoldings []UpdatedHolding   `json:"updatedHoldings"`
	Unresolved      []string           `json:"unresolved"`
	Quotes          map[string]float64 `json:"quotes"`
	TotalUpdated    int                `json:"totalUpdated"`
}

// UpdatedHolding is a holding whose current price changed.
type UpdatedHolding struct {
	HoldingID string  `json:"holdingId"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	OldPrice  float64 `json:"oldPrice"`
	NewPrice  float64 `json:"newPrice"`
}
