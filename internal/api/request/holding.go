package request

// CreateHoldingRequest represents the request body for adding a holding.
// Type is STOCK or BOND.
type CreateHoldingRequest struct {
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	Type         string  `json:"type"`
	Quantity     float64 `json:"quantity"`
	AvgPrice     float64 `json:"avgPrice"`
	CurrentPrice float64 `json:"currentPrice"`
}

// UpdateHoldingRequest represents the request body for editing a holding.
// Only provided fields are updated.
type UpdateHoldingRequest struct {
	Name         *string  `json:"name,omitempty"`
	Code         *string  `json:"code,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Quantity     *float64 `json:"quantity,omitempty"`
	AvgPrice     *float64 `json:"avgPrice,omitempty"`
	CurrentPrice *float64 `json:"currentPrice,omitempty"`
}

// UpdatePricesRequest carries a partial code → price map.
type UpdatePricesRequest struct {
	Prices map[string]float64 `json:"prices"`
}
