package request

// UpdateCashRequest represents the request body for setting the cash balance.
type UpdateCashRequest struct {
	Amount float64 `json:"amount"`
}

// UpdateSettingsRequest represents the request body for changing user settings.
// Only provided fields are updated.
type UpdateSettingsRequest struct {
	Cash                *float64 `json:"cash,omitempty"`
	MonthlyDividendGoal *float64 `json:"monthlyDividendGoal,omitempty"`
	TargetStockFraction *float64 `json:"targetStockFraction,omitempty"`
}
