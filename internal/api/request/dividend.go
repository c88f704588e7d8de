package request

// CreateDividendRequest represents the request body for recording a dividend.
// PaymentDate may be omitted when ExDividendDate is given.
type CreateDividendRequest struct {
	PaymentDate    string  `json:"paymentDate,omitempty"`
	ExDividendDate string  `json:"exDividendDate,omitempty"`
	Ticker         string  `json:"ticker"`
	Amount         float64 `json:"amount"`
	Note           string  `json:"note,omitempty"`
}

// UpdateDividendRequest represents the request body for editing a dividend.
// All fields are optional. An empty ExDividendDate clears it.
type UpdateDividendRequest struct {
	PaymentDate    *string  `json:"paymentDate,omitempty"`
	ExDividendDate *string  `json:"exDividendDate,omitempty"`
	Ticker         *string  `json:"ticker,omitempty"`
	Amount         *float64 `json:"amount,omitempty"`
	Note           *string  `json:"note,omitempty"`
}
