package validation

import (
	"strings"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
)

const maxNoteLength = 500

// ValidateCreateDividend validates a dividend creation request.
//
// Required fields:
//   - ticker: 1 to 20 characters without whitespace
//   - amount: finite and non-negative
//   - paymentDate or exDividendDate: YYYY-MM-DD
//
// When only exDividendDate is given the payment date is derived from it.
func ValidateCreateDividend(req request.CreateDividendRequest) error {
	errors := make(map[string]string)

	checkCode(errors, "ticker", req.Ticker)
	checkNonNegative(errors, "amount", req.Amount)

	switch {
	case req.PaymentDate == "" && req.ExDividendDate == "":
		errors["paymentDate"] = "paymentDate or exDividendDate is required"
	case req.PaymentDate != "":
		checkDate(errors, "paymentDate", req.PaymentDate)
	}
	if req.ExDividendDate != "" {
		checkDate(errors, "exDividendDate", req.ExDividendDate)
	}

	checkNote(errors, req.Note)

	return result(errors)
}

// ValidateUpdateDividend validates a dividend update request.
// Provided fields must meet the same constraints as on create.
func ValidateUpdateDividend(req request.UpdateDividendRequest) error {
	errors := make(map[string]string)

	if req.PaymentDate != nil {
		checkDate(errors, "paymentDate", *req.PaymentDate)
	}
	if req.ExDividendDate != nil && strings.TrimSpace(*req.ExDividendDate) != "" {
		checkDate(errors, "exDividendDate", *req.ExDividendDate)
	}
	if req.Ticker != nil {
		checkCode(errors, "ticker", *req.Ticker)
	}
	if req.Amount != nil {
		checkNonNegative(errors, "amount", *req.Amount)
	}
	if req.Note != nil {
		checkNote(errors, *req.Note)
	}

	return result(errors)
}

func checkNote(errors map[string]string, note string) {
	if len(note) > maxNoteLength {
		errors["note"] = "note must be 500 characters or less"
	}
}
