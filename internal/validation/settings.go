package validation

import (
	"math"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
)

// ValidateCash validates a cash balance update.
func ValidateCash(req request.UpdateCashRequest) error {
	errors := make(map[string]string)
	checkNonNegative(errors, "amount", req.Amount)
	return result(errors)
}

// ValidateUpdateSettings validates a settings update.
func ValidateUpdateSettings(req request.UpdateSettingsRequest) error {
	errors := make(map[string]string)

	if req.Cash != nil {
		checkNonNegative(errors, "cash", *req.Cash)
	}
	if req.MonthlyDividendGoal != nil {
		checkNonNegative(errors, "monthlyDividendGoal", *req.MonthlyDividendGoal)
	}
	if req.TargetStockFraction != nil {
		if err := ValidateTargetFraction(*req.TargetStockFraction); err != nil {
			errors["targetStockFraction"] = err.Error()
		}
	}

	return result(errors)
}

// ValidateTargetFraction checks that f lies strictly between 0 and 1.
// The rebalance inflow has no finite solution at either bound.
func ValidateTargetFraction(f float64) error {
	if math.IsNaN(f) || f <= 0 || f >= 1 {
		return apperrors.ErrInvalidTargetFraction
	}
	return nil
}
