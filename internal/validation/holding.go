package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

const (
	maxNameLength = 100
	maxCodeLength = 20
)

// ValidateCreateHolding validates a holding creation request.
//
// Required fields:
//   - name: 1 to 100 characters
//   - code: 1 to 20 characters without whitespace, commas or quotes
//   - type: STOCK or BOND (case-insensitive)
//
// Quantity and prices must be finite and non-negative.
func ValidateCreateHolding(req request.CreateHoldingRequest) error {
	errors := make(map[string]string)

	checkName(errors, req.Name)
	checkCode(errors, "code", req.Code)
	checkClass(errors, req.Type)
	checkNonNegative(errors, "quantity", req.Quantity)
	checkNonNegative(errors, "avgPrice", req.AvgPrice)
	checkNonNegative(errors, "currentPrice", req.CurrentPrice)

	return result(errors)
}

// ValidateUpdateHolding validates a holding update request.
// Provided fields must meet the same constraints as on create.
func ValidateUpdateHolding(req request.UpdateHoldingRequest) error {
	errors := make(map[string]string)

	if req.Name != nil {
		checkName(errors, *req.Name)
	}
	if req.Code != nil {
		checkCode(errors, "code", *req.Code)
	}
	if req.Type != nil {
		checkClass(errors, *req.Type)
	}
	if req.Quantity != nil {
		checkNonNegative(errors, "quantity", *req.Quantity)
	}
	if req.AvgPrice != nil {
		checkNonNegative(errors, "avgPrice", *req.AvgPrice)
	}
	if req.CurrentPrice != nil {
		checkNonNegative(errors, "currentPrice", *req.CurrentPrice)
	}

	return result(errors)
}

// ValidatePriceUpdate validates a manual code → price map.
// Prices must be strictly positive; a zero price is never a real quote.
func ValidatePriceUpdate(req request.UpdatePricesRequest) error {
	errors := make(map[string]string)

	if len(req.Prices) == 0 {
		errors["prices"] = "at least one price is required"
	}
	for code, price := range req.Prices {
		field := "prices." + code
		checkCode(errors, field, code)
		if _, bad := errors[field]; bad {
			continue
		}
		checkNonNegative(errors, field, price)
		if _, bad := errors[field]; !bad && price == 0 {
			errors[field] = "price must be positive"
		}
	}

	return result(errors)
}

func checkName(errors map[string]string, name string) {
	if strings.TrimSpace(name) == "" {
		errors["name"] = "name is required"
	} else if len(name) > maxNameLength {
		errors["name"] = fmt.Sprintf("name must be %d characters or less", maxNameLength)
	}
}

func checkCode(errors map[string]string, field, code string) {
	switch {
	case code == "":
		errors[field] = "code is required"
	case len(code) > maxCodeLength:
		errors[field] = fmt.Sprintf("code must be %d characters or less", maxCodeLength)
	case strings.IndexFunc(code, unicode.IsSpace) >= 0:
		errors[field] = "code cannot contain whitespace"
	case strings.ContainsAny(code, `,"`):
		errors[field] = "code cannot contain commas or quotes"
	}
}

// ValidateCode checks that code is a usable instrument code or ticker.
func ValidateCode(code string) error {
	errors := make(map[string]string)
	checkCode(errors, "code", code)
	return result(errors)
}

func checkClass(errors map[string]string, class string) {
	if strings.TrimSpace(class) == "" {
		errors["type"] = "type is required"
	} else if !model.InstrumentClass(strings.ToUpper(class)).Valid() {
		errors["type"] = fmt.Sprintf("invalid type: %s", class)
	}
}
