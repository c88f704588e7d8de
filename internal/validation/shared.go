package validation

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Error collects field-level validation failures.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

func checkNonNegative(errors map[string]string, field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		errors[field] = field + " must be a finite number"
	} else if v < 0 {
		errors[field] = field + " cannot be negative"
	}
}

func checkDate(errors map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errors[field] = field + " is required"
		return
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		errors[field] = field + " must be in YYYY-MM-DD format"
	}
}

func result(errors map[string]string) error {
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
