package validation

import (
	"fmt"
	"regexp"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
)

// MaxIDLength is the widest identifier the storage layer accepts.
const MaxIDLength = 64

// New records get UUIDs; imported records may carry shorter legacy ids.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateID checks that id is a usable record identifier.
func ValidateID(id string) error {
	if id == "" {
		return apperrors.ErrEmptyID
	}
	if len(id) > MaxIDLength || !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidID, id)
	}
	return nil
}
