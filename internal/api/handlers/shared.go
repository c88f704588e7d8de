package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/validation"
)

// maxBodyBytes bounds JSON and CSV request bodies.
const maxBodyBytes = 10 << 20

// parseJSON decodes the request body into T, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// readBody reads a raw request body such as an uploaded CSV file.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
	}
	return data, nil
}

// parseFloatParam reads an optional float query parameter.
func parseFloatParam(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", name, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%s must be a finite number", name)
	}
	return &f, nil
}

// parseBoolParam reads an optional boolean query parameter, false when absent.
func parseBoolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false: %w", name, err)
	}
	return b, nil
}

// parseDateParam reads an optional YYYY-MM-DD (or RFC 3339) query parameter.
func parseDateParam(r *http.Request, name string, def time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	t, err := time.Parse(validation.DateLayout, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidDate, raw)
		}
	}
	return t, nil
}

// respondServiceError maps a service error to its HTTP status.
// Errors without a specific mapping become 500 with fallback as the message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
	case errors.Is(err, apperrors.ErrHoldingNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrDividendNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrDividendNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrBackupNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrBackupNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidCSVFormat):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidCSVFormat.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidTargetFraction):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTargetFraction.Error(), err.Error())
	case errors.Is(err, apperrors.ErrNoCodesToQuote):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrNoCodesToQuote.Error(), err.Error())
	case errors.Is(err, apperrors.ErrBackupDecrypt):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrBackupDecrypt.Error(), err.Error())
	case errors.Is(err, apperrors.ErrQuoteServiceUnavailable):
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrQuoteServiceUnavailable.Error(), err.Error())
	case errors.Is(err, apperrors.ErrBackupDisabled):
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrBackupDisabled.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
