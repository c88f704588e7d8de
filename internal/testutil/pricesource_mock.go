package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/pricesource"
)

// MockPriceSource is a service.QuoteFetcher returning canned quotes.
// Like the real chain, it only returns quotes for requested codes and
// fails with ErrQuoteServiceUnavailable when none of them resolve.
type MockPriceSource struct {
	mu sync.Mutex

	// Name is reported as the result source
	Name string
	// Quotes holds the prices the mock knows about
	Quotes map[string]float64
	// MockError, when set, is returned from every Fetch
	MockError error
	// Calls counts Fetch invocations
	Calls int
	// LastCodes records the codes of the latest Fetch
	LastCodes []string
}

// NewMockPriceSource creates a mock that knows the given quotes.
func NewMockPriceSource(quotes map[string]float64) *MockPriceSource {
	if quotes == nil {
		quotes = map[string]float64{}
	}
	return &MockPriceSource{Name: "mock", Quotes: quotes}
}

// WithError configures the mock to return the specified error.
func (m *MockPriceSource) WithError(err error) *MockPriceSource {
	m.MockError = err
	return m
}

// Fetch implements service.QuoteFetcher.
func (m *MockPriceSource) Fetch(ctx context.Context, codes []string) (pricesource.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastCodes = append([]string(nil), codes...)

	if err := ctx.Err(); err != nil {
		return pricesource.Result{}, err
	}
	if m.MockError != nil {
		return pricesource.Result{}, m.MockError
	}

	quotes := make(map[string]float64)
	for _, code := range codes {
		if p, ok := m.Quotes[code]; ok {
			quotes[code] = p
		}
	}
	if len(quotes) == 0 {
		return pricesource.Result{}, apperrors.ErrQuoteServiceUnavailable
	}

	return pricesource.Result{Source: m.Name, Quotes: quotes}, nil
}
