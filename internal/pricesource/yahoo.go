package pricesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultYahooBaseURL is the Yahoo Finance chart endpoint.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// yahooSuffixes are tried in order: listed first, then OTC.
var yahooSuffixes = []string{".TW", ".TWO"}

// YahooSource queries one chart per code, concurrently.
type YahooSource struct {
	BaseURL     string
	Concurrency int
	fetch       fetcher
}

// NewYahooSource creates a YahooSource. A nil client uses a default http.Client.
func NewYahooSource(client *http.Client, proxies []string) *YahooSource {
	return &YahooSource{
		BaseURL:     DefaultYahooBaseURL,
		Concurrency: 4,
		fetch:       newFetcher(client, proxies),
	}
}

// Name implements Source.
func (s *YahooSource) Name() string { return "yahoo" }

// chartResponse maps the subset of the chart API used for the latest price.
// Close entries are null on days without trades and decode as 0.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// latestPrice prefers the regular market price and otherwise walks the
// close series backwards to the most recent traded day.
func (r chartResponse) latestPrice() (float64, error) {
	if r.Chart.Error != nil {
		return 0, fmt.Errorf("yahoo error %s: %s", r.Chart.Error.Code, r.Chart.Error.Description)
	}
	if len(r.Chart.Result) == 0 {
		return 0, errors.New("no results returned")
	}

	result := r.Chart.Result[0]
	if usable(result.Meta.RegularMarketPrice) {
		return result.Meta.RegularMarketPrice, nil
	}

	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return 0, errors.New("no close prices returned")
	}

	closes := result.Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if usable(closes[i]) {
			return closes[i], nil
		}
	}
	return 0, errors.New("no traded close in range")
}

// Quotes implements Source. It fails only when no code could be resolved.
func (s *YahooSource) Quotes(ctx context.Context, codes []string) (map[string]float64, error) {
	codes = dedupe(codes)
	quotes := make(map[string]float64, len(codes))
	if len(codes) == 0 {
		return quotes, nil
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}

	for _, code := range codes {
		g.Go(func() error {
			price, err := s.quote(gctx, code)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", code, err))
				return nil
			}
			quotes[code] = price
			return nil
		})
	}

	// Goroutines never return errors; per-code failures are collected above.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("yahoo resolved no codes: %w", errors.Join(errs...))
	}
	return quotes, nil
}

func (s *YahooSource) quote(ctx context.Context, code string) (float64, error) {
	var errs []error
	for _, suffix := range yahooSuffixes {
		symbol := code + suffix
		target := s.BaseURL + url.PathEscape(symbol) + "?interval=1d&range=5d"

		body, err := s.fetch.get(ctx, target)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		var resp chartResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			errs = append(errs, fmt.Errorf("%s: malformed response: %w", symbol, err))
			continue
		}

		price, err := resp.latestPrice()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
			continue
		}
		return price, nil
	}
	return 0, errors.Join(errs...)
}
