// Package pricesource fetches latest market prices for holding codes.
//
// Each Source resolves a batch of codes to prices. A Chain tries its sources
// in order, each behind its own circuit breaker, and returns the first batch
// that contains at least one usable quote.
package pricesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
)

// Source resolves holding codes to their latest prices.
// Codes that cannot be resolved are simply missing from the returned map.
type Source interface {
	Name() string
	Quotes(ctx context.Context, codes []string) (map[string]float64, error)
}

// Result is a batch of quotes and the source that produced it.
type Result struct {
	Source string
	Quotes map[string]float64
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// fetcher performs GET requests directly and, on failure, through each proxy prefix in order.
type fetcher struct {
	client  *http.Client
	proxies []string
}

func newFetcher(client *http.Client, proxies []string) fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return fetcher{client: client, proxies: proxies}
}

// get returns the body of the first successful attempt.
func (f fetcher) get(ctx context.Context, target string) ([]byte, error) {
	attempts := make([]string, 0, len(f.proxies)+1)
	attempts = append(attempts, target)
	for _, prefix := range f.proxies {
		attempts = append(attempts, viaProxy(prefix, target))
	}

	var errs []error
	for _, u := range attempts {
		body, err := f.getOnce(ctx, u)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

func (f fetcher) getOnce(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", u, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// viaProxy appends the escaped target to a proxy URL prefix such as
// "https://corsproxy.io/?".
func viaProxy(prefix, target string) string {
	if strings.Contains(prefix, "{url}") {
		return strings.ReplaceAll(prefix, "{url}", url.QueryEscape(target))
	}
	return prefix + url.QueryEscape(target)
}

// usable reports whether p can be written as a current price.
func usable(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// dedupe trims codes and drops blanks and repeats, keeping first-seen order.
func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
