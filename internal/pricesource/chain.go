package pricesource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/apperrors"
)

// Chain tries its sources in order and returns the first usable batch.
type Chain struct {
	strategies []strategy
	logger     *zap.Logger
}

type strategy struct {
	source  Source
	breaker *gobreaker.CircuitBreaker
}

// NewChain wraps each source in a circuit breaker that opens after three
// consecutive failures and probes again after a minute.
func NewChain(logger *zap.Logger, sources ...Source) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}

	strategies := make([]strategy, 0, len(sources))
	for _, src := range sources {
		st := gobreaker.Settings{
			Name:        src.Name(),
			MaxRequests: 1,
			Interval:    5 * time.Minute,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("Price source circuit breaker state changed",
					zap.String("source", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}
		strategies = append(strategies, strategy{
			source:  src,
			breaker: gobreaker.NewCircuitBreaker(st),
		})
	}

	return &Chain{strategies: strategies, logger: logger}
}

// NewChainFromNames builds a chain from strategy names ("twse", "yahoo").
// Unknown names are rejected.
func NewChainFromNames(logger *zap.Logger, names, proxies []string, timeout time.Duration) (*Chain, error) {
	client := &http.Client{Timeout: timeout}

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		switch name {
		case "twse":
			sources = append(sources, NewTWSESource(client, proxies))
		case "yahoo":
			sources = append(sources, NewYahooSource(client, proxies))
		default:
			return nil, fmt.Errorf("unknown price source %q", name)
		}
	}
	if len(sources) == 0 {
		return nil, errors.New("no price sources configured")
	}

	return NewChain(logger, sources...), nil
}

// Fetch returns the first strategy's batch that holds at least one usable quote.
// Unusable prices are dropped from the batch.
// When every strategy fails, the returned error wraps ErrQuoteServiceUnavailable.
func (c *Chain) Fetch(ctx context.Context, codes []string) (Result, error) {
	codes = dedupe(codes)
	if len(codes) == 0 {
		return Result{}, apperrors.ErrNoCodesToQuote
	}

	var errs []error
	for _, s := range c.strategies {
		name := s.source.Name()

		out, err := s.breaker.Execute(func() (interface{}, error) {
			quotes, err := s.source.Quotes(ctx, codes)
			if err != nil {
				return nil, err
			}
			quotes = filterUsable(quotes, codes)
			if len(quotes) == 0 {
				return nil, errors.New("no usable quotes")
			}
			return quotes, nil
		})
		if err != nil {
			c.logger.Warn("Price source failed",
				zap.String("source", name),
				zap.Int("codes", len(codes)),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		quotes := out.(map[string]float64)
		c.logger.Info("Fetched quotes",
			zap.String("source", name),
			zap.Int("requested", len(codes)),
			zap.Int("resolved", len(quotes)))
		return Result{Source: name, Quotes: quotes}, nil
	}

	return Result{}, fmt.Errorf("%w: %w", apperrors.ErrQuoteServiceUnavailable, errors.Join(errs...))
}

// filterUsable keeps requested codes with a positive, finite price.
func filterUsable(quotes map[string]float64, codes []string) map[string]float64 {
	out := make(map[string]float64, len(quotes))
	for _, code := range codes {
		if p, ok := quotes[code]; ok && usable(p) {
			out[code] = p
		}
	}
	return out
}
