package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/stockapp/internal/domain/market"
	"github.com/wonny/stockapp/internal/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Cache stores serialized provider responses
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config holds lookup defaults
type Config struct {
	DefaultSymbol   string
	DefaultQuantity uint32
	CacheTTL        time.Duration
	FetchTimeout    time.Duration // bounds a shared provider fetch
}

// Service fronts a market.Provider with a cache and per-symbol request coalescing
type Service struct {
	provider market.Provider
	cache    Cache // nil disables caching
	cfg      Config
	metrics  *metrics.Metrics

	group singleflight.Group
}

// NewService creates a market data service. cache may be nil.
func NewService(provider market.Provider, cache Cache, cfg Config, m *metrics.Metrics) *Service {
	if cfg.DefaultSymbol == "" {
		cfg.DefaultSymbol = "MSFT"
	}
	if cfg.DefaultQuantity == 0 {
		cfg.DefaultQuantity = 100
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	return &Service{
		provider: provider,
		cache:    cache,
		cfg:      cfg,
		metrics:  m,
	}
}

// DefaultSymbol returns the symbol shown when none is requested
func (s *Service) DefaultSymbol() string {
	return s.cfg.DefaultSymbol
}

// resolve normalizes symbol, falling back to the default
func (s *Service) resolve(symbol string) (string, error) {
	symbol = market.NormalizeSymbol(symbol)
	if symbol == "" {
		symbol = s.cfg.DefaultSymbol
	}
	if !market.ValidateSymbol(symbol) {
		return "", fmt.Errorf("%w: %q", market.ErrInvalidSymbol, symbol)
	}
	return symbol, nil
}

// GetCompanyProfile returns the profile for symbol
func (s *Service) GetCompanyProfile(ctx context.Context, symbol string) (*market.CompanyProfile, error) {
	symbol, err := s.resolve(symbol)
	if err != nil {
		return nil, err
	}

	var profile market.CompanyProfile
	err = s.load(ctx, "profile:"+symbol, &profile, func(ctx context.Context) (any, error) {
		return s.provider.GetCompanyProfile(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetStockPriceQuote returns the latest quote for symbol
func (s *Service) GetStockPriceQuote(ctx context.Context, symbol string) (*market.Quote, error) {
	symbol, err := s.resolve(symbol)
	if err != nil {
		return nil, err
	}

	var quote market.Quote
	err = s.load(ctx, "quote:"+symbol, &quote, func(ctx context.Context) (any, error) {
		return s.provider.GetStockPriceQuote(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetStockTrade combines profile and quote into what the trade page shows
func (s *Service) GetStockTrade(ctx context.Context, symbol string) (*market.StockTrade, error) {
	symbol, err := s.resolve(symbol)
	if err != nil {
		return nil, err
	}

	profile, err := s.GetCompanyProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	quote, err := s.GetStockPriceQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return &market.StockTrade{
		StockSymbol: symbol,
		StockName:   profile.Name,
		Price:       quote.CurrentPrice,
		Quantity:    s.cfg.DefaultQuantity,
	}, nil
}

// load reads key from cache into out, or fetches it once per key across
// concurrent callers and populates the cache.
func (s *Service) load(ctx context.Context, key string, out any, fetch func(context.Context) (any, error)) error {
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Quote cache read failed")
		}
		s.metrics.CacheLookup(ok)
		if ok {
			if err := json.Unmarshal(data, out); err == nil {
				return nil
			}
			log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
		}
	}

	// the fetch is shared, so one caller going away must not cancel it for the rest
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer cancel()

		val, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		if s.cache != nil {
			if err := s.cache.Set(fetchCtx, key, data, s.cfg.CacheTTL); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Quote cache write failed")
			}
		}
		return data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		log.Error().Err(res.Err).Str("key", key).Msg("Market data lookup failed")
		return res.Err
	}
	if res.Shared {
		log.Debug().Str("key", key).Msg("Coalesced market data lookup")
	}

	return json.Unmarshal(res.Val.([]byte), out)
}
