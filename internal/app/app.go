package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/stockapp/internal/api"
	"github.com/wonny/stockapp/internal/api/admin"
	"github.com/wonny/stockapp/internal/api/handlers"
	"github.com/wonny/stockapp/internal/domain/market"
	"github.com/wonny/stockapp/internal/domain/order"
	memcache "github.com/wonny/stockapp/internal/infra/cache/memory"
	rediscache "github.com/wonny/stockapp/internal/infra/cache/redis"
	"github.com/wonny/stockapp/internal/infra/database/postgres"
	"github.com/wonny/stockapp/internal/infra/database/sqlite"
	"github.com/wonny/stockapp/internal/infra/external/finnhub"
	"github.com/wonny/stockapp/internal/infra/memory"
	"github.com/wonny/stockapp/internal/pkg/config"
	"github.com/wonny/stockapp/internal/pkg/metrics"
	marketsvc "github.com/wonny/stockapp/internal/service/market"
	"github.com/wonny/stockapp/internal/service/trading"
)

const shutdownTimeout = 10 * time.Second

// App is the wired application: store, cache, provider and services
type App struct {
	Config  *config.Config
	Metrics *metrics.Metrics
	Orders  *trading.Service
	Market  *marketsvc.Service
	Version string

	checks  map[string]handlers.Pinger
	reports map[string]admin.HealthReporter
	closers []func()
}

// New builds the application from configuration
func New(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	a := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		Version: version,
		checks:  make(map[string]handlers.Pinger),
		reports: make(map[string]admin.HealthReporter),
	}

	repo, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	cache, err := a.openCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var provider market.Provider = finnhub.NewClient(cfg.Finnhub.Token,
		finnhub.WithBaseURL(cfg.Finnhub.BaseURL),
		finnhub.WithTimeout(cfg.Finnhub.Timeout),
		finnhub.WithMetrics(a.Metrics),
	)
	if cfg.Finnhub.Token == "" {
		log.Warn().Msg("FINNHUB_TOKEN is not set; market data requests will fail")
	}

	a.Orders = trading.NewService(repo, trading.WithMetrics(a.Metrics))
	a.Market = marketsvc.NewService(provider, cache, marketsvc.Config{
		DefaultSymbol:   cfg.Trading.DefaultStockSymbol,
		DefaultQuantity: cfg.Trading.DefaultOrderQuantity,
		CacheTTL:        cfg.Redis.CacheTTL,
		FetchTimeout:    cfg.Finnhub.Timeout,
	}, a.Metrics)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (order.Repository, error) {
	switch a.Config.Database.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, a.Config)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		a.checks["store"] = pool
		a.reports["database"] = func(ctx context.Context) (string, any) {
			h := pool.Health(ctx)
			return h.Status, h
		}
		return postgres.NewOrderRepository(pool), nil

	case config.StoreSQLite:
		repo, err := sqlite.Open(a.Config.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, func() { repo.Close() })
		a.checks["store"] = repo
		a.reports["database"] = func(ctx context.Context) (string, any) { return storeReport(ctx, "sqlite", repo) }
		return repo, nil

	default:
		store := memory.NewOrderStore()
		a.reports["database"] = func(context.Context) (string, any) {
			return admin.StatusHealthy, map[string]any{
				"status":      admin.StatusHealthy,
				"backend":     "memory",
				"buy_orders":  store.Len(order.SideBuy),
				"sell_orders": store.Len(order.SideSell),
			}
		}
		log.Info().Msg("Using in-memory order store")
		return store, nil
	}
}

func (a *App) openCache(ctx context.Context) (marketsvc.Cache, error) {
	switch a.Config.Redis.Cache {
	case config.CacheRedis:
		c, err := rediscache.NewCache(ctx, rediscache.Config{
			Addr:     a.Config.Redis.Addr(),
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		a.closers = append(a.closers, func() { c.Close() })
		a.checks["cache"] = handlers.PingerFunc(c.Ping)
		a.reports["cache"] = func(ctx context.Context) (string, any) {
			return storeReport(ctx, "redis", handlers.PingerFunc(c.Ping))
		}
		return c, nil

	case config.CacheMemory:
		c := memcache.NewCache()
		a.reports["cache"] = func(context.Context) (string, any) {
			hits, misses := c.Stats()
			return admin.StatusHealthy, map[string]any{"status": admin.StatusHealthy, "backend": "memory", "entries": c.Len(), "hits": hits, "misses": misses}
		}
		return c, nil

	default:
		return nil, nil
	}
}

func storeReport(ctx context.Context, backend string, p handlers.Pinger) (string, map[string]any) {
	start := time.Now()
	err := p.PingStore(ctx)
	status := admin.StatusHealthy
	report := map[string]any{
		"backend":       backend,
		"response_time": time.Since(start).String(),
	}
	if err != nil {
		status = admin.StatusUnhealthy
		report["error"] = err.Error()
	}
	report["status"] = status
	return status, report
}

// Handler returns the public HTTP handler
func (a *App) Handler() (http.Handler, error) {
	r, err := api.NewRouter(a.Config, api.Dependencies{
		Orders:  a.Orders,
		Market:  a.Market,
		Checks:  a.checks,
		Metrics: a.Metrics,
		Version: a.Version,
	})
	if err != nil {
		return nil, err
	}
	return r.Engine(), nil
}

// AdminHandler returns the admin HTTP handler
func (a *App) AdminHandler() http.Handler {
	return admin.NewRouter(&admin.Config{
		Metrics:    a.Metrics,
		Orders:     a.Orders,
		Components: a.reports,
		Version:    a.Version,
	})
}

// Serve runs the public and admin servers until ctx is cancelled,
// then shuts both down gracefully.
func (a *App) Serve(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	servers := []*http.Server{
		{
			Addr:         ":" + a.Config.Server.Port,
			Handler:      handler,
			ReadTimeout:  a.Config.Server.ReadTimeout,
			WriteTimeout: a.Config.Server.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
	if a.Config.Server.AdminPort != "" {
		servers = append(servers, &http.Server{
			Addr:         ":" + a.Config.Server.AdminPort,
			Handler:      a.AdminHandler(),
			ReadTimeout:  a.Config.Server.ReadTimeout,
			WriteTimeout: a.Config.Server.WriteTimeout,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Info().Str("address", srv.Addr).Msg("Server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received, stopping servers...")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("Server failed, stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Str("address", srv.Addr).Msg("Server shutdown failed")
		}
	}

	return runErr
}

// Close releases store and cache connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
