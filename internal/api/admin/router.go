package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wonny/stockapp/internal/domain/order"
	"github.com/wonny/stockapp/internal/pkg/metrics"
)

// OrderLister reads all orders for the summary endpoint
type OrderLister interface {
	GetAllOrders(ctx context.Context) ([]*order.Response, error)
}

// Component health states, worst last
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthReporter returns a component's status and its detailed report
type HealthReporter func(ctx context.Context) (status string, detail any)

// Config holds admin router dependencies
type Config struct {
	Metrics      *metrics.Metrics
	Orders       OrderLister
	Components   map[string]HealthReporter
	AllowOrigins []string
	Version      string
}

// NewRouter creates the admin HTTP router: metrics, detailed health and order summary
func NewRouter(cfg *Config) http.Handler {
	r := chi.NewRouter()
	started := time.Now()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/health/detailed", func(w http.ResponseWriter, r *http.Request) {
		overall := StatusHealthy
		components := make(map[string]any, len(cfg.Components))
		for name, report := range cfg.Components {
			status, detail := report(r.Context())
			components[name] = detail
			overall = worse(overall, status)
		}

		code := http.StatusOK
		if overall == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]any{
			"status":         overall,
			"version":        cfg.Version,
			"uptime_seconds": int64(time.Since(started).Seconds()),
			"timestamp":      time.Now(),
			"components":     components,
		})
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	if cfg.Orders != nil {
		r.Get("/admin/orders/summary", orderSummary(cfg.Orders))
	}

	return r
}

func severity(status string) int {
	switch status {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	}
	return 2
}

// worse returns the more severe of two states; unknown states count as unhealthy
func worse(a, b string) string {
	if severity(b) <= severity(a) {
		return a
	}
	if b == StatusDegraded {
		return b
	}
	return StatusUnhealthy
}

// SideSummary aggregates one side's orders
type SideSummary struct {
	Count       int    `json:"count"`
	Quantity    uint64 `json:"quantity"`
	TradeAmount string `json:"trade_amount"`
}

func orderSummary(orders OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := orders.GetAllOrders(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("Order summary failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		type acc struct {
			count int
			qty   uint64
			total decimal.Decimal
		}
		sides := map[order.Side]*acc{
			order.SideBuy:  {total: decimal.Zero},
			order.SideSell: {total: decimal.Zero},
		}
		for _, o := range all {
			a, ok := sides[o.Side]
			if !ok {
				continue
			}
			a.count++
			a.qty += uint64(o.Quantity)
			a.total = a.total.Add(order.TradeAmount(o.Price, o.Quantity))
		}

		out := make(map[string]SideSummary, len(sides))
		for side, a := range sides {
			out[string(side)] = SideSummary{Count: a.count, Quantity: a.qty, TradeAmount: a.total.StringFixed(2)}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode admin response")
	}
}
