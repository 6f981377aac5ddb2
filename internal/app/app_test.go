package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stockapp/internal/domain/order"
	"github.com/wonny/stockapp/internal/pkg/config"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()

	finnhub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stock/profile2":
			w.Write([]byte(`{"ticker":"MSFT","name":"Microsoft Corp"}`))
		case "/quote":
			w.Write([]byte(`{"c":80,"pc":79}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(finnhub.Close)

	return &config.Config{
		Server: config.ServerConfig{Mode: "test", Port: "0"},
		Database: config.DatabaseConfig{
			Store:      store,
			SQLitePath: filepath.Join(t.TempDir(), "orders.db"),
		},
		Redis:   config.RedisConfig{Cache: config.CacheMemory, CacheTTL: time.Minute},
		Logging: config.LoggingConfig{Level: "info"},
		Finnhub: config.FinnhubConfig{Token: "tok", BaseURL: finnhub.URL, Timeout: time.Second},
		Trading: config.TradingConfig{DefaultStockSymbol: "MSFT", DefaultOrderQuantity: 100},
	}
}

func TestApp_Stores(t *testing.T) {
	for _, store := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(store, func(t *testing.T) {
			ctx := context.Background()
			a, err := New(ctx, testConfig(t, store), "test")
			require.NoError(t, err)
			defer a.Close()

			resp, err := a.Orders.CreateBuyOrder(ctx, &order.Request{StockSymbol: "MSFT", StockName: "Microsoft", Quantity: 3, Price: 80})
			require.NoError(t, err)
			assert.Equal(t, 240.0, resp.TradeAmount)

			buys, err := a.Orders.GetBuyOrders(ctx)
			require.NoError(t, err)
			require.Len(t, buys, 1)
			assert.Equal(t, resp.OrderID, buys[0].OrderID)

			trade, err := a.Market.GetStockTrade(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, "Microsoft Corp", trade.StockName)
		})
	}
}

func TestApp_Handlers(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, config.StoreSQLite), "test")
	require.NoError(t, err)
	defer a.Close()

	h, err := a.Handler()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"ok"`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/orders/buy",
		strings.NewReader(`{"stock_symbol":"MSFT","stock_name":"Microsoft","quantity":1,"price":10}`)))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	a.AdminHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/detailed", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sqlite"`)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	cfg.Server.AdminPort = ""

	a, err := New(context.Background(), cfg, "test")
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
