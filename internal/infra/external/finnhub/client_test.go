package finnhub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stockapp/internal/domain/market"
	"github.com/wonny/stockapp/internal/pkg/metrics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-token", WithBaseURL(srv.URL), WithTimeout(2*time.Second))
}

func TestClient_GetCompanyProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/profile2", r.URL.Path)
		assert.Equal(t, "MSFT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		w.Write([]byte(`{"ticker":"MSFT","name":"Microsoft Corp","exchange":"NASDAQ","currency":"USD","finnhubIndustry":"Technology","marketCapitalization":3000000.5}`))
	})

	p, err := c.GetCompanyProfile(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", p.Ticker)
	assert.Equal(t, "Microsoft Corp", p.Name)
	assert.Equal(t, "Technology", p.Industry)
	assert.Equal(t, 3000000.5, p.MarketCap)
}

func TestClient_GetStockPriceQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		w.Write([]byte(`{"c":80.5,"d":1.2,"dp":1.5,"h":81,"l":79,"o":79.5,"pc":79.3,"t":1704067200}`))
	})

	q, err := c.GetStockPriceQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, 80.5, q.CurrentPrice)
	assert.Equal(t, 79.3, q.PreviousClose)
	assert.Equal(t, int64(1704067200), q.Timestamp)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"non-200 status", http.StatusTooManyRequests, `{"error":"limit"}`, market.ErrUnexpectedStatus},
		{"empty body", http.StatusOK, ``, market.ErrEmptyResponse},
		{"null body", http.StatusOK, `null`, market.ErrEmptyResponse},
		{"empty object", http.StatusOK, `{}`, market.ErrEmptyResponse},
		{"error key", http.StatusOK, `{"error":"Invalid API key"}`, nil},
		{"malformed json", http.StatusOK, `{"c":`, nil},
		{"missing required key", http.StatusOK, `{"d":1.0}`, market.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GetStockPriceQuote(context.Background(), "MSFT")
			require.Error(t, err)
			assert.ErrorIs(t, err, market.ErrProvider)

			var pe *market.ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "MSFT", pe.Symbol)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClient_ProfileMissingTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Nameless"}`))
	})

	_, err := c.GetCompanyProfile(context.Background(), "XXX")
	assert.ErrorIs(t, err, market.ErrProvider)
	assert.ErrorIs(t, err, market.ErrMissingField)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	m := metrics.New()
	c := NewClient("t", WithBaseURL(srv.URL), WithMetrics(m))

	_, err := c.GetCompanyProfile(context.Background(), "MSFT")
	assert.ErrorIs(t, err, market.ErrProvider)
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":1}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetStockPriceQuote(ctx, "MSFT")
	assert.ErrorIs(t, err, market.ErrProvider)
	assert.ErrorIs(t, err, context.Canceled)
}
