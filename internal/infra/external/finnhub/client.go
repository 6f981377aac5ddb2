package finnhub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/stockapp/internal/domain/market"
	"github.com/wonny/stockapp/internal/pkg/metrics"
)

const (
	DefaultBaseURL = "https://finnhub.io/api/v1"
	defaultTimeout = 10 * time.Second

	endpointProfile = "/stock/profile2"
	endpointQuote   = "/quote"

	maxBodySize = 1 << 20
)

// Client is a Finnhub REST client implementing market.Provider
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	metrics    *metrics.Metrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTimeout sets the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMetrics records request counts and latency
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client authenticating with token
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ market.Provider = (*Client)(nil)

// GetCompanyProfile fetches /stock/profile2 for symbol
func (c *Client) GetCompanyProfile(ctx context.Context, symbol string) (*market.CompanyProfile, error) {
	const op = "get company profile"

	var profile market.CompanyProfile
	if err := c.get(ctx, endpointProfile, symbol, "ticker", &profile); err != nil {
		return nil, &market.ProviderError{Op: op, Symbol: symbol, Err: err}
	}

	log.Debug().
		Str("symbol", symbol).
		Str("name", profile.Name).
		Msg("Fetched company profile from Finnhub")

	return &profile, nil
}

// GetStockPriceQuote fetches /quote for symbol
func (c *Client) GetStockPriceQuote(ctx context.Context, symbol string) (*market.Quote, error) {
	const op = "get stock price quote"

	var quote market.Quote
	if err := c.get(ctx, endpointQuote, symbol, "c", &quote); err != nil {
		return nil, &market.ProviderError{Op: op, Symbol: symbol, Err: err}
	}

	log.Debug().
		Str("symbol", symbol).
		Float64("price", quote.CurrentPrice).
		Msg("Fetched quote from Finnhub")

	return &quote, nil
}

// get performs the request and decodes into out after checking that the
// body is a non-empty object without an "error" key and with requiredKey.
func (c *Client) get(ctx context.Context, endpoint, symbol, requiredKey string, out any) (err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveProvider(endpoint, start, err) }()

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("token", c.token)
	reqURL := c.baseURL + endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Finnhub-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().
			Str("endpoint", endpoint).
			Str("symbol", symbol).
			Int("status", resp.StatusCode).
			Msg("Finnhub returned non-OK status")
		return fmt.Errorf("%w: %d %s", market.ErrUnexpectedStatus, resp.StatusCode, snippet(body))
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return market.ErrEmptyResponse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(fields) == 0 {
		return market.ErrEmptyResponse
	}
	if raw, ok := fields["error"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) != nil {
			msg = string(raw)
		}
		return fmt.Errorf("provider error: %s", msg)
	}
	if _, ok := fields[requiredKey]; !ok {
		return fmt.Errorf("%w: %s", market.ErrMissingField, requiredKey)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
