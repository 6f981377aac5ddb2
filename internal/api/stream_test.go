package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stockapp/internal/api/handlers"
)

func dialStream(t *testing.T, env *testEnv, symbol string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(env.engine)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stocks/" + symbol + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestQuoteStream_SendsQuote(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, nil, nil)
	conn := dialStream(t, env, "msft")

	var update handlers.QuoteUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "MSFT", update.Symbol)
	require.NotNil(t, update.Quote)
	assert.Equal(t, 80.0, update.Quote.CurrentPrice)
	assert.Empty(t, update.Error)
}

func TestQuoteStream_ProviderError(t *testing.T) {
	env := newTestEnv(t, &stubProvider{err: errors.New("boom")}, nil, nil)
	conn := dialStream(t, env, "MSFT")

	var update handlers.QuoteUpdate
	require.NoError(t, conn.ReadJSON(&update))
	assert.Nil(t, update.Quote)
	assert.Equal(t, "quote unavailable", update.Error)
}

func TestQuoteStream_InvalidSymbol(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, nil, nil)

	w := env.do(http.MethodGet, "/api/stocks/WAYTOOLONGSYMBOL/stream", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
