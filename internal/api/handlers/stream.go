package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/wonny/stockapp/internal/api/response"
	"github.com/wonny/stockapp/internal/domain/market"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// QuoteUpdate is one message on the quote stream
type QuoteUpdate struct {
	Symbol string        `json:"symbol"`
	Quote  *market.Quote `json:"quote,omitempty"`
	Error  string        `json:"error,omitempty"`
	SentAt time.Time     `json:"sent_at"`
}

// StreamHandler pushes periodic quotes over a websocket
type StreamHandler struct {
	market   MarketService
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(market MarketService, interval time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &StreamHandler{market: market, interval: interval}
}

// StreamQuotes upgrades to a websocket and sends the symbol's quote every interval
// GET /api/stocks/:symbol/stream
func (h *StreamHandler) StreamQuotes(c *gin.Context) {
	symbol := market.NormalizeSymbol(c.Param("symbol"))
	if !market.ValidateSymbol(symbol) {
		response.BadRequest(c, "Invalid stock symbol: "+c.Param("symbol"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("Quote stream upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// reader only watches for close and pong frames
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Info().Str("symbol", symbol).Str("remote", c.ClientIP()).Msg("Quote stream: client connected")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	if !h.push(ctx, conn, symbol) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("symbol", symbol).Msg("Quote stream: client disconnected")
			return
		case <-ticker.C:
			if !h.push(ctx, conn, symbol) {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push writes one update; provider errors are sent to the client, write errors end the stream
func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn, symbol string) bool {
	update := QuoteUpdate{Symbol: symbol, SentAt: time.Now().UTC()}

	quote, err := h.market.GetStockPriceQuote(ctx, symbol)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		update.Error = "quote unavailable"
		log.Warn().Err(err).Str("symbol", symbol).Msg("Quote stream: provider error")
	} else {
		update.Quote = quote
	}

	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(update); err != nil {
		log.Debug().Err(err).Str("symbol", symbol).Msg("Quote stream: write failed")
		return false
	}
	return true
}
