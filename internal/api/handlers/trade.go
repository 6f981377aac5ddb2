package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"
	"github.com/wonny/stockapp/internal/api/middleware"
	"github.com/wonny/stockapp/internal/api/views"
	"github.com/wonny/stockapp/internal/domain/market"
	"github.com/wonny/stockapp/internal/domain/order"
	"github.com/wonny/stockapp/internal/export/pdf"
	"github.com/wonny/stockapp/internal/pkg/metrics"
)

// TradeConfig holds values the trade pages need
type TradeConfig struct {
	FinnhubToken    string
	DefaultQuantity uint32
}

// TradeHandler serves the HTML trade pages and the PDF export
type TradeHandler struct {
	orders  OrderService
	market  MarketService
	cfg     TradeConfig
	metrics *metrics.Metrics
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(orders OrderService, market MarketService, cfg TradeConfig, m *metrics.Metrics) *TradeHandler {
	return &TradeHandler{
		orders:  orders,
		market:  market,
		cfg:     cfg,
		metrics: m,
	}
}

type indexPage struct {
	Title        string
	Stock        market.StockTrade
	Form         order.Request
	Warning      string
	Errors       []order.FieldError
	FinnhubToken string
}

// Index shows the default (or ?symbol=) stock with buy and sell forms
// GET /, /trade, /trade/index
func (h *TradeHandler) Index(c *gin.Context) {
	page := h.loadIndex(c.Request.Context(), c.Query("symbol"))
	c.HTML(http.StatusOK, views.Index, page)
}

func (h *TradeHandler) loadIndex(ctx context.Context, symbol string) indexPage {
	page := indexPage{
		Title:        "Trade",
		FinnhubToken: h.cfg.FinnhubToken,
	}

	trade, err := h.market.GetStockTrade(ctx, symbol)
	if err != nil {
		// render without a quote
		sym := market.NormalizeSymbol(symbol)
		if sym == "" || errors.Is(err, market.ErrInvalidSymbol) {
			sym = h.market.DefaultSymbol()
		}
		page.Stock = market.StockTrade{StockSymbol: sym, Quantity: h.cfg.DefaultQuantity}
		page.Warning = "Live market data is unavailable right now."
		if errors.Is(err, market.ErrInvalidSymbol) {
			page.Warning = "Unknown stock symbol; showing " + sym + "."
		}
		log.Warn().Err(err).Str("symbol", symbol).Msg("Trade page rendered without quote")
		return page
	}

	page.Stock = *trade
	return page
}

// BuyOrder handles the buy form
// POST /trade/buy-order
func (h *TradeHandler) BuyOrder(c *gin.Context) {
	h.submit(c, h.orders.CreateBuyOrder)
}

// SellOrder handles the sell form
// POST /trade/sell-order
func (h *TradeHandler) SellOrder(c *gin.Context) {
	h.submit(c, h.orders.CreateSellOrder)
}

func (h *TradeHandler) submit(c *gin.Context, create createFunc) {
	var req order.Request
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.renderFormErrors(c, &req, []order.FieldError{{
			Field:   "Form",
			Tag:     "parse",
			Message: "The order form could not be read: " + err.Error(),
		}})
		return
	}

	_, err := create(c.Request.Context(), &req)
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/trade/orders")
		return
	}

	var verr *order.ValidationError
	if errors.As(err, &verr) {
		h.renderFormErrors(c, &req, verr.Fields)
		return
	}
	h.renderError(c, http.StatusInternalServerError, "The order could not be saved.")
}

// renderFormErrors re-renders the trade page with the submitted values
func (h *TradeHandler) renderFormErrors(c *gin.Context, req *order.Request, fields []order.FieldError) {
	page := indexPage{
		Title:        "Trade",
		FinnhubToken: h.cfg.FinnhubToken,
		Form:         *req,
		Errors:       fields,
		Stock: market.StockTrade{
			StockSymbol: req.StockSymbol,
			StockName:   req.StockName,
			Price:       req.Price,
			Quantity:    h.cfg.DefaultQuantity,
		},
	}
	if req.Quantity >= order.MinQuantity && req.Quantity <= order.MaxQuantity {
		page.Stock.Quantity = uint32(req.Quantity)
	}
	if page.Stock.StockSymbol == "" {
		page.Stock.StockSymbol = h.market.DefaultSymbol()
	}
	c.HTML(http.StatusBadRequest, views.Index, page)
}

type ordersPage struct {
	Title  string
	Orders []*order.Response
}

// Orders lists buy and sell orders, newest first
// GET /trade/orders
func (h *TradeHandler) Orders(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("Failed to load orders page")
		h.renderError(c, http.StatusInternalServerError, "Orders could not be loaded.")
		return
	}
	c.HTML(http.StatusOK, views.Orders, ordersPage{Title: "Orders", Orders: orders})
}

// OrdersPDF downloads all orders as orders.pdf
// GET /trade/orders/pdf
func (h *TradeHandler) OrdersPDF(c *gin.Context) {
	orders, err := h.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("Failed to load orders for export")
		h.renderError(c, http.StatusInternalServerError, "Orders could not be loaded.")
		return
	}

	var buf bytes.Buffer
	if err := pdf.WriteOrders(&buf, orders, time.Now()); err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("Failed to render orders PDF")
		h.renderError(c, http.StatusInternalServerError, "The PDF could not be generated.")
		return
	}

	h.metrics.PDFExported()
	c.Header("Content-Disposition", `attachment; filename="orders.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *TradeHandler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, views.Error, gin.H{
		"Title":     "Error",
		"Message":   message,
		"RequestID": middleware.GetRequestID(c),
	})
}
