package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/wonny/stockapp/internal/api/response"
)

// MarketHandler serves market data lookups
type MarketHandler struct {
	market MarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(market MarketService) *MarketHandler {
	return &MarketHandler{market: market}
}

// GetStockTrade returns symbol, name, current price and default quantity
// GET /api/stocks/:symbol
func (h *MarketHandler) GetStockTrade(c *gin.Context) {
	trade, err := h.market.GetStockTrade(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, trade)
}

// GetProfile returns the company profile
// GET /api/stocks/:symbol/profile
func (h *MarketHandler) GetProfile(c *gin.Context) {
	profile, err := h.market.GetCompanyProfile(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, profile)
}

// GetQuote returns the latest price quote
// GET /api/stocks/:symbol/quote
func (h *MarketHandler) GetQuote(c *gin.Context) {
	quote, err := h.market.GetStockPriceQuote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, quote)
}
