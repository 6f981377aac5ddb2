package handlers

import (
	"context"

	"github.com/wonny/stockapp/internal/domain/market"
	"github.com/wonny/stockapp/internal/domain/order"
)

// OrderService is what the handlers need from the trading service
type OrderService interface {
	CreateBuyOrder(ctx context.Context, req *order.Request) (*order.Response, error)
	CreateSellOrder(ctx context.Context, req *order.Request) (*order.Response, error)
	GetBuyOrders(ctx context.Context) ([]*order.Response, error)
	GetSellOrders(ctx context.Context) ([]*order.Response, error)
	GetAllOrders(ctx context.Context) ([]*order.Response, error)
}

// MarketService is what the handlers need from the market data service
type MarketService interface {
	DefaultSymbol() string
	GetStockTrade(ctx context.Context, symbol string) (*market.StockTrade, error)
	GetCompanyProfile(ctx context.Context, symbol string) (*market.CompanyProfile, error)
	GetStockPriceQuote(ctx context.Context, symbol string) (*market.Quote, error)
}
