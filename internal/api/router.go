package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/wonny/stockapp/internal/api/handlers"
	"github.com/wonny/stockapp/internal/api/middleware"
	"github.com/wonny/stockapp/internal/api/response"
	"github.com/wonny/stockapp/internal/api/views"
	"github.com/wonny/stockapp/internal/pkg/config"
	"github.com/wonny/stockapp/internal/pkg/logger"
	"github.com/wonny/stockapp/internal/pkg/metrics"
)

// Dependencies are the services the router serves
type Dependencies struct {
	Orders  handlers.OrderService
	Market  handlers.MarketService
	Checks  map[string]handlers.Pinger
	Metrics *metrics.Metrics
	Version string
}

// Router holds the gin engine and its handlers
type Router struct {
	engine        *gin.Engine
	config        *config.Config
	metrics       *metrics.Metrics
	healthHandler *handlers.HealthHandler
	tradeHandler  *handlers.TradeHandler
	ordersHandler *handlers.OrdersHandler
	marketHandler *handlers.MarketHandler
	streamHandler *handlers.StreamHandler
}

// NewRouter creates the public HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) (*Router, error) {
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	r := &Router{
		engine:        engine,
		config:        cfg,
		metrics:       deps.Metrics,
		healthHandler: handlers.NewHealthHandler(deps.Checks, deps.Version),
		tradeHandler: handlers.NewTradeHandler(deps.Orders, deps.Market, handlers.TradeConfig{
			FinnhubToken:    cfg.Finnhub.Token,
			DefaultQuantity: cfg.Trading.DefaultOrderQuantity,
		}, deps.Metrics),
		ordersHandler: handlers.NewOrdersHandler(deps.Orders),
		marketHandler: handlers.NewMarketHandler(deps.Market),
		streamHandler: handlers.NewStreamHandler(deps.Market, cfg.Finnhub.StreamInterval),
	}

	r.setupMiddlewares()
	r.setupRoutes()

	return r, nil
}

// setupMiddlewares configures all global middlewares
func (r *Router) setupMiddlewares() {
	// request id first so recovery can log it
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery())

	logCfg := middleware.LoggingConfig{
		Metrics:   r.metrics,
		SkipPaths: []string{"/health", "/health/ready"},
	}
	if r.config.Logging.FileEnabled {
		accessLogger := logger.NewAccessLogger(
			r.config.Logging.FilePath,
			r.config.Logging.RotationSize,
			r.config.Logging.RetentionDays,
		)
		logCfg.AccessLogger = &accessLogger
	}
	r.engine.Use(middleware.Logging(logCfg))

	if r.config.Server.Mode == gin.DebugMode {
		r.engine.Use(middleware.CORS(middleware.DevelopmentCORSConfig()))
	} else {
		r.engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.healthHandler.Health)
	r.engine.GET("/health/ready", r.healthHandler.Ready)

	r.engine.GET("/", r.tradeHandler.Index)
	trade := r.engine.Group("/trade")
	{
		trade.GET("", r.tradeHandler.Index)
		trade.GET("/index", r.tradeHandler.Index)
		trade.POST("/buy-order", r.tradeHandler.BuyOrder)
		trade.POST("/sell-order", r.tradeHandler.SellOrder)
		trade.GET("/orders", r.tradeHandler.Orders)
		trade.GET("/orders/pdf", r.tradeHandler.OrdersPDF)
	}

	api := r.engine.Group("/api")
	{
		stocks := api.Group("/stocks")
		{
			stocks.GET("/:symbol", r.marketHandler.GetStockTrade)
			stocks.GET("/:symbol/profile", r.marketHandler.GetProfile)
			stocks.GET("/:symbol/quote", r.marketHandler.GetQuote)
			stocks.GET("/:symbol/stream", r.streamHandler.StreamQuotes)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", r.ordersHandler.ListOrders)
			orders.GET("/buy", r.ordersHandler.ListBuyOrders)
			orders.GET("/sell", r.ordersHandler.ListSellOrders)
			orders.POST("/buy", r.ordersHandler.CreateBuyOrder)
			orders.POST("/sell", r.ordersHandler.CreateSellOrder)
		}
	}

	r.engine.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found: "+c.Request.URL.Path)
	})
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
