package trading

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/wonny/stockapp/internal/domain/order"
	"github.com/wonny/stockapp/internal/pkg/logger"
	"github.com/wonny/stockapp/internal/pkg/metrics"
)

// Service validates, stamps and stores buy and sell orders
type Service struct {
	repo    order.Repository
	now     func() time.Time
	newID   func() uuid.UUID
	metrics *metrics.Metrics
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used to stamp orders without a date
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records order counters and store latency
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a new trading service
func NewService(repo order.Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBuyOrder validates and stores a buy order
func (s *Service) CreateBuyOrder(ctx context.Context, req *order.Request) (*order.Response, error) {
	return s.create(ctx, order.SideBuy, req)
}

// CreateSellOrder validates and stores a sell order
func (s *Service) CreateSellOrder(ctx context.Context, req *order.Request) (*order.Response, error) {
	return s.create(ctx, order.SideSell, req)
}

func (s *Service) create(ctx context.Context, side order.Side, req *order.Request) (*order.Response, error) {
	if req == nil {
		s.metrics.OrderRejected(string(side), "null")
		return nil, order.ErrNullRequest
	}

	// work on a copy; the caller's request is left untouched
	r := *req
	if r.DateAndTimeOfOrder.IsZero() {
		r.DateAndTimeOfOrder = s.now()
	}
	// microseconds in UTC survive every store unchanged
	r.DateAndTimeOfOrder = r.DateAndTimeOfOrder.UTC().Truncate(time.Microsecond)

	if err := order.Validate(&r); err != nil {
		s.metrics.OrderRejected(string(side), "validation")
		logger.Ctx(ctx).Info().
			Str("side", string(side)).
			Str("symbol", r.StockSymbol).
			Err(err).
			Msg("Order rejected")
		return nil, err
	}

	o := r.ToOrder(side)
	o.OrderID = s.newID()

	start := time.Now()
	err := s.repo.Add(ctx, o)
	s.metrics.ObserveStore("add", start)
	if err != nil {
		s.metrics.OrderRejected(string(side), "store")
		logger.Ctx(ctx).Error().
			Err(err).
			Str("side", string(side)).
			Str("symbol", o.StockSymbol).
			Msg("Failed to store order")
		return nil, &order.StoreError{Op: "add", Side: side, Symbol: o.StockSymbol, Err: err}
	}

	s.metrics.OrderCreated(string(side))
	logger.Ctx(ctx).Info().
		Str("order_id", o.OrderID.String()).
		Str("side", string(side)).
		Str("symbol", o.StockSymbol).
		Uint32("quantity", o.Quantity).
		Float64("price", o.Price).
		Msg("Order accepted")

	return order.NewResponse(o), nil
}

// GetBuyOrders returns all buy orders in storage order
func (s *Service) GetBuyOrders(ctx context.Context) ([]*order.Response, error) {
	return s.list(ctx, order.SideBuy)
}

// GetSellOrders returns all sell orders in storage order
func (s *Service) GetSellOrders(ctx context.Context) ([]*order.Response, error) {
	return s.list(ctx, order.SideSell)
}

func (s *Service) list(ctx context.Context, side order.Side) ([]*order.Response, error) {
	start := time.Now()
	orders, err := s.repo.GetAll(ctx, side)
	s.metrics.ObserveStore("get_all", start)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("side", string(side)).Msg("Failed to load orders")
		return nil, &order.StoreError{Op: "get", Side: side, Err: err}
	}
	return order.NewResponses(orders), nil
}

// GetAllOrders returns buy and sell orders merged, newest first.
// Ties keep buys before sells, then storage order.
func (s *Service) GetAllOrders(ctx context.Context) ([]*order.Response, error) {
	buys, err := s.GetBuyOrders(ctx)
	if err != nil {
		return nil, err
	}
	sells, err := s.GetSellOrders(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]*order.Response, 0, len(buys)+len(sells))
	all = append(all, buys...)
	all = append(all, sells...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].DateAndTimeOfOrder.After(all[j].DateAndTimeOfOrder)
	})
	return all, nil
}
