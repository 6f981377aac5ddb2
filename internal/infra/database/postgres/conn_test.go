package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stockapp/internal/domain/order"
	"github.com/wonny/stockapp/internal/infra/database/postgres"
	"github.com/wonny/stockapp/internal/pkg/config"
	"github.com/wonny/stockapp/internal/service/trading"
)

func testPool(t *testing.T) *postgres.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - requires PostgreSQL (set TEST_DATABASE_URL)")
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	cfg.Database.URL = url

	pool, err := postgres.NewPool(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), "TRUNCATE trade.buy_orders, trade.sell_orders")
	require.NoError(t, err)

	return pool
}

func TestPool_Health(t *testing.T) {
	pool := testPool(t)

	health := pool.Health(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.Greater(t, health.MaxConns, int32(0))
	assert.NoError(t, pool.PingStore(context.Background()))
}

func TestOrderRepository_RoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := postgres.NewOrderRepository(pool)
	ctx := context.Background()

	placed := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	orders := []*order.Order{
		{OrderID: uuid.New(), Side: order.SideBuy, StockSymbol: "MSFT", StockName: "Microsoft", DateAndTimeOfOrder: placed, Quantity: 3, Price: 80},
		{OrderID: uuid.New(), Side: order.SideBuy, StockSymbol: "AAPL", StockName: "Apple", DateAndTimeOfOrder: placed, Quantity: 2, Price: 10},
		{OrderID: uuid.New(), Side: order.SideSell, StockSymbol: "MSFT", StockName: "Microsoft", DateAndTimeOfOrder: placed, Quantity: 1, Price: 81},
	}
	for _, o := range orders {
		require.NoError(t, repo.Add(ctx, o))
	}

	buys, err := repo.GetAll(ctx, order.SideBuy)
	require.NoError(t, err)
	require.Len(t, buys, 2)
	assert.Equal(t, orders[0].OrderID, buys[0].OrderID)
	assert.Equal(t, orders[1].OrderID, buys[1].OrderID)
	assert.Equal(t, placed, buys[0].DateAndTimeOfOrder)
	assert.Equal(t, uint32(3), buys[0].Quantity)

	sells, err := repo.GetAll(ctx, order.SideSell)
	require.NoError(t, err)
	require.Len(t, sells, 1)
	assert.Equal(t, order.SideSell, sells[0].Side)
}

func TestOrderRepository_ServiceRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	clock := time.Date(2024, 3, 15, 14, 30, 0, 123456789, time.FixedZone("KST", 9*3600))
	svc := trading.NewService(postgres.NewOrderRepository(pool), trading.WithClock(func() time.Time { return clock }))

	resp, err := svc.CreateBuyOrder(ctx, &order.Request{StockSymbol: "MSFT", StockName: "Microsoft", Quantity: 3, Price: 80})
	require.NoError(t, err)

	buys, err := svc.GetBuyOrders(ctx)
	require.NoError(t, err)
	require.Len(t, buys, 1)
	assert.Equal(t, resp, buys[0])
	assert.Equal(t, time.UTC, buys[0].DateAndTimeOfOrder.Location())
}
