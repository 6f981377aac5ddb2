package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/stockapp/internal/domain/order"
)

func newOrder(side order.Side, symbol string) *order.Order {
	return &order.Order{
		OrderID:            uuid.New(),
		Side:               side,
		StockSymbol:        symbol,
		StockName:          symbol + " Inc",
		DateAndTimeOfOrder: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:           1,
		Price:              10,
	}
}

func TestOrderStore_SidesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()

	buy := newOrder(order.SideBuy, "MSFT")
	sell := newOrder(order.SideSell, "MSFT")
	require.NoError(t, s.Add(ctx, buy))
	require.NoError(t, s.Add(ctx, sell))

	buys, err := s.GetAll(ctx, order.SideBuy)
	require.NoError(t, err)
	sells, err := s.GetAll(ctx, order.SideSell)
	require.NoError(t, err)

	require.Len(t, buys, 1)
	require.Len(t, sells, 1)
	assert.Equal(t, buy.OrderID, buys[0].OrderID)
	assert.Equal(t, sell.OrderID, sells[0].OrderID)
}

func TestOrderStore_InsertionOrderAndCopies(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()

	first := newOrder(order.SideBuy, "AAPL")
	second := newOrder(order.SideBuy, "MSFT")
	require.NoError(t, s.Add(ctx, first))
	require.NoError(t, s.Add(ctx, second))

	// mutating the caller's value must not reach the store
	first.StockSymbol = "CHANGED"

	got, err := s.GetAll(ctx, order.SideBuy)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].StockSymbol)
	assert.Equal(t, "MSFT", got[1].StockSymbol)

	got[0].StockSymbol = "ALSO CHANGED"
	again, _ := s.GetAll(ctx, order.SideBuy)
	assert.Equal(t, "AAPL", again[0].StockSymbol)
}

func TestOrderStore_InvalidSide(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()

	assert.ErrorIs(t, s.Add(ctx, newOrder("HOLD", "X")), order.ErrInvalidSide)
	_, err := s.GetAll(ctx, "HOLD")
	assert.ErrorIs(t, err, order.ErrInvalidSide)
}

func TestOrderStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewOrderStore()
	assert.ErrorIs(t, s.Add(ctx, newOrder(order.SideBuy, "X")), context.Canceled)
	assert.Equal(t, 0, s.Len(order.SideBuy))
}

func TestOrderStore_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			side := order.SideBuy
			if w%2 == 1 {
				side = order.SideSell
			}
			for i := 0; i < perWorker; i++ {
				_ = s.Add(ctx, newOrder(side, "SYM"))
				_, _ = s.GetAll(ctx, side)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers/2*perWorker, s.Len(order.SideBuy))
	assert.Equal(t, workers/2*perWorker, s.Len(order.SideSell))
}
