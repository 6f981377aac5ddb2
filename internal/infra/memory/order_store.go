package memory

import (
	"context"
	"sync"

	"github.com/wonny/stockapp/internal/domain/order"
)

// OrderStore is a process-lifetime order.Repository.
// Buy and sell orders live in separate append-only slices.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[order.Side][]*order.Order
}

// NewOrderStore creates an empty store
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: map[order.Side][]*order.Order{
			order.SideBuy:  {},
			order.SideSell: {},
		},
	}
}

// Add stores a copy of the order
func (s *OrderStore) Add(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !o.Side.IsValid() {
		return order.ErrInvalidSide
	}

	stored := *o

	s.mu.Lock()
	s.orders[o.Side] = append(s.orders[o.Side], &stored)
	s.mu.Unlock()

	return nil
}

// GetAll returns copies of all orders of a side, in insertion order
func (s *OrderStore) GetAll(ctx context.Context, side order.Side) ([]*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !side.IsValid() {
		return nil, order.ErrInvalidSide
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*order.Order, 0, len(s.orders[side]))
	for _, o := range s.orders[side] {
		cp := *o
		result = append(result, &cp)
	}
	return result, nil
}

// Len returns the number of stored orders of a side
func (s *OrderStore) Len(side order.Side) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders[side])
}
