package order

import "context"

// Repository persists accepted orders.
// Implementations store buy and sell orders independently and enforce no invariants
// of their own; validation happens upstream.
type Repository interface {
	// Add stores exactly one order
	Add(ctx context.Context, o *Order) error

	// GetAll returns every stored order of the given side in storage order
	GetAll(ctx context.Context, side Side) ([]*Order, error)
}
