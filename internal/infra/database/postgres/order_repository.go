package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wonny/stockapp/internal/domain/order"
)

// querier is the subset of pgxpool.Pool / pgx.Tx the repository needs
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// OrderRepository implements order.Repository on PostgreSQL
type OrderRepository struct {
	db querier
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db querier) *OrderRepository {
	return &OrderRepository{db: db}
}

func tableFor(side order.Side) (string, error) {
	switch side {
	case order.SideBuy:
		return "trade.buy_orders", nil
	case order.SideSell:
		return "trade.sell_orders", nil
	}
	return "", order.ErrInvalidSide
}

// Add inserts one order
func (r *OrderRepository) Add(ctx context.Context, o *order.Order) error {
	table, err := tableFor(o.Side)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + table + ` (
			order_id,
			stock_symbol,
			stock_name,
			date_and_time_of_order,
			quantity,
			price
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.Exec(ctx, query,
		o.OrderID,
		o.StockSymbol,
		o.StockName,
		o.DateAndTimeOfOrder,
		int64(o.Quantity),
		o.Price,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetAll returns all orders of a side in insertion order
func (r *OrderRepository) GetAll(ctx context.Context, side order.Side) ([]*order.Order, error) {
	table, err := tableFor(side)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			order_id,
			stock_symbol,
			stock_name,
			date_and_time_of_order,
			quantity,
			price
		FROM ` + table + `
		ORDER BY seq
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []*order.Order{}
	for rows.Next() {
		o := &order.Order{Side: side}
		var qty int64
		if err := rows.Scan(
			&o.OrderID,
			&o.StockSymbol,
			&o.StockName,
			&o.DateAndTimeOfOrder,
			&qty,
			&o.Price,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.DateAndTimeOfOrder = o.DateAndTimeOfOrder.UTC()
		o.Quantity = uint32(qty)
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}
