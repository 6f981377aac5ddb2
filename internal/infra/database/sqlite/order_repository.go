package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/wonny/stockapp/internal/domain/order"
)

// OrderRepository implements order.Repository on a SQLite file
type OrderRepository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*OrderRepository, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("sqlite mkdir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// single writer; also keeps ":memory:" on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Info().Str("path", path).Msg("SQLite order store opened")
	return &OrderRepository{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS buy_orders (
			seq                    INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id               TEXT    NOT NULL UNIQUE,
			stock_symbol           TEXT    NOT NULL,
			stock_name             TEXT    NOT NULL,
			date_and_time_of_order INTEGER NOT NULL,
			date_and_time_of_order_nanos INTEGER NOT NULL DEFAULT 0,
			quantity               INTEGER NOT NULL,
			price                  REAL    NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sell_orders (
			seq                    INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id               TEXT    NOT NULL UNIQUE,
			stock_symbol           TEXT    NOT NULL,
			stock_name             TEXT    NOT NULL,
			date_and_time_of_order INTEGER NOT NULL,
			date_and_time_of_order_nanos INTEGER NOT NULL DEFAULT 0,
			quantity               INTEGER NOT NULL,
			price                  REAL    NOT NULL
		);
	`)
	return err
}

func tableFor(side order.Side) (string, error) {
	switch side {
	case order.SideBuy:
		return "buy_orders", nil
	case order.SideSell:
		return "sell_orders", nil
	}
	return "", order.ErrInvalidSide
}

// Add inserts one order. Timestamps are stored as Unix seconds plus nanoseconds.
func (r *OrderRepository) Add(ctx context.Context, o *order.Order) error {
	table, err := tableFor(o.Side)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO `+table+` (order_id, stock_symbol, stock_name, date_and_time_of_order, date_and_time_of_order_nanos, quantity, price)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.OrderID.String(),
		o.StockSymbol,
		o.StockName,
		o.DateAndTimeOfOrder.Unix(),
		int64(o.DateAndTimeOfOrder.Nanosecond()),
		int64(o.Quantity),
		o.Price,
	)
	if err != nil {
		return fmt.Errorf("sqlite insert order: %w", err)
	}
	return nil
}

// GetAll returns all orders of a side in insertion order
func (r *OrderRepository) GetAll(ctx context.Context, side order.Side) ([]*order.Order, error) {
	table, err := tableFor(side)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, stock_symbol, stock_name, date_and_time_of_order, date_and_time_of_order_nanos, quantity, price
		 FROM `+table+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("sqlite query orders: %w", err)
	}
	defer rows.Close()

	orders := []*order.Order{}
	for rows.Next() {
		var (
			id    string
			secs  int64
			nanos int64
			qty   int64
			item  = &order.Order{Side: side}
		)
		if err := rows.Scan(&id, &item.StockSymbol, &item.StockName, &secs, &nanos, &qty, &item.Price); err != nil {
			return nil, fmt.Errorf("sqlite scan order: %w", err)
		}
		if item.OrderID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("sqlite parse order id %q: %w", id, err)
		}
		item.DateAndTimeOfOrder = time.Unix(secs, nanos).UTC()
		item.Quantity = uint32(qty)
		orders = append(orders, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite rows: %w", err)
	}
	return orders, nil
}

// PingStore checks the database connection
func (r *OrderRepository) PingStore(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database
func (r *OrderRepository) Close() error {
	return r.db.Close()
}
