package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side distinguishes buy orders from sell orders.
// A buy and a sell of the same symbol are never the same entity.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// IsValid checks if side is valid
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Bounds enforced by Validate
const (
	MinQuantity = 1
	MaxQuantity = 100000
	MaxPrice    = 100000.0
)

// Accepted DateAndTimeOfOrder range, inclusive. Dates past MaxOrderDate
// cannot be written as RFC 3339 JSON.
var (
	MinOrderDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxOrderDate = time.Date(9999, time.December, 31, 23, 59, 59, 999999000, time.UTC)
)

// Order is a stored buy or sell order.
// Orders are write-once: no update or delete exists.
type Order struct {
	OrderID            uuid.UUID `json:"order_id" db:"order_id"`
	Side               Side      `json:"side" db:"side"`
	StockSymbol        string    `json:"stock_symbol" db:"stock_symbol"`
	StockName          string    `json:"stock_name" db:"stock_name"`
	DateAndTimeOfOrder time.Time `json:"date_and_time_of_order" db:"date_and_time_of_order"`
	Quantity           uint32    `json:"quantity" db:"quantity"`
	Price              float64   `json:"price" db:"price"`
}

// TradeAmount returns Price × Quantity rounded to cents.
// It is derived for presentation and never persisted.
func (o *Order) TradeAmount() decimal.Decimal {
	return TradeAmount(o.Price, o.Quantity)
}

// TradeAmount computes price × quantity rounded to 2 decimal places
func TradeAmount(price float64, quantity uint32) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Request is an inbound order request built by the presentation layer
type Request struct {
	StockSymbol        string    `json:"stock_symbol" form:"StockSymbol" validate:"notblank"`
	StockName          string    `json:"stock_name" form:"StockName" validate:"notblank"`
	DateAndTimeOfOrder time.Time `json:"date_and_time_of_order" form:"DateAndTimeOfOrder" time_format:"2006-01-02T15:04" time_utc:"1" validate:"orderdate"`
	Quantity           int64     `json:"quantity" form:"Quantity" validate:"min=1,max=100000"`
	Price              float64   `json:"price" form:"Price" validate:"gt=0,lte=100000"`
}

// ToOrder converts the request into an order of the given side.
// OrderID is left empty; the service assigns it. Call it on validated requests only.
func (r *Request) ToOrder(side Side) *Order {
	return &Order{
		Side:               side,
		StockSymbol:        r.StockSymbol,
		StockName:          r.StockName,
		DateAndTimeOfOrder: r.DateAndTimeOfOrder,
		Quantity:           uint32(r.Quantity),
		Price:              r.Price,
	}
}

// Response is the outbound shape of a stored order
type Response struct {
	OrderID            uuid.UUID `json:"order_id"`
	Side               Side      `json:"side"`
	StockSymbol        string    `json:"stock_symbol"`
	StockName          string    `json:"stock_name"`
	DateAndTimeOfOrder time.Time `json:"date_and_time_of_order"`
	Quantity           uint32    `json:"quantity"`
	Price              float64   `json:"price"`
	TradeAmount        float64   `json:"trade_amount"`
}

// NewResponse maps a stored order to its response shape
func NewResponse(o *Order) *Response {
	amount, _ := o.TradeAmount().Float64()
	return &Response{
		OrderID:            o.OrderID,
		Side:               o.Side,
		StockSymbol:        o.StockSymbol,
		StockName:          o.StockName,
		DateAndTimeOfOrder: o.DateAndTimeOfOrder,
		Quantity:           o.Quantity,
		Price:              o.Price,
		TradeAmount:        amount,
	}
}

// NewResponses maps a slice of orders, preserving order
func NewResponses(orders []*Order) []*Response {
	responses := make([]*Response, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, NewResponse(o))
	}
	return responses
}
