package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/wonny/stockapp/internal/api/response"
	"github.com/wonny/stockapp/internal/domain/order"
)

// OrdersHandler serves the JSON order API
type OrdersHandler struct {
	orders OrderService
}

// NewOrdersHandler creates a new OrdersHandler
func NewOrdersHandler(orders OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// CreateBuyOrder places a buy order
// POST /api/orders/buy
func (h *OrdersHandler) CreateBuyOrder(c *gin.Context) {
	h.create(c, h.orders.CreateBuyOrder)
}

// CreateSellOrder places a sell order
// POST /api/orders/sell
func (h *OrdersHandler) CreateSellOrder(c *gin.Context) {
	h.create(c, h.orders.CreateSellOrder)
}

type createFunc func(ctx context.Context, req *order.Request) (*order.Response, error)

func (h *OrdersHandler) create(c *gin.Context, create createFunc) {
	req, err := decodeOrderRequest(c.Request.Body)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if verr := order.DecodeError(typeErr.Field); verr != nil {
				response.ValidationError(c, verr)
				return
			}
		}
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// a nil req is passed through; the service rejects it
	resp, err := create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, resp, "Order created")
}

// decodeOrderRequest returns nil for an empty or null body
func decodeOrderRequest(body io.Reader) (*order.Request, error) {
	if body == nil {
		return nil, nil
	}
	var req *order.Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// ListBuyOrders returns all buy orders
// GET /api/orders/buy
func (h *OrdersHandler) ListBuyOrders(c *gin.Context) {
	h.list(c, h.orders.GetBuyOrders)
}

// ListSellOrders returns all sell orders
// GET /api/orders/sell
func (h *OrdersHandler) ListSellOrders(c *gin.Context) {
	h.list(c, h.orders.GetSellOrders)
}

// ListOrders returns buy and sell orders, newest first
// GET /api/orders
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	h.list(c, h.orders.GetAllOrders)
}

func (h *OrdersHandler) list(c *gin.Context, get func(ctx context.Context) ([]*order.Response, error)) {
	orders, err := get(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessList(c, orders, len(orders))
}
