package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/akraev/shopctl/internal/model"
)

// PlaceOrderRequest carries the checkout submission. Products is the
// flattened id list (one entry per unit); Total is the advisory client-side
// sum — the backend recomputes and stays authoritative.
type PlaceOrderRequest struct {
	Products        []string `json:"products"`
	Total           float64  `json:"total"`
	UserID          string   `json:"user_id"`
	ShippingAddress string   `json:"shipping_address"`
}

// PlaceOrderResponse acknowledges a placed order.
type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}

// PlaceOrder submits an order. On success the backend also empties the
// user's server-side cart; the caller must invalidate its cart view.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	var out PlaceOrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Order returns a single order by id.
func (c *Client) Order(ctx context.Context, id string) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrdersByUser returns the order history of one user.
func (c *Client) OrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders/user/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
