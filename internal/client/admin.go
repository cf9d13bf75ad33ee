package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/akraev/shopctl/internal/errs"
	"github.com/akraev/shopctl/internal/model"
)

// Admin endpoints. The backend enforces the admin role; these methods only
// shape the requests.

// AdminListProducts returns the full, unpaged catalog.
func (c *Client) AdminListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/admin/products", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminAddProduct creates a catalog entry.
func (c *Client) AdminAddProduct(ctx context.Context, p model.Product) error {
	return c.do(ctx, http.MethodPost, "/add-product", nil, p, nil)
}

// AdminUpdateProduct overwrites a catalog entry.
func (c *Client) AdminUpdateProduct(ctx context.Context, id string, p model.Product) error {
	return c.do(ctx, http.MethodPost, "/product/"+url.PathEscape(id), nil, p, nil)
}

// AdminDeleteProduct removes a catalog entry. Orders referencing it keep
// their dangling id and render it as a placeholder.
func (c *Client) AdminDeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/product/"+url.PathEscape(id), nil, nil, nil)
}

// AdminListOrders returns every order in the system.
func (c *Client) AdminListOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminUpdateOrderStatus proposes a new status for an order. The status value
// travels as a query parameter. Unknown statuses are rejected locally before
// any request is made.
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%q: %w", status, errs.ErrInvalidStatus)
	}
	q := url.Values{"status": {string(status)}}
	path := "/admin/orders/" + url.PathEscape(id) + "/status"
	return c.do(ctx, http.MethodPut, path, q, nil, nil)
}

// AdminDeleteOrder removes an order.
func (c *Client) AdminDeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/orders/"+url.PathEscape(id), nil, nil, nil)
}

// AdminListUsers returns every account.
func (c *Client) AdminListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminDeleteUser removes an account.
func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, nil, nil)
}
