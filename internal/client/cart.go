package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/akraev/shopctl/internal/model"
)

// Cart returns the server-owned cart for a user.
func (c *Client) Cart(ctx context.Context, userID string) (*model.Cart, error) {
	var out model.Cart
	if err := c.do(ctx, http.MethodGet, "/cart/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CartChange is a proposed line-item mutation.
type CartChange struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// AddToCart adds quantity units of a product to the user's cart.
func (c *Client) AddToCart(ctx context.Context, userID string, change CartChange) error {
	return c.do(ctx, http.MethodPost, "/cart/"+url.PathEscape(userID)+"/add", nil, change, nil)
}

// UpdateCartItem sets the quantity of an existing line item.
func (c *Client) UpdateCartItem(ctx context.Context, userID string, change CartChange) error {
	return c.do(ctx, http.MethodPut, "/cart/"+url.PathEscape(userID)+"/update", nil, change, nil)
}

// RemoveCartItem deletes a line item from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, userID, productID string) error {
	path := "/cart/" + url.PathEscape(userID) + "/remove/" + url.PathEscape(productID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
