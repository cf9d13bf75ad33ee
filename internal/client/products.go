package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/akraev/shopctl/internal/model"
)

// Products returns one page of the catalog.
func (c *Client) Products(ctx context.Context, page, limit int) ([]model.Product, error) {
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/product-list", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product returns a single catalog entry by id.
func (c *Client) Product(ctx context.Context, id string) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchProducts searches the catalog by name.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	body := struct {
		Query string `json:"query"`
	}{Query: query}
	var out []model.Product
	if err := c.do(ctx, http.MethodPost, "/search-product", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductFilter narrows the catalog. Unset fields are omitted from the
// request so the backend filters only on what was asked for.
type ProductFilter struct {
	Category  string   `json:"category,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
}

// FilterProducts returns catalog entries matching the filter.
func (c *Client) FilterProducts(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodPost, "/filter-products", nil, f, &out); err != nil {
		return nil, err
	}
	return out, nil
}
