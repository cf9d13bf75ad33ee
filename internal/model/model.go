// Package model defines domain entities exchanged with the storefront backend.
//
// Every entity here is server-owned: the client reads them, displays them and
// proposes mutations, but never holds authoritative state.
package model

// Product is a catalog entry. Cart items and orders reference it by ID only;
// a referenced product may have been deleted since, so lookups must tolerate
// dangling IDs.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// CartItem is one line of a cart. Subtotal is computed server-side; any total
// the client derives from Price and Quantity is display-only.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal,omitempty"`
}

// Cart is the server-owned cart for one user.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// OrderStatus is the fixed status enumeration. Transitions are decided by the
// backend; the client only proposes a value.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// Statuses lists every known status, in lifecycle order.
var Statuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a placed order. Products holds a flattened id list: each product id
// is repeated once per unit bought, there is no quantity field on the wire.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Products        []string    `json:"products"`
	Status          OrderStatus `json:"status,omitempty"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       string      `json:"created_at,omitempty"`
}

// DisplayStatus returns the status to render; orders created before the status
// field existed carry none and read as Pending.
func (o Order) DisplayStatus() OrderStatus {
	if o.Status == "" {
		return StatusPending
	}
	return o.Status
}

// User is an account record as the admin endpoints expose it.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
