package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/akraev/shopctl/internal/client"
	"github.com/akraev/shopctl/internal/derive"
	"github.com/akraev/shopctl/internal/errs"
	"github.com/akraev/shopctl/internal/model"
	"github.com/akraev/shopctl/internal/session"
	"github.com/akraev/shopctl/internal/view"
)

// ui renders the storefront views. Reads go through per-resource query caches
// so mutations can invalidate them and stale concurrent fetches get dropped;
// session-only views pass the route guard first.
type ui struct {
	cli   *client.Client
	sess  *session.Session
	guard *view.Guard

	products *view.Cache[[]model.Product]
	carts    *view.Cache[*model.Cart]
	orders   *view.Cache[[]model.Order]
	users    *view.Cache[[]model.User]
}

func newUI(cli *client.Client, sess *session.Session, guard *view.Guard) *ui {
	return &ui{
		cli:      cli,
		sess:     sess,
		guard:    guard,
		products: view.NewCache[[]model.Product](),
		carts:    view.NewCache[*model.Cart](),
		orders:   view.NewCache[[]model.Order](),
		users:    view.NewCache[[]model.User](),
	}
}

// require resolves path through the guard. On denial the destination is
// already remembered, so the next successful login resumes it.
func (u *ui) require(path string) error {
	if d := u.guard.Resolve(path); !d.Allowed {
		return fmt.Errorf("%w: run 'shopctl login' first to continue to %s", errs.ErrNoSession, path)
	}
	return nil
}

// identity returns the derived user id; views that key requests by user
// cannot proceed without one.
func (u *ui) identity() (string, error) {
	uid := u.sess.UserID()
	if uid == "" {
		return "", fmt.Errorf("%w: session has no identity", errs.ErrNoSession)
	}
	return uid, nil
}

// renderPath resumes a navigation the guard remembered. Paths that need
// arguments beyond the path itself (checkout address, admin mutations) have
// nothing to resume.
func (u *ui) renderPath(ctx context.Context, path string) error {
	switch {
	case path == "/cart":
		return u.showCart(ctx)
	case path == "/orders":
		return u.showOrders(ctx)
	case strings.HasPrefix(path, "/orders/"):
		return u.showOrder(ctx, strings.TrimPrefix(path, "/orders/"))
	case path == "/admin/products":
		return u.adminProducts(ctx)
	case path == "/admin/orders":
		return u.adminOrders(ctx)
	case path == "/admin/users":
		return u.adminUsers(ctx)
	}
	return nil
}

// ---- catalog ----

func (u *ui) showProducts(ctx context.Context, page, limit int) error {
	key := fmt.Sprintf("products/%d/%d", page, limit)
	res := u.products.Fetch(ctx, key, func(ctx context.Context) ([]model.Product, error) {
		return u.cli.Products(ctx, page, limit)
	})
	if res.Err != nil {
		return res.Err
	}
	printJSON(res.Data)
	return nil
}

func (u *ui) showProduct(ctx context.Context, id string) error {
	p, err := u.cli.Product(ctx, id)
	if err != nil {
		return err
	}
	printJSON(p)
	return nil
}

func (u *ui) searchProducts(ctx context.Context, query string) error {
	out, err := u.cli.SearchProducts(ctx, query)
	if err != nil {
		return err
	}
	printJSON(out)
	return nil
}

func (u *ui) filterProducts(ctx context.Context, f client.ProductFilter) error {
	out, err := u.cli.FilterProducts(ctx, f)
	if err != nil {
		return err
	}
	printJSON(out)
	return nil
}

// ---- cart ----

type cartView struct {
	Items []model.CartItem `json:"items"`
	// ComputedTotal is the local Σ price×quantity; the backend's totals stay
	// authoritative at order time.
	ComputedTotal float64 `json:"computed_total"`
}

func (u *ui) showCart(ctx context.Context) error {
	if err := u.require("/cart"); err != nil {
		return err
	}
	uid, err := u.identity()
	if err != nil {
		return err
	}
	res := u.carts.Fetch(ctx, "cart/"+uid, func(ctx context.Context) (*model.Cart, error) {
		return u.cli.Cart(ctx, uid)
	})
	if res.Err != nil {
		return res.Err
	}
	printJSON(cartView{Items: res.Data.Items, ComputedTotal: derive.Total(res.Data.Items)})
	return nil
}

// mutateCart runs one cart write and re-renders the cart from fresh data.
// On failure the cached cart stays as it was, with the error surfaced.
func (u *ui) mutateCart(ctx context.Context, fn func(context.Context, string) error) error {
	if err := u.require("/cart"); err != nil {
		return err
	}
	uid, err := u.identity()
	if err != nil {
		return err
	}
	if err := u.carts.Mutate(ctx, "cart/"+uid, func(ctx context.Context) error {
		return fn(ctx, uid)
	}); err != nil {
		return err
	}
	return u.showCart(ctx)
}

func (u *ui) cartAdd(ctx context.Context, productID string, qty int) error {
	return u.mutateCart(ctx, func(ctx context.Context, uid string) error {
		return u.cli.AddToCart(ctx, uid, client.CartChange{ProductID: productID, Quantity: qty})
	})
}

func (u *ui) cartUpdate(ctx context.Context, productID string, qty int) error {
	return u.mutateCart(ctx, func(ctx context.Context, uid string) error {
		return u.cli.UpdateCartItem(ctx, uid, client.CartChange{ProductID: productID, Quantity: qty})
	})
}

func (u *ui) cartRemove(ctx context.Context, productID string) error {
	return u.mutateCart(ctx, func(ctx context.Context, uid string) error {
		return u.cli.RemoveCartItem(ctx, uid, productID)
	})
}

// ---- checkout / orders ----

func (u *ui) checkout(ctx context.Context, address string) error {
	if err := u.require("/checkout"); err != nil {
		return err
	}
	uid, err := u.identity()
	if err != nil {
		return err
	}
	cart, err := u.cli.Cart(ctx, uid)
	if err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return fmt.Errorf("cart is empty")
	}

	resp, err := u.cli.PlaceOrder(ctx, client.PlaceOrderRequest{
		Products:        derive.FlattenQuantities(cart.Items),
		Total:           derive.Total(cart.Items),
		UserID:          uid,
		ShippingAddress: address,
	})
	if err != nil {
		return err
	}
	// Backend empties the server-side cart on success.
	u.carts.Invalidate("cart/" + uid)

	if resp.OrderID == "" {
		printJSON(resp)
		return nil
	}
	return u.showOrder(ctx, resp.OrderID)
}

func (u *ui) showOrders(ctx context.Context) error {
	if err := u.require("/orders"); err != nil {
		return err
	}
	uid, err := u.identity()
	if err != nil {
		return err
	}
	res := u.orders.Fetch(ctx, "orders/"+uid, func(ctx context.Context) ([]model.Order, error) {
		return u.cli.OrdersByUser(ctx, uid)
	})
	if res.Err != nil {
		return res.Err
	}
	type row struct {
		ID     string            `json:"id"`
		Status model.OrderStatus `json:"status"`
		Total  float64           `json:"total"`
	}
	rows := make([]row, 0, len(res.Data))
	for _, o := range res.Data {
		rows = append(rows, row{ID: o.ID, Status: o.DisplayStatus(), Total: o.Total})
	}
	printJSON(rows)
	return nil
}

type orderView struct {
	model.Order
	ProductNames []string `json:"product_names"`
}

func (u *ui) showOrder(ctx context.Context, id string) error {
	if err := u.require("/orders/" + id); err != nil {
		return err
	}
	o, err := u.cli.Order(ctx, id)
	if err != nil {
		return err
	}
	ov := orderView{Order: *o, ProductNames: derive.ResolveProductNames(ctx, u.cli, o.Products)}
	ov.Status = o.DisplayStatus()
	printJSON(ov)
	return nil
}

// ---- admin ----

func (u *ui) adminProducts(ctx context.Context) error {
	if err := u.require("/admin/products"); err != nil {
		return err
	}
	res := u.products.Fetch(ctx, "admin/products", func(ctx context.Context) ([]model.Product, error) {
		return u.cli.AdminListProducts(ctx)
	})
	if res.Err != nil {
		return res.Err
	}
	printJSON(res.Data)
	return nil
}

// adminOrders joins orders against the user and product listings. The three
// reads are independent and issued concurrently; a failed join source only
// degrades names to the placeholder, the orders themselves decide the view.
func (u *ui) adminOrders(ctx context.Context) error {
	if err := u.require("/admin/orders"); err != nil {
		return err
	}

	var (
		ordersRes   view.Result[[]model.Order]
		usersRes    view.Result[[]model.User]
		productsRes view.Result[[]model.Product]
		wg          sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		ordersRes = u.orders.Fetch(ctx, "admin/orders", func(ctx context.Context) ([]model.Order, error) {
			return u.cli.AdminListOrders(ctx)
		})
	}()
	go func() {
		defer wg.Done()
		usersRes = u.users.Fetch(ctx, "admin/users", func(ctx context.Context) ([]model.User, error) {
			return u.cli.AdminListUsers(ctx)
		})
	}()
	go func() {
		defer wg.Done()
		productsRes = u.products.Fetch(ctx, "admin/products", func(ctx context.Context) ([]model.Product, error) {
			return u.cli.AdminListProducts(ctx)
		})
	}()
	wg.Wait()

	if ordersRes.Err != nil {
		return ordersRes.Err
	}
	userNames := derive.UserIndex(usersRes.Data)
	productNames := derive.ProductIndex(productsRes.Data)

	type row struct {
		ID       string            `json:"id"`
		User     string            `json:"user"`
		Products []string          `json:"products"`
		Status   model.OrderStatus `json:"status"`
		Total    float64           `json:"total"`
	}
	rows := make([]row, 0, len(ordersRes.Data))
	for _, o := range ordersRes.Data {
		names := make([]string, len(o.Products))
		for i, pid := range o.Products {
			names[i] = derive.Lookup(productNames, pid)
		}
		rows = append(rows, row{
			ID:       o.ID,
			User:     derive.Lookup(userNames, o.UserID),
			Products: names,
			Status:   o.DisplayStatus(),
			Total:    o.Total,
		})
	}
	printJSON(rows)
	return nil
}

func (u *ui) adminUsers(ctx context.Context) error {
	if err := u.require("/admin/users"); err != nil {
		return err
	}
	res := u.users.Fetch(ctx, "admin/users", func(ctx context.Context) ([]model.User, error) {
		return u.cli.AdminListUsers(ctx)
	})
	if res.Err != nil {
		return res.Err
	}
	printJSON(res.Data)
	return nil
}

// adminMutate runs a write and, on success, invalidates key in cache and
// re-renders via render so the fresh listing is what the admin sees.
func adminMutate[T any](ctx context.Context, u *ui, cache *view.Cache[T], key, path string,
	fn func(context.Context) error, render func(context.Context) error) error {
	if err := u.require(path); err != nil {
		return err
	}
	if err := cache.Mutate(ctx, key, fn); err != nil {
		return err
	}
	return render(ctx)
}

func (u *ui) adminAddProduct(ctx context.Context, p model.Product) error {
	return adminMutate(ctx, u, u.products, "admin/products", "/admin/products",
		func(ctx context.Context) error { return u.cli.AdminAddProduct(ctx, p) }, u.adminProducts)
}

func (u *ui) adminUpdateProduct(ctx context.Context, id string, p model.Product) error {
	return adminMutate(ctx, u, u.products, "admin/products", "/admin/products",
		func(ctx context.Context) error { return u.cli.AdminUpdateProduct(ctx, id, p) }, u.adminProducts)
}

func (u *ui) adminDeleteProduct(ctx context.Context, id string) error {
	return adminMutate(ctx, u, u.products, "admin/products", "/admin/products",
		func(ctx context.Context) error { return u.cli.AdminDeleteProduct(ctx, id) }, u.adminProducts)
}

func (u *ui) adminOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	return adminMutate(ctx, u, u.orders, "admin/orders", "/admin/orders",
		func(ctx context.Context) error { return u.cli.AdminUpdateOrderStatus(ctx, id, status) }, u.adminOrders)
}

func (u *ui) adminDeleteOrder(ctx context.Context, id string) error {
	return adminMutate(ctx, u, u.orders, "admin/orders", "/admin/orders",
		func(ctx context.Context) error { return u.cli.AdminDeleteOrder(ctx, id) }, u.adminOrders)
}

func (u *ui) adminDeleteUser(ctx context.Context, id string) error {
	return adminMutate(ctx, u, u.users, "admin/users", "/admin/users",
		func(ctx context.Context) error { return u.cli.AdminDeleteUser(ctx, id) }, u.adminUsers)
}
