// Command shopctl is a terminal client for the storefront service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/akraev/shopctl/internal/client"
	"github.com/akraev/shopctl/internal/config"
	"github.com/akraev/shopctl/internal/errs"
	"github.com/akraev/shopctl/internal/model"
	"github.com/akraev/shopctl/internal/session"
	"github.com/akraev/shopctl/internal/view"
)

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		// Inline backend message, the way a form would show it.
		fmt.Fprintln(os.Stderr, apiErr.Detail)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `shopctl
Usage:
  shopctl [-base-url URL] [-timeout DUR] [-v] <cmd> [args]

Commands:
  version
  register            -name <name> -email <email> -p <password>
  login               -email <email> -p <password>     (saves token, resumes remembered view)
  logout
  whoami

  products            [-page N] [-limit N]
  product             -id <id>
  search              -q <text>
  filter              [-category C] [-min-price N] [-max-price N] [-min-rating N]

  cart
  cart-add            -id <productId> [-qty N]
  cart-update         -id <productId> -qty N
  cart-rm             -id <productId>
  checkout            -address <text>
  orders
  order               -id <orderId>

  admin-products
  admin-product-add   -name <name> -price N [-stock N] [-category C] [-description D] [-image URL]
  admin-product-set   -id <id> -name <name> -price N [-stock N] [-category C] [-description D] [-image URL]
  admin-product-rm    -id <id>
  admin-orders
  admin-order-status  -id <orderId> -status <Pending|Confirmed|Shipped|Delivered|Cancelled>
  admin-order-rm      -id <orderId>
  admin-users
  admin-user-rm       -id <userId>
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// productFlags declares the shared product field flags on fs.
func productFlags(fs *flag.FlagSet, p *model.Product) {
	fs.StringVar(&p.Name, "name", "", "product name")
	fs.Float64Var(&p.Price, "price", 0, "unit price")
	fs.IntVar(&p.Stock, "stock", 0, "stock count")
	fs.StringVar(&p.Category, "category", "", "category")
	fs.StringVar(&p.Description, "description", "", "description")
	fs.StringVar(&p.Image, "image", "", "image URL")
}

// main dispatches subcommands against the storefront backend.
func main() {
	cfg := config.Load()

	baseURL := flag.String("base-url", cfg.BaseURL, "backend base URL")
	timeout := flag.Duration("timeout", cfg.Timeout, "request timeout")
	verbose := flag.Bool("v", false, "log HTTP requests")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	store := session.NewStore()
	sess := session.New(store)
	guard := view.NewGuard(sess, store)
	cli := client.New(client.Config{BaseURL: *baseURL, Timeout: *timeout, Logger: logger}, sess)
	u := newUI(cli, sess, guard)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("shopctl %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *name == "" || *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -name, -email and -p")
			os.Exit(1)
		}
		if err := cli.Register(ctx, client.RegisterRequest{Name: *name, Email: *email, Password: *p}); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}
		tok, err := cli.Login(ctx, *email, *p)
		if err != nil {
			fail(err)
		}
		if err := sess.SetToken(tok); err != nil {
			fail(err)
		}
		fmt.Println("ok")
		if to := guard.ConsumeReturnTo(); to != "" {
			fmt.Printf("resuming %s\n", to)
			if err := u.renderPath(ctx, to); err != nil {
				fail(err)
			}
		}

	case "logout":
		if err := sess.Clear(); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "whoami":
		snap := sess.Current()
		if !snap.LoggedIn() {
			fail(errs.ErrNoSession)
		}
		printJSON(struct {
			UserID string `json:"user_id"`
			Email  string `json:"email,omitempty"`
		}{UserID: snap.UserID, Email: snap.Email})

	case "products":
		fs := flag.NewFlagSet("products", flag.ExitOnError)
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", 10, "page size")
		_ = fs.Parse(flag.Args()[1:])
		if err := u.showProducts(ctx, *page, *limit); err != nil {
			fail(err)
		}

	case "product":
		fs := flag.NewFlagSet("product", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := u.showProduct(ctx, *id); err != nil {
			fail(err)
		}

	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		q := fs.String("q", "", "search text")
		_ = fs.Parse(flag.Args()[1:])
		if *q == "" {
			fmt.Fprintln(os.Stderr, "need -q")
			os.Exit(1)
		}
		if err := u.searchProducts(ctx, *q); err != nil {
			fail(err)
		}

	case "filter":
		fs := flag.NewFlagSet("filter", flag.ExitOnError)
		category := fs.String("category", "", "category")
		minPrice := fs.Float64("min-price", -1, "minimum price")
		maxPrice := fs.Float64("max-price", -1, "maximum price")
		minRating := fs.Float64("min-rating", -1, "minimum rating")
		_ = fs.Parse(flag.Args()[1:])
		var f client.ProductFilter
		f.Category = *category
		if *minPrice >= 0 {
			f.MinPrice = minPrice
		}
		if *maxPrice >= 0 {
			f.MaxPrice = maxPrice
		}
		if *minRating >= 0 {
			f.MinRating = minRating
		}
		if err := u.filterProducts(ctx, f); err != nil {
			fail(err)
		}

	case "cart":
		if err := u.showCart(ctx); err != nil {
			fail(err)
		}

	case "cart-add":
		fs := flag.NewFlagSet("cart-add", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		qty := fs.Int("qty", 1, "quantity")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := u.cartAdd(ctx, *id, *qty); err != nil {
			fail(err)
		}

	case "cart-update":
		fs := flag.NewFlagSet("cart-update", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		qty := fs.Int("qty", 0, "new quantity")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" || *qty < 1 {
			fmt.Fprintln(os.Stderr, "need -id and -qty >= 1")
			os.Exit(1)
		}
		if err := u.cartUpdate(ctx, *id, *qty); err != nil {
			fail(err)
		}

	case "cart-rm":
		fs := flag.NewFlagSet("cart-rm", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := u.cartRemove(ctx, *id); err != nil {
			fail(err)
		}

	case "checkout":
		fs := flag.NewFlagSet("checkout", flag.ExitOnError)
		address := fs.String("address", "", "shipping address")
		_ = fs.Parse(flag.Args()[1:])
		if *address == "" {
			fmt.Fprintln(os.Stderr, "need -address")
			os.Exit(1)
		}
		if err := u.checkout(ctx, *address); err != nil {
			fail(err)
		}

	case "orders":
		if err := u.showOrders(ctx); err != nil {
			fail(err)
		}

	case "order":
		fs := flag.NewFlagSet("order", flag.ExitOnError)
		id := fs.String("id", "", "order id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := u.showOrder(ctx, *id); err != nil {
			fail(err)
		}

	case "admin-products":
		if err := u.adminProducts(ctx); err != nil {
			fail(err)
		}

	case "admin-product-add":
		fs := flag.NewFlagSet("admin-product-add", flag.ExitOnError)
		var p model.Product
		productFlags(fs, &p)
		_ = fs.Parse(flag.Args()[1:])
		if p.Name == "" || p.Price <= 0 {
			fmt.Fprintln(os.Stderr, "need -name and -price > 0")
			os.Exit(1)
		}
		if err := u.adminAddProduct(ctx, p); err != nil {
			fail(err)
		}

	case "admin-product-set":
		fs := flag.NewFlagSet("admin-product-set", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		var p model.Product
		productFlags(fs, &p)
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := u.adminUpdateProduct(ctx, *id, p); err != nil {
			fail(err)
		}

	case "admin-product-rm":
		fs := flag.NewFlagSet("admin-product-rm", flag.ExitOnError)
		id := fs.String("id", "", "product id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := u.adminDeleteProduct(ctx, *id); err != nil {
			fail(err)
		}

	case "admin-orders":
		if err := u.adminOrders(ctx); err != nil {
			fail(err)
		}

	case "admin-order-status":
		fs := flag.NewFlagSet("admin-order-status", flag.ExitOnError)
		id := fs.String("id", "", "order id")
		status := fs.String("status", "", "new status")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" || *status == "" {
			fmt.Fprintln(os.Stderr, "need -id and -status")
			os.Exit(1)
		}
		if err := u.adminOrderStatus(ctx, *id, model.OrderStatus(*status)); err != nil {
			fail(err)
		}

	case "admin-order-rm":
		fs := flag.NewFlagSet("admin-order-rm", flag.ExitOnError)
		id := fs.String("id", "", "order id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := u.adminDeleteOrder(ctx, *id); err != nil {
			fail(err)
		}

	case "admin-users":
		if err := u.adminUsers(ctx); err != nil {
			fail(err)
		}

	case "admin-user-rm":
		fs := flag.NewFlagSet("admin-user-rm", flag.ExitOnError)
		id := fs.String("id", "", "user id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		if err := u.adminDeleteUser(ctx, *id); err != nil {
			fail(err)
		}

	default:
		usage()
	}
}
