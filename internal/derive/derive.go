// Package derive computes display values from server data: cart totals,
// order payload flattening, and id-to-name joins across independent list
// endpoints. Everything here is pure or read-only; derived values are
// advisory and never substitute for server-computed ones.
package derive

import (
	"context"
	"math"
	"sync"

	"github.com/akraev/shopctl/internal/model"
)

// Unknown is the placeholder for references that no longer resolve, e.g. a
// product deleted after an order was placed.
const Unknown = "Unknown"

// Total sums price×quantity across items. Missing or nonsensical values
// (negative, NaN) count as zero so one bad line never poisons the total.
// The result is display-only; the backend's total stays authoritative.
func Total(items []model.CartItem) float64 {
	var sum float64
	for _, it := range items {
		price := it.Price
		if price < 0 || math.IsNaN(price) {
			price = 0
		}
		qty := it.Quantity
		if qty < 0 {
			qty = 0
		}
		sum += price * float64(qty)
	}
	return sum
}

// FlattenQuantities expands cart lines into the order payload's product list:
// each product id repeated once per unit. Non-positive quantities contribute
// nothing.
func FlattenQuantities(items []model.CartItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		for i := 0; i < it.Quantity; i++ {
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}

// ProductSource resolves one product id against the catalog.
type ProductSource interface {
	Product(ctx context.Context, id string) (*model.Product, error)
}

// ResolveProductNames maps product ids to display names, querying the catalog
// for each id concurrently. Every id resolves independently: an id that fails
// or no longer exists maps to Unknown without blocking or dropping the rest,
// and the result keeps the length and order of ids.
func ResolveProductNames(ctx context.Context, src ProductSource, ids []string) []string {
	names := make([]string, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			p, err := src.Product(ctx, id)
			if err != nil || p == nil || p.Name == "" {
				names[i] = Unknown
				return
			}
			names[i] = p.Name
		}(i, id)
	}
	wg.Wait()
	return names
}

// ProductIndex builds an id→name map from a listed catalog, for joining a
// whole table at once.
func ProductIndex(products []model.Product) map[string]string {
	idx := make(map[string]string, len(products))
	for _, p := range products {
		idx[p.ID] = p.Name
	}
	return idx
}

// UserIndex builds an id→name map from a user listing.
func UserIndex(users []model.User) map[string]string {
	idx := make(map[string]string, len(users))
	for _, u := range users {
		idx[u.ID] = u.Name
	}
	return idx
}

// Lookup resolves id against an index, falling back to the Unknown
// placeholder for dangling references.
func Lookup(idx map[string]string, id string) string {
	if name, ok := idx[id]; ok && name != "" {
		return name
	}
	return Unknown
}
