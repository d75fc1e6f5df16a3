package service

import "github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"

// Pure projections over the current item list. Recomputed on every read,
// never persisted or cached.

// ItemCount is the sum of quantities across all items.
func ItemCount(items []domain.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// CartTotal sums quantity times unit price using the product joined at
// read time. Items whose product did not resolve contribute zero instead
// of failing the whole computation.
func CartTotal(items []domain.CartItem) float64 {
	total := 0.0
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total += float64(item.Quantity) * item.Product.Price
	}
	return total
}

// CartCurrency returns the currency of the first resolved product, or
// empty for a cart with no resolvable items.
func CartCurrency(items []domain.CartItem) string {
	for _, item := range items {
		if item.Product != nil && item.Product.Currency != "" {
			return item.Product.Currency
		}
	}
	return ""
}
