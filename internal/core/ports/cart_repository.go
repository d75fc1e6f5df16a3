package ports

import (
	"context"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

// CartRepository defines persistence operations for carts and their items.
// Implementations map driver failures to domain.ErrStoreUnavailable and
// absent rows to domain.ErrCartNotFound / domain.ErrItemNotFound.
type CartRepository interface {
	// FindByOwner retrieves the single cart keyed by (ownerKind, ownerKey).
	FindByOwner(ctx context.Context, kind domain.OwnerKind, key string) (*domain.Cart, error)
	// Create inserts a new cart. Returns domain.ErrDuplicateCart when a cart
	// for the same owner already exists, so callers can fall back to a fresh
	// read (the get-or-create race).
	Create(ctx context.Context, cart *domain.Cart) error

	// ListItems returns every item in the cart with the owning product
	// joined in. Items whose product no longer resolves are returned with a
	// nil Product, never dropped by the query and never an error.
	ListItems(ctx context.Context, cartID string) ([]domain.CartItem, error)
	// FindItemByProduct returns the cart's row for productID, or
	// domain.ErrItemNotFound.
	FindItemByProduct(ctx context.Context, cartID, productID string) (*domain.CartItem, error)
	InsertItem(ctx context.Context, item *domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error
	// DeleteItem removes a single row scoped to the cart. Deleting an
	// already-absent row is not an error.
	DeleteItem(ctx context.Context, cartID, itemID string) error
	// DeleteItemsByCart removes every item row under the cart (retirement).
	DeleteItemsByCart(ctx context.Context, cartID string) error
}
