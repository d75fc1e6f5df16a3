package ports

import (
	"context"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

// CartView is the projection returned after every read or mutation:
// the refreshed item list plus the derived count and total.
type CartView struct {
	CartID    string
	OwnerKind domain.OwnerKind
	Items     []domain.CartItem
	ItemCount int
	Total     float64
	Currency  string
}

// CartService defines the user-facing cart operations. Every mutation is
// atomic from the caller's point of view: it is serialized with all other
// mutations for the same cart and returns the refreshed view.
type CartService interface {
	// AddItem adds quantity of a product to the identity's cart, creating
	// the cart on first use. A repeated add for the same product sums onto
	// the existing row instead of inserting a duplicate.
	AddItem(ctx context.Context, identity domain.Identity, productID string, quantity int) (*CartView, error)
	// RemoveItem deletes an item by id. Removing an item that is already
	// gone is a no-op, not an error.
	RemoveItem(ctx context.Context, identity domain.Identity, itemID string) (*CartView, error)
	// SetQuantity overwrites an item's quantity. Rejects quantity < 1 with
	// domain.ErrInvalidQuantity before any write.
	SetQuantity(ctx context.Context, identity domain.Identity, itemID string, quantity int) (*CartView, error)
	// CurrentItems returns the identity's cart view without mutating it.
	// An identity with no cart yet gets an empty view, not an error.
	CurrentItems(ctx context.Context, identity domain.Identity) (*CartView, error)
}
