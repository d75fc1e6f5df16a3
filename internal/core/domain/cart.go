package domain

import (
	"errors"
	"time"
)

// OwnerKind tells which kind of identity a cart belongs to.
// It is fixed at cart creation and never changes.
type OwnerKind string

const (
	OwnerGuest OwnerKind = "guest"
	OwnerUser  OwnerKind = "user"
)

var ErrStoreUnavailable = errors.New("cart store unavailable")
var ErrInvalidQuantity = errors.New("quantity must be at least 1")
var ErrMergeIncomplete = errors.New("cart merge incomplete")
var ErrCartNotFound = errors.New("cart not found")
var ErrDuplicateCart = errors.New("cart already exists for owner")
var ErrItemNotFound = errors.New("cart item not found")

// Cart is a single shopping cart owned by exactly one identity.
// At most one non-retired cart exists per (OwnerKind, OwnerKey) pair;
// the repository enforces this with a unique index.
type Cart struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	OwnerKind OwnerKind `json:"owner_kind" bson:"owner_kind"`
	OwnerKey  string    `json:"owner_key" bson:"owner_key"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CartItem is one product line inside a cart. ProductID is unique within
// a cart: a repeated add increments Quantity on the existing row instead
// of inserting a second row.
type CartItem struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	CartID    string    `json:"cart_id" bson:"cart_id"`
	ProductID string    `json:"product_id" bson:"product_id"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`

	// Product is the joined product projection, resolved at read time.
	// Nil when the product reference no longer resolves; "product not
	// found" is a representable state, never a query failure.
	Product *Product `json:"product,omitempty" bson:"product,omitempty"`
}
