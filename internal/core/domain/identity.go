package domain

import "errors"

// IdentityKind discriminates guest shoppers from signed-in users.
type IdentityKind string

const (
	IdentityGuest         IdentityKind = "guest"
	IdentityAuthenticated IdentityKind = "authenticated"
)

var ErrNoIdentity = errors.New("no identity in request context")

// Identity is the single active actor for a request: either a guest
// holding a client-persisted anonymous token, or an authenticated user
// holding a session-derived user id. Exactly one identity is active per
// request; a guest-to-authenticated transition is an explicit event
// (the merge request), never an implicit mid-operation switch.
type Identity struct {
	Kind  IdentityKind
	Token string
}

// CartOwner maps the identity to the owner pair its cart is keyed by.
func (i Identity) CartOwner() (OwnerKind, string) {
	if i.Kind == IdentityAuthenticated {
		return OwnerUser, i.Token
	}
	return OwnerGuest, i.Token
}
