package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

// IdentityService produces the single active identity for a request.
// Session state comes from the auth middleware (it validates the JWT; this
// service only consumes the resulting user id) and the guest token comes
// from the client, which persists whatever token the service minted for it
// on first contact.
type IdentityService struct{}

func NewIdentityService() *IdentityService {
	return &IdentityService{}
}

// Resolve picks exactly one identity. An authenticated session always
// wins; otherwise the presented guest token is used, and when the client
// presents none a fresh token is minted for it to persist.
func (s *IdentityService) Resolve(sessionUserID, guestToken string) domain.Identity {
	if sessionUserID != "" {
		return domain.Identity{Kind: domain.IdentityAuthenticated, Token: sessionUserID}
	}
	if guestToken == "" {
		guestToken = NewGuestToken()
	}
	return domain.Identity{Kind: domain.IdentityGuest, Token: guestToken}
}

// NewGuestToken returns an opaque anonymous identifier in the format
// AJ-XXXXXXXXXXXXXXXX. Stable for the lifetime of the client profile once
// persisted there.
func NewGuestToken() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("AJ-%016X", time.Now().UnixNano())
	}
	return fmt.Sprintf("AJ-%X", b)
}
