package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

// GuestTokenHeader carries the client-persisted anonymous cart identifier.
// The client stores whatever token the service mints for it and presents
// it on every request until it signs in.
const GuestTokenHeader = "X-Guest-Token"

// IdentityResolver produces the single active identity for a request.
type IdentityResolver interface {
	Resolve(sessionUserID, guestToken string) domain.Identity
}

// Identity resolves the request's identity and injects it into context.
// A valid bearer token makes the request authenticated; otherwise the
// guest token header is used, and when the client presents none the
// freshly minted token is echoed back in the response header so the
// client can persist it. Invalid bearer tokens fall back to guest rather
// than failing: cart reads must keep working while a session expires.
func Identity(jwtSecret string, resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var userID string
			if c.Request().Header.Get("Authorization") != "" {
				if claims, err := parseBearer(c, jwtSecret); err == nil {
					userID, _ = claims["sub"].(string)
					injectClaims(c, claims)
				}
			}

			guestToken := c.Request().Header.Get(GuestTokenHeader)
			identity := resolver.Resolve(userID, guestToken)

			if identity.Kind == domain.IdentityGuest && identity.Token != guestToken {
				c.Response().Header().Set(GuestTokenHeader, identity.Token)
			}

			c.Set("identity", identity)
			return next(c)
		}
	}
}
