package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

// ctxIdentity extracts the resolved identity injected by the Identity
// middleware. Its presence proves the middleware ran; a request with no
// identity at all cannot touch a cart.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := c.Get("identity").(domain.Identity)
	if !ok || identity.Token == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	return identity, nil
}

// ctxUserID extracts the authenticated user id injected by the strict Auth
// middleware. An empty value means the token carried no subject and is
// operationally unusable.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}
	return userID, nil
}
