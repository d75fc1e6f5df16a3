package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/api/metrics"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/ports"
)

// CartHandler handles HTTP requests for cart operations. The identity the
// cart belongs to comes from the Identity middleware: either the JWT's
// subject or the client-persisted guest token.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Get handles GET /v1/cart.
//
// @Summary      Get the current identity's cart
// @Tags         cart
// @Produce      json
// @Param        X-Guest-Token  header    string  false  "Guest cart token (when not authenticated)"
// @Success      200            {object}  cartResponse
// @Failure      401            {object}  map[string]string
// @Failure      503            {object}  map[string]string
// @Router       /v1/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.service.CurrentItems(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// AddItem handles POST /v1/cart/items.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Guest-Token  header    string          false  "Guest cart token (when not authenticated)"
// @Param        body           body      addItemRequest  true   "Product and quantity"
// @Success      200            {object}  cartResponse
// @Failure      401            {object}  map[string]string
// @Failure      422            {object}  map[string]string
// @Failure      503            {object}  map[string]string
// @Router       /v1/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	view, err := h.service.AddItem(c.Request().Context(), identity, req.ProductID, req.Quantity)
	observeMutation("add", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// SetQuantity handles PUT /v1/cart/items/:item_id.
//
// @Summary      Overwrite an item's quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        item_id        path      string              true   "Cart item id"
// @Param        X-Guest-Token  header    string              false  "Guest cart token (when not authenticated)"
// @Param        body           body      setQuantityRequest  true   "New quantity"
// @Success      200            {object}  cartResponse
// @Failure      404            {object}  map[string]string
// @Failure      422            {object}  map[string]string
// @Router       /v1/cart/items/{item_id} [put]
func (h *CartHandler) SetQuantity(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req setQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	view, err := h.service.SetQuantity(c.Request().Context(), identity, c.Param("item_id"), req.Quantity)
	observeMutation("set_quantity", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// RemoveItem handles DELETE /v1/cart/items/:item_id.
//
// @Summary      Remove an item from the cart
// @Tags         cart
// @Produce      json
// @Param        item_id        path      string  true   "Cart item id"
// @Param        X-Guest-Token  header    string  false  "Guest cart token (when not authenticated)"
// @Success      200            {object}  cartResponse
// @Failure      401            {object}  map[string]string
// @Failure      503            {object}  map[string]string
// @Router       /v1/cart/items/{item_id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	start := time.Now()
	view, err := h.service.RemoveItem(c.Request().Context(), identity, c.Param("item_id"))
	observeMutation("remove", start, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

func observeMutation(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.MutationsTotal.WithLabelValues(op, result).Inc()
	metrics.MutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
