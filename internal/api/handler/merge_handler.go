package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/api/metrics"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/ports"
)

// MergeHandler handles the one-shot guest-to-user cart merge a client
// requests right after signing in.
type MergeHandler struct {
	service ports.MergeService
}

func NewMergeHandler(service ports.MergeService) *MergeHandler {
	return &MergeHandler{service: service}
}

// Merge handles POST /v1/cart/merge. Requires an authenticated session;
// the body carries the guest token the client shopped under before
// signing in. A partial failure returns 409 with whatever subset already
// landed — sign-in itself is never blocked by a failed merge.
//
// @Summary      Fold the guest cart into the signed-in user's cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      mergeRequest  true  "Guest token used before sign-in"
// @Success      200   {object}  mergeResponse
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /v1/cart/merge [post]
func (h *MergeHandler) Merge(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req mergeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.Merge(c.Request().Context(), userID, req.GuestToken)
	if err != nil {
		metrics.MergesTotal.WithLabelValues("incomplete").Inc()
		return err
	}

	if result.Skipped {
		metrics.MergesTotal.WithLabelValues("skipped").Inc()
	} else {
		metrics.MergesTotal.WithLabelValues("merged").Inc()
		metrics.MergedItemsTotal.WithLabelValues("summed").Add(float64(result.Summed))
		metrics.MergedItemsTotal.WithLabelValues("moved").Add(float64(result.Moved))
	}

	return c.JSON(http.StatusOK, mergeResponse{
		Skipped: result.Skipped,
		Summed:  result.Summed,
		Moved:   result.Moved,
		Retired: result.Retired,
	})
}
