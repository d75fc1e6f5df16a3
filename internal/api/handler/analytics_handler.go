package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// MetricReader is the interface the handler uses to read counter snapshots.
type MetricReader interface {
	Snapshot(ctx context.Context, metric string) (map[string]int64, error)
}

// AnalyticsHandler exposes per-product counter snapshots to admins.
type AnalyticsHandler struct {
	reader MetricReader
}

func NewAnalyticsHandler(reader MetricReader) *AnalyticsHandler {
	return &AnalyticsHandler{reader: reader}
}

type analyticsResponse struct {
	Metric string           `json:"metric"`
	Counts map[string]int64 `json:"counts"`
}

// Snapshot handles GET /v1/analytics/:metric — admin only.
//
// @Summary      Read per-product analytics counters
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        metric  path      string  true  "Metric name (e.g. cart_adds)"
// @Success      200     {object}  analyticsResponse
// @Failure      403     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /v1/analytics/{metric} [get]
func (h *AnalyticsHandler) Snapshot(c echo.Context) error {
	metric := c.Param("metric")
	counts, err := h.reader.Snapshot(c.Request().Context(), metric)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analyticsResponse{Metric: metric, Counts: counts})
}
