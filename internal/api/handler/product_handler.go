package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/ports"
)

// ProductHandler exposes the read-only catalogue surface the cart joins
// against. Writes happen elsewhere in the marketplace.
type ProductHandler struct {
	repo ports.ProductRepository
}

func NewProductHandler(repo ports.ProductRepository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

type productListResponse struct {
	Items []domain.Product `json:"items"`
	Count int              `json:"count"`
}

// List handles GET /v1/products.
//
// @Summary      List available products
// @Tags         products
// @Produce      json
// @Param        limit  query     int  false  "Max rows (default 50, cap 100)"
// @Success      200    {object}  productListResponse
// @Failure      503    {object}  map[string]string
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}

	products, err := h.repo.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Items: products, Count: len(products)})
}

// Get handles GET /v1/products/:id.
//
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  map[string]string
// @Router       /v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.repo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}
