package handler

import (
	"time"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/ports"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type cartProductResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	ImageURL  string  `json:"image_url,omitempty"`
	Stock     int     `json:"stock"`
	Available bool    `json:"available"`
}

type cartItemResponse struct {
	ID        string               `json:"id"`
	ProductID string               `json:"product_id"`
	Quantity  int                  `json:"quantity"`
	AddedAt   time.Time            `json:"added_at"`
	Product   *cartProductResponse `json:"product"` // null when unresolved
}

type cartResponse struct {
	CartID    string             `json:"cart_id,omitempty"`
	OwnerKind string             `json:"owner_kind"`
	Items     []cartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     float64            `json:"total"`
	Currency  string             `json:"currency,omitempty"`
}

type mergeRequest struct {
	GuestToken string `json:"guest_token" validate:"required"`
}

type mergeResponse struct {
	Skipped bool `json:"skipped"`
	Summed  int  `json:"summed"`
	Moved   int  `json:"moved"`
	Retired bool `json:"retired"`
}

// toCartResponse maps the service view onto the wire shape.
func toCartResponse(view *ports.CartView) cartResponse {
	items := make([]cartItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, toCartItemResponse(item))
	}
	return cartResponse{
		CartID:    view.CartID,
		OwnerKind: string(view.OwnerKind),
		Items:     items,
		ItemCount: view.ItemCount,
		Total:     view.Total,
		Currency:  view.Currency,
	}
}

func toCartItemResponse(item domain.CartItem) cartItemResponse {
	resp := cartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		AddedAt:   item.AddedAt,
	}
	if item.Product != nil {
		resp.Product = &cartProductResponse{
			ID:        item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Currency:  item.Product.Currency,
			ImageURL:  item.Product.ImageURL,
			Stock:     item.Product.Stock,
			Available: item.Product.Available,
		}
	}
	return resp
}
