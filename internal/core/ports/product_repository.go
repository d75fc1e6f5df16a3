package ports

import (
	"context"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
)

// ProductRepository is the read-only catalogue collaborator.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns available products, newest first, capped at limit.
	List(ctx context.Context, limit int) ([]domain.Product, error)
}
