package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/ports"
)

// MutationSerializer runs fn on the single worker owning key, so all
// mutations for one cart execute one at a time (the in-process critical
// section for read-modify-write pairs).
type MutationSerializer interface {
	Do(ctx context.Context, key string, fn func(context.Context) error) error
}

const metricCartAdds = "cart_adds"

type cartService struct {
	repo    ports.CartRepository
	queue   MutationSerializer
	metrics ports.MetricRecorder
	log     zerolog.Logger
}

// NewCartService returns a CartService implementation.
func NewCartService(
	repo ports.CartRepository,
	queue MutationSerializer,
	metrics ports.MetricRecorder,
	log zerolog.Logger,
) ports.CartService {
	return &cartService{repo: repo, queue: queue, metrics: metrics, log: log}
}

// AddItem adds quantity of productID to the identity's cart. When the cart
// already holds a row for the product, the summed quantity is written onto
// that row; otherwise a new row is inserted. Runs inside the owner's
// mutation queue slot.
func (s *cartService) AddItem(ctx context.Context, identity domain.Identity, productID string, quantity int) (*ports.CartView, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if productID == "" {
		return nil, fmt.Errorf("add item: %w", domain.ErrProductNotFound)
	}

	kind, key := identity.CartOwner()
	var view *ports.CartView
	err := s.queue.Do(ctx, key, func(ctx context.Context) error {
		cart, err := getOrCreateCart(ctx, s.repo, kind, key)
		if err != nil {
			return fmt.Errorf("add item: %w", err)
		}

		existing, err := s.repo.FindItemByProduct(ctx, cart.ID, productID)
		switch {
		case err == nil:
			if err := s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
				return fmt.Errorf("add item: %w", err)
			}
		case errors.Is(err, domain.ErrItemNotFound):
			item := &domain.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   time.Now().UTC(),
			}
			if err := s.repo.InsertItem(ctx, item); err != nil {
				return fmt.Errorf("add item: %w", err)
			}
		default:
			return fmt.Errorf("add item: %w", err)
		}

		// Best-effort analytics: a failed increment never fails the add.
		if err := s.metrics.IncrementMetric(ctx, productID, metricCartAdds); err != nil {
			s.log.Warn().Err(err).Str("product_id", productID).Msg("cart_adds increment failed")
		}

		view, err = s.buildView(ctx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("owner_kind", string(kind)).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("item added")

	return view, nil
}

// RemoveItem deletes the item row. A second remove for the same id finds
// nothing to delete and succeeds.
func (s *cartService) RemoveItem(ctx context.Context, identity domain.Identity, itemID string) (*ports.CartView, error) {
	kind, key := identity.CartOwner()
	var view *ports.CartView
	err := s.queue.Do(ctx, key, func(ctx context.Context) error {
		cart, err := s.repo.FindByOwner(ctx, kind, key)
		if errors.Is(err, domain.ErrCartNotFound) {
			view = emptyView(kind)
			return nil
		}
		if err != nil {
			return fmt.Errorf("remove item: %w", err)
		}

		if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
			return fmt.Errorf("remove item: %w", err)
		}

		view, err = s.buildView(ctx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// SetQuantity overwrites the item's quantity. Non-positive values are
// rejected before any write reaches the store.
func (s *cartService) SetQuantity(ctx context.Context, identity domain.Identity, itemID string, quantity int) (*ports.CartView, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	kind, key := identity.CartOwner()
	var view *ports.CartView
	err := s.queue.Do(ctx, key, func(ctx context.Context) error {
		cart, err := s.repo.FindByOwner(ctx, kind, key)
		if err != nil {
			return fmt.Errorf("set quantity: %w", err)
		}

		if err := s.repo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
			return fmt.Errorf("set quantity: %w", err)
		}

		view, err = s.buildView(ctx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CurrentItems reads the identity's cart without mutating anything. No
// cart yet means an empty view.
func (s *cartService) CurrentItems(ctx context.Context, identity domain.Identity) (*ports.CartView, error) {
	kind, key := identity.CartOwner()

	cart, err := s.repo.FindByOwner(ctx, kind, key)
	if errors.Is(err, domain.ErrCartNotFound) {
		return emptyView(kind), nil
	}
	if err != nil {
		return nil, fmt.Errorf("current items: %w", err)
	}

	return s.buildView(ctx, cart)
}

// getOrCreateCart reads the owner's cart and lazily inserts one when none
// exists. A duplicate-key conflict on insert means another request won the
// race; fall back to a fresh read instead of erroring.
func getOrCreateCart(ctx context.Context, repo ports.CartRepository, kind domain.OwnerKind, key string) (*domain.Cart, error) {
	cart, err := repo.FindByOwner(ctx, kind, key)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	fresh := &domain.Cart{OwnerKind: kind, OwnerKey: key, CreatedAt: now, UpdatedAt: now}
	createErr := repo.Create(ctx, fresh)
	if createErr == nil {
		return fresh, nil
	}
	if errors.Is(createErr, domain.ErrDuplicateCart) {
		return repo.FindByOwner(ctx, kind, key)
	}
	return nil, createErr
}

func (s *cartService) buildView(ctx context.Context, cart *domain.Cart) (*ports.CartView, error) {
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return &ports.CartView{
		CartID:    cart.ID,
		OwnerKind: cart.OwnerKind,
		Items:     items,
		ItemCount: ItemCount(items),
		Total:     CartTotal(items),
		Currency:  CartCurrency(items),
	}, nil
}

func emptyView(kind domain.OwnerKind) *ports.CartView {
	return &ports.CartView{OwnerKind: kind, Items: []domain.CartItem{}}
}
