package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/domain"
	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/core/ports"
)

// MergeGuard abstracts the sign-in de-duplication store (Redis). A sign-in
// event is identified by (userID, guestToken); the guard makes sure the
// same event never triggers two merges even when the session signal fires
// more than once.
type MergeGuard interface {
	AlreadyMerged(ctx context.Context, userID, guestToken string) (bool, error)
	MarkMerged(ctx context.Context, userID, guestToken string) error
}

type mergeService struct {
	repo  ports.CartRepository
	queue MutationSerializer
	guard MergeGuard
	log   zerolog.Logger
}

// NewMergeService returns a MergeService implementation.
func NewMergeService(
	repo ports.CartRepository,
	queue MutationSerializer,
	guard MergeGuard,
	log zerolog.Logger,
) ports.MergeService {
	return &mergeService{repo: repo, queue: queue, guard: guard, log: log}
}

// Merge folds the guest cart identified by guestToken into userID's cart.
// The whole attempt runs in the guest token's queue slot, so it queues
// behind any guest mutation that was in flight when the user signed in.
func (s *mergeService) Merge(ctx context.Context, userID, guestToken string) (*ports.MergeResult, error) {
	if guestToken == "" {
		return &ports.MergeResult{Skipped: true}, nil
	}

	// 1. De-duplicate the sign-in event. On guard errors proceed anyway:
	// the merge is safe to re-run, missing one is not.
	merged, err := s.guard.AlreadyMerged(ctx, userID, guestToken)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("merge guard check failed, proceeding")
	} else if merged {
		s.log.Debug().Str("user_id", userID).Msg("sign-in already merged, skipping")
		return &ports.MergeResult{Skipped: true}, nil
	}

	var result *ports.MergeResult
	qerr := s.queue.Do(ctx, guestToken, func(ctx context.Context) error {
		var runErr error
		result, runErr = s.run(ctx, userID, guestToken)
		return runErr
	})
	if qerr != nil {
		return result, qerr
	}

	// Mark only after both reconcile and retire completed; a partial merge
	// must stay retryable by the caller.
	if !result.Skipped {
		if markErr := s.guard.MarkMerged(ctx, userID, guestToken); markErr != nil {
			s.log.Warn().Err(markErr).Str("user_id", userID).Msg("failed to mark merge guard")
		}
	}

	return result, nil
}

func (s *mergeService) run(ctx context.Context, userID, guestToken string) (*ports.MergeResult, error) {
	// 2. Load the guest cart. Absent or empty means a no-op merge, which is
	// the common case for most sign-ins.
	guestCart, err := s.repo.FindByOwner(ctx, domain.OwnerGuest, guestToken)
	if errors.Is(err, domain.ErrCartNotFound) {
		return &ports.MergeResult{Skipped: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("merge: load guest cart: %w", err)
	}

	guestItems, err := s.repo.ListItems(ctx, guestCart.ID)
	if err != nil {
		return nil, fmt.Errorf("merge: list guest items: %w", err)
	}
	if len(guestItems) == 0 {
		return &ports.MergeResult{Skipped: true}, nil
	}

	// 3. Load or create the user cart.
	userCart, err := getOrCreateCart(ctx, s.repo, domain.OwnerUser, userID)
	if err != nil {
		return nil, fmt.Errorf("merge: user cart: %w", err)
	}

	// 4. Reconcile each guest item: sum onto an existing user-cart row for
	// the same product, otherwise move the row across. A write failure
	// stops here and surfaces ErrMergeIncomplete — whatever landed stays,
	// the untouched guest items make a full re-run safe.
	result := &ports.MergeResult{}
	for _, item := range guestItems {
		existing, err := s.repo.FindItemByProduct(ctx, userCart.ID, item.ProductID)
		switch {
		case err == nil:
			if err := s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+item.Quantity); err != nil {
				return result, s.incomplete(userID, item.ProductID, err)
			}
			result.Summed++
		case errors.Is(err, domain.ErrItemNotFound):
			moved := &domain.CartItem{
				CartID:    userCart.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				AddedAt:   item.AddedAt,
			}
			if err := s.repo.InsertItem(ctx, moved); err != nil {
				return result, s.incomplete(userID, item.ProductID, err)
			}
			result.Moved++
		default:
			return result, s.incomplete(userID, item.ProductID, err)
		}
	}

	// 5. Retire the guest cart. Reconcile and retire are one unit: success
	// is only reported once the guest items are gone, otherwise a re-run
	// would double every quantity just summed.
	if err := s.repo.DeleteItemsByCart(ctx, guestCart.ID); err != nil {
		return result, s.incomplete(userID, "", err)
	}
	result.Retired = true

	// 6. Done.
	s.log.Info().
		Str("user_id", userID).
		Int("summed", result.Summed).
		Int("moved", result.Moved).
		Msg("guest cart merged")

	return result, nil
}

func (s *mergeService) incomplete(userID, productID string, cause error) error {
	ev := s.log.Error().Err(cause).Str("user_id", userID)
	if productID != "" {
		ev = ev.Str("product_id", productID)
	}
	ev.Msg("cart merge failed partway")
	return fmt.Errorf("%w: %w", domain.ErrMergeIncomplete, cause)
}
