package ports

import "context"

// MergeResult reports what a single merge attempt did.
type MergeResult struct {
	// Skipped is true when there was nothing to merge: no guest cart, an
	// empty guest cart, or a sign-in event that was already handled.
	Skipped bool
	// Summed counts guest items folded onto an existing user-cart row.
	Summed int
	// Moved counts guest items inserted as new user-cart rows.
	Moved int
	// Retired is true once the guest cart's items have been deleted.
	Retired bool
}

// MergeService folds a guest cart into the newly authenticated user's
// cart, exactly once per sign-in event. On partial failure it surfaces
// domain.ErrMergeIncomplete and leaves whatever subset landed; it never
// retries on its own, because a full re-run is safe (a completed merge
// leaves an empty guest cart behind).
type MergeService interface {
	Merge(ctx context.Context, userID, guestToken string) (*MergeResult, error)
}
