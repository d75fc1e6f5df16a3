package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const mergeGuardTTL = 24 * time.Hour

// MergeGuard de-duplicates sign-in merge events backed by Redis.
// Key format: merge:<user_id>:<guest_token>
//
// A session signal may fire more than once for the same login; the guard
// makes sure only the first triggers a merge. The TTL matches the session
// lifetime — a retired guest token is never reused within the same
// session, and after expiry the merge is a safe no-op anyway because the
// guest cart is already empty.
type MergeGuard struct {
	client *redis.Client
}

// NewMergeGuard creates a MergeGuard wrapping the given Redis client.
func NewMergeGuard(client *redis.Client) *MergeGuard {
	return &MergeGuard{client: client}
}

// AlreadyMerged reports whether this (user, guest token) sign-in event has
// already been merged.
func (g *MergeGuard) AlreadyMerged(ctx context.Context, userID, guestToken string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(userID, guestToken)).Result()
	if err != nil {
		return false, fmt.Errorf("merge guard check: %w", err)
	}
	return n > 0, nil
}

// MarkMerged records that this sign-in event has been merged.
func (g *MergeGuard) MarkMerged(ctx context.Context, userID, guestToken string) error {
	return g.client.Set(ctx, g.key(userID, guestToken), "1", mergeGuardTTL).Err()
}

func (g *MergeGuard) key(userID, guestToken string) string {
	return fmt.Sprintf("merge:%s:%s", userID, guestToken)
}
