package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/api/metrics"
)

// AnalyticsRecorder implements ports.MetricRecorder with Redis hash
// counters. Key format: analytics:<metric>, field = product id.
//
// Increments are fire-and-forget from the caller's perspective: the cart
// services log and swallow any error returned here.
type AnalyticsRecorder struct {
	client *redis.Client
}

// NewAnalyticsRecorder creates an AnalyticsRecorder wrapping the given
// Redis client.
func NewAnalyticsRecorder(client *redis.Client) *AnalyticsRecorder {
	return &AnalyticsRecorder{client: client}
}

// IncrementMetric atomically bumps the per-product counter for metric.
func (a *AnalyticsRecorder) IncrementMetric(ctx context.Context, productID, metric string) error {
	err := a.client.HIncrBy(ctx, "analytics:"+metric, productID, 1).Err()
	if err != nil {
		metrics.AnalyticsDropsTotal.Inc()
		return fmt.Errorf("increment %s: %w", metric, err)
	}
	return nil
}

// Snapshot returns every per-product count recorded under metric.
func (a *AnalyticsRecorder) Snapshot(ctx context.Context, metric string) (map[string]int64, error) {
	raw, err := a.client.HGetAll(ctx, "analytics:"+metric).Result()
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", metric, err)
	}
	counts := make(map[string]int64, len(raw))
	for productID, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		counts[productID] = n
	}
	return counts, nil
}
