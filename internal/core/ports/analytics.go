package ports

import "context"

// MetricRecorder is the analytics collaborator: a single atomic counter
// increment. Calls are best-effort; failures must never affect cart
// correctness.
type MetricRecorder interface {
	IncrementMetric(ctx context.Context, productID, metric string) error
}
