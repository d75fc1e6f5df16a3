package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/askhowenow/artijam-reborn-social-hub-sub000/internal/api/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

type job struct {
	fn   func(context.Context) error
	done chan error
}

// CartQueue serializes cart mutations through a fixed set of workers using
// consistent hashing on the cart owner key. All mutations for one cart land
// on the same worker and run one at a time, so a read-modify-write pair is
// never interleaved with another mutation of the same cart in this process.
// Cross-process writers are not coordinated; those races stay last write
// wins at the row level.
type CartQueue struct {
	workers []chan job
	log     zerolog.Logger
}

// NewCartQueue creates a CartQueue with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCartQueue(numWorkers int, log zerolog.Logger) *CartQueue {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	q := &CartQueue{
		workers: make([]chan job, numWorkers),
		log:     log,
	}
	for i := range q.workers {
		q.workers[i] = make(chan job, channelBuffer)
	}
	return q
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// the same ctx bounds every job they run.
func (q *CartQueue) Start(ctx context.Context) {
	for i, ch := range q.workers {
		go q.runWorker(ctx, i, ch)
	}
}

// Do runs fn on the worker owning key and waits for its result. When the
// caller's ctx expires while waiting, Do returns early but fn still runs to
// completion on the worker (the store-side effect is never abandoned
// half-way; only the caller stops watching).
func (q *CartQueue) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	j := job{fn: fn, done: make(chan error, 1)}
	idx := q.shardIndex(key)

	select {
	case q.workers[idx] <- j:
		metrics.MutationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(q.workers[idx])))
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an owner key deterministically to a worker index.
func (q *CartQueue) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(q.workers)
}

func (q *CartQueue) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			err := j.fn(ctx)
			if err != nil {
				q.log.Debug().Err(err).Int("worker_id", id).Msg("cart mutation failed")
			}
			j.done <- err
			metrics.MutationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
