package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startQueue(t *testing.T, workers int) *CartQueue {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	q := NewCartQueue(workers, zerolog.Nop())
	q.Start(ctx)
	return q
}

func TestCartQueue_SerializesSameKey(t *testing.T) {
	q := startQueue(t, 4)

	// Non-atomic read-modify-write: only serialization keeps this correct.
	counter := 0
	bump := func(context.Context) error {
		v := counter
		time.Sleep(2 * time.Millisecond)
		counter = v + 1
		return nil
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := q.Do(context.Background(), "tok_1", bump); err != nil {
				t.Errorf("Do: %v", err)
			}
		}()
	}
	wg.Wait()

	if counter != n {
		t.Errorf("expected %d serialized increments, got %d", n, counter)
	}
}

func TestCartQueue_SameKeyPreservesSubmissionOrder(t *testing.T) {
	q := startQueue(t, 4)

	var order []int
	for i := 0; i < 10; i++ {
		i := i
		if err := q.Do(context.Background(), "tok_1", func(context.Context) error {
			order = append(order, i)
			return nil
		}); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}

	for i, v := range order {
		if v != i {
			t.Fatalf("expected submission order preserved, got %v", order)
		}
	}
}

func TestCartQueue_PropagatesJobError(t *testing.T) {
	q := startQueue(t, 1)

	want := errors.New("boom")
	err := q.Do(context.Background(), "tok_1", func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("expected job error back, got %v", err)
	}
}

func TestCartQueue_CallerCancelWhileWaiting(t *testing.T) {
	q := startQueue(t, 1)

	started := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		_ = q.Do(context.Background(), "tok_slow", func(context.Context) error {
			close(started)
			time.Sleep(20 * time.Millisecond)
			close(finished)
			return nil
		})
	}()
	<-started

	// Same shard, caller gives up before its turn comes.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.Do(ctx, "tok_slow", func(context.Context) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	// The running job still completes.
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Error("in-flight job did not run to completion")
	}
}

func TestCartQueue_ShardIndexIsStable(t *testing.T) {
	q := NewCartQueue(8, zerolog.Nop())
	for _, key := range []string{"tok_1", "user_42", "AJ-DEADBEEF"} {
		first := q.shardIndex(key)
		for i := 0; i < 5; i++ {
			if got := q.shardIndex(key); got != first {
				t.Fatalf("shard index for %q changed: %d vs %d", key, first, got)
			}
		}
	}
}
