package stats

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Async hands events to a wrapped store from a background goroutine so a slow
// store never blocks the caller. When the queue is full the event is dropped.
type Async struct {
	store   Store
	ch      chan Event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// NewAsync starts the worker draining a queue of the given size into store.
func NewAsync(store Store, queue int) *Async {
	if queue <= 0 {
		queue = 1
	}
	a := &Async{
		store: store,
		ch:    make(chan Event, queue),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	failing := false
	for ev := range a.ch {
		err := a.store.Record(context.Background(), ev)
		switch {
		case err != nil && !failing:
			failing = true
			slog.Warn("Stats store failing, events will be lost", "error", err)
		case err == nil && failing:
			failing = false
			slog.Info("Stats store recovered")
		}
		if err != nil {
			a.failed.Add(1)
		}
	}
}

// Record queues ev. It never blocks; ctx is only checked for cancellation.
func (a *Async) Record(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case a.ch <- ev:
	default:
		a.dropped.Add(1)
	}
	return nil
}

// Close stops accepting events and waits for the queue to drain or ctx to
// end, whichever comes first. Record must not be called after Close.
func (a *Async) Close(ctx context.Context) error {
	a.once.Do(func() { close(a.ch) })
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns how many events were lost to a full queue.
func (a *Async) Dropped() uint64 { return a.dropped.Load() }

// Failed returns how many events the wrapped store rejected.
func (a *Async) Failed() uint64 { return a.failed.Load() }
