package invalidation

import (
	"context"
	"errors"
	"sync"
)

// Event is one emission: the entity that changed, the partitions it made
// stale, and the user whose data changed.
type Event struct {
	Entity  Entity
	Signals []Signal
	UserID  string
}

// Emitter delivers invalidation events.
type Emitter interface {
	Emit(ctx context.Context, ev Event) error
}

// Invalidator drops cached entries tagged with a partition name.
type Invalidator interface {
	InvalidateTag(tag string) int
}

// CacheEmitter drops view cache entries for each emitted signal.
type CacheEmitter struct {
	cache    Invalidator
	observer func(Signal, int)
}

// NewCacheEmitter returns an emitter over c. observer, if not nil, is told
// how many entries each signal removed.
func NewCacheEmitter(c Invalidator, observer func(Signal, int)) *CacheEmitter {
	return &CacheEmitter{cache: c, observer: observer}
}

func (e *CacheEmitter) Emit(_ context.Context, ev Event) error {
	for _, s := range ev.Signals {
		n := e.cache.InvalidateTag(string(s))
		if e.observer != nil {
			e.observer(s, n)
		}
	}
	return nil
}

// Recorder keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Signals = append([]Signal(nil), ev.Signals...)
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Signals flattens every recorded signal in emission order.
func (r *Recorder) Signals() []Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Signal
	for _, ev := range r.events {
		out = append(out, ev.Signals...)
	}
	return out
}

// Multi emits to every emitter, even after one fails, and joins the errors.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, ev Event) error {
	var errs []error
	for _, e := range m {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, Event) error { return nil }
