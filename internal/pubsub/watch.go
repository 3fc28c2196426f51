package pubsub

import (
	"context"
	"errors"
	"sync"
)

// ErrWatchClosed is returned by Receiver.Changed once the watch is closed and
// the receiver has already seen the final value.
var ErrWatchClosed = errors.New("watch closed")

// Watch is a single-slot broadcast cell. Every Send overwrites the previous
// value; it is not a queue. A receiver that falls behind skips intermediate
// values but always observes the latest one, including the last value sent
// before Close.
type Watch[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	changed chan struct{}
	closed  bool
}

// NewWatch creates a watch holding initial.
func NewWatch[T any](initial T) *Watch[T] {
	return &Watch[T]{
		value:   initial,
		changed: make(chan struct{}),
	}
}

// Send replaces the current value and wakes all waiting receivers.
// It returns false if the watch is closed.
func (w *Watch[T]) Send(v T) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	w.value = v
	w.version++
	close(w.changed)
	w.changed = make(chan struct{})
	return true
}

// Close marks the watch finished. The current value stays readable.
func (w *Watch[T]) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	close(w.changed)
}

// Load returns the current value.
func (w *Watch[T]) Load() T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Closed reports whether Close has been called.
func (w *Watch[T]) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Subscribe returns a receiver that treats the current value as already seen.
func (w *Watch[T]) Subscribe() *Receiver[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &Receiver[T]{w: w, seen: w.version}
}

// Receiver tracks which value of a Watch its owner has observed.
// A Receiver must not be shared between goroutines; call Subscribe per observer.
type Receiver[T any] struct {
	w    *Watch[T]
	seen uint64
}

// Value returns the latest value without marking it seen.
func (r *Receiver[T]) Value() T {
	return r.w.Load()
}

// Changed blocks until a value newer than the last one seen is available and
// marks it seen. It returns ErrWatchClosed when the watch is closed with no
// unseen value, or ctx.Err() when ctx ends first.
func (r *Receiver[T]) Changed(ctx context.Context) error {
	for {
		r.w.mu.Lock()
		if r.w.version != r.seen {
			r.seen = r.w.version
			r.w.mu.Unlock()
			return nil
		}
		if r.w.closed {
			r.w.mu.Unlock()
			return ErrWatchClosed
		}
		ch := r.w.changed
		r.w.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
