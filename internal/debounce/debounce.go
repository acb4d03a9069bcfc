// Package debounce delays a value until input has been idle for a while.
//
// A Debouncer keeps the latest value available immediately through Value,
// and hands it to its emit callback only once no new value has arrived for
// the configured delay. Stop cancels any pending emission for good.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the idle time used by search inputs.
const DefaultDelay = 500 * time.Millisecond

// Debouncer coalesces bursts of Set calls into one emission of the last value.
//
// The emit callback runs on its own goroutine (or on the Flush caller's).
// It may call Value, Pending and Set, but must not call Flush or Stop.
type Debouncer[T any] struct {
	delay time.Duration
	emit  func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	value   T
	pending bool
	stopped bool

	// emitMu is held for the duration of an emission so Stop can wait it out.
	emitMu sync.Mutex
}

// New returns a Debouncer that calls emit delay after the last Set.
// A non-positive delay uses DefaultDelay.
func New[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, emit: emit}
}

// Delay returns the idle time before an emission.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Set records v as the live value and restarts the idle timer.
// After Stop it only updates the live value.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.value = v
	if d.stopped {
		return
	}

	d.gen++
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Value returns the live value, including one not yet emitted.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush emits a pending value now instead of waiting for the timer.
// It reports whether anything was emitted.
func (d *Debouncer[T]) Flush() bool {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	d.gen++
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.value
	d.mu.Unlock()

	d.emit(v)
	return true
}

// Stop cancels any pending emission. When Stop returns no emission is in
// progress and none will happen later. Stop is idempotent.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	// Wait for an emission that already passed the stopped check.
	d.emitMu.Lock()
	d.emitMu.Unlock()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	v := d.value
	d.mu.Unlock()

	d.emit(v)
}
