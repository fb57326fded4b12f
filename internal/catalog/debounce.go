package catalog

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search query settles.
const DefaultDebounce = 300 * time.Millisecond

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already ran or was stopped.
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules callbacks with the runtime timer.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delivers only the last value pushed within a quiet period.
// Each Push restarts the timer and discards the previous pending value.
type Debouncer struct {
	delay time.Duration
	clock Clock
	fire  func(string)

	mu      sync.Mutex
	timer   Timer
	pending string
	armed   bool
	gen     uint64
}

// NewDebouncer creates a debouncer that calls fire with the settled value.
// A nil clock uses SystemClock; a non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration, clock Clock, fire func(string)) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, clock: clock, fire: fire}
}

// Push records value and restarts the quiet period.
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = value
	d.armed = true
	d.timer = d.clock.AfterFunc(d.delay, func() { d.expire(gen) })
}

// expire fires the pending value unless a later Push or Cancel superseded it.
func (d *Debouncer) expire(gen uint64) {
	d.mu.Lock()
	if !d.armed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.fire(value)
}

// Pending reports whether a value is waiting for the quiet period to end.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Cancel drops the pending value without firing.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = nil
	d.armed = false
	d.gen++
}

// Flush fires the pending value immediately. It reports whether anything fired.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	value := d.pending
	d.timer = nil
	d.armed = false
	d.gen++
	d.mu.Unlock()

	d.fire(value)
	return true
}
