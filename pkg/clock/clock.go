package clock

import (
	"math"
	"sync"
)

// Snapshot is a consistent copy of the clock state, safe to read while
// ticks and button events keep arriving.
type Snapshot struct {
	Time      uint16
	Step      int8
	Running   bool
	Ascending bool
	Counter   uint16
}

// Clock is the reversible clock core: a wrapping time counter driven by
// periodic tick events, with start/stop, direction swap and reset
// operations driven by button press events.
//
// All state is guarded by one mutex. On the original board the tick and
// button handlers were interrupts and the render loop was the only
// other context; the mutex is the host-side analog of the disable-
// interrupts discipline that kept multi-byte counter reads from
// tearing. Each operation holds the lock for a handful of branches, the
// same bounded work the interrupt handlers did.
type Clock struct {
	mu sync.Mutex

	variant Variant
	limit   uint16

	time      uint16
	step      int8
	running   bool
	ascending bool

	counter *Counter
}

// New creates a clock in its power-on state: time zero, counting up,
// running.
func New(v Variant) *Clock {
	return &Clock{
		variant:   v,
		limit:     v.Limit(),
		time:      0,
		step:      1,
		running:   true,
		ascending: true,
		counter:   NewCounter(v.Top()),
	}
}

// Variant returns the counting resolution of the clock.
func (c *Clock) Variant() Variant {
	return c.variant
}

// Tick handles one compare match event: the time counter moves one
// step and wraps at the boundaries. A tick while the clock is stopped
// is ignored; on the board the gated clock source made such a tick
// impossible, on the host a tick may race a stop.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	// Modular counter arithmetic: decrementing past zero lands on the
	// counter type's maximum value.
	c.time += uint16(c.step)

	// Ascending wrap
	if c.time == c.limit {
		c.time = 0
	}

	// Descending wrap
	if c.time == math.MaxUint16 {
		c.time = c.limit - 1
	}
}

// StartStop toggles the run state. Stopping gates the hardware counter
// clock source off, freezing both the count and future ticks, without
// touching the time value. Starting restores the clock source.
func (c *Clock) StartStop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.counter.Stop()
		c.running = false
	} else {
		c.counter.Start()
		c.running = true
	}
}

// Reverse flips the counting direction. The hardware counter is
// remapped to top-count so the partial tick in flight keeps its timing,
// and the step changes sign.
func (c *Clock) Reverse() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter.Remap()
	if c.ascending {
		c.step = -1
		c.ascending = false
	} else {
		c.step = 1
		c.ascending = true
	}
}

// Reset clears both the hardware counter and the time value, whatever
// the current run state and direction.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter.Zero()
	c.time = 0
}

// Snapshot returns a consistent copy of the state for rendering.
func (c *Clock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Time:      c.time,
		Step:      c.step,
		Running:   c.running,
		Ascending: c.ascending,
		Counter:   c.counter.Value(),
	}
}

// DisplayValue returns the two-digit number currently shown on the
// display.
func (s Snapshot) DisplayValue(v Variant) uint8 {
	return v.DisplayValue(s.Time)
}
