package clock

// Counter emulates the CTC hardware counter register: a free-running
// count in [0, top] that resets on compare match. Direction reversal
// does not reset it; instead the value is remapped so the distance to
// the next compare match is preserved.
type Counter struct {
	value   uint16
	top     uint16
	running bool
}

// NewCounter creates a counter with the given compare match value.
// The clock source starts enabled, matching power-on state.
func NewCounter(top uint16) *Counter {
	return &Counter{top: top, running: true}
}

// Value returns the current count.
func (c *Counter) Value() uint16 {
	return c.value
}

// Top returns the compare match value.
func (c *Counter) Top() uint16 {
	return c.top
}

// Running reports whether the clock source is enabled.
func (c *Counter) Running() bool {
	return c.running
}

// Stop gates the clock source off. The count is frozen, not cleared.
func (c *Counter) Stop() {
	c.running = false
}

// Start restores the clock source.
func (c *Counter) Start() {
	c.running = true
}

// Zero clears the count.
func (c *Counter) Zero() {
	c.value = 0
}

// Remap replaces the count with top-count. A counter n ticks away from
// compare match becomes a counter n ticks past zero, so reversing the
// counting direction keeps sub-tick timing continuous instead of
// jumping.
func (c *Counter) Remap() {
	c.value = c.top - c.value
}

// Advance steps the counter by n clock-source ticks and returns the
// number of compare matches that occurred. While the clock source is
// gated off the counter does not move.
func (c *Counter) Advance(n uint32) int {
	if !c.running {
		return 0
	}
	period := uint32(c.top) + 1
	total := uint32(c.value) + n
	c.value = uint16(total % period)
	return int(total / period)
}
