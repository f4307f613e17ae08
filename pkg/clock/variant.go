package clock

import (
	"fmt"
	"time"
)

// Variant selects the counting resolution of the clock.
type Variant string

const (
	// Seconds counts 0-59 at 1 Hz.
	Seconds Variant = "seconds"
	// Milliseconds counts 0-59999 at 1 kHz.
	Milliseconds Variant = "milliseconds"
)

// Timer parameters of the original board: 1 MHz I/O clock, the smallest
// prescaler whose compare value fits the counter width.
const (
	secondsTop      = 15624 // 1 MHz / 64 / 1 Hz - 1
	millisecondsTop = 124   // 1 MHz / 8 / 1 kHz - 1
)

// Parse returns the Variant named by s.
func Parse(s string) (Variant, error) {
	switch Variant(s) {
	case Seconds:
		return Seconds, nil
	case Milliseconds:
		return Milliseconds, nil
	}
	return "", fmt.Errorf("unknown clock variant %q", s)
}

// Limit is the exclusive upper bound of the time counter.
func (v Variant) Limit() uint16 {
	if v == Milliseconds {
		return 60000
	}
	return 60
}

// Top is the compare match value of the emulated hardware counter.
func (v Variant) Top() uint16 {
	if v == Milliseconds {
		return millisecondsTop
	}
	return secondsTop
}

// TickPeriod is the interval between compare match events.
func (v Variant) TickPeriod() time.Duration {
	if v == Milliseconds {
		return time.Millisecond
	}
	return time.Second
}

// DisplayValue reduces a time counter value to the two-digit number
// shown on the display: whole seconds for both variants.
func (v Variant) DisplayValue(t uint16) uint8 {
	if v == Milliseconds {
		return uint8(t / 1000)
	}
	return uint8(t)
}
