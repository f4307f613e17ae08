package button

import "fmt"

// Button identifies one of the three clock buttons.
type Button int

const (
	// StartStop toggles the clock run state.
	StartStop Button = iota
	// SwapMode reverses the counting direction.
	SwapMode
	// Reset clears the clock.
	Reset

	// Count is the number of buttons.
	Count
)

// String returns the configuration name of the button.
func (b Button) String() string {
	switch b {
	case StartStop:
		return "start_stop"
	case SwapMode:
		return "swap_mode"
	case Reset:
		return "reset"
	}
	return fmt.Sprintf("button(%d)", int(b))
}

// Parse returns the Button with the given configuration name.
func Parse(s string) (Button, error) {
	switch s {
	case "start_stop":
		return StartStop, nil
	case "swap_mode":
		return SwapMode, nil
	case "reset":
		return Reset, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// Levels holds one sample of the three button line levels, indexed by
// Button. The lines are pulled up and the buttons short them to ground,
// so a pressed button reads low (false).
type Levels [Count]bool

// AllHigh is the idle state: no button pressed.
var AllHigh = Levels{true, true, true}

// Pressed reports whether the given button is pressed in this sample.
func (l Levels) Pressed(b Button) bool {
	return !l[b]
}

// WithPressed returns a copy of the sample with the given button line
// pulled low.
func (l Levels) WithPressed(b Button) Levels {
	l[b] = false
	return l
}

// Detector turns line level samples into press events.
//
// The pin-change interrupt on the board fired for any level change on
// the monitored port without identifying the pin, so the handler read
// every line on every invocation and compared against a stored
// previous-state snapshot. Scan replicates that: all three lines are
// examined each call, a press is reported only on the not-pressed to
// pressed transition, and the snapshots are updated unconditionally so
// a held button fires at most once per physical press.
//
// There is no debounce beyond this edge latching; contact bounce inside
// one sample window is not filtered.
type Detector struct {
	wasPressed [Count]bool
}

// NewDetector creates a detector with all snapshots released, the
// power-on state.
func NewDetector() *Detector {
	return &Detector{}
}

// Scan compares a sample against the previous one and returns the
// buttons that transitioned to pressed, in button order.
func (d *Detector) Scan(levels Levels) []Button {
	var pressed []Button
	for b := Button(0); b < Count; b++ {
		isPressed := levels.Pressed(b)
		if isPressed && !d.wasPressed[b] {
			pressed = append(pressed, b)
		}
		d.wasPressed[b] = isPressed
	}
	return pressed
}
