package clock

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/thinety/te328/pkg/board"
	"github.com/thinety/te328/pkg/button"
	"github.com/thinety/te328/pkg/sevseg"
)

// Driver runs a Clock against a Board. Two event sources feed the
// clock: a periodic ticker standing in for the compare match interrupt,
// and the board's pin-change reports standing in for the button
// interrupt. The foreground render loop polls the latest snapshot at
// the refresh rate and drives the digit outputs; it never blocks on
// the event sources.
type Driver struct {
	clock    *Clock
	brd      board.Board
	refresh  time.Duration
	detector *button.Detector

	cbMu      sync.RWMutex
	callbacks []func(Snapshot)
}

// NewDriver creates a driver rendering clk to brd every refresh period.
func NewDriver(clk *Clock, brd board.Board, refresh time.Duration) *Driver {
	return &Driver{
		clock:    clk,
		brd:      brd,
		refresh:  refresh,
		detector: button.NewDetector(),
	}
}

// OnUpdate registers a callback invoked with the snapshot rendered on
// each refresh. The callback should return quickly.
func (d *Driver) OnUpdate(callback func(Snapshot)) {
	d.cbMu.Lock()
	defer d.cbMu.Unlock()
	d.callbacks = append(d.callbacks, callback)
}

// Run drives the clock until ctx is cancelled or the board's button
// channel closes. The board must already be connected.
func (d *Driver) Run(ctx context.Context) error {
	tickCtx, stopTicks := context.WithCancel(ctx)
	defer stopTicks()

	// Compare match event source
	go func() {
		ticker := time.NewTicker(d.clock.Variant().TickPeriod())
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return
			case <-ticker.C:
				d.clock.Tick()
			}
		}
	}()

	// Pin-change event source
	buttonsDone := make(chan struct{})
	go func() {
		defer close(buttonsDone)
		for sample := range d.brd.Buttons() {
			d.dispatch(sample.Levels)
		}
	}()

	// Render loop
	ticker := time.NewTicker(d.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-buttonsDone:
			// Board closed
			return nil
		case <-ticker.C:
			d.render()
		}
	}
}

// dispatch applies the press events found in one pin-change sample.
func (d *Driver) dispatch(levels button.Levels) {
	for _, b := range d.detector.Scan(levels) {
		switch b {
		case button.StartStop:
			d.clock.StartStop()
		case button.SwapMode:
			d.clock.Reverse()
		case button.Reset:
			d.clock.Reset()
		}
	}
}

// render takes a snapshot and drives the digit outputs.
func (d *Driver) render() {
	snap := d.clock.Snapshot()

	ones, tens, err := sevseg.EncodeValue(snap.DisplayValue(d.clock.Variant()))
	if err != nil {
		log.Printf("Failed to encode display value: %v", err)
		return
	}

	if err := d.brd.SetDigits(ones, tens); err != nil {
		log.Printf("Failed to set digits: %v", err)
	}

	d.cbMu.RLock()
	callbacks := make([]func(Snapshot), len(d.callbacks))
	copy(callbacks, d.callbacks)
	d.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(snap)
		}
	}
}
