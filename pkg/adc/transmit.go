package adc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sync"
)

// Transmitter streams sampled values as text lines: each value is
// written as a four-digit zero-padded decimal followed by CRLF.
// Transmission is gated by single-byte commands on a control stream:
// '1' starts transmission, '0' stops it, anything else is ignored.
type Transmitter struct {
	w io.Writer

	mu      sync.RWMutex
	enabled bool
}

// NewTransmitter creates a transmitter writing to w. Transmission
// starts disabled, matching the board firmware.
func NewTransmitter(w io.Writer) *Transmitter {
	return &Transmitter{w: w}
}

// Enabled returns whether transmission is currently enabled.
func (t *Transmitter) Enabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// HandleCommand applies one control byte.
func (t *Transmitter) HandleCommand(b byte) {
	switch b {
	case '0':
		t.mu.Lock()
		t.enabled = false
		t.mu.Unlock()
	case '1':
		t.mu.Lock()
		t.enabled = true
		t.mu.Unlock()
	default:
		// Any other byte is ignored
	}
}

// ReadCommands consumes control bytes from r until EOF or a read
// error. It is meant to run in its own goroutine, standing in for the
// receive interrupt of the original firmware.
func (t *Transmitter) ReadCommands(r io.Reader) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err != io.EOF {
				log.Printf("Error reading commands: %v", err)
			}
			return
		}
		t.HandleCommand(b)
	}
}

// Transmit writes one sample line.
func (t *Transmitter) Transmit(s Sample) error {
	if _, err := fmt.Fprintf(t.w, "%04d\r\n", s.Raw); err != nil {
		return fmt.Errorf("failed to transmit sample: %w", err)
	}
	return nil
}

// Run consumes samples until the channel closes, transmitting each one
// that arrives while transmission is enabled. Samples arriving while
// disabled are dropped, as the firmware did.
func (t *Transmitter) Run(in <-chan Sample) {
	for s := range in {
		if !t.Enabled() {
			continue
		}
		if err := t.Transmit(s); err != nil {
			log.Printf("Failed to transmit sample: %v", err)
		}
	}
}
