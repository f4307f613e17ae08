package board

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/thinety/te328/pkg/button"
	"github.com/thinety/te328/pkg/config"
)

// Mock simulates a board for testing and development. It replays a
// configured button press sequence and records the digit patterns the
// clock writes to it.
type Mock struct {
	cfg *config.MockConfig

	samples   chan ButtonSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	// Scripted press sequence
	sequence []button.Button

	// Last digit patterns written by the render loop
	ones byte
	tens byte
}

// NewMock creates a new mock board.
func NewMock(cfg *config.MockConfig) (*Mock, error) {
	if cfg == nil {
		cfg = &config.Default().Mock
	}

	sequence := make([]button.Button, 0, len(cfg.Sequence))
	for _, name := range cfg.Sequence {
		b, err := button.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid mock sequence: %w", err)
		}
		sequence = append(sequence, b)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:       cfg,
		samples:   make(chan ButtonSample, DefaultBufferSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
		sequence:  sequence,
	}, nil
}

// Connect simulates connecting to the board and starts replaying the
// press sequence.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true

	if len(m.sequence) > 0 && m.cfg.PressInterval > 0 {
		go m.replayPresses()
	}

	return nil
}

// Close stops the mock board.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.samples)

	return nil
}

// Buttons returns the channel of pin-change reports.
func (m *Mock) Buttons() <-chan ButtonSample {
	return m.samples
}

// SetDigits records the digit patterns.
func (m *Mock) SetDigits(ones, tens byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return fmt.Errorf("not connected")
	}

	m.ones = ones
	m.tens = tens

	return nil
}

// Digits returns the last digit patterns written to the board.
func (m *Mock) Digits() (ones, tens byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ones, m.tens
}

// IsConnected returns whether the board is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Press simulates one physical press of a button: a sample with the
// line pulled low followed by a sample with all lines released. Both
// samples are delivered before Press returns.
func (m *Mock) Press(b button.Button) {
	m.emit(button.AllHigh.WithPressed(b))
	m.emit(button.AllHigh)
}

// Hold simulates pressing a button without releasing it.
func (m *Mock) Hold(b button.Button) {
	m.emit(button.AllHigh.WithPressed(b))
}

// Release simulates releasing all buttons.
func (m *Mock) Release() {
	m.emit(button.AllHigh)
}

func (m *Mock) emit(levels button.Levels) {
	// The read lock excludes Close, so the channel cannot be closed
	// mid-send.
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected {
		return
	}

	sample := ButtonSample{
		Timestamp: time.Now(),
		Levels:    levels,
	}

	select {
	case m.samples <- sample:
	default:
		// Channel full, skip
		log.Printf("Mock button samples channel full, dropping sample")
	}
}

// replayPresses replays the configured press sequence until the board
// is closed.
func (m *Mock) replayPresses() {
	ticker := time.NewTicker(m.cfg.PressInterval)
	defer ticker.Stop()

	next := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			b := m.sequence[next]
			next = (next + 1) % len(m.sequence)

			m.emit(button.AllHigh.WithPressed(b))

			select {
			case <-m.ctx.Done():
				return
			case <-time.After(m.cfg.HoldDuration):
			}

			m.emit(button.AllHigh)
		}
	}
}
