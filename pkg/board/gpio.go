package board

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/thinety/te328/pkg/button"
	"github.com/thinety/te328/pkg/config"
)

// segmentCount is the number of LED segments per digit.
const segmentCount = 7

// edgePollTimeout bounds WaitForEdge so the watch goroutines notice a
// Close in reasonable time.
const edgePollTimeout = 100 * time.Millisecond

// GPIO is a board wired directly to host GPIO lines: three pulled-up
// button inputs watched for edges, and seven segment outputs per digit.
type GPIO struct {
	cfg     *config.GPIOConfig
	bufSize int

	buttons [button.Count]gpio.PinIO
	digit0  [segmentCount]gpio.PinIO
	digit1  [segmentCount]gpio.PinIO

	samples   chan ButtonSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewGPIO creates a new GPIO board with the pin assignments from cfg.
func NewGPIO(cfg *config.GPIOConfig, bufSize int) *GPIO {
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &GPIO{
		cfg:       cfg,
		bufSize:   bufSize,
		samples:   make(chan ButtonSample, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Connect initialises the host GPIO, configures the pins and starts
// the edge watch goroutines.
func (g *GPIO) Connect() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.connected {
		return fmt.Errorf("already connected")
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialise host GPIO: %w", err)
	}

	if len(g.cfg.Buttons) != int(button.Count) {
		return fmt.Errorf("expected %d button pins, got %d", button.Count, len(g.cfg.Buttons))
	}
	if len(g.cfg.Digit0) != segmentCount || len(g.cfg.Digit1) != segmentCount {
		return fmt.Errorf("expected %d segment pins per digit", segmentCount)
	}

	// Button inputs: internal pull-up, interrupt on both edges. Any
	// edge triggers a read of all three lines, matching the port-wide
	// pin-change interrupt of the original board.
	for i, name := range g.cfg.Buttons {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return fmt.Errorf("unknown GPIO pin %q", name)
		}
		if err := pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
			return fmt.Errorf("failed to configure button pin %s: %w", name, err)
		}
		g.buttons[i] = pin
	}

	// Segment outputs: initially all off.
	for i, name := range g.cfg.Digit0 {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return fmt.Errorf("unknown GPIO pin %q", name)
		}
		if err := pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("failed to configure segment pin %s: %w", name, err)
		}
		g.digit0[i] = pin
	}
	for i, name := range g.cfg.Digit1 {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return fmt.Errorf("unknown GPIO pin %q", name)
		}
		if err := pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("failed to configure segment pin %s: %w", name, err)
		}
		g.digit1[i] = pin
	}

	g.connected = true

	for i := range g.buttons {
		go g.watchButton(g.buttons[i])
	}

	return nil
}

// Close stops the edge watchers and releases the pins.
func (g *GPIO) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.connected {
		return nil
	}

	g.cancel()
	g.connected = false

	// Blank the display on the way out.
	for _, pin := range g.digit0 {
		if err := pin.Out(gpio.Low); err != nil {
			log.Printf("Error clearing segment pin %s: %v", pin.Name(), err)
		}
	}
	for _, pin := range g.digit1 {
		if err := pin.Out(gpio.Low); err != nil {
			log.Printf("Error clearing segment pin %s: %v", pin.Name(), err)
		}
	}

	close(g.samples)

	return nil
}

// Buttons returns the channel of pin-change reports.
func (g *GPIO) Buttons() <-chan ButtonSample {
	return g.samples
}

// SetDigits drives the segment outputs of both digits.
func (g *GPIO) SetDigits(ones, tens byte) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.connected {
		return fmt.Errorf("not connected")
	}

	for i := 0; i < segmentCount; i++ {
		level := gpio.Level(ones&(1<<i) != 0)
		if err := g.digit0[i].Out(level); err != nil {
			return fmt.Errorf("failed to drive segment pin %s: %w", g.digit0[i].Name(), err)
		}
		level = gpio.Level(tens&(1<<i) != 0)
		if err := g.digit1[i].Out(level); err != nil {
			return fmt.Errorf("failed to drive segment pin %s: %w", g.digit1[i].Name(), err)
		}
	}

	return nil
}

// IsConnected returns whether the board is currently connected.
func (g *GPIO) IsConnected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connected
}

// watchButton waits for edges on one button line. On every edge it
// samples all three lines; which pin fired is deliberately not used.
func (g *GPIO) watchButton(pin gpio.PinIO) {
	for {
		select {
		case <-g.ctx.Done():
			return
		default:
		}

		if !pin.WaitForEdge(edgePollTimeout) {
			continue
		}

		g.emit(ButtonSample{
			Timestamp: time.Now(),
			Levels:    g.readLevels(),
		})
	}
}

// emit delivers a pin-change report unless the board has been closed.
func (g *GPIO) emit(sample ButtonSample) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.connected {
		return
	}

	select {
	case g.samples <- sample:
	default:
		// Channel full, log and skip
		log.Printf("Button samples channel full, dropping sample")
	}
}

// readLevels reads the current level of every button line.
func (g *GPIO) readLevels() button.Levels {
	var levels button.Levels
	for i, pin := range g.buttons {
		levels[i] = bool(pin.Read())
	}
	return levels
}
