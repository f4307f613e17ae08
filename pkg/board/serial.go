package board

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/thinety/te328/pkg/button"
)

const (
	// DefaultBaudRate is the baud rate the board firmware is built with.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the button samples channel buffer.
	DefaultBufferSize = 100
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a board attached over a serial link.
//
// The firmware reports every pin change on the button port as one text
// line "unix_micros,LLL" where LLL are the levels of the three button
// lines ('1' high, '0' low). Digit patterns are written back as two hex
// bytes "XX,YY" (ones digit first).
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	samples   chan ButtonSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewSerial creates a new serial board with the specified port, baud
// rate, and buffer size.
func NewSerial(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		samples:   make(chan ButtonSample, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading pin-change reports.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	// Start reading pin-change reports in a goroutine
	go d.readSamples()

	return nil
}

// Close closes the connection and stops reading.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	// Cancel context to stop reading goroutine
	d.cancel()

	// Close serial port
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	// Close samples channel
	close(d.samples)

	return nil
}

// Buttons returns the channel of pin-change reports.
func (d *Serial) Buttons() <-chan ButtonSample {
	return d.samples
}

// SetDigits sends the two digit patterns to the board.
func (d *Serial) SetDigits(ones, tens byte) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return fmt.Errorf("not connected")
	}

	cmd := fmt.Sprintf("%02X,%02X\n", ones, tens)
	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("failed to send digit command: %w", err)
	}

	return nil
}

// IsConnected returns whether the board is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readSamples reads lines from the serial port and parses them into
// ButtonSamples.
func (d *Serial) readSamples() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readSamples: %v", r)
		}
	}()

	scanner := bufio.NewScanner(d.conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				// Scanner stopped (EOF or error)
				if err := scanner.Err(); err != nil {
					if err != io.EOF {
						log.Printf("Error reading from serial port: %v", err)
					}
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			sample, err := parseLine(line)
			if err != nil {
				log.Printf("Failed to parse line '%s': %v", line, err)
				continue
			}

			// Send sample to channel (non-blocking)
			select {
			case d.samples <- sample:
			case <-d.ctx.Done():
				return
			default:
				// Channel full, log and skip
				log.Printf("Button samples channel full, dropping sample")
			}
		}
	}
}

// parseLine parses a pin-change report line into a ButtonSample.
// Format: unix_micros,levels
// Example: 1234567890123,101
func parseLine(line string) (ButtonSample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return ButtonSample{}, fmt.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	// Parse timestamp (unix microseconds)
	timestampMicros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ButtonSample{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	timestamp := time.Unix(0, timestampMicros*1000) // Convert microseconds to nanoseconds

	// Parse line levels (3 digits, one per button line)
	levelStr := parts[1]
	if len(levelStr) != int(button.Count) {
		return ButtonSample{}, fmt.Errorf("invalid levels: expected %d digits, got %d", button.Count, len(levelStr))
	}

	var levels button.Levels
	for i := range levels {
		switch levelStr[i] {
		case '0':
			levels[i] = false
		case '1':
			levels[i] = true
		default:
			return ButtonSample{}, fmt.Errorf("invalid level character %q", levelStr[i])
		}
	}

	return ButtonSample{
		Timestamp: timestamp,
		Levels:    levels,
	}, nil
}
