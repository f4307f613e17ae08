package adc

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/thinety/te328/pkg/config"
)

// MaxReading is the full-scale value of the 10-bit converter.
const MaxReading = 1023

// Source yields one raw conversion result per call, in [0, MaxReading].
type Source interface {
	Read() uint16
}

// Sample is one completed conversion.
type Sample struct {
	Timestamp time.Time
	Raw       uint16
}

// Sampler emulates the auto-triggered ADC of the original board: a
// conversion is started at a fixed rate by the sampling timer, and each
// completed result is appended to a ring of the last Window readings
// and streamed to Samples().
type Sampler struct {
	cfg  *config.ADCConfig
	src  Source
	rate time.Duration

	samples chan Sample
	ring    []uint16
	next    int
	filled  int

	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// NewSampler creates a sampler reading from src.
func NewSampler(src Source, cfg *config.ADCConfig) *Sampler {
	if cfg == nil {
		cfg = &config.Default().ADC
	}
	window := cfg.Window
	if window <= 0 {
		window = config.Default().ADC.Window
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = config.Default().ADC.SampleRate
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Sampler{
		cfg:     cfg,
		src:     src,
		rate:    rate,
		samples: make(chan Sample, window),
		ring:    make([]uint16, window),
		ctx:     ctx,
		cancel:  cancel,
		running: false,
	}
}

// Start begins auto-triggered sampling.
func (s *Sampler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("already running")
	}

	s.running = true
	go s.sampleLoop()

	return nil
}

// Stop halts sampling and closes the samples channel.
func (s *Sampler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cancel()
	s.running = false
	close(s.samples)

	return nil
}

// Samples returns the channel of conversion results.
func (s *Sampler) Samples() <-chan Sample {
	return s.samples
}

// IsRunning returns whether the sampler is currently running.
func (s *Sampler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Window returns a copy of the retained readings, oldest first.
func (s *Sampler) Window() []uint16 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]uint16, 0, s.filled)
	start := 0
	if s.filled == len(s.ring) {
		start = s.next
	}
	for i := 0; i < s.filled; i++ {
		result = append(result, s.ring[(start+i)%len(s.ring)])
	}
	return result
}

// sampleLoop triggers one conversion per sampling period.
func (s *Sampler) sampleLoop() {
	ticker := time.NewTicker(s.rate)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			sample := Sample{
				Timestamp: time.Now(),
				Raw:       s.src.Read(),
			}

			s.mu.Lock()
			if !s.running {
				// Stopped between ticks; the channel is closed
				s.mu.Unlock()
				return
			}
			s.ring[s.next] = sample.Raw
			s.next = (s.next + 1) % len(s.ring)
			if s.filled < len(s.ring) {
				s.filled++
			}

			// Send while holding the lock so Stop cannot close the
			// channel mid-send.
			select {
			case s.samples <- sample:
			default:
				// Channel full, skip
				log.Printf("Samples channel full, dropping sample")
			}
			s.mu.Unlock()
		}
	}
}
