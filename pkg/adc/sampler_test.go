package adc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinety/te328/pkg/config"
)

// rampSource returns consecutive readings, wrapping at full scale.
type rampSource struct {
	n uint16
}

func (r *rampSource) Read() uint16 {
	v := r.n
	r.n = (r.n + 1) % (MaxReading + 1)
	return v
}

func testADCConfig() *config.ADCConfig {
	return &config.ADCConfig{
		SampleRate: time.Millisecond,
		Window:     5,
		VRef:       3.3,
	}
}

func TestSampler_StreamsSamples(t *testing.T) {
	sampler := NewSampler(&rampSource{}, testADCConfig())
	require.NoError(t, sampler.Start())
	defer sampler.Stop()

	assert.True(t, sampler.IsRunning())

	var got []uint16
	timeout := time.After(2 * time.Second)
	for len(got) < 8 {
		select {
		case s := <-sampler.Samples():
			got = append(got, s.Raw)
			assert.False(t, s.Timestamp.IsZero())
		case <-timeout:
			t.Fatal("timed out waiting for samples")
		}
	}

	// The ramp source produces increasing readings; a slow consumer
	// may miss dropped ones but never sees them reordered
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestSampler_WindowKeepsLatest(t *testing.T) {
	sampler := NewSampler(&rampSource{}, testADCConfig())
	require.NoError(t, sampler.Start())

	// Drain well past the window size, then stop
	received := 0
	timeout := time.After(2 * time.Second)
	for received < 12 {
		select {
		case <-sampler.Samples():
			received++
		case <-timeout:
			t.Fatal("timed out waiting for samples")
		}
	}
	require.NoError(t, sampler.Stop())

	window := sampler.Window()
	require.NotEmpty(t, window)
	assert.LessOrEqual(t, len(window), 5)

	// Oldest first, consecutive
	for i := 1; i < len(window); i++ {
		assert.Equal(t, window[i-1]+1, window[i])
	}
}

func TestSampler_StartTwice(t *testing.T) {
	sampler := NewSampler(&rampSource{}, testADCConfig())
	require.NoError(t, sampler.Start())
	defer sampler.Stop()

	assert.Error(t, sampler.Start())
}

// TestSampler_GracefulShutdown tests that the sampler closes its
// samples channel when Stop() is called.
func TestSampler_GracefulShutdown(t *testing.T) {
	sampler := NewSampler(&rampSource{}, testADCConfig())
	require.NoError(t, sampler.Start())

	samples := sampler.Samples()

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range samples {
			received++
			if received >= 3 {
				// Got enough samples, now stop the sampler
				sampler.Stop()
			}
		}
	}()

	select {
	case <-done:
		// Channel closed successfully
	case <-time.After(5 * time.Second):
		t.Fatal("Samples channel did not close within timeout")
	}

	assert.GreaterOrEqual(t, received, 3, "Should receive samples before channel closes")

	// Verify channel is closed
	_, ok := <-samples
	assert.False(t, ok, "Channel should be closed")
	assert.False(t, sampler.IsRunning())

	// Stopping again is a no-op
	assert.NoError(t, sampler.Stop())
}
