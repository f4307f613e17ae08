package adc

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/thinety/te328/pkg/config"
)

// ToVoltage converts a raw 10-bit reading to volts against the given
// reference voltage.
func ToVoltage(raw uint16, vref float32) float32 {
	return (float32(raw) / float32(MaxReading)) * vref
}

// FromVoltage converts a voltage to the raw reading the converter
// would produce, clamped to the valid range.
func FromVoltage(v, vref float32) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= vref {
		return MaxReading
	}
	return uint16((v / vref) * float32(MaxReading))
}

// SineSource is a deterministic signal generator used in place of a
// real analog input: a sine wave around a bias voltage.
type SineSource struct {
	bias      float32
	amplitude float32
	period    time.Duration
	vref      float32
	start     time.Time
}

// Ensure SineSource implements Source.
var _ Source = (*SineSource)(nil)

// NewSineSource creates a signal generator from the mock and ADC
// configuration.
func NewSineSource(mock *config.MockConfig, adc *config.ADCConfig) *SineSource {
	return &SineSource{
		bias:      mock.Bias,
		amplitude: mock.Amplitude,
		period:    mock.SignalPeriod,
		vref:      adc.VRef,
		start:     time.Now(),
	}
}

// Read returns the reading for the signal value at the current time.
func (s *SineSource) Read() uint16 {
	elapsed := float32(time.Since(s.start).Seconds())
	phase := 2 * math32.Pi * elapsed / float32(s.period.Seconds())
	v := s.bias + s.amplitude*math32.Sin(phase)
	return FromVoltage(v, s.vref)
}
