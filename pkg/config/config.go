package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Clock  ClockConfig  `yaml:"clock"`
	GPIO   GPIOConfig   `yaml:"gpio"`
	ADC    ADCConfig    `yaml:"adc"`
	Mock   MockConfig   `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ClockConfig contains clock parameters.
type ClockConfig struct {
	Variant     string        `yaml:"variant"`      // "seconds" or "milliseconds"
	RefreshRate time.Duration `yaml:"refresh_rate"` // display render period
}

// GPIOConfig contains pin assignments for the GPIO board backend.
type GPIOConfig struct {
	Buttons []string `yaml:"buttons"` // start/stop, swap mode, reset inputs
	Digit0  []string `yaml:"digit0"`  // seven segment outputs, ones digit
	Digit1  []string `yaml:"digit1"`  // seven segment outputs, tens digit
}

// ADCConfig contains sampler parameters.
type ADCConfig struct {
	SampleRate time.Duration `yaml:"sample_rate"` // conversion auto-trigger period
	Window     int           `yaml:"window"`      // number of samples kept in memory
	VRef       float32       `yaml:"vref"`        // ADC reference voltage (V)
}

// MockConfig contains mock board configuration.
type MockConfig struct {
	PressInterval time.Duration `yaml:"press_interval"` // time between simulated presses
	HoldDuration  time.Duration `yaml:"hold_duration"`  // how long a simulated press is held
	Sequence      []string      `yaml:"sequence"`       // button press order, repeated
	Bias          float32       `yaml:"bias"`           // mock ADC bias voltage (V)
	Amplitude     float32       `yaml:"amplitude"`      // mock ADC signal amplitude (V)
	SignalPeriod  time.Duration `yaml:"signal_period"`  // mock ADC signal period
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0", // Arduino-style board on Linux, "COM3" on Windows
			BaudRate: 115200,
		},
		Clock: ClockConfig{
			Variant:     "seconds",
			RefreshRate: 50 * time.Millisecond,
		},
		GPIO: GPIOConfig{
			Buttons: []string{"GPIO5", "GPIO6", "GPIO13"},
			Digit0:  []string{"GPIO2", "GPIO3", "GPIO4", "GPIO17", "GPIO27", "GPIO22", "GPIO10"},
			Digit1:  []string{"GPIO9", "GPIO11", "GPIO14", "GPIO15", "GPIO18", "GPIO23", "GPIO24"},
		},
		ADC: ADCConfig{
			SampleRate: 8 * time.Millisecond, // 125 Hz
			Window:     20,
			VRef:       3.3,
		},
		Mock: MockConfig{
			PressInterval: 5 * time.Second,
			HoldDuration:  100 * time.Millisecond,
			Sequence:      []string{"start_stop", "swap_mode", "reset"},
			Bias:          1.65,
			Amplitude:     1.0,
			SignalPeriod:  10 * time.Second,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Clock.Variant == "" {
		c.Clock.Variant = def.Clock.Variant
	}
	if c.Clock.RefreshRate == 0 {
		c.Clock.RefreshRate = def.Clock.RefreshRate
	}

	if len(c.GPIO.Buttons) == 0 {
		c.GPIO.Buttons = def.GPIO.Buttons
	}
	if len(c.GPIO.Digit0) == 0 {
		c.GPIO.Digit0 = def.GPIO.Digit0
	}
	if len(c.GPIO.Digit1) == 0 {
		c.GPIO.Digit1 = def.GPIO.Digit1
	}

	if c.ADC.SampleRate == 0 {
		c.ADC.SampleRate = def.ADC.SampleRate
	}
	if c.ADC.Window == 0 {
		c.ADC.Window = def.ADC.Window
	}
	if c.ADC.VRef == 0 {
		c.ADC.VRef = def.ADC.VRef
	}

	if c.Mock.PressInterval == 0 {
		c.Mock.PressInterval = def.Mock.PressInterval
	}
	if c.Mock.HoldDuration == 0 {
		c.Mock.HoldDuration = def.Mock.HoldDuration
	}
	if len(c.Mock.Sequence) == 0 {
		c.Mock.Sequence = def.Mock.Sequence
	}
	if c.Mock.SignalPeriod == 0 {
		c.Mock.SignalPeriod = def.Mock.SignalPeriod
	}
}
