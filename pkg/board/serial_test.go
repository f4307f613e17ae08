package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinety/te328/pkg/button"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    ButtonSample
		wantErr bool
	}{
		{
			name: "all lines high",
			line: "1234567890123,111",
			want: ButtonSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Levels:    button.Levels{true, true, true},
			},
			wantErr: false,
		},
		{
			name: "start/stop pressed",
			line: "1234567890123,011",
			want: ButtonSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Levels:    button.Levels{false, true, true},
			},
			wantErr: false,
		},
		{
			name: "all pressed",
			line: "1234567890123,000",
			want: ButtonSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Levels:    button.Levels{false, false, false},
			},
			wantErr: false,
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "1234567890123",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "1234567890123,111,extra",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric timestamp",
			line:    "abc,111",
			wantErr: true,
		},
		{
			name:    "invalid - levels too short",
			line:    "1234567890123,11",
			wantErr: true,
		},
		{
			name:    "invalid - levels too long",
			line:    "1234567890123,1111",
			wantErr: true,
		},
		{
			name:    "invalid - bad level character",
			line:    "1234567890123,1x1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want.Timestamp.UnixNano(), got.Timestamp.UnixNano())
				assert.Equal(t, tt.want.Levels, got.Levels)
			}
		})
	}
}

func TestNewSerial(t *testing.T) {
	dev := NewSerial("/dev/ttyACM0", 115200, 100)
	assert.NotNil(t, dev)
	assert.Equal(t, "/dev/ttyACM0", dev.port)
	assert.Equal(t, 115200, dev.baudRate)
	assert.Equal(t, 100, dev.bufSize)
	assert.NotNil(t, dev.samples)
	assert.False(t, dev.IsConnected())
}

func TestNewSerial_Defaults(t *testing.T) {
	dev := NewSerial("/dev/ttyACM0", 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
}

func TestSerial_SetDigitsNotConnected(t *testing.T) {
	dev := NewSerial("/dev/ttyACM0", 0, 0)
	err := dev.SetDigits(0x3F, 0x3F)
	assert.Error(t, err)
}
