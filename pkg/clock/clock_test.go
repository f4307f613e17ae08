package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PowerOnState(t *testing.T) {
	clk := New(Seconds)

	snap := clk.Snapshot()
	assert.Equal(t, uint16(0), snap.Time)
	assert.Equal(t, int8(1), snap.Step)
	assert.True(t, snap.Running)
	assert.True(t, snap.Ascending)
	assert.Equal(t, uint16(0), snap.Counter)
}

func TestTick_Ascending(t *testing.T) {
	clk := New(Seconds)

	// Every value of the counter advances to (time+1) mod 60
	for want := uint16(1); want < 60; want++ {
		clk.Tick()
		assert.Equal(t, want, clk.Snapshot().Time)
	}

	// Ascending wrap: 59 -> 0
	clk.Tick()
	assert.Equal(t, uint16(0), clk.Snapshot().Time)
}

func TestTick_Descending(t *testing.T) {
	clk := New(Seconds)
	clk.Reverse()

	// Descending wrap: 0 -> 59
	clk.Tick()
	assert.Equal(t, uint16(59), clk.Snapshot().Time)

	// Then every value steps down to (time-1+60) mod 60
	for want := uint16(58); ; want-- {
		clk.Tick()
		assert.Equal(t, want, clk.Snapshot().Time)
		if want == 0 {
			break
		}
	}
}

func TestTick_MillisecondsWrap(t *testing.T) {
	clk := New(Milliseconds)

	// Walk up to the boundary
	for i := 0; i < 59999; i++ {
		clk.Tick()
	}
	require.Equal(t, uint16(59999), clk.Snapshot().Time)

	clk.Tick()
	assert.Equal(t, uint16(0), clk.Snapshot().Time)

	clk.Reverse()
	clk.Tick()
	assert.Equal(t, uint16(59999), clk.Snapshot().Time)
}

func TestStartStop_FreezesTime(t *testing.T) {
	clk := New(Seconds)
	clk.Tick()
	clk.Tick()
	require.Equal(t, uint16(2), clk.Snapshot().Time)

	clk.StartStop()
	snap := clk.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, uint16(2), snap.Time, "stopping must not alter time")

	// Ticks while stopped change nothing
	clk.Tick()
	clk.Tick()
	assert.Equal(t, uint16(2), clk.Snapshot().Time)

	clk.StartStop()
	snap = clk.Snapshot()
	assert.True(t, snap.Running)
	assert.Equal(t, uint16(2), snap.Time)

	clk.Tick()
	assert.Equal(t, uint16(3), clk.Snapshot().Time)
}

func TestReverse_FlipsStepAndDirection(t *testing.T) {
	clk := New(Seconds)

	clk.Reverse()
	snap := clk.Snapshot()
	assert.Equal(t, int8(-1), snap.Step)
	assert.False(t, snap.Ascending)

	clk.Reverse()
	snap = clk.Snapshot()
	assert.Equal(t, int8(1), snap.Step)
	assert.True(t, snap.Ascending)
}

func TestReverse_RoundTripRestoresCounter(t *testing.T) {
	clk := New(Seconds)
	clk.counter.Advance(12345)
	before := clk.Snapshot()

	// Reversing twice with no ticks in between must restore the
	// hardware counter and the step sign.
	clk.Reverse()
	clk.Reverse()

	after := clk.Snapshot()
	assert.Equal(t, before.Counter, after.Counter)
	assert.Equal(t, before.Step, after.Step)
	assert.Equal(t, before.Ascending, after.Ascending)
}

func TestReverse_RemapPreservesDistance(t *testing.T) {
	clk := New(Seconds)

	// 2 ticks from compare match...
	clk.counter.Advance(uint32(secondsTop) - 2)
	require.Equal(t, uint16(secondsTop-2), clk.Snapshot().Counter)

	// ...becomes 2 ticks past zero when reversed.
	clk.Reverse()
	assert.Equal(t, uint16(2), clk.Snapshot().Counter)
}

func TestReset(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*Clock)
	}{
		{
			name:    "while running ascending",
			prepare: func(c *Clock) { c.Tick(); c.Tick(); c.counter.Advance(100) },
		},
		{
			name:    "while stopped",
			prepare: func(c *Clock) { c.Tick(); c.StartStop() },
		},
		{
			name:    "while descending",
			prepare: func(c *Clock) { c.Reverse(); c.Tick() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := New(Seconds)
			tt.prepare(clk)

			clk.Reset()

			snap := clk.Snapshot()
			assert.Equal(t, uint16(0), snap.Time)
			assert.Equal(t, uint16(0), snap.Counter)
		})
	}
}

func TestVariant_Parse(t *testing.T) {
	v, err := Parse("seconds")
	require.NoError(t, err)
	assert.Equal(t, Seconds, v)

	v, err = Parse("milliseconds")
	require.NoError(t, err)
	assert.Equal(t, Milliseconds, v)

	_, err = Parse("hours")
	assert.Error(t, err)
}

func TestVariant_Parameters(t *testing.T) {
	assert.Equal(t, uint16(60), Seconds.Limit())
	assert.Equal(t, uint16(15624), Seconds.Top())
	assert.Equal(t, uint16(60000), Milliseconds.Limit())
	assert.Equal(t, uint16(124), Milliseconds.Top())
}

func TestVariant_DisplayValue(t *testing.T) {
	assert.Equal(t, uint8(7), Seconds.DisplayValue(7))
	assert.Equal(t, uint8(59), Seconds.DisplayValue(59))
	assert.Equal(t, uint8(0), Milliseconds.DisplayValue(999))
	assert.Equal(t, uint8(7), Milliseconds.DisplayValue(7500))
	assert.Equal(t, uint8(59), Milliseconds.DisplayValue(59999))
}
