package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDelayLine_ZeroDelay tests that a zero delay is a pure passthrough.
func TestDelayLine_ZeroDelay(t *testing.T) {
	d := newDelayLine(8)
	for _, x := range []float64{0.1, -0.5, 0.9, 0.0} {
		assert.Equal(t, x, d.process(x, 0))
	}
}

// TestDelayLine_Delay tests the delayed tap against a known sequence.
func TestDelayLine_Delay(t *testing.T) {
	d := newDelayLine(16)
	in := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	const delay = 3

	for i, x := range in {
		out := d.process(x, delay)
		if i < delay {
			assert.Zero(t, out, "sample %d should still read silence", i)
		} else {
			assert.Equal(t, in[i-delay], out, "sample %d", i)
		}
	}
}

// TestDelayLine_WrapAround tests the tap across several ring wraps.
func TestDelayLine_WrapAround(t *testing.T) {
	d := newDelayLine(4)
	const delay = 2

	for i := range 40 {
		x := float64(i)
		out := d.process(x, delay)
		if i >= delay {
			assert.Equal(t, float64(i-delay), out, "sample %d", i)
		}
	}
}

// TestDelayLine_DelayBeyondCapacityClamps tests the capacity guard.
func TestDelayLine_DelayBeyondCapacityClamps(t *testing.T) {
	d := newDelayLine(4)

	// Requesting more delay than the line holds degrades to capacity-1
	// rather than indexing out of range.
	for i := range 10 {
		out := d.process(float64(i), 100)
		if i >= 3 {
			assert.Equal(t, float64(i-3), out, "sample %d", i)
		}
	}
}

// TestDelayLine_Reset tests that reset restores silence.
func TestDelayLine_Reset(t *testing.T) {
	d := newDelayLine(8)
	for i := range 8 {
		d.process(float64(i+1), 4)
	}

	d.reset()

	for i := range 4 {
		assert.Zero(t, d.process(0.5, 4), "sample %d after reset", i)
	}
}
