package stereo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahbaxter/guillotine-sub001/internal/curve"
	"github.com/noahbaxter/guillotine-sub001/internal/testutil"
)

// TestMode_StringAndValid tests the enum helpers.
func TestMode_StringAndValid(t *testing.T) {
	assert.Equal(t, "stereo", ModeStereo.String())
	assert.Equal(t, "midside", ModeMidSide.String())
	assert.Equal(t, "mode(9)", Mode(9).String())

	assert.True(t, ModeStereo.Valid())
	assert.True(t, ModeMidSide.Valid())
	assert.False(t, Mode(-1).Valid())
	assert.False(t, Mode(2).Valid())
}

// TestEncodeDecode_RoundTrip tests that Decode exactly inverts Encode.
func TestEncodeDecode_RoundTrip(t *testing.T) {
	left := testutil.Sine(256, 0.013, 0.8)
	right := testutil.Sine(256, 0.031, 0.6)

	wantL := append([]float64{}, left...)
	wantR := append([]float64{}, right...)

	Encode(left, right)
	Decode(left, right)

	for i := range left {
		assert.InDelta(t, wantL[i], left[i], 1e-12, "left sample %d", i)
		assert.InDelta(t, wantR[i], right[i], 1e-12, "right sample %d", i)
	}
}

// TestEncode_Values tests the mid/side definition on known frames.
func TestEncode_Values(t *testing.T) {
	left := []float64{1.0, 1.0, 0.0}
	right := []float64{1.0, -1.0, 0.5}

	Encode(left, right)

	// Mono content lands entirely in mid.
	assert.Equal(t, 1.0, left[0])
	assert.Equal(t, 0.0, right[0])

	// Fully out-of-phase content lands entirely in side.
	assert.Equal(t, 0.0, left[1])
	assert.Equal(t, 1.0, right[1])

	assert.Equal(t, 0.25, left[2])
	assert.Equal(t, -0.25, right[2])
}

// TestApplyLinked_ZeroLink tests that link 0 matches per-channel clipping.
func TestApplyLinked_ZeroLink(t *testing.T) {
	fn := curve.Resolve(curve.Hard, 0)

	a := []float64{0.5, 1.5, -2.0, 0.1}
	b := []float64{-0.2, 0.3, 1.2, -1.8}
	wantA := append([]float64{}, a...)
	wantB := append([]float64{}, b...)
	ApplyMono(fn, wantA, 1.0)
	ApplyMono(fn, wantB, 1.0)

	ApplyLinked(fn, a, b, 1.0, 0.0)

	assert.Equal(t, wantA, a)
	assert.Equal(t, wantB, b)
}

// TestApplyLinked_FullLink tests the shared-detector behavior at link 1.
func TestApplyLinked_FullLink(t *testing.T) {
	fn := curve.Resolve(curve.Hard, 0)

	t.Run("Quiet channel follows the loud one", func(t *testing.T) {
		a := []float64{2.0}
		b := []float64{0.5}

		ApplyLinked(fn, a, b, 1.0, 1.0)

		// Detector sees 2.0, gain is 0.5; both channels get it.
		assert.InDelta(t, 1.0, a[0], 1e-12)
		assert.InDelta(t, 0.25, b[0], 1e-12)
	})

	t.Run("Image ratio preserved", func(t *testing.T) {
		a := []float64{1.6}
		b := []float64{-0.8}

		ApplyLinked(fn, a, b, 1.0, 1.0)

		require.NotZero(t, b[0])
		assert.InDelta(t, -2.0, a[0]/b[0], 1e-12)
	})

	t.Run("Below ceiling untouched", func(t *testing.T) {
		a := []float64{0.4}
		b := []float64{-0.3}

		ApplyLinked(fn, a, b, 1.0, 1.0)

		assert.InDelta(t, 0.4, a[0], 1e-12)
		assert.InDelta(t, -0.3, b[0], 1e-12)
	})
}

// TestApplyLinked_PartialLink tests the linear blend between the two regimes.
func TestApplyLinked_PartialLink(t *testing.T) {
	fn := curve.Resolve(curve.Hard, 0)

	indep := []float64{2.0}
	indepB := []float64{0.5}
	ApplyLinked(fn, indep, indepB, 1.0, 0.0)

	linked := []float64{2.0}
	linkedB := []float64{0.5}
	ApplyLinked(fn, linked, linkedB, 1.0, 1.0)

	half := []float64{2.0}
	halfB := []float64{0.5}
	ApplyLinked(fn, half, halfB, 1.0, 0.5)

	assert.InDelta(t, 0.5*(indep[0]+linked[0]), half[0], 1e-12)
	assert.InDelta(t, 0.5*(indepB[0]+linkedB[0]), halfB[0], 1e-12)
}

// TestApplyLinked_LinkAboveOneClamps tests out-of-range link handling.
func TestApplyLinked_LinkAboveOneClamps(t *testing.T) {
	fn := curve.Resolve(curve.Hard, 0)

	a := []float64{2.0}
	b := []float64{0.5}
	ApplyLinked(fn, a, b, 1.0, 3.0)

	assert.InDelta(t, 1.0, a[0], 1e-12)
	assert.InDelta(t, 0.25, b[0], 1e-12)
}

// TestApplyLinked_Silence tests that silent frames pass with unity gain.
func TestApplyLinked_Silence(t *testing.T) {
	fn := curve.Resolve(curve.Tanh, 0)

	a := make([]float64, 16)
	b := make([]float64, 16)
	ApplyLinked(fn, a, b, 1.0, 1.0)

	for i := range a {
		assert.Zero(t, a[i])
		assert.Zero(t, b[i])
	}
}

// TestApplyLinked_ZeroCeiling tests that the silence contract carries through
// the linked path.
func TestApplyLinked_ZeroCeiling(t *testing.T) {
	fn := curve.Resolve(curve.Hard, 0)

	for _, link := range []float64{0.0, 0.5, 1.0} {
		a := []float64{0.7, -0.2}
		b := []float64{0.1, 0.9}
		ApplyLinked(fn, a, b, 0.0, link)

		for i := range a {
			assert.Zero(t, a[i], "link %v sample %d", link, i)
			assert.Zero(t, b[i], "link %v sample %d", link, i)
		}
	}
}

// TestApplyLinked_Bounded tests that every link setting respects the ceiling
// for a saturating curve.
func TestApplyLinked_Bounded(t *testing.T) {
	fn := curve.Resolve(curve.Cubic, 0)

	for _, link := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		a := testutil.Ramp(101, -3.0, 3.0)
		b := testutil.Sine(101, 0.07, 2.5)
		ApplyLinked(fn, a, b, 0.8, link)

		testutil.AssertAllInRange(t, a, -0.8, 0.8)
		testutil.AssertAllInRange(t, b, -0.8, 0.8)
	}
}

// TestApplyMono tests the single-channel path.
func TestApplyMono(t *testing.T) {
	fn := curve.Resolve(curve.Hard, 0)

	buf := []float64{0.5, 1.5, -2.0, 0.0}
	ApplyMono(fn, buf, 1.0)

	assert.Equal(t, 0.5, buf[0])
	assert.Equal(t, 1.0, buf[1])
	assert.Equal(t, -1.0, buf[2])
	assert.Zero(t, buf[3])
}

// BenchmarkApplyLinked benchmarks the stereo hot path at full link.
func BenchmarkApplyLinked(b *testing.B) {
	fn := curve.Resolve(curve.Quintic, 0)
	a := testutil.Sine(512, 0.01, 1.4)
	bb := testutil.Sine(512, 0.013, 1.1)

	for b.Loop() {
		ApplyLinked(fn, a, bb, 1.0, 1.0)
	}
}
