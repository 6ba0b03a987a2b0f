package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noahbaxter/guillotine-sub001/internal/testutil"
)

// TestBesselI0 tests BesselI0 against known values.
func TestBesselI0(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		expected  float64
		tolerance float64
	}{
		{"Zero", 0.0, 1.0, 1e-15},
		{"Small positive", 0.5, 1.063483344, 1e-7},
		{"One", 1.0, 1.266065848, 1e-7},
		{"Two", 2.0, 2.279585307, 1e-7},
		{"Boundary 3.75", 3.75, 9.118945994, 1e-7},
		{"Five", 5.0, 27.23987183, 1e-7},
		{"Ten", 10.0, 2815.716628, 1e-6},
		{"Small negative", -0.5, 1.063483344, 1e-7},
		{"Negative one", -1.0, 1.266065848, 1e-7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BesselI0(tt.x)
			testutil.AssertRelativeError(t, tt.expected, result, tt.tolerance)
		})
	}
}

// TestBesselI0_Monotonic tests I₀(x) is monotonically increasing for x > 0.
func TestBesselI0_Monotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.1; x < 10.0; x += 0.1 {
		curr := BesselI0(x)
		assert.Greater(t, curr, prev,
			"BesselI0 not monotonically increasing at x=%v: %v <= %v", x, curr, prev)
		prev = curr
	}
}

// TestKaiserBeta tests the β formula in all three attenuation regimes.
func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		name        string
		attenuation float64
		expected    float64
		tolerance   float64
	}{
		{"Below threshold", 10.0, 0.0, 1e-15},
		{"At low boundary", 21.0, 0.0, 1e-10},
		{"Medium 30 dB", 30.0, 0.5842*2.4082246853 + 0.07886*9.0, 1e-4},
		{"High 60 dB", 60.0, 0.1102 * 51.3, 1e-10},
		{"High 69 dB", 69.0, 0.1102 * 60.3, 1e-10},
		{"High 96 dB", 96.0, 0.1102 * 87.3, 1e-10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, KaiserBeta(tt.attenuation), tt.tolerance)
		})
	}
}

// TestKaiserBeta_Monotonic tests that more attenuation never shrinks β.
func TestKaiserBeta_Monotonic(t *testing.T) {
	prev := KaiserBeta(0)
	for att := 1.0; att <= 120.0; att += 1.0 {
		curr := KaiserBeta(att)
		assert.GreaterOrEqual(t, curr, prev, "KaiserBeta decreased at %v dB", att)
		prev = curr
	}
}

// TestKaiserAttenuation_RoundTrip tests that KaiserAttenuation inverts
// KaiserBeta in the high-attenuation regime.
func TestKaiserAttenuation_RoundTrip(t *testing.T) {
	for _, att := range []float64{55.0, 69.0, 80.0, 96.0, 120.0} {
		beta := KaiserBeta(att)
		back := KaiserAttenuation(beta)
		assert.InDelta(t, att, back, 1e-9, "round trip failed for %v dB", att)
	}
}

// TestKaiserAttenuation_TinyBeta tests the zero floor for negligible β.
func TestKaiserAttenuation_TinyBeta(t *testing.T) {
	assert.Equal(t, 0.0, KaiserAttenuation(0.05))
}

// TestEstimateFilterLength tests the Kaiser length formula properties.
func TestEstimateFilterLength(t *testing.T) {
	t.Run("Always odd", func(t *testing.T) {
		for _, att := range []float64{40.0, 69.0, 96.0} {
			for _, bw := range []float64{0.01, 0.05, 0.1} {
				taps := EstimateFilterLength(att, bw)
				assert.Equal(t, 1, taps%2, "length %d not odd for att=%v bw=%v", taps, att, bw)
			}
		}
	})

	t.Run("Narrower transition needs more taps", func(t *testing.T) {
		wide := EstimateFilterLength(69.0, 0.1)
		narrow := EstimateFilterLength(69.0, 0.01)
		assert.Greater(t, narrow, wide)
	})

	t.Run("Zero bandwidth falls back to default", func(t *testing.T) {
		taps := EstimateFilterLength(69.0, 0)
		assert.GreaterOrEqual(t, taps, 3)
		assert.LessOrEqual(t, taps, 8191)
	})
}

// BenchmarkBesselI0 benchmarks the Bessel evaluation used per window sample.
func BenchmarkBesselI0(b *testing.B) {
	x := 6.7
	for b.Loop() {
		_ = BesselI0(x)
	}
}
