package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noahbaxter/guillotine-sub001/internal/testutil"
)

// TestKaiserWindow_Symmetry tests that the window is symmetric.
func TestKaiserWindow_Symmetry(t *testing.T) {
	for _, length := range []int{5, 65, 73, 111} {
		window := KaiserWindow(length, 6.0)
		require.Len(t, window, length)
		testutil.AssertSymmetric(t, window, testutil.DefaultTolerance)
	}
}

// TestKaiserWindow_CenterIsMax tests that the window peaks at its center.
func TestKaiserWindow_CenterIsMax(t *testing.T) {
	window := KaiserWindow(111, 6.7)
	testutil.AssertCenterIsMax(t, window)
	assert.InDelta(t, 1.0, window[len(window)/2], 1e-12, "center tap should be unity")
}

// TestKaiserWindow_ZeroBeta tests that β = 0 degenerates to rectangular.
func TestKaiserWindow_ZeroBeta(t *testing.T) {
	window := KaiserWindow(33, 0.0)
	for i, w := range window {
		assert.InDelta(t, 1.0, w, 1e-12, "rectangular window tap %d", i)
	}
}

// TestKaiserWindow_EdgeCases tests degenerate lengths.
func TestKaiserWindow_EdgeCases(t *testing.T) {
	assert.Empty(t, KaiserWindow(0, 6.0))
	assert.Equal(t, []float64{1.0}, KaiserWindow(1, 6.0))
}

// TestKaiserWindow_Range tests that all taps lie in (0, 1].
func TestKaiserWindow_Range(t *testing.T) {
	window := KaiserWindow(81, 8.0)
	testutil.AssertAllInRange(t, window, 0.0, 1.0)
	testutil.AssertNoNaNOrInf(t, window)
}

// TestLowPassParams_Validate tests parameter validation.
func TestLowPassParams_Validate(t *testing.T) {
	valid := LowPassParams{NumTaps: 111, CutoffFreq: 0.25, Attenuation: 69.0, Gain: 2.0}

	tests := []struct {
		name   string
		mutate func(*LowPassParams)
		errstr string
	}{
		{"Valid", func(p *LowPassParams) {}, ""},
		{"Too short", func(p *LowPassParams) { p.NumTaps = 2 }, "filter too short"},
		{"Too long", func(p *LowPassParams) { p.NumTaps = 9000 }, "filter too long"},
		{"Zero cutoff", func(p *LowPassParams) { p.CutoffFreq = 0 }, "invalid cutoff"},
		{"Nyquist cutoff", func(p *LowPassParams) { p.CutoffFreq = 0.5 }, "invalid cutoff"},
		{"Negative attenuation", func(p *LowPassParams) { p.Attenuation = -1 }, "invalid attenuation"},
		{"Zero gain", func(p *LowPassParams) { p.Gain = 0 }, "invalid gain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.errstr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errstr)
			}
		})
	}
}

// TestDesignLowPass_DCGain tests that the designed filter hits its target DC gain.
func TestDesignLowPass_DCGain(t *testing.T) {
	for _, gain := range []float64{1.0, 2.0} {
		coeffs, err := DesignLowPass(LowPassParams{
			NumTaps:     73,
			CutoffFreq:  0.25,
			Attenuation: 69.0,
			Gain:        gain,
		})
		require.NoError(t, err)
		testutil.AssertDCGain(t, coeffs, gain, 1e-9)
	}
}

// TestDesignLowPass_Symmetry tests the linear-phase (symmetric) property.
func TestDesignLowPass_Symmetry(t *testing.T) {
	for _, taps := range []int{65, 73, 81, 111} {
		coeffs, err := DesignLowPass(LowPassParams{
			NumTaps:     taps,
			CutoffFreq:  0.25,
			Attenuation: 69.0,
			Gain:        1.0,
		})
		require.NoError(t, err)
		require.Len(t, coeffs, taps)
		testutil.AssertSymmetric(t, coeffs, testutil.DefaultTolerance)
		testutil.AssertCenterIsMax(t, coeffs)
	}
}

// TestDesignLowPass_InvalidParams tests that validation errors propagate.
func TestDesignLowPass_InvalidParams(t *testing.T) {
	_, err := DesignLowPass(LowPassParams{NumTaps: 1, CutoffFreq: 0.25, Attenuation: 69.0, Gain: 1.0})
	assert.Error(t, err)
}

// BenchmarkDesignLowPass benchmarks the design path used during Prepare.
func BenchmarkDesignLowPass(b *testing.B) {
	params := LowPassParams{NumTaps: 111, CutoffFreq: 0.25, Attenuation: 69.0, Gain: 2.0}
	for b.Loop() {
		_, _ = DesignLowPass(params)
	}
}
