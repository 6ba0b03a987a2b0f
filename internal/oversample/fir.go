package oversample

import (
	"fmt"

	"github.com/tphakala/simd/f64"

	"github.com/noahbaxter/guillotine-sub001/internal/filter"
)

// Linear-phase stage tap counts by cascade position. The first stage guards
// the audible band and needs the tightest transition; later stages run where
// the spectrum is already sparse and can be shorter. The resulting
// input-referred round-trip latencies are 55 (2x), 73 (4x), 82 (8x),
// 87 (16x) and 89 (32x) samples.
var firStageTaps = []int{111, 73, 73, 81, 65}

const (
	// firAttenuation is the stopband attenuation target handed to the Kaiser
	// design for every linear-phase stage.
	firAttenuation = 69.0

	// firCutoff is the normalized cutoff at each stage's doubled rate.
	firCutoff = 0.25

	// interpolationGain compensates the energy lost to zero insertion in the
	// upsampling branch; the decimating branch runs at unity.
	interpolationGain = 2.0
	decimationGain    = 1.0
)

// firStage is one linear-phase 2x converter: a polyphase two-phase FIR
// interpolator on the way up and the matching anti-alias FIR ahead of the
// decimator on the way down. Up and down directions keep independent
// histories.
type firStage struct {
	// Reversed polyphase interpolation taps: phase 0 produces even output
	// samples, phase 1 odd ones. Both padded to equal length.
	upPhase0Rev []float64
	upPhase1Rev []float64

	// Reversed decimation taps (full prototype, unity gain).
	downTapsRev []float64

	// Filter histories: last len(taps)-1 input samples of each direction.
	upHist   []float64
	downHist []float64

	// Extended input scratch (history + block), sized at construction.
	upExt   []float64
	downExt []float64
}

// newFIRStage builds the linear-phase stage for cascade position pos
// (0-based), sized for at most maxIn input samples per block.
func newFIRStage(pos, maxIn int) (*firStage, error) {
	if pos < 0 || pos >= len(firStageTaps) {
		return nil, fmt.Errorf("no linear-phase design for cascade position %d", pos)
	}
	numTaps := firStageTaps[pos]

	upProto, err := filter.DesignLowPass(filter.LowPassParams{
		NumTaps:     numTaps,
		CutoffFreq:  firCutoff,
		Attenuation: firAttenuation,
		Gain:        interpolationGain,
	})
	if err != nil {
		return nil, fmt.Errorf("interpolation filter: %w", err)
	}

	downProto, err := filter.DesignLowPass(filter.LowPassParams{
		NumTaps:     numTaps,
		CutoffFreq:  firCutoff,
		Attenuation: firAttenuation,
		Gain:        decimationGain,
	})
	if err != nil {
		return nil, fmt.Errorf("decimation filter: %w", err)
	}

	s := &firStage{}

	// Polyphase split of the interpolation prototype: output sample 2n takes
	// the even-indexed taps against the input history, 2n+1 the odd-indexed
	// ones. Phase 1 is one tap short for odd prototypes; pad so both phases
	// share one history window.
	phaseLen := (numTaps + 1) / 2
	phase0 := make([]float64, phaseLen)
	phase1 := make([]float64, phaseLen)
	for j := range phaseLen {
		phase0[j] = upProto[2*j]
		if 2*j+1 < numTaps {
			phase1[j] = upProto[2*j+1]
		}
	}
	s.upPhase0Rev = reverse(phase0)
	s.upPhase1Rev = reverse(phase1)
	s.downTapsRev = reverse(downProto)

	s.upHist = make([]float64, phaseLen-1)
	s.downHist = make([]float64, numTaps-1)
	s.upExt = make([]float64, phaseLen-1+maxIn)
	s.downExt = make([]float64, numTaps-1+2*maxIn)

	return s, nil
}

func reverse(coeffs []float64) []float64 {
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[len(coeffs)-1-i] = c
	}
	return out
}

func (s *firStage) Upsample(dst, src []float64) []float64 {
	phaseLen := len(s.upPhase0Rev)
	hist := phaseLen - 1

	ext := s.upExt[:hist+len(src)]
	copy(ext, s.upHist)
	copy(ext[hist:], src)

	for i := range src {
		window := ext[i : i+phaseLen]
		dst[2*i] = f64.DotProductUnsafe(window, s.upPhase0Rev)
		dst[2*i+1] = f64.DotProductUnsafe(window, s.upPhase1Rev)
	}

	copy(s.upHist, ext[len(src):])
	return dst[:2*len(src)]
}

func (s *firStage) Downsample(dst, src []float64) []float64 {
	numTaps := len(s.downTapsRev)
	hist := numTaps - 1

	ext := s.downExt[:hist+len(src)]
	copy(ext, s.downHist)
	copy(ext[hist:], src)

	half := len(src) / 2
	for n := range half {
		dst[n] = f64.DotProductUnsafe(ext[2*n:2*n+numTaps], s.downTapsRev)
	}

	copy(s.downHist, ext[len(ext)-hist:])
	return dst[:half]
}

func (s *firStage) Reset() {
	clear(s.upHist)
	clear(s.downHist)
}

// LatencyHighRate returns the symmetric FIR delay (N-1)/2 at the doubled rate.
func (s *firStage) LatencyHighRate() float64 {
	return float64(len(s.downTapsRev)-1) / 2.0
}
