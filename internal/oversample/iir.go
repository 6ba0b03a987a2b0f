package oversample

import (
	"fmt"

	"github.com/noahbaxter/guillotine-sub001/internal/filter"
)

// Minimum-phase stage designs by cascade position: total allpass section
// count and normalized transition bandwidth. The first stage does the real
// work at the edge of the audible band; later stages see increasingly empty
// spectra and relax. Group delay is derived from the coefficients rather than
// assumed, and lands between 2 and 5 base-rate samples round trip across all
// factors.
var iirStageSpecs = []struct {
	numCoeffs  int
	transition float64
}{
	{6, 0.04},
	{3, 0.15},
	{2, 0.22},
	{2, 0.25},
	{2, 0.25},
}

// allpassChain is a cascade of first-order allpass sections
// (a + z⁻¹)/(1 + a·z⁻¹) in transposed direct form.
type allpassChain struct {
	coeffs []float64
	x1     []float64
	y1     []float64
}

func newAllpassChain(coeffs []float64) *allpassChain {
	return &allpassChain{
		coeffs: coeffs,
		x1:     make([]float64, len(coeffs)),
		y1:     make([]float64, len(coeffs)),
	}
}

func (c *allpassChain) process(x float64) float64 {
	for i, a := range c.coeffs {
		y := a*(x-c.y1[i]) + c.x1[i]
		c.x1[i] = x
		c.y1[i] = y
		x = y
	}
	return x
}

func (c *allpassChain) reset() {
	clear(c.x1)
	clear(c.y1)
}

// iirStage is one minimum-phase 2x converter built from a two-path polyphase
// allpass halfband: branch 0 feeds even output phases, branch 1 odd phases
// and carries the structural unit delay. Up and down directions keep
// independent branch state.
type iirStage struct {
	design *filter.AllpassHalfband

	up0, up1     *allpassChain
	down0, down1 *allpassChain
}

// newIIRStage builds the minimum-phase stage for cascade position pos.
func newIIRStage(pos int) (*iirStage, error) {
	if pos < 0 || pos >= len(iirStageSpecs) {
		return nil, fmt.Errorf("no minimum-phase design for cascade position %d", pos)
	}
	spec := iirStageSpecs[pos]

	hb, err := filter.DesignAllpassHalfband(spec.numCoeffs, spec.transition)
	if err != nil {
		return nil, fmt.Errorf("allpass halfband design: %w", err)
	}

	return &iirStage{
		design: hb,
		up0:    newAllpassChain(hb.Branch0),
		up1:    newAllpassChain(hb.Branch1),
		down0:  newAllpassChain(hb.Branch0),
		down1:  newAllpassChain(hb.Branch1),
	}, nil
}

func (s *iirStage) Upsample(dst, src []float64) []float64 {
	for i, x := range src {
		dst[2*i] = s.up0.process(x)
		dst[2*i+1] = s.up1.process(x)
	}
	return dst[:2*len(src)]
}

func (s *iirStage) Downsample(dst, src []float64) []float64 {
	half := len(src) / 2
	for n := range half {
		// Branch 1 takes the earlier sample of the pair; that is the z⁻¹ of
		// the polyphase decomposition.
		even := s.down0.process(src[2*n+1])
		odd := s.down1.process(src[2*n])
		dst[n] = (even + odd) * 0.5
	}
	return dst[:half]
}

func (s *iirStage) Reset() {
	s.up0.reset()
	s.up1.reset()
	s.down0.reset()
	s.down1.reset()
}

// LatencyHighRate returns the DC group delay derived from the allpass
// coefficients. Historically this delay was left out of the latency report;
// it is folded in here so minimum-phase latency is reported honestly.
func (s *iirStage) LatencyHighRate() float64 {
	return s.design.GroupDelayDC()
}
