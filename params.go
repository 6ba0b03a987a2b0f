package clipper

import (
	"fmt"
	"math"

	"github.com/noahbaxter/guillotine-sub001/internal/curve"
	"github.com/noahbaxter/guillotine-sub001/internal/mathutil"
	"github.com/noahbaxter/guillotine-sub001/internal/oversample"
	"github.com/noahbaxter/guillotine-sub001/internal/stereo"
)

// ParamID names a host-automatable parameter. Every parameter travels across
// the host boundary as a normalized value in [0, 1] and is mapped internally
// to its engineering range; enumerated parameters snap to the nearest choice
// and booleans switch at 0.5.
type ParamID int

const (
	// ParamInputGain is the pre-chain gain, -24..+24 dB.
	ParamInputGain ParamID = iota

	// ParamOutputGain is the post-chain gain, -24..+24 dB.
	ParamOutputGain

	// ParamCeiling is the clip threshold, -30..0 dBFS.
	ParamCeiling

	// ParamCurve selects the shaping curve.
	ParamCurve

	// ParamExponent is the curve exponent for the T2 and Knee shapes, 1..4.
	ParamExponent

	// ParamOversampling selects the factor from {1, 2, 4, 8, 16, 32}.
	ParamOversampling

	// ParamFilterType selects minimum-phase (< 0.5) or linear-phase (>= 0.5).
	ParamFilterType

	// ParamChannelMode selects stereo (< 0.5) or mid/side (>= 0.5).
	ParamChannelMode

	// ParamStereoLink blends independent (0) and linked (1) channel clipping.
	ParamStereoLink

	// ParamBypass freezes the main chain at >= 0.5.
	ParamBypass

	// ParamDeltaMonitor outputs processed-minus-dry at >= 0.5.
	ParamDeltaMonitor

	numParams
)

// Gain and ceiling mapping ranges, dB.
const (
	gainRangeDB   = 24.0 // gains span ±gainRangeDB
	ceilingMinDB  = -30.0
	boolThreshold = 0.5

	// Exponent engineering range; 4 gives the widest knee, 1 a hard clip.
	exponentMin = 1.0
	exponentMax = 4.0
)

// ParamInfo describes one parameter for the host.
type ParamInfo struct {
	ID      ParamID
	Name    string
	Unit    string
	Default float64 // normalized
	Steps   int     // 0 for continuous, otherwise the discrete choice count
}

// paramInfos is indexed by ParamID.
var paramInfos = [numParams]ParamInfo{
	{ParamInputGain, "Input Gain", "dB", 0.5, 0},
	{ParamOutputGain, "Output Gain", "dB", 0.5, 0},
	{ParamCeiling, "Ceiling", "dB", 1.0, 0},
	{ParamCurve, "Curve", "", 0, curve.Count()},
	{ParamExponent, "Sharpness", "", 1.0 / 3.0, 0},
	{ParamOversampling, "Oversampling", "x", 2.0 / 5.0, 6},
	{ParamFilterType, "Filter", "", 0, 2},
	{ParamChannelMode, "Mode", "", 0, 2},
	{ParamStereoLink, "Link", "", 1.0, 0},
	{ParamBypass, "Bypass", "", 0, 2},
	{ParamDeltaMonitor, "Delta", "", 0, 2},
}

// ParamInfos returns descriptors for every automatable parameter.
func ParamInfos() []ParamInfo {
	out := make([]ParamInfo, numParams)
	copy(out, paramInfos[:])
	return out
}

// String returns the parameter's display name.
func (id ParamID) String() string {
	if id < 0 || id >= numParams {
		return fmt.Sprintf("param(%d)", int(id))
	}
	return paramInfos[id].Name
}

// SetParamNormalized maps a normalized value to its engineering range and
// installs it. Values outside [0, 1] are clamped, matching host behavior.
// Control thread only. On error (only possible for configuration-changing
// parameters) the previous value is retained.
func (c *Clipper) SetParamNormalized(id ParamID, v float64) error {
	if id < 0 || id >= numParams {
		return fmt.Errorf("%w: unknown parameter %d", ErrInvalidConfig, int(id))
	}
	v = mathutil.Clamp(v, 0, 1)

	prev := c.norm[id]
	c.norm[id] = v
	if err := c.eng.SetParams(paramsFromNormalized(c.norm)); err != nil {
		c.norm[id] = prev
		return err
	}
	return nil
}

// ParamNormalized returns the current normalized value of a parameter.
func (c *Clipper) ParamNormalized(id ParamID) float64 {
	if id < 0 || id >= numParams {
		return 0
	}
	return c.norm[id]
}

func defaultNormalized() [numParams]float64 {
	var norm [numParams]float64
	for i, info := range paramInfos {
		norm[i] = info.Default
	}
	return norm
}

// stepped snaps a normalized value to one of count choices and returns the
// choice index.
func stepped(v float64, count int) int {
	idx := int(math.Round(v * float64(count-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= count {
		idx = count - 1
	}
	return idx
}

func paramsFromNormalized(norm [numParams]float64) Params {
	factors := oversample.Factors()

	p := Params{
		Curve:        curve.Type(stepped(norm[ParamCurve], curve.Count())),
		Exponent:     exponentMin + norm[ParamExponent]*(exponentMax-exponentMin),
		Ceiling:      mathutil.DBToLinear(ceilingMinDB * (1 - norm[ParamCeiling])),
		Factor:       factors[stepped(norm[ParamOversampling], len(factors))],
		Filter:       oversample.MinimumPhase,
		ChannelMode:  stereo.ModeStereo,
		StereoLink:   norm[ParamStereoLink],
		InputGain:    mathutil.DBToLinear(gainRangeDB * (2*norm[ParamInputGain] - 1)),
		OutputGain:   mathutil.DBToLinear(gainRangeDB * (2*norm[ParamOutputGain] - 1)),
		Bypass:       norm[ParamBypass] >= boolThreshold,
		DeltaMonitor: norm[ParamDeltaMonitor] >= boolThreshold,
	}
	if norm[ParamFilterType] >= boolThreshold {
		p.Filter = oversample.LinearPhase
	}
	if norm[ParamChannelMode] >= boolThreshold {
		p.ChannelMode = stereo.ModeMidSide
	}
	return p
}

func normalizedFromParams(p Params) [numParams]float64 {
	var norm [numParams]float64

	norm[ParamInputGain] = mathutil.Clamp((mathutil.LinearToDB(p.InputGain)/gainRangeDB+1)/2, 0, 1)
	norm[ParamOutputGain] = mathutil.Clamp((mathutil.LinearToDB(p.OutputGain)/gainRangeDB+1)/2, 0, 1)
	norm[ParamCeiling] = mathutil.Clamp(1-mathutil.LinearToDB(p.Ceiling)/ceilingMinDB, 0, 1)
	norm[ParamCurve] = float64(p.Curve) / float64(curve.Count()-1)
	norm[ParamExponent] = mathutil.Clamp((p.Exponent-exponentMin)/(exponentMax-exponentMin), 0, 1)
	norm[ParamStereoLink] = mathutil.Clamp(p.StereoLink, 0, 1)

	factors := oversample.Factors()
	for i, f := range factors {
		if f == p.Factor {
			norm[ParamOversampling] = float64(i) / float64(len(factors)-1)
			break
		}
	}

	if p.Filter == oversample.LinearPhase {
		norm[ParamFilterType] = 1
	}
	if p.ChannelMode == stereo.ModeMidSide {
		norm[ParamChannelMode] = 1
	}
	if p.Bypass {
		norm[ParamBypass] = 1
	}
	if p.DeltaMonitor {
		norm[ParamDeltaMonitor] = 1
	}

	return norm
}
