package clipper

import (
	"fmt"

	"github.com/noahbaxter/guillotine-sub001/internal/curve"
	"github.com/noahbaxter/guillotine-sub001/internal/engine"
	"github.com/noahbaxter/guillotine-sub001/internal/oversample"
	"github.com/noahbaxter/guillotine-sub001/internal/stereo"
)

// CurveType selects the shaping curve.
type CurveType = curve.Type

// Available shaping curves, from hardest to softest knee (TSquared and Knee
// take the curve exponent as a free shape parameter).
const (
	CurveHard     = curve.Hard
	CurveTanh     = curve.Tanh
	CurveQuintic  = curve.Quintic
	CurveCubic    = curve.Cubic
	CurveArctan   = curve.Arctan
	CurveTSquared = curve.TSquared
	CurveKnee     = curve.Knee
)

// FilterType selects the oversampling filter family.
type FilterType = oversample.FilterType

// Oversampling filter families.
const (
	FilterMinimumPhase = oversample.MinimumPhase
	FilterLinearPhase  = oversample.LinearPhase
)

// ChannelMode selects how a stereo pair is presented to the curve stage.
type ChannelMode = stereo.Mode

// Channel modes.
const (
	ModeStereo  = stereo.ModeStereo
	ModeMidSide = stereo.ModeMidSide
)

// Params is the engine parameter snapshot, in engineering units.
type Params = engine.Params

// Meters exposes block peak/RMS levels of the input, output, and delta
// signals.
type Meters = engine.Meters

// Levels holds one signal's peak and RMS.
type Levels = engine.Levels

// Sentinel errors.
var (
	ErrInvalidConfig   = engine.ErrInvalidConfig
	ErrUnsupportedRate = engine.ErrUnsupportedRate
	ErrNotPrepared     = engine.ErrNotPrepared
	ErrBadBlock        = engine.ErrBadBlock
)

// DefaultParams returns the initial configuration: hard clip at 0 dBFS,
// 4x minimum-phase oversampling, unity gains, fully linked stereo.
func DefaultParams() Params {
	return engine.DefaultParams()
}

// OversamplingFactors returns the supported oversampling factors
// (1, 2, 4, 8, 16, 32). Factors are enumerated, never interpolated.
func OversamplingFactors() []int {
	return oversample.Factors()
}

// Config holds the host-facing streaming configuration.
type Config struct {
	// SampleRate is the base sample rate in Hz.
	SampleRate float64

	// MaxBlockSize is the largest block the host will deliver, in samples.
	MaxBlockSize int

	// Channels is the stream channel count (1 or 2).
	Channels int
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	}
	if c.MaxBlockSize < 1 {
		return fmt.Errorf("%w: max block size must be at least 1", ErrInvalidConfig)
	}
	if c.Channels < 1 || c.Channels > 2 {
		return fmt.Errorf("%w: channels must be 1 or 2", ErrInvalidConfig)
	}
	return nil
}

// Clipper is the public handle around the processing engine. Methods that
// mutate configuration (SetParams, SetParamNormalized, the prepare
// notifications) belong to the control thread; ProcessBlock belongs to the
// audio thread. The two sides never contend on a lock.
type Clipper struct {
	eng  *engine.Engine
	cfg  Config
	norm [numParams]float64
}

// New creates a clipper and runs its prepare phase for the given
// configuration. Not real-time safe; call before streaming begins.
func New(config *Config) (*Clipper, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	eng, err := engine.New(config.Channels)
	if err != nil {
		return nil, err
	}
	if err := eng.Prepare(config.SampleRate, config.MaxBlockSize); err != nil {
		return nil, err
	}

	c := &Clipper{eng: eng, cfg: *config}
	c.norm = defaultNormalized()

	return c, nil
}

// ProcessBlock runs one block through the pipeline in place, one slice per
// channel. Real-time safe.
func (c *Clipper) ProcessBlock(buffers [][]float64) error {
	return c.eng.ProcessBlock(buffers)
}

// SetParams installs a complete parameter snapshot in engineering units.
// On error the previous configuration is retained. Control thread only.
func (c *Clipper) SetParams(p Params) error {
	if err := c.eng.SetParams(p); err != nil {
		return err
	}
	c.norm = normalizedFromParams(p)
	return nil
}

// Params returns the current parameter snapshot.
func (c *Clipper) Params() Params {
	return c.eng.Params()
}

// Latency returns the total pipeline delay in samples, including the
// oversampling filters' group delay for both filter families.
func (c *Clipper) Latency() int {
	return c.eng.Latency()
}

// Meters returns the most recent block's input/output/delta levels.
// Safe to call from the control thread while audio is running.
func (c *Clipper) Meters() Meters {
	return c.eng.Meters()
}

// Reset flushes all filter and delay state without touching configuration.
func (c *Clipper) Reset() {
	c.eng.Reset()
}

// SampleRateChanged re-runs the prepare phase for a new base sample rate.
// Not real-time safe. On error the previous configuration is retained.
func (c *Clipper) SampleRateChanged(sampleRate float64) error {
	if err := c.eng.Prepare(sampleRate, c.cfg.MaxBlockSize); err != nil {
		return err
	}
	c.cfg.SampleRate = sampleRate
	return nil
}

// BlockSizeChanged re-runs the prepare phase for a new maximum block size.
// Not real-time safe. On error the previous configuration is retained.
func (c *Clipper) BlockSizeChanged(maxBlock int) error {
	if err := c.eng.Prepare(c.cfg.SampleRate, maxBlock); err != nil {
		return err
	}
	c.cfg.MaxBlockSize = maxBlock
	return nil
}
