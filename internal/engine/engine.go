// Package engine orchestrates the clipping pipeline.
//
// Each block runs the fixed chain
//
//	InputGain → StereoEncode → Upsample → Curve(Ceiling) → Downsample →
//	StereoDecode → EnforceCeiling → OutputGain → DeltaMonitor → Output
//
// on the audio thread, with no allocation, locking, or blocking inside
// ProcessBlock. Parameters arrive from the control thread as immutable
// snapshots behind an atomic pointer; oversampler state is double-buffered
// the same way, so the audio thread never observes half-built filter state.
// All scratch memory is allocated in Prepare, which the host calls before
// streaming and on any sample-rate or block-size change.
package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/tphakala/simd/f64"

	"github.com/noahbaxter/guillotine-sub001/internal/curve"
	"github.com/noahbaxter/guillotine-sub001/internal/oversample"
	"github.com/noahbaxter/guillotine-sub001/internal/stereo"
)

const (
	// Supported prepare-phase sample rates in Hz.
	minSampleRate = 8000.0
	maxSampleRate = 384000.0

	// maxChannels: the pipeline is mono or stereo.
	maxChannels = 2

	// dryDelayCapacity bounds the dry-path alignment delay. The worst case
	// is the 32x linear-phase cascade (89 samples); headroom on top.
	dryDelayCapacity = 128
)

// Params is one immutable parameter snapshot, in engineering units. The
// control thread builds a new snapshot on every change; the audio thread only
// ever reads a complete one.
type Params struct {
	// Curve selects the shaping function; Exponent drives the T2 and Knee
	// shapes (clamped to [1, 4] by the knee derivation).
	Curve    curve.Type
	Exponent float64

	// Ceiling is the linear clip threshold. Values at or below zero produce
	// silence from the curve stage; that is defined behavior, not an error.
	Ceiling float64

	// Factor and Filter configure the oversampler.
	Factor int
	Filter oversample.FilterType

	// ChannelMode and StereoLink control the stereo image under clipping.
	ChannelMode stereo.Mode
	StereoLink  float64

	// InputGain and OutputGain are linear multipliers around the core chain.
	InputGain  float64
	OutputGain float64

	// Bypass freezes the main chain; sanitization still runs.
	Bypass bool

	// DeltaMonitor replaces the output with processed-minus-dry.
	DeltaMonitor bool
}

// Validate checks the snapshot for configuration errors. Invalid snapshots
// are rejected wholesale; the engine keeps its previous configuration.
func (p *Params) Validate() error {
	if !p.Curve.Valid() {
		return fmt.Errorf("%w: unknown curve %d", ErrInvalidConfig, int(p.Curve))
	}
	if !oversample.ValidFactor(p.Factor) {
		return fmt.Errorf("%w: unsupported oversampling factor %d", ErrInvalidConfig, p.Factor)
	}
	if !p.Filter.Valid() {
		return fmt.Errorf("%w: unknown filter type %d", ErrInvalidConfig, int(p.Filter))
	}
	if !p.ChannelMode.Valid() {
		return fmt.Errorf("%w: unknown channel mode %d", ErrInvalidConfig, int(p.ChannelMode))
	}
	if p.StereoLink < 0 || p.StereoLink > 1 {
		return fmt.Errorf("%w: stereo link %f outside [0, 1]", ErrInvalidConfig, p.StereoLink)
	}
	for _, v := range []float64{p.Exponent, p.Ceiling, p.InputGain, p.OutputGain} {
		if !isFinite(v) {
			return fmt.Errorf("%w: non-finite parameter value", ErrInvalidConfig)
		}
	}
	return nil
}

// DefaultParams returns the engine's initial configuration: hard clip at
// 0 dBFS, 4x minimum-phase oversampling, unity gains, fully linked stereo.
func DefaultParams() Params {
	return Params{
		Curve:       curve.Hard,
		Exponent:    2,
		Ceiling:     1.0,
		Factor:      4,
		Filter:      oversample.MinimumPhase,
		ChannelMode: stereo.ModeStereo,
		StereoLink:  1.0,
		InputGain:   1.0,
		OutputGain:  1.0,
	}
}

// snapshot pairs a Params value with its pre-resolved curve function so the
// per-block path performs no dispatch work.
type snapshot struct {
	Params
	shape curve.Func
}

// ovsSlot is one fully-built oversampler configuration. A new slot is
// constructed off the audio thread on every factor or filter change and
// swapped in atomically between blocks.
type ovsSlot struct {
	factor  int
	filter  oversample.FilterType
	chans   []*oversample.Oversampler
	latency int
}

// Engine owns the pipeline state for one plugin instance.
type Engine struct {
	channels int

	// Host configuration, set by Prepare (control thread only).
	sampleRate float64
	maxBlock   int

	params atomic.Pointer[snapshot]
	slot   atomic.Pointer[ovsSlot]

	latency atomic.Int64
	meters  meterBank

	// Audio-thread scratch, allocated in Prepare.
	dry      [][]float64
	delta    [][]float64
	dryDelay []*delayLine
}

// New creates an engine for the given channel count (1 or 2) with default
// parameters. Prepare must be called before the first ProcessBlock.
func New(channels int) (*Engine, error) {
	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("%w: channel count %d (1 or 2 supported)", ErrInvalidConfig, channels)
	}

	e := &Engine{channels: channels}

	p := DefaultParams()
	e.params.Store(&snapshot{Params: p, shape: curve.Resolve(p.Curve, p.Exponent)})

	return e, nil
}

// Prepare configures the engine for streaming: it validates the sample rate,
// allocates every per-block buffer, and (re)builds the oversampler for the
// current parameters. The host must call it before streaming begins and again
// whenever sample rate or maximum block size change. Not real-time safe.
func (e *Engine) Prepare(sampleRate float64, maxBlock int) error {
	if sampleRate < minSampleRate || sampleRate > maxSampleRate {
		return fmt.Errorf("%w: %g Hz (supported: %g-%g)", ErrUnsupportedRate, sampleRate, minSampleRate, maxSampleRate)
	}
	if maxBlock < 1 {
		return fmt.Errorf("%w: max block size %d", ErrInvalidConfig, maxBlock)
	}

	e.sampleRate = sampleRate
	e.maxBlock = maxBlock

	e.dry = make([][]float64, e.channels)
	e.delta = make([][]float64, e.channels)
	e.dryDelay = make([]*delayLine, e.channels)
	for ch := range e.channels {
		e.dry[ch] = make([]float64, maxBlock)
		e.delta[ch] = make([]float64, maxBlock)
		e.dryDelay[ch] = newDelayLine(dryDelayCapacity)
	}

	p := e.params.Load().Params
	if err := e.buildSlot(p.Factor, p.Filter); err != nil {
		return err
	}

	e.meters.reset()

	return nil
}

// buildSlot constructs and swaps in a fresh oversampler configuration.
// Control thread only; the swap itself is the single atomic store.
func (e *Engine) buildSlot(factor int, filterType oversample.FilterType) error {
	slot := &ovsSlot{factor: factor, filter: filterType}

	for range e.channels {
		ov, err := oversample.New(factor, filterType, e.maxBlock)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		slot.chans = append(slot.chans, ov)
	}
	slot.latency = slot.chans[0].Latency()

	e.slot.Store(slot)
	e.latency.Store(int64(slot.latency))

	return nil
}

// SetParams installs a new parameter snapshot. If the oversampling factor or
// filter family changed, a fresh oversampler is built here (off the audio
// thread) and swapped in atomically, and the latency report is updated.
// On error the previous configuration is fully retained.
func (e *Engine) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if e.prepared() {
		cur := e.slot.Load()
		if cur == nil || cur.factor != p.Factor || cur.filter != p.Filter {
			if err := e.buildSlot(p.Factor, p.Filter); err != nil {
				return err
			}
		}
	}

	e.params.Store(&snapshot{Params: p, shape: curve.Resolve(p.Curve, p.Exponent)})

	return nil
}

// Params returns the current parameter snapshot.
func (e *Engine) Params() Params {
	return e.params.Load().Params
}

// Latency returns the total pipeline delay in samples at the base rate,
// including the oversampling filters' group delay for both families.
func (e *Engine) Latency() int {
	return int(e.latency.Load())
}

// SampleRate returns the prepared sample rate, or 0 before Prepare.
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// Meters returns the most recent block's input/output/delta levels.
// Safe to call from the control thread while audio is running.
func (e *Engine) Meters() Meters {
	return e.meters.read()
}

// Reset flushes all filter and delay state without touching configuration.
func (e *Engine) Reset() {
	if slot := e.slot.Load(); slot != nil {
		for _, ov := range slot.chans {
			ov.Reset()
		}
	}
	for _, d := range e.dryDelay {
		d.reset()
	}
	e.meters.reset()
}

func (e *Engine) prepared() bool {
	return e.maxBlock > 0
}

// ProcessBlock runs one block through the pipeline in place. buffers holds
// one slice per channel, all of equal length, at most the prepared maximum.
// The engine keeps no reference to the buffers beyond this call.
//
// Real-time safe: no allocation, no locks, always completes.
func (e *Engine) ProcessBlock(buffers [][]float64) error {
	if !e.prepared() {
		return ErrNotPrepared
	}
	if len(buffers) != e.channels {
		return fmt.Errorf("%w: got %d channels, engine configured for %d", ErrBadBlock, len(buffers), e.channels)
	}

	n := len(buffers[0])
	if n == 0 {
		return nil
	}
	if n > e.maxBlock {
		return fmt.Errorf("%w: block of %d samples exceeds prepared maximum %d", ErrBadBlock, n, e.maxBlock)
	}
	for _, buf := range buffers {
		if len(buf) != n {
			return fmt.Errorf("%w: channel buffers differ in length", ErrBadBlock)
		}
	}

	snap := e.params.Load()
	slot := e.slot.Load()

	// Sanitize as close to the source as practical: a NaN entering the
	// recursive filters would poison their state indefinitely.
	for _, buf := range buffers {
		sanitize(buf[:n])
	}

	e.meters.measureInput(buffers, n)

	// Dry capture for the delta monitor, before any gain.
	for ch, buf := range buffers {
		copy(e.dry[ch][:n], buf[:n])
	}

	if snap.Bypass {
		// Frozen chain. The sanitize pass above already ran, so bypass can
		// never propagate non-finite values downstream.
		e.meters.measureOutput(buffers, n)
		e.meters.clearDelta()
		return nil
	}

	e.processActive(snap, slot, buffers, n)

	return nil
}

// processActive runs the full chain on sanitized input.
func (e *Engine) processActive(snap *snapshot, slot *ovsSlot, buffers [][]float64, n int) {
	stereoPair := e.channels == 2

	// Input gain.
	if snap.InputGain != 1.0 {
		for _, buf := range buffers {
			f64.Scale(buf[:n], buf[:n], snap.InputGain)
		}
	}

	// Stereo encode.
	midSide := stereoPair && snap.ChannelMode == stereo.ModeMidSide
	if midSide {
		stereo.Encode(buffers[0][:n], buffers[1][:n])
	}

	// Upsample, shape at the raised rate, downsample.
	if stereoPair {
		up0 := slot.chans[0].Upsample(buffers[0][:n])
		up1 := slot.chans[1].Upsample(buffers[1][:n])
		stereo.ApplyLinked(snap.shape, up0, up1, snap.Ceiling, snap.StereoLink)
		slot.chans[0].Downsample(up0, buffers[0][:n])
		slot.chans[1].Downsample(up1, buffers[1][:n])
	} else {
		up := slot.chans[0].Upsample(buffers[0][:n])
		stereo.ApplyMono(snap.shape, up, snap.Ceiling)
		slot.chans[0].Downsample(up, buffers[0][:n])
	}

	// Stereo decode.
	if midSide {
		stereo.Decode(buffers[0][:n], buffers[1][:n])
	}

	// Final safety net: residual intersample overshoot and non-finite values.
	for _, buf := range buffers {
		enforceCeiling(buf[:n], snap.Ceiling)
	}

	// Output gain.
	if snap.OutputGain != 1.0 {
		for _, buf := range buffers {
			f64.Scale(buf[:n], buf[:n], snap.OutputGain)
		}
	}

	e.meters.measureOutput(buffers, n)

	// Delta against the latency-aligned dry signal. Computed every block for
	// metering; substituted for the output only when monitoring is on.
	latency := slot.latency
	for ch, buf := range buffers {
		d := e.delta[ch][:n]
		ring := e.dryDelay[ch]
		dry := e.dry[ch][:n]
		for i := range d {
			d[i] = buf[i] - ring.process(dry[i], latency)
		}
	}
	e.meters.measureDelta(e.delta, n)

	if snap.DeltaMonitor {
		for ch, buf := range buffers {
			copy(buf[:n], e.delta[ch][:n])
		}
	}
}
