package engine

import (
	"math"
	"sync/atomic"
)

// Levels holds one signal's block peak and RMS, linear amplitude.
type Levels struct {
	Peak float64
	RMS  float64
}

// Meters exposes the most recent block's levels for the input, output, and
// delta signals, for host-side metering.
type Meters struct {
	Input  Levels
	Output Levels
	Delta  Levels
}

// meterBank publishes levels from the audio thread via atomics, so the
// control thread can read them without the audio thread ever waiting.
type meterBank struct {
	inPeak, inRMS       atomic.Uint64
	outPeak, outRMS     atomic.Uint64
	deltaPeak, deltaRMS atomic.Uint64
}

func measure(buffers [][]float64, n int) Levels {
	peak := 0.0
	sumSq := 0.0
	count := 0
	for _, buf := range buffers {
		for _, v := range buf[:n] {
			a := math.Abs(v)
			if a > peak {
				peak = a
			}
			sumSq += v * v
		}
		count += n
	}

	rms := 0.0
	if count > 0 {
		rms = math.Sqrt(sumSq / float64(count))
	}

	return Levels{Peak: peak, RMS: rms}
}

func storeLevels(peak, rms *atomic.Uint64, l Levels) {
	peak.Store(math.Float64bits(l.Peak))
	rms.Store(math.Float64bits(l.RMS))
}

func loadLevels(peak, rms *atomic.Uint64) Levels {
	return Levels{
		Peak: math.Float64frombits(peak.Load()),
		RMS:  math.Float64frombits(rms.Load()),
	}
}

func (m *meterBank) measureInput(buffers [][]float64, n int) {
	storeLevels(&m.inPeak, &m.inRMS, measure(buffers, n))
}

func (m *meterBank) measureOutput(buffers [][]float64, n int) {
	storeLevels(&m.outPeak, &m.outRMS, measure(buffers, n))
}

func (m *meterBank) measureDelta(buffers [][]float64, n int) {
	storeLevels(&m.deltaPeak, &m.deltaRMS, measure(buffers, n))
}

func (m *meterBank) clearDelta() {
	storeLevels(&m.deltaPeak, &m.deltaRMS, Levels{})
}

func (m *meterBank) reset() {
	storeLevels(&m.inPeak, &m.inRMS, Levels{})
	storeLevels(&m.outPeak, &m.outRMS, Levels{})
	storeLevels(&m.deltaPeak, &m.deltaRMS, Levels{})
}

func (m *meterBank) read() Meters {
	return Meters{
		Input:  loadLevels(&m.inPeak, &m.inRMS),
		Output: loadLevels(&m.outPeak, &m.outRMS),
		Delta:  loadLevels(&m.deltaPeak, &m.deltaRMS),
	}
}
