// Command analyze-filter prints the oversampling filter designs: per-factor
// round-trip latency for both families, and the measured frequency response
// of each cascade stage.
package main

import (
	"fmt"

	"github.com/noahbaxter/guillotine-sub001/internal/filter"
	"github.com/noahbaxter/guillotine-sub001/internal/oversample"
)

const (
	// Linear-phase stage design parameters, matching the oversampler.
	firCutoff      = 0.25
	firAttenuation = 69.0

	// Response measurement points.
	stopbandBegin = 0.3
	passbandEnd   = 0.2

	analysisBlock = 256
)

var firStageTaps = []int{111, 73, 73, 81, 65}

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

func main() {
	fmt.Println("=== Oversampling Latency (round trip, input-referred) ===")
	fmt.Printf("%8s %14s %14s\n", "factor", "min-phase", "linear-phase")
	for _, factor := range oversample.Factors() {
		minLat := latencyFor(factor, oversample.MinimumPhase)
		linLat := latencyFor(factor, oversample.LinearPhase)
		fmt.Printf("%7dx %14s %14s\n", factor, minLat, linLat)
	}

	fmt.Println("\n=== Linear-Phase FIR Stages ===")
	for pos, taps := range firStageTaps {
		coeffs, err := filter.DesignLowPass(filter.LowPassParams{
			NumTaps:     taps,
			CutoffFreq:  firCutoff,
			Attenuation: firAttenuation,
			Gain:        1.0,
		})
		if err != nil {
			fmt.Printf("  Stage %d: design error: %v\n", pos, err)
			continue
		}

		att := filter.StopbandAttenuationDB(coeffs, stopbandBegin)
		ripple := filter.PassbandRippleDB(coeffs, passbandEnd)
		fmt.Printf("  Stage %d: %3d taps, delay %5.1f, stopband %6.2f dB, passband ripple %.4f dB\n",
			pos, taps, float64(taps-1)/2, att, ripple)
	}

	fmt.Println("\n=== Minimum-Phase Allpass Stages ===")
	for pos, spec := range iirStageSpecs {
		hb, err := filter.DesignAllpassHalfband(spec.numCoeffs, spec.transition)
		if err != nil {
			fmt.Printf("  Stage %d: design error: %v\n", pos, err)
			continue
		}

		fmt.Printf("  Stage %d: %d sections, transition %.2f, attenuation %6.2f dB, DC group delay %.3f\n",
			pos, spec.numCoeffs, spec.transition, hb.Attenuation, hb.GroupDelayDC())
		fmt.Printf("           branch 0: %v\n", formatCoeffs(hb.Branch0))
		fmt.Printf("           branch 1: %v\n", formatCoeffs(hb.Branch1))
	}
}

func latencyFor(factor int, ft oversample.FilterType) string {
	o, err := oversample.New(factor, ft, analysisBlock)
	if err != nil {
		return "err"
	}
	return fmt.Sprintf("%d samples", o.Latency())
}

func formatCoeffs(coeffs []float64) string {
	out := "["
	for i, c := range coeffs {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%.6f", c)
	}
	return out + "]"
}
