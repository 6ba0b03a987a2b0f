// Package clipper provides a real-time audio clipping and limiting engine in
// pure Go.
//
// The engine pushes audio through a nonlinear shaping curve that enforces a
// ceiling, with optional oversampling around the nonlinearity to suppress the
// aliasing that clipping otherwise folds back into the audible band.
//
// # Features
//
//   - Seven shaping curves from hard clip to soft arctan saturation
//   - Oversampling at 1x-32x with two selectable filter families:
//     minimum-phase recursive polyphase (2-5 samples of latency, for
//     tracking) and linear-phase FIR (55-89 samples, for mixing)
//   - Stereo or mid/side processing with continuously variable stereo link
//   - Hard ceiling enforcement with NaN/Inf sanitization, active even in
//     bypass
//   - Delta monitoring: listen to exactly what the clipper removed
//   - Lock-free parameter updates and latency reporting for host automation
//   - Pure Go implementation with no CGO dependencies
//
// # Quick Start
//
//	clip, err := clipper.New(&clipper.Config{
//	    SampleRate:   48000,
//	    MaxBlockSize: 512,
//	    Channels:     2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	params := clipper.DefaultParams()
//	params.Curve = clipper.CurveQuintic
//	params.Ceiling = 0.89 // about -1 dBFS
//	if err := clip.SetParams(params); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Audio thread: process blocks in place.
//	for blocks {
//	    if err := clip.ProcessBlock([][]float64{left, right}); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Host Integration
//
// Hosts automate the engine through named parameters carried as normalized
// values in [0, 1]; see [ParamID], [ParamInfos], and
// [Clipper.SetParamNormalized]. The engine reports its total pipeline latency
// via [Clipper.Latency] (it changes only when the oversampling factor, the
// filter family, or the sample rate changes) and exposes block peak/RMS
// levels for the input, output, and delta signals via [Clipper.Meters].
//
// # Real-Time Behavior
//
// ProcessBlock never allocates, locks, or blocks. All buffers and filter
// state are allocated during [New] (and on the prepare notifications
// [Clipper.SampleRateChanged] and [Clipper.BlockSizeChanged]). Parameter
// changes and oversampler reconfiguration are published from the control
// thread through atomic snapshot swaps, so the audio thread never observes
// half-updated state. Per-sample numeric faults degrade to silence for the
// affected samples rather than halting the stream.
package clipper
