package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	clipper "github.com/noahbaxter/guillotine-sub001"
)

const (
	// Peak values per PCM bit depth.
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// WAV audio format tag for PCM.
	wavFormatPCM = 1

	// dB conversion constants.
	dbPerDecade    = 20.0
	silenceFloorDB = -200.0
	minLinearForDB = 1e-10
)

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/dbPerDecade)
}

func linearToDB(linear float64) float64 {
	if linear < minLinearForDB {
		return silenceFloorDB
	}
	return dbPerDecade * math.Log10(linear)
}

// parseCurve maps a CLI curve name to its type.
func parseCurve(name string) (clipper.CurveType, error) {
	switch strings.ToLower(name) {
	case "hard":
		return clipper.CurveHard, nil
	case "tanh":
		return clipper.CurveTanh, nil
	case "quintic":
		return clipper.CurveQuintic, nil
	case "cubic":
		return clipper.CurveCubic, nil
	case "arctan":
		return clipper.CurveArctan, nil
	case "t2":
		return clipper.CurveTSquared, nil
	case "knee":
		return clipper.CurveKnee, nil
	default:
		return clipper.CurveHard, fmt.Errorf("unknown curve %q (hard, tanh, quintic, cubic, arctan, t2, knee)", name)
	}
}

// parseFilter maps a CLI filter name to its family.
func parseFilter(name string) (clipper.FilterType, error) {
	switch strings.ToLower(name) {
	case "minimum", "min", "minphase":
		return clipper.FilterMinimumPhase, nil
	case "linear", "lin", "linphase":
		return clipper.FilterLinearPhase, nil
	default:
		return clipper.FilterMinimumPhase, fmt.Errorf("unknown filter %q (minimum or linear)", name)
	}
}

// wavInput holds a validated input file and its format.
type wavInput struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a WAV file.
func openWAVInput(path string, verbose bool) (*wavInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		_ = file.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	channels := format.NumChannels
	if channels < 1 || channels > 2 {
		_ = file.Close()
		return nil, fmt.Errorf("unsupported channel count %d (mono or stereo only)", channels)
	}

	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		_ = file.Close()
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, channels, bitDepth)
	}

	return &wavInput{
		file:     file,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: channels,
		bitDepth: bitDepth,
		format:   format,
	}, nil
}

// Close closes the input file.
func (w *wavInput) Close() error {
	return w.file.Close()
}

// wavOutput wraps the output file and encoder.
type wavOutput struct {
	file    *os.File
	encoder *wav.Encoder
}

// createWAVOutput creates an output file matching the input format.
func createWAVOutput(path string, in *wavInput) (*wavOutput, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	encoder := wav.NewEncoder(file, in.rate, in.bitDepth, in.channels, wavFormatPCM)

	return &wavOutput{file: file, encoder: encoder}, nil
}

// Write appends one interleaved PCM buffer.
func (w *wavOutput) Write(buf *audio.IntBuffer) error {
	return w.encoder.Write(buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutput) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

func maxValueForBitDepth(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// processFile streams the input through the clipper block by block.
func processFile(in *wavInput, out *wavOutput, clip *clipper.Clipper, verbose bool) error {
	channels := in.channels
	maxVal := maxValueForBitDepth(in.bitDepth)
	invMaxVal := 1.0 / maxVal

	intBuf := &audio.IntBuffer{
		Data:           make([]int, blockSize*channels),
		Format:         in.format,
		SourceBitDepth: in.bitDepth,
	}

	channelBufs := make([][]float64, channels)
	for ch := range channels {
		channelBufs[ch] = make([]float64, blockSize)
	}

	totalFrames := int64(0)
	for {
		n, err := in.decoder.PCMBuffer(intBuf)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / channels

		// Deinterleave and normalize to [-1, 1].
		for f := range frames {
			for ch := range channels {
				channelBufs[ch][f] = float64(intBuf.Data[f*channels+ch]) * invMaxVal
			}
		}

		blocks := make([][]float64, channels)
		for ch := range channels {
			blocks[ch] = channelBufs[ch][:frames]
		}
		if err := clip.ProcessBlock(blocks); err != nil {
			return fmt.Errorf("processing failed: %w", err)
		}

		// Reinterleave with clamping back to integer full scale.
		for f := range frames {
			for ch := range channels {
				v := channelBufs[ch][f] * maxVal
				if v > maxVal {
					v = maxVal
				} else if v < -maxVal-1 {
					v = -maxVal - 1
				}
				intBuf.Data[f*channels+ch] = int(math.Round(v))
			}
		}

		intBuf.Data = intBuf.Data[:frames*channels]
		if err := out.Write(intBuf); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		intBuf.Data = intBuf.Data[:cap(intBuf.Data)]

		totalFrames += int64(frames)
	}

	if verbose {
		log.Printf("Processed %d frames", totalFrames)
	}

	return nil
}
