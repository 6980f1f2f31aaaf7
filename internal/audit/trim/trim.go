// Package trim locates leading and trailing silence so padding from rips
// or exports does not dilute loudness integration or the band averages.
package trim

import (
	"math"

	"github.com/farcloser/diapason/internal/types"
)

// Options configures the silence boundary search.
type Options struct {
	// ThresholdDb is measured relative to the buffer's peak level, not
	// full scale, so quiet masters trim the same way loud ones do
	// (default -40).
	ThresholdDb float64

	// WindowMs is the RMS window used to decide silence (default 50).
	WindowMs int
}

// DefaultOptions returns the trim thresholds.
func DefaultOptions() Options {
	return Options{
		ThresholdDb: -40.0,
		WindowMs:    50,
	}
}

// Bounds returns the sample range [start, end) that survives trimming.
// A buffer with no content above the threshold returns the full range:
// the silence flag downstream is the right way to report that, not an
// empty buffer.
func Bounds(buf *types.AudioBuffer, opts Options) (start, end int) {
	if opts.ThresholdDb == 0 {
		opts.ThresholdDb = DefaultOptions().ThresholdDb
	}

	if opts.WindowMs == 0 {
		opts.WindowMs = DefaultOptions().WindowMs
	}

	frames := buf.Frames()
	if frames == 0 {
		return 0, 0
	}

	mono := buf.MonoMix()

	var peak float64

	for _, s := range mono {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}

	if peak == 0 {
		return 0, frames
	}

	threshold := peak * math.Pow(10, opts.ThresholdDb/20)
	windowSize := max(buf.SampleRate()*opts.WindowMs/1000, 1)

	firstLoud := -1
	lastLoud := -1

	for offset := 0; offset < frames; offset += windowSize {
		wEnd := min(offset+windowSize, frames)

		var sumSq float64
		for _, s := range mono[offset:wEnd] {
			sumSq += s * s
		}

		rms := math.Sqrt(sumSq / float64(wEnd-offset))
		if rms < threshold {
			continue
		}

		if firstLoud < 0 {
			firstLoud = offset
		}

		lastLoud = wEnd
	}

	if firstLoud < 0 {
		return 0, frames
	}

	return firstLoud, lastLoud
}
