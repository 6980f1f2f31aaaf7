// Package window slices a sample sequence into overlapping analysis frames.
package window

import (
	"fmt"
	"iter"

	"github.com/farcloser/diapason/internal/types"
)

// Config controls framing.
type Config struct {
	Length int // frame length in samples
	Hop    int // distance between frame starts; Length - Hop = overlap

	// PadPartial zero-pads the final partial frame to Length. When false,
	// a trailing partial frame is dropped instead. Padding keeps boundary
	// content in the analysis at the cost of smearing the last frame's
	// spectral bins; dropping loses up to Hop-1 samples at the end.
	PadPartial bool
}

// Frame is one analysis window over the source samples. Samples always has
// the configured length. For full frames it is a view into the source;
// for a padded final frame it is a zero-padded copy.
type Frame struct {
	Offset  int // start position in the source, in samples
	Samples []float64
}

// Frames returns a lazy, finite, restartable sequence of frames covering
// the samples. Ranging over the sequence again restarts from the top.
func Frames(samples []float64, cfg Config) (iter.Seq[Frame], error) {
	if cfg.Length <= 0 {
		return nil, fmt.Errorf("%w: frame length %d", types.ErrInvalidConfiguration, cfg.Length)
	}

	if cfg.Hop <= 0 {
		return nil, fmt.Errorf("%w: hop size %d", types.ErrInvalidConfiguration, cfg.Hop)
	}

	if cfg.Length > len(samples) && !cfg.PadPartial {
		return nil, fmt.Errorf(
			"%w: frame length %d exceeds %d samples and padding is disabled",
			types.ErrInvalidConfiguration, cfg.Length, len(samples),
		)
	}

	seq := func(yield func(Frame) bool) {
		for offset := 0; offset < len(samples); offset += cfg.Hop {
			end := offset + cfg.Length

			if end <= len(samples) {
				if !yield(Frame{Offset: offset, Samples: samples[offset:end]}) {
					return
				}

				continue
			}

			if !cfg.PadPartial {
				return
			}

			padded := make([]float64, cfg.Length)
			copy(padded, samples[offset:])

			yield(Frame{Offset: offset, Samples: padded})

			return
		}
	}

	return seq, nil
}

// Count returns how many frames the sequence will yield, without iterating.
func Count(sampleCount int, cfg Config) int {
	if sampleCount <= 0 || cfg.Length <= 0 || cfg.Hop <= 0 {
		return 0
	}

	full := 0
	if sampleCount >= cfg.Length {
		full = (sampleCount-cfg.Length)/cfg.Hop + 1
	}

	if !cfg.PadPartial {
		return full
	}

	// One padded frame whenever the next offset still lands inside the data.
	if full*cfg.Hop < sampleCount {
		return full + 1
	}

	return full
}
