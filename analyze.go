package diapason

import (
	"fmt"

	"github.com/farcloser/diapason/internal/audit/dynamics"
	"github.com/farcloser/diapason/internal/audit/loudness"
	"github.com/farcloser/diapason/internal/audit/spectral"
	"github.com/farcloser/diapason/internal/audit/trim"
	"github.com/farcloser/diapason/internal/audit/truepeak"
	"github.com/farcloser/diapason/internal/types"
)

// Analyze measures one input: gated loudness, true peak, the banded
// average spectrum, and whole-buffer dynamics. Silent input is a valid
// measurement and returns a flagged result, not an error.
func Analyze(buf *AudioBuffer, opts Options) (*AnalysisResult, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidConfiguration)
	}

	if buf.Channels() < 1 || buf.Channels() > types.MaxChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannelLayout, buf.Channels())
	}

	applyDefaults(&opts)

	result := &AnalysisResult{
		SampleRate:  buf.SampleRate(),
		Channels:    buf.Channels(),
		DurationSec: buf.DurationSec(),
	}

	// Trim padding first so leading silence does not dilute integration.
	// All measurements below run on the same trimmed region.
	measured := buf
	if !opts.TrimDisabled {
		start, end := trim.Bounds(buf, opts.trimOptions())
		measured = buf.Slice(start, end)
	}

	result.Loudness = loudness.Analyze(measured, opts.loudnessOptions())
	result.Silent = result.Loudness.Silent

	peaks := truepeak.Detect(measured)
	result.Loudness.TruePeakDb = peaks.TruePeakDb
	result.Loudness.SamplePeakDb = peaks.SamplePeakDb

	spectralProfile, err := spectral.Analyze(measured.MonoMix(), measured.SampleRate(), opts.spectralOptions())
	if err != nil {
		return nil, err
	}

	result.Spectral = spectralProfile
	result.Dynamics = dynamics.Analyze(measured)

	return result, nil
}
