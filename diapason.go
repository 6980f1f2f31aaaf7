// Package diapason compares two masters of the same program material and
// reports what changed: loudness, spectral balance, dynamics, and stereo
// image, plus a plain-language characterization of the revision.
package diapason

import (
	"github.com/farcloser/diapason/internal/audit/loudness"
	"github.com/farcloser/diapason/internal/audit/spectral"
	"github.com/farcloser/diapason/internal/audit/trim"
	"github.com/farcloser/diapason/internal/preset"
	"github.com/farcloser/diapason/internal/types"
)

/*
Usage:

buf, err := diapason.NewAudioBuffer(44100, channels)
result, err := diapason.Analyze(buf, diapason.DefaultOptions())
fmt.Printf("%.1f LUFS\n", result.Loudness.IntegratedLUFS)

// Before/after comparison
report, err := diapason.Compare(before, after, diapason.DefaultOptions())
fmt.Println(report.Suggestion.Label)

// Deltas are after minus before
if report.Delta.LoudnessDb > 0 {
    fmt.Println("revision is louder")
}

// Custom framing
opts := diapason.DefaultOptions()
opts.FFTSize = 4096
opts.FFTHop = 1024
report, err := diapason.Compare(before, after, opts)
*/

// Re-exported data types. All analysis results are plain structs with no
// behavior; consumers never need to import internal packages.
type (
	AudioBuffer      = types.AudioBuffer
	LoudnessMetrics  = types.LoudnessMetrics
	SpectralProfile  = types.SpectralProfile
	DynamicsProfile  = types.DynamicsProfile
	AnalysisResult   = types.AnalysisResult
	Delta            = types.Delta
	Suggestion       = types.Suggestion
	ComparisonReport = types.ComparisonReport
)

// Re-exported sentinel errors.
var (
	ErrInvalidConfiguration     = types.ErrInvalidConfiguration
	ErrSampleRateMismatch       = types.ErrSampleRateMismatch
	ErrUnsupportedChannelLayout = types.ErrUnsupportedChannelLayout
)

// NewAudioBuffer builds a validated buffer from per-channel sample slices.
// Samples are expected in the [-1, 1] range. Rejects zero or more than two
// channels, mismatched channel lengths, and non-positive sample rates.
func NewAudioBuffer(sampleRate int, channels [][]float64) (*AudioBuffer, error) {
	return types.NewAudioBuffer(sampleRate, channels)
}

// Options configures analysis and comparison.
type Options struct {
	// Analysis framing. Invalid values (negative, or a length exceeding
	// the input with DropPartialFrames set) surface as
	// ErrInvalidConfiguration from Analyze.
	FFTSize int // default 8192
	FFTHop  int // default 2048

	// DropPartialFrames drops the final partial frame instead of
	// zero-padding it.
	DropPartialFrames bool

	// Loudness gating.
	SilenceGateDb float64 // absolute gate, default -70

	// Leading/trailing silence trim before analysis.
	TrimDisabled    bool
	TrimThresholdDb float64 // relative to peak, default -40

	// Suggestion thresholds.
	EpsilonLoudnessDb float64 // default 0.5
	EpsilonBandDb     float64 // default 1.0
	TiltThresholdDb   float64 // default 0.75
}

// DefaultOptions returns options matching common mastering QC practice:
// 8192-point spectra at 75% overlap, EBU R128 gating, and a half-dB
// loudness significance threshold.
func DefaultOptions() Options {
	return Options{
		FFTSize:           8192,
		FFTHop:            2048,
		SilenceGateDb:     -70,
		TrimThresholdDb:   -40,
		EpsilonLoudnessDb: 0.5,
		EpsilonBandDb:     1.0,
		TiltThresholdDb:   0.75,
	}
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()

	if opts.FFTSize == 0 {
		opts.FFTSize = defaults.FFTSize
	}

	if opts.FFTHop == 0 {
		opts.FFTHop = defaults.FFTHop
	}

	if opts.SilenceGateDb == 0 {
		opts.SilenceGateDb = defaults.SilenceGateDb
	}

	if opts.TrimThresholdDb == 0 {
		opts.TrimThresholdDb = defaults.TrimThresholdDb
	}

	if opts.EpsilonLoudnessDb == 0 {
		opts.EpsilonLoudnessDb = defaults.EpsilonLoudnessDb
	}

	if opts.EpsilonBandDb == 0 {
		opts.EpsilonBandDb = defaults.EpsilonBandDb
	}

	if opts.TiltThresholdDb == 0 {
		opts.TiltThresholdDb = defaults.TiltThresholdDb
	}
}

func (o Options) loudnessOptions() loudness.Options {
	return loudness.Options{AbsoluteGateDb: o.SilenceGateDb}
}

func (o Options) spectralOptions() spectral.Options {
	return spectral.Options{
		FFTSize:     o.FFTSize,
		HopSize:     o.FFTHop,
		DropPartial: o.DropPartialFrames,
	}
}

func (o Options) trimOptions() trim.Options {
	return trim.Options{ThresholdDb: o.TrimThresholdDb}
}

func (o Options) suggestionOptions() preset.Options {
	return preset.Options{
		EpsilonLoudnessDb: o.EpsilonLoudnessDb,
		EpsilonBandDb:     o.EpsilonBandDb,
		TiltThresholdDb:   o.TiltThresholdDb,
	}
}
