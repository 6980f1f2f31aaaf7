//nolint:staticcheck // too dumb on Db vs. DB
package types

import (
	"errors"
	"fmt"
)

// Engine error kinds. Configuration and layout errors are fatal and
// surface immediately with no partial result.
var (
	ErrInvalidConfiguration     = errors.New("invalid analysis configuration")
	ErrSampleRateMismatch       = errors.New("sample rate mismatch between inputs")
	ErrUnsupportedChannelLayout = errors.New("unsupported channel layout")
)

// SilenceFloorDb is the sentinel level reported instead of -Inf when a
// measurement has no signal to work with.
const SilenceFloorDb = -120.0

// MaxChannels is the widest layout the engine accepts. Anything beyond
// stereo needs downmix decisions we refuse to make silently.
const MaxChannels = 2

// AudioBuffer holds decoded PCM for one input: per-channel float samples
// normalized to [-1, 1], plus the sample rate. Decoding from file or URL
// is the loader's job, not the engine's.
//
// Buffers are immutable once constructed. Callers must not modify the
// channel slices after handing them to NewAudioBuffer.
type AudioBuffer struct {
	sampleRate int
	channels   [][]float64
}

// NewAudioBuffer validates and wraps decoded samples. All channels must
// have equal length, the sample rate must be positive, and only mono and
// stereo layouts are supported.
func NewAudioBuffer(sampleRate int, channels [][]float64) (*AudioBuffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidConfiguration, sampleRate)
	}

	if len(channels) == 0 || len(channels) > MaxChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannelLayout, len(channels))
	}

	for ch := 1; ch < len(channels); ch++ {
		if len(channels[ch]) != len(channels[0]) {
			return nil, fmt.Errorf(
				"%w: channel %d has %d samples, channel 0 has %d",
				ErrInvalidConfiguration, ch, len(channels[ch]), len(channels[0]),
			)
		}
	}

	return &AudioBuffer{
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// SampleRate returns the buffer's sample rate in Hz.
func (b *AudioBuffer) SampleRate() int {
	return b.sampleRate
}

// Channels returns the channel count (1 or 2).
func (b *AudioBuffer) Channels() int {
	return len(b.channels)
}

// Frames returns the per-channel sample count.
func (b *AudioBuffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}

	return len(b.channels[0])
}

// DurationSec returns the buffer duration in seconds.
func (b *AudioBuffer) DurationSec() float64 {
	return float64(b.Frames()) / float64(b.sampleRate)
}

// Channel returns the samples for one channel. The returned slice is
// shared, not copied; treat it as read-only.
func (b *AudioBuffer) Channel(ch int) []float64 {
	return b.channels[ch]
}

// MonoMix returns a freshly allocated equal-weight downmix of all channels.
func (b *AudioBuffer) MonoMix() []float64 {
	frames := b.Frames()
	mono := make([]float64, frames)

	if len(b.channels) == 1 {
		copy(mono, b.channels[0])

		return mono
	}

	scale := 1.0 / float64(len(b.channels))
	for i := range frames {
		var sum float64
		for _, ch := range b.channels {
			sum += ch[i]
		}

		mono[i] = sum * scale
	}

	return mono
}

// Slice returns a sub-buffer covering samples [start, end). The underlying
// sample storage is shared with the parent buffer.
func (b *AudioBuffer) Slice(start, end int) *AudioBuffer {
	channels := make([][]float64, len(b.channels))
	for ch := range b.channels {
		channels[ch] = b.channels[ch][start:end]
	}

	return &AudioBuffer{
		sampleRate: b.sampleRate,
		channels:   channels,
	}
}

/*
Loudness Interpretation

| IntegratedLUFS | Context                                 |
|----------------|----------------------------------------|
| -23 to -18     | Broadcast/streaming target range       |
| -16 to -14     | Typical modern pop/rock master         |
| -12 to -10     | Loud/compressed master                 |
| -9 to -6       | Extremely loud (loudness war casualty) |

| LoudnessRange (LU) | Interpretation                      |
|--------------------|-------------------------------------|
| < 5                | Very compressed, little dynamics    |
| 5-10               | Moderate dynamics, typical pop/rock |
| 10-15              | Good dynamics, well-mastered        |
| > 15               | Wide dynamics, classical/jazz       |

A Silent result means the whole input fell below the absolute gate. The
level fields then hold SilenceFloorDb, never -Inf, and the comparison
still proceeds with the flag carried through.
*/

// LoudnessMetrics holds the gated loudness measurements for one input.
type LoudnessMetrics struct {
	IntegratedLUFS float64 // overall loudness, two-stage gated
	LoudnessRange  float64 // LRA in LU (95th - 10th percentile short-term)
	ShortTermMax   float64 // max 3s window
	MomentaryMax   float64 // max 400ms window
	TruePeakDb     float64 // 4x oversampled reconstructed peak, dBTP
	SamplePeakDb   float64 // max original sample level, dBFS
	Silent         bool    // true when no block passed the absolute gate
}

// SpectralProfile holds the banded average spectrum for one input.
// BandCenters ascend and are a pure function of sample rate and the
// configured band layout, so equal sample rates yield identical layouts.
type SpectralProfile struct {
	BandCenters []float64 // 1/3-octave centers in Hz, ascending
	BandDb      []float64 // per-band level, power-averaged then dB

	SpectralCentroid float64 // Hz; higher = brighter
	TiltDb           float64 // high bands (>=8 kHz) minus low bands (150-300 Hz)
	SubExcess        bool    // sub-bass (20-50 Hz) > 3 dB above bass (50-250 Hz)
	TransientIndex   float64 // 95th percentile of positive spectral flux
}

/*
Dynamics Interpretation

| CrestDb  | Interpretation                          |
|----------|----------------------------------------|
| < 6      | Heavily limited, brickwalled            |
| 6-10     | Compressed modern master                |
| 10-14    | Moderate dynamics                       |
| > 14     | Wide dynamics, minimal limiting         |

| Correlation | WidthRatio | Diagnosis                 |
|-------------|------------|---------------------------|
| ~1.0        | ~0         | Mono or fake stereo       |
| 0.5-0.95    | 0.05-0.5   | Normal stereo             |
| < 0.5       | > 0.5      | Wide/decorrelated stereo  |
*/

// DynamicsProfile holds whole-buffer dynamics and stereo-image metrics.
type DynamicsProfile struct {
	PeakDb  float64 // max sample level, dBFS
	RmsDb   float64 // whole-buffer RMS, dBFS
	CrestDb float64 // PeakDb - RmsDb

	Correlation float64 // L/R Pearson correlation at zero lag; mono = 1.0
	WidthRatio  float64 // side/mid energy ratio; mono = 0
	ImbalanceDb float64 // left RMS minus right RMS; mono = 0

	ClippedSamples uint64  // samples at or above full scale
	DCOffsetDb     float64 // worst per-channel mean level, dB
}

// AnalysisResult aggregates all metrics for one input. Created once per
// file and never mutated afterwards.
type AnalysisResult struct {
	SampleRate  int
	Channels    int
	DurationSec float64
	Silent      bool

	Loudness *LoudnessMetrics
	Spectral *SpectralProfile
	Dynamics *DynamicsProfile
}

// Delta holds after-minus-before differences for every compared metric.
type Delta struct {
	LoudnessDb      float64 // integrated loudness delta
	LoudnessRangeLU float64
	RmsDb           float64
	TruePeakDb      float64
	CrestDb         float64
	WidthRatio      float64
	Correlation     float64
	TransientIndex  float64

	BandDeltaDb []float64 // per-band spectral delta, after - before in dB
	TiltDb      float64   // spectral tilt of the delta vector
}

// Suggestion is the categorical mastering-change readout derived from the
// delta vector. Label is always exactly one bucket from the ordered rule
// table; Intensity and Tone are the coarse preset dials.
type Suggestion struct {
	Label     string  // e.g. "louder-brighter", "no-significant-change"
	Intensity string  // low | balanced | high
	Tone      string  // warm | balanced | bright
	TiltDb    float64 // tilt indicator backing the tone call
	Notes     string
}

// ComparisonReport is the comparator's output. Before and After are shared
// references to the per-file results, not copies.
type ComparisonReport struct {
	Before *AnalysisResult
	After  *AnalysisResult

	BandCenters []float64 // shared band layout of both inputs
	Delta       Delta
	Suggestion  Suggestion
}
