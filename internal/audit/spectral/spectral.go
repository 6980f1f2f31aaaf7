// Package spectral computes the banded average spectrum of a signal:
// Hann-windowed FFT frames, power averaged across frames, then grouped
// into 1/3-octave bands and converted to dB for reporting.
package spectral

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/diapason/internal/audit/shared"
	"github.com/farcloser/diapason/internal/types"
	"github.com/farcloser/diapason/internal/window"
)

// Options configures the transform and framing.
type Options struct {
	FFTSize int // transform size (default 8192)
	HopSize int // frame hop (default FFTSize/4)

	// DropPartial discards a trailing partial frame instead of
	// zero-padding it. Padding is the default: boundary content stays in
	// the average at the cost of slightly diluted bins in the last frame.
	DropPartial bool
}

// DefaultOptions returns the transform configuration used for reporting.
func DefaultOptions() Options {
	return Options{
		FFTSize: 8192,
		HopSize: 2048,
	}
}

const (
	bandBaseHz   = 20.0 // lowest 1/3-octave center
	tiltHighHz   = 8000 // high-shelf region for tilt
	tiltLowLoHz  = 150  // low-shelf region for tilt
	tiltLowHiHz  = 300
	subLoHz      = 20 // sub-bass vs bass comparison for the sub-excess flag
	subHiHz      = 50
	bassHiHz     = 250
	subExcessDb  = 3.0
	fluxQuantile = 0.95
)

// bandStep is the 1/3-octave center ratio; band edges sit a sixth of an
// octave either side of the center.
var (
	bandStep = math.Pow(2, 1.0/3.0)
	edgeStep = math.Pow(2, 1.0/6.0)
)

// BandCenters returns the 1/3-octave center frequencies from 20 Hz up to
// Nyquist, ascending. The layout is a pure function of the sample rate, so
// two inputs at the same rate always get identical bands.
func BandCenters(sampleRate int) []float64 {
	nyquist := float64(sampleRate) / 2

	var centers []float64
	for f := bandBaseHz; f < nyquist; f *= bandStep {
		centers = append(centers, f)
	}

	return centers
}

// BandEdges returns the lower and upper edge of the band around center.
func BandEdges(center float64) (lo, hi float64) {
	return center / edgeStep, center * edgeStep
}

// Analyze computes the spectral profile of a mono signal. The only
// failure mode is an invalid framing configuration; an empty signal
// yields a profile with every band at the silence floor.
func Analyze(mono []float64, sampleRate int, opts Options) (*types.SpectralProfile, error) {
	if opts.FFTSize == 0 {
		opts.FFTSize = DefaultOptions().FFTSize
	}

	if opts.HopSize == 0 {
		opts.HopSize = opts.FFTSize / 4
	}

	centers := BandCenters(sampleRate)

	profile := &types.SpectralProfile{
		BandCenters: centers,
		BandDb:      make([]float64, len(centers)),
	}

	for i := range profile.BandDb {
		profile.BandDb[i] = shared.FloorDb
	}

	if len(mono) == 0 {
		return profile, nil
	}

	frames, err := window.Frames(mono, window.Config{
		Length:     opts.FFTSize,
		Hop:        opts.HopSize,
		PadPartial: !opts.DropPartial,
	})
	if err != nil {
		return nil, err
	}

	hann := makeHannWindow(opts.FFTSize)
	binCount := opts.FFTSize/2 + 1

	fft := fourier.NewFFT(opts.FFTSize)
	fftIn := make([]float64, opts.FFTSize)

	powerSum := make([]float64, binCount)
	prevMag := make([]float64, binCount)
	mag := make([]float64, binCount)

	var fluxes []float64

	frameCount := 0

	for frame := range frames {
		for i, s := range frame.Samples {
			fftIn[i] = s * hann[i]
		}

		coeffs := fft.Coefficients(nil, fftIn)

		var flux float64

		for i, c := range coeffs {
			m := math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
			mag[i] = m
			powerSum[i] += m * m

			// Positive spectral flux: energy that appeared since the
			// previous frame, the raw material of onsets.
			if frameCount > 0 {
				if d := m - prevMag[i]; d > 0 {
					flux += d
				}
			}
		}

		if frameCount > 0 {
			fluxes = append(fluxes, flux)
		}

		copy(prevMag, mag)
		frameCount++
	}

	if frameCount == 0 {
		return profile, nil
	}

	// Average power spectral density across frames. Averaging happens in
	// power; dB conversion is for reporting only.
	psd := make([]float64, binCount)
	for i := range psd {
		psd[i] = powerSum[i] / float64(frameCount)
	}

	binHz := float64(sampleRate) / float64(opts.FFTSize)

	for bi, center := range centers {
		lo, hi := BandEdges(center)
		profile.BandDb[bi] = shared.PowerDb(bandMeanPower(psd, lo, hi, binHz))
	}

	profile.SpectralCentroid = centroid(psd, binHz)
	profile.TiltDb = tilt(centers, profile.BandDb)
	profile.SubExcess = subExcess(psd, binHz)
	profile.TransientIndex = transientIndex(fluxes)

	return profile, nil
}

// bandMeanPower averages psd bins whose frequency falls in [lo, hi). A band
// narrower than one bin falls back to the bin nearest its center so every
// band stays defined.
func bandMeanPower(psd []float64, lo, hi, binHz float64) float64 {
	start := int(math.Ceil(lo / binHz))
	end := int(math.Ceil(hi / binHz))

	start = max(start, 0)
	end = min(end, len(psd))

	if start >= end {
		center := int(math.Round((lo + hi) / 2 / binHz))
		if center < 0 || center >= len(psd) {
			return 0
		}

		return psd[center]
	}

	var sum float64
	for i := start; i < end; i++ {
		sum += psd[i]
	}

	return sum / float64(end-start)
}

// tilt is the mean high-band level minus the mean low-band level, the
// brightness indicator backing the tone suggestion.
func tilt(centers, bandDb []float64) float64 {
	var (
		hiSum float64
		hiN   int
		loSum float64
		loN   int
	)

	for i, c := range centers {
		if c >= tiltHighHz {
			hiSum += bandDb[i]
			hiN++
		}

		if c >= tiltLowLoHz && c <= tiltLowHiHz {
			loSum += bandDb[i]
			loN++
		}
	}

	if hiN == 0 || loN == 0 {
		return 0
	}

	return hiSum/float64(hiN) - loSum/float64(loN)
}

// subExcess flags sub-bass (20-50 Hz) running more than 3 dB above the
// bass region (50-250 Hz), the usual sign of an unfiltered rumble problem.
func subExcess(psd []float64, binHz float64) bool {
	sub := shared.PowerDb(bandMeanPower(psd, subLoHz, subHiHz, binHz))
	bass := shared.PowerDb(bandMeanPower(psd, subHiHz, bassHiHz, binHz))

	return sub-bass > subExcessDb
}

func centroid(psd []float64, binHz float64) float64 {
	var weighted, total float64

	for i, p := range psd {
		weighted += float64(i) * binHz * p
		total += p
	}

	if total == 0 {
		return 0
	}

	return weighted / total
}

// transientIndex is the 95th percentile of positive spectral flux across
// frames: high for punchy material, low for sustained pads or heavily
// limited masters.
func transientIndex(fluxes []float64) float64 {
	if len(fluxes) == 0 {
		return 0
	}

	sorted := make([]float64, len(fluxes))
	copy(sorted, fluxes)
	sort.Float64s(sorted)

	return stat.Quantile(fluxQuantile, stat.Empirical, sorted, nil)
}

func makeHannWindow(size int) []float64 {
	win := make([]float64, size)
	for i := range win {
		win[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}

	return win
}
