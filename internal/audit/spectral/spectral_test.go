package spectral_test

import (
	"errors"
	"math"
	"testing"

	"github.com/farcloser/diapason/internal/audit/shared"
	"github.com/farcloser/diapason/internal/audit/spectral"
	"github.com/farcloser/diapason/internal/types"
)

func sine(freq, amplitude float64, sampleRate, frames int) []float64 {
	samples := make([]float64, frames)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}

	return samples
}

func TestBandCentersLayout(t *testing.T) {
	centers := spectral.BandCenters(44100)

	if len(centers) == 0 {
		t.Fatal("no bands")
	}

	if centers[0] != 20.0 {
		t.Errorf("first center = %.2f, expected 20", centers[0])
	}

	nyquist := 44100.0 / 2

	for i := 1; i < len(centers); i++ {
		if centers[i] <= centers[i-1] {
			t.Fatalf("centers not ascending at %d: %.2f <= %.2f", i, centers[i], centers[i-1])
		}

		ratio := centers[i] / centers[i-1]
		if math.Abs(ratio-math.Pow(2, 1.0/3.0)) > 1e-9 {
			t.Errorf("center ratio at %d = %.6f, expected 2^(1/3)", i, ratio)
		}
	}

	if last := centers[len(centers)-1]; last >= nyquist {
		t.Errorf("last center %.2f not below Nyquist %.2f", last, nyquist)
	}
}

func TestBandCentersDeterministic(t *testing.T) {
	first := spectral.BandCenters(48000)
	second := spectral.BandCenters(48000)

	if len(first) != len(second) {
		t.Fatalf("band counts differ: %d vs %d", len(first), len(second))
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("center %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestAnalyzeSineLandsInItsBand(t *testing.T) {
	sampleRate := 44100
	profile, err := spectral.Analyze(sine(1000, 0.5, sampleRate, sampleRate*3), sampleRate, spectral.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	argmax := 0
	for i, db := range profile.BandDb {
		if db > profile.BandDb[argmax] {
			argmax = i
		}
	}

	center := profile.BandCenters[argmax]

	// 1 kHz belongs to the band centered near 1016 Hz (20 * 2^(17/3)).
	if center < 900 || center > 1150 {
		t.Errorf("loudest band centered at %.1f Hz for a 1 kHz tone", center)
	}
}

func TestAnalyzeBrightnessOrdering(t *testing.T) {
	sampleRate := 44100
	frames := sampleRate * 2

	dark, err := spectral.Analyze(sine(200, 0.5, sampleRate, frames), sampleRate, spectral.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze dark: %v", err)
	}

	bright, err := spectral.Analyze(sine(10000, 0.5, sampleRate, frames), sampleRate, spectral.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze bright: %v", err)
	}

	if bright.SpectralCentroid <= dark.SpectralCentroid {
		t.Errorf(
			"centroid %.1f for 10 kHz tone not above %.1f for 200 Hz tone",
			bright.SpectralCentroid, dark.SpectralCentroid,
		)
	}

	if bright.TiltDb <= dark.TiltDb {
		t.Errorf("tilt %.2f for 10 kHz tone not above %.2f for 200 Hz tone", bright.TiltDb, dark.TiltDb)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	profile, err := spectral.Analyze(nil, 44100, spectral.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(profile.BandDb) != len(spectral.BandCenters(44100)) {
		t.Fatalf("band count %d does not match layout", len(profile.BandDb))
	}

	for i, db := range profile.BandDb {
		if db != shared.FloorDb {
			t.Errorf("band %d = %.2f for empty input, expected floor", i, db)
		}
	}
}

func TestAnalyzeSubExcess(t *testing.T) {
	sampleRate := 44100
	frames := sampleRate * 2

	rumble, err := spectral.Analyze(sine(30, 0.5, sampleRate, frames), sampleRate, spectral.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !rumble.SubExcess {
		t.Error("30 Hz tone not flagged as sub-bass excess")
	}

	normal, err := spectral.Analyze(sine(120, 0.5, sampleRate, frames), sampleRate, spectral.DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if normal.SubExcess {
		t.Error("120 Hz tone flagged as sub-bass excess")
	}
}

func TestAnalyzeInvalidHop(t *testing.T) {
	_, err := spectral.Analyze(sine(1000, 0.5, 44100, 44100), 44100, spectral.Options{
		FFTSize: 8192,
		HopSize: -1,
	})
	if !errors.Is(err, types.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
