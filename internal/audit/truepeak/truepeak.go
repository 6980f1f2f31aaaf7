// Package truepeak estimates inter-sample peaks by 4x polyphase
// oversampling per ITU-R BS.1770: a sample peak only bounds the digital
// code values, while the reconstructed waveform can overshoot between them.
package truepeak

import (
	"math"

	"github.com/farcloser/diapason/internal/audit/shared"
	"github.com/farcloser/diapason/internal/types"
)

const (
	oversample   = 4  // 4x oversampling per ITU-R BS.1770
	tapsPerPhase = 12 // filter taps per phase
	totalTaps    = oversample * tapsPerPhase
)

// Polyphase filter coefficients for 4x oversampling, generated from a
// windowed sinc with a Kaiser window (beta=5).
var polyphaseCoeffs [oversample][tapsPerPhase]float64

func init() {
	// Lowpass at 0.25 normalized frequency (Nyquist of the original signal).
	beta := 5.0

	for phase := range oversample {
		for tap := range tapsPerPhase {
			n := tap*oversample + phase
			center := float64(totalTaps-1) / 2.0

			x := float64(n) - center

			var sinc float64
			if math.Abs(x) < 1e-10 {
				sinc = 1.0
			} else {
				sinc = math.Sin(math.Pi*x/float64(oversample)) / (math.Pi * x / float64(oversample))
			}

			alpha := (float64(n) - center) / center
			if math.Abs(alpha) <= 1.0 {
				window := bessel0(beta*math.Sqrt(1-alpha*alpha)) / bessel0(beta)
				polyphaseCoeffs[phase][tap] = sinc * window * float64(oversample)
			}
		}
	}

	// Normalize each phase to unity gain.
	for phase := range oversample {
		var sum float64
		for tap := range tapsPerPhase {
			sum += polyphaseCoeffs[phase][tap]
		}

		for tap := range tapsPerPhase {
			polyphaseCoeffs[phase][tap] /= sum
		}
	}
}

// bessel0 is the modified Bessel function of the first kind, order 0.
func bessel0(x float64) float64 {
	sum := 1.0
	term := 1.0

	for k := 1; k <= 25; k++ {
		term *= (x * x) / (4.0 * float64(k) * float64(k))
		sum += term

		if term < 1e-12 {
			break
		}
	}

	return sum
}

// Result holds the peak measurements for one buffer.
type Result struct {
	TruePeakDb   float64 // max reconstructed level; > 0 = inter-sample over
	SamplePeakDb float64 // max original sample level
	ISPCount     uint64  // inter-sample peaks above 0 dBFS
	ISPMaxDb     float64 // worst overshoot above 0 dBFS
}

// Detect runs the oversampling filter over every channel and returns the
// worst-case peaks.
func Detect(buf *types.AudioBuffer) *Result {
	var (
		samplePeak float64
		truePeak   float64
		ispCount   uint64
		ispMax     float64
	)

	history := make([]float64, tapsPerPhase)

	for ch := range buf.Channels() {
		clear(history)

		for _, sample := range buf.Channel(ch) {
			if abs := math.Abs(sample); abs > samplePeak {
				samplePeak = abs
			}

			copy(history[0:], history[1:])
			history[tapsPerPhase-1] = sample

			for phase := range oversample {
				var interp float64
				for tap := range tapsPerPhase {
					interp += history[tap] * polyphaseCoeffs[phase][tap]
				}

				absInterp := math.Abs(interp)
				if absInterp > truePeak {
					truePeak = absInterp
				}

				if absInterp > 1.0 {
					ispCount++

					if overshoot := 20 * math.Log10(absInterp); overshoot > ispMax {
						ispMax = overshoot
					}
				}
			}
		}
	}

	return &Result{
		TruePeakDb:   shared.Db(truePeak),
		SamplePeakDb: shared.Db(samplePeak),
		ISPCount:     ispCount,
		ISPMaxDb:     ispMax,
	}
}
