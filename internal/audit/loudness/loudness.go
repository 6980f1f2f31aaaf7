// Package loudness measures gated program loudness per ITU-R BS.1770 /
// EBU R128: K-weighted mean-square energy in sliding windows, an absolute
// silence gate, then a relative gate against the ungated mean.
package loudness

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/diapason/internal/audit/shared"
	"github.com/farcloser/diapason/internal/types"
)

// Options configures the gating.
type Options struct {
	// AbsoluteGateDb excludes windows below this loudness from integration
	// so silence cannot skew the result (default -70).
	AbsoluteGateDb float64
}

// DefaultOptions returns the EBU R128 gate setting.
func DefaultOptions() Options {
	return Options{
		AbsoluteGateDb: -70.0,
	}
}

const (
	momentaryMs     = 400 // momentary window per BS.1770
	shortTermSec    = 3   // short-term window per EBU R128
	hopMs           = 100 // measurement hop for both windows
	relativeGateLU  = 10  // integration gate below ungated mean
	lraGateLU       = 20  // LRA gate below ungated mean
	energyOffsetLU  = -0.691
	lraLowQuantile  = 0.10
	lraHighQuantile = 0.95
)

// Analyze measures integrated loudness, loudness range, and windowed
// maxima for the buffer. An all-silent input yields a result with the
// Silent flag set and levels clamped at the silence floor, never an error
// and never -Inf. True peak fields are left at the floor; the caller fills
// them from the true peak detector.
func Analyze(buf *types.AudioBuffer, opts Options) *types.LoudnessMetrics {
	if opts.AbsoluteGateDb == 0 {
		opts.AbsoluteGateDb = DefaultOptions().AbsoluteGateDb
	}

	sampleRate := buf.SampleRate()
	numChannels := buf.Channels()
	frames := buf.Frames()

	pre, rlb := kWeightingFilters(sampleRate)
	preState := make([]biquadState, numChannels)
	rlbState := make([]biquadState, numChannels)

	// Integer division truncates to zero below 10 Hz; any valid buffer
	// must still measure, so window and hop sizes floor at one sample.
	momentarySize := max(sampleRate*momentaryMs/1000, 1)
	shortTermSize := max(sampleRate*shortTermSec, 1)
	hopSize := max(sampleRate*hopMs/1000, 1)

	var momentaryPowers []float64

	var shortTermPowers []float64

	momentaryMax := shared.FloorDb
	shortTermMax := shared.FloorDb

	momentaryBuf := make([]float64, momentarySize)
	shortTermBuf := make([]float64, shortTermSize)

	var (
		momentaryPos, shortTermPos       int
		momentarySum, shortTermSum       float64
		momentaryFilled, shortTermFilled int
	)

	for i := range frames {
		var framePower float64

		for ch := range numChannels {
			filtered := preState[ch].process(&pre, buf.Channel(ch)[i])
			filtered = rlbState[ch].process(&rlb, filtered)

			framePower += filtered * filtered
		}

		framePower /= float64(numChannels)

		// Momentary window (ring buffer).
		old := momentaryBuf[momentaryPos]
		momentaryBuf[momentaryPos] = framePower
		momentarySum = momentarySum - old + framePower

		momentaryPos = (momentaryPos + 1) % momentarySize
		if momentaryFilled < momentarySize {
			momentaryFilled++
		}

		// Short-term window (ring buffer).
		old = shortTermBuf[shortTermPos]
		shortTermBuf[shortTermPos] = framePower
		shortTermSum = shortTermSum - old + framePower

		shortTermPos = (shortTermPos + 1) % shortTermSize
		if shortTermFilled < shortTermSize {
			shortTermFilled++
		}

		if (i+1)%hopSize != 0 {
			continue
		}

		if momentaryFilled == momentarySize {
			power := momentarySum / float64(momentarySize)
			momentaryPowers = append(momentaryPowers, power)

			if lufs := blockLoudness(power); lufs > momentaryMax {
				momentaryMax = lufs
			}
		}

		if shortTermFilled == shortTermSize {
			power := shortTermSum / float64(shortTermSize)
			shortTermPowers = append(shortTermPowers, power)

			if lufs := blockLoudness(power); lufs > shortTermMax {
				shortTermMax = lufs
			}
		}
	}

	// Inputs shorter than one momentary window still get a single block so
	// brief test tones measure something rather than nothing.
	if len(momentaryPowers) == 0 && momentaryFilled > 0 {
		power := momentarySum / float64(momentaryFilled)
		momentaryPowers = append(momentaryPowers, power)

		if lufs := blockLoudness(power); lufs > momentaryMax {
			momentaryMax = lufs
		}
	}

	integrated, silent := integratedLoudness(momentaryPowers, opts.AbsoluteGateDb)
	lra := loudnessRange(shortTermPowers, opts.AbsoluteGateDb)

	if silent {
		return &types.LoudnessMetrics{
			IntegratedLUFS: shared.FloorDb,
			LoudnessRange:  0,
			ShortTermMax:   shared.FloorDb,
			MomentaryMax:   shared.FloorDb,
			TruePeakDb:     shared.FloorDb,
			SamplePeakDb:   shared.FloorDb,
			Silent:         true,
		}
	}

	return &types.LoudnessMetrics{
		IntegratedLUFS: integrated,
		LoudnessRange:  lra,
		ShortTermMax:   shortTermMax,
		MomentaryMax:   momentaryMax,
		TruePeakDb:     shared.FloorDb,
		SamplePeakDb:   shared.FloorDb,
	}
}

func blockLoudness(power float64) float64 {
	if power <= 0 {
		return shared.FloorDb
	}

	return energyOffsetLU + 10*math.Log10(power)
}

// integratedLoudness applies the two-stage gate: absolute, then relative
// at -10 LU below the ungated mean. Returns silent=true when no block
// passes the absolute gate.
func integratedLoudness(powers []float64, absoluteGateDb float64) (lufs float64, silent bool) {
	if len(powers) == 0 {
		return shared.FloorDb, true
	}

	var (
		sum   float64
		count int
	)

	for _, p := range powers {
		if blockLoudness(p) > absoluteGateDb {
			sum += p
			count++
		}
	}

	if count == 0 {
		return shared.FloorDb, true
	}

	relativeThreshold := blockLoudness(sum/float64(count)) - relativeGateLU

	sum = 0
	count = 0

	for _, p := range powers {
		if blockLoudness(p) > relativeThreshold {
			sum += p
			count++
		}
	}

	if count == 0 {
		return shared.FloorDb, true
	}

	return blockLoudness(sum / float64(count)), false
}

// loudnessRange computes LRA as the spread between the 10th and 95th
// percentile of gated short-term loudness, per EBU TECH 3342.
func loudnessRange(powers []float64, absoluteGateDb float64) float64 {
	if len(powers) < 2 {
		return 0
	}

	var (
		kept []float64
		sum  float64
	)

	for _, p := range powers {
		if blockLoudness(p) > absoluteGateDb {
			kept = append(kept, p)
			sum += p
		}
	}

	if len(kept) < 2 {
		return 0
	}

	// The relative gate is anchored in the power domain, like the
	// integration gate, per EBU TECH 3342.
	relativeThreshold := blockLoudness(sum/float64(len(kept))) - lraGateLU

	var gated []float64

	for _, p := range kept {
		if lufs := blockLoudness(p); lufs > relativeThreshold {
			gated = append(gated, lufs)
		}
	}

	if len(gated) < 2 {
		return 0
	}

	sort.Float64s(gated)

	low := stat.Quantile(lraLowQuantile, stat.Empirical, gated, nil)
	high := stat.Quantile(lraHighQuantile, stat.Empirical, gated, nil)

	return high - low
}
