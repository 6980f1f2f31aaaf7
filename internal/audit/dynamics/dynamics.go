// Package dynamics measures whole-buffer level statistics and the stereo
// image: crest factor over the full signal (not per-frame), zero-lag
// channel correlation, and mid/side width.
package dynamics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/farcloser/diapason/internal/audit/shared"
	"github.com/farcloser/diapason/internal/types"
)

// Analyze computes the dynamics profile. Mono inputs report correlation
// 1.0 by convention and zero width; a silent buffer reports floor levels
// and a zero crest factor.
func Analyze(buf *types.AudioBuffer) *types.DynamicsProfile {
	frames := buf.Frames()
	numChannels := buf.Channels()

	if frames == 0 {
		return &types.DynamicsProfile{
			PeakDb:      shared.FloorDb,
			RmsDb:       shared.FloorDb,
			Correlation: 1.0,
			DCOffsetDb:  shared.FloorDb,
		}
	}

	var (
		peak       float64
		sumSq      float64
		clipped    uint64
		worstDC    float64
		channelRms [types.MaxChannels]float64
	)

	for ch := range numChannels {
		samples := buf.Channel(ch)

		var chSumSq, chSum float64

		for _, s := range samples {
			abs := math.Abs(s)
			if abs > peak {
				peak = abs
			}

			if abs >= shared.ClipLevel {
				clipped++
			}

			chSumSq += s * s
			chSum += s
		}

		sumSq += chSumSq
		channelRms[ch] = math.Sqrt(chSumSq / float64(frames))

		if dc := math.Abs(chSum / float64(frames)); dc > worstDC {
			worstDC = dc
		}
	}

	rms := math.Sqrt(sumSq / float64(frames*numChannels))

	profile := &types.DynamicsProfile{
		PeakDb:         shared.Db(peak),
		RmsDb:          shared.Db(rms),
		ClippedSamples: clipped,
		DCOffsetDb:     shared.Db(worstDC),
		Correlation:    1.0,
	}

	if peak > 0 && rms > 0 {
		profile.CrestDb = profile.PeakDb - profile.RmsDb
	}

	if numChannels == 2 {
		analyzeStereo(buf, profile, channelRms[0], channelRms[1])
	}

	return profile
}

func analyzeStereo(buf *types.AudioBuffer, profile *types.DynamicsProfile, leftRms, rightRms float64) {
	left := buf.Channel(0)
	right := buf.Channel(1)

	// A channel with no variance makes Pearson correlation undefined;
	// treat that as mono-like, matching the mono convention.
	if leftRms == 0 || rightRms == 0 {
		profile.Correlation = 1.0
		profile.WidthRatio = 0

		return
	}

	profile.Correlation = clampCorrelation(stat.Correlation(left, right, nil))

	var midEnergy, sideEnergy float64

	for i := range left {
		mid := (left[i] + right[i]) / 2
		side := (left[i] - right[i]) / 2

		midEnergy += mid * mid
		sideEnergy += side * side
	}

	if midEnergy > 0 {
		profile.WidthRatio = sideEnergy / midEnergy
	}

	profile.ImbalanceDb = shared.Db(leftRms) - shared.Db(rightRms)
}

func clampCorrelation(c float64) float64 {
	if math.IsNaN(c) {
		return 1.0
	}

	return math.Max(-1, math.Min(1, c))
}
