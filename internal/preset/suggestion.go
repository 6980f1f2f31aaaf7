// Package preset maps comparison deltas to a categorical suggestion and
// derives concrete mastering parameters from a single analysis.
package preset

import (
	"math"

	"github.com/farcloser/diapason/internal/types"
)

// Options configures the significance thresholds.
type Options struct {
	EpsilonLoudnessDb float64 // deltas within this count as "no change" (default 0.5)
	EpsilonBandDb     float64 // per-band significance threshold (default 1.0)
	TiltThresholdDb   float64 // tilt beyond this reads as bright/warm (default 0.75)
}

// DefaultOptions returns the significance thresholds.
func DefaultOptions() Options {
	return Options{
		EpsilonLoudnessDb: 0.5,
		EpsilonBandDb:     1.0,
		TiltThresholdDb:   0.75,
	}
}

// Suggestion labels, ordered roughly by specificity. Every delta vector
// maps to exactly one of these.
const (
	LabelNoChange        = "no-significant-change"
	LabelLouderBrighter  = "louder-brighter"
	LabelLouderWarmer    = "louder-warmer"
	LabelLouder          = "louder"
	LabelQuieterBrighter = "quieter-brighter"
	LabelQuieterWarmer   = "quieter-warmer"
	LabelQuieter         = "quieter"
	LabelBrighter        = "brighter"
	LabelWarmer          = "warmer"
	LabelMoreCompressed  = "more-compressed"
	LabelMoreDynamic     = "more-dynamic"
	LabelWider           = "wider"
	LabelNarrower        = "narrower"
	LabelUncategorized   = "uncategorized"
)

// rule pairs a label with its predicate. Rules are evaluated in order and
// the first match wins; the final rule always matches.
type rule struct {
	label string
	match func(d types.Delta) bool
}

// Suggest maps a delta vector to its suggestion. The rule table is fixed
// and totally ordered with a guaranteed fallback, so the mapping is
// deterministic and total.
func Suggest(delta types.Delta, opts Options) types.Suggestion {
	if opts.EpsilonLoudnessDb == 0 {
		opts.EpsilonLoudnessDb = DefaultOptions().EpsilonLoudnessDb
	}

	if opts.EpsilonBandDb == 0 {
		opts.EpsilonBandDb = DefaultOptions().EpsilonBandDb
	}

	if opts.TiltThresholdDb == 0 {
		opts.TiltThresholdDb = DefaultOptions().TiltThresholdDb
	}

	epsL := opts.EpsilonLoudnessDb
	epsB := opts.EpsilonBandDb
	tiltTh := opts.TiltThresholdDb

	louder := func(d types.Delta) bool { return d.LoudnessDb > epsL }
	quieter := func(d types.Delta) bool { return d.LoudnessDb < -epsL }
	brighter := func(d types.Delta) bool { return d.TiltDb > tiltTh }
	warmer := func(d types.Delta) bool { return d.TiltDb < -tiltTh }

	rules := []rule{
		{LabelNoChange, func(d types.Delta) bool {
			return math.Abs(d.LoudnessDb) <= epsL &&
				maxAbs(d.BandDeltaDb) <= epsB &&
				math.Abs(d.CrestDb) <= epsL
		}},
		{LabelLouderBrighter, func(d types.Delta) bool { return louder(d) && brighter(d) }},
		{LabelLouderWarmer, func(d types.Delta) bool { return louder(d) && warmer(d) }},
		{LabelLouder, louder},
		{LabelQuieterBrighter, func(d types.Delta) bool { return quieter(d) && brighter(d) }},
		{LabelQuieterWarmer, func(d types.Delta) bool { return quieter(d) && warmer(d) }},
		{LabelQuieter, quieter},
		{LabelBrighter, brighter},
		{LabelWarmer, warmer},
		{LabelMoreCompressed, func(d types.Delta) bool { return d.CrestDb < -epsL }},
		{LabelMoreDynamic, func(d types.Delta) bool { return d.CrestDb > epsL }},
		{LabelWider, func(d types.Delta) bool { return d.WidthRatio > 0.1 }},
		{LabelNarrower, func(d types.Delta) bool { return d.WidthRatio < -0.1 }},
		{LabelUncategorized, func(types.Delta) bool { return true }},
	}

	label := LabelUncategorized

	for _, r := range rules {
		if r.match(delta) {
			label = r.label

			break
		}
	}

	return types.Suggestion{
		Label:     label,
		Intensity: intensity(delta.LoudnessDb),
		Tone:      tone(delta.TiltDb, tiltTh),
		TiltDb:    delta.TiltDb,
		Notes:     "Heuristic based on loudness change and spectral tilt (>=8 kHz vs 150-300 Hz).",
	}
}

// intensity maps the loudness delta to the preset intensity dial.
func intensity(loudnessDelta float64) string {
	switch {
	case loudnessDelta < -1.0:
		return "low"
	case loudnessDelta > 1.0:
		return "high"
	default:
		return "balanced"
	}
}

// tone maps the tilt indicator to the preset tone dial.
func tone(tiltDb, threshold float64) string {
	switch {
	case tiltDb > threshold:
		return "bright"
	case tiltDb < -threshold:
		return "warm"
	default:
		return "balanced"
	}
}

func maxAbs(values []float64) float64 {
	var worst float64

	for _, v := range values {
		if abs := math.Abs(v); abs > worst {
			worst = abs
		}
	}

	return worst
}
