package preset

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Plan holds concrete mastering parameters derived from one analysis:
// loudness normalization targets, shelving EQ, compression, and an
// optional stereo-width correction.
type Plan struct {
	// Loudness normalization targets (EBU R128 loudnorm semantics).
	TargetLUFS float64 // integrated loudness target
	TargetTP   float64 // true peak ceiling, dBTP
	TargetLRA  float64 // loudness range target, LU

	// Shelving EQ from the tilt reading.
	LowShelfGainDb  float64 // at 250 Hz
	HighShelfGainDb float64 // at 8 kHz
	HighPass        bool    // 30 Hz high-pass when sub-bass is excessive

	// Compression from RMS level and loudness range.
	CompRatio       float64
	CompThresholdDb float64
	CompAttackMs    int
	CompReleaseMs   int

	StereoWiden bool // image is extremely narrow
}

const (
	shelfLowHz  = 250
	shelfHighHz = 8000

	compAttackMs  = 20
	compReleaseMs = 150

	narrowCorrelation = 0.9
	narrowWidthRatio  = 0.1
)

// PlannerInput is the slice of an analysis the planner needs.
type PlannerInput struct {
	IntegratedLUFS float64
	LoudnessRange  float64
	TruePeakDb     float64
	RmsDb          float64
	TiltDb         float64
	SubExcess      bool
	Correlation    float64
	WidthRatio     float64
}

// NewPlan derives mastering parameters from an analysis. Quiet material
// gets more gain than loud material so already-crushed masters are not
// pushed further; EQ counteracts the measured tilt; compression adapts to
// how much dynamic range is left to work with.
func NewPlan(in PlannerInput) Plan {
	plan := Plan{
		CompAttackMs:  compAttackMs,
		CompReleaseMs: compReleaseMs,
	}

	// Loudness target: piecewise-linear over input loudness. Quiet inputs
	// target -16, loud inputs only -12.
	plan.TargetLUFS = clamp(
		interpolate(
			[]float64{-30, -22, -16, -12, -10},
			[]float64{-18, -16, -14.5, -13, -12},
			in.IntegratedLUFS,
		),
		-16.5, -11.5,
	)

	// LRA target: preserve more dynamics when the input has them.
	switch {
	case in.LoudnessRange >= 20:
		plan.TargetLRA = 8.0
	case in.LoudnessRange >= 10:
		plan.TargetLRA = 6.0
	default:
		plan.TargetLRA = 5.0
	}

	// True peak ceiling: extra headroom when the input already rides 0 dBTP.
	if in.TruePeakDb >= -0.1 {
		plan.TargetTP = -1.0
	} else {
		plan.TargetTP = -0.5
	}

	// Shelf gains counteract the tilt, capped around +-3 dB.
	tiltDb := clamp(in.TiltDb, -20, 20)
	plan.HighShelfGainDb = round2(interpolate(
		[]float64{-20, 0, 20},
		[]float64{3.0, 0.0, -3.0},
		tiltDb,
	))
	plan.LowShelfGainDb = round2(interpolate(
		[]float64{-20, 0, 20},
		[]float64{-2.5, 0.0, 2.0},
		tiltDb,
	))
	plan.HighPass = in.SubExcess

	// Compression: gentler on dynamic or quiet material.
	switch {
	case in.LoudnessRange >= 15 || in.RmsDb < -24:
		plan.CompRatio = 1.3
		plan.CompThresholdDb = in.RmsDb + 6
	case in.LoudnessRange >= 8 && in.RmsDb < -20:
		plan.CompRatio = 1.5
		plan.CompThresholdDb = in.RmsDb + 4
	case in.RmsDb < -16:
		plan.CompRatio = 1.8
		plan.CompThresholdDb = in.RmsDb + 2
	default:
		plan.CompRatio = 2.0
		plan.CompThresholdDb = in.RmsDb
	}

	plan.StereoWiden = in.Correlation > narrowCorrelation && in.WidthRatio < narrowWidthRatio

	return plan
}

// FilterChain renders the plan as an ffmpeg audio filter chain.
func (p Plan) FilterChain() string {
	var filters []string

	if p.HighPass {
		filters = append(filters, "highpass=f=30:width=0.7")
	}

	filters = append(filters,
		fmt.Sprintf("bass=g=%.2f:f=%d:w=1.0", p.LowShelfGainDb, shelfLowHz),
		fmt.Sprintf("treble=g=%.2f:f=%d:w=0.8", p.HighShelfGainDb, shelfHighHz),
		fmt.Sprintf(
			"acompressor=ratio=%.2f:threshold=%.1fdB:attack=%d:release=%d",
			p.CompRatio, p.CompThresholdDb, p.CompAttackMs, p.CompReleaseMs,
		),
	)

	if p.StereoWiden {
		filters = append(filters, "stereowiden=delay=10:drymix=0.9:crossfeed=0.4:feedback=0.4")
	}

	filters = append(filters, fmt.Sprintf(
		"loudnorm=I=%.2f:TP=%.1f:LRA=%.1f:print_format=summary",
		p.TargetLUFS, p.TargetTP, p.TargetLRA,
	))

	return strings.Join(filters, ",")
}

// interpolate evaluates a piecewise-linear curve through (xs, ys) at x,
// clamping x to the curve's domain.
func interpolate(xs, ys []float64, x float64) float64 {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		// xs are fixed ascending literals; Fit cannot fail on them.
		return ys[len(ys)/2]
	}

	return pl.Predict(clamp(x, xs[0], xs[len(xs)-1]))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
