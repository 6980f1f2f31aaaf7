package diapason

import (
	"fmt"

	"github.com/farcloser/diapason/internal/preset"
)

// Plan holds concrete mastering parameters derived from one analysis.
type Plan = preset.Plan

// PlanFor derives mastering parameters (loudness normalization targets,
// shelving EQ, compression, stereo width) from a completed analysis.
func PlanFor(result *AnalysisResult) (Plan, error) {
	if result == nil || result.Loudness == nil || result.Spectral == nil || result.Dynamics == nil {
		return Plan{}, fmt.Errorf("%w: incomplete analysis result", ErrInvalidConfiguration)
	}

	return preset.NewPlan(preset.PlannerInput{
		IntegratedLUFS: result.Loudness.IntegratedLUFS,
		LoudnessRange:  result.Loudness.LoudnessRange,
		TruePeakDb:     result.Loudness.TruePeakDb,
		RmsDb:          result.Dynamics.RmsDb,
		TiltDb:         result.Spectral.TiltDb,
		SubExcess:      result.Spectral.SubExcess,
		Correlation:    result.Dynamics.Correlation,
		WidthRatio:     result.Dynamics.WidthRatio,
	}), nil
}
