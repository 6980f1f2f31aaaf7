package preset_test

import (
	"testing"

	"github.com/farcloser/diapason/internal/preset"
	"github.com/farcloser/diapason/internal/types"
)

func TestSuggestRuleTable(t *testing.T) {
	cases := []struct {
		name  string
		delta types.Delta
		label string
	}{
		{"zero delta", types.Delta{}, preset.LabelNoChange},
		{"tiny delta under epsilon", types.Delta{LoudnessDb: 0.3, TiltDb: 0.2}, preset.LabelNoChange},
		{"louder and brighter", types.Delta{LoudnessDb: 3, TiltDb: 2}, preset.LabelLouderBrighter},
		{"louder and warmer", types.Delta{LoudnessDb: 3, TiltDb: -2}, preset.LabelLouderWarmer},
		{"just louder", types.Delta{LoudnessDb: 3}, preset.LabelLouder},
		{"quieter and brighter", types.Delta{LoudnessDb: -3, TiltDb: 2}, preset.LabelQuieterBrighter},
		{"quieter and warmer", types.Delta{LoudnessDb: -3, TiltDb: -2}, preset.LabelQuieterWarmer},
		{"just quieter", types.Delta{LoudnessDb: -3}, preset.LabelQuieter},
		{"brighter only", types.Delta{TiltDb: 2, BandDeltaDb: []float64{0, 3}}, preset.LabelBrighter},
		{"warmer only", types.Delta{TiltDb: -2, BandDeltaDb: []float64{3, 0}}, preset.LabelWarmer},
		{"more compressed", types.Delta{CrestDb: -2, BandDeltaDb: []float64{2}}, preset.LabelMoreCompressed},
		{"more dynamic", types.Delta{CrestDb: 2, BandDeltaDb: []float64{2}}, preset.LabelMoreDynamic},
		{"wider", types.Delta{WidthRatio: 0.3, BandDeltaDb: []float64{2}}, preset.LabelWider},
		{"narrower", types.Delta{WidthRatio: -0.3, BandDeltaDb: []float64{2}}, preset.LabelNarrower},
		{"band change only", types.Delta{BandDeltaDb: []float64{2}}, preset.LabelUncategorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := preset.Suggest(tc.delta, preset.DefaultOptions())
			if got.Label != tc.label {
				t.Errorf("label = %q, expected %q", got.Label, tc.label)
			}
		})
	}
}

func TestSuggestDeterministic(t *testing.T) {
	delta := types.Delta{LoudnessDb: 2, TiltDb: 1.5, CrestDb: -1, BandDeltaDb: []float64{1, 2, -1}}

	first := preset.Suggest(delta, preset.DefaultOptions())
	second := preset.Suggest(delta, preset.DefaultOptions())

	if first != second {
		t.Errorf("same delta produced different suggestions: %+v vs %+v", first, second)
	}
}

func TestSuggestDials(t *testing.T) {
	got := preset.Suggest(types.Delta{LoudnessDb: 3, TiltDb: 2}, preset.DefaultOptions())

	if got.Intensity != "high" {
		t.Errorf("intensity = %q for +3 dB, expected high", got.Intensity)
	}

	if got.Tone != "bright" {
		t.Errorf("tone = %q for +2 dB tilt, expected bright", got.Tone)
	}

	got = preset.Suggest(types.Delta{LoudnessDb: -3, TiltDb: -2}, preset.DefaultOptions())

	if got.Intensity != "low" || got.Tone != "warm" {
		t.Errorf("dials = %q/%q for -3 dB / -2 dB tilt, expected low/warm", got.Intensity, got.Tone)
	}

	got = preset.Suggest(types.Delta{}, preset.DefaultOptions())

	if got.Intensity != "balanced" || got.Tone != "balanced" {
		t.Errorf("dials = %q/%q for zero delta, expected balanced/balanced", got.Intensity, got.Tone)
	}
}

func TestSuggestZeroOptionsFallBack(t *testing.T) {
	got := preset.Suggest(types.Delta{LoudnessDb: 0.3}, preset.Options{})

	if got.Label != preset.LabelNoChange {
		t.Errorf("label = %q with zero options, expected defaults to apply", got.Label)
	}
}
