package output_test

import (
	"strings"
	"testing"

	"github.com/farcloser/diapason/internal/output"
	"github.com/farcloser/diapason/internal/types"
)

func sampleReport() *types.ComparisonReport {
	before := &types.AnalysisResult{
		SampleRate:  44100,
		Channels:    2,
		DurationSec: 10,
		Loudness:    &types.LoudnessMetrics{IntegratedLUFS: -18},
		Spectral:    &types.SpectralProfile{BandCenters: []float64{20, 25.2}, BandDb: []float64{-40, -42}},
		Dynamics:    &types.DynamicsProfile{RmsDb: -20, Correlation: 0.8},
	}
	after := &types.AnalysisResult{
		SampleRate:  44100,
		Channels:    2,
		DurationSec: 10,
		Loudness:    &types.LoudnessMetrics{IntegratedLUFS: -14},
		Spectral:    &types.SpectralProfile{BandCenters: []float64{20, 25.2}, BandDb: []float64{-38, -41}},
		Dynamics:    &types.DynamicsProfile{RmsDb: -16, Correlation: 0.8},
	}

	return &types.ComparisonReport{
		Before:      before,
		After:       after,
		BandCenters: []float64{20, 25.2},
		Delta: types.Delta{
			LoudnessDb:  4,
			BandDeltaDb: []float64{2, 1},
		},
		Suggestion: types.Suggestion{Label: "louder", Intensity: "high", Tone: "balanced"},
	}
}

func TestReportToMap(t *testing.T) {
	meta := output.ReportToMap(sampleReport())

	for _, key := range []string{"before", "after", "delta", "suggestion", "bands"} {
		if _, ok := meta[key]; !ok {
			t.Errorf("missing %q in report map", key)
		}
	}

	delta, ok := meta["delta"].(map[string]any)
	if !ok {
		t.Fatal("delta is not a map")
	}

	if delta["loudness_db"] != 4.0 {
		t.Errorf("loudness_db = %v, expected 4", delta["loudness_db"])
	}

	bands, ok := meta["bands"].([]any)
	if !ok || len(bands) != 2 {
		t.Fatalf("bands = %v, expected 2 entries", meta["bands"])
	}
}

func TestWriteBandCSV(t *testing.T) {
	var sb strings.Builder

	if err := output.WriteBandCSV(&sb, sampleReport()); err != nil {
		t.Fatalf("WriteBandCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")

	if len(lines) != 3 {
		t.Fatalf("got %d lines, expected header + 2 bands", len(lines))
	}

	if lines[0] != "center_hz,before_db,after_db,diff_db" {
		t.Errorf("header = %q", lines[0])
	}

	if lines[1] != "20.0,-40.00,-38.00,2.00" {
		t.Errorf("first row = %q", lines[1])
	}
}
