// Package output provides shared result serialization for diapason
// JSON output and band-table CSV export.
package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/farcloser/diapason/internal/types"
)

// ReportToMap converts a comparison report into the canonical map
// structure used for JSON serialization.
func ReportToMap(report *types.ComparisonReport) map[string]any {
	meta := map[string]any{
		"before": AnalysisToMap(report.Before),
		"after":  AnalysisToMap(report.After),
		"delta": map[string]any{
			"loudness_db":       report.Delta.LoudnessDb,
			"loudness_range_lu": report.Delta.LoudnessRangeLU,
			"rms_db":            report.Delta.RmsDb,
			"true_peak_db":      report.Delta.TruePeakDb,
			"crest_db":          report.Delta.CrestDb,
			"width_ratio":       report.Delta.WidthRatio,
			"correlation":       report.Delta.Correlation,
			"transient_index":   report.Delta.TransientIndex,
			"tilt_db":           report.Delta.TiltDb,
		},
		"suggestion": SuggestionToMap(report.Suggestion),
	}

	bands := make([]any, 0, len(report.BandCenters))
	for i, center := range report.BandCenters {
		bands = append(bands, map[string]any{
			"center_hz": center,
			"delta_db":  report.Delta.BandDeltaDb[i],
		})
	}

	meta["bands"] = bands

	return meta
}

// AnalysisToMap converts one analysis result to a map.
func AnalysisToMap(result *types.AnalysisResult) map[string]any {
	meta := map[string]any{
		"sample_rate":  result.SampleRate,
		"channels":     result.Channels,
		"duration_sec": result.DurationSec,
		"silent":       result.Silent,
	}

	if r := result.Loudness; r != nil {
		meta["loudness"] = map[string]any{
			"integrated_lufs": r.IntegratedLUFS,
			"loudness_range":  r.LoudnessRange,
			"short_term_max":  r.ShortTermMax,
			"momentary_max":   r.MomentaryMax,
			"true_peak_db":    r.TruePeakDb,
			"sample_peak_db":  r.SamplePeakDb,
			"silent":          r.Silent,
		}
	}

	if r := result.Spectral; r != nil {
		meta["spectral"] = map[string]any{
			"spectral_centroid": r.SpectralCentroid,
			"tilt_db":           r.TiltDb,
			"sub_excess":        r.SubExcess,
			"transient_index":   r.TransientIndex,
		}
	}

	if r := result.Dynamics; r != nil {
		meta["dynamics"] = map[string]any{
			"peak_db":         r.PeakDb,
			"rms_db":          r.RmsDb,
			"crest_db":        r.CrestDb,
			"correlation":     r.Correlation,
			"width_ratio":     r.WidthRatio,
			"imbalance_db":    r.ImbalanceDb,
			"clipped_samples": r.ClippedSamples,
			"dc_offset_db":    r.DCOffsetDb,
		}
	}

	return meta
}

// SuggestionToMap converts the categorical readout to a map.
func SuggestionToMap(suggestion types.Suggestion) map[string]any {
	return map[string]any{
		"label":     suggestion.Label,
		"intensity": suggestion.Intensity,
		"tone":      suggestion.Tone,
		"tilt_db":   suggestion.TiltDb,
		"notes":     suggestion.Notes,
	}
}

// WriteBandCSV writes the per-band spectral table as CSV: one row per
// band with before, after, and delta levels.
func WriteBandCSV(w io.Writer, report *types.ComparisonReport) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"center_hz", "before_db", "after_db", "diff_db"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, center := range report.BandCenters {
		row := []string{
			fmt.Sprintf("%.1f", center),
			fmt.Sprintf("%.2f", report.Before.Spectral.BandDb[i]),
			fmt.Sprintf("%.2f", report.After.Spectral.BandDb[i]),
			fmt.Sprintf("%.2f", report.Delta.BandDeltaDb[i]),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	return nil
}
