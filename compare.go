package diapason

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/farcloser/diapason/internal/preset"
)

// Compare analyzes both inputs concurrently and reports the after-minus-
// before deltas plus a categorical characterization of the revision.
// Inputs must share a sample rate; channel layouts may differ (a mono
// reference against a stereo revision is fine).
func Compare(before, after *AudioBuffer, opts Options) (*ComparisonReport, error) {
	if before == nil || after == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrInvalidConfiguration)
	}

	if before.SampleRate() != after.SampleRate() {
		return nil, fmt.Errorf(
			"%w: %d Hz vs %d Hz",
			ErrSampleRateMismatch, before.SampleRate(), after.SampleRate(),
		)
	}

	applyDefaults(&opts)

	var (
		group        errgroup.Group
		beforeResult *AnalysisResult
		afterResult  *AnalysisResult
	)

	group.Go(func() error {
		var err error
		beforeResult, err = Analyze(before, opts)

		return err
	})

	group.Go(func() error {
		var err error
		afterResult, err = Analyze(after, opts)

		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return buildReport(beforeResult, afterResult, opts)
}

// CompareResults builds a report from two pre-computed analyses. Useful
// when the same file participates in several comparisons.
func CompareResults(before, after *AnalysisResult, opts Options) (*ComparisonReport, error) {
	if before == nil || after == nil {
		return nil, fmt.Errorf("%w: nil analysis result", ErrInvalidConfiguration)
	}

	if before.SampleRate != after.SampleRate {
		return nil, fmt.Errorf(
			"%w: %d Hz vs %d Hz",
			ErrSampleRateMismatch, before.SampleRate, after.SampleRate,
		)
	}

	applyDefaults(&opts)

	return buildReport(before, after, opts)
}

func buildReport(before, after *AnalysisResult, opts Options) (*ComparisonReport, error) {
	// Equal sample rates and layout parameters make band layouts a pure
	// function agreement; a mismatch here is a bug, not bad input.
	if len(before.Spectral.BandCenters) != len(after.Spectral.BandCenters) {
		return nil, fmt.Errorf(
			"%w: band layouts differ (%d vs %d bands)",
			ErrSampleRateMismatch,
			len(before.Spectral.BandCenters), len(after.Spectral.BandCenters),
		)
	}

	delta := Delta{
		LoudnessDb:      after.Loudness.IntegratedLUFS - before.Loudness.IntegratedLUFS,
		LoudnessRangeLU: after.Loudness.LoudnessRange - before.Loudness.LoudnessRange,
		RmsDb:           after.Dynamics.RmsDb - before.Dynamics.RmsDb,
		TruePeakDb:      after.Loudness.TruePeakDb - before.Loudness.TruePeakDb,
		CrestDb:         after.Dynamics.CrestDb - before.Dynamics.CrestDb,
		WidthRatio:      after.Dynamics.WidthRatio - before.Dynamics.WidthRatio,
		Correlation:     after.Dynamics.Correlation - before.Dynamics.Correlation,
		TransientIndex:  after.Spectral.TransientIndex - before.Spectral.TransientIndex,
		TiltDb:          after.Spectral.TiltDb - before.Spectral.TiltDb,
	}

	delta.BandDeltaDb = make([]float64, len(before.Spectral.BandDb))
	for i := range delta.BandDeltaDb {
		delta.BandDeltaDb[i] = after.Spectral.BandDb[i] - before.Spectral.BandDb[i]
	}

	return &ComparisonReport{
		Before:      before,
		After:       after,
		BandCenters: before.Spectral.BandCenters,
		Delta:       delta,
		Suggestion:  preset.Suggest(delta, opts.suggestionOptions()),
	}, nil
}
