package window_test

import (
	"errors"
	"testing"

	"github.com/farcloser/diapason/internal/types"
	"github.com/farcloser/diapason/internal/window"
)

func collect(t *testing.T, samples []float64, cfg window.Config) []window.Frame {
	t.Helper()

	seq, err := window.Frames(samples, cfg)
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}

	var frames []window.Frame
	for frame := range seq {
		frames = append(frames, frame)
	}

	return frames
}

func ramp(n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i)
	}

	return samples
}

func TestFramesFullCoverage(t *testing.T) {
	frames := collect(t, ramp(10), window.Config{Length: 4, Hop: 2, PadPartial: true})

	// Offsets 0,2,4,6 are full; 8 gets padded.
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}

	for i, frame := range frames {
		if frame.Offset != i*2 {
			t.Errorf("frame %d: offset %d, expected %d", i, frame.Offset, i*2)
		}

		if len(frame.Samples) != 4 {
			t.Errorf("frame %d: length %d, expected 4", i, len(frame.Samples))
		}
	}

	last := frames[4]
	if last.Samples[0] != 8 || last.Samples[1] != 9 || last.Samples[2] != 0 || last.Samples[3] != 0 {
		t.Errorf("padded frame content wrong: %v", last.Samples)
	}
}

func TestFramesDropPartial(t *testing.T) {
	frames := collect(t, ramp(10), window.Config{Length: 4, Hop: 2})

	if len(frames) != 4 {
		t.Fatalf("expected 4 frames with partial dropped, got %d", len(frames))
	}

	if frames[3].Offset != 6 {
		t.Errorf("last offset %d, expected 6", frames[3].Offset)
	}
}

func TestFramesExactFit(t *testing.T) {
	// 8 samples, length 4, hop 4: two full frames, nothing to pad.
	for _, pad := range []bool{false, true} {
		frames := collect(t, ramp(8), window.Config{Length: 4, Hop: 4, PadPartial: pad})
		if len(frames) != 2 {
			t.Errorf("pad=%v: expected 2 frames, got %d", pad, len(frames))
		}
	}
}

func TestFramesRestartable(t *testing.T) {
	seq, err := window.Frames(ramp(10), window.Config{Length: 4, Hop: 2})
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}

	count := func() int {
		n := 0
		for range seq {
			n++
		}

		return n
	}

	first := count()

	if second := count(); second != first {
		t.Errorf("second pass yielded %d frames, first yielded %d", second, first)
	}
}

func TestFramesInvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		samples []float64
		cfg     window.Config
	}{
		{"zero length", ramp(10), window.Config{Length: 0, Hop: 2}},
		{"negative length", ramp(10), window.Config{Length: -1, Hop: 2}},
		{"zero hop", ramp(10), window.Config{Length: 4, Hop: 0}},
		{"length exceeds input without padding", ramp(2), window.Config{Length: 4, Hop: 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := window.Frames(tc.samples, tc.cfg); !errors.Is(err, types.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestFramesShortInputWithPadding(t *testing.T) {
	frames := collect(t, ramp(2), window.Config{Length: 4, Hop: 2, PadPartial: true})

	if len(frames) != 1 {
		t.Fatalf("expected 1 padded frame, got %d", len(frames))
	}

	if frames[0].Samples[2] != 0 || frames[0].Samples[3] != 0 {
		t.Errorf("expected zero padding, got %v", frames[0].Samples)
	}
}

func TestCountMatchesIteration(t *testing.T) {
	cases := []struct {
		n   int
		cfg window.Config
	}{
		{10, window.Config{Length: 4, Hop: 2}},
		{10, window.Config{Length: 4, Hop: 2, PadPartial: true}},
		{8, window.Config{Length: 4, Hop: 4}},
		{8, window.Config{Length: 4, Hop: 4, PadPartial: true}},
		{9, window.Config{Length: 4, Hop: 4, PadPartial: true}},
		{4, window.Config{Length: 4, Hop: 1}},
		{2, window.Config{Length: 4, Hop: 2, PadPartial: true}},
	}

	for _, tc := range cases {
		got := window.Count(tc.n, tc.cfg)
		want := len(collect(t, ramp(tc.n), tc.cfg))

		if got != want {
			t.Errorf("Count(%d, %+v) = %d, iteration yields %d", tc.n, tc.cfg, got, want)
		}
	}
}
