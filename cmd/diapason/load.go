//nolint:wrapcheck
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/farcloser/diapason"
	"github.com/farcloser/diapason/internal/integration/ffmpeg"
	"github.com/farcloser/diapason/internal/integration/ffprobe"
	"github.com/farcloser/diapason/internal/pcm"
)

// loadBuffer probes a file, decodes its first audio stream to s32le via
// ffmpeg, and wraps it in an analysis buffer. A non-zero resampleRate
// forces the decode onto that rate.
func loadBuffer(ctx context.Context, filePath string, resampleRate int) (*diapason.AudioBuffer, error) {
	probeResult, err := ffprobe.Probe(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", filePath, err)
	}

	stream, err := probeResult.FirstAudioStream()
	if err != nil {
		return nil, err
	}

	rate, err := stream.Rate()
	if err != nil {
		return nil, err
	}

	if resampleRate > 0 && resampleRate != rate {
		slog.Info("resampling", "file", filePath, "from", rate, "to", resampleRate)

		rate = resampleRate
	}

	file, err := os.Open(filePath) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer file.Close()

	var pcmBuf bytes.Buffer

	if err = ffmpeg.DecodeStream(ctx, file, &pcmBuf, resampleRate); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filePath, err)
	}

	return pcm.BufferFromS32LE(pcmBuf.Bytes(), rate, stream.Channels)
}

// loadPair loads two files onto a common sample rate. When the rates
// differ and no explicit rate was requested, both decode at the lower of
// the two so no synthetic high-frequency content is invented.
func loadPair(
	ctx context.Context,
	beforePath, afterPath string,
	resampleRate int,
) (before, after *diapason.AudioBuffer, err error) {
	if resampleRate == 0 {
		beforeRate, afterRate, rateErr := probeRates(ctx, beforePath, afterPath)
		if rateErr != nil {
			return nil, nil, rateErr
		}

		if beforeRate != afterRate {
			resampleRate = min(beforeRate, afterRate)
			slog.Warn("sample rates differ",
				"before", beforeRate, "after", afterRate, "resampling to", resampleRate)
		}
	}

	before, err = loadBuffer(ctx, beforePath, resampleRate)
	if err != nil {
		return nil, nil, err
	}

	after, err = loadBuffer(ctx, afterPath, resampleRate)
	if err != nil {
		return nil, nil, err
	}

	return before, after, nil
}

func probeRates(ctx context.Context, beforePath, afterPath string) (int, int, error) {
	beforeRate, err := probeRate(ctx, beforePath)
	if err != nil {
		return 0, 0, err
	}

	afterRate, err := probeRate(ctx, afterPath)
	if err != nil {
		return 0, 0, err
	}

	return beforeRate, afterRate, nil
}

func probeRate(ctx context.Context, filePath string) (int, error) {
	probeResult, err := ffprobe.Probe(ctx, filePath)
	if err != nil {
		return 0, fmt.Errorf("probing %s: %w", filePath, err)
	}

	stream, err := probeResult.FirstAudioStream()
	if err != nil {
		return 0, err
	}

	return stream.Rate()
}
