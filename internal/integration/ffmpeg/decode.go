package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/diapason/internal/integration/binary"
)

// DecodeStream decodes the first audio stream of a container into raw
// interleaved s32le PCM. A non-zero resampleRate inserts a resample step
// so two inputs at different rates can be forced onto a common one.
func DecodeStream(
	ctx context.Context,
	input io.Reader,
	output io.Writer,
	resampleRate int,
) error {
	slog.Debug("ffmpeg.DecodeStream", "resample rate", resampleRate, "stage", "start")

	ffmpegPath, found := binary.Available(name)
	if !found {
		return fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-i", "-",
		"-map", "0:a:0",
	}

	if resampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(resampleRate))
	}

	args = append(args,
		"-f", spec,
		"-acodec", codec,
		"-v", "quiet",
		"-",
	)

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	cmd.Stdout = output
	cmd.Stdin = input

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.DecodeStream", "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("ffmpeg.DecodeStream", "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return nil
}
