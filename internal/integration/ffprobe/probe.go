//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/diapason/internal/integration/binary"
)

// Result contains the marshalled output of ffprobe, trimmed to the
// fields comparison needs.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one stream of the probed container.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`               // flac
	CodecType     string `json:"codec_type"`               // audio
	SampleRate    string `json:"sample_rate,omitempty"`    // 44100
	Channels      int    `json:"channels,omitempty"`       // 2
	ChannelLayout string `json:"channel_layout,omitempty"` // stereo
	Duration      string `json:"duration,omitempty"`       // 310.666667
	BitRate       string `json:"bit_rate,omitempty"`       // 956821
}

// Format holds container-level information.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`        // e.g. "flac", "mov,mp4,m4a,3gp,3g2,mj2"
	Duration   string `json:"duration,omitempty"` // seconds as float string
	Size       string `json:"size,omitempty"`     // bytes as string
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, found := binary.Available(name)
	if !found {
		return nil, fmt.Errorf("%w: %s", fault.ErrMissingRequirements, name)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}

var (
	errNoAudioStream    = errors.New("no audio stream found")
	errInvalidProbeData = errors.New("invalid probe data")
)

// FirstAudioStream returns the first audio stream of a probe result.
func (r *Result) FirstAudioStream() (*Stream, error) {
	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			return &r.Streams[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", errNoAudioStream, r.Format.Filename)
}

// Rate returns the stream's sample rate as an int.
func (s *Stream) Rate() (int, error) {
	rate, err := strconv.Atoi(s.SampleRate)
	if err != nil || rate <= 0 {
		return 0, fmt.Errorf("%w: sample rate %q", errInvalidProbeData, s.SampleRate)
	}

	return rate, nil
}
