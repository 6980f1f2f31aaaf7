// Package pcm converts raw interleaved PCM byte streams into analysis
// buffers. Decoding from containers is ffmpeg's job; this package only
// handles the s32le stream it emits.
package pcm

import (
	"encoding/binary"
	"fmt"

	"github.com/farcloser/diapason/internal/types"
)

const bytesPerSample = 4

// scale32 maps int32 full scale onto [-1, 1).
const scale32 = 1.0 / 2147483648.0

// BufferFromS32LE deinterleaves signed 32-bit little-endian PCM into a
// validated buffer. Trailing bytes short of a full frame are dropped.
func BufferFromS32LE(data []byte, sampleRate, channelCount int) (*types.AudioBuffer, error) {
	if channelCount < 1 || channelCount > types.MaxChannels {
		return nil, fmt.Errorf("%w: %d channels", types.ErrUnsupportedChannelLayout, channelCount)
	}

	frameBytes := bytesPerSample * channelCount
	frames := len(data) / frameBytes

	channels := make([][]float64, channelCount)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}

	for i := range frames {
		base := i * frameBytes
		for ch := range channelCount {
			raw := binary.LittleEndian.Uint32(data[base+ch*bytesPerSample:])
			channels[ch][i] = float64(int32(raw)) * scale32
		}
	}

	return types.NewAudioBuffer(sampleRate, channels)
}
