package ffmpeg

import "time"

const (
	name = "ffmpeg"

	// Decoding a full-length master at 32-bit takes a while on slow or
	// network-backed storage.
	timeout = 120 * time.Second

	// All analysis runs on s32le regardless of source bit depth.
	spec  = "s32le"
	codec = "pcm_s32le"
)
