package pcm

import "errors"

// Target stream contract shared by the decode and recognition stages.
const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16

	bytesPerSample = BitsPerSample / 8
)

// ErrTruncatedStream reports a PCM byte stream that ended mid-sample. The
// trailing odd byte is never dropped or padded.
var ErrTruncatedStream = errors.New("pcm: truncated stream: odd trailing byte")

// Seconds converts a sample count to audio duration in seconds.
func Seconds(samples int64) float64 {
	return float64(samples) / float64(SampleRate)
}
