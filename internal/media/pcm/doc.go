// Package pcm owns the audio handoff between the decode and recognition
// stages: a streaming WAV sink for raw 16-bit little-endian mono 16 kHz PCM
// and a normalizing reader that produces the float sample sequence the
// recognition engine consumes.
package pcm
