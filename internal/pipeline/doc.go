// Package pipeline sequences the transcription stages for a single media
// file: audio extraction, sample normalization, speech recognition, and
// subtitle generation.
package pipeline
