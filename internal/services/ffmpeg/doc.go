// Package ffmpeg wraps the external decode process that turns arbitrary
// input media into the raw PCM stream the pipeline consumes.
package ffmpeg
