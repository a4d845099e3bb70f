package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"jimaku/internal/media/pcm"
)

// DefaultBinary is the decode executable name resolved via PATH.
const DefaultBinary = "ffmpeg"

// WaitFunc blocks until the decode process exits and reports its outcome.
type WaitFunc func() error

// StartFunc launches the decode process and returns its primary output
// stream plus a wait function. Injectable for tests.
type StartFunc func(ctx context.Context, name string, args ...string) (io.ReadCloser, WaitFunc, error)

// Decoder invokes an external process that demuxes and transcodes arbitrary
// input media into a raw mono 16 kHz 16-bit little-endian PCM byte stream on
// stdout. Diagnostic output goes to stderr and never contaminates the data
// stream.
type Decoder struct {
	binary  string
	starter StartFunc
}

// NewDecoder creates a decoder using the given executable.
func NewDecoder(binary string) *Decoder {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Decoder{binary: binary, starter: startCommand}
}

// WithStarter sets a custom process starter (for testing).
func (d *Decoder) WithStarter(starter StartFunc) {
	d.starter = starter
}

// Binary returns the configured executable name for logging and preflight.
func (d *Decoder) Binary() string {
	return d.binary
}

// stream is a live decode process. Read pulls PCM bytes as the process
// produces them; the consuming stage blocks on this, so memory use stays
// bounded. Close must be called exactly once and reports decode failure.
type stream struct {
	reader io.ReadCloser
	wait   WaitFunc
}

func (s *stream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

// Close drains process teardown. A nonzero exit surfaces here as an error
// carrying the process diagnostics.
func (s *stream) Close() error {
	closeErr := s.reader.Close()
	if err := s.wait(); err != nil {
		return err
	}
	return closeErr
}

// Open starts the decode process for the given source file. The returned
// stream's Close reports a nonzero process exit.
func (d *Decoder) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	reader, wait, err := d.starter(ctx, d.binary, buildArgs(source)...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: start: %w", err)
	}
	return &stream{reader: reader, wait: wait}, nil
}

func buildArgs(source string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", strconv.Itoa(pcm.Channels),
		"-ar", strconv.Itoa(pcm.SampleRate),
		"-acodec", "pcm_s16le",
		"-f", "s16le",
		"pipe:1",
	}
}

func startCommand(ctx context.Context, name string, args ...string) (io.ReadCloser, WaitFunc, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	stderr := &tailBuffer{limit: 4096}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	wait := func() error {
		if err := cmd.Wait(); err != nil {
			detail := strings.TrimSpace(stderr.String())
			if detail != "" {
				return fmt.Errorf("%s: %w: %s", name, err, detail)
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
	return stdout, wait, nil
}

// tailBuffer keeps the most recent writes up to a fixed limit so long decode
// runs cannot grow diagnostics without bound.
type tailBuffer struct {
	limit int
	data  []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	if len(b.data) > b.limit {
		b.data = b.data[len(b.data)-b.limit:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return string(b.data)
}
