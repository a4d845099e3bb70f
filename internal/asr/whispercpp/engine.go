// This file contains the Engine implementation backed by the whisper.cpp
// CGO bindings. The whisper.cpp static library (libwhisper.a) and headers
// (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH environment variables.

package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"jimaku/internal/asr"
)

// Compile-time assertion that Engine satisfies asr.Engine.
var _ asr.Engine = (*Engine)(nil)

// Engine runs whisper.cpp inference in process. The model is loaded once at
// construction and shared across calls; each Transcribe call creates a fresh
// whisper context, so the bindings' default greedy sampling (best-of 1)
// applies and decoding stays deterministic. Special tokens never appear in
// segment text.
type Engine struct {
	model    whisperlib.Model
	language string
	threads  uint
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithThreads caps the number of inference threads. Zero lets whisper.cpp
// pick a value.
func WithThreads(n uint) Option {
	return func(e *Engine) { e.threads = n }
}

// New loads the GGML model at modelPath. The model file must exist before
// invocation; absence is reported without loading anything.
func New(modelPath, language string, opts ...Option) (*Engine, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("whispercpp: model path must not be empty")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("whispercpp: model file %q: %w", modelPath, err)
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whispercpp: load model %q: %w", modelPath, err)
	}
	e := &Engine{model: model, language: language}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Close releases the whisper model. Must be called when the engine is no
// longer needed.
func (e *Engine) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}

// Transcribe runs inference over the full sample buffer and returns segments
// in emission order with 10 ms tick timestamps.
func (e *Engine) Transcribe(ctx context.Context, samples []float32) ([]asr.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("whispercpp: context already cancelled: %w", err)
	}

	wctx, err := e.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("whispercpp: create context: %w", err)
	}
	if err := wctx.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("whispercpp: set language %q: %w", e.language, err)
	}
	if e.threads > 0 {
		wctx.SetThreads(e.threads)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("whispercpp: process audio: %w", err)
	}

	var segments []asr.Segment
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("whispercpp: read segment: %w", err)
		}
		segments = append(segments, asr.Segment{
			StartTicks: durationToTicks(segment.Start),
			EndTicks:   durationToTicks(segment.End),
			Text:       segment.Text,
		})
	}
	return segments, nil
}

// durationToTicks converts a binding timestamp back to whisper's native
// 10 ms tick unit using integer division.
func durationToTicks(d time.Duration) int64 {
	return int64(d / asr.TickDuration)
}
