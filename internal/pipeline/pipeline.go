package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"jimaku/internal/asr"
	"jimaku/internal/config"
	"jimaku/internal/fileutil"
	"jimaku/internal/history"
	"jimaku/internal/logging"
	"jimaku/internal/media/pcm"
	"jimaku/internal/services"
	"jimaku/internal/subtitle"
)

const lockFileName = "jimaku.lock"

// Decoder produces the raw PCM byte stream for a source media file. The
// returned stream's Close reports decode process failure.
type Decoder interface {
	Open(ctx context.Context, source string) (io.ReadCloser, error)
}

// Result summarizes a completed transcription run.
type Result struct {
	RunID        string
	SourcePath   string
	OutputPath   string
	CueCount     int
	AudioSeconds float64
	AudioPath    string
	AudioKept    bool
}

// Pipeline drives a single media file through audio extraction, speech
// recognition, and subtitle generation. Stages run strictly in sequence;
// each consumes the previous stage's artifact in full before the next
// stage starts.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	decoder Decoder
	engine  asr.Engine
	store   *history.Store
}

// New assembles a pipeline. The history store may be nil, in which case runs
// are not recorded.
func New(cfg *config.Config, logger *slog.Logger, decoder Decoder, engine asr.Engine, store *history.Store) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger, decoder: decoder, engine: engine, store: store}
}

// Run transcribes one source file and writes its subtitle document. The
// intermediate audio artifact is removed after success unless configured
// otherwise; on failure it is left in the work directory for diagnosis.
func (p *Pipeline) Run(ctx context.Context, source string) (result *Result, err error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)

	info, statErr := os.Stat(source)
	if statErr != nil {
		return nil, services.Wrap(services.ErrNotFound, "setup", "source", "media file not found", statErr)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "setup", "source", source+" is a directory", nil)
	}

	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "directories", "", err)
	}

	lock := flock.New(filepath.Join(p.cfg.Paths.WorkDir, lockFileName))
	locked, lockErr := lock.TryLock()
	if lockErr != nil {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "lock", "acquire run lock", lockErr)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "setup", "lock", "another transcription is already running", nil)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			p.logger.Warn("releasing run lock failed", "error", unlockErr)
		}
	}()

	audioPath := filepath.Join(p.cfg.Paths.WorkDir, "audio-"+runID+".wav")
	outputPath := ""
	cueCount := 0
	audioSeconds := 0.0

	defer func() {
		if p.store == nil {
			return
		}
		run := history.Run{RunID: runID, SourcePath: source, Status: history.StatusCompleted}
		if err != nil {
			run.Status = history.StatusFailed
			run.ErrorMessage = err.Error()
		} else {
			run.OutputPath = outputPath
			run.CueCount = cueCount
			run.AudioSeconds = audioSeconds
		}
		if _, recErr := p.store.Record(context.WithoutCancel(ctx), run); recErr != nil {
			p.logger.Warn("recording run history failed", "error", recErr)
		}
	}()

	samples, audioSecs, decodeErr := p.decode(ctx, source, audioPath)
	if decodeErr != nil {
		return nil, decodeErr
	}
	audioSeconds = audioSecs

	segments, recErr := p.recognize(ctx, samples)
	if recErr != nil {
		return nil, recErr
	}

	writeCtx := services.WithStage(ctx, "write")
	log := logging.WithContext(writeCtx, p.logger)
	doc := subtitle.FromSegments(segments)
	outputPath = p.outputPath(source)
	if writeErr := doc.WriteFile(outputPath); writeErr != nil {
		return nil, services.Wrap(services.ErrValidation, "write", "subtitle", "", writeErr)
	}
	count, countErr := subtitle.CountCues(outputPath)
	if countErr != nil {
		return nil, services.Wrap(services.ErrValidation, "write", "verify", "", countErr)
	}
	if count != doc.Len() {
		detail := fmt.Sprintf("subtitle file has %d cues, expected %d", count, doc.Len())
		return nil, services.Wrap(services.ErrValidation, "write", "verify", detail, nil)
	}
	cueCount = doc.Len()
	log.Info("subtitle file written", "path", outputPath, "cues", cueCount)

	kept := p.cfg.Transcription.KeepAudio
	if kept {
		log.Info("keeping intermediate audio", "path", audioPath)
	} else if removeErr := os.Remove(audioPath); removeErr != nil {
		log.Warn("removing intermediate audio failed", "path", audioPath, "error", removeErr)
		kept = true
	}

	return &Result{
		RunID:        runID,
		SourcePath:   source,
		OutputPath:   outputPath,
		CueCount:     cueCount,
		AudioSeconds: audioSeconds,
		AudioPath:    audioPath,
		AudioKept:    kept,
	}, nil
}

// decode extracts the source's audio into a WAV artifact and returns the
// normalized samples. A nonzero decoder exit always wins over a stream error
// observed while copying, since the latter is usually a symptom of the
// former.
func (p *Pipeline) decode(ctx context.Context, source, audioPath string) ([]float32, float64, error) {
	ctx = services.WithStage(ctx, "decode")
	log := logging.WithContext(ctx, p.logger)
	log.Info("extracting audio", "source", source)

	stream, err := p.decoder.Open(ctx, source)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrExternalTool, "decode", "start", "", err)
	}

	sink, err := pcm.CreateSink(audioPath)
	if err != nil {
		stream.Close()
		return nil, 0, services.Wrap(services.ErrConfiguration, "decode", "artifact", "", err)
	}

	_, copyErr := sink.ReadFrom(stream)
	closeErr := stream.Close()
	if closeErr != nil {
		sink.Close()
		return nil, 0, services.Wrap(services.ErrExternalTool, "decode", "ffmpeg", "audio extraction failed", closeErr)
	}
	if copyErr != nil {
		sink.Close()
		return nil, 0, services.Wrap(services.ErrValidation, "decode", "stream", "incomplete sample stream", copyErr)
	}
	if err := sink.Finalize(); err != nil {
		return nil, 0, services.Wrap(services.ErrConfiguration, "decode", "artifact", "", err)
	}

	seconds := pcm.Seconds(sink.Samples())
	log.Info("audio extracted", "samples", sink.Samples(), "seconds", seconds)

	samples, readErr := pcm.ReadSamples(audioPath)
	if readErr != nil {
		return nil, 0, services.Wrap(services.ErrValidation, "decode", "artifact", "", readErr)
	}
	return samples, seconds, nil
}

func (p *Pipeline) recognize(ctx context.Context, samples []float32) ([]asr.Segment, error) {
	ctx = services.WithStage(ctx, "recognize")
	log := logging.WithContext(ctx, p.logger)
	log.Info("running speech recognition", "samples", len(samples))

	segments, err := p.engine.Transcribe(ctx, samples)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "recognize", "whisper", "", err)
	}
	log.Info("recognition finished", "segments", len(segments))
	return segments, nil
}

// outputPath derives the subtitle location from the source file name. An
// empty output directory means the invocation working directory.
func (p *Pipeline) outputPath(source string) string {
	name := fileutil.Stem(source) + ".srt"
	if dir := strings.TrimSpace(p.cfg.Paths.OutputDir); dir != "" {
		return filepath.Join(dir, name)
	}
	return name
}
