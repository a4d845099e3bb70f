package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jimaku/internal/asr/whispercpp"
	"jimaku/internal/config"
	"jimaku/internal/deps"
	"jimaku/internal/history"
	"jimaku/internal/logging"
	"jimaku/internal/pipeline"
	"jimaku/internal/services"
	"jimaku/internal/services/ffmpeg"
)

type runOptions struct {
	outputDir string
	model     string
	language  string
	threads   int
	keepAudio bool
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for the generated subtitle file")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Path to the whisper GGML model file")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Recognition language code")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 0, "Recognition worker threads (0 lets the engine decide)")
	cmd.Flags().BoolVar(&opts.keepAudio, "keep-audio", false, "Keep the intermediate WAV file after success")
}

func newTranscribeCommand(cctx *commandContext) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe a media file without the interactive picker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscription(cmd, cctx, args[0], opts)
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

func runTranscription(cmd *cobra.Command, cctx *commandContext, source string, opts *runOptions) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return err
	}

	if missing := deps.Missing(deps.Check(requirements(cfg))); len(missing) > 0 {
		var sb strings.Builder
		for _, m := range missing {
			fmt.Fprintf(&sb, "\n  %s: %s", m.Name, m.Detail)
		}
		return fmt.Errorf("%w: missing requirements:%s", services.ErrNotFound, sb.String())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	var engineOpts []whispercpp.Option
	if cfg.Transcription.Threads > 0 {
		engineOpts = append(engineOpts, whispercpp.WithThreads(uint(cfg.Transcription.Threads)))
	}
	engine, err := whispercpp.New(cfg.Transcription.ModelPath, cfg.Transcription.Language, engineOpts...)
	if err != nil {
		return fmt.Errorf("load speech model: %w", err)
	}
	defer engine.Close()

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("opening history store failed; runs will not be recorded", "error", err)
		} else {
			defer store.Close()
		}
	}

	decoder := ffmpeg.NewDecoder(cfg.Transcription.FFmpegBinary)
	p := pipeline.New(cfg, logger, decoder, engine, store)

	result, err := p.Run(cmd.Context(), source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitle written to %s (%d cues from %.1fs of audio)\n",
		result.OutputPath, result.CueCount, result.AudioSeconds)
	if result.AudioKept {
		fmt.Fprintf(out, "Intermediate audio kept at %s\n", result.AudioPath)
	}
	return nil
}

func applyOverrides(cfg *config.Config, opts *runOptions) error {
	if opts == nil {
		return nil
	}
	if dir := strings.TrimSpace(opts.outputDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = expanded
	}
	if model := strings.TrimSpace(opts.model); model != "" {
		expanded, err := config.ExpandPath(model)
		if err != nil {
			return err
		}
		cfg.Transcription.ModelPath = expanded
	}
	if lang := strings.TrimSpace(opts.language); lang != "" {
		cfg.Transcription.Language = lang
	}
	if opts.threads > 0 {
		cfg.Transcription.Threads = opts.threads
	}
	if opts.keepAudio {
		cfg.Transcription.KeepAudio = true
	}
	return cfg.Validate()
}

func requirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "ffmpeg",
			Command:     cfg.Transcription.FFmpegBinary,
			Description: "audio extraction",
		},
		{
			Name:        "model",
			Path:        cfg.Transcription.ModelPath,
			Description: "whisper GGML model file",
		},
	}
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	paths := []string{"stderr"}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		paths = append(paths, filepath.Join(dir, "jimaku.log"))
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
}
