package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Transcription.Language != "ja" {
		t.Fatalf("language = %q, want ja", cfg.Transcription.Language)
	}
	if !filepath.IsAbs(cfg.Paths.WorkDir) {
		t.Fatalf("work dir not absolute: %q", cfg.Paths.WorkDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
work_dir = "` + dir + `/work"

[transcription]
model_path = "` + dir + `/model.bin"
language = "ja-JP"
threads = 4

[logging]
format = "json"
level = "debug"

[history]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Transcription.Threads != 4 {
		t.Fatalf("threads = %d", cfg.Transcription.Threads)
	}
	// Regional tags collapse to the base language code.
	if cfg.Transcription.Language != "ja" {
		t.Fatalf("language = %q, want ja", cfg.Transcription.Language)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q", cfg.Logging.Format)
	}
	if cfg.History.Enabled {
		t.Fatal("history should be disabled")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config")
	}
	if cfg.Transcription.FFmpegBinary != "ffmpeg" {
		t.Fatalf("ffmpeg binary = %q", cfg.Transcription.FFmpegBinary)
	}
}

func TestValidateRejectsBadLanguage(t *testing.T) {
	cfg := Default()
	cfg.Transcription.Language = "definitely-not-a-language"
	if err := cfg.normalize(); err == nil {
		t.Fatal("expected error for invalid language code")
	}
}

func TestValidateRejectsEmptyModelPath(t *testing.T) {
	cfg := Default()
	cfg.Transcription.ModelPath = ""
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty model path")
	}
	if !strings.Contains(err.Error(), "model_path") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/media")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "media") {
		t.Fatalf("got %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.WorkDir = filepath.Join(dir, "work")
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(dir, "state", "history.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	for _, p := range []string{cfg.Paths.WorkDir, cfg.Paths.OutputDir, filepath.Join(dir, "state")} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q", p)
		}
	}
}
