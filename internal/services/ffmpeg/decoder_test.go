package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	args := buildArgs("/media/input.mkv")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-i /media/input.mkv",
		"-vn",
		"-ac 1",
		"-ar 16000",
		"-acodec pcm_s16le",
		"-f s16le",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "pipe:1" {
		t.Fatalf("primary output must be stdout, got %q", args[len(args)-1])
	}
}

func TestOpenWithStubStarter(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	decoder := NewDecoder("ffmpeg")
	decoder.WithStarter(func(ctx context.Context, name string, args ...string) (io.ReadCloser, WaitFunc, error) {
		if name != "ffmpeg" {
			t.Errorf("binary = %q", name)
		}
		return io.NopCloser(bytes.NewReader(payload)), func() error { return nil }, nil
	})

	stream, err := decoder.Open(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %v", got)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCloseSurfacesProcessFailure(t *testing.T) {
	decoder := NewDecoder("ffmpeg")
	procErr := errors.New("exit status 1")
	decoder.WithStarter(func(ctx context.Context, name string, args ...string) (io.ReadCloser, WaitFunc, error) {
		return io.NopCloser(bytes.NewReader(nil)), func() error { return procErr }, nil
	})

	stream, err := decoder.Open(context.Background(), "in.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := io.ReadAll(stream); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := stream.Close(); !errors.Is(err, procErr) {
		t.Fatalf("close err = %v, want %v", err, procErr)
	}
}

func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "stub")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultStarterStreamsStdout(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "pcm.bin")
	payload := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}
	if err := os.WriteFile(dataFile, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	stub := writeStub(t, "#!/bin/sh\ncat \""+dataFile+"\"\n")

	decoder := NewDecoder(stub)
	stream, err := decoder.Open(context.Background(), "ignored.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %v", got)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDefaultStarterNonzeroExit(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\necho 'boom: no such stream' >&2\nexit 1\n")

	decoder := NewDecoder(stub)
	stream, err := decoder.Open(context.Background(), "ignored.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := io.ReadAll(stream); err != nil {
		t.Fatalf("read: %v", err)
	}
	err = stream.Close()
	if err == nil {
		t.Fatal("expected nonzero exit to surface on close")
	}
	if !strings.Contains(err.Error(), "boom: no such stream") {
		t.Fatalf("diagnostics missing from error: %v", err)
	}
}

func TestDefaultStarterStderrStaysOutOfData(t *testing.T) {
	stub := writeStub(t, "#!/bin/sh\necho 'diagnostic noise' >&2\nprintf 'DATA'\n")

	decoder := NewDecoder(stub)
	stream, err := decoder.Open(context.Background(), "ignored.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "DATA" {
		t.Fatalf("data stream contaminated: %q", got)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestTailBufferKeepsRecentBytes(t *testing.T) {
	buf := &tailBuffer{limit: 8}
	buf.Write([]byte("0123456789abcdef"))
	if got := buf.String(); got != "89abcdef" {
		t.Fatalf("tail = %q", got)
	}
}
