package pcm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"
)

func encodeSamples(values []int16) []byte {
	buf := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return buf
}

func TestSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	values := []int16{0, 100, -100, 32767, -32768}

	sink, err := CreateSink(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := sink.ReadFrom(bytes.NewReader(encodeSamples(values)))
	if err != nil {
		t.Fatalf("read from: %v", err)
	}
	if n != int64(len(values)) {
		t.Fatalf("appended %d samples, want %d", n, len(values))
	}
	if err := sink.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	samples, err := ReadSamples(path)
	if err != nil {
		t.Fatalf("read samples: %v", err)
	}
	if len(samples) != len(values) {
		t.Fatalf("got %d samples, want %d", len(samples), len(values))
	}
	for i, v := range values {
		want := float32(v) / 32768.0
		if samples[i] != want {
			t.Errorf("sample[%d] = %v, want %v", i, samples[i], want)
		}
	}
}

func TestSinkReassemblesChunkedArrivals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	values := []int16{1, -2, 3, -4, 32767, -32768, 12345}

	sink, err := CreateSink(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// One byte per read forces sample reassembly across chunk boundaries.
	n, err := sink.ReadFrom(iotest.OneByteReader(bytes.NewReader(encodeSamples(values))))
	if err != nil {
		t.Fatalf("read from: %v", err)
	}
	if n != int64(len(values)) {
		t.Fatalf("appended %d samples, want %d", n, len(values))
	}
	if err := sink.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	samples, err := ReadSamples(path)
	if err != nil {
		t.Fatalf("read samples: %v", err)
	}
	for i, v := range values {
		if want := float32(v) / 32768.0; samples[i] != want {
			t.Errorf("sample[%d] = %v, want %v", i, samples[i], want)
		}
	}
}

func TestSinkTruncatedStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	stream := append(encodeSamples([]int16{7, -7}), 0xAB) // dangling half sample

	sink, err := CreateSink(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := sink.ReadFrom(bytes.NewReader(stream))
	if !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("err = %v, want ErrTruncatedStream", err)
	}
	if n != 2 {
		t.Fatalf("appended %d complete samples, want 2", n)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestSinkEmptyStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")

	sink, err := CreateSink(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n, err := sink.ReadFrom(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("read from: %v", err)
	}
	if n != 0 {
		t.Fatalf("appended %d samples, want 0", n)
	}
	if err := sink.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	samples, err := ReadSamples(path)
	if err != nil {
		t.Fatalf("read samples: %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("got %d samples, want 0", len(samples))
	}
}

func TestSinkHeaderSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	values := []int16{1, 2, 3}

	sink, err := CreateSink(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := sink.ReadFrom(bytes.NewReader(encodeSamples(values))); err != nil {
		t.Fatalf("read from: %v", err)
	}
	if err := sink.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != headerSize+len(values)*2 {
		t.Fatalf("file size %d, want %d", len(raw), headerSize+len(values)*2)
	}
	if got := binary.LittleEndian.Uint32(raw[4:8]); got != uint32(36+len(values)*2) {
		t.Fatalf("RIFF size %d", got)
	}
	if got := binary.LittleEndian.Uint32(raw[40:44]); got != uint32(len(values)*2) {
		t.Fatalf("data size %d", got)
	}
	if got := binary.LittleEndian.Uint32(raw[24:28]); got != SampleRate {
		t.Fatalf("sample rate %d", got)
	}
	if got := binary.LittleEndian.Uint16(raw[22:24]); got != Channels {
		t.Fatalf("channels %d", got)
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(16000); got != 1.0 {
		t.Fatalf("Seconds(16000) = %v", got)
	}
	if got := Seconds(8000); got != 0.5 {
		t.Fatalf("Seconds(8000) = %v", got)
	}
}
