package subtitle

import (
	"os"
	"path/filepath"
	"testing"

	"jimaku/internal/asr"
)

func writeSRT(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.srt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCountCues(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:01,000\nfirst\n\n" +
		"2\n00:00:01,000 --> 00:00:02,000\nsecond\n\n"
	path := writeSRT(t, content)
	count, err := CountCues(path)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestCountCuesEmptyFile(t *testing.T) {
	path := writeSRT(t, "")
	count, err := CountCues(path)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestCountCuesMatchesSegmentCount(t *testing.T) {
	segments := []asr.Segment{
		{StartTicks: 0, EndTicks: 10, Text: "a"},
		{StartTicks: 10, EndTicks: 20, Text: ""},
		{StartTicks: 20, EndTicks: 30, Text: "c"},
	}
	path := filepath.Join(t.TempDir(), "gen.srt")
	if err := FromSegments(segments).WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	count, err := CountCues(path)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != len(segments) {
		t.Fatalf("count = %d, want %d", count, len(segments))
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:00:00,000", 0},
		{"00:00:01,000", 1},
		{"01:00:00,000", 3600},
		{"00:00:59,990", 59.99},
		{"00:01:30.500", 90.5}, // period form is normalized
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "12:34", "aa:bb:cc,ddd", "00:00:00"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", in)
		}
	}
}

func TestBounds(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\nfirst\n\n" +
		"2\n00:00:03,000 --> 00:00:05,500\nsecond\n\n"
	path := writeSRT(t, content)
	first, last, err := Bounds(path)
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if first != 1.0 {
		t.Fatalf("first = %v", first)
	}
	if last != 5.5 {
		t.Fatalf("last = %v", last)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, ticks := range []int64{0, 1, 100, 5999, 360000, 123456} {
		text := FormatTimestamp(ticks)
		seconds, err := ParseTimestamp(text)
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}
		want := float64(ticks) / 100.0
		if diff := seconds - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("round trip %d ticks: got %v seconds, want %v", ticks, seconds, want)
		}
	}
}
