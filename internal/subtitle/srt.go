package subtitle

import (
	"fmt"
	"strings"

	"jimaku/internal/asr"
	"jimaku/internal/fileutil"
)

// Cue is one numbered, timestamped subtitle entry.
type Cue struct {
	Index int
	Start string
	End   string
	Text  string
}

// Document is an ordered sequence of cues. Built once, written once, never
// mutated after creation.
type Document struct {
	cues []Cue
}

// FromSegments converts engine segments into a subtitle document. Cues keep
// the segments' emission order; nothing is re-sorted, merged, or
// deduplicated. Numbering starts at 1 regardless of engine indexing, and
// empty-text segments still produce a cue so numbering stays aligned with
// the engine's segment count.
func FromSegments(segments []asr.Segment) Document {
	cues := make([]Cue, 0, len(segments))
	for i, segment := range segments {
		cues = append(cues, Cue{
			Index: i + 1,
			Start: FormatTimestamp(segment.StartTicks),
			End:   FormatTimestamp(segment.EndTicks),
			Text:  strings.TrimSpace(segment.Text),
		})
	}
	return Document{cues: cues}
}

// Len reports the number of cues.
func (d Document) Len() int {
	return len(d.cues)
}

// Render produces the SRT text form of the document. Rendering the same
// document twice yields byte-identical output.
func (d Document) Render() string {
	var sb strings.Builder
	for _, cue := range d.cues {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", cue.Index, cue.Start, cue.End, cue.Text)
	}
	return sb.String()
}

// WriteFile renders the document and writes it atomically so a failed write
// never leaves a partial subtitle file behind.
func (d Document) WriteFile(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(d.Render()), 0o644); err != nil {
		return fmt.Errorf("write subtitle file: %w", err)
	}
	return nil
}

// FormatTimestamp renders an engine tick count (10 ms units) as an SRT
// timestamp. Pure integer arithmetic throughout; reproducibility across
// platforms depends on never touching floating point here. Hours grow beyond
// two digits when needed.
func FormatTimestamp(ticks int64) string {
	ms := ticks * 10
	totalSeconds := ms / 1000
	msRemainder := ms % 1000
	totalMinutes := totalSeconds / 60
	secRemainder := totalSeconds % 60
	hours := totalMinutes / 60
	minRemainder := totalMinutes % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minRemainder, secRemainder, msRemainder)
}
