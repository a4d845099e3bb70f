package asr

import (
	"context"
	"time"
)

// TickDuration is the engine's native time unit: one tick is 10 milliseconds.
const TickDuration = 10 * time.Millisecond

// Segment is a time-stamped unit of recognized text. Tick values are in the
// engine's native 10 ms units. Segments are immutable once produced and keep
// the engine's emission order.
type Segment struct {
	StartTicks int64
	EndTicks   int64
	Text       string
}

// Engine consumes a fully materialized normalized sample sequence and
// produces an ordered sequence of segments. There is no streaming contract:
// the whole buffer is handed over at once.
type Engine interface {
	Transcribe(ctx context.Context, samples []float32) ([]Segment, error)
}
