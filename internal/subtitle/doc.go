// Package subtitle converts recognition segments into SRT documents.
//
// The time-base conversion from engine ticks (10 ms units) to SRT timestamps
// is pure integer arithmetic, and cue ordering always mirrors the engine's
// emission order. Validation helpers parse existing SRT files for sanity
// checks after writing.
package subtitle
