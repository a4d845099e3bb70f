// Package logging assembles structured slog loggers shared across the
// pipeline.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so stage code automatically tags log
// lines with stage names and run correlation IDs. It also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
