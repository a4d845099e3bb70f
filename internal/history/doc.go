// Package history records pipeline runs in a local SQLite database so past
// transcriptions can be inspected from the CLI.
package history
