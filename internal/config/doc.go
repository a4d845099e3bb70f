// Package config loads, normalizes, and validates the TOML configuration
// that drives the transcription pipeline.
//
// Load resolves the config file (explicit path, then the user config
// directory, then a project-local jimaku.toml), fills defaults, expands
// tilde paths to absolute form, and validates the result so downstream
// packages can trust every field.
package config
