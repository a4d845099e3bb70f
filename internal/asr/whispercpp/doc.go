// Package whispercpp binds the recognition engine contract to whisper.cpp
// via its Go CGO bindings.
package whispercpp
