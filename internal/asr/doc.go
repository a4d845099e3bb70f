// Package asr defines the recognition engine contract: normalized float
// samples in, ordered time-stamped text segments out.
package asr
