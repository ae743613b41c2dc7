// Package device plays an output stream on the system audio backend.
//
// The default build opens an oto context. Building with the headless tag
// swaps in a Device that is driven by hand, for CI machines without audio.
package device

import (
	"errors"
	"time"
)

var (
	// ErrNotAttached is returned when a Device is started before a stream
	// was attached.
	ErrNotAttached = errors.New("device: no stream attached")
	// ErrClosed is returned by requests made after Close.
	ErrClosed = errors.New("device: device closed")
)

// bufferDuration converts a frame count to the backend buffer length.
func bufferDuration(sampleRate, frames int) time.Duration {
	if sampleRate <= 0 || frames <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
