// Package output connects an engine to whatever consumes its audio.
//
// Audio backends pull samples from their own goroutine while control calls
// arrive from the UI; Guard serializes the two. Reader turns a pulled Source
// into a byte stream for a player such as output/device.
//
// The package has no audio backend dependency, so offline renderers can use
// Source without linking one.
package output
