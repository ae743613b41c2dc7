// Package buffer provides the interleaved stereo float32 buffer the engine
// renders into and retains for inspection between fills.
package buffer
