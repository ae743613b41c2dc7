package core

import (
	"encoding/binary"
	"math"
)

// EnsureFrames returns an interleaved stereo buffer holding frames frames,
// reusing buf capacity if possible.
func EnsureFrames(buf []float32, frames int) []float32 {
	n := frames * Channels
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float32, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// PutFloat32LE encodes samples as little-endian IEEE float32 into dst and
// returns the number of bytes written. dst must hold 4*len(samples) bytes.
func PutFloat32LE(dst []byte, samples []float32) int {
	n := 0
	for _, s := range samples {
		binary.LittleEndian.PutUint32(dst[n:], math.Float32bits(s))
		n += 4
	}
	return n
}
