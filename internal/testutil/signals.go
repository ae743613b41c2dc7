package testutil

import (
	"math"
	"math/rand"
)

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// StereoSine generates frames of interleaved stereo float32 samples carrying
// the same sine on both sides.
func StereoSine(freqHz, sampleRate, amplitude float64, frames int) []float32 {
	out := make([]float32, 2*frames)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := 0; i < frames; i++ {
		v := float32(amplitude * math.Sin(step*float64(i)))
		out[2*i] = v
		out[2*i+1] = v
	}
	return out
}

// Left extracts the left channel of an interleaved stereo buffer.
func Left(buf []float32) []float64 {
	out := make([]float64, len(buf)/2)
	for i := range out {
		out[i] = float64(buf[2*i])
	}
	return out
}
