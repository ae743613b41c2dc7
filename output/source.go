package output

// Source produces interleaved stereo float32 frames on demand. The returned
// slice may be reused by the next call.
type Source interface {
	FillBuffer(frames int) []float32
}
