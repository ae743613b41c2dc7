package buffer

import "github.com/cwbudde/algo-seq/dsp/core"

// Stereo wraps interleaved left/right float32 samples with reuse-friendly
// semantics. Frame i occupies samples 2i (left) and 2i+1 (right).
type Stereo struct {
	samples []float32
}

// New returns a zero-filled buffer of the given number of frames.
func New(frames int) *Stereo {
	if frames < 0 {
		frames = 0
	}
	return &Stereo{samples: make([]float32, frames*core.Channels)}
}

// FromSlice wraps an existing interleaved slice without copying. A trailing
// odd sample is ignored.
func FromSlice(s []float32) *Stereo {
	return &Stereo{samples: s[:len(s)&^1]}
}

// Samples returns the underlying interleaved slice.
func (b *Stereo) Samples() []float32 {
	return b.samples
}

// Frames returns the number of stereo frames.
func (b *Stereo) Frames() int {
	return len(b.samples) / core.Channels
}

// Frame returns the left and right samples of frame i.
func (b *Stereo) Frame(i int) (float32, float32) {
	return b.samples[2*i], b.samples[2*i+1]
}

// SetFrame stores one stereo frame.
func (b *Stereo) SetFrame(i int, l, r float32) {
	b.samples[2*i] = l
	b.samples[2*i+1] = r
}

// Resize sets the frame count, reusing capacity when possible. Existing
// frames are preserved and newly exposed frames are zeroed.
func (b *Stereo) Resize(frames int) {
	old := b.samples
	b.samples = core.EnsureFrames(b.samples, frames)
	if len(b.samples) <= len(old) {
		return
	}
	n := copy(b.samples, old)
	core.Zero(b.samples[n:])
}

// Zero silences every frame.
func (b *Stereo) Zero() {
	core.Zero(b.samples)
}

// Clone returns a deep copy of the buffer's samples.
func (b *Stereo) Clone() []float32 {
	out := make([]float32, len(b.samples))
	copy(out, b.samples)
	return out
}

// Mono returns the per-frame average of left and right.
func (b *Stereo) Mono() []float64 {
	out := make([]float64, b.Frames())
	for i := range out {
		l, r := b.Frame(i)
		out[i] = 0.5 * (float64(l) + float64(r))
	}
	return out
}
