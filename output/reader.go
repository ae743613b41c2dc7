package output

import (
	"github.com/cwbudde/algo-seq/dsp/core"
)

const bytesPerFrame = 4 * core.Channels

// DefaultReadFrames caps how many frames Reader pulls per Source call.
const DefaultReadFrames = 1024

// Reader adapts a Source to io.Reader. Bytes are float32 little-endian
// interleaved stereo. Reads that end in the middle of a frame keep the rest
// of that frame for the next call.
type Reader struct {
	src       Source
	maxFrames int

	scratch []byte
	pending []byte
}

// NewReader returns a reader that pulls at most maxFrames frames from src per
// call. maxFrames <= 0 selects DefaultReadFrames.
func NewReader(src Source, maxFrames int) *Reader {
	if maxFrames <= 0 {
		maxFrames = DefaultReadFrames
	}
	return &Reader{
		src:       src,
		maxFrames: maxFrames,
		scratch:   make([]byte, maxFrames*bytesPerFrame),
	}
}

// Read fills p completely. It never returns an error; the stream is endless.
func (r *Reader) Read(p []byte) (int, error) {
	n := copy(p, r.pending)
	r.pending = r.pending[n:]

	for n < len(p) {
		frames := (len(p) - n + bytesPerFrame - 1) / bytesPerFrame
		if frames > r.maxFrames {
			frames = r.maxFrames
		}
		samples := r.src.FillBuffer(frames)
		if limit := len(r.scratch) / 4; len(samples) > limit {
			samples = samples[:limit]
		}
		encoded := r.scratch[:core.PutFloat32LE(r.scratch, samples)]
		if len(encoded) == 0 {
			// Source produced nothing; pad with silence rather than spin.
			for i := n; i < len(p); i++ {
				p[i] = 0
			}
			return len(p), nil
		}
		c := copy(p[n:], encoded)
		n += c
		r.pending = encoded[c:]
	}
	return n, nil
}
