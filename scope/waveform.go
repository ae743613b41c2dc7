package scope

import "github.com/cwbudde/algo-seq/dsp/buffer"

// Downsample reduces an interleaved stereo buffer to width mono points for
// drawing. Point i samples the mid signal at frame position
// i/width*(frames-1), interpolating linearly between neighbouring frames.
func Downsample(buf []float32, width int) []float32 {
	if width <= 0 {
		return nil
	}
	out := make([]float32, width)
	mid := buffer.FromSlice(buf).Mono()
	if len(mid) == 0 {
		return out
	}

	last := len(mid) - 1
	for i := range out {
		pos := float64(i) / float64(width) * float64(last)
		k := int(pos)
		if k >= last {
			out[i] = float32(mid[last])
			continue
		}
		frac := pos - float64(k)
		out[i] = float32((1-frac)*mid[k] + frac*mid[k+1])
	}
	return out
}
