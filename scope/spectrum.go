package scope

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Analyzer computes a Hann-windowed magnitude spectrum of the mid signal.
// It reuses its buffers and is not safe for concurrent use.
type Analyzer struct {
	size   int
	plan   *algofft.Plan[complex128]
	window []float64
	scale  float64

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	mag   []float64
	db    []float64
}

// NewAnalyzer returns an analyzer for size-point frames. size must be a
// power of two >= 8.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 8 || size&(size-1) != 0 {
		return nil, fmt.Errorf("scope analyzer size must be a power of two >= 8: %d", size)
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("scope init fft plan: %w", err)
	}

	win := make([]float64, size)
	sum := 0.0
	for n := range win {
		win[n] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(n)/float64(size))
		sum += win[n]
	}
	bins := size/2 + 1

	a := &Analyzer{
		size:   size,
		plan:   plan,
		window: win,
		// One-sided amplitude of a full-scale sine maps to 1.
		scale: 2 / sum,
		frame: make([]float64, size),
		in:    make([]complex128, size),
		out:   make([]complex128, size),
		re:    make([]float64, bins),
		im:    make([]float64, bins),
		mag:   make([]float64, bins),
		db:    make([]float64, bins),
	}
	for k := range a.db {
		a.db[k] = FloorDB
	}
	return a, nil
}

// Size returns the frame length in samples.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of spectrum values Analyze produces.
func (a *Analyzer) Bins() int { return len(a.db) }

// BinFrequency returns the centre frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(a.size)
}

// Analyze returns the spectrum in dBFS of the last Size frames of an
// interleaved stereo buffer, zero padded when shorter. The result is owned
// by the analyzer and valid until the next call.
func (a *Analyzer) Analyze(buf []float32) ([]float64, error) {
	frames := len(buf) / 2
	start := 0
	if frames > a.size {
		start = frames - a.size
	}
	for i := range a.frame {
		f := start + i
		if f < frames {
			a.frame[i] = 0.5 * float64(buf[2*f]+buf[2*f+1])
		} else {
			a.frame[i] = 0
		}
	}
	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, x := range a.frame {
		a.in[i] = complex(x, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("scope fft: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}
	vecmath.Magnitude(a.mag, a.re, a.im)
	vecmath.ScaleBlock(a.mag, a.mag, a.scale)

	for k, m := range a.mag {
		a.db[k] = DB(m)
	}
	return a.db, nil
}

// Peak returns the loudest bin of the most recent analysis and its level.
func (a *Analyzer) Peak() (bin int, db float64) {
	db = FloorDB
	for k, v := range a.db {
		if v > db {
			bin, db = k, v
		}
	}
	return bin, db
}
