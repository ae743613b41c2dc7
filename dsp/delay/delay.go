// Package delay implements the feedback echo applied to the mixed
// sequencer output. A single circular line is shared by the left and right
// channels (one mono tap), matching the engine's mono voice mix.
package delay

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-seq/dsp/core"
)

const (
	defaultWet      = 0.25
	defaultDry      = 0.75
	defaultFeedback = 0.35
)

// ErrInvalidLength reports a delay length outside (0, capacity].
var ErrInvalidLength = errors.New("delay: invalid length")

// Delay is a fixed-capacity feedback delay line.
//
// The storage is allocated once for the maximum delay; only the first Len
// entries form the active loop.
type Delay struct {
	buffer []float64
	length int
	head   int

	wet      float64
	dry      float64
	feedback float64
}

// Option configures a Delay.
type Option func(*Delay) error

// WithWet sets the delayed signal gain in [0, 1].
func WithWet(wet float64) Option {
	return func(d *Delay) error {
		if err := checkUnit("wet", wet); err != nil {
			return err
		}
		d.wet = wet
		return nil
	}
}

// WithDry sets the direct signal gain in [0, 1].
func WithDry(dry float64) Option {
	return func(d *Delay) error {
		if err := checkUnit("dry", dry); err != nil {
			return err
		}
		d.dry = dry
		return nil
	}
}

// WithFeedback sets the recirculation amount in [0, 1).
func WithFeedback(feedback float64) Option {
	return func(d *Delay) error {
		if feedback < 0 || feedback >= 1 || math.IsNaN(feedback) {
			return fmt.Errorf("delay feedback must be in [0, 1): %f", feedback)
		}
		d.feedback = feedback
		return nil
	}
}

// New returns a delay that can hold capacity samples and loops over the
// first length of them.
func New(capacity, length int, opts ...Option) (*Delay, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be > 0: %d", ErrInvalidLength, capacity)
	}
	if length <= 0 || length > capacity {
		return nil, fmt.Errorf("%w: length must be in [1, %d]: %d", ErrInvalidLength, capacity, length)
	}
	d := &Delay{
		buffer:   make([]float64, capacity),
		length:   length,
		wet:      defaultWet,
		dry:      defaultDry,
		feedback: defaultFeedback,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Len returns the active loop length in samples.
func (d *Delay) Len() int { return d.length }

// Cap returns the allocated capacity in samples.
func (d *Delay) Cap() int { return len(d.buffer) }

// Wet returns the delayed signal gain.
func (d *Delay) Wet() float64 { return d.wet }

// Dry returns the direct signal gain.
func (d *Delay) Dry() float64 { return d.dry }

// Feedback returns the recirculation amount.
func (d *Delay) Feedback() float64 { return d.feedback }

// ProcessSample runs one mono sample through the line.
func (d *Delay) ProcessSample(x float64) float64 {
	delayed := d.step(x)
	return d.dry*x + d.wet*delayed
}

// ProcessStereo runs one stereo frame through the shared line. The line is
// fed with the mid signal and the same tap is mixed into both sides.
func (d *Delay) ProcessStereo(l, r float64) (float64, float64) {
	delayed := d.step(0.5 * (l + r))
	return d.dry*l + d.wet*delayed, d.dry*r + d.wet*delayed
}

// Reset zeroes the full capacity and rewinds the head.
func (d *Delay) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.head = 0
}

func (d *Delay) step(x float64) float64 {
	delayed := d.buffer[d.head]
	d.buffer[d.head] = core.FlushDenormals(x + d.feedback*delayed)
	d.head++
	if d.head >= d.length {
		d.head = 0
	}
	return delayed
}

func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("delay %s must be in [0, 1]: %f", name, v)
	}
	return nil
}
