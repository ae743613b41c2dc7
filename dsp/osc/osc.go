package osc

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Kind selects the waveform an oscillator produces.
type Kind int

const (
	Sine Kind = iota
	Square
	Triangle
	Noise
)

var kindNames = [...]string{
	Sine:     "sine",
	Square:   "square",
	Triangle: "triangle",
	Noise:    "noise",
}

// String returns the lowercase waveform name.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared waveforms.
func (k Kind) Valid() bool {
	return k >= Sine && k <= Noise
}

// ParseKind maps a waveform name to its Kind. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Sine, fmt.Errorf("unknown oscillator kind: %q", name)
}

// NoiseMode selects how the Noise waveform is synthesized.
type NoiseMode int

const (
	// NoiseUniform draws an independent uniform value in [-1, 1] per sample.
	NoiseUniform NoiseMode = iota
	// NoiseSquareCompat renders Noise with the Square formula. Older song
	// renders were produced this way and some users want them reproduced.
	NoiseSquareCompat
)

// ParseNoiseMode accepts "uniform" or "square".
func ParseNoiseMode(name string) (NoiseMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform", "":
		return NoiseUniform, nil
	case "square", "compat":
		return NoiseSquareCompat, nil
	}
	return NoiseUniform, fmt.Errorf("unknown noise mode: %q", name)
}

// Source supplies uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// Sample maps a waveform and phase in radians to a raw value in [-1, 1].
// rng is only consulted for Noise and may be nil for the other kinds.
func Sample(kind Kind, phase float64, rng Source) float64 {
	switch kind {
	case Square:
		return square(phase)
	case Triangle:
		return (2 / math.Pi) * math.Asin(math.Sin(phase))
	case Noise:
		if rng == nil {
			return 0
		}
		return rng.Float64()*2 - 1
	default:
		return math.Sin(phase)
	}
}

func square(phase float64) float64 {
	c := math.Cos(phase)
	switch {
	case c > 0:
		return 1
	case c < 0:
		return -1
	default:
		return 0
	}
}

// Oscillator owns the random state used by Noise voices.
type Oscillator struct {
	rng  *rand.Rand
	mode NoiseMode
}

// New returns an Oscillator with a deterministic noise seed.
func New(seed int64, mode NoiseMode) *Oscillator {
	return &Oscillator{
		rng:  rand.New(rand.NewSource(seed)),
		mode: mode,
	}
}

// Mode returns the configured noise mode.
func (o *Oscillator) Mode() NoiseMode { return o.mode }

// Reseed restarts the noise sequence.
func (o *Oscillator) Reseed(seed int64) {
	o.rng.Seed(seed)
}

// Sample renders one raw sample for kind at phase.
func (o *Oscillator) Sample(kind Kind, phase float64) float64 {
	if kind == Noise && o.mode == NoiseSquareCompat {
		return square(phase)
	}
	return Sample(kind, phase, o.rng)
}
