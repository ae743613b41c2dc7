package song

import (
	"fmt"
	"math"
)

// Pitch is a pitch class in semitone order starting at A.
type Pitch int

const (
	A Pitch = iota
	ASharp
	B
	C
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
)

var pitchNames = [...]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// String returns the pitch name with sharps, e.g. "C#".
func (p Pitch) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pitch(%d)", int(p))
	}
	return pitchNames[p]
}

// Valid reports whether p is one of the twelve pitch classes.
func (p Pitch) Valid() bool {
	return p >= A && p <= GSharp
}

// ReferenceHz is the tuning reference for A4.
const ReferenceHz = 440.0

// Frequency returns the equal-tempered frequency in Hz of pitch p in the
// given octave, referenced to A4 = 440 Hz. Octaves are not clamped.
//
// The octave is applied as an exact power of two, so raising the octave by
// one doubles the result bit for bit.
func Frequency(p Pitch, octave int) float64 {
	ratio := math.Exp2(float64(p-A) / 12)
	return ReferenceHz * math.Ldexp(ratio, octave-4)
}

// Note is one pattern slot: a pitch, an octave and an intensity.
// An intensity of 0 is a rest.
type Note struct {
	Pitch     Pitch
	Octave    int
	Intensity float64
}

// N is shorthand for building a Note.
func N(p Pitch, octave int, intensity float64) Note {
	return Note{Pitch: p, Octave: octave, Intensity: intensity}
}

// Frequency returns the note frequency in Hz.
func (n Note) Frequency() float64 {
	return Frequency(n.Pitch, n.Octave)
}

// Rest reports whether the note is silent.
func (n Note) Rest() bool {
	return n.Intensity == 0
}

// String formats the note as pitch, octave and intensity, e.g. "C#4@0.50".
func (n Note) String() string {
	return fmt.Sprintf("%s%d@%.2f", n.Pitch, n.Octave, n.Intensity)
}
