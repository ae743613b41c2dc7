// Package envelope shapes note intensity near the start and end of a
// one-beat note so voices do not click when they change pitch.
package envelope

import "math"

const (
	// AttackEnd is the note position (in beats) where the attack ramp ends.
	AttackEnd = 0.1
	// ReleaseStart is the note position where the release ramp begins.
	ReleaseStart = 0.95
	// ReleaseLength is the span of the release ramp.
	ReleaseLength = 0.05
)

// Shape applies the fixed attack/release envelope to intensity at the given
// position within the note. The attack is a cubic ease-in over the first
// tenth of a beat and the release a cubic ease-out over the last 5%.
func Shape(intensity, position float64) float64 {
	return intensity * Gain(position)
}

// Gain returns the envelope multiplier in [0, 1] at position.
func Gain(position float64) float64 {
	switch {
	case position <= 0:
		return 0
	case position < AttackEnd:
		x := position / AttackEnd
		return x * x * x
	case position > ReleaseStart:
		x := (position - ReleaseStart) / ReleaseLength
		g := 1 - math.Max(x*x*x, 0)
		if g < 0 {
			// Past the end of the beat the note is fully released.
			return 0
		}
		return g
	default:
		return 1
	}
}
