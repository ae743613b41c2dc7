package song

import "github.com/cwbudde/algo-seq/dsp/osc"

// Demo returns the example song used by the commands: four patterns shared
// by three channels at 120 BPM.
func Demo() Song {
	return Song{
		Tempo: 120,
		Patterns: []Pattern{
			NewPattern(
				N(A, 3, 0.7), N(B, 3, 0.7), N(C, 3, 0.7), N(A, 3, 0.7),
			),
			NewPattern(
				N(G, 3, 0.7), N(F, 3, 0.5), N(E, 3, 0.6), N(F, 3, 0.5), N(E, 3, 0.6),
			),
			NewPattern(
				N(E, 3, 0.6), N(F, 3, 0.5), N(A, 3, 0.7), N(G, 3, 0.5),
				N(C, 3, 0.6), N(C, 3, 0.7), N(A, 3, 0.7),
			),
			NewPattern(
				N(E, 4, 0.6), N(E, 4, 0.6), N(F, 4, 0.5), N(A, 5, 0.7), N(ASharp, 5, 0.7),
			),
		},
		Channels: []Channel{
			{Patterns: []int{0, 1, 2}, Oscillator: osc.Sine},
			{Patterns: []int{2, 0, 1}, Oscillator: osc.Square},
			{Patterns: []int{3}, Oscillator: osc.Sine},
		},
	}
}
