// Package osc implements the waveform oscillators used by the sequencer
// voices. Waveforms are pure functions of a phase in radians; only Noise
// carries state, which lives in an Oscillator so renders stay reproducible
// for a given seed.
package osc
