// Package song describes what the sequencer plays: patterns of one-beat
// notes, channels that loop over pattern lists, and a tempo.
//
// A Song is plain data. The engine reads it during playback and never
// modifies it; callers must not mutate a Song while an engine is playing it.
package song

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-seq/dsp/osc"
)

// ErrInvalidSong is wrapped by every configuration error Validate reports.
var ErrInvalidSong = errors.New("song: invalid configuration")

// Pattern is an ordered run of notes, one beat per note.
type Pattern struct {
	Notes []Note
}

// NewPattern returns a pattern holding a copy of notes.
func NewPattern(notes ...Note) Pattern {
	return Pattern{Notes: append([]Note(nil), notes...)}
}

// Len returns the pattern duration in beats.
func (p Pattern) Len() int {
	return len(p.Notes)
}

// Channel is one monophonic voice: the order in which it plays patterns,
// its waveform and a channel-local tempo multiplier.
type Channel struct {
	Patterns   []int
	Oscillator osc.Kind
	// TimeFactor scales the song beat for this channel. Zero means 1.
	TimeFactor float64
}

// Scale returns the effective time factor.
func (c Channel) Scale() float64 {
	if c.TimeFactor == 0 {
		return 1
	}
	return c.TimeFactor
}

// Song is a complete sequencer configuration.
type Song struct {
	Tempo    float64
	Patterns []Pattern
	Channels []Channel
}

// BeatDuration returns the length of one beat at the song tempo.
func (s *Song) BeatDuration() time.Duration {
	if s.Tempo <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / s.Tempo)
}

// SamplesPerBeat returns how many samples one beat spans at sampleRate.
func (s *Song) SamplesPerBeat(sampleRate float64) float64 {
	if s.Tempo <= 0 {
		return 0
	}
	return sampleRate * 60 / s.Tempo
}

// Pattern returns the pattern a channel plays at the given slot of its
// pattern list.
func (s *Song) Pattern(channel, slot int) Pattern {
	return s.Patterns[s.Channels[channel].Patterns[slot]]
}

// Validate checks that the song can be played without reading out of bounds.
func (s *Song) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: song is nil", ErrInvalidSong)
	}
	if s.Tempo <= 0 || math.IsNaN(s.Tempo) || math.IsInf(s.Tempo, 0) {
		return fmt.Errorf("%w: tempo must be > 0: %f", ErrInvalidSong, s.Tempo)
	}
	if len(s.Channels) == 0 {
		return fmt.Errorf("%w: song has no channels", ErrInvalidSong)
	}
	for pi, p := range s.Patterns {
		for ni, n := range p.Notes {
			if !n.Pitch.Valid() {
				return fmt.Errorf("%w: pattern %d note %d: unknown pitch %d", ErrInvalidSong, pi, ni, int(n.Pitch))
			}
			if math.IsNaN(n.Intensity) || math.IsInf(n.Intensity, 0) {
				return fmt.Errorf("%w: pattern %d note %d: intensity must be finite: %f",
					ErrInvalidSong, pi, ni, n.Intensity)
			}
		}
	}
	for ci, c := range s.Channels {
		if len(c.Patterns) == 0 {
			return fmt.Errorf("%w: channel %d has no patterns", ErrInvalidSong, ci)
		}
		if !c.Oscillator.Valid() {
			return fmt.Errorf("%w: channel %d: unknown oscillator %d", ErrInvalidSong, ci, int(c.Oscillator))
		}
		if c.TimeFactor < 0 || math.IsNaN(c.TimeFactor) || math.IsInf(c.TimeFactor, 0) {
			return fmt.Errorf("%w: channel %d: time factor must be >= 0: %f", ErrInvalidSong, ci, c.TimeFactor)
		}
		for slot, idx := range c.Patterns {
			if idx < 0 || idx >= len(s.Patterns) {
				return fmt.Errorf("%w: channel %d slot %d: pattern index %d out of range [0, %d)",
					ErrInvalidSong, ci, slot, idx, len(s.Patterns))
			}
			if s.Patterns[idx].Len() == 0 {
				return fmt.Errorf("%w: channel %d slot %d: pattern %d is empty", ErrInvalidSong, ci, slot, idx)
			}
		}
	}
	return nil
}
