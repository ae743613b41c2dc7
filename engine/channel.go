package engine

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-seq/dsp/core"
	"github.com/cwbudde/algo-seq/dsp/osc"
	"github.com/cwbudde/algo-seq/song"
)

// channelState is the playback cursor of one song channel.
//
// Beat values are in channel-scaled beats (song beat times the channel's
// time factor).
type channelState struct {
	channel int
	kind    osc.Kind
	scale   float64

	slot int
	note int

	phase        float64
	patternStart float64
	noteStart    float64
	noteTime     float64

	frequency float64
	intensity float64
	rest      bool
}

func newChannelState(index int, ch song.Channel) channelState {
	return channelState{
		channel: index,
		kind:    ch.Oscillator,
		scale:   ch.Scale(),
	}
}

// update moves the cursor to the given song beat. Pattern advance is
// evaluated before the note index is resolved so the index never reaches the
// pattern length on a boundary tick.
func (c *channelState) update(s *song.Song, beat, now float64) error {
	ch := s.Channels[c.channel]
	b := beat * c.scale
	p := s.Patterns[ch.Patterns[c.slot]]

	if b-c.patternStart >= float64(p.Len()) {
		c.slot = (c.slot + 1) % len(ch.Patterns)
		c.patternStart = math.Floor(b)
		c.noteStart = c.patternStart
		c.noteTime = now
		c.note = 0
		c.phase = 0
		p = s.Patterns[ch.Patterns[c.slot]]
	}

	idx := int(math.Floor(b - c.patternStart))
	if idx != c.note {
		c.note = idx
		c.noteStart = c.patternStart + float64(idx)
		c.noteTime = now
		c.phase = 0
	}
	if idx < 0 || idx >= p.Len() {
		return fmt.Errorf("%w: channel %d slot %d resolved note %d of %d",
			ErrNoteIndex, c.channel, c.slot, idx, p.Len())
	}

	n := p.Notes[idx]
	c.frequency = n.Frequency()
	c.intensity = n.Intensity
	c.rest = n.Rest()
	return nil
}

func (c *channelState) advancePhase(sampleRate float64) {
	c.phase = core.WrapPhase(c.phase + 2*math.Pi*c.frequency/sampleRate)
}

// position returns how far into the current note the channel is at the given
// song beat.
func (c *channelState) position(beat float64) float64 {
	return beat*c.scale - c.noteStart
}

// ChannelPosition is a snapshot of one channel's playback cursor.
type ChannelPosition struct {
	Channel    int
	Oscillator osc.Kind
	// Slot indexes the channel's pattern list; Pattern is the song pattern
	// that slot refers to.
	Slot      int
	Pattern   int
	Note      int
	Frequency float64
	Intensity float64
	Phase     float64
	// NoteStart is the elapsed time in seconds at which the note began.
	NoteStart float64
}

func (c *channelState) snapshot(s *song.Song) ChannelPosition {
	return ChannelPosition{
		Channel:    c.channel,
		Oscillator: c.kind,
		Slot:       c.slot,
		Pattern:    s.Channels[c.channel].Patterns[c.slot],
		Note:       c.note,
		Frequency:  c.frequency,
		Intensity:  c.intensity,
		Phase:      c.phase,
		NoteStart:  c.noteTime,
	}
}
