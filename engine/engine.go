// Package engine renders a song into interleaved stereo audio.
//
// The Engine owns the beat clock, one playback cursor per song channel and
// the feedback delay. It is pulled by an output collaborator through
// FillBuffer; there is no internal goroutine and no locking. Callers that
// drive control methods and FillBuffer from different goroutines must
// serialize them (see package output).
package engine

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-seq/dsp/buffer"
	"github.com/cwbudde/algo-seq/dsp/core"
	"github.com/cwbudde/algo-seq/dsp/delay"
	"github.com/cwbudde/algo-seq/dsp/envelope"
	"github.com/cwbudde/algo-seq/dsp/osc"
	"github.com/cwbudde/algo-seq/song"
)

var (
	// ErrConfig wraps invalid engine settings.
	ErrConfig = errors.New("engine: invalid configuration")
	// ErrNoteIndex reports a cursor that resolved past the end of its
	// pattern. It indicates an internal timing fault.
	ErrNoteIndex = errors.New("engine: note index out of range")
)

// Lifecycle receives the engine's requests to start and stop the output
// stream. The collaborator owns the actual device.
type Lifecycle interface {
	OnStart() error
	OnStop() error
}

// Position is a snapshot of the playback clock and every channel cursor.
type Position struct {
	Sample   uint64
	Time     float64
	Beat     float64
	Channels []ChannelPosition
}

// Engine sequences and synthesizes one song.
type Engine struct {
	song *song.Song
	cfg  config

	osc   *osc.Oscillator
	delay *delay.Delay
	clock clock

	channels []channelState
	playing  bool
	paused   bool
	err      error

	out     *buffer.Stereo
	hasLast bool
}

// New returns an engine bound to s. The song is referenced, not copied, and
// must outlive the engine. It is validated when playback starts.
func New(s *song.Song, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: song is nil", ErrConfig)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.proc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	length := cfg.delayFrames
	if length == 0 {
		length = cfg.proc.FramesFor(cfg.delaySeconds)
	}
	capacity := cfg.proc.FramesFor(cfg.maxDelaySeconds)
	d, err := delay.New(capacity, length,
		delay.WithWet(cfg.wet),
		delay.WithDry(cfg.dry),
		delay.WithFeedback(cfg.feedback),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	e := &Engine{
		song:  s,
		cfg:   cfg,
		osc:   osc.New(cfg.seed, cfg.noiseMode),
		delay: d,
		clock: clock{sampleRate: cfg.proc.SampleRate},
		out:   buffer.New(cfg.proc.BlockSize),
	}
	e.clock.reset(s.Tempo)
	return e, nil
}

// Play starts playback from the top, or resumes when paused. It is a no-op
// while already playing.
func (e *Engine) Play() error {
	if e.playing {
		e.paused = false
		return nil
	}
	if err := e.song.Validate(); err != nil {
		return err
	}

	e.clock.reset(e.song.Tempo)
	e.osc.Reseed(e.cfg.seed)
	e.err = nil
	e.channels = e.channels[:0]
	for i, ch := range e.song.Channels {
		st := newChannelState(i, ch)
		if err := st.update(e.song, 0, 0); err != nil {
			return err
		}
		e.channels = append(e.channels, st)
	}

	e.playing = true
	e.paused = false
	if e.cfg.lifecycle != nil {
		if err := e.cfg.lifecycle.OnStart(); err != nil {
			e.playing = false
			e.channels = e.channels[:0]
			return fmt.Errorf("engine: start output: %w", err)
		}
	}
	return nil
}

// Pause suspends clock advancement. The delay keeps running over silence so
// its tail decays while paused.
func (e *Engine) Pause() {
	if e.playing {
		e.paused = true
	}
}

// TogglePause flips between paused and playing.
func (e *Engine) TogglePause() {
	if e.playing {
		e.paused = !e.paused
	}
}

// Stop halts playback, rewinds the clock, silences the delay line and drops
// the retained buffer.
func (e *Engine) Stop() error {
	wasPlaying := e.playing
	e.playing = false
	e.paused = false
	e.err = nil
	e.clock.reset(e.song.Tempo)
	e.delay.Reset()
	e.channels = e.channels[:0]
	e.hasLast = false
	e.out.Zero()

	if wasPlaying && e.cfg.lifecycle != nil {
		if err := e.cfg.lifecycle.OnStop(); err != nil {
			return fmt.Errorf("engine: stop output: %w", err)
		}
	}
	return nil
}

// FillBuffer renders frames stereo frames and returns them interleaved. The
// slice is owned by the engine and stays valid until the next fill or Stop.
func (e *Engine) FillBuffer(frames int) []float32 {
	e.out.Resize(frames)
	e.render(e.out.Samples())
	e.hasLast = true
	return e.out.Samples()
}

// Fill renders len(dst)/2 frames into dst. A trailing odd sample is zeroed.
func (e *Engine) Fill(dst []float32) {
	frames := len(dst) / core.Channels
	e.render(dst[:frames*core.Channels])
	if len(dst)%core.Channels != 0 {
		dst[len(dst)-1] = 0
	}
	e.out.Resize(frames)
	copy(e.out.Samples(), dst)
	e.hasLast = true
}

// LastBuffer returns a copy of the most recent output buffer. It reports
// false when nothing was rendered since the last Stop.
func (e *Engine) LastBuffer() ([]float32, bool) {
	if !e.hasLast {
		return nil, false
	}
	return e.out.Clone(), true
}

func (e *Engine) render(dst []float32) {
	for i := 0; i+1 < len(dst); i += core.Channels {
		var l, r float64
		switch {
		case !e.playing:
		case e.paused || e.err != nil:
			l, r = e.delay.ProcessStereo(0, 0)
		default:
			x := e.mix()
			l, r = e.delay.ProcessStereo(x, x)
			e.tick()
		}
		dst[i] = core.ClampSample(l)
		dst[i+1] = core.ClampSample(r)
	}
}

// mix sums every channel's shaped oscillator sample with equal weight.
func (e *Engine) mix() float64 {
	if len(e.channels) == 0 {
		return 0
	}
	sum := 0.0
	for i := range e.channels {
		c := &e.channels[i]
		if c.rest {
			continue
		}
		amp := envelope.Shape(c.intensity, c.position(e.clock.beat))
		sum += amp * e.osc.Sample(c.kind, c.phase)
	}
	return sum / float64(len(e.channels))
}

func (e *Engine) tick() {
	e.clock.tick()
	for i := range e.channels {
		c := &e.channels[i]
		c.advancePhase(e.clock.sampleRate)
		if err := c.update(e.song, e.clock.beat, e.clock.time); err != nil {
			e.err = err
			return
		}
	}
}

// Position returns the current clock and cursor snapshot.
func (e *Engine) Position() Position {
	p := Position{
		Sample: e.clock.index,
		Time:   e.clock.time,
		Beat:   e.clock.beat,
	}
	if len(e.channels) > 0 {
		p.Channels = make([]ChannelPosition, len(e.channels))
		for i := range e.channels {
			p.Channels[i] = e.channels[i].snapshot(e.song)
		}
	}
	return p
}

// Playing reports whether a session is active (paused or not).
func (e *Engine) Playing() bool { return e.playing }

// Paused reports whether the active session is paused.
func (e *Engine) Paused() bool { return e.playing && e.paused }

// Err returns the internal fault that silenced playback, if any. Stop and
// Play clear it.
func (e *Engine) Err() error { return e.err }

// SampleRate returns the output sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.cfg.proc.SampleRate }

// BlockSize returns the preferred frames per output buffer.
func (e *Engine) BlockSize() int { return e.cfg.proc.BlockSize }

// Song returns the song the engine plays.
func (e *Engine) Song() *song.Song { return e.song }

// Delay exposes the effect for inspection.
func (e *Engine) Delay() *delay.Delay { return e.delay }

// NoiseMode reports how noise channels draw their samples.
func (e *Engine) NoiseMode() osc.NoiseMode { return e.osc.Mode() }
