//go:build !headless

package device

import (
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-seq/dsp/core"
)

// Device plays an attached stream on the system audio output. It implements
// engine.Lifecycle: OnStart resumes the player and OnStop pauses it.
//
// oto pulls from the stream on its own goroutine and Player.Play prefills
// synchronously, so start and stop requests are applied by a control
// goroutine rather than inside the caller's critical section.
type Device struct {
	ctx *oto.Context

	mu       sync.Mutex
	player   *oto.Player
	requests chan bool
	started  bool
	closed   bool
}

// New opens the audio context. Only one context may exist per process.
func New(sampleRate, bufferFrames int) (*Device, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: core.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferDuration(sampleRate, bufferFrames),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("output: open audio context: %w", err)
	}
	<-ready

	return &Device{ctx: ctx}, nil
}

// Attach creates the player for r. It replaces any previous stream.
func (d *Device) Attach(r io.Reader) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.player != nil {
		close(d.requests)
		_ = d.player.Close()
	}
	d.player = d.ctx.NewPlayer(r)
	d.requests = make(chan bool, 1)
	d.started = false
	go run(d.player, d.requests)
}

func run(p *oto.Player, requests <-chan bool) {
	for play := range requests {
		if play {
			p.Play()
		} else {
			p.Pause()
		}
	}
}

func (d *Device) OnStart() error { return d.request(true) }

func (d *Device) OnStop() error { return d.request(false) }

// request queues the latest play state; an unapplied earlier request is
// superseded.
func (d *Device) request(play bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case d.closed:
		return ErrClosed
	case d.player == nil:
		return ErrNotAttached
	}
	select {
	case <-d.requests:
	default:
	}
	d.requests <- play
	d.started = play
	return nil
}

// Started reports the most recently requested state.
func (d *Device) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

// Err reports a playback error raised by the backend, if any.
func (d *Device) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player == nil {
		return nil
	}
	return d.player.Err()
}

// Close stops playback and releases the player.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.started = false
	if d.player == nil {
		return nil
	}
	close(d.requests)
	err := d.player.Close()
	d.player = nil
	return err
}
