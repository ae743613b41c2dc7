//go:build headless

package device

import (
	"io"
	"sync"
)

// Device is the headless stand-in for the oto player. It tracks requested
// state and lets callers pull the attached stream by hand with Drain.
type Device struct {
	mu      sync.Mutex
	stream  io.Reader
	started bool
	closed  bool
}

func New(sampleRate, bufferFrames int) (*Device, error) {
	return &Device{}, nil
}

func (d *Device) Attach(r io.Reader) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.stream = r
		d.started = false
	}
}

func (d *Device) OnStart() error { return d.request(true) }

func (d *Device) OnStop() error { return d.request(false) }

func (d *Device) request(play bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.closed:
		return ErrClosed
	case d.stream == nil:
		return ErrNotAttached
	}
	d.started = play
	return nil
}

// Drain reads n bytes from the attached stream when started, emulating one
// backend pull. It returns the number of bytes consumed.
func (d *Device) Drain(n int) (int, error) {
	d.mu.Lock()
	stream, started := d.stream, d.started
	d.mu.Unlock()
	if stream == nil || !started {
		return 0, nil
	}
	return io.ReadFull(stream, make([]byte, n))
}

func (d *Device) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

func (d *Device) Err() error { return nil }

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.started = false
	d.stream = nil
	return nil
}
