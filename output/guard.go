package output

import (
	"sync"

	"github.com/cwbudde/algo-seq/engine"
)

// Guard serializes access to an Engine so an audio goroutine can pull
// buffers while another goroutine drives playback.
type Guard struct {
	mu  sync.Mutex
	eng *engine.Engine
}

// NewGuard wraps e. The engine must not be used directly afterwards.
func NewGuard(e *engine.Engine) *Guard {
	return &Guard{eng: e}
}

// Play starts or resumes playback.
//
// The engine's lifecycle hook runs with the lock held, so it must not pull
// audio synchronously.
func (g *Guard) Play() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.Play()
}

func (g *Guard) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.eng.Pause()
}

func (g *Guard) TogglePause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.eng.TogglePause()
}

func (g *Guard) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.Stop()
}

// FillBuffer renders frames frames. The returned slice is owned by the
// engine; only the single consuming goroutine may read it, and only until
// its next FillBuffer call.
func (g *Guard) FillBuffer(frames int) []float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.FillBuffer(frames)
}

// LastBuffer returns a copy of the most recent output buffer.
func (g *Guard) LastBuffer() ([]float32, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.LastBuffer()
}

func (g *Guard) Position() engine.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.Position()
}

func (g *Guard) Playing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.Playing()
}

func (g *Guard) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.Paused()
}

func (g *Guard) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng.Err()
}

// SampleRate is fixed at construction and needs no lock.
func (g *Guard) SampleRate() float64 { return g.eng.SampleRate() }
