package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-seq/dsp/delay"
	"github.com/cwbudde/algo-seq/dsp/osc"
	"github.com/cwbudde/algo-seq/internal/testutil"
	"github.com/cwbudde/algo-seq/song"
)

func newTestEngine(t *testing.T, s *song.Song, opts ...Option) *Engine {
	t.Helper()
	e, err := New(s, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func mustPlay(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
}

// scaleSong is one channel over one four-note pattern at 60 BPM, so a
// 1000 Hz engine renders exactly 1000 frames per beat.
func scaleSong(kind osc.Kind, timeFactor float64) *song.Song {
	return &song.Song{
		Tempo: 60,
		Patterns: []song.Pattern{song.NewPattern(
			song.N(song.A, 4, 0.8), song.N(song.B, 4, 0.8),
			song.N(song.C, 4, 0.8), song.N(song.D, 4, 0.8),
		)},
		Channels: []song.Channel{{Patterns: []int{0}, Oscillator: kind, TimeFactor: timeFactor}},
	}
}

func TestNewValidation(t *testing.T) {
	s := scaleSong(osc.Sine, 1)
	tests := []struct {
		name string
		song *song.Song
		opts []Option
		want error
	}{
		{name: "nil song", song: nil, want: ErrConfig},
		{name: "zero sample rate", song: s, opts: []Option{WithSampleRate(0)}, want: ErrConfig},
		{name: "zero block size", song: s, opts: []Option{WithBlockSize(0)}, want: ErrConfig},
		{name: "delay beyond capacity", song: s, opts: []Option{WithDelayTime(3), WithMaxDelayTime(2)}, want: delay.ErrInvalidLength},
		{name: "zero delay frames", song: s, opts: []Option{WithDelayTime(0)}, want: delay.ErrInvalidLength},
		{name: "bad feedback", song: s, opts: []Option{WithDelayMix(0.2, 0.8, 1.5)}, want: ErrConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.song, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlayRejectsInvalidSong(t *testing.T) {
	s := scaleSong(osc.Sine, 1)
	s.Channels[0].Patterns = []int{0, 3}
	e := newTestEngine(t, s, WithSampleRate(1000))
	if err := e.Play(); !errors.Is(err, song.ErrInvalidSong) {
		t.Fatalf("Play() error = %v, want ErrInvalidSong", err)
	}
	if e.Playing() {
		t.Fatal("engine playing after rejected song")
	}
}

func TestChannelWalksPatternAndWrapsOnce(t *testing.T) {
	s := scaleSong(osc.Sine, 1)
	e := newTestEngine(t, s, WithSampleRate(1000))
	mustPlay(t, e)

	var seen []int
	wraps := 0
	prev := e.Position().Channels[0].Note
	seen = append(seen, prev)
	for i := 0; i < 4000; i++ {
		e.FillBuffer(1)
		note := e.Position().Channels[0].Note
		if note != prev {
			if note < prev {
				wraps++
			}
			seen = append(seen, note)
			prev = note
		}
	}
	want := []int{0, 1, 2, 3, 0}
	if len(seen) != len(want) {
		t.Fatalf("note sequence = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("note sequence = %v, want %v", seen, want)
		}
	}
	if wraps != 1 {
		t.Fatalf("wraps = %d, want 1", wraps)
	}
	if got := e.Position().Beat; got != 4 {
		t.Fatalf("beat = %v, want 4", got)
	}
}

func TestResolvedFrequencyFollowsNotes(t *testing.T) {
	s := scaleSong(osc.Sine, 1)
	e := newTestEngine(t, s, WithSampleRate(1000))
	mustPlay(t, e)
	for beat, n := range s.Patterns[0].Notes {
		pos := e.Position().Channels[0]
		if pos.Note != beat {
			t.Fatalf("beat %d: note = %d", beat, pos.Note)
		}
		if pos.Frequency != n.Frequency() || pos.Intensity != n.Intensity {
			t.Fatalf("beat %d: resolved (%v, %v), want (%v, %v)",
				beat, pos.Frequency, pos.Intensity, n.Frequency(), n.Intensity)
		}
		e.FillBuffer(1000)
	}
}

func TestTwoPatternSongScenario(t *testing.T) {
	s := &song.Song{
		Tempo: 120,
		Patterns: []song.Pattern{
			song.NewPattern(song.N(song.A, 4, 0.7)),
			song.NewPattern(song.N(song.C, 4, 0.5)),
		},
		Channels: []song.Channel{{Patterns: []int{0, 1}, Oscillator: osc.Sine, TimeFactor: 1}},
	}
	e := newTestEngine(t, s, WithSampleRate(48000))
	mustPlay(t, e)

	framesPerBeat := int(s.SamplesPerBeat(48000))
	var patterns []int
	prev := -1
	for i := 0; i < 2*framesPerBeat; i++ {
		pos := e.Position().Channels[0]
		if pos.Pattern != prev {
			patterns = append(patterns, pos.Pattern)
			prev = pos.Pattern
		}
		e.FillBuffer(1)
	}
	end := e.Position().Channels[0]
	patterns = append(patterns, end.Pattern)

	want := []int{0, 1, 0}
	if len(patterns) != len(want) || patterns[0] != 0 || patterns[1] != 1 || patterns[2] != 0 {
		t.Fatalf("pattern sequence = %v, want %v", patterns, want)
	}
	if end.Slot != 0 || end.Frequency != song.Frequency(song.A, 4) {
		t.Fatalf("after two beats: slot=%d freq=%v, want slot 0 at A4", end.Slot, end.Frequency)
	}
}

func TestTimeFactorScalesChannelBeat(t *testing.T) {
	e := newTestEngine(t, scaleSong(osc.Sine, 2), WithSampleRate(1000))
	mustPlay(t, e)
	e.FillBuffer(1000)
	if got := e.Position().Channels[0].Note; got != 2 {
		t.Fatalf("note after one song beat at factor 2 = %d, want 2", got)
	}
}

func TestPauseHoldsClockAndSilencesVoices(t *testing.T) {
	e := newTestEngine(t, scaleSong(osc.Square, 1),
		WithSampleRate(1000), WithDelayMix(0, 1, 0))
	mustPlay(t, e)
	e.FillBuffer(300)

	before := e.Position()
	e.Pause()
	if !e.Paused() {
		t.Fatal("Paused() = false after Pause")
	}
	out := e.FillBuffer(256)
	if !testutil.Silent32(out) {
		t.Fatal("paused buffer contains voice output")
	}
	after := e.Position()
	if after.Beat != before.Beat || after.Sample != before.Sample {
		t.Fatalf("clock moved while paused: %v -> %v", before.Beat, after.Beat)
	}

	mustPlay(t, e)
	if e.Paused() {
		t.Fatal("Play did not resume")
	}
	if e.Position().Channels[0].Note != before.Channels[0].Note {
		t.Fatal("resume reset channel state")
	}
	e.FillBuffer(10)
	if e.Position().Sample != before.Sample+10 {
		t.Fatalf("sample = %d, want %d", e.Position().Sample, before.Sample+10)
	}
}

func TestPauseLetsDelayTailDecay(t *testing.T) {
	e := newTestEngine(t, scaleSong(osc.Square, 1),
		WithSampleRate(1000), WithDelayFrames(100), WithDelayMix(1, 1, 0.5))
	mustPlay(t, e)
	e.FillBuffer(400)
	e.Pause()

	out := e.FillBuffer(100)
	if testutil.Silent32(out) {
		t.Fatal("paused buffer lost the delay tail")
	}
	first := testutil.PeakAbs32(out)
	e.FillBuffer(400)
	later := testutil.PeakAbs32(e.FillBuffer(100))
	if later >= first {
		t.Fatalf("tail did not decay: first peak %v, later peak %v", first, later)
	}
}

func TestTogglePause(t *testing.T) {
	e := newTestEngine(t, scaleSong(osc.Sine, 1), WithSampleRate(1000))
	e.TogglePause()
	if e.Paused() {
		t.Fatal("TogglePause paused a stopped engine")
	}
	mustPlay(t, e)
	e.TogglePause()
	if !e.Paused() {
		t.Fatal("TogglePause did not pause")
	}
	e.TogglePause()
	if e.Paused() {
		t.Fatal("TogglePause did not resume")
	}
}

func TestStopThenPlayStartsFresh(t *testing.T) {
	e := newTestEngine(t, scaleSong(osc.Square, 1),
		WithSampleRate(1000), WithDelayFrames(100), WithDelayMix(1, 0, 0.9))
	mustPlay(t, e)
	e.FillBuffer(2500)
	if e.Position().Channels[0].Note != 2 {
		t.Fatalf("note before stop = %d, want 2", e.Position().Channels[0].Note)
	}

	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if _, ok := e.LastBuffer(); ok {
		t.Fatal("LastBuffer available right after Stop")
	}
	if p := e.Position(); p.Beat != 0 || p.Sample != 0 {
		t.Fatalf("clock after stop = %+v, want zero", p)
	}

	mustPlay(t, e)
	pos := e.Position().Channels[0]
	if pos.Slot != 0 || pos.Note != 0 || pos.Phase != 0 {
		t.Fatalf("channel after restart = %+v, want slot 0 note 0 phase 0", pos)
	}
	// Dry is 0, so the first delay-length of output is whatever the line
	// held before the restart.
	if out := e.FillBuffer(100); !testutil.Silent32(out) {
		t.Fatal("feedback tail survived stop/play")
	}
}

func TestStoppedEngineRendersSilence(t *testing.T) {
	e := newTestEngine(t, scaleSong(osc.Sine, 1), WithSampleRate(1000))
	out := e.FillBuffer(64)
	if len(out) != 128 {
		t.Fatalf("len = %d, want 128", len(out))
	}
	if !testutil.Silent32(out) {
		t.Fatal("stopped engine produced sound")
	}
	if e.Position().Sample != 0 {
		t.Fatal("stopped engine advanced the clock")
	}
}

func TestOutputBoundedAndFinite(t *testing.T) {
	s := song.Demo()
	s.Channels[2].Oscillator = osc.Noise
	e := newTestEngine(t, &s, WithSampleRate(8000), WithDelayMix(1, 1, 0.95))
	mustPlay(t, e)
	for i := 0; i < 40; i++ {
		out := e.FillBuffer(512)
		testutil.RequireFinite32(t, out)
		testutil.RequireInRange32(t, out, -1, 1)
	}
	if e.Err() != nil {
		t.Fatalf("Err() = %v", e.Err())
	}
}

func TestEqualWeightMix(t *testing.T) {
	one := scaleSong(osc.Sine, 1)
	two := scaleSong(osc.Sine, 1)
	two.Channels = append(two.Channels, two.Channels[0])

	a := newTestEngine(t, one, WithSampleRate(8000))
	b := newTestEngine(t, two, WithSampleRate(8000))
	mustPlay(t, a)
	mustPlay(t, b)
	outA := a.FillBuffer(4000)
	outB := b.FillBuffer(4000)
	for i := range outA {
		if math.Abs(float64(outA[i]-outB[i])) > 1e-6 {
			t.Fatalf("sample %d: one channel %v, two identical channels %v", i, outA[i], outB[i])
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	s := song.Demo()
	s.Channels[1].Oscillator = osc.Noise
	a := newTestEngine(t, &s, WithSampleRate(8000), WithSeed(9))
	b := newTestEngine(t, &s, WithSampleRate(8000), WithSeed(9))
	mustPlay(t, a)
	mustPlay(t, b)
	for n := 0; n < 8; n++ {
		x, y := a.FillBuffer(256), b.FillBuffer(256)
		for i := range x {
			if x[i] != y[i] {
				t.Fatalf("block %d sample %d differs: %v vs %v", n, i, x[i], y[i])
			}
		}
	}
}

func TestFillMatchesFillBufferAndRetainsLast(t *testing.T) {
	s := song.Demo()
	a := newTestEngine(t, &s, WithSampleRate(8000))
	b := newTestEngine(t, &s, WithSampleRate(8000))
	mustPlay(t, a)
	mustPlay(t, b)

	want := a.FillBuffer(300)
	got := make([]float32, 601)
	b.Fill(got)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: Fill %v, FillBuffer %v", i, got[i], want[i])
		}
	}
	if got[600] != 0 {
		t.Fatalf("odd trailing sample = %v, want 0", got[600])
	}

	last, ok := b.LastBuffer()
	if !ok || len(last) != 600 {
		t.Fatalf("LastBuffer() = %d samples, ok=%v; want 600, true", len(last), ok)
	}
	for i := range last {
		if last[i] != want[i] {
			t.Fatalf("LastBuffer sample %d = %v, want %v", i, last[i], want[i])
		}
	}
	last[0] = 42
	again, _ := b.LastBuffer()
	if again[0] == 42 {
		t.Fatal("LastBuffer returned engine-owned storage")
	}
}

type recordingLifecycle struct {
	starts, stops int
	startErr      error
}

func (r *recordingLifecycle) OnStart() error { r.starts++; return r.startErr }
func (r *recordingLifecycle) OnStop() error  { r.stops++; return nil }

func TestLifecycleSignals(t *testing.T) {
	lc := &recordingLifecycle{}
	e := newTestEngine(t, scaleSong(osc.Sine, 1), WithSampleRate(1000), WithLifecycle(lc))

	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	mustPlay(t, e)
	mustPlay(t, e)
	e.Pause()
	mustPlay(t, e)
	if lc.starts != 1 {
		t.Fatalf("starts = %d, want 1", lc.starts)
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if lc.stops != 1 {
		t.Fatalf("stops = %d, want 1", lc.stops)
	}
}

func TestLifecycleStartFailure(t *testing.T) {
	lc := &recordingLifecycle{startErr: errors.New("device busy")}
	e := newTestEngine(t, scaleSong(osc.Sine, 1), WithSampleRate(1000), WithLifecycle(lc))
	if err := e.Play(); err == nil {
		t.Fatal("Play() = nil, want start error")
	}
	if e.Playing() {
		t.Fatal("engine playing after failed start")
	}
}

func TestInternalFaultSilencesPlayback(t *testing.T) {
	e := newTestEngine(t, scaleSong(osc.Square, 1), WithSampleRate(1000), WithDelayMix(0, 1, 0))
	mustPlay(t, e)
	e.FillBuffer(200)
	e.channels[0].patternStart = 50

	e.FillBuffer(1)
	if !errors.Is(e.Err(), ErrNoteIndex) {
		t.Fatalf("Err() = %v, want ErrNoteIndex", e.Err())
	}
	sample := e.Position().Sample
	if out := e.FillBuffer(64); !testutil.Silent32(out) {
		t.Fatal("faulted engine kept rendering voices")
	}
	if e.Position().Sample != sample {
		t.Fatal("faulted engine kept advancing the clock")
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if e.Err() != nil {
		t.Fatal("Stop did not clear the fault")
	}
}

func TestNewAppliesOptions(t *testing.T) {
	e := newTestEngine(t, scaleSong(osc.Noise, 1),
		WithSampleRate(1000), WithBlockSize(64),
		WithDelayTime(0.25), WithMaxDelayTime(1), WithDelayMix(0.5, 0.4, 0.3),
		WithNoiseMode(osc.NoiseSquareCompat))

	d := e.Delay()
	if d.Len() != 250 || d.Cap() != 1000 {
		t.Fatalf("delay len/cap = %d/%d, want 250/1000", d.Len(), d.Cap())
	}
	if d.Wet() != 0.5 || d.Dry() != 0.4 || d.Feedback() != 0.3 {
		t.Fatalf("delay mix = %v/%v/%v", d.Wet(), d.Dry(), d.Feedback())
	}
	if e.NoiseMode() != osc.NoiseSquareCompat {
		t.Fatalf("NoiseMode() = %v, want square compat", e.NoiseMode())
	}
	if e.SampleRate() != 1000 || e.BlockSize() != 64 {
		t.Fatalf("processor = %v Hz, %d frames", e.SampleRate(), e.BlockSize())
	}

	e = newTestEngine(t, scaleSong(osc.Sine, 1), WithSampleRate(1000), WithDelayFrames(7))
	if e.Delay().Len() != 7 {
		t.Fatalf("delay len = %d, want 7", e.Delay().Len())
	}
}

func TestRestNoteIsSilent(t *testing.T) {
	s := &song.Song{
		Tempo: 60,
		Patterns: []song.Pattern{song.NewPattern(
			song.N(song.A, 4, 0), song.N(song.A, 4, 0.8),
		)},
		Channels: []song.Channel{{Patterns: []int{0}, Oscillator: osc.Square}},
	}
	e := newTestEngine(t, s, WithSampleRate(1000), WithDelayMix(0, 1, 0))
	mustPlay(t, e)
	if !e.channels[0].rest {
		t.Fatal("first note not resolved as a rest")
	}
	if out := e.FillBuffer(1000); !testutil.Silent32(out) {
		t.Fatal("rest beat produced sound")
	}
	if e.channels[0].rest {
		t.Fatal("second note still marked as a rest")
	}
	if out := e.FillBuffer(500); testutil.Silent32(out) {
		t.Fatal("sounding beat is silent")
	}
}
