// Command seqplay plays the demo song on the default audio device with a
// live terminal display.
//
// Usage:
//
//	seqplay [flags]
//
// Keys: space or p toggles play/pause, s stops, q quits.
//
// Examples:
//
//	seqplay
//	seqplay -rate 44100 -delay 0.25 -feedback 0.5
//	seqplay -wave triangle -debug
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-seq/dsp/osc"
	"github.com/cwbudde/algo-seq/engine"
	"github.com/cwbudde/algo-seq/internal/debug"
	"github.com/cwbudde/algo-seq/internal/tui"
	"github.com/cwbudde/algo-seq/output"
	"github.com/cwbudde/algo-seq/output/device"
	"github.com/cwbudde/algo-seq/scope"
	"github.com/cwbudde/algo-seq/song"
)

func main() {
	rate := flag.Int("rate", 48000, "output sample rate in Hz")
	block := flag.Int("block", 1024, "frames per output buffer")
	delayTime := flag.Float64("delay", 0.5, "echo time in seconds")
	wet := flag.Float64("wet", 0.25, "echo gain")
	dry := flag.Float64("dry", 0.75, "direct signal gain")
	feedback := flag.Float64("feedback", 0.35, "echo feedback in [0, 1)")
	seed := flag.Int64("seed", 1, "noise seed")
	noise := flag.String("noise", "uniform", "noise rendering: uniform or square")
	wave := flag.String("wave", "", "override every channel's waveform (sine, square, triangle, noise)")
	fftSize := flag.Int("fft", 1024, "spectrum size, power of two")
	paused := flag.Bool("paused", false, "start stopped instead of playing")
	debugLog := flag.Bool("debug", false, "write a debug log to "+debug.DefaultPath())
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: seqplay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Plays the demo song. Keys: space/p play-pause, s stop, q quit.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *debugLog {
		if err := debug.Enable(""); err != nil {
			log.Fatalf("seqplay: %v", err)
		}
		defer debug.Disable()
	}

	mode, err := osc.ParseNoiseMode(*noise)
	if err != nil {
		log.Fatalf("seqplay: %v", err)
	}
	s := song.Demo()
	if *wave != "" {
		kind, err := osc.ParseKind(*wave)
		if err != nil {
			log.Fatalf("seqplay: %v", err)
		}
		for i := range s.Channels {
			s.Channels[i].Oscillator = kind
		}
	}

	dev, err := device.New(*rate, *block)
	if err != nil {
		log.Fatalf("seqplay: %v", err)
	}
	defer dev.Close()

	e, err := engine.New(&s,
		engine.WithSampleRate(float64(*rate)),
		engine.WithBlockSize(*block),
		engine.WithDelayTime(*delayTime),
		engine.WithDelayMix(*wet, *dry, *feedback),
		engine.WithSeed(*seed),
		engine.WithNoiseMode(mode),
		engine.WithLifecycle(dev),
	)
	if err != nil {
		log.Fatalf("seqplay: %v", err)
	}
	d := e.Delay()
	debug.Log("main", "engine ready: %d Hz, %d frames, delay %d/%d frames, noise mode %d",
		*rate, e.BlockSize(), d.Len(), d.Cap(), e.NoiseMode())
	g := output.NewGuard(e)
	dev.Attach(output.NewReader(g, *block))

	analyzer, err := scope.NewAnalyzer(*fftSize)
	if err != nil {
		log.Fatalf("seqplay: %v", err)
	}

	if !*paused {
		if err := g.Play(); err != nil {
			log.Fatalf("seqplay: %v", err)
		}
	}

	p := tea.NewProgram(tui.NewModel(g, analyzer, "seqplay"), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := dev.Err(); err != nil {
		debug.Log("main", "audio backend: %v", err)
	}
}
