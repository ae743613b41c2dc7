// Command seqrender renders the demo song to a 16-bit stereo WAV file.
//
// Usage:
//
//	seqrender [flags]
//
// Examples:
//
//	seqrender -o demo.wav
//	seqrender -seconds 30 -rate 44100 -noise square -o compat.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cwbudde/algo-seq/dsp/osc"
	"github.com/cwbudde/algo-seq/engine"
	"github.com/cwbudde/algo-seq/render"
	"github.com/cwbudde/algo-seq/song"
)

func main() {
	outPath := flag.String("o", "out.wav", "output WAV path")
	seconds := flag.Float64("seconds", 16, "length to render in seconds")
	rate := flag.Int("rate", 48000, "sample rate in Hz")
	block := flag.Int("block", 1024, "frames per render block")
	delayTime := flag.Float64("delay", 0.5, "echo time in seconds")
	wet := flag.Float64("wet", 0.25, "echo gain")
	dry := flag.Float64("dry", 0.75, "direct signal gain")
	feedback := flag.Float64("feedback", 0.35, "echo feedback in [0, 1)")
	seed := flag.Int64("seed", 1, "noise seed")
	noise := flag.String("noise", "uniform", "noise rendering: uniform or square")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: seqrender [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders the demo song offline to a WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *seconds <= 0 {
		log.Fatalf("seqrender: seconds must be > 0: %f", *seconds)
	}
	mode, err := osc.ParseNoiseMode(*noise)
	if err != nil {
		log.Fatalf("seqrender: %v", err)
	}

	s := song.Demo()
	e, err := engine.New(&s,
		engine.WithSampleRate(float64(*rate)),
		engine.WithBlockSize(*block),
		engine.WithDelayTime(*delayTime),
		engine.WithDelayMix(*wet, *dry, *feedback),
		engine.WithSeed(*seed),
		engine.WithNoiseMode(mode),
	)
	if err != nil {
		log.Fatalf("seqrender: %v", err)
	}
	if err := e.Play(); err != nil {
		log.Fatalf("seqrender: %v", err)
	}

	frames := int(*seconds * float64(*rate))
	if err := render.WriteFile(*outPath, e, *rate, frames, *block); err != nil {
		log.Fatalf("seqrender: %v", err)
	}
	fmt.Printf("wrote %s: %d frames at %d Hz (%.1f beats)\n",
		*outPath, frames, *rate, e.Position().Beat)
}
