//go:build js && wasm

// Command wasm exposes the sequencer to a browser page as the global
// AlgoSeq object. The page pulls audio with render from its AudioWorklet.
package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-seq/dsp/osc"
	"github.com/cwbudde/algo-seq/engine"
	"github.com/cwbudde/algo-seq/scope"
	"github.com/cwbudde/algo-seq/song"
)

var (
	eng   *engine.Engine
	track song.Song
	funcs []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		opts := []engine.Option{engine.WithSampleRate(48000)}
		if len(args) > 0 {
			opts = append(opts, engine.WithSampleRate(args[0].Float()))
		}
		if len(args) > 1 && args[1].Type() == js.TypeObject {
			extra, err := optionsFromJS(args[1])
			if err != nil {
				return err.Error()
			}
			opts = append(opts, extra...)
		}
		track = song.Demo()
		e, err := engine.New(&track, opts...)
		if err != nil {
			return err.Error()
		}
		eng = e
		return js.Null()
	}))

	api.Set("play", export(func(args []js.Value) any {
		if eng == nil {
			return "engine not initialized"
		}
		if err := eng.Play(); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("pause", export(func(args []js.Value) any {
		if eng != nil {
			eng.Pause()
		}
		return js.Null()
	}))

	api.Set("togglePause", export(func(args []js.Value) any {
		if eng != nil {
			eng.TogglePause()
		}
		return js.Null()
	}))

	api.Set("stop", export(func(args []js.Value) any {
		if eng == nil {
			return js.Null()
		}
		if err := eng.Stop(); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("render", export(func(args []js.Value) any {
		if eng == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		return float32Array(eng.FillBuffer(args[0].Int()))
	}))

	api.Set("lastBuffer", export(func(args []js.Value) any {
		if eng == nil {
			return js.Null()
		}
		buf, ok := eng.LastBuffer()
		if !ok {
			return js.Null()
		}
		return float32Array(buf)
	}))

	api.Set("waveform", export(func(args []js.Value) any {
		if eng == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		buf, ok := eng.LastBuffer()
		if !ok {
			return js.Global().Get("Float32Array").New(0)
		}
		return float32Array(scope.Downsample(buf, args[0].Int()))
	}))

	api.Set("position", export(func(args []js.Value) any {
		if eng == nil {
			return js.Null()
		}
		p := eng.Position()
		obj := js.Global().Get("Object").New()
		obj.Set("sample", float64(p.Sample))
		obj.Set("time", p.Time)
		obj.Set("beat", p.Beat)
		obj.Set("playing", eng.Playing())
		obj.Set("paused", eng.Paused())
		channels := js.Global().Get("Array").New(len(p.Channels))
		for i, ch := range p.Channels {
			c := js.Global().Get("Object").New()
			c.Set("oscillator", ch.Oscillator.String())
			c.Set("slot", ch.Slot)
			c.Set("pattern", ch.Pattern)
			c.Set("note", ch.Note)
			c.Set("frequency", ch.Frequency)
			c.Set("intensity", ch.Intensity)
			channels.SetIndex(i, c)
		}
		obj.Set("channels", channels)
		return obj
	}))

	js.Global().Set("AlgoSeq", api)
	select {}
}

// optionsFromJS reads {delay, wet, dry, feedback, seed, noise} from o.
// Missing fields keep their defaults; an unknown noise mode is an error.
func optionsFromJS(o js.Value) ([]engine.Option, error) {
	var opts []engine.Option
	if v := o.Get("delay"); v.Type() == js.TypeNumber {
		opts = append(opts, engine.WithDelayTime(v.Float()))
	}
	wet, dry, fb := o.Get("wet"), o.Get("dry"), o.Get("feedback")
	if wet.Type() == js.TypeNumber && dry.Type() == js.TypeNumber && fb.Type() == js.TypeNumber {
		opts = append(opts, engine.WithDelayMix(wet.Float(), dry.Float(), fb.Float()))
	}
	if v := o.Get("seed"); v.Type() == js.TypeNumber {
		opts = append(opts, engine.WithSeed(int64(v.Int())))
	}
	if v := o.Get("noise"); v.Type() == js.TypeString {
		mode, err := osc.ParseNoiseMode(v.String())
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithNoiseMode(mode))
	}
	return opts, nil
}

func float32Array(buf []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(buf))
	for i := range buf {
		arr.SetIndex(i, buf[i])
	}
	return arr
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
