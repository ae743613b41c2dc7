package engine

import (
	"github.com/cwbudde/algo-seq/dsp/core"
	"github.com/cwbudde/algo-seq/dsp/osc"
)

const (
	defaultDelaySeconds    = 0.5
	defaultMaxDelaySeconds = 2.0
	defaultWet             = 0.25
	defaultDry             = 0.75
	defaultFeedback        = 0.35
	defaultSeed            = 1
)

type config struct {
	proc core.ProcessorConfig

	delaySeconds    float64
	maxDelaySeconds float64
	delayFrames     int
	wet             float64
	dry             float64
	feedback        float64

	seed      int64
	noiseMode osc.NoiseMode
	lifecycle Lifecycle
}

func defaultConfig() config {
	return config{
		proc:            core.DefaultProcessorConfig(),
		delaySeconds:    defaultDelaySeconds,
		maxDelaySeconds: defaultMaxDelaySeconds,
		wet:             defaultWet,
		dry:             defaultDry,
		feedback:        defaultFeedback,
		seed:            defaultSeed,
	}
}

// Option configures an Engine.
type Option func(*config)

// WithProcessor applies shared processor options such as sample rate and
// block size.
func WithProcessor(opts ...core.ProcessorOption) Option {
	return func(c *config) {
		for _, opt := range opts {
			if opt != nil {
				opt(&c.proc)
			}
		}
	}
}

// WithSampleRate sets the output sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return WithProcessor(core.WithSampleRate(sampleRate))
}

// WithBlockSize sets the preferred number of frames per output buffer.
func WithBlockSize(frames int) Option {
	return WithProcessor(core.WithBlockSize(frames))
}

// WithDelayTime sets the echo time in seconds.
func WithDelayTime(seconds float64) Option {
	return func(c *config) {
		c.delaySeconds = seconds
		c.delayFrames = 0
	}
}

// WithDelayFrames sets the echo time as an exact number of frames. It takes
// precedence over WithDelayTime.
func WithDelayFrames(frames int) Option {
	return func(c *config) {
		c.delayFrames = frames
	}
}

// WithMaxDelayTime sets the capacity of the delay line in seconds.
func WithMaxDelayTime(seconds float64) Option {
	return func(c *config) {
		c.maxDelaySeconds = seconds
	}
}

// WithDelayMix sets the wet gain, dry gain and feedback of the echo.
func WithDelayMix(wet, dry, feedback float64) Option {
	return func(c *config) {
		c.wet = wet
		c.dry = dry
		c.feedback = feedback
	}
}

// WithSeed sets the noise seed. Each play session restarts from it.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithNoiseMode selects how Noise channels are rendered.
func WithNoiseMode(mode osc.NoiseMode) Option {
	return func(c *config) {
		c.noiseMode = mode
	}
}

// WithLifecycle registers the output collaborator that is told when
// playback starts and stops.
func WithLifecycle(l Lifecycle) Option {
	return func(c *config) {
		c.lifecycle = l
	}
}
