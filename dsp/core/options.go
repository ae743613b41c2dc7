package core

import (
	"fmt"
	"math"
)

// Channels is the number of interleaved output channels (stereo).
const Channels = 2

// ProcessorConfig defines common processing settings.
type ProcessorConfig struct {
	SampleRate float64
	// BlockSize is the number of stereo frames per output buffer.
	BlockSize int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns defaults suited to real-time playback.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  1024,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.SampleRate = sampleRate
	}
}

// WithBlockSize sets the number of frames per output buffer.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.BlockSize = blockSize
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports settings that cannot drive a render loop.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("sample rate must be > 0: %f", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", c.BlockSize)
	}
	return nil
}

// BlockSamples returns the interleaved sample count of one block.
func (c ProcessorConfig) BlockSamples() int {
	return c.BlockSize * Channels
}

// FramesFor returns how many frames span the given number of seconds.
func (c ProcessorConfig) FramesFor(seconds float64) int {
	return int(math.Round(seconds * c.SampleRate))
}
