// Package render writes an output source to a WAV file offline, without an
// audio device.
package render

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-seq/dsp/core"
	"github.com/cwbudde/algo-seq/output"
)

// BitDepth is the PCM resolution of rendered files.
const BitDepth = 16

// WriteWAV pulls frames frames from src in blocks of blockSize and encodes
// them as 16-bit stereo PCM at sampleRate.
func WriteWAV(w io.WriteSeeker, src output.Source, sampleRate, frames, blockSize int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("render sample rate must be > 0: %d", sampleRate)
	}
	if frames < 0 {
		return fmt.Errorf("render frames must be >= 0: %d", frames)
	}
	if blockSize <= 0 {
		return fmt.Errorf("render block size must be > 0: %d", blockSize)
	}

	enc := wav.NewEncoder(w, sampleRate, BitDepth, core.Channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: core.Channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, blockSize*core.Channels),
		SourceBitDepth: BitDepth,
	}

	for done := 0; done < frames; {
		n := min(blockSize, frames-done)
		samples := src.FillBuffer(n)
		if len(samples) != n*core.Channels {
			return fmt.Errorf("render source returned %d samples, want %d", len(samples), n*core.Channels)
		}
		buf.Data = buf.Data[:len(samples)]
		for i, s := range samples {
			buf.Data[i] = toPCM(s)
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("render write: %w", err)
		}
		done += n
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("render finalize: %w", err)
	}
	return nil
}

// WriteFile creates path and renders into it.
func WriteFile(path string, src output.Source, sampleRate, frames, blockSize int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteWAV(f, src, sampleRate, frames, blockSize)
}

func toPCM(s float32) int {
	x := core.Clamp(float64(s), -1, 1)
	return int(math.Round(x * math.MaxInt16))
}
