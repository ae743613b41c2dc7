package device

import (
	"testing"
	"time"
)

func TestBufferDuration(t *testing.T) {
	tests := []struct {
		rate, frames int
		want         time.Duration
	}{
		{48000, 1024, 21333333 * time.Nanosecond},
		{48000, 48000, time.Second},
		{44100, 4410, 100 * time.Millisecond},
		{0, 1024, 0},
		{48000, 0, 0},
	}
	for _, tt := range tests {
		if got := bufferDuration(tt.rate, tt.frames); got != tt.want {
			t.Fatalf("bufferDuration(%d, %d) = %v, want %v", tt.rate, tt.frames, got, tt.want)
		}
	}
}
