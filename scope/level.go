package scope

import "math"

// FloorDB is the level reported for silence.
const FloorDB = -130.0

// Level holds per-channel peak and RMS values of one buffer, linear scale.
type Level struct {
	PeakL, PeakR float64
	RMSL, RMSR   float64
}

// Measure computes channel levels of an interleaved stereo buffer.
func Measure(buf []float32) Level {
	var lv Level
	frames := len(buf) / 2
	if frames == 0 {
		return lv
	}
	var sumL, sumR float64
	for i := 0; i < frames; i++ {
		l, r := float64(buf[2*i]), float64(buf[2*i+1])
		lv.PeakL = math.Max(lv.PeakL, math.Abs(l))
		lv.PeakR = math.Max(lv.PeakR, math.Abs(r))
		sumL += l * l
		sumR += r * r
	}
	lv.RMSL = mathSqrt(sumL / float64(frames))
	lv.RMSR = mathSqrt(sumR / float64(frames))
	return lv
}

// DB converts a linear amplitude to dBFS, floored at FloorDB.
func DB(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return FloorDB
	}
	db := 20 * mathLog10(x)
	if db < FloorDB {
		return FloorDB
	}
	return db
}
