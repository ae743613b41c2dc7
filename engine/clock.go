package engine

// clock counts rendered samples and derives elapsed time and beat position.
// Both are recomputed from the integer sample index so long sessions do not
// accumulate rounding error.
type clock struct {
	sampleRate float64
	tempo      float64

	index uint64
	time  float64
	beat  float64
}

func (c *clock) reset(tempo float64) {
	c.tempo = tempo
	c.index = 0
	c.time = 0
	c.beat = 0
}

func (c *clock) tick() {
	c.index++
	n := float64(c.index)
	c.time = n / c.sampleRate
	c.beat = n * c.tempo / (60 * c.sampleRate)
}
