// Package effects is the host audio graph behind the engine: the automated
// master filter and gain stage, dynamics, and optional colour effects.
package effects

import "math"

// Effector processes one stereo frame.
type Effector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// Chain applies a sequence of effects in order.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(l, r float32) (float32, float32) {
	for _, e := range c.effects {
		l, r = e.Process(l, r)
	}
	return l, r
}

// ProcessBuffer runs the chain over interleaved stereo frames in place.
func (c *Chain) ProcessBuffer(buf []float32) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = c.Process(buf[i], buf[i+1])
	}
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

func (c *Chain) Len() int { return len(c.effects) }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// onePole returns the smoothing coefficient of a one-pole lowpass at hz.
func onePole(sampleRate int, hz float64) float32 {
	if hz <= 0 || hz >= float64(sampleRate)/2 {
		return 1
	}
	rc := 1.0 / (2.0 * math.Pi * hz)
	dt := 1.0 / float64(sampleRate)
	return float32(dt / (rc + dt))
}
