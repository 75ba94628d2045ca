// Package lfo provides the slow oscillators that modulate the master effects.
package lfo

import (
	"math"

	"github.com/cbegin/lofi-go/internal/prng"
)

// Shape selects the LFO waveform.
type Shape int

const (
	Sine Shape = iota
	Triangle
	Square
	Saw
	// Drift is a smoothed sample-and-hold: a new random target each cycle,
	// glided to over the cycle.
	Drift
)

// LFO produces one modulation value per sample in [-depth, +depth].
type LFO struct {
	depth float64
	step  float64 // phase increment per sample
	shape Shape
	phase float64 // [0, 1)

	rand     *prng.PRNG
	from, to float64
}

// New returns an LFO at rateHz for the given sample rate. seed only matters
// for Drift.
func New(shape Shape, rateHz, depth float64, sampleRate int, seed uint32) *LFO {
	l := &LFO{depth: depth, shape: shape, rand: prng.New(seed)}
	if sampleRate > 0 {
		l.step = rateHz / float64(sampleRate)
	}
	l.to = l.target()
	return l
}

func (l *LFO) target() float64 { return l.rand.Float()*2 - 1 }

// Sample returns the value at the current phase and advances by one sample.
// It returns 0 if depth or rate is zero.
func (l *LFO) Sample() float64 {
	if !l.Active() {
		return 0
	}
	p := l.phase
	var v float64
	switch l.shape {
	case Triangle:
		if p < 0.5 {
			v = 4*p - 1
		} else {
			v = 3 - 4*p
		}
	case Square:
		v = 1
		if p >= 0.5 {
			v = -1
		}
	case Saw:
		v = 1 - 2*p
	case Drift:
		// cosine glide from the last target to the next
		k := (1 - math.Cos(math.Pi*p)) / 2
		v = l.from + (l.to-l.from)*k
	default:
		v = math.Sin(2 * math.Pi * p)
	}

	l.phase += l.step
	for l.phase >= 1 {
		l.phase--
		if l.shape == Drift {
			l.from, l.to = l.to, l.target()
		}
	}
	return v * l.depth
}

// Active reports whether the LFO has non-zero depth and rate.
func (l *LFO) Active() bool {
	return l.depth != 0 && l.step != 0
}

// Reset returns to phase zero. Drift keeps its random stream position.
func (l *LFO) Reset() {
	l.phase = 0
	l.from = 0
}
