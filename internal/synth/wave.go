// Package synth holds the stateless waveform and envelope primitives the
// track renderers are built from. All functions are safe to call from the
// audio thread.
package synth

import (
	"math"
	"math/rand/v2"

	"github.com/cbegin/lofi-go/internal/theory"
)

// Wave selects one of the primitive oscillators.
type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSquare
	WaveSaw
	WaveNoise
)

var waveNames = [...]string{"sine", "triangle", "square", "saw", "noise"}

func (w Wave) String() string {
	if w < 0 || int(w) >= len(waveNames) {
		return "unknown"
	}
	return waveNames[w]
}

// At evaluates the waveform at frequency f and time t (seconds).
func (w Wave) At(f, t float64) float64 {
	switch w {
	case WaveTriangle:
		return Triangle(f, t)
	case WaveSquare:
		return Square(f, t)
	case WaveSaw:
		return Saw(f, t)
	case WaveNoise:
		return Noise()
	default:
		return Sine(f, t)
	}
}

// Sine returns sin(2*pi*f*t).
func Sine(f, t float64) float64 {
	return math.Sin(f * theory.Hz * t)
}

// Square is the sign of Sine, so it is exactly 0 at zero crossings.
func Square(f, t float64) float64 {
	s := Sine(f, t)
	switch {
	case s > 0:
		return 1
	case s < 0:
		return -1
	}
	return 0
}

// Triangle starts at 0, peaks at a quarter period and bottoms out at three
// quarters.
func Triangle(f, t float64) float64 {
	i := phase(f, t)
	if i <= 0.25 {
		return i * 4
	}
	if i < 0.75 {
		return 4 * (0.5 - i)
	}
	return -(1 - i) * 4
}

// Saw falls from 1 to -1 over one period.
func Saw(f, t float64) float64 {
	return 1 - 2*phase(f, t)
}

// Noise returns white noise in [-1, 1).
func Noise() float64 {
	return rand.Float64()*2 - 1
}

func phase(f, t float64) float64 {
	p := math.Mod(f*t, 1)
	if p < 0 {
		p++
	}
	return p
}
