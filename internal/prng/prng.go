// Package prng provides the seeded random stream that drives song generation.
//
// Every distribution is derived from Float, so one seed reproduces the whole
// generation pipeline bit for bit.
package prng

import (
	"errors"
	"math/rand/v2"
)

const (
	modulus    = 2147483647 // 2^31 - 1
	multiplier = 16807
)

// ErrEmpty is returned when a choice is requested from an empty set.
var ErrEmpty = errors.New("prng: empty choice set")

// Source is the minimal stream the distributions need.
type Source interface {
	Float() float64
}

// PRNG is a Lehmer (Park-Miller) generator.
type PRNG struct {
	state uint64
}

// New returns a generator seeded with seed. Seeds are reduced modulo 2^31-1;
// a zero residue is mapped to 2^31-2 so the stream never collapses.
func New(seed uint32) *PRNG {
	s := uint64(seed) % modulus
	if s == 0 {
		s = modulus - 1
	}
	return &PRNG{state: s}
}

// NewSeed draws a seed from the runtime's unseeded entropy source.
func NewSeed() uint32 {
	return rand.Uint32()
}

// Next advances the state and returns it, always in [1, 2^31-2].
func (p *PRNG) Next() uint32 {
	p.state = p.state * multiplier % modulus
	return uint32(p.state)
}

// Float returns a value in [0, 1).
func (p *PRNG) Float() float64 {
	return float64(p.Next()-1) / (modulus - 1)
}

// Int returns an integer in [0, max). It returns 0 when max <= 0.
func (p *PRNG) Int(max int) int {
	return IntRange(p, 0, max)
}

// IntRange returns an integer in [min, max).
func (p *PRNG) IntRange(min, max int) int {
	return IntRange(p, min, max)
}

// Roll sums n rolls of a die with the given number of sides.
func (p *PRNG) Roll(n, sides int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += p.Int(sides) + 1
	}
	return total
}

// FloatRange returns a value in [min, max).
func FloatRange(s Source, min, max float64) float64 {
	return min + s.Float()*(max-min)
}

// IntRange returns an integer in [min, max) drawn from s.
func IntRange(s Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + int(s.Float()*float64(max-min))
}

// Chance reports true with probability p.
func Chance(s Source, p float64) bool {
	return s.Float() < p
}

// Choose returns a uniformly selected element of items.
func Choose[T any](s Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmpty
	}
	return items[IntRange(s, 0, len(items))], nil
}

// Option is a weighted candidate for Weighted. Non-positive weights count as 1.
type Option[T any] struct {
	Value  T
	Weight float64
}

// Weighted picks one option with probability proportional to its weight,
// using a single cumulative pass over the total weight.
func Weighted[T any](s Source, options []Option[T]) (T, error) {
	var zero T
	if len(options) == 0 {
		return zero, ErrEmpty
	}
	sum := 0.0
	for _, o := range options {
		sum += weight(o.Weight)
	}
	roll := s.Float() * sum
	total := 0.0
	for _, o := range options {
		total += weight(o.Weight)
		if roll < total {
			return o.Value, nil
		}
	}
	return options[len(options)-1].Value, nil
}

func weight(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}
