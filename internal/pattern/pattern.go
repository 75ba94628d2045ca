// Package pattern builds the fixed-length drum step patterns.
package pattern

import (
	"math"
	"strings"

	"github.com/cbegin/lofi-go/internal/prng"
)

const (
	hitChar  = '*'
	restChar = '.'
)

// Pattern is a step sequence; true marks a hit.
type Pattern []bool

// Parse reads a "*...*..." string. Any character other than '*' is a rest.
func Parse(s string) Pattern {
	p := make(Pattern, len(s))
	for i := range s {
		p[i] = s[i] == hitChar
	}
	return p
}

func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, hit := range p {
		if hit {
			b.WriteByte(hitChar)
		} else {
			b.WriteByte(restChar)
		}
	}
	return b.String()
}

// Hits counts the steps that sound.
func (p Pattern) Hits() int {
	n := 0
	for _, hit := range p {
		if hit {
			n++
		}
	}
	return n
}

// Step looks up the step under pos, a position in [0, 1) across the whole
// pattern. It reports whether the step is a hit and how far into that step pos
// lies, as a fraction in [0, 1).
func (p Pattern) Step(pos float64) (frac float64, hit bool) {
	if len(p) == 0 {
		return 0, false
	}
	tick := pos * float64(len(p))
	idx := math.Floor(tick)
	i := int(idx)
	if i < 0 || i >= len(p) || !p[i] {
		return 0, false
	}
	return tick - idx, true
}

// Offset converts the position within the current hit into beats, given the
// pattern's steps per beat.
func (p Pattern) Offset(pos, stepsPerBeat float64) (beats float64, hit bool) {
	frac, hit := p.Step(pos)
	if !hit || stepsPerBeat <= 0 {
		return 0, false
	}
	return frac / stepsPerBeat, true
}

// Snare is the fixed backbeat on steps 5 and 13.
func Snare() Pattern {
	return Parse("....*.......*...")
}

// Kick is four on the floor halves with up to four random extra hits.
func Kick(r prng.Source) Pattern {
	p := Parse("*.......*.......")
	for i := 0; float64(i) < r.Float()*4; i++ {
		p[prng.IntRange(r, 0, len(p))] = true
	}
	return p
}

// Hat places a hit every 2-8 steps over 32 steps and then toggles a handful
// of random steps.
func Hat(r prng.Source) Pattern {
	p := make(Pattern, 32)
	resolution := prng.IntRange(r, 2, 9)
	for i := 0; i < len(p); i += resolution {
		p[i] = true
	}
	mods := r.Float() * 8
	for i := 0; float64(i) < mods+1; i++ {
		pos := prng.IntRange(r, 0, len(p))
		p[pos] = !p[pos]
	}
	return p
}
