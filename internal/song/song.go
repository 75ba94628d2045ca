// Package song holds the immutable composition produced by the generator and
// read by the render engine.
package song

import (
	"errors"
	"fmt"
	"math"

	"github.com/cbegin/lofi-go/internal/theory"
)

// Validation errors returned by Song.Validate.
var (
	ErrEmptyProgression = errors.New("song: empty progression")
	ErrInvalidTempo     = errors.New("song: tempo must be positive")
	ErrInvalidChunk     = errors.New("song: chunk must end after it starts")
	ErrAutomationOrder  = errors.New("song: automation bars must not decrease")
	ErrNoRenderer       = errors.New("song: chunk has no renderer")
)

// Automation parameter names.
const (
	ParamVolume = "volume"
	ParamFilter = "filter"
)

// Chord is one progression entry: a root note number and the intervals above
// it in (possibly fractional) semitones.
type Chord struct {
	Root      float64
	Intervals []float64
}

// Breakpoint is a ramp target: Value is reached at Bar.
type Breakpoint struct {
	Bar   float64 `yaml:"bar"`
	Value float64 `yaml:"value"`
}

// Automations maps a parameter name to its breakpoints in bar order.
type Automations map[string][]Breakpoint

// Clone deep-copies the breakpoint lists.
func (a Automations) Clone() Automations {
	if a == nil {
		return nil
	}
	out := make(Automations, len(a))
	for k, v := range a {
		out[k] = append([]Breakpoint(nil), v...)
	}
	return out
}

// Track is one named instrument line across the whole song.
type Track struct {
	Name   string
	Volume float64
	Chunks []*Chunk
}

// Chunk is a span of time in which a renderer contributes to its track.
// Times are seconds relative to Song.StartTime; Start is the absolute bar.
type Chunk struct {
	Renderer  Renderer
	Start     float64
	StartTime float64
	EndTime   float64
	Track     *Track
}

// Active reports whether t falls in [StartTime, EndTime).
func (c *Chunk) Active(t float64) bool {
	return c.StartTime <= t && t < c.EndTime
}

// Song is a fully generated composition. It is never mutated once handed to
// the engine.
type Song struct {
	Seed        uint32
	Tempo       float64
	StartTime   float64
	Progression []Chord
	Structure   []string
	Sections    map[string]*Section
	Tracks      []*Track
	Automations Automations
	Length      float64
}

// BarDuration is the length of one bar in seconds.
func (s *Song) BarDuration() float64 {
	return theory.BeatsPerBar / (s.Tempo * theory.BeatsPerSecond)
}

// Duration is the song length in seconds.
func (s *Song) Duration() float64 {
	return s.Length * s.BarDuration()
}

// EndTime is the absolute clock time at which the song ends.
func (s *Song) EndTime() float64 {
	return s.StartTime + s.Duration()
}

// ChordIndex maps any bar, including negative ones, onto the progression.
func (s *Song) ChordIndex(bar float64) int {
	n := len(s.Progression)
	if n == 0 {
		return 0
	}
	i := int(math.Floor(bar)) % n
	if i < 0 {
		i += n
	}
	return i
}

// Track returns the named track, or nil.
func (s *Song) Track(name string) *Track {
	for _, t := range s.Tracks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Validate checks the timing invariants the engine relies on.
func (s *Song) Validate() error {
	if len(s.Progression) == 0 {
		return ErrEmptyProgression
	}
	if !(s.Tempo > 0) || math.IsInf(s.Tempo, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTempo, s.Tempo)
	}
	for _, t := range s.Tracks {
		for i, c := range t.Chunks {
			if c.Renderer == nil {
				return fmt.Errorf("%w: track %q chunk %d", ErrNoRenderer, t.Name, i)
			}
			if !(c.EndTime > c.StartTime) {
				return fmt.Errorf("%w: track %q chunk %d [%v, %v)", ErrInvalidChunk, t.Name, i, c.StartTime, c.EndTime)
			}
		}
	}
	for name, bps := range s.Automations {
		for i := 1; i < len(bps); i++ {
			if bps[i].Bar < bps[i-1].Bar {
				return fmt.Errorf("%w: %s at index %d", ErrAutomationOrder, name, i)
			}
		}
	}
	return nil
}
