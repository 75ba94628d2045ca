// Package theory holds the pitch and chord lookups shared by generation and
// rendering.
package theory

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// Hz converts cycles to radians.
	Hz = math.Pi * 2
	// BeatsPerSecond turns a per-minute tempo into beats per second.
	BeatsPerSecond = 1.0 / 60
	// BeatsPerBar is fixed; every song is in 4/4.
	BeatsPerBar = 4
)

// ErrUnknownPitch is returned when a pitch name cannot be parsed.
var ErrUnknownPitch = errors.New("theory: unknown pitch name")

// NoteFreq converts a (possibly fractional) MIDI-style note number to Hz.
// Note 69 is A4 at 440 Hz.
func NoteFreq(n float64) float64 {
	return 440 * math.Pow(2, (n-69)/12)
}

var pitchClasses = map[byte]int{
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'A': 9,
	'B': 11,
}

// Pitch converts a name like "C#" or "eb" plus an octave to a note number
// (octave*12 + pitch class).
func Pitch(name string, octave int) (float64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrUnknownPitch
	}
	base, ok := pitchClasses[strings.ToUpper(name[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
	}
	if len(name) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
	}
	if len(name) == 2 {
		switch name[1] {
		case '#':
			base++
		case 'b':
			base--
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnknownPitch, name)
		}
	}
	return float64(octave*12 + base), nil
}

// MustPitch is Pitch for static tables.
func MustPitch(name string, octave int) float64 {
	n, err := Pitch(name, octave)
	if err != nil {
		panic(err)
	}
	return n
}

// Quality is a chord template in integer notation.
type Quality []float64

var (
	Major   = Quality{0, 4, 7, 12}
	Sus4    = Quality{0, 5, 7, 12}
	Major7  = Quality{0, 4, 7, 14}
	Major9  = Quality{0, 4, 7, 11, 14, 19}
	Minor   = Quality{0, 3, 7, 12}
	Minor7  = Quality{0, 3, 7, 10}
	Minor9  = Quality{0, 3, 7, 10, 14, 17}
	Minor11 = Quality{0, 3, 7, 10, 17}
	Dim7    = Quality{0, 3, 6, 9}
	Dom7    = Quality{0, 4, 7, 10}
	Dom9    = Quality{0, 4, 7, 10, 14}
)

// Qualities maps quality names to their templates.
var Qualities = map[string]Quality{
	"major":   Major,
	"sus4":    Sus4,
	"major7":  Major7,
	"major9":  Major9,
	"minor":   Minor,
	"minor7":  Minor7,
	"minor9":  Minor9,
	"minor11": Minor11,
	"dim7":    Dim7,
	"dom7":    Dom7,
	"dom9":    Dom9,
}

// ChordFreqs appends the frequency of root+interval for each interval to dst
// and returns the extended slice. It does not allocate when dst has room.
func ChordFreqs(dst []float64, root float64, intervals []float64) []float64 {
	for _, i := range intervals {
		dst = append(dst, NoteFreq(root+i))
	}
	return dst
}

// Chord is ChordFreqs into a fresh slice.
func Chord(root float64, intervals []float64) []float64 {
	return ChordFreqs(make([]float64, 0, len(intervals)), root, intervals)
}
