package generate

import (
	"github.com/cbegin/lofi-go/internal/song"
	"github.com/cbegin/lofi-go/internal/theory"
)

// Tables are the curated inputs the generator chooses from.
type Tables struct {
	Progressions [][]song.Chord
}

func chord(name string, octave int, q theory.Quality) song.Chord {
	return song.Chord{Root: theory.MustPitch(name, octave), Intervals: q}
}

// DefaultTables returns the stock progressions.
func DefaultTables() Tables {
	return Tables{Progressions: [][]song.Chord{
		{
			chord("D", 4, theory.Minor11),
			chord("Eb", 4, theory.Minor11),
			chord("D", 4, theory.Minor11),
			chord("Eb", 4, theory.Minor11),
		},
		{
			chord("F", 4, theory.Minor9),
			chord("Eb", 4, theory.Major9),
			chord("F", 4, theory.Minor9),
			chord("Eb", 4, theory.Major9),
		},
		// Dm11 Gm7 Dm11 Ebm11 C#dim7
		{
			chord("D", 4, theory.Minor11),
			chord("G", 4, theory.Minor7),
			chord("D", 4, theory.Minor11),
			chord("Eb", 4, theory.Minor11),
			chord("C#", 5, theory.Dim7),
		},
		// Am11 D7 Fmaj7 Cmaj7
		{
			chord("A", 4, theory.Minor11),
			chord("D", 4, theory.Dom7),
			chord("F", 4, theory.Major7),
			chord("C", 4, theory.Major7),
		},
		// Gmaj7 F#m7 Em9 Am7
		{
			chord("G", 4, theory.Major7),
			chord("F#", 4, theory.Minor7),
			chord("E", 4, theory.Minor9),
			chord("A", 4, theory.Minor7),
		},
		// Csus4 Am7 Dm7 Gmaj7
		{
			chord("C", 4, theory.Sus4),
			chord("A", 4, theory.Minor7),
			chord("D", 4, theory.Minor7),
			chord("G", 4, theory.Major7),
		},
	}}
}
