package theory

import (
	"errors"
	"math"
	"testing"
)

func TestNoteFreq(t *testing.T) {
	for _, tc := range []struct {
		note float64
		want float64
	}{
		{69, 440},
		{81, 880},
		{57, 220},
		{60, 261.6255653005986},
	} {
		if got := NoteFreq(tc.note); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("NoteFreq(%v) = %v, want %v", tc.note, got, tc.want)
		}
	}
}

func TestPitch(t *testing.T) {
	for _, tc := range []struct {
		name   string
		octave int
		want   float64
	}{
		{"C", 4, 48},
		{"D", 4, 50},
		{"Eb", 4, 51},
		{"c#", 5, 61},
		{"F#", 4, 54},
		{"B", 0, 11},
	} {
		got, err := Pitch(tc.name, tc.octave)
		if err != nil {
			t.Fatalf("Pitch(%q): %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("Pitch(%q, %d) = %v, want %v", tc.name, tc.octave, got, tc.want)
		}
	}
}

func TestPitchRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "H", "C?", "Cbb"} {
		if _, err := Pitch(name, 4); !errors.Is(err, ErrUnknownPitch) {
			t.Fatalf("Pitch(%q) err = %v, want ErrUnknownPitch", name, err)
		}
	}
}

func TestChordFreqsReusesBuffer(t *testing.T) {
	buf := make([]float64, 0, 8)
	out := ChordFreqs(buf[:0], 69, Major)
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
	if &out[0] != &buf[:1][0] {
		t.Fatalf("ChordFreqs reallocated despite capacity")
	}
	if math.Abs(out[3]-880) > 1e-9 {
		t.Fatalf("octave = %v, want 880", out[3])
	}
}

func TestQualitiesStartAtRoot(t *testing.T) {
	for name, q := range Qualities {
		if len(q) == 0 || q[0] != 0 {
			t.Fatalf("quality %s should start at the root", name)
		}
	}
}
