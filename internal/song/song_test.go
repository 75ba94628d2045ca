package song

import (
	"errors"
	"math"
	"testing"
)

type constRenderer float64

func (constRenderer) Kind() Kind { return KindBass }
func (r constRenderer) Render(*State, *Chunk) float64 { return float64(r) }

func testSong() *Song {
	tr := &Track{Name: "bass", Volume: 0.5}
	tr.Chunks = []*Chunk{
		{Renderer: constRenderer(1), Start: 0, StartTime: 0, EndTime: 12, Track: tr},
		{Renderer: constRenderer(1), Start: 4, StartTime: 12, EndTime: 24, Track: tr},
	}
	return &Song{
		Seed:        1,
		Tempo:       80,
		Progression: []Chord{{Root: 60, Intervals: []float64{0, 4, 7, 12}}},
		Tracks:      []*Track{tr},
		Automations: Automations{ParamVolume: {{0, 0}, {4, 1}}},
		Length:      8,
	}
}

func TestBarDuration(t *testing.T) {
	s := testSong()
	if got := s.BarDuration(); math.Abs(got-3) > 1e-12 {
		t.Fatalf("BarDuration() = %v, want 3", got)
	}
	s.StartTime = 10
	if got := s.EndTime(); math.Abs(got-34) > 1e-9 {
		t.Fatalf("EndTime() = %v, want 34", got)
	}
}

func TestChunkHalfOpenBoundary(t *testing.T) {
	s := testSong()
	a, b := s.Tracks[0].Chunks[0], s.Tracks[0].Chunks[1]
	if a.Active(12) {
		t.Fatalf("chunk ending at 12 must not own t=12")
	}
	if !b.Active(12) {
		t.Fatalf("chunk starting at 12 must own t=12")
	}
	if !a.Active(0) || a.Active(-1e-9) {
		t.Fatalf("start bound must be inclusive")
	}
}

func TestChordIndexWraps(t *testing.T) {
	s := testSong()
	s.Progression = make([]Chord, 4)
	for _, tc := range []struct {
		bar  float64
		want int
	}{
		{0, 0}, {3.99, 3}, {4, 0}, {13.5, 1}, {-0.5, 3}, {-4, 0},
	} {
		if got := s.ChordIndex(tc.bar); got != tc.want {
			t.Fatalf("ChordIndex(%v) = %d, want %d", tc.bar, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := testSong().Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	s := testSong()
	s.Progression = nil
	if err := s.Validate(); !errors.Is(err, ErrEmptyProgression) {
		t.Fatalf("Validate() = %v, want ErrEmptyProgression", err)
	}

	s = testSong()
	s.Tempo = 0
	if err := s.Validate(); !errors.Is(err, ErrInvalidTempo) {
		t.Fatalf("Validate() = %v, want ErrInvalidTempo", err)
	}

	s = testSong()
	s.Tracks[0].Chunks[1].EndTime = 12
	if err := s.Validate(); !errors.Is(err, ErrInvalidChunk) {
		t.Fatalf("Validate() = %v, want ErrInvalidChunk", err)
	}

	s = testSong()
	s.Tracks[0].Chunks[0].Renderer = nil
	if err := s.Validate(); !errors.Is(err, ErrNoRenderer) {
		t.Fatalf("Validate() = %v, want ErrNoRenderer", err)
	}

	s = testSong()
	s.Automations[ParamFilter] = []Breakpoint{{2, 1}, {2, 0}, {1, 1}}
	if err := s.Validate(); !errors.Is(err, ErrAutomationOrder) {
		t.Fatalf("Validate() = %v, want ErrAutomationOrder", err)
	}
}

func TestSectionCloneIsDeep(t *testing.T) {
	end := 2.0
	src := &Section{
		Name:        "a",
		Length:      8,
		Automations: Automations{ParamVolume: {{0, 1}}},
		Tracks:      []SectionTrack{{Name: "arp", Volume: 0.2, Chunk: ChunkSpec{End: &end}}},
	}
	dst := src.Clone()
	dst.Automations[ParamVolume][0].Value = 0
	dst.Automations[ParamFilter] = []Breakpoint{{0, 1}}
	dst.Tracks[0].Volume = 1
	*dst.Tracks[0].Chunk.End = 5

	if src.Automations[ParamVolume][0].Value != 1 {
		t.Fatalf("clone shares automation breakpoints")
	}
	if _, ok := src.Automations[ParamFilter]; ok {
		t.Fatalf("clone shares automation map")
	}
	if src.Tracks[0].Volume != 0.2 || end != 2 {
		t.Fatalf("clone shares track list")
	}
}

func TestSummary(t *testing.T) {
	s := testSong()
	s.Sections = map[string]*Section{"b": {Name: "b", Length: 4}, "a": {Name: "a", Length: 4}}
	sum := s.Summary()
	if len(sum.Sections) != 2 || sum.Sections[0].Name != "a" {
		t.Fatalf("sections = %+v, want sorted by name", sum.Sections)
	}
	if len(sum.Tracks) != 1 || len(sum.Tracks[0].Chunks) != 2 || sum.Tracks[0].Chunks[0].Kind != "bass" {
		t.Fatalf("tracks = %+v", sum.Tracks)
	}
}
