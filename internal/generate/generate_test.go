package generate

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/cbegin/lofi-go/internal/samples"
	"github.com/cbegin/lofi-go/internal/song"
	"github.com/cbegin/lofi-go/internal/synth"
	"github.com/cbegin/lofi-go/internal/tracks"
)

func quietOptions() Options {
	return Options{
		Samples: samples.DefaultKit(8000),
		Logger:  slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}
}

func fourBarTable() Tables {
	return Tables{Progressions: [][]song.Chord{{{Root: 60, Intervals: []float64{0, 4, 7, 12}}}}}
}

func verse(e *Env) (*song.Section, error) {
	return &song.Section{
		Length: 4,
		Automations: song.Automations{
			song.ParamVolume: {{Bar: 0, Value: 0}, {Bar: 4, Value: 1}},
		},
		Tracks: []song.SectionTrack{{
			Name:   TrackBass,
			Volume: 0.2,
			Chunk:  song.ChunkSpec{Renderer: tracks.Bass{Wave: synth.WaveTriangle, Env: tracks.BassEnvelope}},
		}},
	}, nil
}

func TestGenerateDeterministic(t *testing.T) {
	for _, seed := range []uint32{0, 1, 42, 123456789} {
		a, err := Generate(seed, quietOptions())
		if err != nil {
			t.Fatalf("Generate(%d): %v", seed, err)
		}
		b, err := Generate(seed, quietOptions())
		if err != nil {
			t.Fatalf("Generate(%d): %v", seed, err)
		}
		if !reflect.DeepEqual(a.Summary(), b.Summary()) {
			t.Fatalf("seed %d: summaries differ", seed)
		}
		if !reflect.DeepEqual(a.Progression, b.Progression) {
			t.Fatalf("seed %d: progressions differ", seed)
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a, err := Generate(1, quietOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(2, quietOptions())
	if err != nil {
		t.Fatal(err)
	}
	if a.Tempo == b.Tempo {
		t.Fatalf("seeds 1 and 2 drew the same tempo %v", a.Tempo)
	}
}

func TestGenerateInvariants(t *testing.T) {
	for seed := uint32(0); seed < 200; seed++ {
		s, err := Generate(seed, quietOptions())
		if err != nil {
			t.Fatalf("Generate(%d): %v", seed, err)
		}
		if s.Tempo < 70 || s.Tempo >= 100 {
			t.Fatalf("seed %d: tempo %v outside [70, 100)", seed, s.Tempo)
		}

		var total float64
		for _, name := range s.Structure {
			total += s.Sections[name].Length
		}
		if s.Length != total {
			t.Fatalf("seed %d: length %v, want %v", seed, s.Length, total)
		}

		for b := 0.0; b < s.Length; b++ {
			if i := s.ChordIndex(b); i < 0 || i >= len(s.Progression) {
				t.Fatalf("seed %d: chord index %d out of range at bar %v", seed, i, b)
			}
		}

		for param, bps := range s.Automations {
			for i := 1; i < len(bps); i++ {
				if bps[i].Bar < bps[i-1].Bar {
					t.Fatalf("seed %d: %s breakpoints decrease at %d", seed, param, i)
				}
			}
		}

		for _, tr := range s.Tracks {
			for i, c := range tr.Chunks {
				if !(c.EndTime > c.StartTime) {
					t.Fatalf("seed %d: %s chunk %d [%v, %v)", seed, tr.Name, i, c.StartTime, c.EndTime)
				}
				if c.Track != tr {
					t.Fatalf("seed %d: %s chunk %d has wrong back reference", seed, tr.Name, i)
				}
				if i > 0 && c.StartTime < tr.Chunks[i-1].EndTime-1e-9 {
					t.Fatalf("seed %d: %s chunk %d overlaps its predecessor", seed, tr.Name, i)
				}
			}
		}

		intro := s.Sections["intro"]
		if intro.Has(TrackKick) && !intro.Has(TrackHat) {
			t.Fatalf("seed %d: intro kick without hat", seed)
		}
		if intro.Has(TrackHat) && !intro.Has(TrackSnare) {
			t.Fatalf("seed %d: intro hat without snare", seed)
		}
		if !intro.Has(TrackBass) || !intro.Has(TrackChord) {
			t.Fatalf("seed %d: intro missing bass or chord pad", seed)
		}
	}
}

func TestIntroLayersVary(t *testing.T) {
	seen := map[int]bool{}
	for seed := uint32(0); seed < 200; seed++ {
		s, err := Generate(seed, quietOptions())
		if err != nil {
			t.Fatal(err)
		}
		seen[len(s.Sections["intro"].Tracks)] = true
	}
	for n := 2; n <= 5; n++ {
		if !seen[n] {
			t.Fatalf("no intro with %d tracks in 200 seeds", n)
		}
	}
}

func TestOutroFadesAndCopies(t *testing.T) {
	s, err := Generate(7, quietOptions())
	if err != nil {
		t.Fatal(err)
	}
	a, outro := s.Sections["a"], s.Sections["outro"]
	if outro.Length != a.Length {
		t.Fatalf("outro length %v, want %v", outro.Length, a.Length)
	}
	vol := outro.Automations[song.ParamVolume]
	last := vol[len(vol)-1]
	if last.Bar != outro.Length || last.Value != 0 {
		t.Fatalf("outro fade ends at %+v, want (%v, 0)", last, outro.Length)
	}
	if got := a.Automations[song.ParamVolume]; len(got) != 1 || got[0].Value != 1 {
		t.Fatalf("a volume changed to %+v", got)
	}
	if &outro.Tracks[0] == &a.Tracks[0] {
		t.Fatalf("outro shares a's track list")
	}
	end := s.Automations[song.ParamVolume]
	if got := end[len(end)-1]; got.Bar != s.Length || got.Value != 0 {
		t.Fatalf("song volume ends at %+v, want (%v, 0)", got, s.Length)
	}
}

func TestFixedTempoFourBarSection(t *testing.T) {
	opts := quietOptions()
	opts.Tables = fourBarTable()
	opts.Tempo = 80
	opts.Structure = []string{"verse"}
	opts.Sections = map[string]SectionFunc{"verse": verse}

	s, err := Generate(0, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := s.BarDuration(); math.Abs(got-3) > 1e-12 {
		t.Fatalf("BarDuration = %v, want 3", got)
	}
	c := s.Tracks[0].Chunks[0]
	if c.StartTime != 0 || math.Abs(c.EndTime-12) > 1e-9 {
		t.Fatalf("chunk = [%v, %v), want [0, 12)", c.StartTime, c.EndTime)
	}
	if got := s.Progression[0].Root; got < 60 || got > 71 {
		t.Fatalf("root %v not transposed within an octave", got)
	}
	if got := s.Progression[0].Intervals[0]; got != 0 {
		t.Fatalf("root interval detuned to %v", got)
	}
	for _, iv := range s.Progression[0].Intervals[1:] {
		if d := math.Abs(iv - math.Round(iv)); d > 0.1 {
			t.Fatalf("interval %v detuned by more than 0.1", iv)
		}
	}
}

func TestStitchChunkLengths(t *testing.T) {
	end := 3.0
	r := tracks.ChordPad{}
	s := &song.Song{
		Tempo:       60, // 4 s per bar
		Progression: []song.Chord{{Root: 60}},
		Structure:   []string{"x", "y", "x"},
		Sections: map[string]*song.Section{
			"x": {Length: 4, Tracks: []song.SectionTrack{
				{Name: "pad", Chunk: song.ChunkSpec{Renderer: r}},
				{Name: "lead", Chunk: song.ChunkSpec{Renderer: r, Start: 1, Length: 2}},
			}},
			"y": {Length: 8, Tracks: []song.SectionTrack{
				{Name: "pad", Chunk: song.ChunkSpec{Renderer: r, Start: 2, End: &end}},
				{Name: "drone", Chunk: song.ChunkSpec{Renderer: r, Open: true}},
			}},
		},
	}
	Stitch(s)
	if s.Length != 16 {
		t.Fatalf("Length = %v, want 16", s.Length)
	}
	want := map[string][][2]float64{
		"pad":   {{0, 16}, {24, 28}, {48, 64}},
		"lead":  {{4, 12}, {52, 60}},
		"drone": {{16, 64}},
	}
	if len(s.Tracks) != 3 || s.Tracks[0].Name != "pad" || s.Tracks[1].Name != "lead" || s.Tracks[2].Name != "drone" {
		t.Fatalf("track order wrong: %v", s.Tracks)
	}
	for _, tr := range s.Tracks {
		spans := want[tr.Name]
		if len(tr.Chunks) != len(spans) {
			t.Fatalf("%s has %d chunks, want %d", tr.Name, len(tr.Chunks), len(spans))
		}
		for i, c := range tr.Chunks {
			if math.Abs(c.StartTime-spans[i][0]) > 1e-9 || math.Abs(c.EndTime-spans[i][1]) > 1e-9 {
				t.Fatalf("%s chunk %d = [%v, %v), want %v", tr.Name, i, c.StartTime, c.EndTime, spans[i])
			}
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	opts := quietOptions()
	opts.Structure = []string{"intro", "coda"}
	if _, err := Generate(1, opts); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("err = %v, want ErrUnknownSection", err)
	}

	opts = quietOptions()
	opts.Structure = []string{"loop"}
	opts.Sections = map[string]SectionFunc{"loop": func(e *Env) (*song.Section, error) { return e.Section("loop") }}
	if _, err := Generate(1, opts); !errors.Is(err, ErrSectionCycle) {
		t.Fatalf("err = %v, want ErrSectionCycle", err)
	}

	opts = quietOptions()
	opts.Structure = []string{"empty"}
	opts.Sections = map[string]SectionFunc{"empty": func(*Env) (*song.Section, error) { return &song.Section{}, nil }}
	if _, err := Generate(1, opts); !errors.Is(err, ErrInvalidSection) {
		t.Fatalf("err = %v, want ErrInvalidSection", err)
	}

	opts = quietOptions()
	opts.Structure = []string{"nothing"}
	opts.Sections = map[string]SectionFunc{"nothing": func(*Env) (*song.Section, error) { return nil, nil }}
	if _, err := Generate(1, opts); !errors.Is(err, ErrInvalidSection) {
		t.Fatalf("nil section: err = %v, want ErrInvalidSection", err)
	}

	opts = quietOptions()
	opts.Tables = Tables{Progressions: [][]song.Chord{{}}}
	if _, err := Generate(1, opts); !errors.Is(err, song.ErrEmptyProgression) {
		t.Fatalf("err = %v, want ErrEmptyProgression", err)
	}
}

func TestEmptyTableFallsBack(t *testing.T) {
	var logs bytes.Buffer
	opts := quietOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	opts.Tables = Tables{}
	s, err := Generate(5, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(s.Progression) < 4 {
		t.Fatalf("progression = %v, want a default entry", s.Progression)
	}
}

func TestMissingSamplesWarnOnce(t *testing.T) {
	var logs bytes.Buffer
	opts := Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	s, err := Generate(3, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := logs.String()
	for _, name := range []string{samples.Kick, samples.Snare, samples.Hat} {
		if n := strings.Count(out, "sample="+name); n != 1 {
			t.Fatalf("warned about %s %d times, want 1:\n%s", name, n, out)
		}
	}
	hat := s.Track(TrackHat)
	if hat == nil {
		t.Fatalf("no hat track")
	}
	d := hat.Chunks[0].Renderer.(tracks.Drum)
	if d.Sample != samples.Silence {
		t.Fatalf("missing hat bound to %v, want Silence", d.Sample)
	}
}

func TestFailedSampleLoadWarns(t *testing.T) {
	var logs bytes.Buffer
	kit := samples.DefaultKit(8000)
	kit[samples.Snare] = samples.Silence // as LoadBank leaves a failed load
	opts := Options{Samples: kit, Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	if _, err := Generate(3, opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := logs.String()
	if n := strings.Count(out, "sample="+samples.Snare); n != 1 {
		t.Fatalf("warned about snare %d times, want 1:\n%s", n, out)
	}
	if strings.Contains(out, "sample="+samples.Kick) {
		t.Fatalf("kick was loaded but reported missing:\n%s", out)
	}
}
