// Package generate expands a seed into a song: progression, sections,
// stitched tracks and automation.
package generate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cbegin/lofi-go/internal/pattern"
	"github.com/cbegin/lofi-go/internal/prng"
	"github.com/cbegin/lofi-go/internal/samples"
	"github.com/cbegin/lofi-go/internal/song"
	"github.com/cbegin/lofi-go/internal/tracks"
)

var (
	ErrUnknownSection = errors.New("generate: unknown section")
	ErrSectionCycle   = errors.New("generate: section depends on itself")
	ErrInvalidSection = errors.New("generate: section length must be positive")
)

const (
	minTempo   = 70
	tempoRange = 30
	leadNotes  = 100
)

// DefaultStructure is the section order used when Options.Structure is empty.
var DefaultStructure = []string{"intro", "a", "b", "bridge", "b", "outro"}

// SectionFunc builds one section. It is called at most once per name per song.
type SectionFunc func(env *Env) (*song.Section, error)

// Options control a generation pass. The zero value is usable.
type Options struct {
	Structure []string
	Tables    Tables
	// Tempo fixes the tempo; zero draws one in [70, 100).
	Tempo float64
	// StartTime is the engine clock time the song starts at.
	StartTime float64
	Samples   samples.Bank
	Logger    *slog.Logger
	// Sections adds or replaces section generators by name.
	Sections map[string]SectionFunc
}

// Env is what a SectionFunc draws from. Everything random goes through Rand so
// a seed reproduces the whole song.
type Env struct {
	Rand        *prng.PRNG
	Progression []song.Chord
	Kick        pattern.Pattern
	Snare       pattern.Pattern
	Hat         pattern.Pattern
	Lead        []tracks.Note

	g *generator
}

type generator struct {
	env      *Env
	funcs    map[string]SectionFunc
	sections map[string]*song.Section
	building map[string]bool
	bank     samples.Bank
	missing  map[string]bool
	log      *slog.Logger
}

// Generate builds the song for seed.
func Generate(seed uint32, opts Options) (*song.Song, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	r := prng.New(seed)

	tempo := opts.Tempo
	if tempo <= 0 {
		tempo = minTempo + r.Float()*tempoRange
	}

	table := opts.Tables.Progressions
	if len(table) == 0 {
		log.Warn("empty progression table, using defaults")
		table = DefaultTables().Progressions
	}
	base, err := prng.Choose(r, table)
	if err != nil {
		return nil, fmt.Errorf("generate: choose progression: %w", err)
	}
	if len(base) == 0 {
		return nil, fmt.Errorf("generate: %w", song.ErrEmptyProgression)
	}
	progression := humanize(r, base)

	env := &Env{
		Rand:        r,
		Progression: progression,
		Kick:        pattern.Kick(r),
		Snare:       pattern.Snare(),
		Hat:         pattern.Hat(r),
	}
	env.Lead = make([]tracks.Note, leadNotes)
	for i := range env.Lead {
		env.Lead[i] = tracks.Note{
			Pitch:    float64(i%24 + 57),
			Start:    float64(i),
			Duration: float64(r.IntRange(1, 4)),
		}
	}

	g := &generator{
		env:      env,
		funcs:    make(map[string]SectionFunc, len(stockSections)+len(opts.Sections)),
		sections: make(map[string]*song.Section),
		building: make(map[string]bool),
		bank:     opts.Samples,
		missing:  make(map[string]bool),
		log:      log,
	}
	env.g = g
	for name, fn := range stockSections {
		g.funcs[name] = fn
	}
	for name, fn := range opts.Sections {
		g.funcs[name] = fn
	}

	structure := opts.Structure
	if len(structure) == 0 {
		structure = DefaultStructure
	}
	for _, name := range structure {
		if _, err := env.Section(name); err != nil {
			return nil, err
		}
	}

	s := &song.Song{
		Seed:        seed,
		Tempo:       tempo,
		StartTime:   opts.StartTime,
		Progression: progression,
		Structure:   append([]string(nil), structure...),
		Sections:    g.sections,
	}
	Stitch(s)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("generate: seed %d: %w", seed, err)
	}
	log.Debug("generated song",
		"seed", seed,
		"tempo", tempo,
		"bars", s.Length,
		"chords", len(progression),
		"tracks", len(s.Tracks))
	return s, nil
}

// humanize transposes every root by one random amount and detunes each
// interval above the root slightly flat.
func humanize(r *prng.PRNG, base []song.Chord) []song.Chord {
	transpose := float64(r.Int(12))
	out := make([]song.Chord, len(base))
	for i, c := range base {
		iv := append([]float64(nil), c.Intervals...)
		for j := 1; j < len(iv); j++ {
			iv[j] -= r.Float() * 0.1
		}
		out[i] = song.Chord{Root: c.Root + transpose, Intervals: iv}
	}
	return out
}

// Section returns the named section, generating it on first use.
func (e *Env) Section(name string) (*song.Section, error) {
	g := e.g
	if s, ok := g.sections[name]; ok {
		return s, nil
	}
	fn, ok := g.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	if g.building[name] {
		return nil, fmt.Errorf("%w: %q", ErrSectionCycle, name)
	}
	g.building[name] = true
	defer delete(g.building, name)

	s, err := fn(e)
	if err != nil {
		return nil, fmt.Errorf("generate: section %q: %w", name, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %q returned no section", ErrInvalidSection, name)
	}
	if !(s.Length > 0) {
		return nil, fmt.Errorf("%w: %q has %v bars", ErrInvalidSection, name, s.Length)
	}
	s.Name = name
	g.sections[name] = s
	return s, nil
}

// Bars returns the progression length times a multiple picked by weight.
func (e *Env) Bars(multiples ...prng.Option[int]) (float64, error) {
	m, err := prng.Weighted(e.Rand, multiples)
	if err != nil {
		return 0, err
	}
	return float64(len(e.Progression) * m), nil
}

// Drum binds the named sample to a pattern at four steps per beat. A missing
// sample is bound to silence and logged once.
func (e *Env) Drum(name string, p pattern.Pattern) tracks.Drum {
	buf, ok := e.g.bank.Get(name)
	if !ok && !e.g.missing[name] {
		e.g.missing[name] = true
		e.g.log.Warn("sample missing, drum track will be silent", "sample", name)
	}
	return tracks.Drum{Sample: buf, Pattern: p, TicksPerBeat: 4}
}
