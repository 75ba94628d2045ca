package generate

import (
	"math"

	"github.com/cbegin/lofi-go/internal/prng"
	"github.com/cbegin/lofi-go/internal/samples"
	"github.com/cbegin/lofi-go/internal/song"
	"github.com/cbegin/lofi-go/internal/synth"
	"github.com/cbegin/lofi-go/internal/tracks"
)

// Track names and levels.
const (
	TrackBass  = "bass"
	TrackChord = "chord"
	TrackArp   = "arp"
	TrackLead  = "lead"
	TrackSnare = "snare"
	TrackHat   = "hat"
	TrackKick  = "kick"

	melodicVolume = 0.2
	drumVolume    = 0.3
)

// Intro layering odds: each layer is only tried when the previous one made it.
const (
	introSnareChance = 0.7
	introHatChance   = 0.6
	introKickChance  = 0.5
)

var stockSections = map[string]SectionFunc{
	"intro":  introSection,
	"a":      aSection,
	"b":      bSection,
	"bridge": bridgeSection,
	"outro":  outroSection,
}

var (
	shortSection = []prng.Option[int]{{Value: 1, Weight: 1}, {Value: 2, Weight: 1}}
	longSection  = []prng.Option[int]{{Value: 2, Weight: 2}, {Value: 4, Weight: 1}}
	arpSpeeds    = []float64{8, 12, 16}
)

func whole(r song.Renderer, volume float64, name string) song.SectionTrack {
	return song.SectionTrack{Name: name, Volume: volume, Chunk: song.ChunkSpec{Renderer: r}}
}

func (e *Env) bass() song.SectionTrack {
	return whole(tracks.Bass{Wave: synth.WaveTriangle, Env: tracks.BassEnvelope}, melodicVolume, TrackBass)
}

// chordPad draws a fresh stagger in eighths of a beat.
func (e *Env) chordPad() song.SectionTrack {
	spacing := float64(e.Rand.Int(8)) / 8
	return whole(tracks.ChordPad{Spacing: spacing, Env: tracks.ChordEnvelope}, melodicVolume, TrackChord)
}

func (e *Env) arp() (song.SectionTrack, error) {
	speed, err := prng.Choose(e.Rand, arpSpeeds)
	if err != nil {
		return song.SectionTrack{}, err
	}
	return whole(tracks.Arpeggiator{Wave: synth.WaveTriangle, Env: tracks.ArpEnvelope, Speed: speed}, melodicVolume, TrackArp), nil
}

func (e *Env) drums() []song.SectionTrack {
	return []song.SectionTrack{
		whole(e.Drum(samples.Snare, e.Snare), drumVolume, TrackSnare),
		whole(e.Drum(samples.Hat, e.Hat), drumVolume, TrackHat),
		whole(e.Drum(samples.Kick, e.Kick), drumVolume, TrackKick),
	}
}

// introSection fades in over one pass of the progression behind a closed
// filter. Drum layers stack up by chance: hat needs snare, kick needs hat.
func introSection(e *Env) (*song.Section, error) {
	length, err := e.Bars(shortSection...)
	if err != nil {
		return nil, err
	}
	p := float64(len(e.Progression))
	s := &song.Section{
		Length: length,
		Automations: song.Automations{
			song.ParamVolume: {{Bar: 0, Value: 0}, {Bar: p, Value: 1}},
			song.ParamFilter: {{Bar: 0, Value: 1}},
		},
		Tracks: []song.SectionTrack{e.bass(), e.chordPad()},
	}
	if prng.Chance(e.Rand, introSnareChance) {
		s.Tracks = append(s.Tracks, whole(e.Drum(samples.Snare, e.Snare), drumVolume, TrackSnare))
		if prng.Chance(e.Rand, introHatChance) {
			s.Tracks = append(s.Tracks, whole(e.Drum(samples.Hat, e.Hat), drumVolume, TrackHat))
			if prng.Chance(e.Rand, introKickChance) {
				s.Tracks = append(s.Tracks, whole(e.Drum(samples.Kick, e.Kick), drumVolume, TrackKick))
			}
		}
	}
	return s, nil
}

// aSection holds the filter closed for the first pass of the progression and
// then opens it; the arpeggio enters when it opens.
func aSection(e *Env) (*song.Section, error) {
	length, err := e.Bars(longSection...)
	if err != nil {
		return nil, err
	}
	p := float64(len(e.Progression))
	arp, err := e.arp()
	if err != nil {
		return nil, err
	}
	arp.Chunk.Start = p
	arp.Chunk.Length = length - p
	s := &song.Section{
		Length: length,
		Automations: song.Automations{
			song.ParamVolume: {{Bar: 0, Value: 1}},
			song.ParamFilter: {{Bar: 0, Value: 1}, {Bar: p - 0.5, Value: 1}, {Bar: p, Value: 0}},
		},
		Tracks: []song.SectionTrack{e.bass(), e.chordPad()},
	}
	s.Tracks = append(s.Tracks, e.drums()...)
	s.Tracks = append(s.Tracks, arp)
	return s, nil
}

// bSection runs everything open with a restaggered pad.
func bSection(e *Env) (*song.Section, error) {
	length, err := e.Bars(longSection...)
	if err != nil {
		return nil, err
	}
	arp, err := e.arp()
	if err != nil {
		return nil, err
	}
	s := &song.Section{
		Length: length,
		Automations: song.Automations{
			song.ParamVolume: {{Bar: 0, Value: 1}},
			song.ParamFilter: {{Bar: 0, Value: 0}},
		},
		Tracks: []song.SectionTrack{e.bass(), e.chordPad()},
	}
	s.Tracks = append(s.Tracks, e.drums()...)
	s.Tracks = append(s.Tracks, arp)
	return s, nil
}

// bridgeSection closes the filter over its first bar, drops to hat, pad and
// lead, and reopens the filter over its last bar.
func bridgeSection(e *Env) (*song.Section, error) {
	length, err := e.Bars(shortSection...)
	if err != nil {
		return nil, err
	}
	edge := math.Min(1, length/2)
	lead := song.SectionTrack{
		Name:   TrackLead,
		Volume: melodicVolume,
		Chunk: song.ChunkSpec{Renderer: tracks.PianoRoll{
			Wave:         synth.WaveSquare,
			Notes:        e.Lead,
			TicksPerBeat: 4,
		}},
	}
	s := &song.Section{
		Length: length,
		Automations: song.Automations{
			song.ParamVolume: {{Bar: 0, Value: 1}},
			song.ParamFilter: {
				{Bar: 0, Value: 0},
				{Bar: edge, Value: 1},
				{Bar: length - edge, Value: 1},
				{Bar: length, Value: 0},
			},
		},
		Tracks: []song.SectionTrack{
			whole(e.Drum(samples.Hat, e.Hat), drumVolume, TrackHat),
			e.chordPad(),
			lead,
		},
	}
	return s, nil
}

// outroSection replays the a section and fades it out to silence exactly at
// its last bar.
func outroSection(e *Env) (*song.Section, error) {
	a, err := e.Section("a")
	if err != nil {
		return nil, err
	}
	s := a.Clone()
	if s.Automations == nil {
		s.Automations = make(song.Automations)
	}
	s.Automations[song.ParamVolume] = []song.Breakpoint{{Bar: 0, Value: 1}, {Bar: s.Length, Value: 0}}
	return s, nil
}
