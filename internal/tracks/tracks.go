// Package tracks implements the instrument renderers the generator binds to
// chunks. Each renderer is an immutable config value; Render is pure apart
// from the noise waveform.
package tracks

import (
	"math"

	"github.com/cbegin/lofi-go/internal/pattern"
	"github.com/cbegin/lofi-go/internal/samples"
	"github.com/cbegin/lofi-go/internal/song"
	"github.com/cbegin/lofi-go/internal/synth"
	"github.com/cbegin/lofi-go/internal/theory"
)

// Envelopes used by the stock instruments, in beats.
var (
	BassEnvelope  = synth.Envelope{Attack: 0.25, Sustain: 1, Release: 3.9}
	ArpEnvelope   = synth.Envelope{Attack: 0.1, Sustain: 0.2, Release: 0.99}
	ChordEnvelope = synth.Envelope{Attack: 0.1, Sustain: 0.4, Release: 4}
)

// Bass plays the chord root one and two octaves down, with a slow tremolo.
// Output is within [-2, 2].
type Bass struct {
	Wave synth.Wave
	Env  synth.Envelope
}

func (Bass) Kind() song.Kind { return song.KindBass }

func (b Bass) Render(st *song.State, _ *song.Chunk) float64 {
	tone := b.Wave.At(theory.NoteFreq(st.Root-12), st.T) + synth.Sine(theory.NoteFreq(st.Root-24), st.T)
	tremolo := synth.Sine(0.5, st.T)/8 + 7.0/8
	return tone * tremolo * b.Env.Level(st.FBeat)
}

// Drum plays Sample on every hit of Pattern. TicksPerBeat is the pattern's
// step rate, so a 16-step pattern at 4 ticks per beat spans one bar.
type Drum struct {
	Sample       *samples.Buffer
	Pattern      pattern.Pattern
	TicksPerBeat float64
}

func (Drum) Kind() song.Kind { return song.KindDrum }

func (d Drum) Render(st *song.State, _ *song.Chunk) float64 {
	if d.Sample == nil || len(d.Pattern) == 0 || d.TicksPerBeat <= 0 {
		return 0
	}
	span := float64(len(d.Pattern)) / d.TicksPerBeat
	pos := math.Mod(st.SongBeat/span, 1)
	beats, hit := d.Pattern.Offset(pos, d.TicksPerBeat)
	if !hit || st.BeatsPerSecond <= 0 {
		return 0
	}
	i := int(beats / st.BeatsPerSecond * float64(d.Sample.SampleRate))
	return float64(d.Sample.At(st.Channel, i))
}

// Arpeggiator steps through the chord Speed times per bar. Output is within
// [-1, 1].
type Arpeggiator struct {
	Wave  synth.Wave
	Env   synth.Envelope
	Speed float64
}

func (Arpeggiator) Kind() song.Kind { return song.KindArpeggiator }

func (a Arpeggiator) Render(st *song.State, _ *song.Chunk) float64 {
	n := len(st.Chord)
	if n == 0 {
		return 0
	}
	pos := math.Mod(st.FBar*a.Speed, float64(n))
	if pos < 0 {
		pos += float64(n)
	}
	i := int(pos)
	if i >= n {
		i = n - 1
	}
	return a.Wave.At(st.Chord[i], st.T) * a.Env.Level(pos-math.Floor(pos))
}

// ChordPad sounds every chord tone, voice i entering i*Spacing beats after the
// bar's beat. Output is within [-n, n] for an n-note chord.
type ChordPad struct {
	Spacing float64
	Env     synth.Envelope
}

func (ChordPad) Kind() song.Kind { return song.KindChordPad }

func (p ChordPad) Render(st *song.State, _ *song.Chunk) float64 {
	var out float64
	for i, f := range st.Chord {
		delay := float64(i) * p.Spacing
		if st.FBeat > delay {
			out += synth.Sine(f, st.T) * p.Env.Level(st.FBeat-delay)
		}
	}
	return out
}

// Note is one piano-roll entry in ticks from the chunk start.
type Note struct {
	Pitch    float64
	Start    float64
	Duration float64
}

// PianoRoll plays Notes against the chunk's own timeline. A note sounds for
// Start <= tick < Start+Duration.
type PianoRoll struct {
	Wave         synth.Wave
	Notes        []Note
	TicksPerBeat float64
}

func (PianoRoll) Kind() song.Kind { return song.KindPianoRoll }

func (p PianoRoll) Render(st *song.State, c *song.Chunk) float64 {
	tick := (st.FBar - c.Start) * theory.BeatsPerBar * p.TicksPerBeat
	var out float64
	for _, n := range p.Notes {
		if tick < n.Start || tick >= n.Start+n.Duration {
			continue
		}
		out += p.Wave.At(theory.NoteFreq(n.Pitch), st.T)
	}
	return out
}
