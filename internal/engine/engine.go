// Package engine renders the current song sample by sample and swaps in a
// new one when it ends.
package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cbegin/lofi-go/internal/prng"
	"github.com/cbegin/lofi-go/internal/song"
	"github.com/cbegin/lofi-go/internal/theory"
)

// Channels is the interleaved channel count Process writes.
const Channels = 2

const (
	defaultLeadIn = 1.0
	defaultGuard  = 0.25
	eventBuffer   = 64
	chordCapacity = 16
	// retryBackoff is how long a finished song waits, in seconds, before
	// another automatic generation is tried after one failed.
	retryBackoff = 1.0
)

var (
	// ErrNoGenerator is returned by New when Options.Generate is nil.
	ErrNoGenerator = errors.New("engine: no generator")

	// ErrNoSong reports a generator that returned neither a song nor an error.
	ErrNoSong = errors.New("engine: generator returned no song")

	// ErrBusy is returned when a generation request is already queued.
	ErrBusy = errors.New("engine: generation already pending")

	errNonFiniteTone = errors.New("engine: renderer returned a non-finite sample")
)

// State is the engine lifecycle.
type State int32

const (
	StateIdle State = iota
	StateGenerating
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StatePlaying:
		return "playing"
	}
	return "unknown"
}

// Generator builds the song for seed starting at the given engine time.
type Generator func(seed uint32, startTime float64) (*song.Song, error)

// EventKind identifies engine events.
type EventKind int

const (
	EventSongStarted EventKind = iota
	EventGenerateFailed
	EventRenderFault
)

func (k EventKind) String() string {
	switch k {
	case EventSongStarted:
		return "song-started"
	case EventGenerateFailed:
		return "generate-failed"
	case EventRenderFault:
		return "render-fault"
	}
	return "unknown"
}

// Event reports something the engine did. Song is set for EventSongStarted,
// Err for EventGenerateFailed and Track plus Fault for EventRenderFault.
type Event struct {
	Kind  EventKind
	Seed  uint32
	Song  *song.Song
	Err   error
	Track string
	Fault any
	// Auto is true when the song end triggered the generation.
	Auto bool
}

// Options configures an Engine. Zero values pick the defaults.
type Options struct {
	SampleRate int
	Generate   Generator
	// LeadIn is the gap in seconds between generation and the song start.
	LeadIn float64
	// Guard is how long past its end a song keeps the stream before the
	// next one is requested.
	Guard float64
	// Synchronous generates inside Process and Regenerate instead of on the
	// Run goroutine. Offline rendering and tests use it.
	Synchronous bool
	// NextSeed draws the seed for automatic regeneration.
	NextSeed func() uint32
	// OnSong runs in the generation context before a song is published.
	// now is the engine time generation started at.
	OnSong func(s *song.Song, now float64)
}

type request struct {
	seed uint32
	auto bool
	pick bool
}

// Engine mixes the published song into an interleaved stereo stream.
// Process must only be called from one goroutine.
type Engine struct {
	opts       Options
	sampleRate float64

	frame       atomic.Int64
	song        atomic.Pointer[song.Song]
	ended       atomic.Pointer[song.Song]
	retryAt     atomic.Int64 // frame before which songEnded stays quiet
	state       atomic.Int32
	faults      atomic.Int64
	generations atomic.Int64
	dropped     atomic.Int64

	requests chan request
	events   chan Event
	genMu    sync.Mutex

	chord []float64
	st    song.State
}

// New returns an idle engine with no song. Generate is required.
func New(opts Options) (*Engine, error) {
	if opts.Generate == nil {
		return nil, ErrNoGenerator
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	if opts.LeadIn <= 0 {
		opts.LeadIn = defaultLeadIn
	}
	if opts.Guard < 0 {
		opts.Guard = 0
	} else if opts.Guard == 0 {
		opts.Guard = defaultGuard
	}
	if opts.NextSeed == nil {
		opts.NextSeed = prng.NewSeed
	}
	e := &Engine{
		opts:       opts,
		sampleRate: float64(opts.SampleRate),
		requests:   make(chan request, 1),
		events:     make(chan Event, eventBuffer),
		chord:      make([]float64, 0, chordCapacity),
	}
	e.st.SampleRate = opts.SampleRate
	return e, nil
}

// Events delivers engine events. Events are dropped when nobody reads them.
func (e *Engine) Events() <-chan Event { return e.events }

// State reports the lifecycle state. It is safe from any goroutine.
func (e *Engine) State() State { return State(e.state.Load()) }

// Song returns the published song, or nil.
func (e *Engine) Song() *song.Song { return e.song.Load() }

// Now is the engine clock in seconds: frames rendered so far.
func (e *Engine) Now() float64 {
	return float64(e.frame.Load()) / e.sampleRate
}

func (e *Engine) Frames() int64      { return e.frame.Load() }
func (e *Engine) Faults() int64      { return e.faults.Load() }
func (e *Engine) Generations() int64 { return e.generations.Load() }

// DroppedEvents counts events discarded because the channel was full.
func (e *Engine) DroppedEvents() int64 { return e.dropped.Load() }

// Stop discards the song. The clock keeps running.
func (e *Engine) Stop() {
	e.song.Store(nil)
	e.ended.Store(nil)
	e.state.Store(int32(StateIdle))
}

// Regenerate asks for a new song with seed.
func (e *Engine) Regenerate(seed uint32) error {
	return e.submit(request{seed: seed})
}

// Skip asks for a new song with a freshly drawn seed.
func (e *Engine) Skip() error {
	return e.submit(request{pick: true})
}

func (e *Engine) submit(req request) error {
	if e.opts.Synchronous {
		return e.generate(req)
	}
	select {
	case e.requests <- req:
		return nil
	default:
		return ErrBusy
	}
}

// Run serves generation requests until ctx is done. It is the generation
// context; only one Run may be active.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-e.requests:
			_ = e.generate(req)
		}
	}
}

func (e *Engine) generate(req request) error {
	e.genMu.Lock()
	defer e.genMu.Unlock()

	e.state.Store(int32(StateGenerating))
	seed := req.seed
	if req.pick || req.auto {
		seed = e.opts.NextSeed()
	}
	now := e.Now()
	s, err := e.opts.Generate(seed, now+e.opts.LeadIn)
	if err == nil && s == nil {
		err = ErrNoSong
	}
	if err != nil {
		next := StatePlaying
		if e.song.Load() == nil {
			next = StateIdle
		}
		e.state.Store(int32(next))
		if req.auto {
			// Re-arm the end check so the stream does not stall on one bad seed.
			e.retryAt.Store(e.frame.Load() + int64(retryBackoff*e.sampleRate))
			e.ended.Store(nil)
		}
		e.sendEvent(Event{Kind: EventGenerateFailed, Seed: seed, Err: err, Auto: req.auto})
		return err
	}
	if e.opts.OnSong != nil {
		e.opts.OnSong(s, now)
	}
	e.song.Store(s)
	e.generations.Add(1)
	e.state.Store(int32(StatePlaying))
	e.sendEvent(Event{Kind: EventSongStarted, Seed: seed, Song: s, Auto: req.auto})
	return nil
}

func (e *Engine) sendEvent(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.dropped.Add(1)
	}
}

// songEnded requests exactly one regeneration per finished song, or one per
// back-off period while automatic generation keeps failing.
func (e *Engine) songEnded(s *song.Song, frame int64) {
	if e.ended.Load() == s || frame < e.retryAt.Load() {
		return
	}
	e.ended.Store(s)
	req := request{auto: true}
	if e.opts.Synchronous {
		_ = e.generate(req)
		return
	}
	select {
	case e.requests <- req:
	default:
		// A request is already queued; it will replace this song.
	}
}

// Process fills dst with interleaved stereo frames of the current song.
func (e *Engine) Process(dst []float32) {
	frames := len(dst) / Channels
	for i := 0; i < frames; i++ {
		l, r := e.renderFrame()
		dst[i*Channels] = l
		dst[i*Channels+1] = r
	}
}

func (e *Engine) renderFrame() (float32, float32) {
	frame := e.frame.Add(1) - 1
	now := float64(frame) / e.sampleRate
	s := e.song.Load()
	if s == nil {
		return 0, 0
	}
	t := now - s.StartTime
	if t > s.Duration()+e.opts.Guard {
		e.songEnded(s, frame)
		if next := e.song.Load(); next != nil && next != s {
			s = next
			t = now - s.StartTime
		}
	}
	if t < 0 {
		return 0, 0
	}

	st := &e.st
	st.T = t
	st.BeatsPerSecond = s.Tempo * theory.BeatsPerSecond
	st.SongBeat = st.BeatsPerSecond * t
	st.FBar = st.SongBeat / theory.BeatsPerBar
	st.FBeat = math.Mod(st.SongBeat, theory.BeatsPerBar)
	c := &s.Progression[s.ChordIndex(st.FBar)]
	st.Root = c.Root
	e.chord = theory.ChordFreqs(e.chord[:0], c.Root, c.Intervals)
	st.Chord = e.chord

	var out [Channels]float32
	for ch := range out {
		st.Channel = ch
		var mix float64
		for _, tr := range s.Tracks {
			for _, chunk := range tr.Chunks {
				if chunk.Active(t) {
					mix += e.renderChunk(chunk, st) * tr.Volume
				}
			}
		}
		out[ch] = float32(mix)
	}
	return out[0], out[1]
}

// renderChunk contains a faulting renderer to a silent sample.
func (e *Engine) renderChunk(c *song.Chunk, st *song.State) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			v = 0
			e.fault(c, r)
		}
	}()
	v = c.Renderer.Render(st, c)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.fault(c, errNonFiniteTone)
		return 0
	}
	return v
}

func (e *Engine) fault(c *song.Chunk, r any) {
	e.faults.Add(1)
	name := ""
	if c.Track != nil {
		name = c.Track.Name
	}
	e.sendEvent(Event{Kind: EventRenderFault, Track: name, Fault: r})
}
