// Package lofi plays an endless stream of procedurally generated lo-fi songs.
//
// A Player owns one render engine, the automation timeline its songs are
// scheduled into, the master graph, and an output device. Each song is derived
// from a seed; when it ends the next one is generated in the background.
package lofi

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	intaudio "github.com/cbegin/lofi-go/internal/audio"
	intauto "github.com/cbegin/lofi-go/internal/automation"
	intcfg "github.com/cbegin/lofi-go/internal/config"
	intfx "github.com/cbegin/lofi-go/internal/effects"
	inteng "github.com/cbegin/lofi-go/internal/engine"
	intgen "github.com/cbegin/lofi-go/internal/generate"
	intsamples "github.com/cbegin/lofi-go/internal/samples"
	intsong "github.com/cbegin/lofi-go/internal/song"
)

var ErrPlaying = errors.New("lofi: already playing")

// EventKind identifies a PlaybackEvent.
type EventKind int

const (
	// EventSongStarted is a song published by Play or Regenerate.
	EventSongStarted EventKind = iota
	// EventRegenerated is a song generated because the previous one ended.
	EventRegenerated
	EventRenderFault
	EventGenerateFailed
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventSongStarted:
		return "song-started"
	case EventRegenerated:
		return "regenerated"
	case EventRenderFault:
		return "render-fault"
	case EventGenerateFailed:
		return "generate-failed"
	case EventStopped:
		return "stopped"
	}
	return "unknown"
}

// PlaybackEvent carries session events from Watch().
type PlaybackEvent struct {
	Kind  EventKind
	Seed  uint32
	Song  *intsong.Song
	Err   error
	Track string
}

type PlayerOption func(*playerConfig)

type outputFunc func(backend string, sampleRate int, source intaudio.SampleSource) (intaudio.Output, error)

type playerConfig struct {
	*intcfg.Config
	logger    *slog.Logger
	sampleTap func([]float32)
	samples   intsamples.Bank
	generate  intgen.Options
	open      outputFunc
	// seedSet marks an explicit WithSeed, so seed 0 can be requested.
	seedSet   bool
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		Config: intcfg.Default(),
		logger: slog.Default(),
		open:   intaudio.Open,
	}
}

// WithConfig applies a loaded configuration. Sample paths are not loaded
// here; pass the bank through WithSamples.
func WithConfig(c *intcfg.Config) PlayerOption {
	return func(cfg *playerConfig) {
		cp := *c
		cfg.Config = &cp
	}
}

// WithSeed fixes the seed of the first song. Zero is a valid seed here.
func WithSeed(seed uint32) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.Seed = seed
		cfg.seedSet = true
	}
}

// WithBackend selects the output backend: "ebiten" or "oto".
func WithBackend(name string) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.Backend = name
	}
}

// WithSampleTap installs a callback invoked with each generated stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

func WithLogger(l *slog.Logger) PlayerOption {
	return func(cfg *playerConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithSamples layers drum samples over the built-in kit.
func WithSamples(b intsamples.Bank) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.samples = b
	}
}

// WithGenerateOptions sets song generation options. StartTime, Samples and
// Logger are filled in by the player.
func WithGenerateOptions(o intgen.Options) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.generate = o
	}
}

type Player struct {
	mu         sync.Mutex
	cfg        playerConfig
	log        *slog.Logger
	sampleRate int
	engine     *inteng.Engine
	timeline   *intauto.Timeline
	master     *intfx.Master
	audio      intaudio.Output
	cancel     context.CancelFunc
	done       chan struct{}
	eventCh    chan PlaybackEvent
	eventChMu  sync.Mutex
}

// renderSource is the audio-thread path: engine, then master graph, then tap.
type renderSource struct {
	engine    *inteng.Engine
	master    *intfx.Master
	sampleTap func([]float32)
}

func (s *renderSource) Process(dst []float32) {
	t0 := s.engine.Now()
	s.engine.Process(dst)
	s.master.Process(dst, t0)
	if s.sampleTap != nil {
		s.sampleTap(dst)
	}
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.SampleRate = sampleRate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Player{
		cfg:        cfg,
		log:        cfg.logger,
		sampleRate: sampleRate,
		timeline:   intauto.NewTimeline(intauto.DefaultParams()),
	}
	var err error
	p.engine, p.master, err = newGraph(cfg, p.timeline, inteng.Options{
		SampleRate: sampleRate,
		Generate:   generator(generateOptions(cfg, sampleRate)),
	})
	if err != nil {
		return nil, err
	}
	p.master.SetGain(cfg.Volume)
	return p, nil
}

// newGraph builds the engine and a master graph reading its automation from
// tl. Songs are scheduled into tl as they are published.
func newGraph(cfg playerConfig, tl *intauto.Timeline, opts inteng.Options) (*inteng.Engine, *intfx.Master, error) {
	opts.LeadIn = cfg.LeadIn
	opts.Guard = cfg.Guard
	opts.OnSong = func(s *intsong.Song, now float64) {
		intauto.Schedule(tl, s, now)
	}
	eng, err := inteng.New(opts)
	if err != nil {
		return nil, nil, err
	}
	chain, err := intfx.NewChainFromSpecs(cfg.Effects, opts.SampleRate)
	if err != nil {
		return nil, nil, err
	}
	master := intfx.NewMaster(opts.SampleRate, intfx.MasterCurves{
		Volume:          tl.Param(intauto.Volume),
		FilterGain:      tl.Param(intauto.FilterGain),
		FilterFrequency: tl.Param(intauto.FilterFrequency),
		FilterQ:         tl.Param(intauto.FilterQ),
		FilterFeed:      tl.Param(intauto.FilterFeed),
		FilterBypass:    tl.Param(intauto.FilterBypass),
	}, cfg.Compressor, chain)
	return eng, master, nil
}

// generateOptions fills generation options from the player config.
func generateOptions(cfg playerConfig, sampleRate int) intgen.Options {
	opts := cfg.generate
	opts.Samples = intsamples.Merge(intsamples.DefaultKit(sampleRate), cfg.samples)
	opts.Logger = cfg.logger
	if opts.Tempo == 0 {
		opts.Tempo = cfg.Tempo
	}
	if len(opts.Structure) == 0 {
		opts.Structure = cfg.Structure
	}
	return opts
}

func generator(opts intgen.Options) inteng.Generator {
	return func(seed uint32, startTime float64) (*intsong.Song, error) {
		o := opts
		o.StartTime = startTime
		return intgen.Generate(seed, o)
	}
}

// Play opens the output device and starts the first song. Playback continues
// song after song until Stop is called or ctx is done.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		return ErrPlaying
	}

	src := &renderSource{engine: p.engine, master: p.master, sampleTap: p.cfg.sampleTap}
	out, err := p.cfg.open(p.cfg.Backend, p.sampleRate, src)
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.audio = out
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		if err := p.engine.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			p.log.Error("generation loop stopped", "error", err)
		}
	}()
	go p.forwardEvents(runCtx)
	go func() {
		<-runCtx.Done()
		_ = p.Stop()
	}()

	var first error
	if p.cfg.seedSet || p.cfg.Seed != 0 {
		first = p.engine.Regenerate(p.cfg.Seed)
	} else {
		first = p.engine.Skip()
	}
	if first != nil && !errors.Is(first, inteng.ErrBusy) {
		p.log.Warn("first song request failed", "error", first)
	}
	p.audio.Play()
	p.log.Info("playback started", "backend", p.cfg.Backend, "sample_rate", p.sampleRate)
	return nil
}

// forwardEvents logs engine events and relays them to the Watch channel. It
// keeps logging off the audio thread.
func (p *Player) forwardEvents(ctx context.Context) {
	var current *intsong.Song
	faulted := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.engine.Events():
			out := PlaybackEvent{Seed: ev.Seed, Song: ev.Song, Err: ev.Err, Track: ev.Track}
			switch ev.Kind {
			case inteng.EventSongStarted:
				out.Kind = EventSongStarted
				if ev.Auto {
					out.Kind = EventRegenerated
				}
				current = ev.Song
				clear(faulted)
				p.log.Info("song started",
					"seed", ev.Seed,
					"tempo", ev.Song.Tempo,
					"bars", ev.Song.Length,
					"duration", ev.Song.Duration(),
					"auto", ev.Auto)
			case inteng.EventGenerateFailed:
				out.Kind = EventGenerateFailed
				p.log.Error("song generation failed", "seed", ev.Seed, "error", ev.Err)
			case inteng.EventRenderFault:
				out.Kind = EventRenderFault
				if !faulted[ev.Track] {
					faulted[ev.Track] = true
					seed := uint32(0)
					if current != nil {
						seed = current.Seed
					}
					p.log.Warn("track renderer faulted", "track", ev.Track, "seed", seed, "fault", ev.Fault)
				}
			}
			p.sendEvent(out)
		}
	}
}

func (p *Player) sendEvent(ev PlaybackEvent) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Channel full; drop event
		}
	}
}

// Regenerate replaces the current song with the one for seed.
func (p *Player) Regenerate(seed uint32) error {
	return p.engine.Regenerate(seed)
}

// Skip replaces the current song with one from a fresh seed.
func (p *Player) Skip() error {
	return p.engine.Skip()
}

func (p *Player) Stop() error {
	p.mu.Lock()
	if p.audio == nil {
		p.mu.Unlock()
		return nil
	}
	err := p.audio.Close()
	p.audio = nil
	p.cancel()
	p.engine.Stop()
	done := p.done
	p.done = nil
	p.mu.Unlock()
	p.sendEvent(PlaybackEvent{Kind: EventStopped})
	p.log.Info("playback stopped")
	if done != nil {
		close(done)
	}
	return err
}

// Wait blocks until playback is stopped. It returns immediately if nothing is
// playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Watch returns a channel that receives playback events. The channel is
// buffered (cap 16); events are dropped when it is full. Only the most
// recent Watch() channel receives events; call Watch before Play.
func (p *Player) Watch() <-chan PlaybackEvent {
	ch := make(chan PlaybackEvent, 16)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

// SetMasterVolume sets the output gain. 1.0 is default.
func (p *Player) SetMasterVolume(volume float64) {
	p.master.SetGain(volume)
}

func (p *Player) MasterVolume() float64 {
	return p.master.Gain()
}

// CurrentSong returns the song being played, or nil.
func (p *Player) CurrentSong() *intsong.Song {
	return p.engine.Song()
}

// State reports whether the engine is idle, generating or playing.
func (p *Player) State() inteng.State {
	return p.engine.State()
}

// PlaybackPosition returns the current output position of the audio driver,
// i.e. what the listener actually hears right now. Returns 0 if not playing.
func (p *Player) PlaybackPosition() int64 {
	p.mu.Lock()
	a := p.audio
	p.mu.Unlock()
	if a == nil {
		return 0
	}
	pos := a.Position()
	return int64(pos.Seconds() * float64(p.sampleRate))
}
