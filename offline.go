package lofi

import (
	"errors"
	"fmt"
	"io"

	intauto "github.com/cbegin/lofi-go/internal/automation"
	inteng "github.com/cbegin/lofi-go/internal/engine"
	intgen "github.com/cbegin/lofi-go/internal/generate"
	intsamples "github.com/cbegin/lofi-go/internal/samples"
	intsong "github.com/cbegin/lofi-go/internal/song"
)

var errOneShot = errors.New("offline render plays a single song")

// RenderSong renders s from its first bar through the engine and master graph
// without a device. seconds <= 0 renders the whole song. Options set the
// master graph; generation options are ignored.
func RenderSong(s *intsong.Song, sampleRate int, seconds float64, opts ...PlayerOption) ([]float32, error) {
	if s == nil {
		return nil, inteng.ErrNoSong
	}
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

	// Play from the engine's time zero.
	local := *s
	local.StartTime = 0
	served := false
	tl := intauto.NewTimeline(intauto.DefaultParams())
	eng, master, err := newGraph(cfg, tl, inteng.Options{
		SampleRate:  sampleRate,
		Synchronous: true,
		Generate: func(uint32, float64) (*intsong.Song, error) {
			if served {
				return nil, errOneShot
			}
			served = true
			return &local, nil
		},
	})
	if err != nil {
		return nil, err
	}
	master.SetGain(cfg.Volume)
	if err := eng.Regenerate(s.Seed); err != nil {
		return nil, err
	}

	if seconds <= 0 {
		seconds = local.Duration()
	}
	frames := int(float64(sampleRate) * seconds)
	out := make([]float32, frames*inteng.Channels)
	src := &renderSource{engine: eng, master: master, sampleTap: cfg.sampleTap}
	// Render in device-sized blocks so the master graph sees the same block
	// boundaries as live playback.
	const block = 512 * inteng.Channels
	for i := 0; i < len(out); i += block {
		src.Process(out[i:min(i+block, len(out))])
	}
	return out, nil
}

// Generate builds the song for seed the way a Player would, starting at
// time zero.
func Generate(seed uint32, sampleRate int, opts ...PlayerOption) (*intsong.Song, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s, err := intgen.Generate(seed, generateOptions(cfg, sampleRate))
	if err != nil {
		return nil, fmt.Errorf("generate seed %d: %w", seed, err)
	}
	return s, nil
}

// Render generates the song for seed and renders it with RenderSong.
func Render(seed uint32, sampleRate int, seconds float64, opts ...PlayerOption) ([]float32, *intsong.Song, error) {
	s, err := Generate(seed, sampleRate, opts...)
	if err != nil {
		return nil, nil, err
	}
	out, err := RenderSong(s, sampleRate, seconds, opts...)
	if err != nil {
		return nil, nil, err
	}
	return out, s, nil
}

// WriteWAV encodes interleaved samples as 16-bit PCM.
func WriteWAV(w io.WriteSeeker, interleaved []float32, sampleRate, channels int) error {
	if channels <= 0 {
		return fmt.Errorf("channels %d must be positive", channels)
	}
	frames := len(interleaved) / channels
	buf := &intsamples.Buffer{Channels: make([][]float32, channels), SampleRate: sampleRate}
	for c := range buf.Channels {
		buf.Channels[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			buf.Channels[c][i] = interleaved[i*channels+c]
		}
	}
	return intsamples.EncodeWAV(w, buf)
}
