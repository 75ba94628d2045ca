package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoBufferDuration keeps latency low enough for live regeneration.
const otoBufferDuration = 50 * time.Millisecond

var (
	otoOnce       sync.Once
	otoContext    *oto.Context
	otoErr        error
	otoSampleRate int
)

// oto allows one context per process.
func sharedOtoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoSampleRate = sampleRate
		var ready chan struct{}
		otoContext, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   otoBufferDuration,
		})
		if otoErr == nil {
			<-ready
		}
	})
	if otoErr != nil {
		return nil, fmt.Errorf("oto: %w", otoErr)
	}
	if otoSampleRate != sampleRate {
		return nil, fmt.Errorf("oto context already initialized at %d Hz (requested %d Hz)", otoSampleRate, sampleRate)
	}
	return otoContext, nil
}

// OtoPlayer streams through an oto player.
type OtoPlayer struct {
	player     *oto.Player
	reader     *StreamReader
	sampleRate int
}

func NewOtoPlayer(sampleRate int, source SampleSource) (*OtoPlayer, error) {
	ctx, err := sharedOtoContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	return &OtoPlayer{
		player:     ctx.NewPlayer(reader),
		reader:     reader,
		sampleRate: sampleRate,
	}, nil
}

func (p *OtoPlayer) Play()           { p.player.Play() }
func (p *OtoPlayer) Pause()          { p.player.Pause() }
func (p *OtoPlayer) IsPlaying() bool { return p.player.IsPlaying() }

// Position is the frames read minus what oto still holds in its buffer.
func (p *OtoPlayer) Position() time.Duration {
	return framesToDuration(p.reader.Frames(), p.player.BufferedSize(), p.sampleRate)
}

func framesToDuration(read int64, bufferedBytes, sampleRate int) time.Duration {
	heard := read - int64(bufferedBytes/bytesPerFrame)
	if heard < 0 || sampleRate <= 0 {
		return 0
	}
	return time.Duration(heard) * time.Second / time.Duration(sampleRate)
}

func (p *OtoPlayer) Close() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}
