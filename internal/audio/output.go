package audio

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	BackendEbiten = "ebiten"
	BackendOto    = "oto"
)

var ErrUnknownBackend = errors.New("audio: unknown backend")

// Output is a running device stream.
type Output interface {
	Play()
	Pause()
	IsPlaying() bool
	// Position is what the listener hears right now.
	Position() time.Duration
	Close() error
}

// Open starts a stream for source on the named backend. An empty name selects
// ebiten.
func Open(backend string, sampleRate int, source SampleSource) (Output, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: sample rate %d must be positive", sampleRate)
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendEbiten:
		return NewPlayer(sampleRate, source)
	case BackendOto:
		return NewOtoPlayer(sampleRate, source)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// Backends lists the accepted backend names.
func Backends() []string { return []string{BackendEbiten, BackendOto} }
