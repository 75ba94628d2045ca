package song

// Kind tags the fixed family of instrument renderers.
type Kind int

const (
	KindBass Kind = iota
	KindDrum
	KindArpeggiator
	KindChordPad
	KindPianoRoll
)

var kindNames = [...]string{"bass", "drum", "arpeggiator", "chordpad", "pianoroll"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// State is the playback state handed to renderers for one sample of one
// channel. Chord holds the active chord in Hz and is only valid during the
// call.
type State struct {
	T              float64
	FBar           float64
	FBeat          float64
	SongBeat       float64
	BeatsPerSecond float64
	Root           float64
	Chord          []float64
	Channel        int
	SampleRate     int
}

// Renderer produces one sample contribution for a chunk. Implementations are
// immutable and must be safe to call from the audio goroutine.
type Renderer interface {
	Kind() Kind
	Render(st *State, c *Chunk) float64
}
