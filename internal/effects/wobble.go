package effects

import "github.com/cbegin/lofi-go/internal/lfo"

// WobbleConfig sets a Wobble. Wow is the slow pitch drift, flutter the fast
// one; depths are in milliseconds of delay swing.
type WobbleConfig struct {
	WowHz      float64
	WowDepthMs float64
	FlutterHz  float64
	FlutterMs  float64
	Wet        float32
}

// Wobble imitates tape speed instability with a modulated delay line read
// at a fractional position. Wow is a sine; flutter drifts irregularly.
type Wobble struct {
	bufL, bufR []float32
	pos        int
	center     float64
	wow        *lfo.LFO
	flutter    *lfo.LFO
	wet        float32
}

func NewWobble(sampleRate int, cfg WobbleConfig) *Wobble {
	sr := float64(sampleRate)
	wow := cfg.WowDepthMs * sr / 1000
	flutter := cfg.FlutterMs * sr / 1000
	size := int(2*(wow+flutter)) + 4
	return &Wobble{
		bufL:    make([]float32, size),
		bufR:    make([]float32, size),
		center:  wow + flutter + 1,
		wow:     lfo.New(lfo.Sine, cfg.WowHz, wow, sampleRate, 0),
		flutter: lfo.New(lfo.Drift, cfg.FlutterHz, flutter, sampleRate, 1),
		wet:     clamp(cfg.Wet, 0, 1),
	}
}

func (w *Wobble) Process(l, r float32) (float32, float32) {
	w.bufL[w.pos] = l
	w.bufR[w.pos] = r

	delay := w.center + w.wow.Sample() + w.flutter.Sample()

	size := len(w.bufL)
	read := float64(w.pos) - delay
	for read < 0 {
		read += float64(size)
	}
	i := int(read)
	frac := float32(read - float64(i))
	j := i + 1
	if j >= size {
		j = 0
	}
	outL := w.bufL[i]*(1-frac) + w.bufL[j]*frac
	outR := w.bufR[i]*(1-frac) + w.bufR[j]*frac

	if w.pos++; w.pos == size {
		w.pos = 0
	}
	return l*(1-w.wet) + outL*w.wet, r*(1-w.wet) + outR*w.wet
}

func (w *Wobble) Reset() {
	clear(w.bufL)
	clear(w.bufR)
	w.pos = 0
	w.wow.Reset()
	w.flutter.Reset()
}
