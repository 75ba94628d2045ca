package effects

import "math"

// FilterType selects the biquad response.
type FilterType int

const (
	Lowpass FilterType = iota
	Peaking
)

// Biquad is a stereo second-order filter with coefficients from the RBJ
// audio EQ cookbook. Gain only affects the peaking response.
type Biquad struct {
	typ        FilterType
	sampleRate float64

	freq, q, gain float64
	b0, b1, b2    float64
	a1, a2        float64

	// direct form I history per channel
	x1, x2, y1, y2 [2]float64
}

func NewBiquad(typ FilterType, sampleRate int, freq, q, gainDB float64) *Biquad {
	b := &Biquad{typ: typ, sampleRate: float64(sampleRate), freq: -1}
	b.Set(freq, q, gainDB)
	return b
}

// Set updates the filter. Frequency is clamped below Nyquist and Q to a small
// positive floor. Unchanged values skip the coefficient update.
func (b *Biquad) Set(freq, q, gainDB float64) {
	nyquist := b.sampleRate / 2
	freq = math.Max(1, math.Min(freq, nyquist*0.99))
	q = math.Max(q, 1e-4)
	if freq == b.freq && q == b.q && gainDB == b.gain {
		return
	}
	b.freq, b.q, b.gain = freq, q, gainDB

	w0 := 2 * math.Pi * freq / b.sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)
	alpha := sinw / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64
	switch b.typ {
	case Peaking:
		amp := math.Pow(10, gainDB/40)
		b0 = 1 + alpha*amp
		b1 = -2 * cosw
		b2 = 1 - alpha*amp
		a0 = 1 + alpha/amp
		a1 = -2 * cosw
		a2 = 1 - alpha/amp
	default:
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = (1 - cosw) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw
		a2 = 1 - alpha
	}
	b.b0, b.b1, b.b2 = b0/a0, b1/a0, b2/a0
	b.a1, b.a2 = a1/a0, a2/a0
}

func (b *Biquad) Frequency() float64 { return b.freq }

func (b *Biquad) tick(ch int, x float64) float64 {
	y := b.b0*x + b.b1*b.x1[ch] + b.b2*b.x2[ch] - b.a1*b.y1[ch] - b.a2*b.y2[ch]
	b.x2[ch], b.x1[ch] = b.x1[ch], x
	b.y2[ch], b.y1[ch] = b.y1[ch], y
	return y
}

func (b *Biquad) Process(l, r float32) (float32, float32) {
	return float32(b.tick(0, float64(l))), float32(b.tick(1, float64(r)))
}

func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = [2]float64{}, [2]float64{}, [2]float64{}, [2]float64{}
}
