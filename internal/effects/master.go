package effects

import (
	"math"
	"sync/atomic"
)

// Curve is an automated parameter evaluated at engine time.
type Curve interface {
	ValueAt(t float64) float64
}

// Const is a Curve that never moves.
type Const float64

func (c Const) ValueAt(float64) float64 { return float64(c) }

// MasterCurves are the automated inputs of the master graph.
type MasterCurves struct {
	Volume          Curve
	FilterGain      Curve
	FilterFrequency Curve
	FilterQ         Curve
	FilterFeed      Curve
	FilterBypass    Curve
}

// controlInterval is how many frames the filter coefficients are held.
const controlInterval = 32

// Master is the graph after the engine:
//
//	in -> lowpass * feed + in * bypass -> volume -> compressor -> chain -> gain
type Master struct {
	sampleRate float64
	curves     MasterCurves
	filter     *Biquad
	comp       *Compressor
	chain      *Chain
	gain       atomic.Uint64
	countdown  int
}

func NewMaster(sampleRate int, curves MasterCurves, comp CompressorConfig, chain *Chain) *Master {
	m := &Master{
		sampleRate: float64(sampleRate),
		curves:     curves,
		filter:     NewBiquad(Lowpass, sampleRate, curves.FilterFrequency.ValueAt(0), curves.FilterQ.ValueAt(0), curves.FilterGain.ValueAt(0)),
		comp:       NewCompressor(sampleRate, comp),
		chain:      chain,
	}
	m.SetGain(1)
	return m
}

// SetGain sets the output gain. Negative values are treated as 0.
func (m *Master) SetGain(g float64) {
	if g < 0 || math.IsNaN(g) {
		g = 0
	}
	m.gain.Store(math.Float64bits(g))
}

func (m *Master) Gain() float64 {
	return math.Float64frombits(m.gain.Load())
}

// Process runs interleaved stereo frames in place. start is the engine time
// of the first frame.
func (m *Master) Process(buf []float32, start float64) {
	gain := float32(m.Gain())
	c := &m.curves
	for i := 0; i+1 < len(buf); i += 2 {
		t := start + float64(i/2)/m.sampleRate
		if m.countdown <= 0 {
			m.filter.Set(c.FilterFrequency.ValueAt(t), c.FilterQ.ValueAt(t), c.FilterGain.ValueAt(t))
			m.countdown = controlInterval
		}
		m.countdown--

		l, r := buf[i], buf[i+1]
		fl, fr := m.filter.Process(l, r)
		feed := float32(c.FilterFeed.ValueAt(t))
		bypass := float32(c.FilterBypass.ValueAt(t))
		vol := float32(c.Volume.ValueAt(t))
		l = (fl*feed + l*bypass) * vol
		r = (fr*feed + r*bypass) * vol

		l, r = m.comp.Process(l, r)
		if m.chain != nil {
			l, r = m.chain.Process(l, r)
		}
		buf[i], buf[i+1] = l*gain, r*gain
	}
}

func (m *Master) Reset() {
	m.filter.Reset()
	m.comp.Reset()
	if m.chain != nil {
		m.chain.Reset()
	}
	m.countdown = 0
}
