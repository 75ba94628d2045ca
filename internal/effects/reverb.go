package effects

// ReverbConfig sets a Reverb. Room, Feedback, Damping and Wet are 0..1.
type ReverbConfig struct {
	Room     float32
	Feedback float32
	Damping  float32
	Wet      float32
}

// Reverb is a Schroeder reverb: four damped combs in parallel into two
// allpasses in series.
type Reverb struct {
	combs   [4]comb
	allpass [2]allpass
	wet     float32
}

type comb struct {
	buf     []float32
	pos     int
	fb      float32
	damp    float32
	lowpass float32
}

type allpass struct {
	buf []float32
	pos int
	fb  float32
}

// comb and allpass lengths in thousandths of the base length
var (
	combRatios    = [4]int{1000, 1117, 1271, 1437}
	allpassRatios = [2]int{347, 213}
)

func NewReverb(sampleRate int, cfg ReverbConfig) *Reverb {
	base := int(float32(sampleRate) * clamp(cfg.Room, 0, 1) * 0.05)
	if base < 10 {
		base = 10
	}
	r := &Reverb{wet: clamp(cfg.Wet, 0, 1)}
	for i := range r.combs {
		r.combs[i] = comb{
			buf:  make([]float32, base*combRatios[i]/1000),
			fb:   clamp(cfg.Feedback, 0, 0.95),
			damp: clamp(cfg.Damping, 0, 1),
		}
	}
	for i := range r.allpass {
		r.allpass[i] = allpass{buf: make([]float32, max(base*allpassRatios[i]/1000, 1)), fb: 0.5}
	}
	return r
}

func (r *Reverb) Process(l, rr float32) (float32, float32) {
	in := (l + rr) * 0.5
	var out float32
	for i := range r.combs {
		out += r.combs[i].process(in)
	}
	out *= 0.25
	for i := range r.allpass {
		out = r.allpass[i].process(out)
	}
	return l*(1-r.wet) + out*r.wet, rr*(1-r.wet) + out*r.wet
}

func (r *Reverb) Reset() {
	for i := range r.combs {
		clear(r.combs[i].buf)
		r.combs[i].pos = 0
		r.combs[i].lowpass = 0
	}
	for i := range r.allpass {
		clear(r.allpass[i].buf)
		r.allpass[i].pos = 0
	}
}

func (c *comb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.lowpass = out*(1-c.damp) + c.lowpass*c.damp
	c.buf[c.pos] = in + c.lowpass*c.fb
	if c.pos++; c.pos == len(c.buf) {
		c.pos = 0
	}
	return out
}

func (a *allpass) process(in float32) float32 {
	held := a.buf[a.pos]
	a.buf[a.pos] = in + held*a.fb
	if a.pos++; a.pos == len(a.buf) {
		a.pos = 0
	}
	return held - in
}
