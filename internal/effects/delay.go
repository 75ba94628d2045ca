package effects

// EchoConfig sets a tape Echo.
type EchoConfig struct {
	TimeMs   float64
	Feedback float32
	Cross    float32
	Wet      float32
	// ToneHz darkens each repeat with a one-pole lowpass; 0 leaves it open.
	ToneHz float64
}

// Echo is a stereo feedback delay whose repeats lose top end like tape.
type Echo struct {
	bufL, bufR []float32
	pos        int
	feedback   float32
	cross      float32
	wet        float32
	tone       float32
	lpL, lpR   float32
}

func NewEcho(sampleRate int, cfg EchoConfig) *Echo {
	n := int(cfg.TimeMs * float64(sampleRate) / 1000.0)
	if n < 1 {
		n = 1
	}
	return &Echo{
		bufL:     make([]float32, n),
		bufR:     make([]float32, n),
		feedback: clamp(cfg.Feedback, 0, 0.95),
		cross:    clamp(cfg.Cross, 0, 1),
		wet:      clamp(cfg.Wet, 0, 1),
		tone:     onePole(sampleRate, cfg.ToneHz),
	}
}

func (d *Echo) Process(l, r float32) (float32, float32) {
	outL, outR := d.bufL[d.pos], d.bufR[d.pos]
	d.lpL += d.tone * (outL - d.lpL)
	d.lpR += d.tone * (outR - d.lpR)
	fbL := (d.lpL*(1-d.cross) + d.lpR*d.cross) * d.feedback
	fbR := (d.lpR*(1-d.cross) + d.lpL*d.cross) * d.feedback
	d.bufL[d.pos] = l + fbL
	d.bufR[d.pos] = r + fbR
	if d.pos++; d.pos == len(d.bufL) {
		d.pos = 0
	}
	return l*(1-d.wet) + outL*d.wet, r*(1-d.wet) + outR*d.wet
}

func (d *Echo) Reset() {
	clear(d.bufL)
	clear(d.bufR)
	d.pos = 0
	d.lpL, d.lpR = 0, 0
}
