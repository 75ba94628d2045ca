package effects

import "math"

// SaturationConfig sets a Saturation stage.
type SaturationConfig struct {
	Drive  float32
	Output float32
	// Bias skews the curve so positive and negative halves clip differently.
	Bias float32
	// ToneHz rolls off the top after the shaper; 0 leaves it open.
	ToneHz float64
}

// Saturation is an asymmetric tanh shaper with a post lowpass.
type Saturation struct {
	drive    float32
	output   float32
	bias     float32
	offset   float32
	tone     float32
	lpL, lpR float32
}

func NewSaturation(sampleRate int, cfg SaturationConfig) *Saturation {
	if cfg.Drive <= 0 {
		cfg.Drive = 1
	}
	return &Saturation{
		drive:  cfg.Drive,
		output: cfg.Output,
		bias:   cfg.Bias,
		offset: float32(math.Tanh(float64(cfg.Bias))),
		tone:   onePole(sampleRate, cfg.ToneHz),
	}
}

func (s *Saturation) shape(x float32) float32 {
	// subtracting tanh(bias) keeps silence at zero
	return float32(math.Tanh(float64(x*s.drive+s.bias))) - s.offset
}

func (s *Saturation) Process(l, r float32) (float32, float32) {
	l = s.shape(l) * s.output
	r = s.shape(r) * s.output
	s.lpL += s.tone * (l - s.lpL)
	s.lpR += s.tone * (r - s.lpR)
	return s.lpL, s.lpR
}

func (s *Saturation) Reset() {
	s.lpL, s.lpR = 0, 0
}
