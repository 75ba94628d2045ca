package effects

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEffect = errors.New("effects: unknown effect type")

// Spec names an effect and its positional parameters. Missing parameters take
// the defaults listed in New.
type Spec struct {
	Type   string    `yaml:"type"`
	Params []float64 `yaml:"params,flow"`
}

// New builds one effect from spec.
//
//	echo       time ms (350), feedback (0.35), cross (0.2), wet (0.25), tone Hz (3000)
//	reverb     room (0.6), feedback (0.75), damping (0.4), wet (0.2)
//	wobble     wow Hz (0.5), wow ms (1.5), flutter Hz (6), flutter ms (0.15), wet (1)
//	saturation drive (1.5), output (0.8), bias (0.1), tone Hz (9000)
//	compressor threshold dB (-24), ratio (12), attack ms (3), release ms (250), makeup dB (0)
//	lowpass    frequency Hz (4000), Q (0.707)
//	peaking    frequency Hz (1000), Q (1), gain dB (0)
func New(spec Spec, sampleRate int) (Effector, error) {
	p := func(i int, def float64) float64 {
		if i < len(spec.Params) {
			return spec.Params[i]
		}
		return def
	}
	switch strings.ToLower(strings.TrimSpace(spec.Type)) {
	case "echo", "delay":
		return NewEcho(sampleRate, EchoConfig{
			TimeMs:   p(0, 350),
			Feedback: float32(p(1, 0.35)),
			Cross:    float32(p(2, 0.2)),
			Wet:      float32(p(3, 0.25)),
			ToneHz:   p(4, 3000),
		}), nil
	case "reverb":
		return NewReverb(sampleRate, ReverbConfig{
			Room:     float32(p(0, 0.6)),
			Feedback: float32(p(1, 0.75)),
			Damping:  float32(p(2, 0.4)),
			Wet:      float32(p(3, 0.2)),
		}), nil
	case "wobble", "chorus":
		return NewWobble(sampleRate, WobbleConfig{
			WowHz:      p(0, 0.5),
			WowDepthMs: p(1, 1.5),
			FlutterHz:  p(2, 6),
			FlutterMs:  p(3, 0.15),
			Wet:        float32(p(4, 1)),
		}), nil
	case "saturation", "dist", "distortion":
		return NewSaturation(sampleRate, SaturationConfig{
			Drive:  float32(p(0, 1.5)),
			Output: float32(p(1, 0.8)),
			Bias:   float32(p(2, 0.1)),
			ToneHz: p(3, 9000),
		}), nil
	case "comp", "compressor":
		return NewCompressor(sampleRate, CompressorConfig{
			ThresholdDB: p(0, -24),
			Ratio:       p(1, 12),
			AttackMs:    p(2, 3),
			ReleaseMs:   p(3, 250),
			MakeupDB:    p(4, 0),
		}), nil
	case "lowpass":
		return NewBiquad(Lowpass, sampleRate, p(0, 4000), p(1, 0.707), 0), nil
	case "peaking":
		return NewBiquad(Peaking, sampleRate, p(0, 1000), p(1, 1), p(2, 0)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, spec.Type)
}

// NewChainFromSpecs builds a chain. It returns nil when specs is empty.
func NewChainFromSpecs(specs []Spec, sampleRate int) (*Chain, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	c := NewChain()
	for i, s := range specs {
		e, err := New(s, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		c.Add(e)
	}
	return c, nil
}
