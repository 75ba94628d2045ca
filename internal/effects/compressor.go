package effects

import "math"

// CompressorConfig sets a Compressor. Zero fields take the defaults.
type CompressorConfig struct {
	ThresholdDB float64 `yaml:"threshold_db"`
	Ratio       float64 `yaml:"ratio"`
	AttackMs    float64 `yaml:"attack_ms"`
	ReleaseMs   float64 `yaml:"release_ms"`
	MakeupDB    float64 `yaml:"makeup_db"`
}

// DefaultCompressor is a gentle bus compressor.
func DefaultCompressor() CompressorConfig {
	return CompressorConfig{ThresholdDB: -24, Ratio: 12, AttackMs: 3, ReleaseMs: 250}
}

// Compressor is a stereo-linked feed-forward compressor: both channels get the
// gain computed from the louder one, so the image does not shift.
type Compressor struct {
	threshold float32
	ratio     float32
	attack    float32 // coefficient
	release   float32 // coefficient
	makeup    float32
	env       float32
}

func NewCompressor(sampleRate int, cfg CompressorConfig) *Compressor {
	def := DefaultCompressor()
	if cfg.Ratio < 1 {
		cfg.Ratio = def.Ratio
	}
	if cfg.AttackMs <= 0 {
		cfg.AttackMs = def.AttackMs
	}
	if cfg.ReleaseMs <= 0 {
		cfg.ReleaseMs = def.ReleaseMs
	}
	sr := float64(sampleRate)
	return &Compressor{
		threshold: float32(math.Pow(10, cfg.ThresholdDB/20)),
		ratio:     float32(cfg.Ratio),
		attack:    float32(1.0 - math.Exp(-1.0/(cfg.AttackMs*sr/1000.0))),
		release:   float32(1.0 - math.Exp(-1.0/(cfg.ReleaseMs*sr/1000.0))),
		makeup:    float32(math.Pow(10, cfg.MakeupDB/20)),
	}
}

func (c *Compressor) Process(l, r float32) (float32, float32) {
	level := float32(math.Max(math.Abs(float64(l)), math.Abs(float64(r))))
	if level > c.env {
		c.env += c.attack * (level - c.env)
	} else {
		c.env += c.release * (level - c.env)
	}
	g := c.gain(c.env) * c.makeup
	return l * g, r * g
}

func (c *Compressor) gain(env float32) float32 {
	if env <= c.threshold || c.threshold <= 0 {
		return 1
	}
	over := env / c.threshold
	return float32(math.Pow(float64(over), float64(1/c.ratio-1)))
}

func (c *Compressor) Reset() {
	c.env = 0
}
