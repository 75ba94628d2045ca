// Package config loads player settings from YAML. Zero or missing fields
// keep the values from Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cbegin/lofi-go/internal/audio"
	"github.com/cbegin/lofi-go/internal/effects"
)

var ErrInvalid = errors.New("config: invalid")

// Samples are optional paths to drum one-shots; empty entries use the
// built-in kit.
type Samples struct {
	Kick  string `yaml:"kick,omitempty"`
	Snare string `yaml:"snare,omitempty"`
	Hat   string `yaml:"hat,omitempty"`
}

// Paths maps sample names to non-empty paths.
func (s Samples) Paths() map[string]string {
	out := map[string]string{}
	for name, p := range map[string]string{"kick": s.Kick, "snare": s.Snare, "hat": s.Hat} {
		if p != "" {
			out[name] = p
		}
	}
	return out
}

type Config struct {
	SampleRate int     `yaml:"sample_rate"`
	Backend    string  `yaml:"backend"`
	Volume     float64 `yaml:"volume"`
	// Seed 0 means unset and picks a fresh seed per run; use --seed 0 to
	// request seed 0 itself.
	Seed uint32 `yaml:"seed,omitempty"`
	// Tempo 0 lets each song draw its own.
	Tempo     float64  `yaml:"tempo,omitempty"`
	Structure []string `yaml:"structure,omitempty,flow"`
	// LeadIn is the silence in seconds before a new song starts.
	LeadIn float64 `yaml:"lead_in"`
	// Guard is the time past a song's end before the next one is generated.
	Guard      float64                  `yaml:"guard"`
	Samples    Samples                  `yaml:"samples,omitempty"`
	Compressor effects.CompressorConfig `yaml:"compressor"`
	Effects    []effects.Spec           `yaml:"effects,omitempty"`
}

func Default() *Config {
	return &Config{
		SampleRate: 44100,
		Backend:    audio.BackendEbiten,
		Volume:     1,
		LeadIn:     1,
		Guard:      0.25,
		Compressor: effects.DefaultCompressor(),
		Effects: []effects.Spec{
			{Type: "saturation"},
			{Type: "wobble"},
			{Type: "reverb"},
		},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate %d out of range [8000, 192000]", c.SampleRate))
	}
	if c.Backend != "" && !slices.Contains(audio.Backends(), c.Backend) {
		errs = append(errs, fmt.Errorf("backend %q (expected one of %v)", c.Backend, audio.Backends()))
	}
	if c.Volume < 0 {
		errs = append(errs, fmt.Errorf("volume %v is negative", c.Volume))
	}
	if c.Tempo < 0 {
		errs = append(errs, fmt.Errorf("tempo %v is negative", c.Tempo))
	}
	if c.LeadIn < 0 {
		errs = append(errs, fmt.Errorf("lead_in %v is negative", c.LeadIn))
	}
	if c.Guard < 0 {
		errs = append(errs, fmt.Errorf("guard %v is negative", c.Guard))
	}
	for i, s := range c.Effects {
		if _, err := effects.New(s, c.SampleRate); err != nil {
			errs = append(errs, fmt.Errorf("effects[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
