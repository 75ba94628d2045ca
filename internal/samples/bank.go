package samples

import (
	"errors"
	"fmt"
)

// Names of the percussion instruments the generator binds.
const (
	Kick  = "kick"
	Snare = "snare"
	Hat   = "hat"
)

// Bank maps an instrument name to its buffer.
type Bank map[string]*Buffer

// Get returns the named buffer, or Silence and false when it is missing or
// failed to load.
func (b Bank) Get(name string) (*Buffer, bool) {
	if buf, ok := b[name]; ok && buf != nil && buf != Silence && buf.Len() > 0 {
		return buf, true
	}
	return Silence, false
}

// LoadBank loads every path in paths. Instruments that fail to load are bound
// to Silence and their errors are joined into the returned error, so callers
// can log and carry on.
func LoadBank(paths map[string]string, sampleRate int) (Bank, error) {
	bank := make(Bank, len(paths))
	var errs []error
	for name, path := range paths {
		if path == "" {
			continue
		}
		buf, err := Load(path, sampleRate)
		if err != nil {
			bank[name] = Silence
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		bank[name] = buf
	}
	return bank, errors.Join(errs...)
}

// Merge returns a bank with overrides layered over base.
func Merge(base, overrides Bank) Bank {
	out := make(Bank, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		if v != nil && v != Silence {
			out[k] = v
		}
	}
	return out
}
