package synth

// Envelope is a linear attack / hold / release shape. Attack, Sustain and
// Release are breakpoints in the caller's time unit (usually beats):
// the level rises to 1 until Attack, holds until Sustain, then falls with
// slope 1/Release and is cut to 0 once t reaches Release.
type Envelope struct {
	Attack  float64
	Sustain float64
	Release float64
}

// Level returns the envelope level in [0, 1] at t.
func (e Envelope) Level(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t < e.Attack {
		return t / e.Attack
	}
	if t < e.Sustain {
		return 1
	}
	if t < e.Release {
		l := 1 - (t-e.Sustain)/e.Release
		if l < 0 {
			return 0
		}
		return l
	}
	return 0
}
