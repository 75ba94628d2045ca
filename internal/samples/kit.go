package samples

import "math"

// DefaultKit synthesizes a kick, snare and hat so the player works without
// any sample files. The noise is seeded, so the kit is identical every time.
func DefaultKit(sampleRate int) Bank {
	return Bank{
		Kick:  synthKick(sampleRate),
		Snare: synthSnare(sampleRate),
		Hat:   synthHat(sampleRate),
	}
}

func mono(sampleRate int, seconds float64, fn func(t, p float64) float64) *Buffer {
	n := int(seconds * float64(sampleRate))
	data := make([]float32, n)
	for i := range data {
		t := float64(i) / float64(sampleRate)
		data[i] = float32(fn(t, float64(i)/float64(n)))
	}
	return &Buffer{Channels: [][]float32{data}, SampleRate: sampleRate}
}

// noise advances an LCG and returns a value in [-1, 1].
func noise(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// synthKick is a sine swept from 150 Hz down toward 45 Hz.
func synthKick(sampleRate int) *Buffer {
	var phase float64
	dt := 1 / float64(sampleRate)
	return mono(sampleRate, 0.45, func(t, p float64) float64 {
		freq := 45 + 105*math.Exp(-t*30)
		phase += 2 * math.Pi * freq * dt
		return math.Sin(phase) * math.Exp(-p*6) * 0.9
	})
}

// synthSnare mixes a short 180 Hz body with a decaying noise burst.
func synthSnare(sampleRate int) *Buffer {
	seed := uint64(0x5eed)
	return mono(sampleRate, 0.25, func(t, p float64) float64 {
		body := math.Sin(2*math.Pi*180*t) * math.Exp(-p*18) * 0.4
		return body + noise(&seed)*math.Exp(-p*9)*0.5
	})
}

// synthHat is high-passed noise with a fast decay.
func synthHat(sampleRate int) *Buffer {
	seed := uint64(0x4a7)
	var prev float64
	return mono(sampleRate, 0.08, func(t, p float64) float64 {
		n := noise(&seed)
		hp := n - prev
		prev = n
		return hp * math.Exp(-p*12) * 0.3
	})
}
