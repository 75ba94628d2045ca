package effects

import (
	"errors"
	"math"
	"testing"
)

func TestEchoRepeatsDarker(t *testing.T) {
	d := NewEcho(44100, EchoConfig{TimeMs: 100, Feedback: 0.5, Wet: 0.5, ToneHz: 2000})
	d.Process(1.0, 1.0)
	for i := 0; i < 4409; i++ { // ~100ms at 44100Hz
		d.Process(0, 0)
	}
	l, r := d.Process(0, 0)
	if math.Abs(float64(l)) < 0.01 || math.Abs(float64(r)) < 0.01 {
		t.Errorf("expected delayed output, got l=%f r=%f", l, r)
	}
	d.Reset()
	if l, _ := d.Process(0, 0); l != 0 {
		t.Errorf("expected silence after reset, got %f", l)
	}
}

func TestReverbProducesTail(t *testing.T) {
	r := NewReverb(44100, ReverbConfig{Room: 0.5, Feedback: 0.7, Damping: 0.3, Wet: 0.5})
	r.Process(1.0, 1.0)
	var maxOut float32
	for i := 0; i < 10000; i++ {
		l, _ := r.Process(0, 0)
		if l > maxOut {
			maxOut = l
		}
	}
	if maxOut < 0.001 {
		t.Error("expected reverb tail")
	}
}

func TestSaturationBoundedAndCentered(t *testing.T) {
	s := NewSaturation(44100, SaturationConfig{Drive: 10, Output: 1, Bias: 0.3})
	l, r := s.Process(0.5, -0.5)
	if math.Abs(float64(l)) > 2 || math.Abs(float64(r)) > 2 {
		t.Errorf("saturation output should be bounded, got %f %f", l, r)
	}
	if l <= 0 || r >= 0 {
		t.Errorf("expected sign to survive, got %f %f", l, r)
	}
	s.Reset()
	if l, _ := s.Process(0, 0); math.Abs(float64(l)) > 1e-6 {
		t.Errorf("silence should stay silent, got %f", l)
	}
}

func TestWobblePassesSignal(t *testing.T) {
	w := NewWobble(44100, WobbleConfig{WowHz: 0.5, WowDepthMs: 2, FlutterHz: 6, FlutterMs: 0.2, Wet: 1})
	var peak float32
	for i := 0; i < 2000; i++ {
		l, _ := w.Process(0.5, 0.5)
		if l > peak {
			peak = l
		}
	}
	if math.Abs(float64(peak)-0.5) > 0.01 {
		t.Errorf("steady input should come through the delay line, peak %f", peak)
	}
}

func TestCompressorReducesLoud(t *testing.T) {
	c := NewCompressor(44100, CompressorConfig{ThresholdDB: -10, Ratio: 4, AttackMs: 1, ReleaseMs: 50})
	var out float32
	for i := 0; i < 1000; i++ {
		out, _ = c.Process(1.0, 1.0)
	}
	if out >= 1.0 {
		t.Errorf("compressor should reduce loud signals, got %f", out)
	}
}

func TestCompressorLinked(t *testing.T) {
	c := NewCompressor(44100, CompressorConfig{ThresholdDB: -20, Ratio: 8, AttackMs: 1, ReleaseMs: 50})
	var l, r float32
	for i := 0; i < 2000; i++ {
		l, r = c.Process(1.0, 0.1)
	}
	if ratio := l / r; math.Abs(float64(ratio)-10) > 1e-3 {
		t.Errorf("linked gain should keep the balance, got ratio %f", ratio)
	}
}

func TestBiquadLowpass(t *testing.T) {
	const sr = 44100
	gainAt := func(freq float64) float64 {
		b := NewBiquad(Lowpass, sr, 500, 0.707, 0)
		var peak float64
		for i := 0; i < sr/2; i++ {
			x := float32(math.Sin(2 * math.Pi * freq * float64(i) / sr))
			y, _ := b.Process(x, x)
			if i > sr/4 && math.Abs(float64(y)) > peak {
				peak = math.Abs(float64(y))
			}
		}
		return peak
	}
	if g := gainAt(50); math.Abs(g-1) > 0.05 {
		t.Errorf("passband gain = %f, want ~1", g)
	}
	if g := gainAt(8000); g > 0.01 {
		t.Errorf("stopband gain = %f, want < 0.01", g)
	}
}

func TestBiquadClampsFrequency(t *testing.T) {
	b := NewBiquad(Lowpass, 8000, 100000, 0, 0)
	if got := b.Frequency(); got >= 4000 {
		t.Errorf("frequency = %f, want below Nyquist", got)
	}
	l, _ := b.Process(1, 1)
	if math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
		t.Errorf("output not finite: %f", l)
	}
}

func TestPeakingUnityAtZeroGain(t *testing.T) {
	b := NewBiquad(Peaking, 44100, 1000, 1, 0)
	var y float32
	for i := 0; i < 100; i++ {
		y, _ = b.Process(0.25, 0.25)
	}
	if math.Abs(float64(y)-0.25) > 1e-4 {
		t.Errorf("0 dB peaking should pass DC, got %f", y)
	}
}

func TestRegistry(t *testing.T) {
	for _, typ := range []string{"echo", "delay", "reverb", "wobble", "chorus", "saturation", "distortion", "compressor", "lowpass", "Peaking"} {
		e, err := New(Spec{Type: typ}, 44100)
		if err != nil || e == nil {
			t.Fatalf("New(%q) = %v, %v", typ, e, err)
		}
	}
	if _, err := New(Spec{Type: "flanger"}, 44100); !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("err = %v, want ErrUnknownEffect", err)
	}
	c, err := NewChainFromSpecs([]Spec{{Type: "saturation", Params: []float64{2, 1}}, {Type: "echo", Params: []float64{10, 0, 0, 0.5}}}, 44100)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("chain length %d, want 2", c.Len())
	}
	if l, r := c.Process(0.5, 0.5); l == 0 || r == 0 {
		t.Error("chain should produce output")
	}
	if c, err := NewChainFromSpecs(nil, 44100); c != nil || err != nil {
		t.Fatalf("empty specs = %v, %v; want nil, nil", c, err)
	}
	if _, err := NewChainFromSpecs([]Spec{{Type: "echo"}, {Type: "nope"}}, 44100); !errors.Is(err, ErrUnknownEffect) {
		t.Fatalf("err = %v, want ErrUnknownEffect", err)
	}
}

func TestMasterRouting(t *testing.T) {
	curves := MasterCurves{
		Volume:          Const(0.5),
		FilterGain:      Const(0),
		FilterFrequency: Const(10),
		FilterQ:         Const(1),
		FilterFeed:      Const(0),
		FilterBypass:    Const(1),
	}
	// A compressor that never engages.
	m := NewMaster(8000, curves, CompressorConfig{ThresholdDB: 20, Ratio: 1}, nil)
	buf := []float32{0.4, -0.4, 0.2, 0.2}
	m.Process(buf, 0)
	want := []float32{0.2, -0.2, 0.1, 0.1}
	for i := range want {
		if math.Abs(float64(buf[i]-want[i])) > 1e-6 {
			t.Fatalf("buf[%d] = %f, want %f", i, buf[i], want[i])
		}
	}

	m.SetGain(-3)
	if m.Gain() != 0 {
		t.Fatalf("Gain() = %f, want 0", m.Gain())
	}
	buf = []float32{1, 1}
	m.Process(buf, 1)
	if buf[0] != 0 || buf[1] != 0 {
		t.Fatalf("zero gain output %v", buf)
	}
}

type rampCurve struct{}

func (rampCurve) ValueAt(t float64) float64 { return t }

func TestMasterFilterFollowsAutomation(t *testing.T) {
	curves := MasterCurves{
		Volume:          Const(1),
		FilterGain:      Const(0),
		FilterFrequency: rampCurve{}, // Hz equals seconds
		FilterQ:         Const(0.707),
		FilterFeed:      Const(1),
		FilterBypass:    Const(0),
	}
	m := NewMaster(8000, curves, CompressorConfig{ThresholdDB: 20, Ratio: 1}, nil)
	buf := make([]float32, 2*64)
	m.Process(buf, 300)
	if got := m.filter.Frequency(); got < 300 || got > 301 {
		t.Fatalf("filter frequency = %f, want the curve value near 300", got)
	}
}
