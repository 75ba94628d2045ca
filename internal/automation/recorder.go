package automation

// Op is one recorded Sink call.
type Op struct {
	Kind  string  `yaml:"op"`
	Param string  `yaml:"param"`
	Value float64 `yaml:"value"`
	At    float64 `yaml:"at"`
}

// Recorder is a Sink that keeps every call in order.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) ScheduleRamp(param string, value, at float64) {
	r.Ops = append(r.Ops, Op{Kind: "ramp", Param: param, Value: value, At: at})
}

func (r *Recorder) SetValueAt(param string, value, at float64) {
	r.Ops = append(r.Ops, Op{Kind: "set", Param: param, Value: value, At: at})
}

func (r *Recorder) CancelScheduled(param string, from float64) {
	r.Ops = append(r.Ops, Op{Kind: "cancel", Param: param, At: from})
}

// Filter returns the recorded ops for one parameter.
func (r *Recorder) Filter(param string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Param == param {
			out = append(out, op)
		}
	}
	return out
}
