// Package automation turns song breakpoints into timed parameter ramps and
// evaluates them for the render path.
package automation

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// Sink receives parameter automation. Times are absolute engine seconds.
type Sink interface {
	ScheduleRamp(param string, value, at float64)
	SetValueAt(param string, value, at float64)
	CancelScheduled(param string, from float64)
}

type eventKind uint8

const (
	eventSet eventKind = iota
	eventRamp
)

type event struct {
	at    float64
	value float64
	kind  eventKind
}

// curve is immutable once published. Before the first event the value is
// held at anchor.
type curve struct {
	anchorAt    float64
	anchorValue float64
	events      []event
}

func (c *curve) valueAt(t float64) float64 {
	prevAt, prev := c.anchorAt, c.anchorValue
	for _, e := range c.events {
		if e.at <= t {
			prevAt, prev = e.at, e.value
			continue
		}
		if e.kind == eventRamp && !math.IsInf(prevAt, -1) && e.at > prevAt && t >= prevAt {
			return prev + (e.value-prev)*(t-prevAt)/(e.at-prevAt)
		}
		return prev
	}
	return prev
}

// Param is one automated value. ValueAt is lock-free and allocation-free.
type Param struct {
	name string
	cur  atomic.Pointer[curve]
}

func (p *Param) Name() string { return p.name }

// ValueAt evaluates the curve at t.
func (p *Param) ValueAt(t float64) float64 {
	return p.cur.Load().valueAt(t)
}

// Timeline is a Sink with linear-ramp semantics: a ramp runs from the
// previous event's time and value to its own, a set jumps at its time, and
// cancelling drops every event at or after the given time. Writers are
// serialized; readers never block.
type Timeline struct {
	mu      sync.Mutex
	params  map[string]*Param
	dropped atomic.Int64
}

// NewTimeline creates a timeline for a fixed set of parameters and their
// resting values.
func NewTimeline(defaults map[string]float64) *Timeline {
	tl := &Timeline{params: make(map[string]*Param, len(defaults))}
	for name, v := range defaults {
		p := &Param{name: name}
		p.cur.Store(&curve{anchorAt: math.Inf(-1), anchorValue: v})
		tl.params[name] = p
	}
	return tl
}

// Param returns the handle for name, or nil if the timeline does not carry it.
func (tl *Timeline) Param(name string) *Param {
	return tl.params[name]
}

// Params lists the parameter names in sorted order.
func (tl *Timeline) Params() []string {
	names := make([]string, 0, len(tl.params))
	for name := range tl.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValueAt evaluates name at t. Unknown parameters read as 0.
func (tl *Timeline) ValueAt(name string, t float64) float64 {
	p := tl.params[name]
	if p == nil {
		return 0
	}
	return p.ValueAt(t)
}

// Dropped counts writes addressed to parameters the timeline does not carry.
func (tl *Timeline) Dropped() int64 { return tl.dropped.Load() }

// Pending returns the number of events held for name.
func (tl *Timeline) Pending(name string) int {
	p := tl.params[name]
	if p == nil {
		return 0
	}
	return len(p.cur.Load().events)
}

func (tl *Timeline) ScheduleRamp(param string, value, at float64) {
	tl.insert(param, event{at: at, value: value, kind: eventRamp})
}

func (tl *Timeline) SetValueAt(param string, value, at float64) {
	tl.insert(param, event{at: at, value: value, kind: eventSet})
}

func (tl *Timeline) insert(name string, e event) {
	p := tl.params[name]
	if p == nil {
		tl.dropped.Add(1)
		return
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()

	old := p.cur.Load()
	i := sort.Search(len(old.events), func(i int) bool { return old.events[i].at > e.at })
	next := &curve{anchorAt: old.anchorAt, anchorValue: old.anchorValue, events: make([]event, 0, len(old.events)+1)}
	next.events = append(next.events, old.events[:i]...)
	next.events = append(next.events, e)
	next.events = append(next.events, old.events[i:]...)
	p.cur.Store(next)
}

// CancelScheduled drops every event at or after from. Events well before
// from are folded into the anchor so the list does not grow across songs;
// the last one is kept as the start of any later ramp.
func (tl *Timeline) CancelScheduled(param string, from float64) {
	p := tl.params[param]
	if p == nil {
		tl.dropped.Add(1)
		return
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()

	old := p.cur.Load()
	end := sort.Search(len(old.events), func(i int) bool { return old.events[i].at >= from })
	next := &curve{anchorAt: old.anchorAt, anchorValue: old.anchorValue}
	start := 0
	if end > 1 {
		start = end - 1
		prior := old.events[start-1]
		next.anchorAt, next.anchorValue = prior.at, prior.value
	}
	next.events = append([]event(nil), old.events[start:end]...)
	p.cur.Store(next)
}
