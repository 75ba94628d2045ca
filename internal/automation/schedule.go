package automation

import (
	"github.com/cbegin/lofi-go/internal/song"
)

// Host parameters driven by song automation.
const (
	Volume          = song.ParamVolume
	FilterGain      = "filter.gain"
	FilterFrequency = "filter.frequency"
	FilterQ         = "filter.q"
	FilterFeed      = "filter.feed"
	FilterBypass    = "filter.bypass"
)

// FilterParams are the host parameters a filter breakpoint fans out to.
var FilterParams = []string{FilterGain, FilterFrequency, FilterQ, FilterFeed, FilterBypass}

// DefaultParams are the resting values: full volume, filter bypassed.
func DefaultParams() map[string]float64 {
	m := map[string]float64{Volume: 1}
	for _, name := range FilterParams {
		m[name] = FilterValue(name, 0)
	}
	return m
}

// FilterValue maps a filter amount in [0, 1] onto one host parameter.
// Out-of-range amounts are clamped first.
func FilterValue(param string, amount float64) float64 {
	v := clamp01(amount)
	switch param {
	case FilterGain:
		return v * 200
	case FilterFrequency:
		return 10 + v*2000
	case FilterQ:
		return 1 + v*9
	case FilterFeed:
		return v
	case FilterBypass:
		return 1 - v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Schedule issues the song's automation against sink. now is the current
// engine time; it bounds how far back the filter ramps are cancelled.
//
// Volume is cancelled from one second before the song so the previous fade
// cannot bleed in, pinned to 1 at the song start, and then ramped through
// each breakpoint.
func Schedule(sink Sink, s *song.Song, now float64) {
	bar := s.BarDuration()
	if bps, ok := s.Automations[song.ParamVolume]; ok {
		sink.CancelScheduled(Volume, s.StartTime-1)
		sink.SetValueAt(Volume, 1, s.StartTime)
		for _, bp := range bps {
			sink.ScheduleRamp(Volume, bp.Value, s.StartTime+bp.Bar*bar)
		}
	}
	if bps, ok := s.Automations[song.ParamFilter]; ok {
		for _, name := range FilterParams {
			sink.CancelScheduled(name, now)
		}
		for _, bp := range bps {
			at := s.StartTime + bp.Bar*bar
			for _, name := range FilterParams {
				sink.ScheduleRamp(name, FilterValue(name, bp.Value), at)
			}
		}
	}
}
