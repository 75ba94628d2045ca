package song

import "sort"

// Summary is a plain description of a song for printing.
type Summary struct {
	Seed        uint32                  `yaml:"seed"`
	Tempo       float64                 `yaml:"tempo"`
	BarDuration float64                 `yaml:"bar_duration"`
	Length      float64                 `yaml:"length_bars"`
	Duration    float64                 `yaml:"duration_seconds"`
	Structure   []string                `yaml:"structure"`
	Sections    []SectionSummary        `yaml:"sections"`
	Progression []ChordSummary          `yaml:"progression"`
	Tracks      []TrackSummary          `yaml:"tracks"`
	Automations map[string][]Breakpoint `yaml:"automations"`
}

type SectionSummary struct {
	Name   string   `yaml:"name"`
	Length float64  `yaml:"length_bars"`
	Tracks []string `yaml:"tracks"`
}

type ChordSummary struct {
	Root      float64   `yaml:"root"`
	Intervals []float64 `yaml:"intervals,flow"`
}

type TrackSummary struct {
	Name   string         `yaml:"name"`
	Volume float64        `yaml:"volume"`
	Chunks []ChunkSummary `yaml:"chunks"`
}

type ChunkSummary struct {
	Kind      string  `yaml:"kind"`
	Bar       float64 `yaml:"bar"`
	StartTime float64 `yaml:"start"`
	EndTime   float64 `yaml:"end"`
}

// Summary describes the song, sections in name order.
func (s *Song) Summary() Summary {
	out := Summary{
		Seed:        s.Seed,
		Tempo:       s.Tempo,
		BarDuration: s.BarDuration(),
		Length:      s.Length,
		Duration:    s.Duration(),
		Structure:   append([]string(nil), s.Structure...),
		Automations: s.Automations.Clone(),
	}
	names := make([]string, 0, len(s.Sections))
	for name := range s.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sec := s.Sections[name]
		ss := SectionSummary{Name: name, Length: sec.Length}
		for _, t := range sec.Tracks {
			ss.Tracks = append(ss.Tracks, t.Name)
		}
		out.Sections = append(out.Sections, ss)
	}
	for _, c := range s.Progression {
		out.Progression = append(out.Progression, ChordSummary{Root: c.Root, Intervals: append([]float64(nil), c.Intervals...)})
	}
	for _, t := range s.Tracks {
		ts := TrackSummary{Name: t.Name, Volume: t.Volume}
		for _, c := range t.Chunks {
			kind := "none"
			if c.Renderer != nil {
				kind = c.Renderer.Kind().String()
			}
			ts.Chunks = append(ts.Chunks, ChunkSummary{Kind: kind, Bar: c.Start, StartTime: c.StartTime, EndTime: c.EndTime})
		}
		out.Tracks = append(out.Tracks, ts)
	}
	return out
}
