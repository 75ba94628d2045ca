package song

// ChunkSpec places a renderer inside a section. Start and Length are bars
// relative to the section; a zero Length means the whole section. End, when
// set, is a section-relative bar and wins over Length. Open chunks run to the
// end of the song.
type ChunkSpec struct {
	Renderer Renderer
	Start    float64
	Length   float64
	End      *float64
	Open     bool
}

// SectionTrack binds a chunk to the named track it will be stitched into.
type SectionTrack struct {
	Name   string
	Volume float64
	Chunk  ChunkSpec
}

// Section is one structural part of a song before stitching.
type Section struct {
	Name        string
	Length      float64
	Automations Automations
	Tracks      []SectionTrack
}

// Clone returns a deep copy. Renderers are immutable and shared.
func (s *Section) Clone() *Section {
	out := &Section{
		Name:        s.Name,
		Length:      s.Length,
		Automations: s.Automations.Clone(),
		Tracks:      make([]SectionTrack, len(s.Tracks)),
	}
	copy(out.Tracks, s.Tracks)
	for i := range out.Tracks {
		if e := out.Tracks[i].Chunk.End; e != nil {
			v := *e
			out.Tracks[i].Chunk.End = &v
		}
	}
	return out
}

// Has reports whether the section carries a chunk for the named track.
func (s *Section) Has(name string) bool {
	for _, t := range s.Tracks {
		if t.Name == name {
			return true
		}
	}
	return false
}
