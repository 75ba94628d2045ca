package generate

import "github.com/cbegin/lofi-go/internal/song"

// Stitch lays s.Structure end to end: section automation is shifted onto the
// song's bar line, chunks are appended to tracks created on first use, and
// every chunk gets its times in seconds from the song start. A chunk with no
// length covers its section; Open chunks run to the end of the song.
func Stitch(s *song.Song) {
	type pending struct {
		chunk *song.Chunk
		end   float64
		open  bool
	}
	var (
		position float64
		byName   = make(map[string]*song.Track)
		chunks   []pending
	)
	s.Tracks = nil
	s.Automations = make(song.Automations)

	for _, name := range s.Structure {
		sec := s.Sections[name]
		for param, bps := range sec.Automations {
			for _, bp := range bps {
				s.Automations[param] = append(s.Automations[param], song.Breakpoint{Bar: position + bp.Bar, Value: bp.Value})
			}
		}
		for _, st := range sec.Tracks {
			tr, ok := byName[st.Name]
			if !ok {
				tr = &song.Track{Name: st.Name, Volume: st.Volume}
				byName[st.Name] = tr
				s.Tracks = append(s.Tracks, tr)
			}
			spec := st.Chunk
			c := &song.Chunk{Renderer: spec.Renderer, Start: position + spec.Start, Track: tr}
			p := pending{chunk: c, open: spec.Open}
			switch {
			case spec.End != nil:
				p.end = position + *spec.End
			case spec.Length > 0:
				p.end = c.Start + spec.Length
			default:
				p.end = c.Start + sec.Length
			}
			tr.Chunks = append(tr.Chunks, c)
			chunks = append(chunks, p)
		}
		position += sec.Length
	}
	s.Length = position

	bar := s.BarDuration()
	for _, p := range chunks {
		p.chunk.StartTime = p.chunk.Start * bar
		if p.open {
			p.chunk.EndTime = s.Length * bar
		} else {
			p.chunk.EndTime = p.end * bar
		}
	}
}
