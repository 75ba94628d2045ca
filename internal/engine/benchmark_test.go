package engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/cbegin/lofi-go/internal/generate"
	"github.com/cbegin/lofi-go/internal/samples"
	"github.com/cbegin/lofi-go/internal/song"
)

func BenchmarkProcess(b *testing.B) {
	const sampleRate = 44100
	opts := generate.Options{
		Samples: samples.DefaultKit(sampleRate),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	e, err := New(Options{
		SampleRate:  sampleRate,
		Synchronous: true,
		Generate: func(seed uint32, start float64) (*song.Song, error) {
			opts.StartTime = start
			return generate.Generate(seed, opts)
		},
	})
	if err != nil {
		b.Fatal(err)
	}
	if err := e.Regenerate(42); err != nil {
		b.Fatal(err)
	}
	buf := make([]float32, 512*Channels)
	// Skip the lead-in so the benchmark mixes real chunks.
	for e.Now() < e.Song().StartTime+10 {
		e.Process(buf)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Process(buf)
	}
}
