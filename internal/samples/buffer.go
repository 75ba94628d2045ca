// Package samples decodes percussion samples into in-memory buffers.
package samples

// Buffer is decoded audio, one slice per channel.
type Buffer struct {
	Channels   [][]float32
	SampleRate int
}

// Silence is a one-frame mono buffer used in place of a missing sample.
var Silence = &Buffer{Channels: [][]float32{{0}}, SampleRate: 44100}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Len returns the number of frames.
func (b *Buffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// At returns frame i of channel ch. Channels wrap, so a mono buffer feeds both
// sides of a stereo stream; frames outside the buffer read as 0.
func (b *Buffer) At(ch, i int) float32 {
	n := len(b.Channels)
	if n == 0 || i < 0 {
		return 0
	}
	c := b.Channels[ch%n]
	if i >= len(c) {
		return 0
	}
	return c[i]
}

// Duration is the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Len()) / float64(b.SampleRate)
}
