package samples

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
)

var (
	ErrUnsupportedFormat = errors.New("samples: unsupported format")
	ErrInvalidWAV        = errors.New("samples: invalid wav file")
)

// Load decodes a .wav or .mp3 file. MP3 is resampled to sampleRate; WAV keeps
// its own rate.
func Load(path string, sampleRate int) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("samples: open %s: %w", path, err)
	}
	defer f.Close()

	var b *Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		b, err = DecodeWAV(f)
	case ".mp3":
		b, err = DecodeMP3(f, sampleRate)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("samples: decode %s: %w", path, err)
	}
	return b, nil
}

// DecodeWAV reads integer PCM WAV data and normalizes it to [-1, 1].
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: audio format %d is not integer PCM", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	return fromIntBuffer(pcm, int(dec.BitDepth))
}

func fromIntBuffer(pcm *audio.IntBuffer, bitDepth int) (*Buffer, error) {
	if pcm.Format == nil || pcm.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: no channel layout", ErrInvalidWAV)
	}
	if bitDepth <= 0 {
		bitDepth = pcm.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: bit depth %d", ErrInvalidWAV, bitDepth)
	}
	nch := pcm.Format.NumChannels
	frames := len(pcm.Data) / nch
	scale := float32(int64(1) << (bitDepth - 1))
	b := &Buffer{Channels: make([][]float32, nch), SampleRate: pcm.Format.SampleRate}
	for c := range b.Channels {
		b.Channels[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < nch; c++ {
			b.Channels[c][i] = float32(pcm.Data[i*nch+c]) / scale
		}
	}
	return b, nil
}

// DecodeMP3 decodes MP3 data to a stereo buffer at sampleRate.
func DecodeMP3(r io.Reader, sampleRate int) (*Buffer, error) {
	s, err := mp3.DecodeWithSampleRate(sampleRate, r)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(s)
	if err != nil {
		return nil, err
	}
	return fromS16Stereo(raw, sampleRate), nil
}

func fromS16Stereo(raw []byte, sampleRate int) *Buffer {
	frames := len(raw) / 4
	b := &Buffer{Channels: [][]float32{make([]float32, frames), make([]float32, frames)}, SampleRate: sampleRate}
	for i := 0; i < frames; i++ {
		l := int16(uint16(raw[i*4]) | uint16(raw[i*4+1])<<8)
		r := int16(uint16(raw[i*4+2]) | uint16(raw[i*4+3])<<8)
		b.Channels[0][i] = float32(l) / 32768
		b.Channels[1][i] = float32(r) / 32768
	}
	return b
}

// EncodeWAV writes b as 16-bit PCM. It is mainly used to build fixtures.
func EncodeWAV(w io.WriteSeeker, b *Buffer) error {
	nch := b.NumChannels()
	if nch == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}
	frames := b.Len()
	data := make([]int, frames*nch)
	for i := 0; i < frames; i++ {
		for c := 0; c < nch; c++ {
			data[i*nch+c] = toInt16(b.At(c, i))
		}
	}
	enc := wav.NewEncoder(w, b.SampleRate, 16, nch, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nch, SampleRate: b.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func toInt16(v float32) int {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int(v * 32767)
}

// Read decodes WAV bytes held in memory.
func Read(data []byte) (*Buffer, error) {
	return DecodeWAV(bytes.NewReader(data))
}
