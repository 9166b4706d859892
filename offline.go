package roog

import (
	"github.com/go-audio/audio"

	intaudio "github.com/cbegin/roog-go/internal/audio"
)

// RenderSamples renders n mono samples from e.
func RenderSamples(e *Engine, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = e.RenderSample()
	}
	return out
}

// Render pulls frames stereo frames from source into a go-audio buffer. The
// sample rate is only recorded in the buffer format.
func Render(source SampleSource, sampleRate, frames int) *audio.Float32Buffer {
	if frames < 0 {
		frames = 0
	}
	data := make([]float32, frames*intaudio.Channels)
	source.Process(data)
	return &audio.Float32Buffer{
		Format: &audio.Format{
			NumChannels: intaudio.Channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 32,
	}
}

// Peak returns the largest absolute sample in buf.
func Peak(buf *audio.Float32Buffer) float32 {
	var peak float32
	for _, s := range buf.Data {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}
