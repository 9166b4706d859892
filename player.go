package roog

import (
	"errors"
	"sync"
	"time"

	intaudio "github.com/cbegin/roog-go/internal/audio"
)

// SampleSource fills interleaved stereo float32 frames; Host and Detune
// implement it.
type SampleSource = intaudio.SampleSource

// BoundedSource is a SampleSource that ends; playback stops once Done reports
// true.
type BoundedSource = intaudio.BoundedSource

var _ BoundedSource = (*Detune)(nil)

// Player streams a SampleSource to the default audio device.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	source     SampleSource
	audio      *intaudio.Player
}

// NewPlayer prepares playback of source at sampleRate. The device is opened by
// Play.
func NewPlayer(sampleRate int, source SampleSource) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if source == nil {
		return nil, errors.New("source must not be nil")
	}
	return &Player{sampleRate: sampleRate, source: source}, nil
}

func (p *Player) SampleRate() int { return p.sampleRate }

// Play opens the device on first use and starts streaming. A device failure is
// returned as is; there is no retry.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		backend, err := intaudio.NewPlayer(p.sampleRate, p.source)
		if err != nil {
			return err
		}
		p.audio = backend
	}
	p.audio.Play()
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio != nil && p.audio.IsPlaying()
}

// Position returns how much audio the listener has heard. Zero before Play.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	a := p.audio
	p.mu.Unlock()
	if a == nil {
		return 0
	}
	return a.Position()
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	return err
}
