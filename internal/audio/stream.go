package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Channels is the number of interleaved output channels a source fills.
const Channels = 2

// SampleSource fills dst with interleaved stereo float32 frames. It is called
// on the audio thread.
type SampleSource interface {
	Process(dst []float32)
}

// BoundedSource is a SampleSource with a fixed length. Once Done reports true
// the stream ends with io.EOF after the block that reached the end.
type BoundedSource interface {
	SampleSource
	Done() bool
}

// StreamReader adapts a SampleSource to the little-endian float32 byte stream
// ebiten consumes. Read must be called from a single goroutine; the scratch
// buffer only grows, so steady-state reads do not allocate.
type StreamReader struct {
	source SampleSource
	buf    []float32
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

// Read renders as many whole frames as fit in p. A partial trailing frame is
// left unwritten.
func (r *StreamReader) Read(p []byte) (int, error) {
	need := len(p) / frameBytes * Channels
	if need == 0 {
		return 0, nil
	}
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	n := encodeFloat32LE(p, r.buf)
	if bs, ok := r.source.(BoundedSource); ok && bs.Done() {
		return n, io.EOF
	}
	return n, nil
}

const frameBytes = 4 * Channels

// encodeFloat32LE writes samples into p and returns the byte count.
func encodeFloat32LE(p []byte, samples []float32) int {
	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(s))
	}
	return 4 * len(samples)
}

func (r *StreamReader) Close() error { return nil }

// Player streams a SampleSource to the default output device.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// ebiten allows one audio context per process, fixed at its first sample rate.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer opens the output device at sampleRate and attaches source. The
// stream does not start until Play.
func NewPlayer(sampleRate int, source SampleSource) (*Player, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, fmt.Errorf("open audio player: %w", err)
	}
	// Keep latency near one host buffer.
	pl.SetBufferSize(20 * time.Millisecond)
	return &Player{
		player: pl,
		reader: reader,
	}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Position returns the current playback position (what the listener actually hears).
func (p *Player) Position() time.Duration {
	return p.player.Position()
}

func (p *Player) Stop() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}
