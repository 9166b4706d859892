package roog

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"gitlab.com/gomidi/midi/v2"

	"github.com/cbegin/roog-go/internal/effects"
	"github.com/cbegin/roog-go/internal/events"
)

// LimitMode selects the optional output stage applied by Host. The engine
// itself never limits.
type LimitMode string

const (
	LimitNone LimitMode = "none"
	// LimitClip hard-clips to ±1.
	LimitClip LimitMode = "clip"
	// LimitSoft shapes the output with tanh towards ±1.
	LimitSoft LimitMode = "soft"
	// LimitPeak runs a fast peak limiter with a -1 dBFS ceiling.
	LimitPeak LimitMode = "limiter"
)

func ParseLimitMode(name string) (LimitMode, error) {
	switch m := LimitMode(strings.ToLower(strings.TrimSpace(name))); m {
	case LimitNone, LimitClip, LimitSoft, LimitPeak:
		return m, nil
	case "":
		return LimitNone, nil
	default:
		return "", fmt.Errorf("invalid limit mode %q (expected none|clip|soft|limiter)", name)
	}
}

const (
	defaultQueueSize = 256
	peakCeilingDB    = -1.0
	peakAttackMs     = 0.1
	peakReleaseMs    = 50.0
	maxDataByte      = 0x7f
)

// HostOption configures a Host.
type HostOption func(*hostConfig)

type hostConfig struct {
	limit     LimitMode
	queueSize int
}

func WithOutputLimit(mode LimitMode) HostOption {
	return func(cfg *hostConfig) {
		cfg.limit = mode
	}
}

// WithQueueSize sets how many MIDI messages may wait between two Process calls.
func WithQueueSize(n int) HostOption {
	return func(cfg *hostConfig) {
		if n > 0 {
			cfg.queueSize = n
		}
	}
}

// Host drives an Engine from an audio callback. Notes and parameters may be
// posted from any goroutine; Process runs on the audio thread, drains pending
// MIDI first and then renders the block. Process never locks or allocates.
type Host struct {
	engine  *Engine
	queue   *events.Queue
	pushMu  sync.Mutex // serializes producers; never taken by Process
	output  *effects.Chain
	scratch events.Message
	dropped atomic.Uint64
	frames  atomic.Uint64
}

// NewHost wraps engine. It fails only when the output stage cannot be built
// at the engine's sample rate.
func NewHost(engine *Engine, opts ...HostOption) (*Host, error) {
	cfg := hostConfig{limit: LimitNone, queueSize: defaultQueueSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	output, err := newOutputStage(cfg.limit, engine.SampleRate())
	if err != nil {
		return nil, err
	}
	return &Host{
		engine: engine,
		queue:  events.NewQueue(cfg.queueSize),
		output: output,
	}, nil
}

func newOutputStage(mode LimitMode, sampleRate float64) (*effects.Chain, error) {
	chain := effects.NewChain()
	switch mode {
	case LimitNone, "":
	case LimitClip:
		chain.Add(effects.NewClipper(1))
	case LimitSoft:
		sc, err := effects.NewSoftClipper(sampleRate, 1)
		if err != nil {
			return nil, fmt.Errorf("output stage %s: %w", mode, err)
		}
		chain.Add(sc)
	case LimitPeak:
		l, err := effects.NewLimiter(sampleRate, peakCeilingDB, peakAttackMs, peakReleaseMs)
		if err != nil {
			return nil, fmt.Errorf("output stage %s: %w", mode, err)
		}
		chain.Add(l)
	default:
		return nil, fmt.Errorf("invalid limit mode %q", mode)
	}
	return chain, nil
}

func (h *Host) Engine() *Engine { return h.engine }

// PostMIDI queues a raw MIDI message for the next Process call. Only the first
// three bytes are kept. It returns false when the message is too short or the
// queue is full; a full queue drops the message.
func (h *Host) PostMIDI(data []byte) bool {
	if len(data) < 3 {
		return false
	}
	var msg events.Message
	copy(msg[:], data)
	h.pushMu.Lock()
	ok := h.queue.Push(msg)
	h.pushMu.Unlock()
	if !ok {
		h.dropped.Add(1)
	}
	return ok
}

// NoteOn queues a channel 1 note-on. Notes or velocities above 127 are
// rejected.
func (h *Host) NoteOn(note, velocity uint8) bool {
	if note > maxDataByte || velocity > maxDataByte {
		return false
	}
	return h.PostMIDI(midi.NoteOn(0, note, velocity))
}

// NoteOff queues a channel 1 note-off. Notes above 127 are rejected.
func (h *Host) NoteOff(note uint8) bool {
	if note > maxDataByte {
		return false
	}
	return h.PostMIDI(midi.NoteOff(0, note))
}

// SetParameter writes a parameter; the next rendered sample sees it.
func (h *Host) SetParameter(index int, value float64) {
	h.engine.SetParameter(index, value)
}

// SetSampleRate changes the engine rate and retunes the output stage. Call it
// between Process calls only. Invalid rates leave both unchanged.
func (h *Host) SetSampleRate(hz float64) error {
	if !(hz > 0) || math.IsInf(hz, 0) {
		return fmt.Errorf("invalid sample rate %v", hz)
	}
	if err := h.output.SetSampleRate(hz); err != nil {
		return err
	}
	h.engine.SetSampleRate(hz)
	return nil
}

// Dropped returns how many MIDI messages were lost to a full queue.
func (h *Host) Dropped() uint64 { return h.dropped.Load() }

// Frames returns how many frames Process has rendered.
func (h *Host) Frames() uint64 { return h.frames.Load() }

// Pending returns the number of queued MIDI messages.
func (h *Host) Pending() int { return h.queue.Len() }

// Drain applies every queued MIDI message to the engine.
func (h *Host) Drain() {
	for {
		msg, ok := h.queue.Pop()
		if !ok {
			return
		}
		h.scratch = msg
		h.engine.ProcessMIDI(h.scratch[:])
	}
}

// Process fills dst with interleaved stereo frames, the same sample on both
// channels. A trailing odd element is not a frame and is set to silence.
func (h *Host) Process(dst []float32) {
	h.Drain()
	limited := h.output.Len() > 0
	frames := len(dst) / 2
	for i := 0; i < frames; i++ {
		s := h.engine.RenderSample()
		if limited {
			s = h.output.Process(s)
		}
		v := float32(s)
		dst[2*i] = v
		dst[2*i+1] = v
	}
	if len(dst)%2 == 1 {
		dst[len(dst)-1] = 0
	}
	h.frames.Add(uint64(frames))
}
