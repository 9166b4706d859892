// Package roog is a polyphonic subtractive-style synthesizer voice engine:
// MIDI note events and eight automatable parameters in, mono samples out.
//
// An Engine is single-threaded: note events, SetSampleRate and RenderSample
// all belong to the audio thread. The parameter store returned by Parameters
// may be written from any goroutine. Host wraps an Engine with a lock-free
// MIDI queue for callers that deliver notes from another goroutine.
package roog

import (
	"github.com/cbegin/roog-go/internal/envelope"
	"github.com/cbegin/roog-go/internal/osc"
	"github.com/cbegin/roog-go/internal/params"
	"github.com/cbegin/roog-go/internal/voice"
)

// DefaultSampleRate is used until the host negotiates a rate.
const DefaultSampleRate = 44100.0

// Parameter indices, in host automation order.
const (
	ParamSaw      = params.Saw
	ParamSine     = params.Sine
	ParamSquare   = params.Square
	ParamTriangle = params.Triangle
	ParamAttack   = params.Attack
	ParamDecay    = params.Decay
	ParamSustain  = params.Sustain
	ParamRelease  = params.Release
	NumParams     = params.Count
)

// Stage is a voice envelope stage.
type Stage = envelope.Stage

const (
	StageIdle    = envelope.Idle
	StageAttack  = envelope.Attack
	StageDecay   = envelope.Decay
	StageSustain = envelope.Sustain
	StageRelease = envelope.Release
)

// Engine renders the sum of all sounding voices one sample at a time.
type Engine struct {
	params     *params.Store
	voices     voice.Registry
	mode       VoiceMode
	omni       bool
	sampleRate float64
	step       float64 // seconds per sample
	clock      float64 // seconds rendered so far
	snapshot   params.Values
	weights    osc.Weights
}

// New creates an engine. Without options it is polyphonic at 44.1 kHz with the
// default patch.
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &Engine{
		params: params.New(),
		mode:   cfg.mode,
		omni:   cfg.omni,
	}
	for _, o := range cfg.overrides {
		e.params.Set(o.index, o.value)
	}
	switch cfg.mode {
	case VoiceModeMono:
		e.voices = voice.NewMono()
	default:
		e.mode = VoiceModePoly
		e.voices = voice.NewPoly()
	}
	e.SetSampleRate(cfg.sampleRate)
	return e
}

// SetSampleRate changes the per-sample time step. The next RenderSample uses
// the new step. Non-positive rates are ignored. Must not run concurrently with
// RenderSample.
func (e *Engine) SetSampleRate(hz float64) {
	if !(hz > 0) {
		return
	}
	e.sampleRate = hz
	e.step = 1 / hz
}

func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Time returns the sample clock in seconds.
func (e *Engine) Time() float64 { return e.clock }

func (e *Engine) Mode() VoiceMode { return e.mode }

// NoteOn starts note. Notes outside [0,127] are ignored.
func (e *Engine) NoteOn(note int) {
	e.voices.NoteOn(note)
}

// NoteOff releases note. The voice keeps sounding through its release stage.
// Notes outside [0,127] are ignored.
func (e *Engine) NoteOff(note int) {
	e.voices.NoteOff(note)
}

// SetParameter writes parameter index. Out-of-range indices are ignored.
// Safe to call from any goroutine.
func (e *Engine) SetParameter(index int, value float64) {
	e.params.Set(index, value)
}

// GetParameter reads parameter index, or 0 when out of range.
func (e *Engine) GetParameter(index int) float64 {
	return e.params.Get(index)
}

// ParameterName returns the display label for index, or "".
func (e *Engine) ParameterName(index int) string {
	return e.params.Name(index)
}

// ParameterText returns the value of index formatted with six decimals.
func (e *Engine) ParameterText(index int) string {
	return e.params.Text(index)
}

// Parameters returns the store shared with the control path.
func (e *Engine) Parameters() *params.Store {
	return e.params
}

// ActiveVoices returns how many voices are sounding, release tails included.
func (e *Engine) ActiveVoices() int {
	return e.voices.Sounding()
}

// RenderSample produces the next output sample: every sounding voice's
// envelope times its oscillator mix, summed. The result is not limited.
// Parameters are re-read on every call.
func (e *Engine) RenderSample() float64 {
	e.params.Snapshot(&e.snapshot)
	e.weights = e.snapshot.Weights()
	adsr := e.snapshot.Envelope().Normalize()
	out := e.voices.Render(&e.weights, adsr, e.step)
	e.clock += e.step
	return out
}

// Reset silences every voice and rewinds the sample clock. Parameters are kept.
func (e *Engine) Reset() {
	e.voices.Reset()
	e.clock = 0
}

// Waveforms lists the oscillator shapes in mix-weight order.
func Waveforms() []string {
	names := make([]string, osc.Count)
	for i := range names {
		names[i] = osc.Waveform(i).String()
	}
	return names
}

// EnvelopeStage reports the envelope stage for note: the note's own slot in
// poly mode, the shared voice in mono mode.
func (e *Engine) EnvelopeStage(note int) Stage {
	switch r := e.voices.(type) {
	case *voice.Poly:
		if v := r.Voice(note); v != nil {
			return v.Stage()
		}
	case *voice.Mono:
		if r.Note() == note {
			return r.Voice().Stage()
		}
	}
	return StageIdle
}
