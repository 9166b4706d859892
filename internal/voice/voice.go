package voice

import (
	"math/bits"

	"github.com/cbegin/roog-go/internal/envelope"
	"github.com/cbegin/roog-go/internal/osc"
	"github.com/cbegin/roog-go/internal/pitch"
)

// Registry tracks which notes are sounding and renders their sum. All methods
// are called from the audio thread and never allocate.
type Registry interface {
	NoteOn(note int)
	NoteOff(note int)
	// Render produces one sample from every sounding voice and advances them
	// by dt seconds.
	Render(w *osc.Weights, s envelope.Settings, dt float64) float64
	// Sounding returns the number of voices not yet idle, release tails included.
	Sounding() int
	Reset()
}

// Voice is one sounding note: a phase accumulator and an envelope.
type Voice struct {
	held  bool
	freq  float64
	phase float64
	env   envelope.Envelope
}

func (v *Voice) Held() bool { return v.held }
func (v *Voice) Frequency() float64 { return v.freq }
func (v *Voice) Phase() float64 { return v.phase }
func (v *Voice) Stage() envelope.Stage { return v.env.Stage() }
func (v *Voice) Envelope() *envelope.Envelope { return &v.env }

// Sounding reports whether the envelope is anywhere but idle.
func (v *Voice) Sounding() bool { return v.env.Active() }

func (v *Voice) start(freq float64) {
	v.held = true
	v.freq = freq
	v.phase = 0
	v.env.Trigger()
}

func (v *Voice) stop() {
	v.held = false
	v.env.Release()
}

// Render returns envelope*mix for the current sample and then advances the
// phase and the envelope by dt.
func (v *Voice) Render(w *osc.Weights, s envelope.Settings, dt float64) float64 {
	amp := v.env.Next(s, dt)
	var out float64
	if amp != 0 {
		out = amp * osc.Mix(w, v.phase)
	}
	v.phase = osc.Advance(v.phase, v.freq, dt)
	return out
}

// Poly keeps one voice per MIDI note so every held note sounds independently.
type Poly struct {
	voices   [pitch.NoteCount]Voice
	sounding [2]uint64 // bit n set while voices[n] is not idle
}

func NewPoly() *Poly {
	return &Poly{}
}

// NoteOn restarts the voice for note from phase zero and enters Attack.
// Notes outside [0,127] are ignored.
func (p *Poly) NoteOn(note int) {
	if !pitch.Valid(note) {
		return
	}
	p.voices[note].start(pitch.Frequency(note))
	p.sounding[note>>6] |= 1 << uint(note&63)
}

// NoteOff moves the voice for note into Release.
func (p *Poly) NoteOff(note int) {
	if !pitch.Valid(note) {
		return
	}
	p.voices[note].stop()
}

func (p *Poly) Render(w *osc.Weights, s envelope.Settings, dt float64) float64 {
	var sum float64
	for word := range p.sounding {
		mask := p.sounding[word]
		for mask != 0 {
			bit := bits.TrailingZeros64(mask)
			mask &^= 1 << uint(bit)
			v := &p.voices[word<<6|bit]
			sum += v.Render(w, s, dt)
			if !v.Sounding() {
				p.sounding[word] &^= 1 << uint(bit)
			}
		}
	}
	return sum
}

func (p *Poly) Sounding() int {
	return bits.OnesCount64(p.sounding[0]) + bits.OnesCount64(p.sounding[1])
}

// Held returns the number of notes whose key is down.
func (p *Poly) Held() int {
	n := 0
	for i := range p.voices {
		if p.voices[i].held {
			n++
		}
	}
	return n
}

// Voice returns the slot for note, or nil when note is out of range.
func (p *Poly) Voice(note int) *Voice {
	if !pitch.Valid(note) {
		return nil
	}
	return &p.voices[note]
}

func (p *Poly) Reset() {
	for i := range p.voices {
		p.voices[i] = Voice{}
	}
	p.sounding = [2]uint64{}
}

// Mono is a single voice with last-note priority. A new note takes over the
// voice outright; earlier held notes are forgotten and do not return when the
// newer note is released.
type Mono struct {
	voice Voice
	note  int
}

func NewMono() *Mono {
	return &Mono{note: -1}
}

func (m *Mono) NoteOn(note int) {
	if !pitch.Valid(note) {
		return
	}
	m.note = note
	m.voice.start(pitch.Frequency(note))
}

// NoteOff releases the voice only when note is the one currently assigned.
func (m *Mono) NoteOff(note int) {
	if note != m.note || !m.voice.held {
		return
	}
	m.voice.stop()
}

func (m *Mono) Render(w *osc.Weights, s envelope.Settings, dt float64) float64 {
	if !m.voice.Sounding() {
		return 0
	}
	return m.voice.Render(w, s, dt)
}

func (m *Mono) Sounding() int {
	if m.voice.Sounding() {
		return 1
	}
	return 0
}

// Note returns the note last assigned to the voice, or -1 before any note-on.
func (m *Mono) Note() int { return m.note }

func (m *Mono) Voice() *Voice { return &m.voice }

func (m *Mono) Reset() {
	m.voice = Voice{}
	m.note = -1
}
