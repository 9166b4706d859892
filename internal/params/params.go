package params

import (
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cbegin/roog-go/internal/envelope"
	"github.com/cbegin/roog-go/internal/osc"
)

// Index addresses one automatable parameter.
type Index = int

const (
	Saw Index = iota
	Sine
	Square
	Triangle
	Attack
	Decay
	Sustain
	Release
	Count
)

var names = [Count]string{"Saw", "Sin", "Square", "Triangle", "Attack", "Decay", "Sustain", "Release"}

// Values is a plain copy of every parameter, indexed by Index.
type Values [Count]float64

// Defaults returns the initial patch: an even sine/square/triangle blend with an
// instant gate envelope.
func Defaults() Values {
	return Values{
		Saw:      0,
		Sine:     0.2,
		Square:   0.2,
		Triangle: 0.2,
		Attack:   0,
		Decay:    0,
		Sustain:  1,
		Release:  0,
	}
}

// Weights projects the four oscillator mix weights.
func (v *Values) Weights() osc.Weights {
	return osc.Weights{
		osc.Saw:      v[Saw],
		osc.Sine:     v[Sine],
		osc.Square:   v[Square],
		osc.Triangle: v[Triangle],
	}
}

// Envelope projects the ADSR settings. Values are passed through as stored.
func (v *Values) Envelope() envelope.Settings {
	return envelope.Settings{
		Attack:  v[Attack],
		Decay:   v[Decay],
		Sustain: v[Sustain],
		Release: v[Release],
	}
}

// Store holds the parameters as float64 bit patterns so the audio thread can
// read them without locking while a control thread writes.
type Store struct {
	slots [Count]atomic.Uint64
}

// New creates a store loaded with Defaults.
func New() *Store {
	s := &Store{}
	s.Load(Defaults())
	return s
}

// Get returns parameter i, or 0 when i is out of range.
func (s *Store) Get(i Index) float64 {
	if i < 0 || i >= Count {
		return 0
	}
	return math.Float64frombits(s.slots[i].Load())
}

// Set stores v in parameter i. Out-of-range indices are ignored. Values are
// not clamped.
func (s *Store) Set(i Index, v float64) {
	if i < 0 || i >= Count {
		return
	}
	s.slots[i].Store(math.Float64bits(v))
}

// Name returns the display label for parameter i, or "" when out of range.
func Name(i Index) string {
	if i < 0 || i >= Count {
		return ""
	}
	return names[i]
}

// Name returns the display label for parameter i.
func (s *Store) Name(i Index) string {
	return Name(i)
}

// Text formats the current value of parameter i with six decimals.
func (s *Store) Text(i Index) string {
	return strconv.FormatFloat(s.Get(i), 'f', 6, 64)
}

// Snapshot copies every slot into dst. Each slot is read atomically; the set
// as a whole is not a consistent cut.
func (s *Store) Snapshot(dst *Values) {
	for i := range s.slots {
		dst[i] = math.Float64frombits(s.slots[i].Load())
	}
}

// Load stores every value in v.
func (s *Store) Load(v Values) {
	for i := range s.slots {
		s.slots[i].Store(math.Float64bits(v[i]))
	}
}

// Lookup resolves a display label or waveform alias to its index, ignoring case.
func Lookup(name string) (Index, bool) {
	name = strings.TrimSpace(name)
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	if strings.EqualFold(name, "sine") {
		return Sine, true
	}
	return 0, false
}
