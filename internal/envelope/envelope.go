package envelope

import (
	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

type Stage uint8

const (
	Idle Stage = iota
	Attack
	Decay
	Sustain
	Release
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Attack:
		return "attack"
	case Decay:
		return "decay"
	case Sustain:
		return "sustain"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Settings are the ADSR controls. Attack, Decay and Release are durations in
// seconds; Sustain is a level.
type Settings struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Normalize clamps durations to be non-negative and the sustain level to [0, 1].
func (s Settings) Normalize() Settings {
	if !(s.Attack > 0) {
		s.Attack = 0
	}
	if !(s.Decay > 0) {
		s.Decay = 0
	}
	if !(s.Release > 0) {
		s.Release = 0
	}
	if s.Sustain != s.Sustain {
		s.Sustain = 0
	}
	s.Sustain = dspcore.Clamp(s.Sustain, 0, 1)
	return s
}

// Envelope is a linear ADSR state machine. The zero value is Idle.
type Envelope struct {
	stage   Stage
	elapsed float64 // seconds spent in the current stage
	level   float64 // last emitted amplitude
	from    float64 // level the current attack or release ramp started at
}

func (e *Envelope) Stage() Stage { return e.stage }
func (e *Envelope) Level() float64 { return e.level }
func (e *Envelope) Elapsed() float64 { return e.elapsed }
func (e *Envelope) Active() bool { return e.stage != Idle }

// Trigger restarts the attack ramp from the current level.
func (e *Envelope) Trigger() {
	e.from = e.level
	e.stage = Attack
	e.elapsed = 0
}

// Release starts the release ramp from the current level. It has no effect when
// the envelope is idle or already releasing.
func (e *Envelope) Release() {
	switch e.stage {
	case Attack, Decay, Sustain:
		e.from = e.level
		e.stage = Release
		e.elapsed = 0
	}
}

// Reset silences the envelope immediately.
func (e *Envelope) Reset() {
	*e = Envelope{}
}

// Next returns the amplitude for the current sample and then advances the
// envelope by dt seconds. A stage with zero duration emits its end value once
// and hands over on the following sample.
func (e *Envelope) Next(s Settings, dt float64) float64 {
	var level float64
	switch e.stage {
	case Idle:
		e.level = 0
		return 0
	case Attack:
		level = e.from + (1-e.from)*progress(e.elapsed, s.Attack)
	case Decay:
		level = 1 - (1-s.Sustain)*progress(e.elapsed, s.Decay)
	case Sustain:
		level = s.Sustain
	case Release:
		level = dspcore.FlushDenormals(e.from * (1 - progress(e.elapsed, s.Release)))
	}
	e.level = level
	e.elapsed += dt
	e.settle(s)
	return level
}

// settle moves through every stage boundary the elapsed time has crossed.
func (e *Envelope) settle(s Settings) {
	for {
		switch e.stage {
		case Attack:
			if e.elapsed < s.Attack {
				return
			}
			e.elapsed -= s.Attack
			e.stage = Decay
		case Decay:
			if e.elapsed < s.Decay {
				return
			}
			e.elapsed = 0
			e.stage = Sustain
		case Release:
			if e.elapsed < s.Release {
				return
			}
			e.elapsed = 0
			e.level = 0
			e.stage = Idle
		default:
			return
		}
	}
}

// progress is elapsed/duration clamped to [0, 1]; a zero duration is complete.
func progress(elapsed, duration float64) float64 {
	if duration <= 0 || elapsed >= duration {
		return 1
	}
	return elapsed / duration
}
