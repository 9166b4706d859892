package osc

import "math"

const twoPi = math.Pi * 2

// Waveform identifies one of the four oscillator shapes. The order matches the
// mix-weight parameter indices.
type Waveform uint8

const (
	Saw Waveform = iota
	Sine
	Square
	Triangle
)

// Count is the number of waveforms in the bank.
const Count = 4

// Weights holds one mix weight per waveform, indexed by Waveform.
type Weights [Count]float64

func (w Waveform) String() string {
	switch w {
	case Saw:
		return "saw"
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Sample evaluates the waveform at phase, which must be in [0, 1).
// Unknown waveforms are silent.
func (w Waveform) Sample(phase float64) float64 {
	switch w {
	case Saw:
		return SawAt(phase)
	case Sine:
		return SineAt(phase)
	case Square:
		return SquareAt(phase)
	case Triangle:
		return TriangleAt(phase)
	default:
		return 0
	}
}

// SineAt starts at 0 and rises.
func SineAt(phase float64) float64 {
	return math.Sin(twoPi * phase)
}

// SawAt ramps from -1 up to 1 over one cycle.
func SawAt(phase float64) float64 {
	return 2*phase - 1
}

// SquareAt is high for the first half cycle.
func SquareAt(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// TriangleAt starts at 1, falls to -1 at half cycle and climbs back.
func TriangleAt(phase float64) float64 {
	return 2*math.Abs(2*phase-1) - 1
}

// Phase wraps freq*t into one cycle.
func Phase(freq, t float64) float64 {
	p := freq * t
	p -= math.Floor(p)
	if p >= 1 {
		p = 0
	}
	return p
}

// At evaluates waveform w for a tone of freq Hz at time t seconds.
func At(w Waveform, freq, t float64) float64 {
	return w.Sample(Phase(freq, t))
}

// Advance moves a phase accumulator forward by freq*dt and wraps it to [0, 1).
func Advance(phase, freq, dt float64) float64 {
	phase += freq * dt
	if phase >= 1 || phase < 0 {
		phase -= math.Floor(phase)
		if phase >= 1 {
			phase = 0
		}
	}
	return phase
}

// Mix sums every waveform at phase scaled by its weight. Zero weights are
// skipped, so an all-zero mix is exactly 0. The result is not normalized.
func Mix(w *Weights, phase float64) float64 {
	var out float64
	for i, weight := range w {
		if weight == 0 {
			continue
		}
		out += weight * Waveform(i).Sample(phase)
	}
	return out
}
