package roog

import "github.com/cbegin/roog-go/internal/osc"

const (
	detuneCenter = 440.0
	detuneOffset = 2.0
)

// Detune is the standalone smoke-test voice: two sawtooths at 440±2 Hz summed,
// with no MIDI input. Its clock wraps every second, so the beat pattern
// repeats exactly.
type Detune struct {
	sampleRate float64
	clock      float64 // samples into the current second
	limit      int64   // frames to play; 0 plays forever
	played     int64
}

func NewDetune(sampleRate int) *Detune {
	if sampleRate <= 0 {
		sampleRate = int(DefaultSampleRate)
	}
	return &Detune{sampleRate: float64(sampleRate)}
}

// Next advances the clock and returns the next sample, nominally in [-2, 2].
func (d *Detune) Next() float64 {
	d.clock++
	if d.clock >= d.sampleRate {
		d.clock -= d.sampleRate
	}
	t := d.clock / d.sampleRate
	return osc.At(osc.Saw, detuneCenter+detuneOffset, t) + osc.At(osc.Saw, detuneCenter-detuneOffset, t)
}

// StopAfter bounds playback to frames frames counted from the start. Frames
// past the bound are silent and Done reports true. Zero or less removes the
// bound.
func (d *Detune) StopAfter(frames int) {
	d.limit = max(int64(frames), 0)
}

// Done reports whether a bounded Detune has played all its frames.
func (d *Detune) Done() bool {
	return d.limit > 0 && d.played >= d.limit
}

// Process fills dst with interleaved stereo frames. A trailing odd element is
// not a frame and is set to silence.
func (d *Detune) Process(dst []float32) {
	for i := 0; i+1 < len(dst); i += 2 {
		var v float32
		if !d.Done() {
			v = float32(d.Next())
			d.played++
		}
		dst[i] = v
		dst[i+1] = v
	}
	if len(dst)%2 == 1 {
		dst[len(dst)-1] = 0
	}
}
