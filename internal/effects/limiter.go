package effects

import (
	"fmt"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/effects/dynamics"
)

// Limiter is a peak limiter built on a hard-knee 100:1 compressor with a fast
// attack. The compressor lets a little overshoot through while its follower
// rises, so the output is clamped to the threshold as well.
type Limiter struct {
	comp      *dynamics.Compressor
	threshold float64
}

// NewLimiter creates a limiter.
// thresholdDB: ceiling in dBFS (e.g. -1)
// attackMs: attack time in ms (0.1 to 1000)
// releaseMs: release time in ms (1 to 5000)
func NewLimiter(sampleRate, thresholdDB, attackMs, releaseMs float64) (*Limiter, error) {
	comp, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("limiter: %w", err)
	}
	steps := []error{
		comp.SetRatio(100),
		comp.SetKnee(0),
		comp.SetMakeupGain(0),
		comp.SetThreshold(thresholdDB),
		comp.SetAttack(attackMs),
		comp.SetRelease(releaseMs),
	}
	for _, err := range steps {
		if err != nil {
			return nil, fmt.Errorf("limiter: %w", err)
		}
	}
	return &Limiter{
		comp:      comp,
		threshold: dspcore.DBToLinear(thresholdDB),
	}, nil
}

// SetSampleRate recomputes the follower time constants. Invalid rates are
// rejected and leave the limiter unchanged.
func (l *Limiter) SetSampleRate(sampleRate float64) error {
	return l.comp.SetSampleRate(sampleRate)
}

func (l *Limiter) Process(x float64) float64 {
	return dspcore.Clamp(l.comp.ProcessSample(x), -l.threshold, l.threshold)
}

// Threshold returns the linear ceiling.
func (l *Limiter) Threshold() float64 {
	return l.threshold
}

func (l *Limiter) Reset() {
	l.comp.Reset()
}
