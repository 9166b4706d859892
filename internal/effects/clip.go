package effects

import (
	"fmt"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	dspfx "github.com/cwbudde/algo-dsp/dsp/effects"
)

// Clipper hard-limits the signal to [-ceiling, ceiling].
type Clipper struct {
	ceiling float64
}

// NewClipper creates a hard clipper. A non-positive ceiling defaults to 1.
func NewClipper(ceiling float64) *Clipper {
	if !(ceiling > 0) {
		ceiling = 1
	}
	return &Clipper{ceiling: ceiling}
}

func (c *Clipper) Process(x float64) float64 {
	return dspcore.Clamp(x, -c.ceiling, c.ceiling)
}

func (c *Clipper) Reset() {}

// SoftClipper is a fully wet tanh waveshaper with an asymptote of ±1.
type SoftClipper struct {
	shaper *dspfx.Distortion
}

// NewSoftClipper creates a tanh shaper. drive is the input gain before shaping
// (0.01 to 20); higher drive gives a harder knee.
func NewSoftClipper(sampleRate, drive float64) (*SoftClipper, error) {
	d, err := dspfx.NewDistortion(sampleRate,
		dspfx.WithDistortionMode(dspfx.DistortionModeTanh),
		dspfx.WithDistortionDrive(drive),
		dspfx.WithDistortionMix(1),
	)
	if err != nil {
		return nil, fmt.Errorf("soft clipper: %w", err)
	}
	return &SoftClipper{shaper: d}, nil
}

// SetSampleRate forwards the rate to the shaper.
func (s *SoftClipper) SetSampleRate(sampleRate float64) error {
	return s.shaper.SetSampleRate(sampleRate)
}

func (s *SoftClipper) Process(x float64) float64 {
	return s.shaper.ProcessSample(x)
}

func (s *SoftClipper) Reset() {
	s.shaper.Reset()
}
