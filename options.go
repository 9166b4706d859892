package roog

import (
	"fmt"
	"strings"

	"github.com/cbegin/roog-go/internal/params"
)

// VoiceMode selects the note registry.
type VoiceMode string

const (
	// VoiceModePoly gives every MIDI note its own voice.
	VoiceModePoly VoiceMode = "poly"
	// VoiceModeMono shares one voice with last-note priority: a new note
	// replaces the sounding one and held notes are not remembered.
	VoiceModeMono VoiceMode = "mono"
)

// ParseVoiceMode accepts "poly" or "mono", ignoring case and surrounding space.
func ParseVoiceMode(name string) (VoiceMode, error) {
	switch VoiceMode(strings.ToLower(strings.TrimSpace(name))) {
	case VoiceModePoly:
		return VoiceModePoly, nil
	case VoiceModeMono:
		return VoiceModeMono, nil
	default:
		return "", fmt.Errorf("invalid voice mode %q (expected poly|mono)", name)
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	mode       VoiceMode
	sampleRate float64
	overrides  []paramOverride
	omni       bool
}

type paramOverride struct {
	index int
	value float64
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		mode:       VoiceModePoly,
		sampleRate: DefaultSampleRate,
	}
}

func WithVoiceMode(mode VoiceMode) Option {
	return func(cfg *engineConfig) {
		cfg.mode = mode
	}
}

// WithSampleRate sets the initial sample rate. Non-positive values keep the default.
func WithSampleRate(hz float64) Option {
	return func(cfg *engineConfig) {
		if hz > 0 {
			cfg.sampleRate = hz
		}
	}
}

// WithParameter overrides the initial value of one parameter. Later options
// win; out-of-range indices are ignored.
func WithParameter(index int, value float64) Option {
	return func(cfg *engineConfig) {
		if index >= 0 && index < params.Count {
			cfg.overrides = append(cfg.overrides, paramOverride{index: index, value: value})
		}
	}
}

// WithOmni makes ProcessMIDI accept note messages on every channel instead of
// channel 1 only.
func WithOmni(enabled bool) Option {
	return func(cfg *engineConfig) {
		cfg.omni = enabled
	}
}
