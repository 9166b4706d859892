package osc

import (
	"math"
	"testing"
)

func TestWaveformShapes(t *testing.T) {
	for _, tc := range []struct {
		wave  Waveform
		phase float64
		want  float64
	}{
		{Saw, 0, -1},
		{Saw, 0.5, 0},
		{Saw, 0.75, 0.5},
		{Sine, 0, 0},
		{Sine, 0.25, 1},
		{Sine, 0.75, -1},
		{Square, 0, 1},
		{Square, 0.49, 1},
		{Square, 0.5, -1},
		{Triangle, 0, 1},
		{Triangle, 0.25, 0},
		{Triangle, 0.5, -1},
		{Triangle, 0.75, 0},
	} {
		t.Run(tc.wave.String(), func(t *testing.T) {
			got := tc.wave.Sample(tc.phase)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("%s(%v) = %v, want %v", tc.wave, tc.phase, got, tc.want)
			}
		})
	}
}

func TestWaveformsStayInRange(t *testing.T) {
	for w := Saw; w <= Triangle; w++ {
		for i := 0; i < 1000; i++ {
			v := w.Sample(float64(i) / 1000)
			if v < -1 || v > 1 {
				t.Fatalf("%s out of range at %d: %v", w, i, v)
			}
		}
	}
}

func TestUnknownWaveformIsSilent(t *testing.T) {
	if got := Waveform(9).Sample(0.3); got != 0 {
		t.Fatalf("unknown waveform = %v, want 0", got)
	}
	if Waveform(9).String() != "unknown" {
		t.Fatalf("unexpected name %q", Waveform(9).String())
	}
}

func TestPhaseWraps(t *testing.T) {
	if got := Phase(440, 1); got != 0 {
		t.Fatalf("Phase(440, 1) = %v, want 0", got)
	}
	if got := Phase(2, 0.625); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("Phase(2, 0.625) = %v, want 0.25", got)
	}
}

func TestAtMatchesPhaseForm(t *testing.T) {
	freq, tm := 442.0, 0.0123
	if At(Saw, freq, tm) != SawAt(Phase(freq, tm)) {
		t.Fatal("At disagrees with SawAt(Phase)")
	}
}

func TestAdvanceWraps(t *testing.T) {
	p := 0.0
	dt := 1.0 / 100
	for i := 0; i < 250; i++ {
		p = Advance(p, 1, dt)
		if p < 0 || p >= 1 {
			t.Fatalf("phase escaped [0,1): %v", p)
		}
	}
	// 250 steps of 0.01 cycles leaves half a cycle.
	if math.Abs(p-0.5) > 1e-9 {
		t.Fatalf("phase = %v, want 0.5", p)
	}
}

func TestMixZeroWeightsIsExactlyZero(t *testing.T) {
	var w Weights
	for i := 0; i < 100; i++ {
		if got := Mix(&w, float64(i)/100); got != 0 {
			t.Fatalf("zero mix = %v", got)
		}
	}
}

func TestMixIsWeightedSum(t *testing.T) {
	w := Weights{Saw: 0.5, Sine: 0.25, Square: 1, Triangle: 2}
	phase := 0.125
	want := 0.5*SawAt(phase) + 0.25*SineAt(phase) + SquareAt(phase) + 2*TriangleAt(phase)
	if got := Mix(&w, phase); math.Abs(got-want) > 1e-12 {
		t.Fatalf("Mix = %v, want %v", got, want)
	}
	// Weights summing above 1 are not normalized.
	w = Weights{Square: 1, Triangle: 1}
	if got := Mix(&w, 0); got != 2 {
		t.Fatalf("unnormalized mix = %v, want 2", got)
	}
}
