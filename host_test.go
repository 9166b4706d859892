package roog

import (
	"math"
	"sync"
	"testing"
)

func squareEngine(opts ...Option) *Engine {
	e := New(opts...)
	for i := 0; i < 4; i++ {
		e.SetParameter(i, 0)
	}
	e.SetParameter(ParamSquare, 1)
	return e
}

func newHost(t testing.TB, e *Engine, opts ...HostOption) *Host {
	t.Helper()
	h, err := NewHost(e, opts...)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	return h
}

func TestHostDrainsMIDIBeforeRendering(t *testing.T) {
	h := newHost(t, squareEngine())
	if !h.NoteOn(69, 100) {
		t.Fatal("NoteOn rejected")
	}
	if h.Engine().ActiveVoices() != 0 {
		t.Fatal("note applied before Process")
	}
	if h.Pending() != 1 {
		t.Fatalf("Pending = %d", h.Pending())
	}
	buf := make([]float32, 8)
	h.Process(buf)
	// The first frame of the block already carries the note.
	if buf[0] != 1 || buf[1] != 1 {
		t.Fatalf("first frame = %v,%v, want 1,1", buf[0], buf[1])
	}
	if h.Frames() != 4 || h.Pending() != 0 {
		t.Fatalf("Frames %d Pending %d", h.Frames(), h.Pending())
	}
	h.NoteOff(69)
	h.Process(buf)
	if h.Engine().ActiveVoices() != 0 {
		t.Fatal("zero-release note still active after note-off block")
	}
}

func TestHostChannelsCarrySameSample(t *testing.T) {
	h := newHost(t, New())
	h.NoteOn(60, 90)
	h.NoteOn(67, 90)
	buf := make([]float32, 512)
	h.Process(buf)
	for i := 0; i < len(buf); i += 2 {
		if buf[i] != buf[i+1] {
			t.Fatalf("frame %d differs: %v vs %v", i/2, buf[i], buf[i+1])
		}
	}
}

func TestHostPostMIDIRejectsShortAndOverflow(t *testing.T) {
	h := newHost(t, New(), WithQueueSize(2))
	if h.PostMIDI([]byte{0x90, 60}) {
		t.Fatal("short message accepted")
	}
	h.NoteOn(60, 1)
	h.NoteOn(61, 1)
	if h.NoteOn(62, 1) {
		t.Fatal("third message accepted into a queue of two")
	}
	if h.Dropped() != 1 {
		t.Fatalf("Dropped = %d", h.Dropped())
	}
	h.Drain()
	if h.Engine().EnvelopeStage(61) != StageAttack || h.Engine().EnvelopeStage(62) != StageIdle {
		t.Fatal("unexpected voices after drain")
	}
}

func TestHostLimitModes(t *testing.T) {
	for _, mode := range []LimitMode{LimitClip, LimitSoft, LimitPeak} {
		t.Run(string(mode), func(t *testing.T) {
			e := squareEngine()
			h := newHost(t, e, WithOutputLimit(mode))
			for n := 48; n < 60; n++ {
				h.NoteOn(uint8(n), 100)
			}
			buf := make([]float32, 4096)
			h.Process(buf)
			for i, s := range buf {
				if math.Abs(float64(s)) > 1 {
					t.Fatalf("sample %d = %v exceeds 1", i, s)
				}
			}
		})
	}
}

func TestHostWithoutLimitPassesLoudMix(t *testing.T) {
	h := newHost(t, squareEngine())
	for n := 48; n < 52; n++ {
		h.NoteOn(uint8(n), 100)
	}
	buf := make([]float32, 2)
	h.Process(buf)
	if buf[0] != 4 {
		t.Fatalf("first sample = %v, want 4", buf[0])
	}
}

func TestHostSetSampleRate(t *testing.T) {
	h := newHost(t, New(WithSampleRate(1000)), WithOutputLimit(LimitPeak))
	if err := h.SetSampleRate(2000); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	h.Process(make([]float32, 2))
	if got := h.Engine().Time(); got != 0.0005 {
		t.Fatalf("Time = %v, want 0.0005", got)
	}
	for _, bad := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if err := h.SetSampleRate(bad); err == nil {
			t.Errorf("SetSampleRate(%v) accepted", bad)
		}
	}
	if h.Engine().SampleRate() != 2000 {
		t.Fatalf("SampleRate = %v after rejected changes", h.Engine().SampleRate())
	}
}

func TestHostRejectsInvalidLimitMode(t *testing.T) {
	if _, err := NewHost(New(), WithOutputLimit("brickwall")); err == nil {
		t.Fatal("unknown limit mode accepted")
	}
}

func TestHostRejectsOutOfRangeNotes(t *testing.T) {
	h := newHost(t, New())
	if h.NoteOn(200, 100) || h.NoteOn(60, 128) || h.NoteOff(128) {
		t.Fatal("data byte above 127 accepted")
	}
	if h.Pending() != 0 || h.Dropped() != 0 {
		t.Fatalf("Pending %d Dropped %d after rejected notes", h.Pending(), h.Dropped())
	}
	h.Drain()
	// 200&0x7f is 72; nothing may sound there.
	if h.Engine().EnvelopeStage(72) != StageIdle || h.Engine().ActiveVoices() != 0 {
		t.Fatal("out-of-range note reached the engine")
	}
}

func TestHostProcessSilencesTrailingOddSample(t *testing.T) {
	h := newHost(t, squareEngine())
	h.NoteOn(69, 100)
	buf := []float32{9, 9, 9, 9, 9}
	h.Process(buf)
	if buf[4] != 0 {
		t.Fatalf("trailing element = %v, want 0", buf[4])
	}
	if buf[0] != 1 || buf[3] == 9 {
		t.Fatalf("frames not rendered: %v", buf)
	}
	if h.Frames() != 2 {
		t.Fatalf("Frames = %d, want 2", h.Frames())
	}
}

func TestHostConcurrentControlPath(t *testing.T) {
	h := newHost(t, New(), WithQueueSize(1024))
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				note := uint8(w*20 + i%20)
				h.NoteOn(note, 100)
				h.SetParameter(ParamSaw, float64(i)/100)
				h.NoteOff(note)
			}
		}(w)
	}
	buf := make([]float32, 128)
	for i := 0; i < 50; i++ {
		h.Process(buf)
	}
	wg.Wait()
	h.Process(buf)
	if h.Pending() != 0 {
		t.Fatalf("Pending = %d after final block", h.Pending())
	}
	if h.Dropped() != 0 {
		t.Fatalf("Dropped = %d", h.Dropped())
	}
}

func TestHostProcessDoesNotAllocate(t *testing.T) {
	h := newHost(t, New(), WithOutputLimit(LimitPeak))
	buf := make([]float32, 256)
	on := []byte{0x90, 60, 100}
	off := []byte{0x80, 60, 0}
	allocs := testing.AllocsPerRun(50, func() {
		h.PostMIDI(on)
		h.Process(buf)
		h.PostMIDI(off)
		h.Process(buf)
	})
	if allocs != 0 {
		t.Fatalf("allocs per block = %v", allocs)
	}
}

func TestParseLimitMode(t *testing.T) {
	for in, want := range map[string]LimitMode{"": LimitNone, "none": LimitNone, "CLIP": LimitClip, "soft": LimitSoft, "limiter": LimitPeak} {
		got, err := ParseLimitMode(in)
		if err != nil || got != want {
			t.Errorf("ParseLimitMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLimitMode("brickwall"); err == nil {
		t.Error("expected error")
	}
}
