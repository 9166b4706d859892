package roog

import "testing"

func TestNewPlayerValidatesArguments(t *testing.T) {
	if _, err := NewPlayer(0, NewDetune(48000)); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewPlayer(48000, nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestPlayerIdleBeforePlay(t *testing.T) {
	pl, err := NewPlayer(48000, newHost(t, New(WithSampleRate(48000))))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if pl.SampleRate() != 48000 {
		t.Fatalf("SampleRate = %d", pl.SampleRate())
	}
	if pl.IsPlaying() {
		t.Fatal("player reports playing before Play")
	}
	if pl.Position() != 0 {
		t.Fatalf("Position = %v before Play", pl.Position())
	}
	pl.Pause()
	if err := pl.Stop(); err != nil {
		t.Fatalf("Stop before Play: %v", err)
	}
}
