package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/cbegin/roog-go"
	"github.com/cbegin/roog-go/internal/params"
)

var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// paramFlags collects repeated -set name=value pairs.
type paramFlags []paramSetting

type paramSetting struct {
	index int
	value float64
}

func (p *paramFlags) String() string {
	parts := make([]string, len(*p))
	for i, s := range *p {
		parts[i] = fmt.Sprintf("%s=%g", params.Name(s.index), s.value)
	}
	return strings.Join(parts, ",")
}

func (p *paramFlags) Set(raw string) error {
	name, val, ok := strings.Cut(raw, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", raw)
	}
	idx, ok := params.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown parameter %q", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	*p = append(*p, paramSetting{index: idx, value: v})
	return nil
}

func main() {
	var settings paramFlags
	var (
		mode       = flag.String("mode", "engine", "output mode: engine|detune")
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		voices     = flag.String("voices", "poly", "voice allocation: poly|mono")
		notes      = flag.String("notes", "60,64,67", "comma-separated MIDI notes to play in engine mode")
		hold       = flag.Duration("hold", 2*time.Second, "how long notes are held in engine mode")
		duration   = flag.Duration("duration", 0, "detune mode run time (0 = until interrupted)")
		limit      = flag.String("limit", "none", "output stage: none|clip|soft|limiter")
		debug      = flag.Bool("v", false, "debug logging")
	)
	flag.Var(&settings, "set", "parameter override name=value (repeatable), e.g. -set release=0.5")
	flag.Parse()
	initLogger(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch strings.ToLower(strings.TrimSpace(*mode)) {
	case "detune":
		err = runDetune(ctx, *sampleRate, *duration)
	case "engine":
		err = runEngine(ctx, *sampleRate, *voices, *notes, *limit, *hold, settings)
	default:
		err = fmt.Errorf("invalid -mode %q (expected engine|detune)", *mode)
	}
	if err != nil {
		logger.Error("roog failed", "err", err)
		os.Exit(1)
	}
}

func runDetune(ctx context.Context, sampleRate int, d time.Duration) error {
	src := roog.NewDetune(sampleRate)
	src.StopAfter(durationFrames(d, sampleRate))
	pl, err := roog.NewPlayer(sampleRate, src)
	if err != nil {
		return err
	}
	if err := pl.Play(); err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	logger.Info("playing detuned saws", "sample_rate", sampleRate, "center_hz", 440, "offset_hz", 2, "duration", d)
	waitPlayback(ctx, pl, 50*time.Millisecond)
	return pl.Stop()
}

// durationFrames converts d to frames at sampleRate; non-positive d means
// unbounded (0).
func durationFrames(d time.Duration, sampleRate int) int {
	if d <= 0 {
		return 0
	}
	return max(int(d.Seconds()*float64(sampleRate)), 1)
}

type playbackState interface {
	IsPlaying() bool
}

// waitPlayback blocks until ctx is cancelled or the player stops on its own,
// which happens when a bounded source runs out.
func waitPlayback(ctx context.Context, pl playbackState, poll time.Duration) {
	t := time.NewTicker(poll)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !pl.IsPlaying() {
				return
			}
		}
	}
}

func runEngine(ctx context.Context, sampleRate int, voices, noteList, limit string, hold time.Duration, settings paramFlags) error {
	voiceMode, err := roog.ParseVoiceMode(voices)
	if err != nil {
		return err
	}
	limitMode, err := roog.ParseLimitMode(limit)
	if err != nil {
		return err
	}
	keys, err := parseNotes(noteList)
	if err != nil {
		return err
	}
	opts := []roog.Option{roog.WithSampleRate(float64(sampleRate)), roog.WithVoiceMode(voiceMode)}
	for _, s := range settings {
		opts = append(opts, roog.WithParameter(s.index, s.value))
	}
	engine := roog.New(opts...)
	for i := 0; i < roog.NumParams; i++ {
		logger.Debug("parameter", "name", engine.ParameterName(i), "value", engine.ParameterText(i))
	}
	host, err := roog.NewHost(engine, roog.WithOutputLimit(limitMode))
	if err != nil {
		return err
	}

	pl, err := roog.NewPlayer(sampleRate, host)
	if err != nil {
		return err
	}
	if err := pl.Play(); err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	defer pl.Stop()

	logger.Info("note on", "notes", keys, "voices", voiceMode, "limit", limitMode)
	for _, k := range keys {
		if !host.NoteOn(k, 100) {
			logger.Warn("midi queue full", "note", k)
		}
	}
	if !sleep(ctx, hold) {
		return nil
	}
	for _, k := range keys {
		host.NoteOff(k)
	}
	tail := time.Duration(engine.GetParameter(roog.ParamRelease)*float64(time.Second)) + 100*time.Millisecond
	logger.Info("note off", "release_tail", tail)
	sleep(ctx, tail)
	logger.Debug("done", "frames", host.Frames(), "dropped_midi", host.Dropped())
	return nil
}

func parseNotes(list string) ([]uint8, error) {
	var out []uint8
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 127 {
			return nil, fmt.Errorf("invalid note %q (expected 0..127)", part)
		}
		out = append(out, uint8(n))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no notes given")
	}
	return out, nil
}

// sleep waits for d and reports whether it ran to completion.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
