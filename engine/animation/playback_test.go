package animation

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func loadTestPlayback(t *testing.T, options ...PlaybackBuilderOption) Playback {
	t.Helper()
	rec, err := DecodeRecording(strings.NewReader(twoFrameRecording))
	if err != nil {
		t.Fatalf("DecodeRecording: %v", err)
	}
	p, err := NewPlayback(rec, options...)
	if err != nil {
		t.Fatalf("NewPlayback: %v", err)
	}
	return p
}

func TestPlaybackAdvanceLoops(t *testing.T) {
	p := loadTestPlayback(t)
	if p.FrameCount() != 2 || p.Frame() != 0 {
		t.Fatalf("initial frame %d of %d", p.Frame(), p.FrameCount())
	}

	// 10 fps: frame 1 covers [0.1, 0.2).
	p.Advance(0.15)
	if p.Frame() != 1 {
		t.Fatalf("after 0.15s frame = %d, want 1", p.Frame())
	}
	if len(p.DrawOrder()) != 2 || p.DrawOrder()[0].Attachment != nil {
		t.Fatalf("DrawOrder does not expose frame 1")
	}

	p.Advance(0.1)
	if p.Frame() != 0 {
		t.Fatalf("after wrap frame = %d, want 0", p.Frame())
	}
	if got := p.SkeletonColor().A; got != 0.5 {
		t.Errorf("skeleton alpha = %v, want 0.5", got)
	}
}

func TestPlaybackClampsWithoutLoop(t *testing.T) {
	p := loadTestPlayback(t, WithLoop(false))
	p.Advance(5)
	if p.Frame() != 1 {
		t.Fatalf("frame = %d, want last frame", p.Frame())
	}
}

func TestPlaybackPauseAndSpeed(t *testing.T) {
	p := loadTestPlayback(t, WithSpeed(2))
	p.SetPaused(true)
	p.Advance(0.15)
	if p.Frame() != 0 || !p.Paused() {
		t.Fatalf("paused playback advanced")
	}
	p.SetPaused(false)
	p.Advance(0.06)
	if p.Frame() != 1 {
		t.Fatalf("2x speed: frame = %d, want 1", p.Frame())
	}
}

func longPlayback(t *testing.T, frames int, options ...PlaybackBuilderOption) Playback {
	t.Helper()
	rec := &Recording{FPS: 30, Frames: make([]RecordingFrame, frames)}
	for i := range rec.Frames {
		rec.Frames[i].Slots = []RecordingSlot{{Name: "root"}}
	}
	p, err := NewPlayback(rec, options...)
	if err != nil {
		t.Fatalf("NewPlayback: %v", err)
	}
	return p
}

func TestPlaybackRandomStartIsDeterministicPerSeed(t *testing.T) {
	moved := false
	for seed := uint64(1); seed <= 20; seed++ {
		a := longPlayback(t, 100, WithRandom(rand.New(rand.NewPCG(seed, 2))), WithRandomStart())
		b := longPlayback(t, 100, WithRandom(rand.New(rand.NewPCG(seed, 2))), WithRandomStart())
		if a.Frame() != b.Frame() {
			t.Fatalf("seed %d produced frames %d and %d", seed, a.Frame(), b.Frame())
		}
		if a.Frame() > 0 {
			moved = true
		}
	}
	if !moved {
		t.Fatal("random start never moved past frame 0")
	}
}

func TestPlaybackRandomStartWithoutSourceStillSeeks(t *testing.T) {
	starts := map[int]bool{}
	for range 50 {
		starts[longPlayback(t, 100, WithRandomStart()).Frame()] = true
	}
	if len(starts) < 2 {
		t.Fatalf("start frames without a random source: %v, want several", starts)
	}
}

func TestPlaybackStartsAtFirstFrameByDefault(t *testing.T) {
	if got := longPlayback(t, 100, WithRandom(rand.New(rand.NewPCG(7, 7)))).Frame(); got != 0 {
		t.Fatalf("frame = %d, want 0 without WithRandomStart", got)
	}
}
