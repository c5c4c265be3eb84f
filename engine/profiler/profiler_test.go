package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-spine/engine/scene"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(time.Second), WithClock(clock.now), WithQuiet())

	frame := scene.FrameStats{Slots: 5, DrawCalls: 5}
	for i := 0; i < 9; i++ {
		clock.t = clock.t.Add(100 * time.Millisecond)
		if p.Tick(frame) {
			t.Fatalf("reported after %d frames", i+1)
		}
	}

	clock.t = clock.t.Add(100 * time.Millisecond)
	if !p.Tick(scene.FrameStats{Slots: 6, Allocations: 1, DrawCalls: 5, SkippedWrites: 2}) {
		t.Fatal("expected a report after one second")
	}

	r := p.Last()
	if r.FPS < 9.99 || r.FPS > 10.01 {
		t.Errorf("FPS = %.2f, want 10", r.FPS)
	}
	if r.Slots != 6 || r.Allocations != 1 || r.SkippedWrites != 2 {
		t.Errorf("report = %+v", r)
	}
	if r.DrawsPerFrame != 5 {
		t.Errorf("DrawsPerFrame = %.2f, want 5", r.DrawsPerFrame)
	}

	clock.t = clock.t.Add(time.Second)
	p.Tick(scene.FrameStats{Slots: 6})
	if got := p.Last(); got.Allocations != 0 || got.DrawsPerFrame != 0 {
		t.Errorf("counters were not reset: %+v", got)
	}
}
