package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-spine/engine/camera"
	"github.com/Carmen-Shannon/oxy-spine/engine/profiler"
	"github.com/Carmen-Shannon/oxy-spine/engine/scene"
)

type fakeRenderer struct {
	log       *[]string
	failBegin bool
	resizes   [][2]int
	presented int
}

func (r *fakeRenderer) Resize(width, height int) { r.resizes = append(r.resizes, [2]int{width, height}) }

func (r *fakeRenderer) BeginFrame() error {
	if r.failBegin {
		return errors.New("surface lost")
	}
	*r.log = append(*r.log, "begin")
	return nil
}

func (r *fakeRenderer) EndFrame() { *r.log = append(*r.log, "end") }

func (r *fakeRenderer) Present() {
	r.presented++
	*r.log = append(*r.log, "present")
}

// fakeScene overrides the methods the engine calls; the embedded interface is nil.
type fakeScene struct {
	scene.Scene
	name   string
	z      int
	active bool
	cam    camera.Camera
	log    *[]string
	stats  scene.FrameStats
	resets int
}

func (s *fakeScene) Name() string            { return s.name }
func (s *fakeScene) ZIndex() int             { return s.z }
func (s *fakeScene) Active() bool            { return s.active }
func (s *fakeScene) Camera() camera.Camera   { return s.cam }
func (s *fakeScene) Stats() scene.FrameStats { return s.stats }
func (s *fakeScene) ResetStats()             { s.resets++ }

func (s *fakeScene) Update(float32) error {
	*s.log = append(*s.log, "update "+s.name)
	return nil
}

func (s *fakeScene) Render() error {
	*s.log = append(*s.log, "render "+s.name)
	return nil
}

func newFixture(scenes ...*fakeScene) (*engine, *fakeRenderer, *[]string) {
	var log []string
	r := &fakeRenderer{log: &log}
	options := []EngineBuilderOption{}
	for _, s := range scenes {
		s.log = &log
		options = append(options, WithScene(s))
	}
	e := NewEngine(r, options...).(*engine)
	return e, r, &log
}

func TestFrameUpdatesThenRendersInZOrder(t *testing.T) {
	front := &fakeScene{name: "front", z: 2, active: true}
	back := &fakeScene{name: "back", z: -1, active: true}
	mid := &fakeScene{name: "mid", z: 0, active: true}
	hidden := &fakeScene{name: "hidden", z: 1, active: false}
	e, r, log := newFixture(front, back, mid, hidden)

	if !e.frame(0.016) {
		t.Fatal("frame was not presented")
	}
	want := []string{
		"update back", "update mid", "update front",
		"begin",
		"render back", "render mid", "render front",
		"end", "present",
	}
	if len(*log) != len(want) {
		t.Fatalf("log = %v, want %v", *log, want)
	}
	for i := range want {
		if (*log)[i] != want[i] {
			t.Fatalf("log = %v, want %v", *log, want)
		}
	}
	if r.presented != 1 {
		t.Errorf("presented %d frames", r.presented)
	}
	if hidden.resets != 0 || front.resets != 1 {
		t.Errorf("stats reset: hidden=%d front=%d", hidden.resets, front.resets)
	}
}

func TestFrameSkipsDrawWhenBeginFails(t *testing.T) {
	s := &fakeScene{name: "a", active: true}
	e, r, log := newFixture(s)
	r.failBegin = true

	if e.frame(0.016) {
		t.Fatal("frame reported as presented")
	}
	if len(*log) != 1 || (*log)[0] != "update a" {
		t.Fatalf("log = %v, want only the update", *log)
	}
}

func TestResizeReachesRendererAndCameras(t *testing.T) {
	cam := camera.NewCamera()
	s := &fakeScene{name: "a", active: true, cam: cam}
	e, r, _ := newFixture(s)

	e.Resize(100, 100)
	e.Resize(640, 480)
	e.frame(0)
	e.frame(0)

	if len(r.resizes) != 1 || r.resizes[0] != [2]int{640, 480} {
		t.Fatalf("renderer resizes = %v, want only the latest", r.resizes)
	}
	if w, h := cam.Viewport(); w != 640 || h != 480 {
		t.Fatalf("camera viewport = %vx%v", w, h)
	}

	e.Resize(0, 0)
	e.frame(0)
	if len(r.resizes) != 1 {
		t.Fatalf("a minimized window reached the renderer")
	}
}

func TestSceneRegistry(t *testing.T) {
	a := &fakeScene{name: "a", z: 1}
	b := &fakeScene{name: "b", z: 1}
	e, _, _ := newFixture(a)
	e.AddScene(b)
	e.AddScene(&fakeScene{name: "c", z: 0})

	got := e.Scenes()
	if len(got) != 3 || got[0].Name() != "c" || got[1].Name() != "a" || got[2].Name() != "b" {
		t.Fatalf("scene order wrong: %v %v %v", got[0].Name(), got[1].Name(), got[2].Name())
	}
	if e.Scene("b") != scene.Scene(b) {
		t.Error("Scene(b) did not return b")
	}
	if removed := e.RemoveScene("a"); removed != scene.Scene(a) {
		t.Error("RemoveScene did not return a")
	}
	if e.Scene("a") != nil || e.RemoveScene("a") != nil {
		t.Error("a is still registered")
	}
}

func TestFrameFeedsProfiler(t *testing.T) {
	clock := time.Unix(0, 0)
	p := profiler.NewProfiler(profiler.WithQuiet(), profiler.WithClock(func() time.Time { return clock }))
	a := &fakeScene{name: "a", active: true, stats: scene.FrameStats{Slots: 3, DrawCalls: 3}}
	b := &fakeScene{name: "b", active: true, stats: scene.FrameStats{Slots: 2, DrawCalls: 2, Allocations: 2}}
	e, _, _ := newFixture(a, b)
	e.profiler = p
	e.EnableProfiler()

	clock = clock.Add(2 * time.Second)
	e.frame(0.016)

	rep := p.Last()
	if rep.Slots != 5 || rep.DrawsPerFrame != 5 || rep.Allocations != 2 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestProfilerToggleWhileRendering(t *testing.T) {
	clock := time.Unix(0, 0)
	p := profiler.NewProfiler(profiler.WithQuiet(), profiler.WithClock(func() time.Time { return clock }))
	e, _, _ := newFixture(&fakeScene{name: "a", active: true, stats: scene.FrameStats{Slots: 1, DrawCalls: 1}})
	e.profiler = p

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			e.frame(0.016)
		}
	}()
	for i := range 200 {
		if i%2 == 0 {
			e.EnableProfiler()
		} else {
			e.DisableProfiler()
		}
	}
	<-done

	e.DisableProfiler()
	clock = clock.Add(2 * time.Second)
	e.frame(0.016)
	if p.Last().Slots != 0 {
		t.Fatal("disabled profiler was ticked")
	}
	e.EnableProfiler()
	e.frame(0.016)
	if p.Last().Slots != 1 {
		t.Fatalf("report = %+v, want one slot", p.Last())
	}
}

func TestRunWithoutWindowStopsOnQuit(t *testing.T) {
	e, _, _ := newFixture(&fakeScene{name: "a", active: true})
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("Run did not start")
		default:
		}
		e.mu.RLock()
		running := e.running
		e.mu.RUnlock()
		if running {
			break
		}
		time.Sleep(time.Millisecond)
	}
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestIntervals(t *testing.T) {
	if got := tickInterval(0); got != time.Second/60 {
		t.Errorf("tickInterval(0) = %v", got)
	}
	if got := tickInterval(2.5); got != 400*time.Millisecond {
		t.Errorf("tickInterval(2.5) = %v", got)
	}
	if got := frameInterval(0); got != 0 {
		t.Errorf("frameInterval(0) = %v", got)
	}
	if got := frameInterval(50); got != 20*time.Millisecond {
		t.Errorf("frameInterval(50) = %v", got)
	}
}
