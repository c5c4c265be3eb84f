// Command spineview plays a recorded Spine skeleton animation in a window.
//
//	spineview -atlas hero.atlas -recording hero.yaml
//
// Arrow keys or left-drag pan, the scroll wheel zooms, Space pauses, R resets the camera and Escape quits.
package main

import (
	"errors"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine"
	"github.com/Carmen-Shannon/oxy-spine/engine/animation"
	"github.com/Carmen-Shannon/oxy-spine/engine/atlas"
	"github.com/Carmen-Shannon/oxy-spine/engine/camera"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/Carmen-Shannon/oxy-spine/engine/scene"
	"github.com/Carmen-Shannon/oxy-spine/engine/window"
	"github.com/schollz/progressbar/v3"
)

func main() {
	cfg, err := newFlags(os.Args[0]).resolve(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("[Viewer] %v", err)
	}

	// ── Animation ───────────────────────────────────────────────────────
	rec, err := animation.LoadRecording(cfg.Recording)
	if err != nil {
		log.Fatalf("[Viewer] %v", err)
	}
	playOptions := []animation.PlaybackBuilderOption{
		animation.WithLoop(cfg.Playback.Loop),
		animation.WithSpeed(cfg.Playback.Speed),
	}
	if cfg.Playback.RandomStart {
		seed := uint64(time.Now().UnixNano())
		playOptions = append(playOptions,
			animation.WithRandom(rand.New(rand.NewPCG(seed, ^seed))),
			animation.WithRandomStart(),
		)
	}
	playback, err := animation.NewPlayback(rec, playOptions...)
	if err != nil {
		log.Fatalf("[Viewer] %v", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(cfg.PresentMode()),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithClearColor(cfg.ClearColor()),
		renderer.WithPremultipliedAlpha(cfg.Renderer.PremultipliedAlpha),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
	)
	defer r.Release()

	// ── Atlas pages ─────────────────────────────────────────────────────
	var bar *progressbar.ProgressBar
	pages, err := atlas.NewAtlas(cfg.Atlas, r, atlas.WithProgress(func(string, int, int) {
		_ = bar.Add(1)
	}))
	if err != nil {
		log.Fatalf("[Viewer] %v", err)
	}
	bar = progressbar.Default(int64(len(pages.Pages())), "loading pages")
	if err := pages.Load(); err != nil {
		log.Printf("[Viewer] some pages failed to load, their attachments will not be drawn: %v", err)
	}
	_ = bar.Finish()
	defer pages.Unload()

	// ── Camera + Scene ──────────────────────────────────────────────────
	ctrl := camera.NewCameraController(camera.WithPanSpeed(16))
	cam := camera.NewCamera(
		camera.WithViewport(float32(win.Width()), float32(win.Height())),
		camera.WithController(ctrl),
	)

	sc, err := scene.NewScene("skeleton", playback, r, pages,
		scene.WithCamera(cam),
		scene.WithSkeletonPosition(cfg.Skeleton.Position[0], cfg.Skeleton.Position[1]),
		scene.WithSkeletonScale(cfg.Skeleton.Scale[0], cfg.Skeleton.Scale[1]),
		scene.WithAllocator(common.NewPoolAllocator()),
	)
	if err != nil {
		log.Fatalf("[Viewer] %v", err)
	}
	defer sc.Release()

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(r,
		engine.WithWindow(win),
		engine.WithScene(sc),
		engine.WithProfiling(cfg.Profile),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
	)

	// The playback belongs to the render goroutine; input only flags a toggle.
	var togglePause atomic.Bool
	eng.SetRenderCallback(func(float32) {
		if togglePause.Swap(false) {
			playback.SetPaused(!playback.Paused())
		}
	})

	win.SetKeyDownCallback(func(key uint32) {
		switch key {
		case common.KeyLeft:
			ctrl.PanRight(-1)
		case common.KeyRight:
			ctrl.PanRight(1)
		case common.KeyUp:
			ctrl.PanUp(1)
		case common.KeyDown:
			ctrl.PanUp(-1)
		case common.KeySpace:
			togglePause.Store(true)
		case common.KeyR:
			ctrl.SetPosition(0, 0)
			ctrl.SetZoom(1)
		}
	})
	win.SetScrollCallback(ctrl.ZoomBy)
	win.SetDragCallback(func(dx, dy float32) {
		speed := ctrl.PanSpeed()
		ctrl.PanRight(-dx / speed)
		ctrl.PanUp(dy / speed)
	})

	log.Printf("[Viewer] %s: %d frames, %d pages", cfg.Recording, playback.FrameCount(), pages.Loaded())
	eng.Run()
}
