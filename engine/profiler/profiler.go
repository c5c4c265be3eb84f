package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-spine/engine/scene"
)

// Report is one logged interval.
type Report struct {
	// FPS is the frame rate over the interval.
	FPS float64
	// HeapMB is the live heap at the end of the interval.
	HeapMB float64
	// AllocRateMB is the heap allocation rate in MB per second.
	AllocRateMB float64
	// GCCount is the cumulative number of collections.
	GCCount uint32
	// Slots is the number of live buffer slots across all scenes.
	Slots int
	// Allocations counts slot (re)allocations during the interval.
	Allocations int
	// Releases counts slot releases during the interval.
	Releases int
	// SkippedWrites counts slot writes skipped for a missing texture.
	SkippedWrites int
	// FailedMaps counts buffer writes skipped because a map failed.
	FailedMaps int
	// DrawsPerFrame is the mean number of draw calls per frame.
	DrawsPerFrame float64
}

// Profiler tracks frame rate, memory and slot table statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	stats          scene.FrameStats
	last           Report
	now            func() time.Time
	quiet          bool
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with that frame's slot table counters.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - frame: the counters accumulated by every scene this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(frame scene.FrameStats) bool {
	p.frameCount++
	p.stats.Add(frame)
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	seconds := elapsed.Seconds()

	p.last = Report{
		FPS:           float64(p.frameCount) / seconds,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:   float64(allocDelta) / 1024 / 1024 / seconds,
		GCCount:       p.memStats.NumGC,
		Slots:         p.stats.Slots,
		Allocations:   p.stats.Allocations,
		Releases:      p.stats.Releases,
		SkippedWrites: p.stats.SkippedWrites,
		FailedMaps:    p.stats.FailedMaps,
		DrawsPerFrame: float64(p.stats.DrawCalls) / float64(p.frameCount),
	}

	if !p.quiet {
		r := p.last
		log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d | Slots: %d (+%d -%d) | Draws/frame: %.1f | Skipped: %d | Map failures: %d",
			r.FPS, r.HeapMB, r.AllocRateMB, r.GCCount, r.Slots, r.Allocations, r.Releases, r.DrawsPerFrame, r.SkippedWrites, r.FailedMaps)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.stats = scene.FrameStats{}
	return true
}

// Last returns the most recently logged interval.
//
// Returns:
//   - Report: the report, zero before the first interval elapses
func (p *Profiler) Last() Report {
	return p.last
}
