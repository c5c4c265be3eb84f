package animation

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/Carmen-Shannon/oxy-spine/common"
)

// playback is the implementation of the Playback interface.
type playback struct {
	frames        [][]DrawEntry
	frameDuration float32
	skeletonColor common.Color

	time    float32
	current int
	loop    bool
	paused  bool
	speed   float32

	rng         *rand.Rand
	randomStart bool
}

// Playback is a Source that replays a Recording at its captured frame rate.
// It stands in for a real animation runtime in tools and tests.
type Playback interface {
	Source

	// FrameCount returns the number of recorded frames.
	//
	// Returns:
	//   - int: the frame count
	FrameCount() int

	// Frame returns the index of the frame currently exposed by DrawOrder.
	//
	// Returns:
	//   - int: the current frame index
	Frame() int

	// Seek jumps to the given time in seconds. Times past the end wrap when looping and clamp otherwise.
	//
	// Parameters:
	//   - t: the target time in seconds
	Seek(t float32)

	// SetPaused stops or resumes the clock. A paused playback ignores Advance.
	//
	// Parameters:
	//   - paused: true to pause
	SetPaused(paused bool)

	// Paused reports whether the clock is stopped.
	//
	// Returns:
	//   - bool: true if paused
	Paused() bool
}

var _ Playback = &playback{}

// ErrEmptyRecording is returned when a recording has no frames.
var ErrEmptyRecording = errors.New("recording has no frames")

// NewPlayback builds a Playback from a decoded Recording.
//
// Parameters:
//   - rec: the recording to replay
//   - options: functional options applied after defaults
//
// Returns:
//   - Playback: the playback source
//   - error: ErrEmptyRecording, or an error describing a malformed frame
func NewPlayback(rec *Recording, options ...PlaybackBuilderOption) (Playback, error) {
	if rec == nil || len(rec.Frames) == 0 {
		return nil, ErrEmptyRecording
	}
	frames, err := rec.drawOrders()
	if err != nil {
		return nil, err
	}
	skeletonColor, err := colorFromSlice(rec.SkeletonColor)
	if err != nil {
		return nil, err
	}

	fps := rec.FPS
	if fps <= 0 {
		fps = 30
	}

	p := &playback{
		frames:        frames,
		frameDuration: 1 / fps,
		skeletonColor: skeletonColor,
		loop:          true,
		speed:         1,
	}
	for _, opt := range options {
		opt(p)
	}

	if p.randomStart {
		if p.rng == nil {
			seed := uint64(time.Now().UnixNano())
			p.rng = rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
		}
		p.Seek(p.rng.Float32() * p.duration())
	}
	return p, nil
}

func (p *playback) Advance(deltaTime float32) {
	if p.paused {
		return
	}
	p.Seek(p.time + deltaTime*p.speed)
}

func (p *playback) DrawOrder() []DrawEntry {
	return p.frames[p.current]
}

func (p *playback) SkeletonColor() common.Color {
	return p.skeletonColor
}

func (p *playback) FrameCount() int {
	return len(p.frames)
}

func (p *playback) Frame() int {
	return p.current
}

func (p *playback) Seek(t float32) {
	d := p.duration()
	switch {
	case t < 0:
		t = 0
	case t >= d && p.loop:
		t = float32(math.Mod(float64(t), float64(d)))
	case t >= d:
		t = d
	}
	p.time = t

	frame := int(t / p.frameDuration)
	if frame >= len(p.frames) {
		frame = len(p.frames) - 1
	}
	p.current = frame
}

func (p *playback) SetPaused(paused bool) {
	p.paused = paused
}

func (p *playback) Paused() bool {
	return p.paused
}

func (p *playback) duration() float32 {
	return float32(len(p.frames)) * p.frameDuration
}
