package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/animation"
	"github.com/Carmen-Shannon/oxy-spine/engine/camera"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/buffer_slot"
)

// SceneRenderer is the part of renderer.Renderer a Scene needs.
type SceneRenderer interface {
	SlotRenderer
	CreateUniform(label string) (renderer.Uniform, error)
	WriteUniform(u renderer.Uniform, data renderer.SceneUniform)
	BindUniform(u renderer.Uniform) error
}

// Scene draws one animated skeleton. Each frame Update advances the animation, reconciles the slot table
// against the new draw order, writes every slot's buffers and uploads the MVP; Render then binds the MVP
// and draws every slot in draw order. Update and Render must run on the same goroutine, in that order.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether the engine updates and renders this scene.
	Active() bool

	// SetActive sets whether the engine updates and renders this scene.
	//
	// Parameters:
	//   - active: the new state
	SetActive(active bool)

	// ZIndex returns the scene's layer. Lower layers are drawn first.
	ZIndex() int

	// Source returns the animation the scene draws.
	Source() animation.Source

	// Camera returns the camera supplying the view-projection, nil when SetMVP is used instead.
	Camera() camera.Camera

	// SetCamera attaches a camera. The camera's view-projection replaces any matrix set with SetMVP.
	//
	// Parameters:
	//   - cam: the camera
	SetCamera(cam camera.Camera)

	// SetMVP sets a fixed view-projection and detaches the camera.
	//
	// Parameters:
	//   - m: column-major view-projection matrix
	SetMVP(m [16]float32)

	// MVP returns the matrix uploaded by the last Update, skeleton placement included.
	MVP() [16]float32

	// SkeletonPosition returns the skeleton's world-space origin.
	SkeletonPosition() (x, y float32)

	// SetSkeletonPosition moves the skeleton's origin.
	//
	// Parameters:
	//   - x, y: world-space position
	SetSkeletonPosition(x, y float32)

	// SkeletonScale returns the skeleton's scale.
	SkeletonScale() (x, y float32)

	// SetSkeletonScale scales the skeleton about its origin.
	//
	// Parameters:
	//   - x, y: scale factors
	SetSkeletonScale(x, y float32)

	// Update advances the animation and prepares every slot's buffers for Render.
	// A buffer creation failure is returned after the remaining slots have been written;
	// the slot that failed is not drawn this frame.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	//
	// Returns:
	//   - error: the reconciliation error, if any
	Update(deltaTime float32) error

	// Render draws every slot written by the last Update. Must be called between
	// Renderer.BeginFrame and Renderer.EndFrame.
	//
	// Returns:
	//   - error: the first binding or draw error
	Render() error

	// Slots returns the live slots in ascending draw-order index.
	Slots() []buffer_slot.BufferSlot

	// Stats returns the slot table counters since the last ResetStats.
	Stats() FrameStats

	// ResetStats zeroes the slot table counters.
	ResetStats()

	// Release releases every slot buffer and the MVP uniform.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	zIndex int

	src      animation.Source
	r        SceneRenderer
	textures TextureSource
	table    SlotTable
	alloc    common.Allocator

	cam        camera.Camera
	projection [16]float32
	mvp        [16]float32
	uniform    renderer.Uniform

	posX, posY     float32
	scaleX, scaleY float32

	released bool
}

var _ Scene = &scene{}

// NewScene creates a Scene drawing src through r. Panics if src or r is nil.
//
// Parameters:
//   - name: the scene's identifier
//   - src: the animation to draw
//   - r: the renderer, normally a renderer.Renderer
//   - textures: resolves attachment page names, normally an atlas.Atlas
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error if the MVP uniform could not be created
func NewScene(name string, src animation.Source, r SceneRenderer, textures TextureSource, options ...SceneBuilderOption) (Scene, error) {
	if src == nil {
		panic("scene: NewScene requires a non-nil animation Source")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		active:   true,
		src:      src,
		r:        r,
		textures: textures,
		alloc:    common.NewHeapAllocator(),
		scaleX:   1,
		scaleY:   1,
	}
	common.Identity(s.projection[:])
	common.Identity(s.mvp[:])

	for _, option := range options {
		option(s)
	}

	uniform, err := r.CreateUniform(name + " MVP")
	if err != nil {
		return nil, fmt.Errorf("scene %q: failed to create MVP uniform: %w", name, err)
	}
	s.uniform = uniform
	s.table = NewSlotTable(r, textures, WithSlotAllocator(s.alloc))
	return s, nil
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) ZIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zIndex
}

func (s *scene) Source() animation.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.src
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) SetMVP(m [16]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = nil
	s.projection = m
}

func (s *scene) MVP() [16]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mvp
}

func (s *scene) SkeletonPosition() (x, y float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posX, s.posY
}

func (s *scene) SetSkeletonPosition(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posX, s.posY = x, y
}

func (s *scene) SkeletonScale() (x, y float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scaleX, s.scaleY
}

func (s *scene) SetSkeletonScale(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scaleX, s.scaleY = x, y
}

func (s *scene) Update(deltaTime float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}

	s.src.Advance(deltaTime)
	drawOrder := s.src.DrawOrder()

	err := s.table.Reconcile(drawOrder)
	s.table.Write(drawOrder, s.src.SkeletonColor())

	s.updateMVP()
	s.r.WriteUniform(s.uniform, renderer.SceneUniform{MVP: s.mvp})

	if err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	return nil
}

// updateMVP combines the view-projection with the skeleton placement. Caller must hold the lock.
func (s *scene) updateMVP() {
	base := s.projection
	if s.cam != nil {
		s.cam.Update()
		base = s.cam.ViewProjectionMatrix()
	}
	var model [16]float32
	common.BuildModelMatrix2D(model[:], s.posX, s.posY, 0, s.scaleX, s.scaleY)
	common.Mul4(s.mvp[:], base[:], model[:])
}

func (s *scene) Render() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.released {
		return nil
	}
	if err := s.r.BindUniform(s.uniform); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	if err := s.table.Draw(); err != nil {
		return fmt.Errorf("scene %q: %w", s.name, err)
	}
	return nil
}

func (s *scene) Slots() []buffer_slot.BufferSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Slots()
}

func (s *scene) Stats() FrameStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Stats()
}

func (s *scene) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.ResetStats()
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	s.released = true
	s.table.Release()
	s.uniform.Release()
}
