package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-spine/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	width  float32
	height float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller CameraController
}

// Camera is an orthographic 2D camera with +Y up. One world unit maps to one pixel at zoom 1.
// Position and zoom come from an attached CameraController; the camera turns them into matrices on Update.
type Camera interface {
	// Viewport returns the viewport size in pixels.
	//
	// Returns:
	//   - width, height: the viewport size
	Viewport() (width, height float32)

	// SetViewport sets the viewport size, typically from a window resize.
	//
	// Parameters:
	//   - width, height: the viewport size in pixels
	SetViewport(width, height float32)

	// Near returns the near clipping plane.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the column-major view matrix.
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the column-major orthographic projection.
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - [16]float32: the combined matrix
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached controller, nil if none.
	//
	// Returns:
	//   - CameraController: the controller
	Controller() CameraController

	// SetController attaches a controller.
	//
	// Parameters:
	//   - ctrl: the controller
	SetController(ctrl CameraController)

	// Update recomputes the matrices from the controller's current position and zoom.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new orthographic Camera. Defaults to an 800x600 viewport, near -1, far 1,
// and a controller centred on the origin at zoom 1.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		width:  800,
		height: 600,
		near:   -1,
		far:    1,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Viewport() (width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *cameraImpl) SetViewport(width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
	c.updateMatrices()
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

// updateMatrices rebuilds the view and projection from the controller. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	var px, py float32
	zoom := float32(1)
	if c.controller != nil {
		px, py = c.controller.Position()
		zoom = c.controller.Zoom()
	}

	halfW := c.width / 2 / zoom
	halfH := c.height / 2 / zoom

	common.BuildModelMatrix2D(c.viewMatrix[:], -px, -py, 0, 1, 1)
	common.Ortho(c.projectionMatrix[:], -halfW, halfW, -halfH, halfH, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
