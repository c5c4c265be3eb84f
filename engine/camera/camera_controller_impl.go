package camera

import "sync"

// cameraControllerImpl implements CameraController. Pans are expressed in screen pixels, so a pan
// covers less world distance the further the view is zoomed in.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [2]float32
	zoom     float32

	minZoom   float32
	maxZoom   float32
	zoomSpeed float32
	panSpeed  float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller centred on the origin at zoom 1.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		zoom:      1,
		minZoom:   0.05,
		maxZoom:   20,
		zoomSpeed: 0.1,
		panSpeed:  8,
	}
	for _, option := range options {
		option(cc)
	}
	cc.zoom = cc.clampZoom(cc.zoom)
	return cc
}

// clampZoom keeps z inside the zoom bounds. Caller must hold the mutex or own cc exclusively.
func (cc *cameraControllerImpl) clampZoom(z float32) float32 {
	return min(max(z, cc.minZoom), cc.maxZoom)
}

func (cc *cameraControllerImpl) Position() (x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1]
}

func (cc *cameraControllerImpl) SetPosition(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = [2]float32{x, y}
}

func (cc *cameraControllerImpl) Zoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoom
}

func (cc *cameraControllerImpl) SetZoom(zoom float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoom = cc.clampZoom(zoom)
}

func (cc *cameraControllerImpl) ZoomBy(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	factor := 1 + delta*cc.zoomSpeed
	if factor <= 0 {
		return
	}
	cc.zoom = cc.clampZoom(cc.zoom * factor)
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[0] += delta * cc.panSpeed / cc.zoom
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[1] += delta * cc.panSpeed / cc.zoom
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

func (cc *cameraControllerImpl) MinZoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minZoom
}

func (cc *cameraControllerImpl) MaxZoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxZoom
}
