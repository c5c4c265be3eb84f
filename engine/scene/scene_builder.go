package scene

import (
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/camera"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene starts active. Scenes are active by default.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithZIndex sets the scene's layer. Lower layers are drawn first.
//
// Parameters:
//   - z: the layer
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithZIndex(z int) SceneBuilderOption {
	return func(s *scene) {
		s.zIndex = z
	}
}

// WithCamera attaches a camera supplying the view-projection.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithMVP sets a fixed view-projection used when no camera is attached.
//
// Parameters:
//   - m: column-major matrix
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMVP(m [16]float32) SceneBuilderOption {
	return func(s *scene) {
		s.projection = m
	}
}

// WithSkeletonPosition places the skeleton's origin in world space.
//
// Parameters:
//   - x, y: world-space position
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkeletonPosition(x, y float32) SceneBuilderOption {
	return func(s *scene) {
		s.posX, s.posY = x, y
	}
}

// WithSkeletonScale scales the skeleton about its origin. Negative values mirror it.
//
// Parameters:
//   - x, y: scale factors
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkeletonScale(x, y float32) SceneBuilderOption {
	return func(s *scene) {
		s.scaleX, s.scaleY = x, y
	}
}

// WithAllocator sets the allocator for world vertex scratch space. Defaults to common.NewHeapAllocator().
//
// Parameters:
//   - alloc: the allocator
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAllocator(alloc common.Allocator) SceneBuilderOption {
	return func(s *scene) {
		if alloc != nil {
			s.alloc = alloc
		}
	}
}
