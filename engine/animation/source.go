// Package animation defines the contract between the renderer and a skeletal animation runtime.
// The runtime itself lives outside this module; Playback replays recorded output so the renderer can run without one.
package animation

import (
	"github.com/Carmen-Shannon/oxy-spine/common"
)

// DrawEntry is one position in the skeleton's draw order.
type DrawEntry struct {
	// SlotName is the skeletal slot name.
	SlotName string
	// SlotColor is the slot tint.
	SlotColor common.Color
	// Attachment is the slot's current attachment, or nil when the slot shows nothing.
	Attachment *Attachment
}

// Source is an animation runtime as seen by the renderer.
type Source interface {
	// Advance moves the animation clock forward and poses the skeleton for the new time.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Advance(deltaTime float32)

	// DrawOrder returns the current back-to-front draw order. The slice index is the draw-order index.
	// The returned entries must not change until the next Advance.
	//
	// Returns:
	//   - []DrawEntry: the draw order
	DrawOrder() []DrawEntry

	// SkeletonColor returns the skeleton-wide tint.
	//
	// Returns:
	//   - common.Color: the skeleton tint
	SkeletonColor() common.Color
}
