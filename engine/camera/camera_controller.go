package camera

// CameraController owns the 2D camera's position and zoom and turns input into changes of both.
type CameraController interface {
	// Position returns the world-space point at the centre of the view.
	//
	// Returns:
	//   - x, y: the view centre
	Position() (x, y float32)

	// SetPosition moves the view centre.
	//
	// Parameters:
	//   - x, y: the new view centre
	SetPosition(x, y float32)

	// Zoom returns the magnification. 1 maps one world unit to one pixel.
	//
	// Returns:
	//   - float32: the zoom factor
	Zoom() float32

	// SetZoom sets the magnification, clamped to the configured bounds.
	//
	// Parameters:
	//   - zoom: the zoom factor
	SetZoom(zoom float32)

	// ZoomBy scales the magnification by 1 + delta*ZoomSpeed. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: the zoom input, e.g. a scroll wheel step
	ZoomBy(delta float32)

	// PanRight moves the view centre along +X by delta*PanSpeed screen pixels.
	//
	// Parameters:
	//   - delta: pan amount
	PanRight(delta float32)

	// PanUp moves the view centre along +Y by delta*PanSpeed screen pixels.
	//
	// Parameters:
	//   - delta: pan amount
	PanUp(delta float32)

	// PanSpeed returns the pan multiplier.
	PanSpeed() float32

	// ZoomSpeed returns the zoom multiplier.
	ZoomSpeed() float32

	// MinZoom returns the lower zoom bound.
	MinZoom() float32

	// MaxZoom returns the upper zoom bound.
	MaxZoom() float32
}
