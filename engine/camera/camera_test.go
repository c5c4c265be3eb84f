package camera

import (
	"math"
	"testing"
)

func project(m [16]float32, x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestViewportEdgesMapToClipEdges(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))
	vp := c.ViewProjectionMatrix()

	tests := []struct {
		x, y   float32
		cx, cy float32
	}{
		{0, 0, 0, 0},
		{400, 300, 1, 1},
		{-400, -300, -1, -1},
		{200, -150, 0.5, -0.5},
	}
	for _, tt := range tests {
		cx, cy := project(vp, tt.x, tt.y)
		if !near(cx, tt.cx) || !near(cy, tt.cy) {
			t.Errorf("project(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, cx, cy, tt.cx, tt.cy)
		}
	}
}

func TestControllerPanAndZoomMoveTheView(t *testing.T) {
	ctrl := NewCameraController(WithPosition(100, 50), WithZoom(2))
	c := NewCamera(WithViewport(800, 600), WithController(ctrl))

	cx, cy := project(c.ViewProjectionMatrix(), 100, 50)
	if !near(cx, 0) || !near(cy, 0) {
		t.Fatalf("view centre projects to (%v, %v), want origin", cx, cy)
	}
	// At zoom 2 the right clip edge is 200 world units from the centre.
	cx, _ = project(c.ViewProjectionMatrix(), 300, 50)
	if !near(cx, 1) {
		t.Fatalf("right edge projects to %v, want 1", cx)
	}

	ctrl.PanRight(10)
	c.Update()
	x, _ := ctrl.Position()
	if !near(x, 100+10*ctrl.PanSpeed()/2) {
		t.Fatalf("PanRight moved to %v", x)
	}
}

func TestZoomClampsToBounds(t *testing.T) {
	ctrl := NewCameraController(WithZoomBounds(0.5, 4), WithZoomSpeed(1))
	ctrl.SetZoom(100)
	if ctrl.Zoom() != 4 {
		t.Errorf("Zoom() = %v, want 4", ctrl.Zoom())
	}
	ctrl.SetZoom(0.01)
	if ctrl.Zoom() != 0.5 {
		t.Errorf("Zoom() = %v, want 0.5", ctrl.Zoom())
	}
	ctrl.ZoomBy(1)
	if ctrl.Zoom() != 1 {
		t.Errorf("ZoomBy(1) at speed 1 = %v, want 1", ctrl.Zoom())
	}
	ctrl.ZoomBy(-2)
	if ctrl.Zoom() != 1 {
		t.Errorf("a non-positive factor should be ignored, got %v", ctrl.Zoom())
	}
}

func TestSetViewportIgnoresEmptySize(t *testing.T) {
	c := NewCamera()
	c.SetViewport(0, 100)
	w, h := c.Viewport()
	if w != 800 || h != 600 {
		t.Fatalf("Viewport() = %v x %v, want defaults", w, h)
	}
	c.SetViewport(1024, 768)
	w, h = c.Viewport()
	if w != 1024 || h != 768 {
		t.Fatalf("Viewport() = %v x %v", w, h)
	}
}
