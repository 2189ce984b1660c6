package engine

import "github.com/inamate/board/engine-go/internal/document"

const (
	zoomStep = 1.25
	minZoom  = 0.25
	maxZoom  = 4.0
	zoomEps  = 1e-9
)

// Viewport owns the camera. It satisfies CameraSource and Panner.
type Viewport struct {
	cam document.Camera
}

func NewViewport() *Viewport {
	return &Viewport{cam: document.Camera{Zoom: 1}}
}

func (v *Viewport) Camera() document.Camera {
	return v.cam
}

func (v *Viewport) SetCamera(cam document.Camera) {
	v.cam = cam
}

// Pan moves the camera by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.cam.X += dx
	v.cam.Y += dy
}

func (v *Viewport) CanZoomIn() bool {
	return v.cam.Scale()*zoomStep <= maxZoom+zoomEps
}

func (v *Viewport) CanZoomOut() bool {
	return v.cam.Scale()/zoomStep >= minZoom-zoomEps
}

func (v *Viewport) ZoomIn() bool {
	if !v.CanZoomIn() {
		return false
	}
	v.cam.Zoom = v.cam.Scale() * zoomStep
	return true
}

func (v *Viewport) ZoomOut() bool {
	if !v.CanZoomOut() {
		return false
	}
	v.cam.Zoom = v.cam.Scale() / zoomStep
	return true
}
