package geometry

import (
	"math"

	"github.com/inamate/board/engine-go/internal/document"
)

// PointerEvent is the part of a DOM pointer event the engine reads.
type PointerEvent struct {
	ClientX  float64 `json:"clientX"`
	ClientY  float64 `json:"clientY"`
	Pressure float64 `json:"pressure"`
	Buttons  int     `json:"buttons"`
}

// PointerEventToCanvasPoint maps client coordinates to canvas space.
// Client coordinates are rounded before the camera is removed.
func PointerEventToCanvasPoint(e PointerEvent, cam document.Camera) document.Point {
	screen := document.Point{X: math.Round(e.ClientX), Y: math.Round(e.ClientY)}
	return ViewMatrix(cam).Invert().Apply(screen)
}

// CanvasToScreen maps a canvas point back to client coordinates.
func CanvasToScreen(p document.Point, cam document.Camera) document.Point {
	return ViewMatrix(cam).Apply(p)
}
