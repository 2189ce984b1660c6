package geometry

import (
	"math"

	"github.com/inamate/board/engine-go/internal/document"
)

// ResizeBounds recomputes bounds after dragging the handle for corner to
// point. Each edge flag is applied independently, so corner handles
// resize diagonally. Dragging an edge past its opposite flips the box;
// width and height stay non-negative.
func ResizeBounds(bounds document.XYWH, corner document.Side, point document.Point) document.XYWH {
	result := bounds

	if corner.Has(document.SideLeft) {
		result.X = math.Min(point.X, bounds.X+bounds.Width)
		result.Width = math.Abs(bounds.X + bounds.Width - point.X)
	}

	if corner.Has(document.SideRight) {
		result.X = math.Min(point.X, bounds.X)
		result.Width = math.Abs(point.X - bounds.X)
	}

	if corner.Has(document.SideTop) {
		result.Y = math.Min(point.Y, bounds.Y+bounds.Height)
		result.Height = math.Abs(bounds.Y + bounds.Height - point.Y)
	}

	if corner.Has(document.SideBottom) {
		result.Y = math.Min(point.Y, bounds.Y)
		result.Height = math.Abs(point.Y - bounds.Y)
	}

	return result
}
