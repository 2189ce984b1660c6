package geometry

import (
	"math"

	"github.com/inamate/board/engine-go/internal/document"
)

// StrokeOptions shape the outline built around freehand samples.
type StrokeOptions struct {
	Size     float64 // diameter at pressure 0.5
	Thinning float64 // how much pressure changes the width, 0..1
}

// DefaultStrokeOptions matches the pencil tool.
var DefaultStrokeOptions = StrokeOptions{Size: 16, Thinning: 0.5}

const minRadius = 0.25

func (o StrokeOptions) radius(pressure float64) float64 {
	// 0 means the device reports no pressure
	if pressure <= 0 {
		pressure = 0.5
	}
	pressure = min(pressure, 1)
	return max(o.Size*(0.5-o.Thinning*(0.5-pressure)), minRadius)
}

// StrokeOutline builds a closed polygon around the samples: the left
// offsets walked forward followed by the right offsets walked back. The
// polygon is in the same coordinate space as the samples.
func StrokeOutline(points []document.PathPoint, opts StrokeOptions) [][2]float64 {
	if len(points) == 0 {
		return nil
	}
	if opts.Size <= 0 {
		opts = DefaultStrokeOptions
	}

	if len(points) == 1 || allSame(points) {
		p := points[0]
		r := opts.radius(p[2])
		return [][2]float64{
			{p[0] - r, p[1] - r},
			{p[0] + r, p[1] - r},
			{p[0] + r, p[1] + r},
			{p[0] - r, p[1] + r},
		}
	}

	left := make([][2]float64, 0, len(points))
	right := make([][2]float64, 0, len(points))
	nx, ny := 0.0, -1.0

	for i, p := range points {
		prev := points[max(i-1, 0)]
		next := points[min(i+1, len(points)-1)]
		tx, ty := next[0]-prev[0], next[1]-prev[1]
		if l := math.Hypot(tx, ty); l > 0 {
			// normal is the tangent rotated 90° counter-clockwise
			nx, ny = -ty/l, tx/l
		}
		r := opts.radius(p[2])
		left = append(left, [2]float64{p[0] + nx*r, p[1] + ny*r})
		right = append(right, [2]float64{p[0] - nx*r, p[1] - ny*r})
	}

	outline := left
	for i := len(right) - 1; i >= 0; i-- {
		outline = append(outline, right[i])
	}
	return outline
}

func allSame(points []document.PathPoint) bool {
	for _, p := range points[1:] {
		if p[0] != points[0][0] || p[1] != points[0][1] {
			return false
		}
	}
	return true
}
