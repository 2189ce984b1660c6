package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/inamate/board/engine-go/internal/document"
)

// PencilPointsToPathLayer turns raw [x, y, pressure] samples into a Path
// layer. Samples without finite x and y are ignored for the bounds;
// samples without all three values are dropped from the output. Output
// points are relative to the top-left corner of the bounds.
func PencilPointsToPathLayer(points [][]float64, color document.Color) (document.Layer, error) {
	left, top := math.Inf(1), math.Inf(1)
	right, bottom := math.Inf(-1), math.Inf(-1)

	for _, p := range points {
		if !finite(p, 2) {
			continue
		}
		x, y := p[0], p[1]
		left = min(left, x)
		top = min(top, y)
		right = max(right, x)
		bottom = max(bottom, y)
	}

	if math.IsInf(left, 1) {
		return document.Layer{}, fmt.Errorf("%w: no pencil sample has both coordinates", ErrInvalidInput)
	}

	out := make([]document.PathPoint, 0, len(points))
	for _, p := range points {
		if !finite(p, 3) {
			continue
		}
		out = append(out, document.PathPoint{p[0] - left, p[1] - top, p[2]})
	}
	if len(out) == 0 {
		return document.Layer{}, fmt.Errorf("%w: no complete pencil sample", ErrInvalidInput)
	}

	return document.Layer{
		Type:    document.LayerTypePath,
		X:       left,
		Y:       top,
		Width:   right - left,
		Height:  bottom - top,
		Fill:    color,
		Stroke:  color,
		Opacity: 100,
		Points:  out,
	}, nil
}

func finite(p []float64, n int) bool {
	if len(p) < n {
		return false
	}
	for _, v := range p[:n] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SvgPathFromStroke converts a closed outline polygon into path data made
// of quadratic curves through the midpoints of consecutive vertices.
func SvgPathFromStroke(stroke [][2]float64) string {
	if len(stroke) == 0 {
		return ""
	}

	parts := make([]string, 0, 4+4*len(stroke))
	parts = append(parts, "M", num(stroke[0][0]), num(stroke[0][1]), "Q")

	for i, p := range stroke {
		next := stroke[(i+1)%len(stroke)]
		parts = append(parts,
			num(p[0]), num(p[1]),
			num((p[0]+next[0])/2), num((p[1]+next[1])/2),
		)
	}

	parts = append(parts, "Z")
	return strings.Join(parts, " ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
