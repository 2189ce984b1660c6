// Package export renders boards to SVG and PDF.
package export

import (
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
)

const margin = 16

// Board is the read access export needs.
type Board interface {
	Layer(id string) (document.Layer, bool)
	IDs() []string
}

// StyleMap is an inline CSS declaration list. Keys are written sorted so
// output is stable.
type StyleMap map[string]string

func (sm StyleMap) String() string {
	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(sm)) {
		if b.Len() > 0 {
			b.WriteString(";")
		}
		b.WriteString(key + ":" + sm[key])
	}
	return b.String()
}

// placed is a layer shifted into page space.
type placed struct {
	id    string
	layer document.Layer
}

// layout shifts the board so its content starts at the margin and returns
// the page size: the extent of all layers plus a margin on each side.
func layout(board Board) ([]placed, int, int) {
	ids := board.IDs()
	out := make([]placed, 0, len(ids))
	var minX, minY, maxX, maxY float64
	for _, id := range ids {
		l, ok := board.Layer(id)
		if !ok {
			continue
		}
		// zero-size layers (straight strokes) still count toward the extent
		if len(out) == 0 {
			minX, minY, maxX, maxY = l.X, l.Y, l.X+l.Width, l.Y+l.Height
		} else {
			minX, minY = min(minX, l.X), min(minY, l.Y)
			maxX, maxY = max(maxX, l.X+l.Width), max(maxY, l.Y+l.Height)
		}
		out = append(out, placed{id: id, layer: l})
	}

	dx, dy := margin-minX, margin-minY
	for i, p := range out {
		out[i].layer = p.layer.WithBounds(p.layer.Bounds().Translate(dx, dy))
	}
	return out, int(math.Ceil(maxX-minX)) + 2*margin, int(math.Ceil(maxY-minY)) + 2*margin
}

// WriteSVG draws every layer of the board in paint order.
func WriteSVG(w io.Writer, board Board, stroke geometry.StrokeOptions) error {
	layers, width, height := layout(board)

	s := svg.New(w)
	s.Start(width, height)
	for _, p := range layers {
		s.Gid(p.id)
		drawLayer(s, p.layer, stroke)
		s.Gend()
	}
	s.End()
	return nil
}

func drawLayer(s *svg.SVG, l document.Layer, stroke geometry.StrokeOptions) {
	opacity := fmt.Sprintf("%g", float64(l.Opacity)/100)
	x, y := round(l.X), round(l.Y)
	width, height := round(l.Width), round(l.Height)

	switch l.Type {
	case document.LayerTypeRectangle:
		s.Rect(x, y, width, height, StyleMap{
			"fill":    geometry.ColorToCSS(l.Fill),
			"stroke":  geometry.ColorToCSS(l.Stroke),
			"opacity": opacity,
		}.String())
	case document.LayerTypeEllipse:
		s.Ellipse(round(l.X+l.Width/2), round(l.Y+l.Height/2), round(l.Width/2), round(l.Height/2), StyleMap{
			"fill":    geometry.ColorToCSS(l.Fill),
			"stroke":  geometry.ColorToCSS(l.Stroke),
			"opacity": opacity,
		}.String())
	case document.LayerTypeText:
		size := l.FontSize
		if size <= 0 {
			size = 16
		}
		s.Text(x, y+round(size), l.Text, StyleMap{
			"fill":        geometry.ColorToCSS(l.Fill),
			"font-size":   fmt.Sprintf("%gpx", size),
			"font-weight": fmt.Sprintf("%d", l.FontWeight),
			"font-family": l.FontFamily,
			"opacity":     opacity,
		}.String())
	case document.LayerTypePath:
		d := geometry.SvgPathFromStroke(outline(l, stroke))
		if d == "" {
			return
		}
		s.Path(d, StyleMap{
			"fill":    geometry.ColorToCSS(l.Fill),
			"opacity": opacity,
		}.String())
	}
}

// outline returns the stroke polygon of a path layer in page space.
func outline(l document.Layer, stroke geometry.StrokeOptions) [][2]float64 {
	abs := make([]document.PathPoint, len(l.Points))
	for i, p := range l.Points {
		abs[i] = document.PathPoint{p[0] + l.X, p[1] + l.Y, p[2]}
	}
	return geometry.StrokeOutline(abs, stroke)
}

func round(v float64) int {
	return int(math.Round(v))
}
