package engine

import (
	"encoding/json"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op         string        `json:"op"`                   // "rect", "ellipse", "text", "path"
	LayerID    string        `json:"layerId"`              // For hit correlation
	Bounds     document.XYWH `json:"bounds"`               // Canvas space
	Fill       string        `json:"fill,omitempty"`       // CSS fill color
	Stroke     string        `json:"stroke,omitempty"`     // CSS stroke color
	Opacity    float64       `json:"opacity"`              // Global alpha, 0..1
	Path       string        `json:"path,omitempty"`       // SVG path data in canvas space
	Text       string        `json:"text,omitempty"`       // Text content
	FontSize   float64       `json:"fontSize,omitempty"`   // Text size in px
	FontWeight int           `json:"fontWeight,omitempty"` // CSS font weight
	FontFamily string        `json:"fontFamily,omitempty"` // CSS font family
}

var layerOps = map[document.LayerType]string{
	document.LayerTypeRectangle: "rect",
	document.LayerTypeEllipse:   "ellipse",
	document.LayerTypeText:      "text",
	document.LayerTypePath:      "path",
}

// CompileDrawCommands generates a draw command buffer from the board.
// Commands are in painter's order (back to front). Bounds in overlay
// replace the committed bounds of the matching layers.
func CompileDrawCommands(board Board, overlay map[string]document.XYWH, stroke geometry.StrokeOptions) []DrawCommand {
	if board == nil {
		return nil
	}

	commands := make([]DrawCommand, 0, board.Len())
	for _, id := range board.IDs() {
		layer, ok := effectiveLayer(board, id, overlay)
		if !ok {
			continue
		}
		commands = append(commands, compileLayer(id, layer, stroke))
	}
	return commands
}

func compileLayer(id string, l document.Layer, stroke geometry.StrokeOptions) DrawCommand {
	cmd := DrawCommand{
		Op:      layerOps[l.Type],
		LayerID: id,
		Bounds:  l.Bounds(),
		Fill:    geometry.ColorToCSS(l.Fill),
		Opacity: float64(l.Opacity) / 100,
	}

	switch l.Type {
	case document.LayerTypeRectangle, document.LayerTypeEllipse:
		cmd.Stroke = geometry.ColorToCSS(l.Stroke)
	case document.LayerTypeText:
		cmd.Text = l.Text
		cmd.FontSize = l.FontSize
		cmd.FontWeight = l.FontWeight
		cmd.FontFamily = l.FontFamily
	case document.LayerTypePath:
		abs := make([]document.PathPoint, len(l.Points))
		for i, p := range l.Points {
			abs[i] = document.PathPoint{p[0] + l.X, p[1] + l.Y, p[2]}
		}
		cmd.Path = geometry.SvgPathFromStroke(geometry.StrokeOutline(abs, stroke))
	}
	return cmd
}

// effectiveLayer returns the layer as it should be drawn right now.
func effectiveLayer(board Board, id string, overlay map[string]document.XYWH) (document.Layer, bool) {
	l, ok := board.Layer(id)
	if !ok {
		return document.Layer{}, false
	}
	if b, moved := overlay[id]; moved {
		l = l.WithBounds(b)
	}
	return l, true
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// hitSlop pads a zero-width or zero-height extent, such as a straight
// pencil stroke, so it can still be clicked.
const hitSlop = 4.0

func hitBox(b document.XYWH) document.XYWH {
	if b.Width == 0 {
		b.X -= hitSlop
		b.Width = 2 * hitSlop
	}
	if b.Height == 0 {
		b.Y -= hitSlop
		b.Height = 2 * hitSlop
	}
	return b
}

// HitTest returns the ID of the topmost layer whose bounds contain the
// canvas point, or empty string.
func HitTest(board Board, pt document.Point, overlay map[string]document.XYWH) string {
	if board == nil {
		return ""
	}

	ids := board.IDs()
	// Front to back
	for i := len(ids) - 1; i >= 0; i-- {
		l, ok := effectiveLayer(board, ids[i], overlay)
		if !ok {
			continue
		}
		if hitBox(l.Bounds()).Contains(pt) {
			return ids[i]
		}
	}
	return ""
}

// SelectionBounds returns the combined bounding box of the given layer IDs.
// Missing layers are skipped; an empty result means nothing to draw.
func SelectionBounds(board Board, ids []string, overlay map[string]document.XYWH) document.XYWH {
	if board == nil || len(ids) == 0 {
		return document.XYWH{}
	}

	var result document.XYWH
	first := true

	for _, id := range ids {
		l, ok := effectiveLayer(board, id, overlay)
		if !ok {
			continue
		}

		if first {
			result = l.Bounds()
			first = false
		} else {
			result = result.Union(l.Bounds())
		}
	}

	return result
}

// RectToJSON serializes bounds to JSON.
func RectToJSON(r document.XYWH) string {
	data, _ := json.Marshal(r)
	return string(data)
}
