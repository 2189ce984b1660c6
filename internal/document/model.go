package document

import (
	"errors"
	"fmt"
)

var (
	ErrLayerNotFound = errors.New("layer not found")
	ErrInvalidLayer  = errors.New("invalid layer")
)

// Point is a location in canvas space (camera-adjusted).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color is an RGB triple with channels in 0..255.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Camera is the viewport offset applied to pointer coordinates.
// A zero Zoom is treated as 1.
type Camera struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom,omitempty"`
}

// Scale returns the effective zoom factor.
func (c Camera) Scale() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// Side identifies the edge(s) of a bounding box controlled by a resize handle.
type Side uint8

const (
	SideTop    Side = 1
	SideBottom Side = 2
	SideLeft   Side = 4
	SideRight  Side = 8

	SideTopLeft     = SideTop | SideLeft
	SideTopRight    = SideTop | SideRight
	SideBottomLeft  = SideBottom | SideLeft
	SideBottomRight = SideBottom | SideRight
)

// Has reports whether every bit of flag is set in s.
func (s Side) Has(flag Side) bool {
	return flag != 0 && s&flag == flag
}

type LayerType string

const (
	LayerTypeRectangle LayerType = "Rectangle"
	LayerTypeEllipse   LayerType = "Ellipse"
	LayerTypeText      LayerType = "Text"
	LayerTypePath      LayerType = "Path"
)

// Valid reports whether t is one of the known layer variants.
func (t LayerType) Valid() bool {
	switch t {
	case LayerTypeRectangle, LayerTypeEllipse, LayerTypeText, LayerTypePath:
		return true
	}
	return false
}

// PathPoint is a freehand sample: x, y relative to the layer origin, then pressure.
type PathPoint [3]float64

func (p PathPoint) X() float64        { return p[0] }
func (p PathPoint) Y() float64        { return p[1] }
func (p PathPoint) Pressure() float64 { return p[2] }

// Layer is one vector shape on the board. Type selects the variant;
// Points is only set for Path layers and the Text* fields only for Text layers.
type Layer struct {
	Type    LayerType `json:"type"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Fill    Color     `json:"fill"`
	Stroke  Color     `json:"stroke"`
	Opacity int       `json:"opacity"`

	// Path
	Points []PathPoint `json:"points,omitempty"`

	// Text
	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight int     `json:"fontWeight,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
}

// Bounds returns the layer's bounding box.
func (l Layer) Bounds() XYWH {
	return XYWH{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
}

// WithBounds returns a copy of l moved/resized to b. Path points are
// rescaled so they stay relative to the new top-left corner.
func (l Layer) WithBounds(b XYWH) Layer {
	out := l
	out.X, out.Y, out.Width, out.Height = b.X, b.Y, b.Width, b.Height

	if l.Type != LayerTypePath || len(l.Points) == 0 {
		return out
	}

	sx, sy := 1.0, 1.0
	if l.Width != 0 {
		sx = b.Width / l.Width
	}
	if l.Height != 0 {
		sy = b.Height / l.Height
	}

	out.Points = make([]PathPoint, len(l.Points))
	for i, p := range l.Points {
		out.Points[i] = PathPoint{p[0] * sx, p[1] * sy, p[2]}
	}
	return out
}

// Validate checks the variant invariants of the layer.
func (l Layer) Validate() error {
	if !l.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidLayer, l.Type)
	}
	if l.Opacity < 0 || l.Opacity > 100 {
		return fmt.Errorf("%w: opacity %d out of range", ErrInvalidLayer, l.Opacity)
	}
	if l.Width < 0 || l.Height < 0 {
		return fmt.Errorf("%w: negative size", ErrInvalidLayer)
	}
	if l.Type != LayerTypePath && len(l.Points) > 0 {
		return fmt.Errorf("%w: points on %s layer", ErrInvalidLayer, l.Type)
	}
	if l.Type != LayerTypeText && (l.Text != "" || l.FontFamily != "") {
		return fmt.Errorf("%w: text fields on %s layer", ErrInvalidLayer, l.Type)
	}
	return nil
}

// Clone returns a deep copy of the layer.
func (l Layer) Clone() Layer {
	out := l
	if l.Points != nil {
		out.Points = append([]PathPoint(nil), l.Points...)
	}
	return out
}
