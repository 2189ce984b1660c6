package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSideCornersAreEdgeUnions(t *testing.T) {
	assert.Equal(t, SideTop|SideLeft, SideTopLeft)
	assert.True(t, SideTopLeft.Has(SideTop))
	assert.True(t, SideTopLeft.Has(SideLeft))
	assert.False(t, SideTopLeft.Has(SideRight))
	assert.False(t, SideBottom.Has(0))
}

func TestCameraScaleDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1.0, Camera{}.Scale())
	assert.Equal(t, 2.0, Camera{Zoom: 2}.Scale())
}

func TestXYWHIntersects(t *testing.T) {
	sel := XYWH{X: 0, Y: 0, Width: 100, Height: 100}

	assert.True(t, sel.Intersects(XYWH{X: 50, Y: 50, Width: 10, Height: 10}))
	assert.True(t, sel.Intersects(XYWH{X: -5, Y: -5, Width: 10, Height: 10}))
	assert.False(t, sel.Intersects(XYWH{X: 200, Y: 200, Width: 10, Height: 10}))
	assert.False(t, sel.Intersects(XYWH{X: 100, Y: 0, Width: 10, Height: 10}), "touching edge")
}

func TestRectFromPointsNormalizes(t *testing.T) {
	r := RectFromPoints(Point{X: 10, Y: 40}, Point{X: 4, Y: 5})
	assert.Equal(t, XYWH{X: 4, Y: 5, Width: 6, Height: 35}, r)
}

func TestXYWHUnion(t *testing.T) {
	a := XYWH{X: 0, Y: 0, Width: 10, Height: 10}
	b := XYWH{X: 20, Y: 5, Width: 10, Height: 20}
	assert.Equal(t, XYWH{X: 0, Y: 0, Width: 30, Height: 25}, a.Union(b))
	assert.Equal(t, b, XYWH{}.Union(b))
}

func TestWithBoundsRescalesPathPoints(t *testing.T) {
	l := Layer{
		Type: LayerTypePath, X: 10, Y: 10, Width: 20, Height: 10, Opacity: 100,
		Points: []PathPoint{{0, 0, 0.5}, {20, 10, 0.7}},
	}

	moved := l.WithBounds(XYWH{X: 50, Y: 60, Width: 20, Height: 10})
	assert.Equal(t, l.Points, moved.Points, "translation keeps relative points")

	resized := l.WithBounds(XYWH{X: 10, Y: 10, Width: 40, Height: 5})
	assert.Equal(t, []PathPoint{{0, 0, 0.5}, {40, 5, 0.7}}, resized.Points)
	assert.Equal(t, 20.0, l.Points[1][0], "original untouched")
}

func TestWithBoundsKeepsCoordinateOnZeroExtent(t *testing.T) {
	l := Layer{Type: LayerTypePath, Width: 0, Height: 10, Points: []PathPoint{{0, 10, 1}}}
	out := l.WithBounds(XYWH{Width: 30, Height: 20})
	assert.Equal(t, []PathPoint{{0, 20, 1}}, out.Points)
}

func TestLayerValidate(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
		ok    bool
	}{
		{"rectangle", Layer{Type: LayerTypeRectangle, Opacity: 100}, true},
		{"unknown type", Layer{Type: "Star"}, false},
		{"opacity", Layer{Type: LayerTypeEllipse, Opacity: 101}, false},
		{"points on rect", Layer{Type: LayerTypeRectangle, Points: []PathPoint{{1, 2, 3}}}, false},
		{"text on path", Layer{Type: LayerTypePath, Text: "x"}, false},
		{"text", Layer{Type: LayerTypeText, Text: "x", Opacity: 50}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layer.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidLayer)
			}
		})
	}
}

func TestLayerJSONShape(t *testing.T) {
	l := Layer{Type: LayerTypePath, Width: 1, Fill: Color{R: 1}, Opacity: 100, Points: []PathPoint{{1, 2, 0.5}}}
	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type":"Path","x":0,"y":0,"width":1,"height":0,
		"fill":{"r":1,"g":0,"b":0},"stroke":{"r":0,"g":0,"b":0},
		"opacity":100,"points":[[1,2,0.5]]
	}`, string(data))
}
