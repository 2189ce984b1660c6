package document

import "github.com/inamate/board/engine-go/internal/typeid"

// NewSampleBoard returns a small board with one layer of each variant.
func NewSampleBoard() *Board {
	b := NewBoard()

	grey := Color{R: 217, G: 217, B: 217}
	pink := Color{R: 246, G: 114, B: 128}

	layers := []Layer{
		{
			Type: LayerTypeRectangle,
			X:    80, Y: 80, Width: 160, Height: 100,
			Fill: grey, Stroke: grey, Opacity: 100,
		},
		{
			Type: LayerTypeEllipse,
			X:    320, Y: 90, Width: 120, Height: 120,
			Fill: pink, Stroke: pink, Opacity: 100,
		},
		{
			Type: LayerTypeText,
			X:    80, Y: 240, Width: 200, Height: 40,
			Fill: Color{}, Stroke: Color{}, Opacity: 100,
			Text: "Hello board", FontSize: 16, FontWeight: 400, FontFamily: "Inter",
		},
		{
			Type: LayerTypePath,
			X:    320, Y: 260, Width: 60, Height: 30,
			Fill: Color{R: 53, G: 92, B: 125}, Stroke: Color{R: 53, G: 92, B: 125}, Opacity: 100,
			Points: []PathPoint{{0, 30, 0.5}, {20, 0, 0.5}, {40, 25, 0.5}, {60, 5, 0.5}},
		},
	}

	for _, l := range layers {
		// sample layers are valid by construction
		_ = b.Insert(typeid.NewLayerID(), l)
	}
	return b
}
