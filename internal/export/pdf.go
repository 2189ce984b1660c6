package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/inamate/board/engine-go/internal/document"
	"github.com/inamate/board/engine-go/internal/geometry"
)

// WritePDF draws the board on a single page sized like the SVG export.
// One canvas pixel maps to one point.
func WritePDF(w io.Writer, board Board, stroke geometry.StrokeOptions) error {
	layers, width, height := layout(board)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	pdf.SetCreator("board export", true)
	pdf.AddPage()

	for _, p := range layers {
		drawPDFLayer(pdf, p.layer, stroke)
		if pdf.Err() {
			return fmt.Errorf("draw layer %s: %w", p.id, pdf.Error())
		}
	}
	return pdf.Output(w)
}

func drawPDFLayer(pdf *gofpdf.Fpdf, l document.Layer, stroke geometry.StrokeOptions) {
	pdf.SetAlpha(float64(l.Opacity)/100, "Normal")
	pdf.SetFillColor(l.Fill.R, l.Fill.G, l.Fill.B)
	pdf.SetDrawColor(l.Stroke.R, l.Stroke.G, l.Stroke.B)

	switch l.Type {
	case document.LayerTypeRectangle:
		pdf.Rect(l.X, l.Y, l.Width, l.Height, "FD")
	case document.LayerTypeEllipse:
		pdf.Ellipse(l.X+l.Width/2, l.Y+l.Height/2, l.Width/2, l.Height/2, 0, "FD")
	case document.LayerTypeText:
		size := l.FontSize
		if size <= 0 {
			size = 16
		}
		style := ""
		if l.FontWeight >= 600 {
			style = "B"
		}
		// only the core fonts are embedded
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(l.Fill.R, l.Fill.G, l.Fill.B)
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		pdf.Text(l.X, l.Y+size, tr(l.Text))
	case document.LayerTypePath:
		poly := outline(l, stroke)
		if len(poly) == 0 {
			return
		}
		pts := make([]gofpdf.PointType, len(poly))
		for i, p := range poly {
			pts[i] = gofpdf.PointType{X: p[0], Y: p[1]}
		}
		pdf.Polygon(pts, "F")
	}
}
