package geometry

import "github.com/inamate/board/engine-go/internal/document"

// Matrix2D represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// ViewMatrix maps canvas space to screen space for a camera:
// screen = Translate(camera) * Scale(zoom) * canvas.
func ViewMatrix(cam document.Camera) Matrix2D {
	z := cam.Scale()
	return Translate(cam.X, cam.Y).Multiply(Scale(z, z))
}

// Multiply returns m * other (other is applied first).
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply transforms a point.
func (m Matrix2D) Apply(p document.Point) document.Point {
	return document.Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ApplyRect transforms a box and returns the axis-aligned bounds of the result.
func (m Matrix2D) ApplyRect(r document.XYWH) document.XYWH {
	p0 := m.Apply(document.Point{X: r.X, Y: r.Y})
	p1 := m.Apply(document.Point{X: r.Right(), Y: r.Y})
	p2 := m.Apply(document.Point{X: r.Right(), Y: r.Bottom()})
	p3 := m.Apply(document.Point{X: r.X, Y: r.Bottom()})

	minX := min(p0.X, p1.X, p2.X, p3.X)
	minY := min(p0.Y, p1.Y, p2.Y, p3.Y)
	maxX := max(p0.X, p1.X, p2.X, p3.X)
	maxY := max(p0.Y, p1.Y, p2.Y, p3.Y)

	return document.XYWH{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}
