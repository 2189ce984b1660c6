package document

// XYWH is an axis-aligned bounding box.
type XYWH struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the far edge.
func (r XYWH) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the far edge.
func (r XYWH) Bottom() float64 { return r.Y + r.Height }

// RectFromPoints builds the normalized box spanned by two corners.
func RectFromPoints(a, b Point) XYWH {
	return XYWH{
		X:      min(a.X, b.X),
		Y:      min(a.Y, b.Y),
		Width:  abs(a.X - b.X),
		Height: abs(a.Y - b.Y),
	}
}

// Contains checks if a point is inside the box (edges inclusive).
func (r XYWH) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Intersects reports strict AABB overlap; touching edges do not overlap.
func (r XYWH) Intersects(o XYWH) bool {
	return r.X < o.Right() && r.Right() > o.X &&
		r.Y < o.Bottom() && r.Bottom() > o.Y
}

// IsEmpty checks if the box has zero or negative area.
func (r XYWH) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns the box shifted by (dx, dy).
func (r XYWH) Translate(dx, dy float64) XYWH {
	r.X += dx
	r.Y += dy
	return r
}

// Union returns the smallest box containing both boxes.
func (r XYWH) Union(other XYWH) XYWH {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.Right(), other.Right())
	maxY := max(r.Bottom(), other.Bottom())

	return XYWH{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
