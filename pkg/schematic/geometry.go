package schematic

import "math"

// Box is an integer bounding box.
type Box struct {
	Min Position
	Max Position
}

// NewBox returns an empty box.
func NewBox() Box {
	return Box{
		Min: Position{X: math.MaxInt32, Y: math.MaxInt32},
		Max: Position{X: math.MinInt32, Y: math.MinInt32},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Expand grows the box to include p.
func (b *Box) Expand(p Position) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
}

// ExpandBox grows the box to include another box.
func (b *Box) ExpandBox(other Box) {
	if other.IsEmpty() {
		return
	}
	b.Expand(other.Min)
	b.Expand(other.Max)
}

// Center returns the center point of the box.
func (b Box) Center() Position {
	return Position{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Size returns the box dimensions.
func (b Box) Size() Size {
	return Size{Width: b.Max.X - b.Min.X, Height: b.Max.Y - b.Min.Y}
}

func pointBox(p Position) Box {
	b := NewBox()
	b.Expand(p)
	return b
}

// SegmentHit reports whether p lies exactly on the segment a-b
// (zero tolerance).
func SegmentHit(p, a, b Position) bool {
	// Collinearity via the cross product, then a bounding range check.
	cross := int64(b.X-a.X)*int64(p.Y-a.Y) - int64(b.Y-a.Y)*int64(p.X-a.X)
	if cross != 0 {
		return false
	}
	if p.X < min(a.X, b.X) || p.X > max(a.X, b.X) {
		return false
	}
	if p.Y < min(a.Y, b.Y) || p.Y > max(a.Y, b.Y) {
		return false
	}
	return true
}

// DistanceSq returns the squared Euclidean distance between two points.
func DistanceSq(a, b Position) int64 {
	dx := int64(a.X - b.X)
	dy := int64(a.Y - b.Y)
	return dx*dx + dy*dy
}

// PointF is a floating-point point used for arc geometry.
type PointF struct {
	X, Y float64
}

// Round converts to the nearest integer position.
func (p PointF) Round() Position {
	return Position{int(math.Round(p.X)), int(math.Round(p.Y))}
}

// ArcCenter reconstructs the center of an arc from its chord endpoints and
// the included angle in degrees.
func ArcCenter(start, end PointF, angle float64) PointF {
	dx := end.X - start.X
	dy := end.Y - start.Y
	mid := PointF{(start.X + end.X) / 2, (start.Y + end.Y) / 2}

	dlen := math.Sqrt(dx*dx + dy*dy)
	dist := dlen / (2 * math.Tan(angle*math.Pi/180/2))

	return PointF{
		X: mid.X + dist*(dy/dlen),
		Y: mid.Y - dist*(dx/dlen),
	}
}

// Distance returns the Euclidean distance between two float points.
func Distance(a, b PointF) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
