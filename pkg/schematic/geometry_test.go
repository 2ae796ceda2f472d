package schematic

import (
	"math"
	"testing"
)

func TestSegmentHit(t *testing.T) {
	a := Position{0, 0}
	b := Position{400, 0}

	cases := []struct {
		p    Position
		want bool
	}{
		{Position{0, 0}, true},
		{Position{400, 0}, true},
		{Position{200, 0}, true},
		{Position{200, 1}, false},  // off-axis, zero tolerance
		{Position{401, 0}, false},  // past the end
		{Position{-1, 0}, false},   // before the start
		{Position{200, -1}, false}, // off-axis the other way
	}
	for _, c := range cases {
		if got := SegmentHit(c.p, a, b); got != c.want {
			t.Errorf("SegmentHit(%v) = %v, want %v", c.p, got, c.want)
		}
	}

	// Diagonal segment.
	if !SegmentHit(Position{50, 50}, Position{0, 0}, Position{100, 100}) {
		t.Error("point on diagonal rejected")
	}
	if SegmentHit(Position{50, 51}, Position{0, 0}, Position{100, 100}) {
		t.Error("point off diagonal accepted")
	}
}

func TestDistanceSq(t *testing.T) {
	if got := DistanceSq(Position{0, 0}, Position{3, 4}); got != 25 {
		t.Errorf("DistanceSq = %d, want 25", got)
	}
	if got := DistanceSq(Position{-3, -4}, Position{0, 0}); got != 25 {
		t.Errorf("DistanceSq with negatives = %d, want 25", got)
	}
}

func TestArcCenter(t *testing.T) {
	// A 90 degree arc over the chord (0,0)-(100,0) centers at (50,-50).
	c := ArcCenter(PointF{0, 0}, PointF{100, 0}, 90)
	if math.Abs(c.X-50) > 1e-6 || math.Abs(c.Y+50) > 1e-6 {
		t.Errorf("center = (%v,%v), want (50,-50)", c.X, c.Y)
	}

	// The center is equidistant from both chord endpoints.
	for _, angle := range []float64{30, 90, 170, -90, -45} {
		start := PointF{0, 0}
		end := PointF{100, 40}
		c := ArcCenter(start, end, angle)
		r1 := Distance(c, start)
		r2 := Distance(c, end)
		if math.Abs(r1-r2) > 1e-6 {
			t.Errorf("angle %v: radii differ (%v vs %v)", angle, r1, r2)
		}
	}
}

func TestBoxExpand(t *testing.T) {
	b := NewBox()
	if !b.IsEmpty() {
		t.Error("new box not empty")
	}

	b.Expand(Position{10, 20})
	b.Expand(Position{-5, 40})
	if b.IsEmpty() {
		t.Error("expanded box still empty")
	}
	if b.Min != (Position{-5, 20}) || b.Max != (Position{10, 40}) {
		t.Errorf("box = %+v", b)
	}
	if c := b.Center(); c != (Position{2, 30}) {
		t.Errorf("center = %v, want (2,30)", c)
	}

	other := NewBox()
	other.Expand(Position{100, 100})
	b.ExpandBox(other)
	if b.Max != (Position{100, 100}) {
		t.Errorf("ExpandBox failed: %+v", b)
	}

	// Expanding with an empty box is a no-op.
	before := b
	b.ExpandBox(NewBox())
	if b != before {
		t.Error("empty box expansion changed the target")
	}
}

func TestLineMidPointAndMove(t *testing.T) {
	l := &Line{Layer: LayerWire, Start: Position{0, 0}, End: Position{100, 200}}
	if got := l.MidPoint(); got != (Position{50, 100}) {
		t.Errorf("MidPoint = %v, want (50,100)", got)
	}

	l.SetPosition(Position{10, 10})
	if l.Start != (Position{10, 10}) || l.End != (Position{110, 210}) {
		t.Errorf("SetPosition did not translate both ends: %+v", l)
	}
}

func TestComponentSetPositionMovesFields(t *testing.T) {
	c := &Component{Pos: Position{100, 100}}
	f := c.Field(FieldReference)
	f.Attrs.Pos = Position{150, 80}

	c.SetPosition(Position{200, 300})
	if got := c.Field(FieldReference).Attrs.Pos; got != (Position{250, 280}) {
		t.Errorf("field moved to %v, want (250,280)", got)
	}
}
