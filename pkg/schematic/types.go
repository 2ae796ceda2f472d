// Package schematic is the internal schematic document model produced by
// the Eagle importer: sheets of draw items plus reusable symbol libraries.
// Coordinates are integer mils with X growing right and Y growing down.
package schematic

import (
	"github.com/google/uuid"
)

// Position is a 2D point in mils.
type Position struct {
	X, Y int
}

// Add returns p translated by o.
func (p Position) Add(o Position) Position {
	return Position{p.X + o.X, p.Y + o.Y}
}

// Sub returns p - o.
func (p Position) Sub(o Position) Position {
	return Position{p.X - o.X, p.Y - o.Y}
}

// Size is a width/height pair in mils.
type Size struct {
	Width, Height int
}

// LayerID classifies a line item. Only three classes matter to the
// schematic: electrical wires, buses, and annotation graphics.
type LayerID int

const (
	LayerWire LayerID = iota
	LayerBus
	LayerNotes
)

// HJustify is horizontal text justification.
type HJustify int

const (
	HJustifyLeft HJustify = iota
	HJustifyCenter
	HJustifyRight
)

// VJustify is vertical text justification.
type VJustify int

const (
	VJustifyTop VJustify = iota
	VJustifyCenter
	VJustifyBottom
)

// DefaultTextSize is the default square text size in mils.
const DefaultTextSize = 50

// TextAttrs carries the visual attributes shared by labels, fields and
// free text.
type TextAttrs struct {
	Pos      Position
	Size     int // square character size in mils
	Bold     bool
	Vertical bool // rendered at 90 degrees
	HJustify HJustify
	VJustify VJustify
	Visible  bool
}

// Item is any drawable object owned by a screen.
type Item interface {
	Position() Position
	SetPosition(Position)
	BoundingBox() Box
}

// Line is a wire, bus or graphic line segment.
type Line struct {
	Layer      LayerID
	Start, End Position
}

func (l *Line) Position() Position     { return l.Start }
func (l *Line) SetPosition(p Position) { d := p.Sub(l.Start); l.Start = p; l.End = l.End.Add(d) }

// MidPoint returns the segment midpoint.
func (l *Line) MidPoint() Position {
	return Position{(l.Start.X + l.End.X) / 2, (l.Start.Y + l.End.Y) / 2}
}

// HitTest reports whether p lies exactly on the segment.
func (l *Line) HitTest(p Position) bool {
	return SegmentHit(p, l.Start, l.End)
}

func (l *Line) BoundingBox() Box {
	b := NewBox()
	b.Expand(l.Start)
	b.Expand(l.End)
	return b
}

// Junction marks an electrical connection of crossing wires.
type Junction struct {
	Pos Position
}

func (j *Junction) Position() Position     { return j.Pos }
func (j *Junction) SetPosition(p Position) { j.Pos = p }
func (j *Junction) BoundingBox() Box       { return pointBox(j.Pos) }

// Label names the net of the wire it sits on; visible on its own sheet only.
type Label struct {
	Text      string
	Pos       Position
	Size      int
	SpinStyle int // 0..3, quarter turns
}

func (l *Label) Position() Position     { return l.Pos }
func (l *Label) SetPosition(p Position) { l.Pos = p }
func (l *Label) BoundingBox() Box       { return pointBox(l.Pos) }

// GlobalLabel names a net that spans multiple sheets.
type GlobalLabel struct {
	Text      string
	Pos       Position
	Size      int
	SpinStyle int
}

func (l *GlobalLabel) Position() Position     { return l.Pos }
func (l *GlobalLabel) SetPosition(p Position) { l.Pos = p }
func (l *GlobalLabel) BoundingBox() Box       { return pointBox(l.Pos) }

// Text is free annotation text on a sheet.
type Text struct {
	Value string
	Attrs TextAttrs
}

func (t *Text) Position() Position     { return t.Attrs.Pos }
func (t *Text) SetPosition(p Position) { t.Attrs.Pos = p }
func (t *Text) BoundingBox() Box       { return pointBox(t.Attrs.Pos) }

// Marker is a visible diagnostic placed where the importer could not decide
// the right construction.
type Marker struct {
	Pos     Position
	Comment string
}

func (m *Marker) Position() Position     { return m.Pos }
func (m *Marker) SetPosition(p Position) { m.Pos = p }
func (m *Marker) BoundingBox() Box       { return pointBox(m.Pos) }

// BusEntry is a 100x100 mil diagonal connector from a wire onto a bus.
// Shape is '/' or '\\'.
type BusEntry struct {
	Pos   Position
	Shape byte
}

func (b *BusEntry) Position() Position     { return b.Pos }
func (b *BusEntry) SetPosition(p Position) { b.Pos = p }

func (b *BusEntry) BoundingBox() Box {
	box := NewBox()
	box.Expand(b.Pos)
	if b.Shape == '/' {
		box.Expand(b.Pos.Add(Position{100, -100}))
	} else {
		box.Expand(b.Pos.Add(Position{100, 100}))
	}
	return box
}

// FieldID identifies a component field slot.
type FieldID int

const (
	FieldReference FieldID = iota
	FieldValue
	FieldFootprint
	FieldDatasheet
	numFields
)

// Field is one text field of a placed component. Positions are absolute
// sheet coordinates.
type Field struct {
	ID    FieldID
	Text  string
	Attrs TextAttrs
}

// HierRef records a placed component's reference within one sheet path.
type HierRef struct {
	Path string
	Ref  string
	Unit int
}

// Component is a placed instance of a library part.
type Component struct {
	LibID       string // part definition name in the symbol library
	Unit        int
	Pos         Position
	Orientation int  // 0, 90, 180, 270
	MirrorY     bool // mirrored about the vertical axis through Pos
	Timestamp   uuid.UUID
	References  []HierRef
	fields      [numFields]Field
}

func (c *Component) Position() Position { return c.Pos }

// SetPosition moves the component and its fields together.
func (c *Component) SetPosition(p Position) {
	d := p.Sub(c.Pos)
	c.Pos = p
	for i := range c.fields {
		c.fields[i].Attrs.Pos = c.fields[i].Attrs.Pos.Add(d)
	}
}

// The symbol body extent is not tracked per instance; the anchor point is
// enough for sheet fitting.
func (c *Component) BoundingBox() Box { return pointBox(c.Pos) }

// Field returns the field with the given ID.
func (c *Component) Field(id FieldID) *Field {
	f := &c.fields[id]
	f.ID = id
	return f
}

// AddHierRef appends a per-sheet-path reference binding.
func (c *Component) AddHierRef(path, ref string, unit int) {
	c.References = append(c.References, HierRef{Path: path, Ref: ref, Unit: unit})
}

// Screen owns the ordered draw-item list of one sheet plus its page setup.
type Screen struct {
	FileName string
	PageSize Size
	items    []Item
}

// A4PageSize is the default page in mils.
var A4PageSize = Size{Width: 11693, Height: 8268}

// NewScreen creates an empty screen with the default page size.
func NewScreen() *Screen {
	return &Screen{PageSize: A4PageSize}
}

// Append adds an item to the end of the draw list.
func (s *Screen) Append(it Item) {
	s.items = append(s.items, it)
}

// Items returns the live draw-item list.
func (s *Screen) Items() []Item {
	return s.items
}

// Remove deletes the first occurrence of it from the draw list.
func (s *Screen) Remove(it Item) {
	for i, cur := range s.items {
		if cur == it {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Sheet is a schematic page. The root sheet owns the document; child sheets
// of a multi-page import are items on the root screen.
type Sheet struct {
	Name      string
	FileName  string
	Pos       Position
	Timestamp uuid.UUID
	Screen    *Screen
}

func (s *Sheet) Position() Position     { return s.Pos }
func (s *Sheet) SetPosition(p Position) { s.Pos = p }
func (s *Sheet) BoundingBox() Box       { return pointBox(s.Pos) }

// NewSheet creates a sheet with an empty screen.
func NewSheet() *Sheet {
	return &Sheet{Screen: NewScreen()}
}
