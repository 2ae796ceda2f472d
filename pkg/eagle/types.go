package eagle

import (
	"fmt"
	"strconv"
	"strings"
)

// Typed records for the Eagle element kinds the importer consumes. Optional
// attributes decode to pointers so absence stays distinguishable from zero.
// Required attributes that are missing or unparsable are decode errors; a
// decode error aborts the whole import.

func reqString(n *Node, name string) (string, error) {
	v, ok := n.Attr(name)
	if !ok {
		return "", fmt.Errorf("<%s> missing required attribute %q", n.Tag, name)
	}
	return v, nil
}

func reqFloat(n *Node, name string) (float64, error) {
	s, err := reqString(n, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("<%s> attribute %s=%q: %w", n.Tag, name, s, err)
	}
	return v, nil
}

func reqInt(n *Node, name string) (int, error) {
	s, err := reqString(n, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("<%s> attribute %s=%q: %w", n.Tag, name, s, err)
	}
	return v, nil
}

func optString(n *Node, name string) *string {
	if v, ok := n.Attr(name); ok {
		return &v
	}
	return nil
}

func optFloat(n *Node, name string) (*float64, error) {
	s, ok := n.Attr(name)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("<%s> attribute %s=%q: %w", n.Tag, name, s, err)
	}
	return &v, nil
}

func optInt(n *Node, name string) (*int, error) {
	s, ok := n.Attr(name)
	if !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("<%s> attribute %s=%q: %w", n.Tag, name, s, err)
	}
	return &v, nil
}

func optBool(n *Node, name string) *bool {
	s, ok := n.Attr(name)
	if !ok {
		return nil
	}
	v := s == "yes" || s == "true" || s == "1"
	return &v
}

// Rot is a decoded Eagle rotation attribute: optional spin flag S, optional
// mirror flag M, then R followed by degrees (e.g. "MR90").
type Rot struct {
	Mirror  bool
	Spin    bool
	Degrees int
}

// DecodeRot parses an Eagle rot token.
func DecodeRot(s string) (Rot, error) {
	var r Rot
	rest := s
	if strings.HasPrefix(rest, "S") {
		r.Spin = true
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "M") {
		r.Mirror = true
		rest = rest[1:]
	}
	if !strings.HasPrefix(rest, "R") {
		return Rot{}, fmt.Errorf("bad rotation %q", s)
	}
	deg, err := strconv.ParseFloat(rest[1:], 64)
	if err != nil {
		return Rot{}, fmt.Errorf("bad rotation %q: %w", s, err)
	}
	r.Degrees = int(deg)
	return r, nil
}

func optRot(n *Node) (*Rot, error) {
	s, ok := n.Attr("rot")
	if !ok {
		return nil, nil
	}
	r, err := DecodeRot(s)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Align is a signed 9-way text alignment code. Opposite alignments are
// negations of each other so a 180-degree relative rotation is a sign flip.
type Align int

const (
	AlignCenter       Align = 0
	AlignCenterLeft   Align = 1
	AlignTopCenter    Align = 2
	AlignTopLeft      Align = 3
	AlignTopRight     Align = 4
	AlignCenterRight  Align = -AlignCenterLeft
	AlignBottomCenter Align = -AlignTopCenter
	AlignBottomRight  Align = -AlignTopLeft
	AlignBottomLeft   Align = -AlignTopRight
)

// DecodeAlign parses an Eagle align token. Unknown tokens fall back to
// bottom-left, Eagle's drawing default.
func DecodeAlign(s string) Align {
	switch s {
	case "center":
		return AlignCenter
	case "center-left":
		return AlignCenterLeft
	case "center-right":
		return AlignCenterRight
	case "top-center":
		return AlignTopCenter
	case "top-left":
		return AlignTopLeft
	case "top-right":
		return AlignTopRight
	case "bottom-center":
		return AlignBottomCenter
	case "bottom-right":
		return AlignBottomRight
	default:
		return AlignBottomLeft
	}
}

func optAlign(n *Node) *Align {
	s, ok := n.Attr("align")
	if !ok {
		return nil
	}
	a := DecodeAlign(s)
	return &a
}

// Wire is a straight or curved line segment on some layer.
type Wire struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
	Layer  int
	Curve  *float64 // included angle in degrees; nil for straight wires
}

func DecodeWire(n *Node) (Wire, error) {
	var w Wire
	var err error
	if w.X1, err = reqFloat(n, "x1"); err != nil {
		return w, err
	}
	if w.Y1, err = reqFloat(n, "y1"); err != nil {
		return w, err
	}
	if w.X2, err = reqFloat(n, "x2"); err != nil {
		return w, err
	}
	if w.Y2, err = reqFloat(n, "y2"); err != nil {
		return w, err
	}
	if w.Width, err = reqFloat(n, "width"); err != nil {
		return w, err
	}
	if w.Layer, err = reqInt(n, "layer"); err != nil {
		return w, err
	}
	if w.Curve, err = optFloat(n, "curve"); err != nil {
		return w, err
	}
	return w, nil
}

// Junction marks an electrical connection point between wires.
type Junction struct {
	X, Y float64
}

func DecodeJunction(n *Node) (Junction, error) {
	var j Junction
	var err error
	if j.X, err = reqFloat(n, "x"); err != nil {
		return j, err
	}
	if j.Y, err = reqFloat(n, "y"); err != nil {
		return j, err
	}
	return j, nil
}

// Label attaches a net name to a segment.
type Label struct {
	X, Y  float64
	Size  float64
	Layer int
	Rot   *Rot
}

func DecodeLabel(n *Node) (Label, error) {
	var l Label
	var err error
	if l.X, err = reqFloat(n, "x"); err != nil {
		return l, err
	}
	if l.Y, err = reqFloat(n, "y"); err != nil {
		return l, err
	}
	if l.Size, err = reqFloat(n, "size"); err != nil {
		return l, err
	}
	if l.Layer, err = reqInt(n, "layer"); err != nil {
		return l, err
	}
	if l.Rot, err = optRot(n); err != nil {
		return l, err
	}
	return l, nil
}

// Text is free text in a symbol or on a sheet. Value is the element content.
type Text struct {
	X, Y  float64
	Size  float64
	Layer int
	Ratio *int
	Rot   *Rot
	Align *Align
	Value string
}

func DecodeText(n *Node) (Text, error) {
	var t Text
	var err error
	if t.X, err = reqFloat(n, "x"); err != nil {
		return t, err
	}
	if t.Y, err = reqFloat(n, "y"); err != nil {
		return t, err
	}
	if t.Size, err = reqFloat(n, "size"); err != nil {
		return t, err
	}
	if t.Layer, err = reqInt(n, "layer"); err != nil {
		return t, err
	}
	if t.Ratio, err = optInt(n, "ratio"); err != nil {
		return t, err
	}
	if t.Rot, err = optRot(n); err != nil {
		return t, err
	}
	t.Align = optAlign(n)
	t.Value = n.Content()
	return t, nil
}

// Pin is a symbol connection point.
type Pin struct {
	Name      string
	X, Y      float64
	Visible   *string
	Length    *string
	Direction *string
	Function  *string
	Rot       *Rot
}

func DecodePin(n *Node) (Pin, error) {
	var p Pin
	var err error
	if p.Name, err = reqString(n, "name"); err != nil {
		return p, err
	}
	if p.X, err = reqFloat(n, "x"); err != nil {
		return p, err
	}
	if p.Y, err = reqFloat(n, "y"); err != nil {
		return p, err
	}
	p.Visible = optString(n, "visible")
	p.Length = optString(n, "length")
	p.Direction = optString(n, "direction")
	p.Function = optString(n, "function")
	if p.Rot, err = optRot(n); err != nil {
		return p, err
	}
	return p, nil
}

// Circle is a symbol graphic.
type Circle struct {
	X, Y   float64
	Radius float64
	Width  float64
	Layer  int
}

func DecodeCircle(n *Node) (Circle, error) {
	var c Circle
	var err error
	if c.X, err = reqFloat(n, "x"); err != nil {
		return c, err
	}
	if c.Y, err = reqFloat(n, "y"); err != nil {
		return c, err
	}
	if c.Radius, err = reqFloat(n, "radius"); err != nil {
		return c, err
	}
	if c.Width, err = reqFloat(n, "width"); err != nil {
		return c, err
	}
	if c.Layer, err = reqInt(n, "layer"); err != nil {
		return c, err
	}
	return c, nil
}

// Rect is a filled symbol rectangle.
type Rect struct {
	X1, Y1 float64
	X2, Y2 float64
	Layer  int
}

func DecodeRect(n *Node) (Rect, error) {
	var r Rect
	var err error
	if r.X1, err = reqFloat(n, "x1"); err != nil {
		return r, err
	}
	if r.Y1, err = reqFloat(n, "y1"); err != nil {
		return r, err
	}
	if r.X2, err = reqFloat(n, "x2"); err != nil {
		return r, err
	}
	if r.Y2, err = reqFloat(n, "y2"); err != nil {
		return r, err
	}
	if r.Layer, err = reqInt(n, "layer"); err != nil {
		return r, err
	}
	return r, nil
}

// Polygon is a filled symbol outline; its vertices are child elements.
type Polygon struct {
	Width float64
	Layer int
}

func DecodePolygon(n *Node) (Polygon, error) {
	var p Polygon
	var err error
	if p.Width, err = reqFloat(n, "width"); err != nil {
		return p, err
	}
	if p.Layer, err = reqInt(n, "layer"); err != nil {
		return p, err
	}
	return p, nil
}

// Vertex is one point of a polygon.
type Vertex struct {
	X, Y  float64
	Curve *float64
}

func DecodeVertex(n *Node) (Vertex, error) {
	var v Vertex
	var err error
	if v.X, err = reqFloat(n, "x"); err != nil {
		return v, err
	}
	if v.Y, err = reqFloat(n, "y"); err != nil {
		return v, err
	}
	if v.Curve, err = optFloat(n, "curve"); err != nil {
		return v, err
	}
	return v, nil
}

// Instance places one gate of a part on a sheet.
type Instance struct {
	Part    string
	Gate    string
	X, Y    float64
	Smashed *bool
	Rot     *Rot
}

func DecodeInstance(n *Node) (Instance, error) {
	var i Instance
	var err error
	if i.Part, err = reqString(n, "part"); err != nil {
		return i, err
	}
	if i.Gate, err = reqString(n, "gate"); err != nil {
		return i, err
	}
	if i.X, err = reqFloat(n, "x"); err != nil {
		return i, err
	}
	if i.Y, err = reqFloat(n, "y"); err != nil {
		return i, err
	}
	i.Smashed = optBool(n, "smashed")
	if i.Rot, err = optRot(n); err != nil {
		return i, err
	}
	return i, nil
}

// Part binds an instance name to a library deviceset/device.
type Part struct {
	Name      string
	Library   string
	Deviceset string
	Device    string
	Value     *string
}

func DecodePart(n *Node) (Part, error) {
	var p Part
	var err error
	if p.Name, err = reqString(n, "name"); err != nil {
		return p, err
	}
	if p.Library, err = reqString(n, "library"); err != nil {
		return p, err
	}
	if p.Deviceset, err = reqString(n, "deviceset"); err != nil {
		return p, err
	}
	if p.Device, err = reqString(n, "device"); err != nil {
		return p, err
	}
	p.Value = optString(n, "value")
	return p, nil
}

// DeviceSet groups package variants of one logical part.
type DeviceSet struct {
	Name      string
	Prefix    *string
	UserValue *bool
}

func DecodeDeviceSet(n *Node) (DeviceSet, error) {
	var d DeviceSet
	var err error
	if d.Name, err = reqString(n, "name"); err != nil {
		return d, err
	}
	d.Prefix = optString(n, "prefix")
	d.UserValue = optBool(n, "uservalue")
	return d, nil
}

// Connect maps a logical (gate, pin) to one or more physical pads. Pad is a
// whitespace-separated pad name list.
type Connect struct {
	Gate string
	Pin  string
	Pad  string
}

func DecodeConnect(n *Node) (Connect, error) {
	var c Connect
	var err error
	if c.Gate, err = reqString(n, "gate"); err != nil {
		return c, err
	}
	if c.Pin, err = reqString(n, "pin"); err != nil {
		return c, err
	}
	if c.Pad, err = reqString(n, "pad"); err != nil {
		return c, err
	}
	return c, nil
}

// Device is one package variant inside a deviceset. The name is frequently
// the empty string for single-variant devicesets.
type Device struct {
	Name     string
	Package  *string
	Connects []Connect
}

func DecodeDevice(n *Node) (Device, error) {
	var d Device
	d.Name = n.AttrDefault("name", "")
	d.Package = optString(n, "package")

	if connects := n.FirstChild("connects"); connects != nil {
		for _, c := range connects.Children {
			if c.Tag != "connect" {
				continue
			}
			conn, err := DecodeConnect(c)
			if err != nil {
				return d, err
			}
			d.Connects = append(d.Connects, conn)
		}
	}
	return d, nil
}

// Gate names one alternate body of a deviceset and the symbol drawing it.
type Gate struct {
	Name   string
	Symbol string
	X, Y   float64
}

func DecodeGate(n *Node) (Gate, error) {
	var g Gate
	var err error
	if g.Name, err = reqString(n, "name"); err != nil {
		return g, err
	}
	if g.Symbol, err = reqString(n, "symbol"); err != nil {
		return g, err
	}
	if g.X, err = reqFloat(n, "x"); err != nil {
		return g, err
	}
	if g.Y, err = reqFloat(n, "y"); err != nil {
		return g, err
	}
	return g, nil
}

// Display controls which parts of an attribute render.
type Display int

const (
	DisplayValue Display = iota // default
	DisplayOff
	DisplayName
	DisplayBoth
)

// Attr is an instance <attribute> override (smashed field placement).
type Attr struct {
	Name    string
	Value   *string
	X, Y    *float64
	Size    *float64
	Rot     *Rot
	Display Display
	Align   *Align
}

func DecodeAttr(n *Node) (Attr, error) {
	var a Attr
	var err error
	if a.Name, err = reqString(n, "name"); err != nil {
		return a, err
	}
	a.Value = optString(n, "value")
	if a.X, err = optFloat(n, "x"); err != nil {
		return a, err
	}
	if a.Y, err = optFloat(n, "y"); err != nil {
		return a, err
	}
	if a.Size, err = optFloat(n, "size"); err != nil {
		return a, err
	}
	if a.Rot, err = optRot(n); err != nil {
		return a, err
	}
	switch n.AttrDefault("display", "value") {
	case "off":
		a.Display = DisplayOff
	case "name":
		a.Display = DisplayName
	case "both":
		a.Display = DisplayBoth
	default:
		a.Display = DisplayValue
	}
	a.Align = optAlign(n)
	return a, nil
}

// Layer is one entry of the document layer table.
type Layer struct {
	Number  int
	Name    string
	Color   int
	Fill    int
	Visible bool
	Active  bool
}

func DecodeLayer(n *Node) (Layer, error) {
	var l Layer
	var err error
	if l.Number, err = reqInt(n, "number"); err != nil {
		return l, err
	}
	if l.Name, err = reqString(n, "name"); err != nil {
		return l, err
	}
	if l.Color, err = reqInt(n, "color"); err != nil {
		return l, err
	}
	if l.Fill, err = reqInt(n, "fill"); err != nil {
		return l, err
	}
	l.Visible = n.AttrDefault("visible", "yes") == "yes"
	l.Active = n.AttrDefault("active", "yes") == "yes"
	return l, nil
}
