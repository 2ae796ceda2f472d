package importer

import (
	"fmt"
	"math"
	"strings"

	"github.com/openboardtools/eaglesch/pkg/eagle"
	"github.com/openboardtools/eaglesch/pkg/schematic"
)

// loadSheet converts one <sheet>: buses and nets first, then instances, bus
// entries, plain graphics, and finally the page fit.
func (im *Importer) loadSheet(sheetNode *eagle.Node, index int) error {
	children := eagle.IndexChildren(sheetNode)
	screen := im.current.Screen

	name := ""
	if desc := children["description"]; desc != nil {
		name = strings.TrimSpace(desc.Content())
	}
	if name == "" {
		name = fmt.Sprintf("%s_%d", im.fileBase, index)
	}
	im.current.Name = name
	filename := sanitizeFileName(name) + ".sch"
	im.current.FileName = filename
	screen.FileName = filename

	if busses := children["busses"]; busses != nil {
		for _, n := range busses.Children {
			if n.Tag != "bus" {
				continue
			}
			if err := im.loadSegments(n, n.AttrDefault("name", "")); err != nil {
				return err
			}
		}
	}

	if nets := children["nets"]; nets != nil {
		for _, n := range nets.Children {
			if n.Tag != "net" {
				continue
			}
			if err := im.loadSegments(n, n.AttrDefault("name", "")); err != nil {
				return err
			}
		}
	}

	if instances := children["instances"]; instances != nil {
		for _, n := range instances.Children {
			if n.Tag != "instance" {
				continue
			}
			if err := im.loadInstance(n); err != nil {
				return err
			}
		}
	}

	// Bus entries need the full wire and bus geometry of the sheet.
	im.addBusEntries()

	if plain := children["plain"]; plain != nil {
		for _, n := range plain.Children {
			switch n.Tag {
			case "text":
				text, err := im.loadPlainText(n)
				if err != nil {
					return err
				}
				screen.Append(text)
			case "wire":
				line, err := im.loadWire(n)
				if err != nil {
					return err
				}
				screen.Append(line)
			}
		}
	}

	im.fitSheet()
	return nil
}

// sanitizeFileName replaces characters that cannot appear in a file name,
// and spaces, with underscores.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

// fitSheet grows the page until the content fits with margin and recentres
// all items onto it. The translation is snapped to the 100 mil grid so
// wires stay on-grid.
func (im *Importer) fitSheet() {
	screen := im.current.Screen

	bbox := schematic.NewBox()
	for _, it := range screen.Items() {
		bbox.ExpandBox(it.BoundingBox())
	}
	if bbox.IsEmpty() {
		return
	}

	target := bbox.Size()
	target.Width += 1500
	target.Height += 1500

	// Each axis grows independently to the exact target; the page never
	// shrinks below the A4 default.
	page := schematic.A4PageSize
	if page.Width < target.Width {
		page.Width = target.Width
	}
	if page.Height < target.Height {
		page.Height = target.Height
	}
	screen.PageSize = page

	centre := schematic.Position{X: page.Width / 2, Y: page.Height / 2}
	t := centre.Sub(bbox.Center())
	t.X -= t.X % 100
	t.Y -= t.Y % 100

	for _, it := range screen.Items() {
		it.SetPosition(it.Position().Add(t))
	}
}

// loadSegments converts the segments of one <net> or <bus>. Wires are
// collected before the label walk so labels can hit-test and re-home
// against the whole segment.
func (im *Importer) loadSegments(netNode *eagle.Node, netName string) error {
	screen := im.current.Screen
	segmentCount := eagle.CountChildren(netNode, "segment")

	for _, segmentNode := range netNode.Children {
		if segmentNode.Tag != "segment" {
			continue
		}

		var wires []*schematic.Line
		for _, n := range segmentNode.Children {
			if n.Tag != "wire" {
				continue
			}
			line, err := im.loadWire(n)
			if err != nil {
				return err
			}
			wires = append(wires, line)
		}

		labelled := false
		for _, n := range segmentNode.Children {
			switch n.Tag {
			case "junction":
				j, err := loadJunction(n)
				if err != nil {
					return err
				}
				screen.Append(j)
			case "label":
				item, err := im.loadLabel(n, netName, wires)
				if err != nil {
					return err
				}
				screen.Append(item)
				labelled = true
			}
			// pinref and portref carry connectivity only; nothing is drawn.
		}

		// An unlabelled segment of a multi-segment net would lose its net
		// binding; synthesize a label at the first wire's midpoint.
		if !labelled && len(wires) > 0 && segmentCount > 1 {
			text := escapeName(netName)
			pos := wires[0].MidPoint()
			if im.netCounts[netName] > 1 {
				screen.Append(&schematic.GlobalLabel{Text: text, Pos: pos, Size: 10})
			} else {
				screen.Append(&schematic.Label{Text: text, Pos: pos, Size: 10})
			}
		}

		for _, w := range wires {
			screen.Append(w)
		}
	}
	return nil
}

func (im *Importer) loadWire(n *eagle.Node) (*schematic.Line, error) {
	w, err := eagle.DecodeWire(n)
	if err != nil {
		return nil, err
	}
	return &schematic.Line{
		Layer: im.layerID(w.Layer),
		Start: schematic.Position{X: eagle.Mils(w.X1), Y: -eagle.Mils(w.Y1)},
		End:   schematic.Position{X: eagle.Mils(w.X2), Y: -eagle.Mils(w.Y2)},
	}, nil
}

func loadJunction(n *eagle.Node) (*schematic.Junction, error) {
	j, err := eagle.DecodeJunction(n)
	if err != nil {
		return nil, err
	}
	return &schematic.Junction{
		Pos: schematic.Position{X: eagle.Mils(j.X), Y: -eagle.Mils(j.Y)},
	}, nil
}

// loadLabel places a net label. A label whose position misses every wire of
// its segment is re-homed to the nearest wire start, midpoint or end.
func (im *Importer) loadLabel(n *eagle.Node, netName string, wires []*schematic.Line) (schematic.Item, error) {
	elabel, err := eagle.DecodeLabel(n)
	if err != nil {
		return nil, err
	}

	pos := schematic.Position{X: eagle.Mils(elabel.X), Y: -eagle.Mils(elabel.Y)}
	size := eagle.Mils(elabel.Size)
	text := escapeName(netName)

	spin := 0
	if elabel.Rot != nil {
		spin = (elabel.Rot.Degrees / 90) % 4
		// A mirrored horizontal label flips its facing.
		if elabel.Rot.Mirror && (spin == 0 || spin == 2) {
			spin = (spin + 2) % 4
		}
	}

	onWire := false
	for _, w := range wires {
		if w.HitTest(pos) {
			onWire = true
			break
		}
	}
	if !onWire && len(wires) > 0 {
		pos = findNearestLinePoint(pos, wires)
	}

	if im.netCounts[netName] > 1 {
		return &schematic.GlobalLabel{Text: text, Pos: pos, Size: size, SpinStyle: spin}, nil
	}
	return &schematic.Label{Text: text, Pos: pos, Size: size, SpinStyle: spin}, nil
}

// findNearestLinePoint scans the start, midpoint and end of every wire and
// returns the closest candidate. Ties keep the earliest-found point.
func findNearestLinePoint(p schematic.Position, wires []*schematic.Line) schematic.Position {
	nearest := p
	best := int64(math.MaxInt64)
	for _, w := range wires {
		for _, cand := range [3]schematic.Position{w.Start, w.MidPoint(), w.End} {
			if d := schematic.DistanceSq(p, cand); d < best {
				best = d
				nearest = cand
			}
		}
	}
	return nearest
}

func (im *Importer) loadPlainText(n *eagle.Node) (*schematic.Text, error) {
	etext, err := eagle.DecodeText(n)
	if err != nil {
		return nil, err
	}

	value := etext.Value
	if value == "" {
		value = "\" \""
	}

	text := &schematic.Text{Value: value}
	text.Attrs.Pos = schematic.Position{X: eagle.Mils(etext.X), Y: -eagle.Mils(etext.Y)}
	text.Attrs.Size = eagle.Mils(etext.Size)
	text.Attrs.Visible = true
	if etext.Ratio != nil && *etext.Ratio > 12 {
		text.Attrs.Bold = true
	}

	align := eagle.AlignBottomLeft
	if etext.Align != nil {
		align = *etext.Align
	}
	degrees, mirror := 0, false
	if etext.Rot != nil {
		degrees, mirror = etext.Rot.Degrees, etext.Rot.Mirror
	}
	applyAlignment(&text.Attrs, align, degrees, mirror, 0)

	return text, nil
}
