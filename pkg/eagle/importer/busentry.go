package importer

import (
	"github.com/openboardtools/eaglesch/pkg/schematic"
)

// addBusEntries inserts a diagonal connector wherever a wire endpoint lands
// exactly on a bus run, re-homing the wire endpoint by 100 mils to make
// room. Geometry too ambiguous for a connector gets a visible marker
// instead; every coincident endpoint yields exactly one of the two.
func (im *Importer) addBusEntries() {
	screen := im.current.Screen

	items := append([]schematic.Item(nil), screen.Items()...)
	removed := map[schematic.Item]bool{}

	for _, bi := range items {
		bus, ok := bi.(*schematic.Line)
		if !ok || bus.Layer != schematic.LayerBus {
			continue
		}
		for _, wi := range items {
			wire, ok := wi.(*schematic.Line)
			if !ok || wire.Layer != schematic.LayerWire || removed[wi] {
				continue
			}
			if im.entriesForWire(bus, wire) {
				removed[wi] = true
			}
		}
	}
}

// entriesForWire handles one (bus, wire) pair. Both endpoints can sit on
// the same bus run; each coincident endpoint gets its own connector or
// marker. Reports whether the wire was deleted from the screen.
func (im *Importer) entriesForWire(bus, wire *schematic.Line) bool {
	if bus.HitTest(wire.Start) {
		if im.entryAtEndpoint(bus, wire, true) {
			return true
		}
	}
	if bus.HitTest(wire.End) {
		return im.entryAtEndpoint(bus, wire, false)
	}
	return false
}

func (im *Importer) entryAtEndpoint(bus, wire *schematic.Line, atStart bool) bool {
	wireHoriz := wire.Start.Y == wire.End.Y
	wireVert := wire.Start.X == wire.End.X
	busHoriz := bus.Start.Y == bus.End.Y
	busVert := bus.Start.X == bus.End.X

	switch {
	case wireHoriz && busVert:
		im.entryHorizontalWire(bus, wire, atStart)
	case wireVert && busHoriz:
		im.entryVerticalWire(bus, wire, atStart)
	case !wireHoriz && !wireVert:
		return im.entryDiagonalWire(bus, wire, atStart)
	default:
		// Wire running along the bus axis; no connector direction exists.
		if atStart {
			im.marker(wire.Start)
		} else {
			im.marker(wire.End)
		}
	}
	return false
}

func (im *Importer) marker(p schematic.Position) {
	im.current.Screen.Append(&schematic.Marker{Pos: p, Comment: "Bus Entry needed"})
}

func (im *Importer) entry(p schematic.Position, shape byte) {
	im.current.Screen.Append(&schematic.BusEntry{Pos: p, Shape: shape})
}

// entryHorizontalWire: horizontal wire meeting a vertical bus. The probe at
// +-100 mils along the bus decides which diagonal leaves room.
func (im *Importer) entryHorizontalWire(bus, wire *schematic.Line, onStart bool) {
	if onStart {
		p := wire.Start
		if wire.End.X < p.X {
			// Wire extends to the left of the bus.
			switch {
			case bus.HitTest(p.Add(schematic.Position{X: 0, Y: -100})):
				im.entry(p.Add(schematic.Position{X: -100, Y: 0}), '/')
			case bus.HitTest(p.Add(schematic.Position{X: 0, Y: 100})):
				im.entry(p.Add(schematic.Position{X: -100, Y: 0}), '\\')
			default:
				im.marker(p)
				return
			}
			im.moveLabels(wire, p.Add(schematic.Position{X: -100, Y: 0}))
			wire.Start = p.Add(schematic.Position{X: -100, Y: 0})
		} else {
			switch {
			case bus.HitTest(p.Add(schematic.Position{X: 0, Y: -100})):
				im.entry(p.Add(schematic.Position{X: 0, Y: -100}), '\\')
			case bus.HitTest(p.Add(schematic.Position{X: 0, Y: 100})):
				im.entry(p.Add(schematic.Position{X: 0, Y: 100}), '/')
			default:
				im.marker(p)
				return
			}
			im.moveLabels(wire, p.Add(schematic.Position{X: 100, Y: 0}))
			wire.Start = p.Add(schematic.Position{X: 100, Y: 0})
		}
		return
	}

	p := wire.End
	if wire.Start.X < p.X {
		// Wire extends to the left of the bus.
		switch {
		case bus.HitTest(p.Add(schematic.Position{X: 0, Y: 100})):
			im.entry(p.Add(schematic.Position{X: -100, Y: 0}), '\\')
		case bus.HitTest(p.Add(schematic.Position{X: 0, Y: -100})):
			im.entry(p.Add(schematic.Position{X: -100, Y: 0}), '/')
		default:
			im.marker(p)
			return
		}
		im.moveLabels(wire, p.Add(schematic.Position{X: -100, Y: 0}))
		wire.End = p.Add(schematic.Position{X: -100, Y: 0})
	} else {
		switch {
		case bus.HitTest(p.Add(schematic.Position{X: 0, Y: -100})):
			im.entry(p.Add(schematic.Position{X: 0, Y: -100}), '\\')
		case bus.HitTest(p.Add(schematic.Position{X: 0, Y: 100})):
			im.entry(p.Add(schematic.Position{X: 0, Y: 100}), '/')
		default:
			im.marker(p)
			return
		}
		im.moveLabels(wire, p.Add(schematic.Position{X: 100, Y: 0}))
		wire.End = p.Add(schematic.Position{X: 100, Y: 0})
	}
}

// entryVerticalWire: vertical wire meeting a horizontal bus.
func (im *Importer) entryVerticalWire(bus, wire *schematic.Line, onStart bool) {
	if onStart {
		p := wire.Start
		if wire.End.Y < p.Y {
			// Wire extends above the bus.
			switch {
			case bus.HitTest(p.Add(schematic.Position{X: -100, Y: 0})):
				im.entry(p.Add(schematic.Position{X: -100, Y: 0}), '/')
			case bus.HitTest(p.Add(schematic.Position{X: 100, Y: 0})):
				im.entry(p.Add(schematic.Position{X: 0, Y: 100}), '\\')
			default:
				im.marker(p)
				return
			}
			im.moveLabels(wire, p.Add(schematic.Position{X: 0, Y: -100}))
			wire.Start = p.Add(schematic.Position{X: 0, Y: -100})
		} else {
			switch {
			case bus.HitTest(p.Add(schematic.Position{X: -100, Y: 0})):
				im.entry(p.Add(schematic.Position{X: -100, Y: 0}), '\\')
			case bus.HitTest(p.Add(schematic.Position{X: 100, Y: 0})):
				im.entry(p.Add(schematic.Position{X: 100, Y: 0}), '/')
			default:
				im.marker(p)
				return
			}
			im.moveLabels(wire, p.Add(schematic.Position{X: 0, Y: 100}))
			wire.Start = p.Add(schematic.Position{X: 0, Y: 100})
		}
		return
	}

	p := wire.End
	if wire.Start.Y < p.Y {
		// Wire extends above the bus.
		switch {
		case bus.HitTest(p.Add(schematic.Position{X: -100, Y: 0})):
			im.entry(p.Add(schematic.Position{X: -100, Y: 0}), '/')
		case bus.HitTest(p.Add(schematic.Position{X: 100, Y: 0})):
			im.entry(p.Add(schematic.Position{X: 0, Y: -100}), '\\')
		default:
			im.marker(p)
			return
		}
		im.moveLabels(wire, p.Add(schematic.Position{X: 0, Y: -100}))
		wire.End = p.Add(schematic.Position{X: 0, Y: -100})
	} else {
		switch {
		case bus.HitTest(p.Add(schematic.Position{X: -100, Y: 0})):
			im.entry(p.Add(schematic.Position{X: -100, Y: 0}), '\\')
		case bus.HitTest(p.Add(schematic.Position{X: 100, Y: 0})):
			im.entry(p.Add(schematic.Position{X: 0, Y: 100}), '/')
		default:
			im.marker(p)
			return
		}
		im.moveLabels(wire, p.Add(schematic.Position{X: 0, Y: 100}))
		wire.End = p.Add(schematic.Position{X: 0, Y: 100})
	}
}

// entryDiagonalWire: the connector direction follows the sign of the wire's
// direction vector. Re-homing can collapse a 100x100 stub to zero length,
// in which case the wire is deleted. Reports deletion.
func (im *Importer) entryDiagonalWire(bus, wire *schematic.Line, onStart bool) bool {
	v := wire.Start.Sub(wire.End)

	if onStart {
		var p schematic.Position
		switch {
		case v.X > 0 && v.Y > 0:
			p = wire.Start.Add(schematic.Position{X: -100, Y: -100})
			im.entry(p, '\\')
		case v.X > 0:
			p = wire.Start.Add(schematic.Position{X: -100, Y: 100})
			im.entry(p, '/')
		case v.Y > 0:
			im.entry(wire.Start, '/')
			p = wire.Start.Add(schematic.Position{X: 100, Y: -100})
		default:
			im.entry(wire.Start, '\\')
			p = wire.Start.Add(schematic.Position{X: 100, Y: 100})
		}
		im.moveLabels(wire, p)
		if p == wire.End {
			im.current.Screen.Remove(wire)
			return true
		}
		wire.Start = p
		return false
	}

	var p schematic.Position
	switch {
	case v.X > 0 && v.Y > 0:
		p = wire.End.Add(schematic.Position{X: 100, Y: 100})
		im.entry(wire.End, '\\')
	case v.X > 0:
		p = wire.End.Add(schematic.Position{X: 100, Y: -100})
		im.entry(wire.End, '/')
	case v.Y > 0:
		p = wire.End.Add(schematic.Position{X: -100, Y: 100})
		im.entry(p, '/')
	default:
		p = wire.End.Add(schematic.Position{X: -100, Y: -100})
		im.entry(p, '\\')
	}
	im.moveLabels(wire, p)
	if p == wire.Start {
		im.current.Screen.Remove(wire)
		return true
	}
	wire.End = p
	return false
}

// moveLabels drags every label sitting on the wire along with a re-homed
// endpoint.
func (im *Importer) moveLabels(wire *schematic.Line, newPos schematic.Position) {
	for _, it := range im.current.Screen.Items() {
		switch l := it.(type) {
		case *schematic.Label:
			if wire.HitTest(l.Pos) {
				l.Pos = newPos
			}
		case *schematic.GlobalLabel:
			if wire.HitTest(l.Pos) {
				l.Pos = newPos
			}
		}
	}
}
