package importer

import (
	"fmt"
	"strings"

	"github.com/openboardtools/eaglesch/pkg/eagle"
	"github.com/openboardtools/eaglesch/pkg/schematic"
)

// eagleLibrary indexes one foreign <library> while its devicesets resolve:
// raw symbol nodes by name, gate keys to unit numbers, package names, and
// the finished part definitions.
type eagleLibrary struct {
	name        string
	symbolNodes map[string]*eagle.Node
	gateUnit    map[string]int
	packages    map[string]string
	parts       map[string]*schematic.LibPart
}

func newEagleLibrary(name string) *eagleLibrary {
	return &eagleLibrary{
		name:        name,
		symbolNodes: map[string]*eagle.Node{},
		gateUnit:    map[string]int{},
		packages:    map[string]string{},
		parts:       map[string]*schematic.LibPart{},
	}
}

// loadLibrary resolves every (deviceset, device) combination of the library
// into a multi-unit part definition and registers it in the companion
// library.
func (im *Importer) loadLibrary(libraryNode *eagle.Node, elib *eagleLibrary) error {
	children := eagle.IndexChildren(libraryNode)

	if symbols := children["symbols"]; symbols != nil {
		for _, n := range symbols.Children {
			if n.Tag != "symbol" {
				continue
			}
			name, ok := n.Attr("name")
			if !ok {
				return fmt.Errorf("<symbol> missing required attribute \"name\"")
			}
			elib.symbolNodes[name] = n
		}
	}

	devicesets := children["devicesets"]
	if devicesets == nil {
		return nil
	}

	for _, devicesetNode := range devicesets.Children {
		if devicesetNode.Tag != "deviceset" {
			continue
		}
		edeviceset, err := eagle.DecodeDeviceSet(devicesetNode)
		if err != nil {
			return err
		}
		prefix := ""
		if edeviceset.Prefix != nil {
			prefix = *edeviceset.Prefix
		}

		dsChildren := eagle.IndexChildren(devicesetNode)
		devices := dsChildren["devices"]
		gates := dsChildren["gates"]
		if devices == nil || gates == nil {
			continue
		}
		gateCount := eagle.CountChildren(gates, "gate")

		for _, deviceNode := range devices.Children {
			if deviceNode.Tag != "device" {
				continue
			}
			edevice, err := eagle.DecodeDevice(deviceNode)
			if err != nil {
				return err
			}

			symbolName := strings.ReplaceAll(edeviceset.Name+edevice.Name, "*", "")

			if edevice.Package != nil {
				elib.packages[symbolName] = *edevice.Package
			}

			part := schematic.NewLibPart(symbolName)
			part.UnitCount = gateCount

			if prefix == "" {
				part.Reference.Attrs.Visible = false
			} else {
				part.Reference.Text = prefix
			}

			gateIndex := 1
			isPower := false
			for _, gateNode := range gates.Children {
				if gateNode.Tag != "gate" {
					continue
				}
				egate, err := eagle.DecodeGate(gateNode)
				if err != nil {
					return err
				}

				elib.gateUnit[edeviceset.Name+edevice.Name+egate.Name] = gateIndex

				symbolNode := elib.symbolNodes[egate.Symbol]
				if symbolNode == nil {
					im.log.Warn("gate references unknown symbol, skipped",
						"library", elib.name, "deviceset", edeviceset.Name, "symbol", egate.Symbol)
					gateIndex++
					continue
				}

				isPower, err = im.loadSymbol(symbolNode, part, &edevice, gateIndex, egate.Name)
				if err != nil {
					return err
				}
				gateIndex++
			}

			if gateCount == 1 && isPower {
				part.Power = true
			}

			im.partLib.Add(part)
			elib.parts[part.Name] = part
		}
	}
	return nil
}

// loadSymbol decodes one symbol's graphic primitives into the part, tagged
// with the gate's unit number. Returns whether the symbol qualifies as a
// single-pin power symbol.
func (im *Importer) loadSymbol(symbolNode *eagle.Node, part *schematic.LibPart, device *eagle.Device, gateNumber int, gateName string) (bool, error) {
	foundName := false
	foundValue := false
	isPower := false
	pinCount := 0

	for _, n := range symbolNode.Children {
		switch n.Tag {
		case "circle":
			item, err := loadSymbolCircle(n, gateNumber)
			if err != nil {
				return false, err
			}
			part.AddItem(item)

		case "pin":
			ePin, err := eagle.DecodePin(n)
			if err != nil {
				return false, err
			}
			pin, err := loadPin(&ePin, gateNumber)
			if err != nil {
				return false, err
			}
			pinCount++

			if ePin.Direction != nil {
				switch strings.ToLower(*ePin.Direction) {
				case "sup":
					isPower = true
					pin.Type = schematic.PinPowerIn
				case "pas":
					pin.Type = schematic.PinPassive
				case "out":
					pin.Type = schematic.PinOutput
				case "in":
					pin.Type = schematic.PinInput
				case "nc":
					pin.Type = schematic.PinNoConnect
				case "io":
					pin.Type = schematic.PinBidirectional
				case "oc":
					pin.Type = schematic.PinOpenCollector
				case "hiz":
					pin.Type = schematic.PinTristate
				default:
					pin.Type = schematic.PinUnspecified
				}
			}

			if len(device.Connects) != 0 {
				// Fan the logical pin out to its physical pads. Pins
				// without a matching connect entry are not drawn.
				for _, connect := range device.Connects {
					if connect.Gate != gateName || pin.Name != connect.Pin {
						continue
					}
					pads := strings.Fields(connect.Pad)
					pin.Name = escapeName(pin.Name)
					if len(pads) > 1 {
						pin.NumberTextSize = 0
					}
					for _, pad := range pads {
						clone := pin.Clone()
						clone.Number = pad
						part.AddItem(clone)
					}
					break
				}
			} else {
				pin.Number = fmt.Sprintf("%d", pinCount)
				part.AddItem(pin)
			}

		case "polygon":
			item, err := loadSymbolPolyline(n, gateNumber)
			if err != nil {
				return false, err
			}
			part.AddItem(item)

		case "rectangle":
			item, err := loadSymbolRectangle(n, gateNumber)
			if err != nil {
				return false, err
			}
			part.AddItem(item)

		case "text":
			text, err := loadSymbolText(n, gateNumber)
			if err != nil {
				return false, err
			}
			upper := strings.ToUpper(text.Value)
			if upper == ">NAME" || upper == ">VALUE" {
				var field *schematic.LibField
				if upper == ">NAME" {
					field = part.Field(schematic.FieldReference)
					foundName = true
				} else {
					field = part.Field(schematic.FieldValue)
					foundValue = true
				}
				field.Attrs.Pos = text.Attrs.Pos
				field.Attrs.Size = text.Attrs.Size
				field.Attrs.Bold = text.Attrs.Bold
				field.Attrs.Vertical = text.Attrs.Vertical
				field.Attrs.HJustify = text.Attrs.HJustify
				field.Attrs.VJustify = text.Attrs.VJustify
				field.Attrs.Visible = true
			} else {
				part.AddItem(text)
			}

		case "wire":
			item, err := loadSymbolWire(n, gateNumber)
			if err != nil {
				return false, err
			}
			part.AddItem(item)
		}
		// description, dimension and frame children are not imported.
	}

	if !foundName {
		part.Reference.Attrs.Visible = false
	}
	if !foundValue {
		part.Value.Attrs.Visible = false
	}

	if pinCount == 1 {
		return isPower, nil
	}
	return false, nil
}

func loadSymbolCircle(n *eagle.Node, gateNumber int) (*schematic.LibCircle, error) {
	c, err := eagle.DecodeCircle(n)
	if err != nil {
		return nil, err
	}
	return &schematic.LibCircle{
		Unit:   gateNumber,
		Center: schematic.Position{X: eagle.Mils(c.X), Y: eagle.Mils(c.Y)},
		Radius: eagle.Mils(c.Radius),
		Width:  eagle.Mils(c.Width),
	}, nil
}

func loadSymbolRectangle(n *eagle.Node, gateNumber int) (*schematic.LibRect, error) {
	r, err := eagle.DecodeRect(n)
	if err != nil {
		return nil, err
	}
	// Eagle rectangles are filled by definition.
	return &schematic.LibRect{
		Unit:   gateNumber,
		Start:  schematic.Position{X: eagle.Mils(r.X1), Y: eagle.Mils(r.Y1)},
		End:    schematic.Position{X: eagle.Mils(r.X2), Y: eagle.Mils(r.Y2)},
		Filled: true,
	}, nil
}

func loadSymbolPolyline(n *eagle.Node, gateNumber int) (*schematic.LibPolyline, error) {
	p, err := eagle.DecodePolygon(n)
	if err != nil {
		return nil, err
	}
	poly := &schematic.LibPolyline{
		Unit:   gateNumber,
		Width:  eagle.Mils(p.Width),
		Filled: true,
	}
	for _, v := range n.Children {
		if v.Tag != "vertex" {
			continue
		}
		vertex, err := eagle.DecodeVertex(v)
		if err != nil {
			return nil, err
		}
		poly.AddPoint(schematic.Position{X: eagle.Mils(vertex.X), Y: eagle.Mils(vertex.Y)})
	}
	return poly, nil
}

// loadSymbolWire builds a polyline for a straight wire, or reconstructs an
// arc from the chord and included angle for a curved one.
func loadSymbolWire(n *eagle.Node, gateNumber int) (schematic.LibItem, error) {
	w, err := eagle.DecodeWire(n)
	if err != nil {
		return nil, err
	}

	begin := schematic.PointF{X: eagle.MilsF(w.X1), Y: eagle.MilsF(w.Y1)}
	end := schematic.PointF{X: eagle.MilsF(w.X2), Y: eagle.MilsF(w.Y2)}

	if w.Curve == nil {
		poly := &schematic.LibPolyline{Unit: gateNumber, Width: eagle.Mils(w.Width)}
		poly.AddPoint(begin.Round())
		poly.AddPoint(end.Round())
		return poly, nil
	}

	center := schematic.ArcCenter(begin, end, -*w.Curve)
	radius := schematic.Distance(center, begin)
	width := eagle.Mils(w.Width)

	arc := &schematic.LibArc{
		Unit:   gateNumber,
		Center: center.Round(),
		Radius: int(radius),
		Width:  width,
	}
	if *w.Curve > 0 {
		arc.Start = begin.Round()
		arc.End = end.Round()
	} else {
		arc.Start = end.Round()
		arc.End = begin.Round()
	}

	// A thick arc with flat end caps renders as a filled band; emulate it
	// by pushing the endpoints outward and filling.
	if float64(width*2) > radius {
		scale := float64(width) + radius
		begin = schematic.PointF{
			X: center.X + (begin.X-center.X)/radius*scale,
			Y: center.Y + (begin.Y-center.Y)/radius*scale,
		}
		end = schematic.PointF{
			X: center.X + (end.X-center.X)/radius*scale,
			Y: center.Y + (end.Y-center.Y)/radius*scale,
		}
		arc.Radius = int(schematic.Distance(center, begin))
		if *w.Curve > 0 {
			arc.Start = begin.Round()
			arc.End = end.Round()
		} else {
			arc.Start = end.Round()
			arc.End = begin.Round()
		}
		arc.Width = 1
		arc.Filled = true
	}

	return arc, nil
}

func loadSymbolText(n *eagle.Node, gateNumber int) (*schematic.LibText, error) {
	etext, err := eagle.DecodeText(n)
	if err != nil {
		return nil, err
	}

	text := &schematic.LibText{
		Unit:  gateNumber,
		Value: etext.Value,
		Attrs: schematic.TextAttrs{
			Pos:     schematic.Position{X: eagle.Mils(etext.X), Y: eagle.Mils(etext.Y)},
			Size:    eagle.Mils(etext.Size),
			Visible: true,
		},
	}
	if etext.Ratio != nil && *etext.Ratio > 12 {
		text.Attrs.Bold = true
	}

	align := eagle.AlignBottomLeft
	if etext.Align != nil {
		align = *etext.Align
	}
	degrees := 0
	mirror := false
	if etext.Rot != nil {
		degrees = etext.Rot.Degrees
		mirror = etext.Rot.Mirror
	}
	applyAlignment(&text.Attrs, align, degrees, mirror, 0)

	return text, nil
}

// loadPin maps one Eagle pin onto the internal pin model. The electrical
// type is assigned by the caller, which also owns pad fan-out.
func loadPin(ePin *eagle.Pin, gateNumber int) (*schematic.LibPin, error) {
	pin := &schematic.LibPin{
		Unit:           gateNumber,
		Name:           ePin.Name,
		Pos:            schematic.Position{X: eagle.Mils(ePin.X), Y: eagle.Mils(ePin.Y)},
		Length:         schematic.DefaultPinLength,
		NameTextSize:   schematic.DefaultTextSize,
		NumberTextSize: schematic.DefaultTextSize,
	}

	degrees := 0
	if ePin.Rot != nil {
		degrees = ePin.Rot.Degrees
	}
	switch degrees {
	case 0:
		pin.Orientation = schematic.PinRight
	case 90:
		pin.Orientation = schematic.PinUp
	case 180:
		pin.Orientation = schematic.PinLeft
	case 270:
		pin.Orientation = schematic.PinDown
	default:
		return nil, fmt.Errorf("unsupported pin rotation (%d degrees)", degrees)
	}

	if ePin.Length != nil {
		switch *ePin.Length {
		case "short":
			pin.Length = 100
		case "middle":
			pin.Length = 200
		case "long":
			pin.Length = 300
		case "point":
			pin.Length = 0
		}
	}

	// Eagle's pin visibility maps onto zero-sized name/number text.
	if ePin.Visible != nil {
		switch *ePin.Visible {
		case "off":
			pin.NameTextSize = 0
			pin.NumberTextSize = 0
		case "pad":
			pin.NameTextSize = 0
		case "pin":
			pin.NumberTextSize = 0
		}
	}

	if ePin.Function != nil {
		switch *ePin.Function {
		case "dot":
			pin.Shape = schematic.PinShapeInverted
		case "clk":
			pin.Shape = schematic.PinShapeClock
		case "dotclk":
			pin.Shape = schematic.PinShapeInvertedClock
		}
	}

	return pin, nil
}
