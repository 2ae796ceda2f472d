package importer_test

import (
	"fmt"
	"testing"

	"github.com/openboardtools/eaglesch/pkg/schematic"
)

func collectBusItems(root *schematic.Sheet) (entries []*schematic.BusEntry, markers []*schematic.Marker, wires []*schematic.Line) {
	for _, it := range root.Screen.Items() {
		switch v := it.(type) {
		case *schematic.BusEntry:
			entries = append(entries, v)
		case *schematic.Marker:
			markers = append(markers, v)
		case *schematic.Line:
			if v.Layer == schematic.LayerWire {
				wires = append(wires, v)
			}
		}
	}
	return entries, markers, wires
}

const collinearBusSchematic = `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>` + layersSection + `
<schematic>
<parts/>
<sheets>
<sheet>
<busses>
<bus name="B[0..3]">
<segment>
<wire x1="0" y1="0" x2="25.4" y2="0" width="0.762" layer="92"/>
</segment>
</bus>
</busses>
<nets>
<net name="W1">
<segment>
<wire x1="2.54" y1="0" x2="12.7" y2="0" width="0.1524" layer="91"/>
</segment>
</net>
</nets>
</sheet>
</sheets>
</schematic>
</drawing>
</eagle>`

func TestBusEntryBothEndpointsOnBus(t *testing.T) {
	root, _ := importDoc(t, collinearBusSchematic)

	entries, markers, _ := collectBusItems(root)

	// A wire lying along the bus touches it at both endpoints; each
	// endpoint gets its own marker.
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers for 2 coincident endpoints, got %d", len(markers))
	}
	if markers[0].Pos == markers[1].Pos {
		t.Error("both markers placed at the same endpoint")
	}
}

// Vertical bus from (0,0) to (0,25.4)mm; the diagonal wire starts on the
// bus at (0,12.7)mm and leaves toward one of the four quadrants.
const diagonalBusTemplate = `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>` + layersSection + `
<schematic>
<parts/>
<sheets>
<sheet>
<busses>
<bus name="B[0..3]">
<segment>
<wire x1="0" y1="0" x2="0" y2="25.4" width="0.762" layer="92"/>
</segment>
</bus>
</busses>
<nets>
<net name="W1">
<segment>
<wire x1="0" y1="12.7" x2="%g" y2="%g" width="0.1524" layer="91"/>
</segment>
</net>
</nets>
</sheet>
</sheets>
</schematic>
</drawing>
</eagle>`

func TestBusEntryDiagonalQuadrants(t *testing.T) {
	cases := []struct {
		name       string
		endX, endY float64
		wantShape  byte
		// Offset of the re-homed wire start from the entry anchor.
		wantOffset schematic.Position
	}{
		{"up-left", -10.16, 22.86, '\\', schematic.Position{}},
		{"down-left", -10.16, 10.16, '/', schematic.Position{}},
		{"up-right", 10.16, 22.86, '/', schematic.Position{X: 100, Y: -100}},
		{"down-right", 10.16, 2.54, '\\', schematic.Position{X: 100, Y: 100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			xmlText := fmt.Sprintf(diagonalBusTemplate, tc.endX, tc.endY)
			root, _ := importDoc(t, xmlText)

			entries, markers, wires := collectBusItems(root)
			if len(entries) != 1 {
				t.Fatalf("expected 1 bus entry, got %d", len(entries))
			}
			if len(markers) != 0 {
				t.Fatalf("expected no markers, got %d", len(markers))
			}
			if len(wires) != 1 {
				t.Fatalf("expected 1 wire, got %d", len(wires))
			}

			if entries[0].Shape != tc.wantShape {
				t.Errorf("entry shape = %q, want %q", string(entries[0].Shape), string(tc.wantShape))
			}
			if got := wires[0].Start.Sub(entries[0].Pos); got != tc.wantOffset {
				t.Errorf("wire start offset from entry = %v, want %v", got, tc.wantOffset)
			}
		})
	}
}

// A 100x100 mil diagonal stub collapses to zero length once the entry takes
// its place; the wire is removed and its label moves with the endpoint.
const diagonalStubSchematic = `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>` + layersSection + `
<schematic>
<parts/>
<sheets>
<sheet>
<busses>
<bus name="B[0..3]">
<segment>
<wire x1="0" y1="0" x2="0" y2="25.4" width="0.762" layer="92"/>
</segment>
</bus>
</busses>
<nets>
<net name="W1">
<segment>
<wire x1="0" y1="12.7" x2="2.54" y2="15.24" width="0.1524" layer="91"/>
<label x="0" y="12.7" size="1.778" layer="95"/>
</segment>
</net>
</nets>
</sheet>
</sheets>
</schematic>
</drawing>
</eagle>`

func TestBusEntryCollapsesZeroLengthStub(t *testing.T) {
	root, _ := importDoc(t, diagonalStubSchematic)

	entries, markers, wires := collectBusItems(root)
	if len(entries) != 1 {
		t.Fatalf("expected 1 bus entry, got %d", len(entries))
	}
	if len(markers) != 0 {
		t.Fatalf("expected no markers, got %d", len(markers))
	}
	if len(wires) != 0 {
		t.Fatalf("expected the stub wire to be removed, got %d wires", len(wires))
	}
	if entries[0].Shape != '/' {
		t.Errorf("entry shape = %q, want /", string(entries[0].Shape))
	}

	var label *schematic.Label
	for _, it := range root.Screen.Items() {
		if l, ok := it.(*schematic.Label); ok {
			label = l
		}
	}
	if label == nil {
		t.Fatal("label missing from output")
	}
	if got := label.Pos.Sub(entries[0].Pos); got != (schematic.Position{X: 100, Y: -100}) {
		t.Errorf("label offset from entry = %v, want (100,-100)", got)
	}
}
