package importer_test

import (
	"strings"
	"testing"

	"github.com/openboardtools/eaglesch/pkg/schematic"
)

const labelRehomeSchematic = `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>` + layersSection + `
<schematic>
<parts/>
<sheets>
<sheet>
<nets>
<net name="SIG">
<segment>
<wire x1="0" y1="0" x2="5.08" y2="0" width="0.1524" layer="91"/>
<label x="10.16" y="0.254" size="1.778" layer="95"/>
</segment>
</net>
</nets>
</sheet>
</sheets>
</schematic>
</drawing>
</eagle>`

func TestLabelRehomedToNearestWirePoint(t *testing.T) {
	root, _ := importDoc(t, labelRehomeSchematic)

	var label *schematic.Label
	var wire *schematic.Line
	for _, it := range root.Screen.Items() {
		switch v := it.(type) {
		case *schematic.Label:
			label = v
		case *schematic.Line:
			wire = v
		}
	}
	if label == nil || wire == nil {
		t.Fatal("label or wire missing from output")
	}

	// The label was declared off the wire; the nearest candidate is the
	// wire's end point.
	if label.Pos != wire.End {
		t.Errorf("label at %v, want wire end %v", label.Pos, wire.End)
	}
}

const labelSpinSchematic = `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>` + layersSection + `
<schematic>
<parts/>
<sheets>
<sheet>
<nets>
<net name="A">
<segment>
<wire x1="0" y1="0" x2="5.08" y2="0" width="0.1524" layer="91"/>
<label x="0" y="0" size="1.778" layer="95" rot="R90"/>
</segment>
</net>
<net name="B">
<segment>
<wire x1="0" y1="5.08" x2="5.08" y2="5.08" width="0.1524" layer="91"/>
<label x="0" y="5.08" size="1.778" layer="95" rot="MR0"/>
</segment>
</net>
</nets>
</sheet>
</sheets>
</schematic>
</drawing>
</eagle>`

func TestLabelSpinStyle(t *testing.T) {
	root, _ := importDoc(t, labelSpinSchematic)

	spins := map[string]int{}
	for _, it := range root.Screen.Items() {
		if l, ok := it.(*schematic.Label); ok {
			spins[l.Text] = l.SpinStyle
		}
	}

	if got := spins["A"]; got != 1 {
		t.Errorf("R90 label spin = %d, want 1", got)
	}
	// Mirroring flips a horizontal label's facing.
	if got := spins["B"]; got != 2 {
		t.Errorf("MR0 label spin = %d, want 2", got)
	}
}

const describedSheetSchematic = `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>` + layersSection + `
<schematic>
<parts/>
<sheets>
<sheet>
<description>Power Supply/Rev 2</description>
</sheet>
</sheets>
</schematic>
</drawing>
</eagle>`

func TestSheetNameFromDescription(t *testing.T) {
	root, _ := importDoc(t, describedSheetSchematic)

	if root.Name != "Power Supply/Rev 2" {
		t.Errorf("sheet name = %q, want description text", root.Name)
	}
	if root.FileName != "Power_Supply_Rev_2.sch" {
		t.Errorf("file name = %q, want sanitized name", root.FileName)
	}
	if !strings.HasSuffix(root.Screen.FileName, ".sch") {
		t.Errorf("screen file name = %q, want .sch suffix", root.Screen.FileName)
	}
}

const wideSheetSchematic = `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>` + layersSection + `
<schematic>
<parts/>
<sheets>
<sheet>
<nets>
<net name="LONG">
<segment>
<wire x1="0" y1="0" x2="310" y2="0" width="0.1524" layer="91"/>
</segment>
</net>
</nets>
</sheet>
</sheets>
</schematic>
</drawing>
</eagle>`

func TestSheetPageGrowsPerAxis(t *testing.T) {
	root, _ := importDoc(t, wideSheetSchematic)

	// A 310mm wire is 12204 mils; with the 1500 mil margin the width must
	// grow to exactly 13704 while the height keeps the A4 default.
	want := schematic.Size{Width: 13704, Height: schematic.A4PageSize.Height}
	if got := root.Screen.PageSize; got != want {
		t.Errorf("page size = %v, want %v", got, want)
	}
}

func TestSheetPageKeepsDefaultForSmallContent(t *testing.T) {
	root, _ := importDoc(t, minimalSchematic)

	if got := root.Screen.PageSize; got != schematic.A4PageSize {
		t.Errorf("page size = %v, want A4 %v", got, schematic.A4PageSize)
	}
}

const plainItemsSchematic = `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>` + layersSection + `
<schematic>
<parts/>
<sheets>
<sheet>
<plain>
<text x="0" y="0" size="1.778" layer="97" ratio="15">Title Block</text>
<wire x1="0" y1="2.54" x2="12.7" y2="2.54" width="0.1524" layer="97"/>
</plain>
</sheet>
</sheets>
</schematic>
</drawing>
</eagle>`

func TestPlainItems(t *testing.T) {
	root, _ := importDoc(t, plainItemsSchematic)

	var text *schematic.Text
	var line *schematic.Line
	for _, it := range root.Screen.Items() {
		switch v := it.(type) {
		case *schematic.Text:
			text = v
		case *schematic.Line:
			line = v
		}
	}

	if text == nil {
		t.Fatal("plain text missing")
	}
	if text.Value != "Title Block" {
		t.Errorf("text value = %q", text.Value)
	}
	if !text.Attrs.Bold {
		t.Error("ratio 15 text not bold")
	}

	if line == nil {
		t.Fatal("plain wire missing")
	}
	if line.Layer != schematic.LayerNotes {
		t.Errorf("plain wire layer = %v, want notes", line.Layer)
	}
}
