package eagle

import (
	"math"
	"strings"
	"testing"
)

func TestMils(t *testing.T) {
	cases := []struct {
		mm   float64
		want int
	}{
		{0, 0},
		{25.4, 1000},
		{2.54, 100},
		{-25.4, -1000},
		{1.27, 50},
	}
	for _, c := range cases {
		if got := Mils(c.mm); got != c.want {
			t.Errorf("Mils(%v) = %d, want %d", c.mm, got, c.want)
		}
	}
}

func TestUnitRoundTrip(t *testing.T) {
	for _, mm := range []float64{0, 1.27, 25.4, 3.81, 100.33} {
		back := MM(MilsF(mm))
		if math.Abs(back-mm) > 1e-9 {
			t.Errorf("round trip of %v mm came back as %v", mm, back)
		}
	}
}

func TestDecodeRot(t *testing.T) {
	cases := []struct {
		in   string
		want Rot
	}{
		{"R0", Rot{Degrees: 0}},
		{"R90", Rot{Degrees: 90}},
		{"MR180", Rot{Mirror: true, Degrees: 180}},
		{"SR270", Rot{Spin: true, Degrees: 270}},
		{"SMR90", Rot{Spin: true, Mirror: true, Degrees: 90}},
	}
	for _, c := range cases {
		got, err := DecodeRot(c.in)
		if err != nil {
			t.Errorf("DecodeRot(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("DecodeRot(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "90", "M90", "Rabc"} {
		if _, err := DecodeRot(bad); err == nil {
			t.Errorf("DecodeRot(%q) succeeded, want error", bad)
		}
	}
}

func TestDecodeAlign(t *testing.T) {
	if DecodeAlign("center") != AlignCenter {
		t.Error("center misdecoded")
	}
	if DecodeAlign("nonsense") != AlignBottomLeft {
		t.Error("unknown token should fall back to bottom-left")
	}
	// Opposite alignments are sign flips.
	if -AlignTopLeft != AlignBottomRight {
		t.Error("top-left and bottom-right are not negations")
	}
	if -AlignCenterLeft != AlignCenterRight {
		t.Error("center-left and center-right are not negations")
	}
}

func parseOne(t *testing.T, xmlText string) *Node {
	t.Helper()
	doc, err := Parse(strings.NewReader("<eagle>" + xmlText + "</eagle>"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc.Root.Children[0]
}

func TestDecodeWire(t *testing.T) {
	n := parseOne(t, `<wire x1="0" y1="1.27" x2="2.54" y2="1.27" width="0.1524" layer="91" curve="-90"/>`)
	w, err := DecodeWire(n)
	if err != nil {
		t.Fatalf("DecodeWire() error: %v", err)
	}
	if w.X2 != 2.54 || w.Layer != 91 {
		t.Errorf("wire decoded wrong: %+v", w)
	}
	if w.Curve == nil || *w.Curve != -90 {
		t.Errorf("curve = %v, want -90", w.Curve)
	}

	straight := parseOne(t, `<wire x1="0" y1="0" x2="1" y2="0" width="0.1" layer="91"/>`)
	w, err = DecodeWire(straight)
	if err != nil {
		t.Fatalf("DecodeWire() error: %v", err)
	}
	if w.Curve != nil {
		t.Error("straight wire has non-nil curve")
	}

	missing := parseOne(t, `<wire x1="0" y1="0" x2="1" width="0.1" layer="91"/>`)
	if _, err := DecodeWire(missing); err == nil {
		t.Error("missing y2 accepted")
	}
}

func TestDecodePinOptionalAttributes(t *testing.T) {
	n := parseOne(t, `<pin name="CLK" x="0" y="0" visible="pad" length="short" direction="in" function="clk" rot="R180"/>`)
	p, err := DecodePin(n)
	if err != nil {
		t.Fatalf("DecodePin() error: %v", err)
	}
	if p.Name != "CLK" || *p.Visible != "pad" || *p.Length != "short" ||
		*p.Direction != "in" || *p.Function != "clk" || p.Rot.Degrees != 180 {
		t.Errorf("pin decoded wrong: %+v", p)
	}

	bare := parseOne(t, `<pin name="P" x="1.27" y="0"/>`)
	p, err = DecodePin(bare)
	if err != nil {
		t.Fatalf("DecodePin() error: %v", err)
	}
	if p.Visible != nil || p.Length != nil || p.Direction != nil || p.Function != nil || p.Rot != nil {
		t.Errorf("absent optional attributes not nil: %+v", p)
	}
}

func TestDecodeDeviceConnects(t *testing.T) {
	n := parseOne(t, `<device name="-N" package="SOIC8">
<connects>
<connect gate="A" pin="OUT" pad="1 5"/>
<connect gate="A" pin="IN" pad="2"/>
</connects>
</device>`)
	d, err := DecodeDevice(n)
	if err != nil {
		t.Fatalf("DecodeDevice() error: %v", err)
	}
	if d.Name != "-N" || *d.Package != "SOIC8" {
		t.Errorf("device decoded wrong: %+v", d)
	}
	if len(d.Connects) != 2 || d.Connects[0].Pad != "1 5" {
		t.Errorf("connects decoded wrong: %+v", d.Connects)
	}

	anon := parseOne(t, `<device/>`)
	d, err = DecodeDevice(anon)
	if err != nil {
		t.Fatalf("DecodeDevice() error: %v", err)
	}
	if d.Name != "" || len(d.Connects) != 0 {
		t.Errorf("anonymous device decoded wrong: %+v", d)
	}
}

func TestDecodeAttrDisplayDefault(t *testing.T) {
	n := parseOne(t, `<attribute name="NAME" x="1.27" y="2.54" size="1.778"/>`)
	a, err := DecodeAttr(n)
	if err != nil {
		t.Fatalf("DecodeAttr() error: %v", err)
	}
	if a.Display != DisplayValue {
		t.Errorf("default display = %v, want value", a.Display)
	}

	off := parseOne(t, `<attribute name="VALUE" display="off"/>`)
	a, err = DecodeAttr(off)
	if err != nil {
		t.Fatalf("DecodeAttr() error: %v", err)
	}
	if a.Display != DisplayOff {
		t.Errorf("display = %v, want off", a.Display)
	}
}
