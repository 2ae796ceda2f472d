package eagle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseBuildsTree(t *testing.T) {
	input := `<?xml version="1.0"?>
<eagle version="6.5">
<drawing>
<schematic>
<parts>
<part name="R1" library="lib" deviceset="RES" device=""/>
<part name="R2" library="lib" deviceset="RES" device=""/>
</parts>
<description>Main board</description>
</schematic>
</drawing>
</eagle>`

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.Version != "6.5" {
		t.Errorf("version = %q, want 6.5", doc.Version)
	}

	drawing := doc.Root.FirstChild("drawing")
	if drawing == nil {
		t.Fatal("missing drawing child")
	}
	sch := drawing.FirstChild("schematic")
	if sch == nil {
		t.Fatal("missing schematic child")
	}

	parts := IndexChildren(sch)["parts"]
	if parts == nil {
		t.Fatal("index missing parts")
	}
	if got := CountChildren(parts, "part"); got != 2 {
		t.Errorf("CountChildren(part) = %d, want 2", got)
	}
	if name := parts.Children[1].AttrDefault("name", ""); name != "R2" {
		t.Errorf("second part name = %q, want R2 (document order lost?)", name)
	}

	desc := sch.FirstChild("description")
	if desc == nil || desc.Content() != "Main board" {
		t.Errorf("description content wrong: %v", desc)
	}
}

func TestIndexChildrenLastWins(t *testing.T) {
	input := `<eagle><a name="first"/><a name="second"/></eagle>`
	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	idx := IndexChildren(doc.Root)
	if got := idx["a"].AttrDefault("name", ""); got != "second" {
		t.Errorf("duplicate tag resolved to %q, want second", got)
	}
}

func TestParseRejectsNonEagleRoot(t *testing.T) {
	if _, err := Parse(strings.NewReader(`<kicad/>`)); err == nil {
		t.Error("expected error for non-eagle root")
	}
	if _, err := Parse(strings.NewReader(`<eagle><unclosed></eagle>`)); err == nil {
		t.Error("expected error for malformed XML")
	}
}

func TestCheckHeader(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
		return path
	}

	good := write("good.sch", "<?xml version=\"1.0\"?>\n<!DOCTYPE eagle SYSTEM \"eagle.dtd\">\n<eagle version=\"6.5\">\n</eagle>\n")
	if !CheckHeader(good) {
		t.Error("valid header rejected")
	}

	bad := write("bad.sch", "<?xml version=\"1.0\"?>\n<kicad>\n<something/>\n")
	if CheckHeader(bad) {
		t.Error("non-eagle header accepted")
	}

	short := write("short.sch", "<?xml version=\"1.0\"?>\n")
	if CheckHeader(short) {
		t.Error("truncated file accepted")
	}

	if CheckHeader(filepath.Join(dir, "missing.sch")) {
		t.Error("missing file accepted")
	}
}
