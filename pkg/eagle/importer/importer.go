// Package importer converts parsed Eagle schematic documents into the
// internal schematic model: one blocking Import call per document that
// resolves libraries, analyzes net scope, loads sheets and synthesizes
// bus entries.
package importer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/openboardtools/eaglesch/pkg/eagle"
	"github.com/openboardtools/eaglesch/pkg/schematic"
)

// LibraryWriter persists the companion symbol library produced by an
// import. Implemented by the library store; injected so the pipeline stays
// independent of the storage format.
type LibraryWriter interface {
	SaveLibrary(lib *schematic.Library) error
}

// Options configures an import.
type Options struct {
	// ProjectName names the companion symbol library. When empty the
	// source file's base name is used.
	ProjectName string

	// Writer, when set, persists the companion library after a successful
	// import.
	Writer LibraryWriter

	// Libraries, when set, receives the companion library at the front of
	// the search order.
	Libraries *schematic.LibrarySet

	// Logger receives skip-item diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// LoadError is the single typed failure surfaced by a fatal import abort.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("eagle import failed: %v", e.Err)
	}
	return fmt.Sprintf("eagle import of %q failed: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Importer drives one import. It is not safe for concurrent use; create a
// new Importer per document.
type Importer struct {
	opts Options
	log  *slog.Logger

	path     string
	fileBase string

	layerMap  map[int]schematic.LayerID
	netCounts map[string]int
	parts     map[string]*eagle.Part
	libs      map[string]*eagleLibrary
	partLib   *schematic.Library

	root        *schematic.Sheet
	current     *schematic.Sheet
	currentPath string
}

// New creates an importer.
func New(opts Options) *Importer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		opts:      opts,
		log:       log,
		layerMap:  map[int]schematic.LayerID{},
		netCounts: map[string]int{},
		parts:     map[string]*eagle.Part{},
		libs:      map[string]*eagleLibrary{},
	}
}

// ImportFile parses and imports an Eagle schematic file. When appendTo is
// non-nil its screen receives the imported content and ownership of the
// root stays with the caller; otherwise a new root sheet is returned.
func (im *Importer) ImportFile(path string, appendTo *schematic.Sheet) (*schematic.Sheet, error) {
	doc, err := eagle.ParseFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return im.Import(doc, appendTo)
}

// Import converts a parsed document. Fatal decode errors abort the whole
// import; recoverable problems (unresolvable instances, ambiguous bus-entry
// geometry) are absorbed and visible in the output or the log.
func (im *Importer) Import(doc *eagle.Document, appendTo *schematic.Sheet) (*schematic.Sheet, error) {
	im.path = doc.Path
	im.fileBase = strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	if im.fileBase == "" || im.fileBase == "." {
		im.fileBase = "noname"
	}

	if appendTo != nil {
		im.root = appendTo
	} else {
		im.root = schematic.NewSheet()
		im.root.FileName = doc.Path
	}
	if im.root.Screen == nil {
		im.root.Screen = schematic.NewScreen()
		im.root.Screen.FileName = doc.Path
	}

	libName := im.opts.ProjectName
	if libName == "" {
		libName = im.fileBase
	}
	im.partLib = schematic.NewLibrary(libName)

	drawing := eagle.IndexChildren(doc.Root)["drawing"]
	if drawing == nil {
		return nil, &LoadError{Path: doc.Path, Err: fmt.Errorf("missing <drawing> element")}
	}

	if err := im.loadDrawing(drawing); err != nil {
		return nil, &LoadError{Path: doc.Path, Err: err}
	}

	if im.opts.Writer != nil {
		if err := im.opts.Writer.SaveLibrary(im.partLib); err != nil {
			return nil, &LoadError{Path: doc.Path, Err: fmt.Errorf("saving symbol library: %w", err)}
		}
	}
	if im.opts.Libraries != nil {
		im.opts.Libraries.InsertFront(im.partLib)
	}

	return im.root, nil
}

// PartLibrary returns the companion symbol library built by the last
// import.
func (im *Importer) PartLibrary() *schematic.Library {
	return im.partLib
}

func (im *Importer) loadDrawing(drawing *eagle.Node) error {
	children := eagle.IndexChildren(drawing)

	// Board, grid and settings children are ignored; only the layer table
	// and the schematic matter here.
	if layers := children["layers"]; layers != nil {
		if err := im.loadLayerDefs(layers); err != nil {
			return err
		}
	}

	sch := children["schematic"]
	if sch == nil {
		return fmt.Errorf("missing <schematic> element")
	}
	return im.loadSchematic(sch)
}

// loadLayerDefs classifies Eagle layers by name. Anything unmapped falls
// back to the notes class.
func (im *Importer) loadLayerDefs(layers *eagle.Node) error {
	for _, n := range layers.Children {
		if n.Tag != "layer" {
			continue
		}
		elayer, err := eagle.DecodeLayer(n)
		if err != nil {
			return err
		}
		switch elayer.Name {
		case "Nets":
			im.layerMap[elayer.Number] = schematic.LayerWire
		case "Busses":
			im.layerMap[elayer.Number] = schematic.LayerBus
		case "Info", "Guide":
			im.layerMap[elayer.Number] = schematic.LayerNotes
		}
	}
	return nil
}

func (im *Importer) layerID(eagleLayer int) schematic.LayerID {
	if id, ok := im.layerMap[eagleLayer]; ok {
		return id
	}
	return schematic.LayerNotes
}

func (im *Importer) loadSchematic(sch *eagle.Node) error {
	children := eagle.IndexChildren(sch)

	parts := children["parts"]
	if parts == nil {
		return fmt.Errorf("missing <parts> section")
	}
	for _, n := range parts.Children {
		if n.Tag != "part" {
			continue
		}
		epart, err := eagle.DecodePart(n)
		if err != nil {
			return err
		}
		im.parts[epart.Name] = &epart
	}

	// Libraries resolve before any sheet loads: instances reference the
	// resolved parts by name.
	if libraries := children["libraries"]; libraries != nil {
		for _, n := range libraries.Children {
			if n.Tag != "library" {
				continue
			}
			name, ok := n.Attr("name")
			if !ok {
				return fmt.Errorf("<library> missing required attribute \"name\"")
			}
			elib := newEagleLibrary(name)
			im.libs[name] = elib
			if err := im.loadLibrary(n, elib); err != nil {
				return err
			}
		}
	}

	sheets := children["sheets"]
	if sheets == nil {
		return fmt.Errorf("missing <sheets> section")
	}

	// Net scope is decided document-wide before any geometry exists.
	im.countNets(sheets)

	sheetCount := eagle.CountChildren(sheets, "sheet")

	if sheetCount > 1 {
		x, y, i := 1, 1, 1
		for _, n := range sheets.Children {
			if n.Tag != "sheet" {
				continue
			}
			child := schematic.NewSheet()
			child.Pos = schematic.Position{X: x * 1000, Y: y * 1000}
			child.Timestamp = sheetTimestamp(im.fileBase, i)
			im.root.Screen.Append(child)

			im.current = child
			im.currentPath = fmt.Sprintf("/%08X/", ts32(child.Timestamp))
			if err := im.loadSheet(n, i); err != nil {
				return err
			}

			x += 2
			if x > 10 {
				x = 1
				y += 2
			}
			i++
		}
	} else {
		for _, n := range sheets.Children {
			if n.Tag != "sheet" {
				continue
			}
			im.current = im.root
			im.currentPath = "/"
			if err := im.loadSheet(n, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// countNets counts, per net name, the number of sheets the net occurs on.
// A count above one later promotes the net's labels to global.
func (im *Importer) countNets(sheets *eagle.Node) {
	for _, sheetNode := range sheets.Children {
		if sheetNode.Tag != "sheet" {
			continue
		}
		nets := eagle.IndexChildren(sheetNode)["nets"]
		if nets == nil {
			continue
		}
		for _, netNode := range nets.Children {
			if netNode.Tag != "net" {
				continue
			}
			im.netCounts[netNode.AttrDefault("name", "")]++
		}
	}
}

// escapeName maps Eagle net-name characters onto the internal label
// syntax: a literal tilde doubles and the inversion bang becomes a tilde.
func escapeName(name string) string {
	name = strings.ReplaceAll(name, "~", "~~")
	return strings.ReplaceAll(name, "!", "~")
}

// componentOrientation validates and maps an Eagle instance rotation.
func componentOrientation(degrees int) (int, error) {
	switch degrees {
	case 0, 90, 180, 270:
		return degrees, nil
	default:
		return 0, fmt.Errorf("unsupported rotation (%d degrees)", degrees)
	}
}
