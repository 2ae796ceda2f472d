package schematic

// Reusable symbol definitions. A LibPart is the drawable template a placed
// Component refers to by name; multi-gate Eagle devicesets become one
// LibPart with one unit per gate.

// PinType is the electrical class of a pin.
type PinType int

const (
	PinUnspecified PinType = iota
	PinPowerIn
	PinPassive
	PinOutput
	PinInput
	PinNoConnect
	PinBidirectional
	PinOpenCollector
	PinTristate
)

// PinShape is the drawn decoration of a pin.
type PinShape int

const (
	PinShapeLine PinShape = iota
	PinShapeInverted
	PinShapeClock
	PinShapeInvertedClock
)

// PinOrientation is the direction a pin points away from its symbol body.
type PinOrientation int

const (
	PinRight PinOrientation = iota
	PinUp
	PinLeft
	PinDown
)

// DefaultPinLength is the pin length in mils when the source declares none.
const DefaultPinLength = 300

// LibItem is one draw primitive of a symbol, tagged with the unit (gate)
// it belongs to.
type LibItem interface {
	UnitNumber() int
}

// LibCircle is a symbol circle.
type LibCircle struct {
	Unit   int
	Center Position
	Radius int
	Width  int
}

func (c *LibCircle) UnitNumber() int { return c.Unit }

// LibRect is a symbol rectangle, always filled.
type LibRect struct {
	Unit       int
	Start, End Position
	Filled     bool
}

func (r *LibRect) UnitNumber() int { return r.Unit }

// LibPolyline is an open or filled symbol outline.
type LibPolyline struct {
	Unit   int
	Points []Position
	Width  int
	Filled bool
}

func (p *LibPolyline) UnitNumber() int { return p.Unit }

// AddPoint appends a vertex.
func (p *LibPolyline) AddPoint(pos Position) {
	p.Points = append(p.Points, pos)
}

// LibArc is a symbol arc defined by center, endpoints and radius.
type LibArc struct {
	Unit       int
	Center     Position
	Start, End Position
	Radius     int
	Width      int
	Filled     bool
}

func (a *LibArc) UnitNumber() int { return a.Unit }

// LibText is free symbol text.
type LibText struct {
	Unit  int
	Value string
	Attrs TextAttrs
}

func (t *LibText) UnitNumber() int { return t.Unit }

// LibPin is a symbol pin. A zero NameTextSize or NumberTextSize hides that
// text.
type LibPin struct {
	Unit           int
	Name           string
	Number         string
	Pos            Position
	Orientation    PinOrientation
	Length         int
	Type           PinType
	Shape          PinShape
	NameTextSize   int
	NumberTextSize int
}

func (p *LibPin) UnitNumber() int { return p.Unit }

// Clone returns a copy of the pin.
func (p *LibPin) Clone() *LibPin {
	c := *p
	return &c
}

// LibField is a field template (reference or value) on a symbol.
type LibField struct {
	ID    FieldID
	Text  string
	Attrs TextAttrs
}

// LibPart is a reusable multi-unit symbol definition.
type LibPart struct {
	Name      string
	UnitCount int
	Power     bool
	Reference LibField
	Value     LibField
	Items     []LibItem
}

// NewLibPart creates a part with one unit and visible, default-sized
// reference and value fields.
func NewLibPart(name string) *LibPart {
	return &LibPart{
		Name:      name,
		UnitCount: 1,
		Reference: LibField{
			ID:    FieldReference,
			Attrs: TextAttrs{Size: DefaultTextSize, Visible: true},
		},
		Value: LibField{
			ID:    FieldValue,
			Attrs: TextAttrs{Size: DefaultTextSize, Visible: true},
		},
	}
}

// AddItem appends a draw primitive.
func (p *LibPart) AddItem(it LibItem) {
	p.Items = append(p.Items, it)
}

// Field returns the reference or value field template.
func (p *LibPart) Field(id FieldID) *LibField {
	if id == FieldValue {
		return &p.Value
	}
	return &p.Reference
}

// Pins returns all pin items, in draw order.
func (p *LibPart) Pins() []*LibPin {
	var pins []*LibPin
	for _, it := range p.Items {
		if pin, ok := it.(*LibPin); ok {
			pins = append(pins, pin)
		}
	}
	return pins
}

// Library is an ordered, name-keyed collection of part definitions.
type Library struct {
	Name  string
	parts map[string]*LibPart
	order []string
}

// NewLibrary creates an empty library.
func NewLibrary(name string) *Library {
	return &Library{Name: name, parts: map[string]*LibPart{}}
}

// Add registers a part, replacing any previous part with the same name.
func (l *Library) Add(p *LibPart) {
	if _, exists := l.parts[p.Name]; !exists {
		l.order = append(l.order, p.Name)
	}
	l.parts[p.Name] = p
}

// Find returns the named part, or nil.
func (l *Library) Find(name string) *LibPart {
	return l.parts[name]
}

// Parts returns all parts in insertion order.
func (l *Library) Parts() []*LibPart {
	out := make([]*LibPart, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.parts[name])
	}
	return out
}

// Len returns the number of parts.
func (l *Library) Len() int {
	return len(l.order)
}

// LibrarySet is an ordered library search list. Earlier libraries shadow
// later ones when part names collide.
type LibrarySet struct {
	libs []*Library
}

// InsertFront puts a library at the head of the search order.
func (s *LibrarySet) InsertFront(l *Library) {
	s.libs = append([]*Library{l}, s.libs...)
}

// FindPart searches the libraries in order for a part definition.
func (s *LibrarySet) FindPart(name string) *LibPart {
	for _, lib := range s.libs {
		if p := lib.Find(name); p != nil {
			return p
		}
	}
	return nil
}

// Libraries returns the current search order.
func (s *LibrarySet) Libraries() []*Library {
	return s.libs
}
