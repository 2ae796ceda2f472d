package importer

import (
	"fmt"
	"strings"

	"github.com/openboardtools/eaglesch/pkg/eagle"
	"github.com/openboardtools/eaglesch/pkg/schematic"
)

// loadInstance places one gate of a part on the current sheet. An instance
// whose part, library or symbol cannot be resolved is skipped with a log
// entry; a broken reference must not abort an otherwise valid import.
func (im *Importer) loadInstance(n *eagle.Node) error {
	einstance, err := eagle.DecodeInstance(n)
	if err != nil {
		return err
	}

	epart := im.parts[einstance.Part]
	if epart == nil {
		im.log.Warn("instance references unknown part, skipped", "part", einstance.Part)
		return nil
	}
	elib := im.libs[epart.Library]
	if elib == nil {
		im.log.Warn("instance references unknown library, skipped",
			"part", einstance.Part, "library", epart.Library)
		return nil
	}

	symbolName := strings.ReplaceAll(epart.Deviceset+epart.Device, "*", "")
	part := elib.parts[symbolName]
	if part == nil {
		im.log.Warn("instance references unresolved symbol, skipped",
			"part", einstance.Part, "symbol", symbolName)
		return nil
	}

	comp := &schematic.Component{
		LibID: symbolName,
		Unit:  elib.gateUnit[epart.Deviceset+epart.Device+einstance.Gate],
		Pos:   schematic.Position{X: eagle.Mils(einstance.X), Y: -eagle.Mils(einstance.Y)},
	}

	instanceDegrees := 0
	instanceMirror := false
	if einstance.Rot != nil {
		instanceDegrees = einstance.Rot.Degrees
		instanceMirror = einstance.Rot.Mirror
	}
	orientation, err := componentOrientation(instanceDegrees)
	if err != nil {
		return fmt.Errorf("instance %q: %w", einstance.Part, err)
	}
	comp.Orientation = orientation
	comp.MirrorY = instanceMirror

	value := symbolName
	if epart.Value != nil && *epart.Value != "" {
		value = *epart.Value
	}
	declaredValue := ""
	if epart.Value != nil {
		declaredValue = *epart.Value
	}
	comp.Timestamp = moduleTimestamp(einstance.Part, declaredValue, comp.Unit)

	// Field templates come from the part definition, repositioned to the
	// placed anchor.
	ref := comp.Field(schematic.FieldReference)
	ref.Attrs = part.Reference.Attrs
	ref.Attrs.Pos = part.Reference.Attrs.Pos.Add(comp.Pos)
	ref.Text = einstance.Part

	val := comp.Field(schematic.FieldValue)
	val.Attrs = part.Value.Attrs
	val.Attrs.Pos = part.Value.Attrs.Pos.Add(comp.Pos)
	val.Text = value

	if pkg, ok := elib.packages[symbolName]; ok && pkg != "" {
		fp := comp.Field(schematic.FieldFootprint)
		fp.Text = pkg
		fp.Attrs.Pos = comp.Pos
		fp.Attrs.Size = schematic.DefaultTextSize
	}

	nameAttributeFound := false
	valueAttributeFound := false

	for _, attrNode := range n.Children {
		if attrNode.Tag != "attribute" {
			continue
		}
		attr, err := eagle.DecodeAttr(attrNode)
		if err != nil {
			return err
		}

		// Only the exact NAME and VALUE attributes reposition fields; the
		// field text itself always comes from the part definition.
		var field *schematic.Field
		switch attr.Name {
		case "NAME":
			field = ref
			nameAttributeFound = true
		case "VALUE":
			field = val
			valueAttributeFound = true
		default:
			continue
		}

		if attr.X != nil && attr.Y != nil {
			field.Attrs.Pos = schematic.Position{X: eagle.Mils(*attr.X), Y: -eagle.Mils(*attr.Y)}
		}
		if attr.Size != nil {
			field.Attrs.Size = eagle.Mils(*attr.Size)
		}
		if attr.Display == eagle.DisplayOff {
			field.Attrs.Visible = false
		}

		align := eagle.AlignBottomLeft
		if attr.Align != nil {
			align = *attr.Align
		}
		absDegrees := 0
		mirror := false
		if attr.Rot != nil {
			absDegrees = attr.Rot.Degrees
			mirror = attr.Rot.Mirror
		}
		if instanceMirror {
			mirror = !mirror
		}
		relDegrees := ((absDegrees - instanceDegrees) + 360) % 360
		applyAlignment(&field.Attrs, align, relDegrees, mirror, absDegrees)
	}

	// Smashed instances reposition every field explicitly; fields with no
	// override were deleted in the source.
	if einstance.Smashed != nil && *einstance.Smashed {
		if !nameAttributeFound {
			ref.Attrs.Visible = false
		}
		if !valueAttributeFound {
			val.Attrs.Visible = false
		}
	}

	comp.AddHierRef(fmt.Sprintf("%s%08X", im.currentPath, ts32(comp.Timestamp)), einstance.Part, comp.Unit)

	im.current.Screen.Append(comp)
	return nil
}
