package importer

import (
	"github.com/openboardtools/eaglesch/pkg/eagle"
	"github.com/openboardtools/eaglesch/pkg/schematic"
)

// applyAlignment maps an Eagle alignment code onto text justification.
// relDegrees is the rotation of the text relative to its owner; absDegrees
// is the final on-sheet rotation and decides how a mirror swaps the code.
func applyAlignment(attrs *schematic.TextAttrs, align eagle.Align, relDegrees int, mirror bool, absDegrees int) {
	switch relDegrees {
	case 90:
		attrs.Vertical = true
	case 180:
		align = -align
	case 270:
		attrs.Vertical = true
		align = -align
	}

	if mirror {
		if absDegrees == 90 || absDegrees == 270 {
			switch align {
			case eagle.AlignBottomRight:
				align = eagle.AlignTopRight
			case eagle.AlignBottomLeft:
				align = eagle.AlignTopLeft
			case eagle.AlignTopLeft:
				align = eagle.AlignBottomLeft
			case eagle.AlignTopRight:
				align = eagle.AlignBottomRight
			}
		} else if absDegrees == 0 || absDegrees == 180 {
			switch align {
			case eagle.AlignBottomRight:
				align = eagle.AlignBottomLeft
			case eagle.AlignBottomLeft:
				align = eagle.AlignBottomRight
			case eagle.AlignTopLeft:
				align = eagle.AlignTopRight
			case eagle.AlignTopRight:
				align = eagle.AlignTopLeft
			case eagle.AlignCenterLeft:
				align = eagle.AlignCenterRight
			case eagle.AlignCenterRight:
				align = eagle.AlignCenterLeft
			}
		}
	}

	switch align {
	case eagle.AlignCenter:
		attrs.HJustify = schematic.HJustifyCenter
		attrs.VJustify = schematic.VJustifyCenter
	case eagle.AlignCenterLeft:
		attrs.HJustify = schematic.HJustifyLeft
		attrs.VJustify = schematic.VJustifyCenter
	case eagle.AlignCenterRight:
		attrs.HJustify = schematic.HJustifyRight
		attrs.VJustify = schematic.VJustifyCenter
	case eagle.AlignTopCenter:
		attrs.HJustify = schematic.HJustifyCenter
		attrs.VJustify = schematic.VJustifyTop
	case eagle.AlignTopLeft:
		attrs.HJustify = schematic.HJustifyLeft
		attrs.VJustify = schematic.VJustifyTop
	case eagle.AlignTopRight:
		attrs.HJustify = schematic.HJustifyRight
		attrs.VJustify = schematic.VJustifyTop
	case eagle.AlignBottomCenter:
		attrs.HJustify = schematic.HJustifyCenter
		attrs.VJustify = schematic.VJustifyBottom
	case eagle.AlignBottomLeft:
		attrs.HJustify = schematic.HJustifyLeft
		attrs.VJustify = schematic.VJustifyBottom
	default:
		attrs.HJustify = schematic.HJustifyRight
		attrs.VJustify = schematic.VJustifyBottom
	}
}
