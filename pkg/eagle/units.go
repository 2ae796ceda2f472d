package eagle

// Eagle stores coordinates in millimeters with Y growing upward; the
// schematic model stores mils with Y growing downward. Callers negate Y
// at the conversion site.

// MilsPerMM converts Eagle millimeters to internal mil units.
const MilsPerMM = 1000.0 / 25.4

// Mils converts a millimeter coordinate to integer mils, truncating toward
// zero the way the schematic model's integer points do.
func Mils(mm float64) int {
	return int(mm * MilsPerMM)
}

// MilsF converts a millimeter coordinate to mils without rounding, for
// geometry that is computed in floating point (arc centers, radii).
func MilsF(mm float64) float64 {
	return mm * MilsPerMM
}

// MM converts mils back to millimeters.
func MM(mils float64) float64 {
	return mils * 25.4 / 1000.0
}
