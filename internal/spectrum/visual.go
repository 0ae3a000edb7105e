package spectrum

import "math"

const (
	ClassLow    ColorClass = "low"
	ClassMedium ColorClass = "medium"
	ClassHigh   ColorClass = "high"

	// HighThreshold and MediumThreshold are the lowest strengths, in dB, of
	// their classes.
	HighThreshold   = 80.0
	MediumThreshold = 50.0
)

var classColors = map[ColorClass]string{
	ClassLow:    "#ff0000",
	ClassMedium: "#ffff00",
	ClassHigh:   "#00ff00",
}

// ColorClass buckets a signal strength for display.
type ColorClass string

func (c ColorClass) String() string {
	return string(c)
}

// Hex returns the display colour of the class as "#rrggbb".
func (c ColorClass) Hex() string {
	if hex, ok := classColors[c]; ok {
		return hex
	}
	return classColors[ClassLow]
}

// Visual is the bounded visual encoding of a strength value.
type Visual struct {
	Percent float64    `json:"percent"` // Strength clamped to [0, 100]
	Class   ColorClass `json:"class"`
}

// MapVisual converts a strength in dB to a percentage and a colour class.
// NaN maps to 0 percent and the Low class.
func MapVisual(strength float64) Visual {
	if math.IsNaN(strength) {
		return Visual{Percent: 0, Class: ClassLow}
	}

	v := Visual{Percent: min(max(strength, 0), 100)}

	switch {
	case strength >= HighThreshold:
		v.Class = ClassHigh
	case strength >= MediumThreshold:
		v.Class = ClassMedium
	default:
		v.Class = ClassLow
	}

	return v
}
