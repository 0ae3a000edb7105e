package spectrum

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	UnitHz  Unit = "Hz"
	UnitKHz Unit = "kHz"
	UnitMHz Unit = "MHz"
	UnitGHz Unit = "GHz"
)

var unitScales = map[Unit]float64{
	UnitHz:  1,
	UnitKHz: 1e3,
	UnitMHz: 1e6,
	UnitGHz: 1e9,
}

// Unit is the display and input unit for frequencies. Internal values are
// always Hz.
type Unit string

// Units returns all supported units in ascending order of scale.
func Units() []Unit {
	return []Unit{UnitHz, UnitKHz, UnitMHz, UnitGHz}
}

// ParseUnit resolves a unit name, case-insensitively. An empty name is Hz.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnitHz, nil
	}

	for _, u := range Units() {
		if strings.EqualFold(s, string(u)) {
			return u, nil
		}
	}

	return "", fmt.Errorf("unknown frequency unit '%s'", s)
}

func (u Unit) String() string {
	return string(u)
}

// Scale returns the number of Hz in one unit. Unknown units scale by 1.
func (u Unit) Scale() float64 {
	if scale, ok := unitScales[u]; ok {
		return scale
	}
	return 1
}

// ToHz converts a value expressed in u to Hz.
func (u Unit) ToHz(v float64) float64 {
	return v * u.Scale()
}

// FromHz converts a value in Hz to u.
func (u Unit) FromHz(hz float64) float64 {
	return hz / u.Scale()
}

// FormatFrequency renders hz with an SI prefix, e.g. "100.00 MHz".
func FormatFrequency(hz float64) string {
	value, prefix := humanize.ComputeSI(hz)
	return fmt.Sprintf("%0.2f %sHz", value, prefix)
}
