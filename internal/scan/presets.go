package scan

import (
	"strings"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// Preset is a named scan range covering a whole band.
type Preset struct {
	Label string                  `json:"label"`
	Band  spectrum.BandLabel      `json:"band"`
	Range spectrum.FrequencyRange `json:"range"`
}

// Presets returns one preset per classified band, low to high.
func Presets() []Preset {
	bands := spectrum.Bands()

	presets := make([]Preset, len(bands))
	for i, b := range bands {
		presets[i] = Preset{Label: b.Usage, Band: b.Label, Range: b.FrequencyRange}
	}
	return presets
}

// PresetByLabel finds a preset by its full label or by band name, e.g. "VHF".
func PresetByLabel(label string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Label == label || strings.EqualFold(p.Band.String(), label) {
			return p, true
		}
	}
	return Preset{}, false
}
