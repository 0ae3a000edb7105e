package chart

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// classPalette resolves the display colour of every strength class
func classPalette() (map[spectrum.ColorClass]color.Color, error) {
	palette := make(map[spectrum.ColorClass]color.Color)
	for _, class := range []spectrum.ColorClass{spectrum.ClassLow, spectrum.ClassMedium, spectrum.ClassHigh} {
		c, err := colorful.Hex(class.Hex())
		if err != nil {
			return nil, fmt.Errorf("parsing %s class colour: %w", class, err)
		}
		palette[class] = c
	}
	return palette, nil
}
