package scan

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const maxIntField = math.MaxInt32

// RawRange is a frequency range as entered by the operator, in the unit of
// the enclosing RawConfig.
type RawRange struct {
	Start string `json:"start" yaml:"start"`
	Stop  string `json:"stop" yaml:"stop"`
}

// RawConfig is operator input before validation. Every numeric field arrives
// as text.
type RawConfig struct {
	PPMError      string     `json:"ppmError" yaml:"ppmError"`
	TunerGain     string     `json:"tunerGain" yaml:"tunerGain"`
	Bandwidth     string     `json:"bandwidth" yaml:"bandwidth"` // Always Hz
	Samples       string     `json:"samples" yaml:"samples"`
	FFTSize       string     `json:"fftSize" yaml:"fftSize"`
	ScanRanges    []RawRange `json:"scanRanges" yaml:"scanRanges"`
	IgnoredRanges []RawRange `json:"ignoredRanges" yaml:"ignoredRanges"`
	NoiseLevel    string     `json:"noiseLevel" yaml:"noiseLevel"`
	FrequencyUnit string     `json:"frequencyUnit" yaml:"frequencyUnit"`

	// Category names a band preset; when set it replaces ScanRanges.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// DefaultRawConfig returns the values the input form starts with.
func DefaultRawConfig() RawConfig {
	return RawConfig{
		PPMError:      "0",
		TunerGain:     "10",
		Bandwidth:     "2400000",
		Samples:       "1024",
		FFTSize:       "1024",
		ScanRanges:    []RawRange{{Start: "100000000", Stop: "110000000"}},
		IgnoredRanges: []RawRange{{Start: "100000000", Stop: "105000000"}},
		NoiseLevel:    "-100",
		FrequencyUnit: spectrum.UnitHz.String(),
	}
}

// Config is a validated scan configuration. All frequencies are in Hz.
type Config struct {
	PPMError      float64         `json:"ppmError"`
	TunerGain     float64         `json:"tunerGain"`
	Bandwidth     float64         `json:"bandwidth"`
	Samples       int             `json:"samples"`
	FFTSize       int             `json:"fftSize"`
	ScanRanges    spectrum.Ranges `json:"scanRanges"`
	IgnoredRanges spectrum.Ranges `json:"ignoredRanges"`
	NoiseLevel    float64         `json:"noiseLevel"`
	Unit          spectrum.Unit   `json:"frequencyUnit"`
	Category      string          `json:"category,omitempty"`
}

// Resolution returns the width of a single FFT bin in Hz.
func (c *Config) Resolution() float64 {
	return c.Bandwidth / float64(c.FFTSize)
}

// Domain returns the x-axis domain spanned by the scan ranges.
func (c *Config) Domain() spectrum.FrequencyRange {
	domain, _ := c.ScanRanges.Domain()
	return domain
}

// Raw renders the configuration back into form input, expressing range
// endpoints in the configured unit.
func (c *Config) Raw() RawConfig {
	unit := c.Unit
	if unit == "" {
		unit = spectrum.UnitHz
	}

	raw := RawConfig{
		PPMError:      formatFloat(c.PPMError),
		TunerGain:     formatFloat(c.TunerGain),
		Bandwidth:     formatFloat(c.Bandwidth),
		Samples:       strconv.Itoa(c.Samples),
		FFTSize:       strconv.Itoa(c.FFTSize),
		ScanRanges:    rawRanges(c.ScanRanges, unit),
		IgnoredRanges: rawRanges(c.IgnoredRanges, unit),
		NoiseLevel:    formatFloat(c.NoiseLevel),
		FrequencyUnit: unit.String(),
		Category:      c.Category,
	}

	if c.Category != "" {
		// preset ranges are not unit-scaled on input
		raw.ScanRanges = rawRanges(c.ScanRanges, spectrum.UnitHz)
	}

	return raw
}

// Parse validates raw input and normalises it to Hz. On failure it returns a
// *ConfigInvalidError listing every offending field and no config.
func Parse(raw RawConfig) (*Config, error) {
	var v validator

	unit, err := spectrum.ParseUnit(raw.FrequencyUnit)
	if err != nil {
		v.fail("frequencyUnit", err.Error())
		unit = spectrum.UnitHz
	}

	config := Config{
		PPMError:   v.real("ppmError", raw.PPMError),
		TunerGain:  v.real("tunerGain", raw.TunerGain),
		Bandwidth:  v.real("bandwidth", raw.Bandwidth),
		Samples:    v.positiveInt("samples", raw.Samples),
		FFTSize:    v.positiveInt("fftSize", raw.FFTSize),
		NoiseLevel: v.real("noiseLevel", raw.NoiseLevel),
		Unit:       unit,
	}

	if config.TunerGain < 0 {
		v.fail("tunerGain", "must not be negative")
	}
	if !v.failed("bandwidth") && config.Bandwidth <= 0 {
		v.fail("bandwidth", "must be greater than zero")
	}

	if category := strings.TrimSpace(raw.Category); category != "" {
		preset, ok := PresetByLabel(category)
		if !ok {
			v.fail("category", fmt.Sprintf("unknown band preset '%s'", category))
		} else {
			config.Category = preset.Label
			config.ScanRanges = spectrum.Ranges{preset.Range}
		}
	} else {
		config.ScanRanges = v.ranges("scanRanges", raw.ScanRanges, unit)
	}

	if len(config.ScanRanges) == 0 && !v.failed("category") && !v.failedPrefix("scanRanges") {
		v.fail("scanRanges", "at least one range is required")
	}

	config.IgnoredRanges = v.ranges("ignoredRanges", raw.IgnoredRanges, unit)

	if len(v.errs) > 0 {
		return nil, &ConfigInvalidError{Fields: v.errs}
	}

	return &config, nil
}

// validator accumulates field errors while parsing.
type validator struct {
	errs []FieldError
}

func (v *validator) fail(field, reason string) {
	v.errs = append(v.errs, FieldError{Field: field, Reason: reason})
}

func (v *validator) failed(field string) bool {
	for _, e := range v.errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (v *validator) failedPrefix(prefix string) bool {
	for _, e := range v.errs {
		if strings.HasPrefix(e.Field, prefix) {
			return true
		}
	}
	return false
}

// real parses a finite number. A failed field yields zero.
func (v *validator) real(field, s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		v.fail(field, "is required")
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		v.fail(field, fmt.Sprintf("'%s' is not a finite number", s))
		return 0
	}

	return f
}

func (v *validator) positiveInt(field, s string) int {
	before := len(v.errs)
	f := v.real(field, s)
	if len(v.errs) > before {
		return 0
	}

	if f != math.Trunc(f) || f <= 0 || f > maxIntField {
		v.fail(field, fmt.Sprintf("'%s' is not a positive integer", strings.TrimSpace(s)))
		return 0
	}

	return int(f)
}

func (v *validator) ranges(field string, raw []RawRange, unit spectrum.Unit) spectrum.Ranges {
	out := make(spectrum.Ranges, 0, len(raw))
	for i, r := range raw {
		name := fmt.Sprintf("%s[%d]", field, i)
		before := len(v.errs)

		start := v.real(name+".start", r.Start)
		stop := v.real(name+".stop", r.Stop)
		if len(v.errs) > before {
			continue
		}

		fr := spectrum.FrequencyRange{Start: unit.ToHz(start), Stop: unit.ToHz(stop)}
		switch {
		case math.IsInf(fr.Start, 0) || math.IsInf(fr.Stop, 0):
			v.fail(name, "exceeds the representable frequency range")
		case fr.Start < 0 || fr.Stop < 0:
			v.fail(name, "frequencies must not be negative")
		case fr.Start > fr.Stop:
			v.fail(name, "start must not exceed stop")
		default:
			out = append(out, fr)
		}
	}
	return out
}

func rawRanges(ranges spectrum.Ranges, unit spectrum.Unit) []RawRange {
	out := make([]RawRange, len(ranges))
	for i, r := range ranges {
		out[i] = RawRange{
			Start: formatFloat(unit.FromHz(r.Start)),
			Stop:  formatFloat(unit.FromHz(r.Stop)),
		}
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
