package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

func TestParse_Defaults(t *testing.T) {
	config, err := Parse(DefaultRawConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.0, config.PPMError)
	assert.Equal(t, 10.0, config.TunerGain)
	assert.Equal(t, 2.4e6, config.Bandwidth)
	assert.Equal(t, 1024, config.Samples)
	assert.Equal(t, 1024, config.FFTSize)
	assert.Equal(t, -100.0, config.NoiseLevel)
	assert.Equal(t, spectrum.UnitHz, config.Unit)
	assert.Equal(t, spectrum.Ranges{{Start: 100e6, Stop: 110e6}}, config.ScanRanges)
	assert.Equal(t, spectrum.Ranges{{Start: 100e6, Stop: 105e6}}, config.IgnoredRanges)
	assert.InDelta(t, 2343.75, config.Resolution(), 1e-9)
}

func TestParse_UnitConversion(t *testing.T) {
	raw := DefaultRawConfig()
	raw.FrequencyUnit = "MHz"
	raw.ScanRanges = []RawRange{{Start: "100", Stop: "110"}}
	raw.IgnoredRanges = []RawRange{{Start: "100", Stop: "105"}}

	config, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, spectrum.Ranges{{Start: 100e6, Stop: 110e6}}, config.ScanRanges)
	assert.Equal(t, spectrum.Ranges{{Start: 100e6, Stop: 105e6}}, config.IgnoredRanges)
	assert.Equal(t, 2.4e6, config.Bandwidth, "bandwidth is not unit-scaled")

	back := config.Raw()
	assert.Equal(t, "MHz", back.FrequencyUnit)
	assert.Equal(t, []RawRange{{Start: "100", Stop: "110"}}, back.ScanRanges)

	again, err := Parse(back)
	require.NoError(t, err)
	assert.InDelta(t, 100e6, again.ScanRanges[0].Start, 1e-6)
	assert.InDelta(t, 110e6, again.ScanRanges[0].Stop, 1e-6)
}

func TestParse_CollectsEveryFieldError(t *testing.T) {
	raw := RawConfig{
		PPMError:      "abc",
		TunerGain:     "-3",
		Bandwidth:     "0",
		Samples:       "10.5",
		FFTSize:       "",
		ScanRanges:    []RawRange{{Start: "110", Stop: "100"}},
		IgnoredRanges: []RawRange{{Start: "x", Stop: "5"}},
		NoiseLevel:    "NaN",
		FrequencyUnit: "THz",
	}

	config, err := Parse(raw)
	require.Error(t, err)
	assert.Nil(t, config)
	assert.True(t, errors.Is(err, ErrConfigInvalid))

	var invalid *ConfigInvalidError
	require.True(t, errors.As(err, &invalid))

	fields := make([]string, len(invalid.Fields))
	for i, f := range invalid.Fields {
		fields[i] = f.Field
	}

	assert.ElementsMatch(t, []string{
		"frequencyUnit",
		"ppmError",
		"tunerGain",
		"bandwidth",
		"samples",
		"fftSize",
		"noiseLevel",
		"scanRanges[0]",
		"ignoredRanges[0].start",
	}, fields)
}

func TestParse_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		ranges  []RawRange
		field   string
		wantErr bool
	}{
		{"single point range", []RawRange{{Start: "100", Stop: "100"}}, "", false},
		{"overlapping ranges", []RawRange{{Start: "100", Stop: "200"}, {Start: "150", Stop: "250"}}, "", false},
		{"start after stop", []RawRange{{Start: "200", Stop: "100"}}, "scanRanges[0]", true},
		{"negative start", []RawRange{{Start: "-1", Stop: "100"}}, "scanRanges[0]", true},
		{"second range invalid", []RawRange{{Start: "1", Stop: "2"}, {Start: "5", Stop: "inf"}}, "scanRanges[1].stop", true},
		{"empty", nil, "scanRanges", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := DefaultRawConfig()
			raw.ScanRanges = tt.ranges

			config, err := Parse(raw)
			if !tt.wantErr {
				require.NoError(t, err)
				for _, r := range config.ScanRanges {
					assert.True(t, r.Valid())
				}
				return
			}

			var invalid *ConfigInvalidError
			require.ErrorAs(t, err, &invalid)
			require.Len(t, invalid.Fields, 1)
			assert.Equal(t, tt.field, invalid.Fields[0].Field)
		})
	}
}

func TestParse_RangeOverflow(t *testing.T) {
	raw := DefaultRawConfig()
	raw.FrequencyUnit = "GHz"
	raw.ScanRanges = []RawRange{{Start: "1", Stop: "1e300"}}

	config, err := Parse(raw)
	assert.Nil(t, config)

	var invalid *ConfigInvalidError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Fields, 1)
	assert.Equal(t, "scanRanges[0]", invalid.Fields[0].Field)
	assert.Contains(t, invalid.Fields[0].Reason, "representable")
}

func TestParse_IntegerFields(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"1024", 1024, false},
		{" 2048 ", 2048, false},
		{"1e3", 1000, false},
		{"1000", 1000, false},
		{"0", 0, true},
		{"-8", 0, true},
		{"3.5", 0, true},
		{"lots", 0, true},
	}

	for _, tt := range tests {
		raw := DefaultRawConfig()
		raw.Samples = tt.input

		config, err := Parse(raw)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}

		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, config.Samples)
	}
}

func TestParse_Category(t *testing.T) {
	raw := DefaultRawConfig()
	raw.FrequencyUnit = "MHz"
	raw.Category = "VHF - TV Broadcast, FM Radio, Air Traffic Control"
	raw.IgnoredRanges = nil

	config, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, spectrum.Ranges{{Start: 30e6, Stop: 300e6}}, config.ScanRanges, "preset ranges are already Hz")

	raw.Category = "uhf"
	config, err = Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, spectrum.Ranges{{Start: 300e6, Stop: 3e9}}, config.ScanRanges)

	raw.Category = "LF"
	_, err = Parse(raw)

	var invalid *ConfigInvalidError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "category", invalid.Fields[0].Field)
}

func TestConfigInvalidError_Message(t *testing.T) {
	err := &ConfigInvalidError{Fields: []FieldError{
		{Field: "samples", Reason: "is required"},
		{Field: "bandwidth", Reason: "must be greater than zero"},
	}}

	assert.Equal(t,
		"invalid scan configuration: samples: is required; bandwidth: must be greater than zero",
		err.Error())
}

func TestDecodeRequest(t *testing.T) {
	data := []byte(`
tunerGain: 20.7
frequencyUnit: MHz
scanRanges:
  - start: 88
    stop: 108
ignoredRanges: []
`)

	raw, err := DecodeRequest(data)
	require.NoError(t, err)
	assert.Equal(t, "20.7", raw.TunerGain)
	assert.Equal(t, "1024", raw.Samples, "missing fields keep defaults")

	config, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, spectrum.Ranges{{Start: 88e6, Stop: 108e6}}, config.ScanRanges)
	assert.Empty(t, config.IgnoredRanges)
}

func TestLoadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte("category: HF\n"), 0o600))

	raw, err := LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, "HF", raw.Category)

	_, err = LoadRequest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	presets := Presets()
	require.Len(t, presets, 5)
	assert.Equal(t, "HF - Shortwave Radio", presets[0].Label)
	assert.Equal(t, spectrum.FrequencyRange{Start: 30e9, Stop: 300e9}, presets[4].Range)

	p, ok := PresetByLabel("SHF")
	require.True(t, ok)
	assert.Equal(t, spectrum.BandSHF, p.Band)
}
