package hackrf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const (
	MinNumSamples = 8192
	MinBinWidth   = 2445
	MaxBinWidth   = 5_000_000
	MaxLNAGain    = 40
	MaxVGAGain    = 62
	LNAGainStep   = 8
	VGAGainStep   = 2
)

// Options are the `hackrf_sweep` settings that do not come from a scan
// configuration.
type Options struct {
	SerialNumber string `yaml:"serialNumber" json:"serialNumber" mapstructure:"serialNumber"`
	VGAGain      *int   `yaml:"vgaGain" json:"vgaGain" mapstructure:"vgaGain"`
	EnableAmp    bool   `yaml:"enableAmp" json:"enableAmp" mapstructure:"enableAmp"`
	AntennaPower bool   `yaml:"antennaPower" json:"antennaPower" mapstructure:"antennaPower"`
}

// Usage examples from man page:
// https://manpages.debian.org/bookworm/hackrf/hackrf_sweep.1.en.html

/*
	hackrfConfig := hackrf.Config{
        FrequencyStart: 824_000_000,  // 824 MHz
        FrequencyEnd:   849_000_000,  // 849 MHz
        BinWidth:       100_000,      // 100 kHz
        OneShot:        true,
    }
    // Executes: hackrf_sweep -f 824:849 -w 100000 -1
*/

// Config is a struct for configuring the `hackrf_sweep` tool
type Config struct {
	// Required, in Hz. `hackrf_sweep` takes whole MHz, see Args.
	FrequencyStart int64 `yaml:"frequencyStart" json:"frequencyStart"` // -f freq_min
	FrequencyEnd   int64 `yaml:"frequencyEnd" json:"frequencyEnd"`     // -f freq_max

	LNAGain    *int  `yaml:"lnaGain" json:"lnaGain"`       // -l gain_db LNA (IF) gain, 0-40dB, 8dB steps
	VGAGain    *int  `yaml:"vgaGain" json:"vgaGain"`       // -g gain_db VGA (baseband) gain, 0-62dB, 2dB steps
	BinWidth   int64 `yaml:"binWidth" json:"binWidth"`     // -w bin_width FFT bin width (frequency resolution) in Hz
	NumSamples int64 `yaml:"numSamples" json:"numSamples"` // -n num_samples Number of samples per frequency, multiple of 8192

	EnableAmp    bool `yaml:"enableAmp" json:"enableAmp"`       // -a amp_enable RX RF amplifier 1=Enable, 0=Disable
	AntennaPower bool `yaml:"antennaPower" json:"antennaPower"` // -p antenna_enable Antenna port power, 1=Enable, 0=Disable

	OneShot bool `yaml:"oneShot" json:"oneShot"` // -1 One shot mode

	// Binary output (-B, -I), output files (-r) and FFTW wisdom (-W, -P)
	// are not supported to keep the output consistent with `rtl_power`
}

// NewConfig builds a one-shot sweep of r. The tuner gain of the scan maps to
// the LNA gain, the FFT size to the number of samples per frequency.
func NewConfig(r spectrum.FrequencyRange, config *scan.Config, options Options) *Config {
	binWidth := int64(math.Round(config.Resolution()))
	binWidth = min(max(binWidth, MinBinWidth), MaxBinWidth)

	lnaGain := int(config.TunerGain) / LNAGainStep * LNAGainStep
	lnaGain = min(max(lnaGain, 0), MaxLNAGain)

	numSamples := int64(config.FFTSize) / MinNumSamples * MinNumSamples
	numSamples = max(numSamples, MinNumSamples)

	// a zero-width range is swept as one bin
	start := int64(math.Floor(r.Start))
	end := int64(math.Ceil(r.Stop))
	if end <= start {
		end = start + binWidth
	}

	return &Config{
		FrequencyStart: start,
		FrequencyEnd:   end,
		LNAGain:        &lnaGain,
		VGAGain:        options.VGAGain,
		BinWidth:       binWidth,
		NumSamples:     numSamples,
		EnableAmp:      options.EnableAmp,
		AntennaPower:   options.AntennaPower,
		OneShot:        true,
	}
}

func (c *Config) Validate() error {
	// Frequency range validation
	if c.FrequencyStart < 0 {
		return fmt.Errorf("hackrf.Config: frequency start must not be negative: %d given", c.FrequencyStart)
	}
	if c.FrequencyStart >= c.FrequencyEnd {
		return errors.New("hackrf.Config: frequency end must be greater than frequency start")
	}

	// LNA gain validation (0-40dB in 8dB steps)
	if c.LNAGain != nil {
		if *c.LNAGain < 0 || *c.LNAGain > MaxLNAGain {
			return fmt.Errorf("hackrf.Config: LNA gain must be between 0 and 40 dB: %d given", *c.LNAGain)
		}
		if *c.LNAGain%LNAGainStep != 0 {
			return errors.New("hackrf.Config: LNA gain must be a multiple of 8 dB")
		}
	}

	// VGA gain validation (0-62dB in 2dB steps)
	if c.VGAGain != nil {
		if *c.VGAGain < 0 || *c.VGAGain > MaxVGAGain {
			return fmt.Errorf("hackrf.Config: VGA gain must be between 0 and 62 dB: %d given", *c.VGAGain)
		}
		if *c.VGAGain%VGAGainStep != 0 {
			return errors.New("hackrf.Config: VGA gain must be a multiple of 2 dB")
		}
	}

	if c.BinWidth != 0 && (c.BinWidth < MinBinWidth || c.BinWidth > MaxBinWidth) {
		return fmt.Errorf("hackrf.Config: bin width must be between %d and %d Hz: %d given", MinBinWidth, MaxBinWidth, c.BinWidth)
	}

	// NumSamples validation (if specified)
	if c.NumSamples != 0 && (c.NumSamples < MinNumSamples || c.NumSamples%MinNumSamples != 0) {
		return fmt.Errorf("hackrf.Config: number of samples must be a multiple of 8192: %d given", c.NumSamples)
	}

	return nil
}

// Args builds the command line arguments for `hackrf_sweep`
// See `man hackrf_sweep` for more information:
// https://manpages.debian.org/bookworm/hackrf/hackrf_sweep.1.en.html
func (c *Config) Args(serialNumber string) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// The range is widened to whole MHz, readings outside of the scan range
	// are dropped by the generator.
	startMHz := c.FrequencyStart / 1e6
	endMHz := (c.FrequencyEnd + 1e6 - 1) / 1e6

	args := []string{
		"-f", fmt.Sprintf("%d:%d", startMHz, endMHz),
	}

	if serialNumber != "" {
		args = append(args, "-d", serialNumber)
	}

	if c.BinWidth > 0 {
		args = append(args, "-w", strconv.FormatInt(c.BinWidth, 10))
	}

	if c.LNAGain != nil {
		args = append(args, "-l", strconv.Itoa(*c.LNAGain))
	}

	if c.VGAGain != nil {
		args = append(args, "-g", strconv.Itoa(*c.VGAGain))
	}

	if c.NumSamples > 0 {
		args = append(args, "-n", strconv.FormatInt(c.NumSamples, 10))
	}

	if c.EnableAmp {
		args = append(args, "-a", "1")
	}

	if c.AntennaPower {
		args = append(args, "-p", "1")
	}

	if c.OneShot {
		args = append(args, "-1")
	}

	return args, nil
}

func (c *Config) String() string {
	args, err := c.Args("")
	if err != nil {
		return fmt.Sprintf("hackrf.Config: failed to build args: %s", err)
	}
	return fmt.Sprintf("%s %s", Runtime, strings.Join(args, " "))
}
