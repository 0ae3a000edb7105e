package rtl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const (
	BinWidthMin = 1
	BinWidthMax = 2_800_000

	// WindowFunctionRectangle is the default window function
	WindowFunctionRectangle      WindowFunction = "rectangle"
	WindowFunctionHamming        WindowFunction = "hamming"
	WindowFunctionBlackman       WindowFunction = "blackman"
	WindowFunctionBlackmanHarris WindowFunction = "blackman-harris"
	WindowFunctionHannPoisson    WindowFunction = "hann-poisson"
	WindowFunctionBartlett       WindowFunction = "bartlett"
	WindowFunctionYoussef        WindowFunction = "youssef"
	WindowFunctionKaiser         WindowFunction = "kaiser"

	// SmoothingAvg is the default smoothing method
	SmoothingAvg SmoothingMethod = "avg"
	SmoothingIIR SmoothingMethod = "iir"
)

var (
	validWindowFunctions = map[WindowFunction]struct{}{
		WindowFunctionRectangle:      {},
		WindowFunctionHamming:        {},
		WindowFunctionBlackman:       {},
		WindowFunctionBlackmanHarris: {},
		WindowFunctionHannPoisson:    {},
		WindowFunctionYoussef:        {},
		WindowFunctionKaiser:         {},
		WindowFunctionBartlett:       {},
	}

	validSmoothingMethods = map[SmoothingMethod]struct{}{
		SmoothingAvg: {},
		SmoothingIIR: {},
	}
)

type WindowFunction string

func (w WindowFunction) String() string {
	return string(w)
}

type SmoothingMethod string

func (s SmoothingMethod) String() string {
	return string(s)
}

// Options are the `rtl_power` settings that do not come from a scan
// configuration. They are set once per application.
type Options struct {
	DeviceIndex    int             `yaml:"deviceIndex" json:"deviceIndex" mapstructure:"deviceIndex"`
	Interval       time.Duration   `yaml:"interval" json:"interval" mapstructure:"interval"`
	Smoothing      SmoothingMethod `yaml:"smoothing" json:"smoothing" mapstructure:"smoothing"`
	WindowFunction WindowFunction  `yaml:"windowFunction" json:"windowFunction" mapstructure:"windowFunction"`
	Crop           float32         `yaml:"crop" json:"crop" mapstructure:"crop"`
	PeakHold       bool            `yaml:"peakHold" json:"peakHold" mapstructure:"peakHold"`
	OffsetTuning   bool            `yaml:"offsetTuning" json:"offsetTuning" mapstructure:"offsetTuning"`
	BiasTee        bool            `yaml:"biasTee" json:"biasTee" mapstructure:"biasTee"`
}

// Usage examples from man page:
// https://manpages.debian.org/bookworm/rtl-sdr/rtl_power.1.en.html

/*
FM Band Scan
    rtlConfig := rtl.Config{
        FrequencyStart: 88_000_000,   // 88 MHz
        FrequencyEnd:   108_000_000,  // 108 MHz
        BinWidth:       125_000,      // 125 kHz
        SingleShot:     true,
    }
    // Executes: rtl_power -f 88000000:108000000:125000 -d 0 -1 -
    // Creates 160 bins across the FM band, individual stations should be visible
*/

// Config is the `rtl_power` tool configuration
type Config struct {
	// Required
	FrequencyStart int64 `yaml:"frequencyStart" json:"frequencyStart"` // -f lower Frequency range start (Hz)
	FrequencyEnd   int64 `yaml:"frequencyEnd" json:"frequencyEnd"`     // -f upper Frequency range end (Hz)
	BinWidth       int64 `yaml:"binWidth" json:"binWidth"`             // -f bin_size Bin size in Hz (valid range 1Hz - 2.8MHz)

	Interval    time.Duration `yaml:"interval" json:"interval"`       // -i integration_interval (default: 10 seconds)
	DeviceIndex int           `yaml:"deviceIndex" json:"deviceIndex"` // -d device_index (default: 0)

	Gain     float64 `yaml:"gain" json:"gain"`         // -g tuner_gain (default: automatic)
	PPMError int     `yaml:"ppmError" json:"ppmError"` // -p ppm_error (default: 0)

	SingleShot bool `yaml:"singleShot" json:"singleShot"` // -1 single shot mode

	// Processing Options
	Smoothing      SmoothingMethod `yaml:"smoothing" json:"smoothing"`           // -s [avg|iir] Smoothing (default: avg)
	WindowFunction WindowFunction  `yaml:"windowFunction" json:"windowFunction"` // -w window (default: rectangle)
	Crop           float32         `yaml:"crop" json:"crop"`                     // -c crop_percent (default: 0%, recommended: 20%-50%)

	// Hardware Options
	PeakHold     bool `yaml:"peakHold" json:"peakHold"`         // -P enables peak hold (default: off)
	OffsetTuning bool `yaml:"offsetTuning" json:"offsetTuning"` // -O enable offset tuning (default: off)
	BiasTee      bool `yaml:"biasTee" json:"biasTee"`           // -T enable bias-tee (default: off)
}

// NewConfig builds a single-shot sweep of r. The bin width is the FFT bin
// resolution of the scan, clamped to the range `rtl_power` accepts.
func NewConfig(r spectrum.FrequencyRange, config *scan.Config, options Options) *Config {
	binWidth := int64(math.Round(config.Resolution()))
	binWidth = min(max(binWidth, BinWidthMin), BinWidthMax)

	// rtl_power needs a positive start and a non-empty range, so a range
	// at 0 Hz or of zero width is swept as one bin
	start := max(int64(math.Floor(r.Start)), 1)
	end := int64(math.Ceil(r.Stop))
	if end <= start {
		end = start + binWidth
	}

	return &Config{
		FrequencyStart: start,
		FrequencyEnd:   end,
		BinWidth:       binWidth,
		Interval:       options.Interval,
		DeviceIndex:    options.DeviceIndex,
		Gain:           config.TunerGain,
		PPMError:       int(math.Round(config.PPMError)),
		SingleShot:     true,
		Smoothing:      options.Smoothing,
		WindowFunction: options.WindowFunction,
		Crop:           options.Crop,
		PeakHold:       options.PeakHold,
		OffsetTuning:   options.OffsetTuning,
		BiasTee:        options.BiasTee,
	}
}

func (c *Config) Validate() error {
	// Validate required fields
	if c.FrequencyStart <= 0 {
		return fmt.Errorf("rtl.Config: frequency start must be positive: %d", c.FrequencyStart)
	}
	if c.FrequencyEnd <= c.FrequencyStart {
		return fmt.Errorf("rtl.Config: frequency end must be greater than start: %d <= %d", c.FrequencyEnd, c.FrequencyStart)
	}

	// Validate bin width
	if c.BinWidth < BinWidthMin || c.BinWidth > BinWidthMax {
		return fmt.Errorf("rtl.Config: invalid bin width: %d, must be between %d and %d Hz", c.BinWidth, BinWidthMin, BinWidthMax)
	}

	if c.Gain < 0 {
		return fmt.Errorf("rtl.Config: gain must not be negative: %0.1f", c.Gain)
	}

	if c.Interval < 0 || (c.Interval > 0 && c.Interval < time.Second) {
		return fmt.Errorf("rtl.Config: interval must be at least 1 second: %s given", c.Interval)
	}

	// Validate window function
	if c.WindowFunction != "" {
		if _, ok := validWindowFunctions[c.WindowFunction]; !ok {
			return fmt.Errorf("rtl.Config: invalid window function: %s", c.WindowFunction)
		}
	}

	// Validate smoothing method
	if c.Smoothing != "" {
		if _, ok := validSmoothingMethods[c.Smoothing]; !ok {
			return fmt.Errorf("rtl.Config: invalid smoothing method: %s", c.Smoothing)
		}
	}

	// Validate crop percent
	if c.Crop < 0 || c.Crop > 1 {
		return fmt.Errorf("rtl.Config: crop percent must be between 0 and 1: %0.2f given", c.Crop)
	}

	return nil
}

// Args returns the command line arguments for `rtl_power`
// See `man rtl_power` for more information:
// https://manpages.debian.org/bookworm/rtl-sdr/rtl_power.1.en.html
func (c *Config) Args() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	args := []string{
		"-f", fmt.Sprintf("%d:%d:%d",
			c.FrequencyStart,
			c.FrequencyEnd,
			c.BinWidth),
	}

	if c.Interval > 0 {
		args = append(args, "-i", formatDuration(c.Interval))
	}

	args = append(args, "-d", strconv.Itoa(c.DeviceIndex)) // 0 is the default device index

	if c.Gain > 0 {
		args = append(args, "-g", strconv.FormatFloat(c.Gain, 'f', -1, 64))
	}

	if c.PPMError != 0 {
		args = append(args, "-p", strconv.Itoa(c.PPMError))
	}

	if c.SingleShot {
		args = append(args, "-1")
	}

	// Processing options
	if c.Smoothing != "" {
		args = append(args, "-s", c.Smoothing.String())
	}

	if c.WindowFunction != "" {
		args = append(args, "-w", c.WindowFunction.String())
	}

	if c.Crop > 0 {
		args = append(args, "-c", strconv.FormatFloat(float64(c.Crop), 'f', 2, 32))
	}

	// Hardware options
	if c.PeakHold {
		args = append(args, "-P")
	}

	if c.OffsetTuning {
		args = append(args, "-O")
	}

	if c.BiasTee {
		args = append(args, "-T")
	}

	args = append(args, "-") // Always dump to stdout

	return args, nil
}

func (c *Config) String() string {
	args, err := c.Args()
	if err != nil {
		return fmt.Sprintf("rtl.Config: failed to build args: %s", err)
	}
	return fmt.Sprintf("%s %s", Runtime, strings.Join(args, " "))
}

// formatDuration renders d in the largest whole unit `rtl_power` understands.
func formatDuration(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	default:
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
}
