package rtl

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/sdr"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const (
	Runtime = "rtl_power"
	Device  = "RTL-SDR"
)

// handler struct represents an RTL-SDR handler
type handler struct {
	binPath string
	args    []string
}

// New creates a new RTL-SDR handler
func New(config *Config) (sdr.Handler, error) {
	binPath, err := sdr.FindRuntime(Runtime)
	if err != nil {
		return nil, fmt.Errorf("error finding runtime: %w", err)
	}

	args, err := config.Args()
	if err != nil {
		return nil, fmt.Errorf("error creating args: %w", err)
	}

	return &handler{binPath, args}, nil
}

// Factory returns a handler factory sweeping each scan range with options.
func Factory(options Options) sdr.HandlerFactory {
	return func(r spectrum.FrequencyRange, config *scan.Config) (sdr.Handler, error) {
		return New(NewConfig(r, config, options))
	}
}

// Cmd returns an exec.Cmd for the RTL-SDR handler
func (h handler) Cmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, h.binPath, h.args...)
}

// Parse parses a line of `rtl_power` output
func (h handler) Parse(line string) (*sdr.SweepResult, error) {
	return sdr.ParseSweepLine(line)
}

// Device returns the device type
func (h handler) Device() string {
	return Device
}
