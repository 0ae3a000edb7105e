package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/roman-kulish/spectrum-scanner/internal/chart"
	"github.com/roman-kulish/spectrum-scanner/internal/sdr/hackrf"
	"github.com/roman-kulish/spectrum-scanner/internal/sdr/rtl"
)

const (
	BackendMock   = "mock"
	BackendRTLSDR = "rtl-sdr"
	BackendHackRF = "hackrf"

	envPrefix = "SCANNER"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings      `mapstructure:"settings"`
	Server   ServerConfig  `mapstructure:"server"`
	Backend  BackendConfig `mapstructure:"backend"`
	Chart    chart.Config  `mapstructure:"chart"`
	Scan     ScanConfig    `mapstructure:"scan"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `mapstructure:"logLevel"`
	LogFile  string `mapstructure:"logFile"` // Used by the terminal UI, which owns stdout
}

// ServerConfig represents HTTP API settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// BackendConfig selects and configures the result generator
type BackendConfig struct {
	Type               string         `mapstructure:"type"`
	DeviceID           string         `mapstructure:"deviceId"`
	Seed               uint64         `mapstructure:"seed"` // Mock only; zero is unseeded
	AcquisitionTimeout time.Duration  `mapstructure:"acquisitionTimeout"`
	RTL                rtl.Options    `mapstructure:"rtl"`
	HackRF             hackrf.Options `mapstructure:"hackrf"`
}

// ScanConfig holds the scan request used by the scan and tui commands
type ScanConfig struct {
	Request string `mapstructure:"request"` // Path to a YAML or JSON scan request
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("settings.logLevel", "info")
	v.SetDefault("settings.logFile", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowedOrigins", []string{})
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("backend.type", BackendMock)
	v.SetDefault("backend.deviceId", "")
	v.SetDefault("backend.seed", 0)
	v.SetDefault("backend.acquisitionTimeout", 30*time.Second)
	v.SetDefault("backend.rtl.deviceIndex", 0)
	v.SetDefault("backend.rtl.interval", time.Second)
	v.SetDefault("backend.rtl.smoothing", "")
	v.SetDefault("backend.rtl.windowFunction", "")
	v.SetDefault("backend.rtl.crop", float32(0))
	v.SetDefault("backend.rtl.peakHold", false)
	v.SetDefault("backend.rtl.offsetTuning", false)
	v.SetDefault("backend.rtl.biasTee", false)

	v.SetDefault("backend.hackrf.serialNumber", "")
	v.SetDefault("backend.hackrf.enableAmp", false)
	v.SetDefault("backend.hackrf.antennaPower", false)

	v.SetDefault("chart.width", chart.DefaultWidth)
	v.SetDefault("chart.height", chart.DefaultHeight)
	v.SetDefault("chart.lineColor", chart.DefaultLineColor)
	v.SetDefault("chart.fontSize", 0.0)
	v.SetDefault("chart.borders.top", 0)
	v.SetDefault("chart.borders.left", 0)
	v.SetDefault("chart.borders.bottom", 0)
	v.SetDefault("chart.borders.right", 0)

	v.SetDefault("scan.request", "")
}

// LoadConfig reads the configuration file at path, if any, and applies
// SCANNER_* environment overrides, e.g. SCANNER_SERVER_ADDR.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// unset by default, the gain is picked by hackrf_sweep
	if err := v.BindEnv("backend.hackrf.vgaGain"); err != nil {
		return nil, fmt.Errorf("binding environment: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks settings that are not validated by the components
// they configure.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend.Type {
	case BackendMock, BackendRTLSDR, BackendHackRF:
	default:
		errs = append(errs, fmt.Errorf("backend.type: unknown backend '%s'", c.Backend.Type))
	}

	if c.Backend.AcquisitionTimeout < 0 {
		errs = append(errs, errors.New("backend.acquisitionTimeout: must not be negative"))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr: required"))
	}

	return errors.Join(errs...)
}
