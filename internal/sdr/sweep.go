package sdr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// PowerReading represents a single frequency power reading,
// allowing for explicit invalid/missing data representation
type PowerReading struct {
	Frequency float64 // Center frequency in Hz
	Power     float64 // Power level (dBm for rtl_sdr, dB for hackrf)
	IsValid   bool    // Whether the sample is valid
}

// SweepResult represents a single line of sweep tool output
type SweepResult struct {
	Timestamp      time.Time      // Timestamp information
	StartFrequency float64        // StartFrequency specifies the starting frequency in Hz for the sweep
	EndFrequency   float64        // EndFrequency specifies the ending frequency in Hz for the sweep
	BinWidth       float64        // Hz step/bin width
	NumSamples     int            // Number of samples used for this measurement
	Readings       []PowerReading // Readings contains a collection of power readings for a sweep result
	Device         string         // Device type (e.g., "RTL-SDR", "HackRF")
	DeviceID       string         // Serial number or index (human-readable)
}

// CenterFrequency returns the center frequency of the first bin.
// For example, if the sweep starts at 1000 MHz with a bin width of 200 kHz,
// the center frequency would be 1000.1 MHz.
func (s *SweepResult) CenterFrequency() float64 {
	return s.StartFrequency + (s.BinWidth / 2)
}

// Samples converts valid readings into samples, keeping only bins inside
// scanRange and outside every ignored range.
func (s *SweepResult) Samples(scanRange spectrum.FrequencyRange, ignored spectrum.Ranges) []spectrum.Sample {
	var samples []spectrum.Sample
	for _, r := range s.Readings {
		if !r.IsValid || !scanRange.Contains(r.Frequency) || ignored.Contains(r.Frequency) {
			continue
		}
		samples = append(samples, spectrum.Sample{Frequency: r.Frequency, Strength: r.Power})
	}
	return samples
}

// ParseSweepLine parses a CSV line shared by `rtl_power` and `hackrf_sweep`:
//
//	date, time, Hz low, Hz high, Hz step, samples, dB, dB, ...
//
// Fractional seconds in the time field are accepted.
func ParseSweepLine(line string) (*SweepResult, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 7 {
		return nil, fmt.Errorf("invalid sweep output: not enough fields")
	}

	var (
		result SweepResult
		err    error
	)

	dateTime := strings.TrimSpace(fields[0]) + " " + strings.TrimSpace(fields[1])
	result.Timestamp, err = time.Parse(time.DateTime, dateTime)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	result.StartFrequency, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start frequency: %w", err)
	}

	result.EndFrequency, err = strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid end frequency: %w", err)
	}

	result.BinWidth, err = strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid bin width: %w", err)
	}

	result.NumSamples, err = strconv.Atoi(strings.TrimSpace(fields[5]))
	if err != nil {
		return nil, fmt.Errorf("invalid number of samples: %w", err)
	}

	// Parse average power values; unparsable values (e.g. "nan") stay invalid
	result.Readings = make([]PowerReading, 0, len(fields)-6)
	for i, field := range fields[6:] {
		reading := PowerReading{
			Frequency: result.StartFrequency + (float64(i) * result.BinWidth) + (result.BinWidth / 2),
		}

		if power, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil && !math.IsNaN(power) && !math.IsInf(power, 0) {
			reading.Power = power
			reading.IsValid = true
		}

		result.Readings = append(result.Readings, reading)
	}

	return &result, nil
}
