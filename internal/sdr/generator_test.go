package sdr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

func helperFactory(mode string, calls *[]spectrum.FrequencyRange) HandlerFactory {
	return func(r spectrum.FrequencyRange, _ *scan.Config) (Handler, error) {
		*calls = append(*calls, r)
		return helperHandler{mode: mode}, nil
	}
}

func generate(ctx context.Context, t *testing.T, g *Generator, config *scan.Config) ([]spectrum.Sample, error) {
	t.Helper()

	out := make(chan spectrum.Sample)
	errc := make(chan error, 1)
	go func() {
		errc <- g.Generate(ctx, config, out)
	}()

	var samples []spectrum.Sample
	for {
		select {
		case s := <-out:
			samples = append(samples, s)
		case err := <-errc:
			return samples, err
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for the generator")
			return nil, nil
		}
	}
}

func TestGenerator_Generate(t *testing.T) {
	var calls []spectrum.FrequencyRange
	g := NewGenerator("0", helperFactory("sweep", &calls))

	config := &scan.Config{
		ScanRanges: spectrum.Ranges{
			{Start: 100_000_000, Stop: 100_300_000},
			{Start: 433_000_000, Stop: 434_000_000},
		},
		IgnoredRanges: spectrum.Ranges{{Start: 100_100_000, Stop: 100_200_000}},
	}

	samples, err := generate(context.Background(), t, g, config)
	require.NoError(t, err)

	assert.Equal(t, []spectrum.FrequencyRange(config.ScanRanges), calls)

	// Only the first range overlaps the fake tool output. 100.15 MHz is
	// ignored and 100.35 MHz is nan.
	assert.Equal(t, []spectrum.Sample{
		{Frequency: 100_050_000, Strength: -10.5},
		{Frequency: 100_250_000, Strength: -30.5},
	}, samples)
}

func TestGenerator_Generate_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	g := NewGenerator("0", func(spectrum.FrequencyRange, *scan.Config) (Handler, error) {
		return nil, boom
	})

	config := &scan.Config{ScanRanges: spectrum.Ranges{{Start: 1, Stop: 2}}}

	_, err := generate(context.Background(), t, g, config)
	assert.ErrorIs(t, err, scan.ErrGenerationFailed)
	assert.ErrorIs(t, err, boom)
}

func TestGenerator_Generate_DeviceError(t *testing.T) {
	var calls []spectrum.FrequencyRange
	g := NewGenerator("0", helperFactory("fail", &calls))

	config := &scan.Config{ScanRanges: spectrum.Ranges{
		{Start: 100_000_000, Stop: 100_300_000},
		{Start: 433_000_000, Stop: 434_000_000},
	}}

	_, err := generate(context.Background(), t, g, config)
	assert.ErrorIs(t, err, scan.ErrGenerationFailed)
	assert.Len(t, calls, 1, "a failed sweep must stop the scan")
}

func TestGenerator_Generate_Timeout(t *testing.T) {
	var calls []spectrum.FrequencyRange
	g := NewGenerator("0", helperFactory("hang", &calls), WithAcquisitionTimeout(200*time.Millisecond))

	config := &scan.Config{ScanRanges: spectrum.Ranges{{Start: 100_000_000, Stop: 100_300_000}}}

	_, err := generate(context.Background(), t, g, config)
	assert.ErrorIs(t, err, scan.ErrGenerationFailed)
	assert.ErrorIs(t, err, ErrAcquisitionTimeout)
}

func TestGenerator_Generate_Cancel(t *testing.T) {
	var calls []spectrum.FrequencyRange
	g := NewGenerator("0", helperFactory("hang", &calls), WithAcquisitionTimeout(0))

	config := &scan.Config{ScanRanges: spectrum.Ranges{{Start: 100_000_000, Stop: 100_300_000}}}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := generate(ctx, t, g, config)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, scan.ErrGenerationFailed)
}

func TestWithGeneratorLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := NewGenerator("0", helperFactory("sweep", nil), WithGeneratorLogger(logger))

	// the device logger is installed once per device
	assert.Len(t, g.deviceOptions, 1)
}
