package sdr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// DefaultAcquisitionTimeout bounds a whole scan when no timeout is configured
const DefaultAcquisitionTimeout = 30 * time.Second

// HandlerFactory builds a handler sweeping a single scan range.
type HandlerFactory func(r spectrum.FrequencyRange, config *scan.Config) (Handler, error)

// WithAcquisitionTimeout bounds the duration of a whole scan; zero disables it
func WithAcquisitionTimeout(timeout time.Duration) func(g *Generator) {
	return func(g *Generator) {
		g.timeout = timeout
	}
}

// WithGeneratorLogger sets the logger for the generator and its devices
func WithGeneratorLogger(logger *slog.Logger) func(g *Generator) {
	return func(g *Generator) {
		g.logger = logger.With(slog.String("component", "generator"))
		g.deviceOptions = append(g.deviceOptions, WithLogger(logger))
	}
}

// WithDeviceOptions passes options to every device the generator runs
func WithDeviceOptions(options ...func(d *Device)) func(g *Generator) {
	return func(g *Generator) {
		g.deviceOptions = append(g.deviceOptions, options...)
	}
}

// Generator acquires samples from a sweep tool, one sweep per scan range.
// It implements scan.Generator.
type Generator struct {
	deviceID      string
	factory       HandlerFactory
	timeout       time.Duration
	deviceOptions []func(d *Device)
	logger        *slog.Logger
}

// NewGenerator creates a generator running handlers built by factory.
func NewGenerator(deviceID string, factory HandlerFactory, options ...func(g *Generator)) *Generator {
	g := Generator{
		deviceID: deviceID,
		factory:  factory,
		timeout:  DefaultAcquisitionTimeout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&g)
	}

	return &g
}

func (g *Generator) Generate(ctx context.Context, config *scan.Config, out chan<- spectrum.Sample) error {
	acquireCtx, cancel := g.acquisitionContext(ctx)
	defer cancel()

	for _, r := range config.ScanRanges {
		if err := g.sweep(acquireCtx, r, config, out); err != nil {
			return g.classify(ctx, acquireCtx, err)
		}

		if acquireCtx.Err() != nil {
			return g.classify(ctx, acquireCtx, acquireCtx.Err())
		}
	}

	return nil
}

func (g *Generator) acquisitionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return context.WithCancel(ctx)
}

// sweep runs one device over r and forwards the samples inside r. Once ctx
// is done the remaining output is drained without being forwarded.
func (g *Generator) sweep(ctx context.Context, r spectrum.FrequencyRange, config *scan.Config, out chan<- spectrum.Sample) error {
	handler, err := g.factory(r, config)
	if err != nil {
		return fmt.Errorf("creating %s handler: %w", g.deviceID, err)
	}

	g.logger.Info("sweeping range",
		slog.String("device", handler.Device()),
		slog.String("start", spectrum.FormatFrequency(r.Start)),
		slog.String("stop", spectrum.FormatFrequency(r.Stop)))

	device := NewDevice(g.deviceID, handler, g.deviceOptions...)

	results := make(chan *SweepResult)
	runErr := make(chan error, 1)
	go func() {
		defer close(results)
		runErr <- device.Run(ctx, results)
	}()

	var emitted int
	for result := range results {
		for _, sample := range result.Samples(r, config.IgnoredRanges) {
			select {
			case <-ctx.Done():
			case out <- sample:
				emitted++
			}
		}
	}

	g.logger.Debug("range swept", slog.Int("samples", emitted))

	return <-runErr
}

// classify maps an acquisition error to the scan error taxonomy: caller
// cancellation passes through, everything else is a generation failure.
func (g *Generator) classify(parent, acquire context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(acquire.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w after %s", scan.ErrGenerationFailed, ErrAcquisitionTimeout, g.timeout)
	}
	return fmt.Errorf("%w: %w", scan.ErrGenerationFailed, err)
}
