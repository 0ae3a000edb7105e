package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roman-kulish/spectrum-scanner/internal/api"
	"github.com/roman-kulish/spectrum-scanner/internal/chart"
	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/sdr"
	"github.com/roman-kulish/spectrum-scanner/internal/sdr/hackrf"
	"github.com/roman-kulish/spectrum-scanner/internal/sdr/rtl"
	"github.com/roman-kulish/spectrum-scanner/internal/tui"
)

// NewGenerator creates the result generator of the configured backend
func NewGenerator(config *BackendConfig, logger *slog.Logger) (scan.Generator, error) {
	options := []func(g *sdr.Generator){
		sdr.WithGeneratorLogger(logger),
	}
	if config.AcquisitionTimeout > 0 {
		options = append(options, sdr.WithAcquisitionTimeout(config.AcquisitionTimeout))
	}

	switch config.Type {
	case BackendMock:
		if config.Seed != 0 {
			return scan.NewSeededMockGenerator(config.Seed), nil
		}
		return scan.NewMockGenerator(nil), nil

	case BackendRTLSDR:
		return sdr.NewGenerator(deviceID(config, rtl.Device), rtl.Factory(config.RTL), options...), nil

	case BackendHackRF:
		return sdr.NewGenerator(deviceID(config, hackrf.Device), hackrf.Factory(config.HackRF), options...), nil

	default:
		return nil, fmt.Errorf("creating generator: unknown backend '%s'", config.Type)
	}
}

func deviceID(config *BackendConfig, fallback string) string {
	if config.DeviceID != "" {
		return config.DeviceID
	}
	return fallback
}

// NewScanner creates a scanner backed by the configured generator
func NewScanner(config *Config, logger *slog.Logger) (*scan.Scanner, error) {
	generator, err := NewGenerator(&config.Backend, logger)
	if err != nil {
		return nil, err
	}
	return scan.NewScanner(generator, scan.WithLogger(logger)), nil
}

// LoadScanRequest returns the configured scan request, or the default
// request when none is configured.
func LoadScanRequest(path string) (scan.RawConfig, error) {
	if path == "" {
		return scan.DefaultRawConfig(), nil
	}
	return scan.LoadRequest(path)
}

// Serve runs the HTTP API until ctx is cancelled
func Serve(ctx context.Context, config *Config, logger *slog.Logger) error {
	scanner, err := NewScanner(config, logger)
	if err != nil {
		return err
	}
	defer scanner.Stop()

	server := api.NewServer(scanner,
		api.WithLogger(logger),
		api.WithAllowedOrigins(config.Server.AllowedOrigins...),
		api.WithChart(config.Chart))

	srv := &http.Server{
		Addr:              config.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", slog.String("addr", config.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("serving API: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.Server.ShutdownTimeout)
	defer cancel()

	server.Close()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}

	return nil
}

// Scan runs a single scan, prints the results to w and optionally renders
// the chart to a PNG file. Cancelling ctx stops the scan and keeps the
// results collected so far.
func Scan(ctx context.Context, config *Config, raw scan.RawConfig, w io.Writer, chartPath string, logger *slog.Logger) error {
	scanner, err := NewScanner(config, logger)
	if err != nil {
		return err
	}

	if _, err = scanner.Start(ctx, raw); err != nil {
		return fmt.Errorf("starting scan: %w", err)
	}

	started := time.Now()
	if err = scanner.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	scanner.Stop()

	snapshot := scanner.Snapshot()
	if err = printReport(w, snapshot, time.Since(started)); err != nil {
		return fmt.Errorf("printing results: %w", err)
	}

	if chartPath != "" {
		if err = writeChart(chartPath, config.Chart, snapshot); err != nil {
			return err
		}
		logger.Info("chart written", slog.String("path", chartPath))
	}

	return nil
}

func writeChart(path string, config chart.Config, snapshot scan.Snapshot) error {
	renderer, err := chart.NewRenderer(config)
	if err != nil {
		return fmt.Errorf("creating chart renderer: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}

	if err = renderer.WritePNG(f, snapshot.Series(), snapshot.Config.Domain()); err != nil {
		return errors.Join(fmt.Errorf("writing chart: %w", err), f.Close())
	}

	return f.Close()
}

// RunTUI runs the terminal UI until the user quits or ctx is cancelled
func RunTUI(ctx context.Context, config *Config, raw scan.RawConfig, logger *slog.Logger) error {
	scanner, err := NewScanner(config, logger)
	if err != nil {
		return err
	}
	defer scanner.Stop()

	p := tea.NewProgram(tui.New(scanner, raw),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err = p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running terminal UI: %w", err)
	}

	return nil
}
