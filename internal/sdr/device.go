package sdr

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"sync/atomic"
)

const (
	// ParseErrorsThreshold defines the number of consecutive parse errors allowed
	ParseErrorsThreshold = 5
)

// Handler adapts a sweep tool: it builds the command and parses its output.
type Handler interface {
	Cmd(ctx context.Context) *exec.Cmd
	Parse(line string) (*SweepResult, error)
	Device() string
}

// WithLogger sets the logger for the device
func WithLogger(logger *slog.Logger) func(d *Device) {
	return func(d *Device) {
		d.logger = logger.With(
			slog.String("device", d.handler.Device()),
			slog.String("deviceID", d.deviceID),
		)
	}
}

// WithParseErrorsThreshold sets the threshold for consecutive parse errors
func WithParseErrorsThreshold(threshold uint8) func(d *Device) {
	return func(d *Device) {
		d.parseErrorsThreshold = threshold
	}
}

// Device runs a sweep tool as a child process and streams its parsed output.
type Device struct {
	deviceID string
	handler  Handler

	isSampling atomic.Bool

	parseErrorsThreshold uint8
	logger               *slog.Logger
}

// NewDevice creates a new Device instance with a discard logger
func NewDevice(deviceID string, h Handler, options ...func(d *Device)) *Device {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger

	d := Device{
		deviceID:             deviceID,
		handler:              h,
		logger:               logger,
		parseErrorsThreshold: ParseErrorsThreshold,
	}

	for _, option := range options {
		option(&d)
	}

	return &d
}

// Run starts the tool and sends every parsed sweep line to results until the
// process exits or ctx is done. It blocks and does not close results.
// Cancellation is not reported as an error.
func (d *Device) Run(ctx context.Context, results chan<- *SweepResult) error {
	if !d.isSampling.CompareAndSwap(false, true) {
		return fmt.Errorf("device is already running")
	}
	defer d.isSampling.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := d.handler.Cmd(ctx)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error creating stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("error creating stderr pipe: %w", err)
	}

	if err = cmd.Start(); err != nil {
		return fmt.Errorf("error starting command: %w", err)
	}

	d.logger.Debug("starting sweep", slog.String("cmd", cmd.String()))

	done := make(chan error, 2) // expects results from the two pipe readers

	go d.handleStdout(ctx, stdout, results, done)
	go d.handleStderr(stderr, done)

	var errs []error
	for i := 0; i < cap(done); i++ {
		if err := <-done; err != nil {
			cancel() // stop the process on error
			d.logger.Error(err.Error())

			errs = append(errs, err)
		}
	}

	// Wait closes the pipes, so it must follow the readers
	if err := d.handleCmdWait(ctx, cmd); err != nil {
		errs = append(errs, err)
	}

	d.logger.Debug("sweep finished")

	return errors.Join(errs...)
}

// IsSampling returns true if the device is running
func (d *Device) IsSampling() bool {
	return d.isSampling.Load()
}

// handleStdout reads from stdout, parses and sends sweep results.
func (d *Device) handleStdout(ctx context.Context, stdout io.Reader, results chan<- *SweepResult, done chan<- error) {
	var parseErrors uint8

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result, err := d.handler.Parse(line)
		if err != nil {
			parseErrors++
			d.logger.Warn(fmt.Sprintf("error parsing sweep: %s", err.Error()), slog.String("line", line))

			if parseErrors >= d.parseErrorsThreshold {
				done <- ErrTooManyParseErrors
				return
			}

			continue
		}

		parseErrors = 0 // reset counter

		result.Device = d.handler.Device()
		result.DeviceID = d.deviceID

		select {
		case results <- result:
		case <-ctx.Done():
			_, _ = io.Copy(io.Discard, stdout) // let the process exit
			done <- nil
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		done <- fmt.Errorf("%w: error reading stdout: %w", ErrBrokenPipe, err)
		return
	}

	done <- nil
}

// handleStderr reads from stderr and logs tool diagnostics.
func (d *Device) handleStderr(stderr io.Reader, done chan<- error) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		d.logger.Debug(fmt.Sprintf("%s >> %s", d.handler.Device(), line))
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		done <- fmt.Errorf("%w: error reading stderr: %w", ErrBrokenPipe, err)
		return
	}

	done <- nil
}

// handleCmdWait waits for the command to exit
func (d *Device) handleCmdWait(ctx context.Context, cmd *exec.Cmd) error {
	if err := cmd.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("command exited with error: %w", err)
	}
	return nil
}
