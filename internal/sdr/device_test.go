package sdr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"
)

// helperHandler re-executes the test binary as a fake sweep tool, see
// TestHelperProcess for the supported modes.
type helperHandler struct {
	mode string
}

func (h helperHandler) Cmd(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess", "--", h.mode)
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
	return cmd
}

func (h helperHandler) Parse(line string) (*SweepResult, error) {
	return ParseSweepLine(line)
}

func (h helperHandler) Device() string {
	return "fake"
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}

	switch args[1] {
	case "sweep":
		fmt.Fprintln(os.Stderr, "Found 1 device(s)")
		fmt.Println("2024-03-01, 12:30:15, 100000000, 100200000, 100000.00, 16, -10.50, -20.50")
		fmt.Println("")
		fmt.Println("2024-03-01, 12:30:16, 100200000, 100400000, 100000.00, 16, -30.50, nan")
	case "garbage":
		for i := 0; i < 10; i++ {
			fmt.Println("this is not a sweep line")
		}
	case "fail":
		fmt.Fprintln(os.Stderr, "No supported devices found.")
		os.Exit(3)
	case "hang":
		fmt.Println("2024-03-01, 12:30:15, 100000000, 100200000, 100000.00, 16, -10.50, -20.50")
		time.Sleep(time.Minute)
	}

	os.Exit(0)
}

func TestDevice_Run(t *testing.T) {
	d := NewDevice("0", helperHandler{mode: "sweep"})

	results := make(chan *SweepResult, 10)
	if err := d.Run(context.Background(), results); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	close(results)

	var got []*SweepResult
	for r := range results {
		got = append(got, r)
	}

	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	for _, r := range got {
		if r.Device != "fake" || r.DeviceID != "0" {
			t.Errorf("result device = %q/%q, want fake/0", r.Device, r.DeviceID)
		}
	}
	if got[1].Readings[1].IsValid {
		t.Error("nan reading must be invalid")
	}
	if d.IsSampling() {
		t.Error("device must not be sampling after Run returns")
	}
}

func TestDevice_Run_TooManyParseErrors(t *testing.T) {
	d := NewDevice("0", helperHandler{mode: "garbage"}, WithParseErrorsThreshold(3))

	err := d.Run(context.Background(), make(chan *SweepResult, 10))
	if !errors.Is(err, ErrTooManyParseErrors) {
		t.Fatalf("Run() error = %v, want %v", err, ErrTooManyParseErrors)
	}
}

func TestDevice_Run_ExitError(t *testing.T) {
	d := NewDevice("0", helperHandler{mode: "fail"})

	var exitErr *exec.ExitError
	if err := d.Run(context.Background(), make(chan *SweepResult, 10)); !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *exec.ExitError", err)
	}
}

func TestDevice_Run_Cancel(t *testing.T) {
	d := NewDevice("0", helperHandler{mode: "hang"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *SweepResult)
	errc := make(chan error, 1)
	go func() {
		errc <- d.Run(ctx, results)
	}()

	select {
	case <-results:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for the first result")
	}

	if !d.IsSampling() {
		t.Error("device must be sampling")
	}
	if err := d.Run(ctx, results); err == nil {
		t.Error("second Run() must fail while sampling")
	}

	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancellation", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}
