package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// Snapshot is an immutable view of the scanner state. Slices in a snapshot
// are never written to after it is taken.
type Snapshot struct {
	Version    uint64            `json:"version"`
	ScanID     uuid.UUID         `json:"scanId"`
	IsScanning bool              `json:"isScanning"`
	Config     *Config           `json:"config,omitempty"`
	Results    []spectrum.Sample `json:"results"`
	Selection  Selection         `json:"selection"`
	LastError  string            `json:"lastError,omitempty"`
}

// Series builds the chart series for the snapshot results.
func (s Snapshot) Series() []spectrum.SeriesPoint {
	if s.Config == nil {
		return []spectrum.SeriesPoint{}
	}
	return spectrum.BuildSeries(s.Results, s.Config.ScanRanges, s.Config.IgnoredRanges)
}

// WithLogger sets the logger for the scanner
func WithLogger(logger *slog.Logger) func(s *Scanner) {
	return func(s *Scanner) {
		s.logger = logger.With(slog.String("component", "scanner"))
	}
}

// Scanner owns the configuration, the result set and the selection. At most
// one scan is active at a time.
type Scanner struct {
	generator Generator
	logger    *slog.Logger

	mu      sync.Mutex
	state   Snapshot
	results []spectrum.Sample // backing store; state.Results is a clipped prefix
	lastErr error
	cancel  context.CancelFunc
	done    chan struct{}

	subscribers map[int]chan Snapshot
	nextSubID   int
}

// NewScanner creates a scanner generating results with g.
func NewScanner(g Generator, options ...func(s *Scanner)) *Scanner {
	s := Scanner{
		generator:   g,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:       Snapshot{Results: []spectrum.Sample{}},
		subscribers: make(map[int]chan Snapshot),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Start validates raw input and starts a scan. Validation failures are
// returned synchronously and leave the state untouched.
func (s *Scanner) Start(ctx context.Context, raw RawConfig) (uuid.UUID, error) {
	config, err := Parse(raw)
	if err != nil {
		return uuid.Nil, err
	}
	return s.StartConfig(ctx, config)
}

// StartConfig starts a scan with a validated configuration. The previous
// result set and selection are replaced. ctx bounds the lifetime of the scan.
func (s *Scanner) StartConfig(ctx context.Context, config *Config) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsScanning {
		return uuid.Nil, ErrScanInProgress
	}

	id := uuid.New()
	ctx, cancel := context.WithCancel(ctx)
	previous, done := s.done, make(chan struct{})

	s.cancel, s.done = cancel, done
	s.results = nil
	s.lastErr = nil
	s.state = Snapshot{
		Version:    s.state.Version,
		ScanID:     id,
		IsScanning: true,
		Config:     config,
		Results:    []spectrum.Sample{},
	}
	s.publishLocked()

	s.logger.Info("scan started",
		slog.String("scanID", id.String()),
		slog.Int("ranges", len(config.ScanRanges)),
		slog.Int("ignored", len(config.IgnoredRanges)))

	go s.run(ctx, id, config, previous, done)

	return id, nil
}

// Stop cancels the active scan. Samples produced so far are kept. It reports
// whether a scan was active.
func (s *Scanner) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsScanning {
		return false
	}

	s.cancel()
	s.state.IsScanning = false
	s.publishLocked()

	s.logger.Info("scan stopped",
		slog.String("scanID", s.state.ScanID.String()),
		slog.Int("results", len(s.state.Results)))

	return true
}

// Wait blocks until the generator of the latest scan has returned and
// reports the scan error, if any.
func (s *Scanner) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

// ClearResults discards the result set and resets the selection. It is
// rejected while a scan is active.
func (s *Scanner) ClearResults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsScanning {
		return ErrScanInProgress
	}

	s.results = nil
	s.state.Results = []spectrum.Sample{}
	s.state.Selection = s.state.Selection.Clear()
	s.publishLocked()

	return nil
}

// Select shows the result at index in detail.
func (s *Scanner) Select(index int) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.state.Results) {
		return s.state.Selection, fmt.Errorf("%w: index %d", ErrResultNotFound, index)
	}

	selection, err := s.state.Selection.SelectAt(index, s.state.Results)
	if err != nil {
		return s.state.Selection, err
	}

	s.state.Selection = selection
	s.publishLocked()

	return selection, nil
}

// SelectSample shows sample in detail. The sample must be a current result.
func (s *Scanner) SelectSample(sample spectrum.Sample) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	selection, err := s.state.Selection.Select(sample, s.state.Results)
	if err != nil {
		return s.state.Selection, err
	}

	s.state.Selection = selection
	s.publishLocked()

	return selection, nil
}

// ClearSelection returns to NoSelection.
func (s *Scanner) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Selection = s.state.Selection.Clear()
	s.publishLocked()
}

// Snapshot returns the current state.
func (s *Scanner) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Subscribe returns a channel receiving a snapshot after every state change
// and a function to unsubscribe. Slow subscribers only see the latest state.
func (s *Scanner) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan Snapshot, 1)
	ch <- s.state
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			delete(s.subscribers, id)
			close(ch)
		})
	}
}

func (s *Scanner) run(ctx context.Context, id uuid.UUID, config *Config, previous <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	if previous != nil {
		<-previous // the backend may still be releasing the device
	}

	samples := make(chan spectrum.Sample)
	result := make(chan error, 1)

	go func() {
		defer close(samples)
		result <- s.generator.Generate(ctx, config, samples)
	}()

	for sample := range samples {
		s.append(id, sample)
	}

	s.finish(id, <-result)
}

func (s *Scanner) append(id uuid.UUID, sample spectrum.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ScanID != id || !s.state.IsScanning {
		return
	}

	s.results = append(s.results, sample)
	s.state.Results = s.results[:len(s.results):len(s.results)]
	s.publishLocked()
}

func (s *Scanner) finish(id uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ScanID != id {
		return
	}

	logger := s.logger.With(slog.String("scanID", id.String()))

	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logger.Info("scan finished", slog.Int("results", len(s.state.Results)))
	default:
		if !errors.Is(err, ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		s.lastErr = err
		s.state.LastError = err.Error()
		logger.Error(err.Error(), slog.Int("results", len(s.state.Results)))
	}

	s.state.IsScanning = false
	s.publishLocked()
}

// publishLocked bumps the version and fans the state out. Callers hold s.mu.
func (s *Scanner) publishLocked() {
	s.state.Version++

	for _, ch := range s.subscribers {
		select {
		case ch <- s.state:
			continue
		default:
		}

		// replace the stale pending snapshot
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.state:
		default:
		}
	}
}
