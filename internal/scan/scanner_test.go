package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// holdingGenerator sends its samples and then blocks until cancelled.
type holdingGenerator struct {
	samples []spectrum.Sample
}

func (g *holdingGenerator) Generate(ctx context.Context, _ *Config, out chan<- spectrum.Sample) error {
	for _, s := range g.samples {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- s:
		}
	}

	<-ctx.Done()
	return ctx.Err()
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, config *Config, out chan<- spectrum.Sample) error {
	args := m.Called(ctx, config, out)
	return args.Error(0)
}

func waitTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestScanner_StartWithMock(t *testing.T) {
	raw := DefaultRawConfig()
	raw.IgnoredRanges = nil

	s := NewScanner(NewMockGenerator(&sequenceRand{values: []float64{0.9, 0.2}}))

	id, err := s.Start(context.Background(), raw)
	require.NoError(t, err)
	require.NoError(t, s.Wait(waitTimeout(t)))

	snap := s.Snapshot()
	assert.Equal(t, id, snap.ScanID)
	assert.False(t, snap.IsScanning)
	require.Len(t, snap.Results, 2)
	assert.Equal(t, 100e6, snap.Results[0].Frequency)
	assert.InDelta(t, 90, snap.Results[0].Strength, 1e-9)
	assert.Equal(t, NoSelection, snap.Selection.State())
	assert.Empty(t, snap.LastError)

	series := snap.Series()
	require.Len(t, series, 2)
	assert.Less(t, series[0].Frequency, series[1].Frequency)
}

func TestScanner_InvalidConfigLeavesStateUntouched(t *testing.T) {
	s := NewScanner(NewSeededMockGenerator(1))
	before := s.Snapshot()

	raw := DefaultRawConfig()
	raw.ScanRanges = nil

	_, err := s.Start(context.Background(), raw)
	assert.True(t, errors.Is(err, ErrConfigInvalid))
	assert.Equal(t, before, s.Snapshot())
}

func TestScanner_RejectsOverlappingScans(t *testing.T) {
	s := NewScanner(&holdingGenerator{})

	_, err := s.Start(context.Background(), DefaultRawConfig())
	require.NoError(t, err)

	_, err = s.Start(context.Background(), DefaultRawConfig())
	assert.True(t, errors.Is(err, ErrScanInProgress))

	assert.True(t, s.Stop())
	assert.False(t, s.Stop(), "second stop is a no-op")
	require.NoError(t, s.Wait(waitTimeout(t)))
}

func TestScanner_StopKeepsProducedSamples(t *testing.T) {
	produced := []spectrum.Sample{
		{Frequency: 106e6, Strength: 40},
		{Frequency: 108e6, Strength: 70},
	}
	s := NewScanner(&holdingGenerator{samples: produced})

	_, err := s.Start(context.Background(), DefaultRawConfig())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(s.Snapshot().Results) == len(produced)
	}, 5*time.Second, 5*time.Millisecond)

	require.True(t, s.Stop())

	snap := s.Snapshot()
	assert.False(t, snap.IsScanning)
	assert.Equal(t, produced, snap.Results)

	require.NoError(t, s.Wait(waitTimeout(t)))
	assert.Equal(t, produced, s.Snapshot().Results)
	assert.Empty(t, s.Snapshot().LastError, "cancellation is not a failure")
}

func TestScanner_GenerationFailedIsRecoverable(t *testing.T) {
	g := new(mockGenerator)
	g.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("device unavailable")).Once()

	s := NewScanner(g)

	_, err := s.Start(context.Background(), DefaultRawConfig())
	require.NoError(t, err)

	err = s.Wait(waitTimeout(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))

	snap := s.Snapshot()
	assert.False(t, snap.IsScanning)
	assert.Contains(t, snap.LastError, "device unavailable")
	assert.Empty(t, snap.Results)

	g.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err = s.Start(context.Background(), DefaultRawConfig())
	require.NoError(t, err, "a failed scan does not block the next one")
	require.NoError(t, s.Wait(waitTimeout(t)))
	assert.Empty(t, s.Snapshot().LastError)

	g.AssertExpectations(t)
}

func TestScanner_SelectAndClear(t *testing.T) {
	raw := DefaultRawConfig()
	raw.IgnoredRanges = nil

	s := NewScanner(NewSeededMockGenerator(3))
	_, err := s.Start(context.Background(), raw)
	require.NoError(t, err)
	require.NoError(t, s.Wait(waitTimeout(t)))

	selection, err := s.Select(1)
	require.NoError(t, err)
	assert.Equal(t, Selected, selection.State())
	assert.Equal(t, Selected, s.Snapshot().Selection.State())

	_, err = s.Select(7)
	assert.True(t, errors.Is(err, ErrResultNotFound))
	assert.Equal(t, 1, s.Snapshot().Selection.Index(), "failed select keeps selection")

	_, err = s.SelectSample(spectrum.Sample{Frequency: 1})
	assert.True(t, errors.Is(err, ErrSelectionInvariant))

	require.NoError(t, s.ClearResults())
	snap := s.Snapshot()
	assert.Empty(t, snap.Results)
	assert.Equal(t, NoSelection, snap.Selection.State())
}

func TestScanner_ClearRejectedWhileScanning(t *testing.T) {
	s := NewScanner(&holdingGenerator{})

	_, err := s.Start(context.Background(), DefaultRawConfig())
	require.NoError(t, err)

	assert.True(t, errors.Is(s.ClearResults(), ErrScanInProgress))

	s.Stop()
	require.NoError(t, s.Wait(waitTimeout(t)))
	assert.NoError(t, s.ClearResults())
}

func TestScanner_NewScanResetsResultsAndSelection(t *testing.T) {
	raw := DefaultRawConfig()
	raw.IgnoredRanges = nil

	s := NewScanner(NewSeededMockGenerator(5))
	_, err := s.Start(context.Background(), raw)
	require.NoError(t, err)
	require.NoError(t, s.Wait(waitTimeout(t)))

	_, err = s.Select(0)
	require.NoError(t, err)
	old := s.Snapshot()

	raw.ScanRanges = []RawRange{{Start: "430000000", Stop: "440000000"}}
	_, err = s.Start(context.Background(), raw)
	require.NoError(t, err)
	require.NoError(t, s.Wait(waitTimeout(t)))

	snap := s.Snapshot()
	assert.Equal(t, NoSelection, snap.Selection.State())
	require.Len(t, snap.Results, 2)
	assert.Equal(t, 430e6, snap.Results[0].Frequency)

	assert.Equal(t, 100e6, old.Results[0].Frequency, "earlier snapshots are not mutated")
}

func TestScanner_Subscribe(t *testing.T) {
	raw := DefaultRawConfig()
	raw.IgnoredRanges = nil

	s := NewScanner(NewSeededMockGenerator(9))
	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	initial := <-updates
	assert.False(t, initial.IsScanning)

	_, err := s.Start(context.Background(), raw)
	require.NoError(t, err)
	require.NoError(t, s.Wait(waitTimeout(t)))

	var last Snapshot
	require.Eventually(t, func() bool {
		select {
		case last = <-updates:
		default:
		}
		return !last.IsScanning && len(last.Results) == 2
	}, 5*time.Second, 5*time.Millisecond)

	assert.Greater(t, last.Version, initial.Version)

	unsubscribe()
	for range updates {
		// drain until closed
	}
}
