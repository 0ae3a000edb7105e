package scan

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

var selectionResults = []spectrum.Sample{
	{Frequency: 100e6, Strength: 12},
	{Frequency: 110e6, Strength: 87},
}

func TestSelection_InitialState(t *testing.T) {
	var s Selection

	assert.Equal(t, NoSelection, s.State())
	assert.Equal(t, -1, s.Index())

	_, ok := s.Sample()
	assert.False(t, ok)
}

func TestSelection_Select(t *testing.T) {
	var s Selection

	next, err := s.Select(selectionResults[1], selectionResults)
	require.NoError(t, err)
	assert.Equal(t, Selected, next.State())
	assert.Equal(t, 1, next.Index())

	sample, ok := next.Sample()
	require.True(t, ok)
	assert.Equal(t, selectionResults[1], sample)

	assert.Equal(t, NoSelection, s.State(), "transitions return a new value")
}

func TestSelection_SelectNonMember(t *testing.T) {
	s, err := Selection{}.SelectAt(0, selectionResults)
	require.NoError(t, err)

	same, err := s.Select(spectrum.Sample{Frequency: 1, Strength: 1}, selectionResults)
	assert.True(t, errors.Is(err, ErrSelectionInvariant))
	assert.Equal(t, s, same, "rejected selection leaves state unchanged")

	_, err = s.SelectAt(5, selectionResults)
	assert.True(t, errors.Is(err, ErrSelectionInvariant))
}

func TestSelection_Clear(t *testing.T) {
	states := []Selection{{}}
	selected, err := Selection{}.SelectAt(1, selectionResults)
	require.NoError(t, err)
	states = append(states, selected)

	for _, s := range states {
		assert.Equal(t, NoSelection, s.Clear().State())
	}
}

func TestSelection_Reconcile(t *testing.T) {
	s, err := Selection{}.SelectAt(1, selectionResults)
	require.NoError(t, err)

	grown := append([]spectrum.Sample{}, selectionResults...)
	grown = append(grown, spectrum.Sample{Frequency: 120e6, Strength: 3})
	assert.Equal(t, Selected, s.Reconcile(grown).State())

	assert.Equal(t, NoSelection, s.Reconcile(nil).State())
	assert.Equal(t, NoSelection, s.Reconcile(selectionResults[:1]).State())
}

func TestSelection_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Selection{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"none"}`, string(data))

	s, err := Selection{}.SelectAt(0, selectionResults)
	require.NoError(t, err)

	data, err = json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"selected","index":0,"sample":{"frequency":100000000,"strength":12}}`, string(data))
}
