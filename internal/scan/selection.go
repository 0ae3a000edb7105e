package scan

import (
	"encoding/json"
	"fmt"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const (
	NoSelection SelectionState = iota
	Selected
)

// SelectionState is the state of the result detail view.
type SelectionState int

func (s SelectionState) String() string {
	switch s {
	case Selected:
		return "selected"
	default:
		return "none"
	}
}

// Selection tracks which result is shown in detail. The zero value is
// NoSelection. Transitions return a new value; a Selection is never modified
// in place.
type Selection struct {
	sample *spectrum.Sample
	index  int
}

// State returns NoSelection or Selected.
func (s Selection) State() SelectionState {
	if s.sample == nil {
		return NoSelection
	}
	return Selected
}

// Sample returns the selected sample, if any.
func (s Selection) Sample() (spectrum.Sample, bool) {
	if s.sample == nil {
		return spectrum.Sample{}, false
	}
	return *s.sample, true
}

// Index returns the position of the selected sample in the result set, or -1.
func (s Selection) Index() int {
	if s.sample == nil {
		return -1
	}
	return s.index
}

// Select transitions to Selected(sample). The sample must be a member of
// results; otherwise ErrSelectionInvariant is returned and the selection is
// unchanged. Among equal samples the first one is selected.
func (s Selection) Select(sample spectrum.Sample, results []spectrum.Sample) (Selection, error) {
	for i, r := range results {
		if r == sample {
			return Selection{sample: &sample, index: i}, nil
		}
	}
	return s, fmt.Errorf("%w: %.0f Hz", ErrSelectionInvariant, sample.Frequency)
}

// SelectAt transitions to Selected(results[index]).
func (s Selection) SelectAt(index int, results []spectrum.Sample) (Selection, error) {
	if index < 0 || index >= len(results) {
		return s, fmt.Errorf("%w: index %d of %d", ErrSelectionInvariant, index, len(results))
	}

	sample := results[index]
	return Selection{sample: &sample, index: index}, nil
}

// Clear transitions to NoSelection regardless of the current state.
func (s Selection) Clear() Selection {
	return Selection{}
}

// Reconcile re-checks the selection against a new result set and clears it
// when the selected sample is no longer at its position.
func (s Selection) Reconcile(results []spectrum.Sample) Selection {
	if s.sample == nil {
		return s
	}
	if s.index < len(results) && results[s.index] == *s.sample {
		return s
	}
	return Selection{}
}

func (s Selection) MarshalJSON() ([]byte, error) {
	view := struct {
		State  string           `json:"state"`
		Index  *int             `json:"index,omitempty"`
		Sample *spectrum.Sample `json:"sample,omitempty"`
	}{
		State:  s.State().String(),
		Sample: s.sample,
	}

	if s.sample != nil {
		index := s.index
		view.Index = &index
	}

	return json.Marshal(view)
}
