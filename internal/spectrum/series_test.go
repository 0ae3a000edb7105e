package spectrum

import (
	"reflect"
	"testing"
)

func TestBuildSeries(t *testing.T) {
	scan := Ranges{{Start: 100e6, Stop: 110e6}}
	ignored := Ranges{{Start: 100e6, Stop: 105e6}}

	tests := []struct {
		name     string
		samples  []Sample
		scan     Ranges
		ignored  Ranges
		expected []SeriesPoint
	}{
		{
			name:     "ignored range excludes sample",
			samples:  []Sample{{Frequency: 108e6, Strength: 40}, {Frequency: 102e6, Strength: 90}},
			scan:     scan,
			ignored:  ignored,
			expected: []SeriesPoint{{Frequency: 108e6, Power: 40}},
		},
		{
			name:     "ignored bounds are inclusive",
			samples:  []Sample{{Frequency: 100e6, Strength: 1}, {Frequency: 105e6, Strength: 2}, {Frequency: 105_000_001, Strength: 3}},
			scan:     scan,
			ignored:  ignored,
			expected: []SeriesPoint{{Frequency: 105_000_001, Power: 3}},
		},
		{
			name: "sorted ascending and stable on ties",
			samples: []Sample{
				{Frequency: 109e6, Strength: 1},
				{Frequency: 101e6, Strength: 2},
				{Frequency: 101e6, Strength: 3},
				{Frequency: 100e6, Strength: 4},
			},
			scan: scan,
			expected: []SeriesPoint{
				{Frequency: 100e6, Power: 4},
				{Frequency: 101e6, Power: 2},
				{Frequency: 101e6, Power: 3},
				{Frequency: 109e6, Power: 1},
			},
		},
		{
			name:     "points outside the domain are dropped",
			samples:  []Sample{{Frequency: 99e6, Strength: 1}, {Frequency: 111e6, Strength: 2}, {Frequency: 110e6, Strength: 3}},
			scan:     scan,
			expected: []SeriesPoint{{Frequency: 110e6, Power: 3}},
		},
		{
			name:    "domain spans disjoint ranges",
			samples: []Sample{{Frequency: 150e6, Strength: 5}, {Frequency: 88e6, Strength: 6}},
			scan:    Ranges{{Start: 140e6, Stop: 160e6}, {Start: 88e6, Stop: 90e6}},
			expected: []SeriesPoint{
				{Frequency: 88e6, Power: 6},
				{Frequency: 150e6, Power: 5},
			},
		},
		{
			name:     "no scan ranges",
			samples:  []Sample{{Frequency: 100e6, Strength: 1}},
			expected: []SeriesPoint{},
		},
		{
			name:     "no samples",
			scan:     scan,
			expected: []SeriesPoint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSeries(tt.samples, tt.scan, tt.ignored)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("BuildSeries() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSeries_DoesNotMutateInput(t *testing.T) {
	samples := []Sample{{Frequency: 109e6, Strength: 1}, {Frequency: 101e6, Strength: 2}}
	_ = BuildSeries(samples, Ranges{{Start: 100e6, Stop: 110e6}}, nil)

	if samples[0].Frequency != 109e6 {
		t.Errorf("input samples were reordered")
	}
}

func TestPeaks(t *testing.T) {
	samples := []Sample{
		{Frequency: 1, Strength: 10},
		{Frequency: 2, Strength: 90},
		{Frequency: 3, Strength: 50},
		{Frequency: 4, Strength: 90},
	}

	got := Peaks(samples, 3)
	expected := []Sample{
		{Frequency: 2, Strength: 90},
		{Frequency: 4, Strength: 90},
		{Frequency: 3, Strength: 50},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Peaks() = %v, expected %v", got, expected)
	}

	if got := Peaks(samples, 10); len(got) != len(samples) {
		t.Errorf("expected all %d samples, got %d", len(samples), len(got))
	}
	if got := Peaks(samples, 0); len(got) != 0 {
		t.Errorf("expected no samples for n=0, got %d", len(got))
	}
}

func TestPeakIndices(t *testing.T) {
	samples := []Sample{
		{Frequency: 1, Strength: 10},
		{Frequency: 2, Strength: 90},
		{Frequency: 3, Strength: 50},
		{Frequency: 4, Strength: 90},
	}

	if got, expected := PeakIndices(samples, 2), []int{1, 3}; !reflect.DeepEqual(got, expected) {
		t.Errorf("PeakIndices() = %v, expected %v", got, expected)
	}
	if got := PeakIndices(nil, 2); len(got) != 0 {
		t.Errorf("expected no indices for empty samples, got %v", got)
	}
}
