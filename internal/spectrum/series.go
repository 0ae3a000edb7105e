package spectrum

import (
	"cmp"
	"slices"
)

// BuildSeries projects samples onto a chart series sorted ascending by
// frequency. Samples inside an ignored range are excluded and samples outside
// the domain of scanRanges are dropped. Equal frequencies keep their input
// order and duplicates are retained.
func BuildSeries(samples []Sample, scanRanges, ignoredRanges Ranges) []SeriesPoint {
	domain, ok := scanRanges.Domain()
	if !ok {
		return []SeriesPoint{}
	}

	points := make([]SeriesPoint, 0, len(samples))
	for _, s := range samples {
		if !domain.Contains(s.Frequency) || ignoredRanges.Contains(s.Frequency) {
			continue
		}
		points = append(points, SeriesPoint{Frequency: s.Frequency, Power: s.Strength})
	}

	slices.SortStableFunc(points, func(a, b SeriesPoint) int {
		return cmp.Compare(a.Frequency, b.Frequency)
	})

	return points
}

// Peaks returns up to n strongest samples, strongest first. Samples with equal
// strength keep their input order.
func Peaks(samples []Sample, n int) []Sample {
	indices := PeakIndices(samples, n)

	peaks := make([]Sample, len(indices))
	for i, index := range indices {
		peaks[i] = samples[index]
	}
	return peaks
}

// PeakIndices is like Peaks but returns positions in samples.
func PeakIndices(samples []Sample, n int) []int {
	if n <= 0 || len(samples) == 0 {
		return []int{}
	}

	indices := make([]int, len(samples))
	for i := range indices {
		indices[i] = i
	}
	slices.SortStableFunc(indices, func(a, b int) int {
		return cmp.Compare(samples[b].Strength, samples[a].Strength)
	})

	return indices[:min(n, len(indices))]
}
