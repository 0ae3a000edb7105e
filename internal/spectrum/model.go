package spectrum

// FrequencyRange represents an inclusive frequency interval in Hz.
type FrequencyRange struct {
	Start float64 `json:"start" yaml:"start"` // Lower bound in Hz
	Stop  float64 `json:"stop" yaml:"stop"`   // Upper bound in Hz
}

// Contains reports whether f lies within the range, both ends included.
func (r FrequencyRange) Contains(f float64) bool {
	return f >= r.Start && f <= r.Stop
}

// Valid reports whether the range is non-negative and ordered.
func (r FrequencyRange) Valid() bool {
	return r.Start >= 0 && r.Start <= r.Stop
}

// Width returns the span of the range in Hz.
func (r FrequencyRange) Width() float64 {
	return r.Stop - r.Start
}

// Ranges is an ordered sequence of frequency ranges.
type Ranges []FrequencyRange

// Contains reports whether f lies within any of the ranges.
func (rs Ranges) Contains(f float64) bool {
	for _, r := range rs {
		if r.Contains(f) {
			return true
		}
	}
	return false
}

// Domain returns the smallest range covering every range in the sequence.
// The second return value is false for an empty sequence.
func (rs Ranges) Domain() (FrequencyRange, bool) {
	if len(rs) == 0 {
		return FrequencyRange{}, false
	}

	domain := rs[0]
	for _, r := range rs[1:] {
		domain.Start = min(domain.Start, r.Start)
		domain.Stop = max(domain.Stop, r.Stop)
	}

	return domain, true
}

// Sample is a single measurement produced by a generator. Samples are
// immutable once produced.
type Sample struct {
	Frequency float64 `json:"frequency"` // Frequency in Hz
	Strength  float64 `json:"strength"`  // Signal strength in dB
}

// SeriesPoint is the chart-ready projection of a Sample.
type SeriesPoint struct {
	Frequency float64 `json:"frequency"` // Frequency in Hz
	Power     float64 `json:"power"`     // Power in dB
}
