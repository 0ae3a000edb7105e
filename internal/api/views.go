package api

import (
	"math"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

func newResultView(index int, sample spectrum.Sample, noiseLevel float64) ResultView {
	band := spectrum.Classify(sample.Frequency)
	visual := spectrum.MapVisual(sample.Strength)

	return ResultView{
		Index:     index,
		Frequency: sample.Frequency,
		Label:     spectrum.FormatFrequency(sample.Frequency),
		Strength:  sample.Strength,
		Band:      band.Label,
		Usage:     band.Usage,
		Percent:   visual.Percent,
		Class:     visual.Class,
		Color:     visual.Class.Hex(),
		Detected:  sample.Strength > noiseLevel,
	}
}

// noiseLevel returns the detection threshold of the snapshot scan
func noiseLevel(s scan.Snapshot) float64 {
	if s.Config == nil {
		return math.Inf(1)
	}
	return s.Config.NoiseLevel
}

func resultViews(s scan.Snapshot) []ResultView {
	noise := noiseLevel(s)

	views := make([]ResultView, len(s.Results))
	for i, sample := range s.Results {
		views[i] = newResultView(i, sample, noise)
	}
	return views
}

func peakViews(s scan.Snapshot, n int) []ResultView {
	noise := noiseLevel(s)

	indices := spectrum.PeakIndices(s.Results, n)
	views := make([]ResultView, len(indices))
	for i, index := range indices {
		views[i] = newResultView(index, s.Results[index], noise)
	}
	return views
}

func selectionView(s scan.Snapshot) SelectionView {
	view := SelectionView{State: s.Selection.State().String()}
	if sample, ok := s.Selection.Sample(); ok {
		result := newResultView(s.Selection.Index(), sample, noiseLevel(s))
		view.Result = &result
	}
	return view
}

func stateView(s scan.Snapshot) StateView {
	view := StateView{
		Version:    s.Version,
		IsScanning: s.IsScanning,
		Config:     s.Config,
		Results:    len(s.Results),
		Selection:  selectionView(s),
		LastError:  s.LastError,
	}
	if s.Config != nil {
		view.ScanID = s.ScanID.String()
	}
	return view
}

func streamMessage(s scan.Snapshot) StreamMessage {
	return StreamMessage{
		Type:    "state",
		State:   stateView(s),
		Results: resultViews(s),
		Series:  s.Series(),
	}
}
