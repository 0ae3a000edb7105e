package app

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const reportPeaks = 5

var headerStyle = lipgloss.NewStyle().Bold(true)

func printReport(w io.Writer, snapshot scan.Snapshot, elapsed time.Duration) error {
	noise := math.Inf(1)
	if snapshot.Config != nil {
		noise = snapshot.Config.NoiseLevel
	}

	results := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "FREQUENCY", "STRENGTH", "BAND", "LEVEL", "DETECTED")
	for i, sample := range snapshot.Results {
		results.Row(resultRow(i, sample, noise)...)
	}

	peaks := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "FREQUENCY", "STRENGTH", "BAND", "LEVEL", "DETECTED")
	for _, i := range spectrum.PeakIndices(snapshot.Results, reportPeaks) {
		peaks.Row(resultRow(i, snapshot.Results[i], noise)...)
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n%s\n",
		headerStyle.Render(fmt.Sprintf("Scan %s: %s results in %s",
			snapshot.ScanID, humanize.Comma(int64(len(snapshot.Results))), elapsed.Round(time.Millisecond))),
		results.Render(),
		headerStyle.Render("Strongest results"),
		peaks.Render(),
		lastError(snapshot))

	return err
}

func resultRow(i int, sample spectrum.Sample, noise float64) []string {
	visual := spectrum.MapVisual(sample.Strength)

	return []string{
		strconv.Itoa(i),
		spectrum.FormatFrequency(sample.Frequency),
		fmt.Sprintf("%.2f dB", sample.Strength),
		spectrum.Classify(sample.Frequency).Label.String(),
		fmt.Sprintf("%.0f%% %s", visual.Percent, visual.Class),
		strconv.FormatBool(sample.Strength > noise),
	}
}

func lastError(snapshot scan.Snapshot) string {
	if snapshot.LastError == "" {
		return ""
	}
	return "scan failed: " + snapshot.LastError
}

// PrintBands writes the band classification table to w
func PrintBands(w io.Writer) error {
	bands := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("BAND", "START", "STOP", "USAGE")
	for _, b := range spectrum.Bands() {
		bands.Row(b.Label.String(), spectrum.FormatFrequency(b.Start), spectrum.FormatFrequency(b.Stop), b.Usage)
	}

	_, err := fmt.Fprintln(w, bands.Render())
	return err
}
