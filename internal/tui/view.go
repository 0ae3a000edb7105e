package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

const (
	barWidth = 20

	// header, status, a blank line, the help line and the list border
	chromeRows = 6
)

// View renders the result list and the detail panel
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(m.styles.title.Render("SPECTRUM SCANNER"))
	sb.WriteString("  ")
	sb.WriteString(m.renderStatus())
	sb.WriteString("\n")

	list := m.renderList()
	if sample, ok := m.snapshot.Selection.Sample(); ok {
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, " ", m.renderDetail(sample))
	}
	sb.WriteString(list)
	sb.WriteString("\n")

	if m.notice != "" {
		sb.WriteString(m.styles.err.Render(m.notice))
		sb.WriteString("\n")
	} else if m.snapshot.LastError != "" {
		sb.WriteString(m.styles.err.Render("scan failed: " + m.snapshot.LastError))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.help.Render("↑/↓ move • enter select • esc deselect • s scan • x stop • c clear • q quit"))

	return sb.String()
}

func (m *Model) renderStatus() string {
	state := "idle"
	if m.snapshot.IsScanning {
		state = "scanning"
	}

	status := fmt.Sprintf("%s • %d results", state, len(m.snapshot.Results))
	if m.snapshot.Config != nil {
		domain := m.snapshot.Config.Domain()
		status += fmt.Sprintf(" • %s – %s",
			spectrum.FormatFrequency(domain.Start), spectrum.FormatFrequency(domain.Stop))
	}

	return m.styles.status.Render(status)
}

func (m *Model) listRows() int {
	return max(m.height-chromeRows, 1)
}

func (m *Model) renderList() string {
	results := m.snapshot.Results
	if len(results) == 0 {
		return m.styles.box.Render(m.styles.dim.Render("No results. Press s to start a scan."))
	}

	selected := m.snapshot.Selection.Index()
	end := min(m.offset+m.listRows(), len(results))

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(i, i == selected))
	}

	return m.styles.box.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderRow(i int, selected bool) string {
	sample := m.snapshot.Results[i]

	pointer := "  "
	freq := m.styles.label
	switch {
	case i == m.cursor:
		pointer = m.styles.cursor.Render("▶ ")
		freq = m.styles.cursor
	case selected:
		pointer = m.styles.selected.Render("• ")
		freq = m.styles.selected
	}

	return fmt.Sprintf("%s%s %s %s",
		pointer,
		freq.Render(fmt.Sprintf("%14s", spectrum.FormatFrequency(sample.Frequency))),
		m.renderBar(sample.Strength),
		m.styles.value.Render(fmt.Sprintf("%7.2f dB", sample.Strength)))
}

// renderBar draws the strength as a bar filled in proportion to its percent
func (m *Model) renderBar(strength float64) string {
	visual := spectrum.MapVisual(strength)
	filled := int(visual.Percent / 100 * barWidth)

	return m.styles.bars[visual.Class].Render(strings.Repeat("█", filled)) +
		m.styles.dim.Render(strings.Repeat("░", barWidth-filled))
}

func (m *Model) renderDetail(sample spectrum.Sample) string {
	band := spectrum.Classify(sample.Frequency)
	visual := spectrum.MapVisual(sample.Strength)

	row := func(label, value string) string {
		return m.styles.label.Render(fmt.Sprintf("%-10s", label)) + m.styles.value.Render(value)
	}

	lines := []string{
		m.styles.title.Render("SELECTED"),
		row("Frequency", spectrum.FormatFrequency(sample.Frequency)),
		row("Strength", fmt.Sprintf("%.2f dB", sample.Strength)),
		row("Level", fmt.Sprintf("%.0f%% %s", visual.Percent, visual.Class)),
		row("Band", band.Label.String()),
		m.styles.dim.Render(band.Usage),
	}

	if config := m.snapshot.Config; config != nil {
		detected := "no"
		if sample.Strength > config.NoiseLevel {
			detected = "yes"
		}
		lines = append(lines, row("Detected", detected))
	}

	return m.styles.box.Render(strings.Join(lines, "\n"))
}
