package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

type styles struct {
	title    lipgloss.Style
	status   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	help     lipgloss.Style
	err      lipgloss.Style
	box      lipgloss.Style
	bars     map[spectrum.ColorClass]lipgloss.Style
}

func newStyles() styles {
	s := styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")),
		status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),
		cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("28")).
			Padding(0, 1),
		bars: make(map[spectrum.ColorClass]lipgloss.Style),
	}

	for _, class := range []spectrum.ColorClass{spectrum.ClassLow, spectrum.ClassMedium, spectrum.ClassHigh} {
		s.bars[class] = lipgloss.NewStyle().Foreground(lipgloss.Color(class.Hex()))
	}

	return s
}
