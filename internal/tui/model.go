// Package tui is a terminal front end for the scanner: a live result list
// with strength bars and a detail panel for the selected result.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roman-kulish/spectrum-scanner/internal/scan"
)

// snapshotMsg carries a state change from the scanner subscription
type snapshotMsg scan.Snapshot

// Model is the bubbletea model driving the terminal UI
type Model struct {
	scanner *scan.Scanner
	raw     scan.RawConfig

	snapshots   <-chan scan.Snapshot
	unsubscribe func()

	snapshot scan.Snapshot
	cursor   int
	offset   int
	notice   string

	width    int
	height   int
	quitting bool

	styles styles
}

// New creates a model that starts scans with raw.
func New(scanner *scan.Scanner, raw scan.RawConfig) *Model {
	snapshots, unsubscribe := scanner.Subscribe()

	return &Model{
		scanner:     scanner,
		raw:         raw,
		snapshots:   snapshots,
		unsubscribe: unsubscribe,
		snapshot:    scanner.Snapshot(),
		width:       80,
		height:      24,
		styles:      newStyles(),
	}
}

// Init starts listening for scanner state changes
func (m *Model) Init() tea.Cmd {
	return waitForSnapshot(m.snapshots)
}

func waitForSnapshot(ch <-chan scan.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snapshot)
	}
}

// Update handles messages and updates state
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil

	case snapshotMsg:
		m.apply(scan.Snapshot(msg))
		return m, waitForSnapshot(m.snapshots)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.unsubscribe()
		return m, tea.Quit

	case "up", "k":
		m.move(-1)

	case "down", "j":
		m.move(1)

	case "home", "g":
		m.move(-len(m.snapshot.Results))

	case "end", "G":
		m.move(len(m.snapshot.Results))

	case "enter":
		if len(m.snapshot.Results) == 0 {
			return m, nil
		}
		if _, err := m.scanner.Select(m.cursor); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.refresh()

	case "esc":
		m.scanner.ClearSelection()
		m.refresh()

	case "s":
		// the scan runs until stopped or the program exits
		if _, err := m.scanner.Start(context.Background(), m.raw); err != nil {
			m.notice = startError(err)
			return m, nil
		}
		m.refresh()

	case "x":
		if !m.scanner.Stop() {
			m.notice = "no scan in progress"
			return m, nil
		}
		m.refresh()

	case "c":
		if err := m.scanner.ClearResults(); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.refresh()
	}

	return m, nil
}

func startError(err error) string {
	var invalid *scan.ConfigInvalidError
	if errors.As(err, &invalid) && len(invalid.Fields) > 0 {
		return "invalid " + invalid.Fields[0].Error()
	}
	return err.Error()
}

// refresh reads the scanner state without waiting for the subscription
func (m *Model) refresh() {
	m.apply(m.scanner.Snapshot())
}

func (m *Model) apply(snapshot scan.Snapshot) {
	// an older snapshot may still be queued behind a synchronous refresh
	if snapshot.Version < m.snapshot.Version {
		return
	}

	m.snapshot = snapshot
	if m.cursor >= len(snapshot.Results) {
		m.cursor = max(len(snapshot.Results)-1, 0)
	}
	m.scroll()
}

func (m *Model) move(delta int) {
	if len(m.snapshot.Results) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.snapshot.Results)-1)
	m.scroll()
}

// scroll keeps the cursor inside the visible window of the result list
func (m *Model) scroll() {
	rows := m.listRows()
	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+rows:
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(min(m.offset, len(m.snapshot.Results)-rows), 0)
}

// Cursor returns the index of the highlighted result
func (m *Model) Cursor() int {
	return m.cursor
}

// Snapshot returns the scanner state the view was last rendered from
func (m *Model) Snapshot() scan.Snapshot {
	return m.snapshot
}

// Notice returns the last error shown in the status line
func (m *Model) Notice() string {
	return m.notice
}
