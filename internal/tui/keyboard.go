package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateFiltering:
		return m.handleFilterKey(msg)

	case StateExportPrompt:
		var cmd tea.Cmd
		var submitted bool
		m.ExportPrompt, cmd, submitted = m.ExportPrompt.Update(msg)
		if !m.ExportPrompt.IsVisible() {
			m.State = StateBrowsing
		}
		if submitted {
			m.ExportPath = m.ExportPrompt.Path()
			return m, m.export()
		}
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.NextTab):
		m.switchTab(m.Tab.Next())
		return m, nil

	case key.Matches(msg, Keys.PrevTab):
		m.switchTab(m.Tab.Prev())
		return m, nil

	case key.Matches(msg, Keys.JumpTab):
		m.switchTab(Tab(msg.String()[0] - '1'))
		return m, nil

	case key.Matches(msg, Keys.PageDown):
		m.scrollBy(m.pageSize())
		return m, nil

	case key.Matches(msg, Keys.PageUp):
		m.scrollBy(-m.pageSize())
		return m, nil

	case key.Matches(msg, Keys.Home):
		if m.Tab == TabData {
			m.data.GotoTop()
		}
		m.scroll = 0
		return m, nil

	case key.Matches(msg, Keys.End):
		if m.Tab == TabData {
			m.data.GotoBottom()
		}
		m.scrollBy(1 << 20)
		return m, nil

	case key.Matches(msg, Keys.Reload):
		if m.Catalog == nil || m.Table == nil {
			return m, m.setStatus("No dataset to reload", true)
		}
		m.Loading = true
		return m, tea.Batch(ReloadCmd(m.Catalog, m.Table), TickCmd(spinnerInterval))

	case key.Matches(msg, Keys.Export):
		return m, m.export()

	case key.Matches(msg, Keys.ExportAs):
		m.State = StateExportPrompt
		return m, m.ExportPrompt.Show(m.ExportPath)

	case key.Matches(msg, Keys.Escape):
		if m.Filters.Query() != "" {
			m.Filters.StopFilter(true)
		}
		return m, nil
	}

	// Sidebar keys
	changed := false
	switch {
	case key.Matches(msg, Keys.Up):
		m.Filters.Move(-1)
	case key.Matches(msg, Keys.Down):
		m.Filters.Move(1)
	case key.Matches(msg, Keys.PrevSection):
		m.Filters.PrevSection()
	case key.Matches(msg, Keys.NextSection):
		m.Filters.NextSection()
	case key.Matches(msg, Keys.Toggle):
		changed = m.Filters.Toggle()
	case key.Matches(msg, Keys.SelectAll):
		changed = m.Filters.SetAll(true)
	case key.Matches(msg, Keys.SelectNone):
		changed = m.Filters.SetAll(false)
	case key.Matches(msg, Keys.MinYearDown):
		changed = m.Filters.AdjustYears(-1, 0)
	case key.Matches(msg, Keys.MinYearUp):
		changed = m.Filters.AdjustYears(1, 0)
	case key.Matches(msg, Keys.MaxYearDown):
		changed = m.Filters.AdjustYears(0, -1)
	case key.Matches(msg, Keys.MaxYearUp):
		changed = m.Filters.AdjustYears(0, 1)
	case key.Matches(msg, Keys.Filter):
		m.State = StateFiltering
		return m, m.Filters.StartFilter()
	}

	if changed {
		return m, m.rebuild()
	}
	return m, nil
}

// handleFilterKey routes keys while the country finder has focus.
// Arrows move through the matches, enter toggles the highlighted one.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		m.Filters.StopFilter(false)
		m.State = StateBrowsing
		return m, nil
	case msg.Type == tea.KeyUp:
		m.Filters.Move(-1)
		return m, nil
	case msg.Type == tea.KeyDown:
		m.Filters.Move(1)
		return m, nil
	case key.Matches(msg, Keys.Enter):
		if m.Filters.Toggle() {
			return m, m.rebuild()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Filters, cmd = m.Filters.UpdateQuery(msg)
	return m, cmd
}

func (m *Model) export() tea.Cmd {
	if m.Dashboard == nil {
		return m.setStatus("Nothing to export yet", true)
	}
	if m.ExportPath == "" {
		return m.setStatus("No export path configured (press E)", true)
	}
	return ExportCmd(m.ExportPath, m.Dashboard)
}

func (m *Model) switchTab(t Tab) {
	if t < 0 || t >= tabCount || t == m.Tab {
		return
	}
	m.Tab = t
	m.scroll = 0
}

func (m *Model) pageSize() int {
	_, h := m.bodySize()
	return max(1, h-1)
}

// scrollBy moves the panel window, or the table cursor on the Data tab
func (m *Model) scrollBy(delta int) {
	if m.Tab == TabData {
		if delta > 0 {
			m.data.MoveDown(delta)
		} else {
			m.data.MoveUp(-delta)
		}
		return
	}
	if m.Dashboard == nil {
		return
	}
	w, h := m.bodySize()
	lines := strings.Count(renderTab(m.Tab, m.Dashboard, w), "\n") + 1
	m.scroll = max(0, min(m.scroll+delta, lines-h))
}
