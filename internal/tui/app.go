package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/kinostat/internal/analysis"
	"github.com/mmcdole/kinostat/internal/catalog"
	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/report"
	"github.com/mmcdole/kinostat/internal/tui/components"
	"github.com/mmcdole/kinostat/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateFiltering
	StateExportPrompt
	StateHelp
)

// Layout
const (
	SidebarWidth = 34

	// Tab bar above the panel body, footer below it
	TabBarHeight = 2
	ChromeHeight = 1

	spinnerInterval = 100 * time.Millisecond
	statusTimeout   = 4 * time.Second
)

// Config wires the model to a loaded dataset
type Config struct {
	Catalog    *catalog.Service
	Table      *catalog.Table
	Options    report.Options
	Selection  report.Selection // Initial filters; zero selects everything
	ExportPath string
	DefaultTab Tab
	Logger     *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Catalog *catalog.Service
	Table   *catalog.Table
	Logger  *slog.Logger

	// Dashboard inputs
	Options    report.Options
	ExportPath string
	titles     []domain.Title

	// UI components
	Filters      components.FilterPanel
	ExportPrompt components.ExportPrompt
	data         table.Model

	// Dashboard state
	Dashboard  *report.Dashboard
	Tab        Tab
	scroll     int
	generation int // Incremented per build request; stale results are dropped

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Loading      bool
	SpinnerFrame int
}

// NewModel creates a new application model
func NewModel(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		State:        StateBrowsing,
		Catalog:      cfg.Catalog,
		Logger:       logger,
		Options:      cfg.Options,
		ExportPath:   cfg.ExportPath,
		Tab:          cfg.DefaultTab,
		ExportPrompt: components.NewExportPrompt(),
		data:         newDataTable(),
	}
	m.setTable(cfg.Table)
	m.Filters.Apply(cfg.Selection.Predicates, cfg.Selection.Genre)
	m.generation = 1
	m.Loading = true
	return m
}

// setTable installs a dataset version and resets the filters to select
// every option it offers.
func (m *Model) setTable(t *catalog.Table) {
	m.Table = t
	m.titles = nil
	if t != nil {
		m.titles = t.Titles()
	}
	m.Filters = components.NewFilterPanel(analysis.Options(m.titles))
}

// Selection returns the current filter selection
func (m Model) Selection() report.Selection {
	return report.Selection{
		Predicates: m.Filters.Predicates(),
		Genre:      m.Filters.Genre(),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		BuildDashboardCmd(m.titles, m.Selection(), m.Options, m.generation),
		TickCmd(spinnerInterval),
	)
}

// rebuild requests a dashboard for the current selection
func (m *Model) rebuild() tea.Cmd {
	m.generation++
	cmd := BuildDashboardCmd(m.titles, m.Selection(), m.Options, m.generation)
	if m.Loading {
		return cmd
	}
	m.Loading = true
	return tea.Batch(cmd, TickCmd(spinnerInterval))
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		if !m.Loading {
			return m, nil
		}
		m.SpinnerFrame++
		return m, TickCmd(spinnerInterval)

	case DashboardBuiltMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.Loading = false
		if msg.Dashboard == nil {
			m.Logger.Error("dashboard build failed", "error", msg.Err)
			return m, m.setStatus("Build failed: "+msg.Err.Error(), true)
		}
		m.Dashboard = msg.Dashboard
		m.Filters.SetGenres(analysis.GenreOptions(msg.Dashboard.Records), msg.Dashboard.Genre)
		m.data.SetRows(dataRows(msg.Dashboard.Records))
		m.data.GotoTop()
		m.scroll = 0
		if msg.Err != nil {
			m.Logger.Warn("duration panels unavailable", "error", msg.Err)
			return m, m.setStatus(msg.Err.Error(), true)
		}
		return m, nil

	case DatasetLoadedMsg:
		// Carry the filters over; options the new version lacks drop out
		prev := m.Selection()
		m.setTable(msg.Table)
		m.Filters.Apply(prev.Predicates, prev.Genre)
		m.Logger.Info("dataset reloaded", "rows", msg.Table.Len(), "fingerprint", msg.Table.Fingerprint())
		status := m.setStatus(fmt.Sprintf("Reloaded %s titles", humanize.Comma(int64(msg.Table.Len()))), false)
		return m, tea.Batch(m.rebuild(), status)

	case ExportedMsg:
		m.Logger.Info("dashboard exported", "path", msg.Path)
		return m, m.setStatus("Exported to "+msg.Path, false)

	case ErrMsg:
		m.Loading = false
		m.Logger.Error(msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	switch m.State {
	case StateFiltering:
		m.Filters, cmd = m.Filters.UpdateQuery(msg)
	case StateExportPrompt:
		m.ExportPrompt, cmd, _ = m.ExportPrompt.Update(msg)
	}
	return m, cmd
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

// bodySize returns the panel body dimensions
func (m Model) bodySize() (int, int) {
	return max(20, m.Width-SidebarWidth-2), max(3, m.Height-ChromeHeight-TabBarHeight)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	w, h := m.bodySize()
	m.data.SetColumns(dataColumns(w))
	m.data.SetWidth(w)
	m.data.SetHeight(h - 1) // record count line above the table
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - ChromeHeight
	sidebar := m.Filters.View(SidebarWidth, contentHeight)

	w, h := m.bodySize()
	main := lipgloss.NewStyle().
		Width(w).
		Height(contentHeight).
		PaddingLeft(1).
		Render(renderTabBar(m.Tab, w) + "\n\n" + m.renderBody(w, h))

	content := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)

	if m.State == StateExportPrompt {
		content = lipgloss.Place(m.Width, contentHeight,
			lipgloss.Center, lipgloss.Center,
			m.ExportPrompt.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

// renderBody renders the visible window of the active tab
func (m Model) renderBody(width, height int) string {
	d := m.Dashboard
	switch {
	case d == nil:
		return styles.DimStyle.Render("Building dashboard...")
	case d.Empty():
		return styles.ErrorStyle.Render("No data") + "\n" +
			styles.DimStyle.Render(domain.ErrEmptyResult.Error()+". Widen the filters in the sidebar.")
	case m.Tab == TabData:
		return styles.SubtitleStyle.Render(fmt.Sprintf("Showing %s records after filtering", humanize.Comma(int64(len(d.Records))))) +
			"\n" + m.data.View()
	}

	lines := strings.Split(renderTab(m.Tab, d, width), "\n")
	start := min(m.scroll, max(0, len(lines)-height))
	end := min(len(lines), start+height)
	return strings.Join(lines[start:end], "\n")
}

// renderFooter renders the footer with status on the left and help hint on the right
func (m Model) renderFooter() string {
	var left string
	if m.Loading {
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Computing dashboard...")
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	} else {
		left = styles.DimStyle.Render(report.DescribeSelection(m.Selection()))
	}

	var center string
	if m.Table != nil {
		source := "parsed"
		if m.Table.FromCache() {
			source = "cached"
		}
		center = styles.DimStyle.Render(fmt.Sprintf("%s titles (%s)", humanize.Comma(int64(m.Table.Len())), source))
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(0, m.Width-leftWidth-rightWidth)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen from the key bindings
func (m Model) renderHelp() string {
	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"FILTERS", []key.Binding{Keys.Up, Keys.Down, Keys.PrevSection, Keys.NextSection, Keys.Toggle,
			Keys.SelectAll, Keys.SelectNone, Keys.Filter, Keys.MinYearDown, Keys.MinYearUp, Keys.MaxYearDown, Keys.MaxYearUp}},
		{"PANELS", []key.Binding{Keys.NextTab, Keys.PrevTab, Keys.JumpTab, Keys.PageUp, Keys.PageDown, Keys.Home, Keys.End}},
		{"OTHER", []key.Binding{Keys.Reload, Keys.Export, Keys.ExportAs, Keys.Escape, Keys.Help, Keys.Quit}},
	}

	columns := make([]string, len(groups))
	for i, g := range groups {
		lines := []string{styles.ModalTitleStyle.Render(g.title)}
		for _, b := range g.bindings {
			h := b.Help()
			lines = append(lines, styles.HelpKeyStyle.Render(styles.Pad(h.Key, 6))+" "+styles.HelpDescStyle.Render(h.Desc))
		}
		columns[i] = lipgloss.NewStyle().PaddingRight(4).Render(strings.Join(lines, "\n"))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...) +
		"\n\n" + styles.DimStyle.Render("Press any key to return...")

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(body))
}
