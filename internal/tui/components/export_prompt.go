package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinostat/internal/export"
	"github.com/mmcdole/kinostat/internal/tui/styles"
)

const exportPromptWidth = 48

// ExportPrompt asks for a snapshot path. The extension picks the format,
// so a path no exporter understands is rejected in place.
type ExportPrompt struct {
	visible bool
	input   textinput.Model
	err     string
}

// NewExportPrompt creates a hidden prompt
func NewExportPrompt() ExportPrompt {
	ti := textinput.New()
	ti.Placeholder = "kinostat-export.yaml"
	ti.CharLimit = 256
	ti.Width = exportPromptWidth - 4
	ti.Prompt = "> "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return ExportPrompt{input: ti}
}

// Show opens the prompt prefilled with path
func (p *ExportPrompt) Show(path string) tea.Cmd {
	p.visible = true
	p.err = ""
	p.input.SetValue(path)
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *ExportPrompt) hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible reports whether the prompt is open
func (p ExportPrompt) IsVisible() bool { return p.visible }

// Path returns the entered path, trimmed
func (p ExportPrompt) Path() string { return strings.TrimSpace(p.input.Value()) }

// Update handles a key and reports whether a valid path was submitted.
// esc closes the prompt without submitting.
func (p ExportPrompt) Update(msg tea.Msg) (ExportPrompt, tea.Cmd, bool) {
	if !p.visible {
		return p, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			p.hide()
			return p, nil, false
		case tea.KeyEnter:
			if p.Path() == "" {
				p.err = "enter a file path"
				return p, nil, false
			}
			if _, err := export.FormatFor(p.Path()); err != nil {
				p.err = err.Error()
				return p, nil, false
			}
			p.hide()
			return p, nil, true
		}
	}

	var cmd tea.Cmd
	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.err = ""
	}
	return p, cmd, false
}

// View renders the prompt box
func (p ExportPrompt) View() string {
	if !p.visible {
		return ""
	}

	row := lipgloss.NewStyle().
		Width(exportPromptWidth).
		Background(styles.SlateDark)

	status := row.Foreground(styles.DimGray).Render(".json  .yaml/.yml  .db/.sqlite")
	if p.err != "" {
		status = row.Foreground(styles.Red).Render(styles.Truncate(p.err, exportPromptWidth))
	}

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		row.Foreground(styles.White).Bold(true).Render("Export dashboard"),
		row.Render(""),
		row.Render(p.input.View()),
		row.Render(""),
		status,
	))
}
