package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinostat/internal/catalog"
	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/export"
	"github.com/mmcdole/kinostat/internal/report"
)

// Command factories for async operations

// BuildDashboardCmd computes every panel for the selection off the UI loop
func BuildDashboardCmd(titles []domain.Title, sel report.Selection, opts report.Options, generation int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		d, err := report.Build(ctx, titles, sel, opts)
		return DashboardBuiltMsg{Dashboard: d, Err: err, Generation: generation}
	}
}

// ReloadCmd invalidates the cached table and reads the dataset again
func ReloadCmd(svc *catalog.Service, table *catalog.Table) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		t, err := svc.Reload(ctx, table)
		if err != nil {
			return ErrMsg{Err: err, Context: "reloading dataset"}
		}
		return DatasetLoadedMsg{Table: t}
	}
}

// ExportCmd writes the dashboard to path
func ExportCmd(path string, d *report.Dashboard) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := export.Write(ctx, path, d); err != nil {
			return ErrMsg{Err: err, Context: "exporting"}
		}
		return ExportedMsg{Path: path}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
