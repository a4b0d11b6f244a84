package tui

import (
	"github.com/mmcdole/kinostat/internal/catalog"
	"github.com/mmcdole/kinostat/internal/report"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// DatasetLoadedMsg signals that a dataset version is ready
type DatasetLoadedMsg struct {
	Table *catalog.Table
}

// DashboardBuiltMsg carries a computed dashboard. Generation matches the
// request that produced it so stale builds can be dropped. Dashboard may
// be set together with Err when only the duration panels failed.
type DashboardBuiltMsg struct {
	Dashboard  *report.Dashboard
	Err        error
	Generation int
}

// ExportedMsg signals that the dashboard was written to Path
type ExportedMsg struct {
	Path string
}

// TickMsg advances the footer spinner
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
