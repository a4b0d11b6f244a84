package styles

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color palette
var (
	Crimson    = lipgloss.Color("#E50914")
	Amber      = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Series colors, one per content type column
var SeriesColors = []lipgloss.Color{Crimson, Blue, Green, Amber}

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Crimson)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Crimson)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	HeadingStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)
)

// Tab bar styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Crimson).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Sidebar styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	CheckedStyle = lipgloss.NewStyle().
			Foreground(Crimson)
)

// Metric card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 2)

	CardValueStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Crimson).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Crimson)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Crimson)
)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Crimson).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Crimson).
				Bold(true)
)

// Chart glyphs
const (
	BarChar  = "█"
	CheckOn  = "[x]"
	CheckOff = "[ ]"
)

// Helper functions

// Truncate shortens s to width display cells with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// Pad truncates or right-pads s to exactly width display cells
func Pad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// PadLeft truncates or left-pads s to exactly width display cells
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(Truncate(s, width), width)
}

// Bar renders a horizontal bar of value scaled against peak over width cells
func Bar(value, peak, width int, color lipgloss.Color) string {
	if width <= 0 || peak <= 0 {
		return ""
	}
	filled := int(math.Round(float64(width) * float64(value) / float64(peak)))
	if value > 0 && filled == 0 {
		filled = 1
	}
	filled = min(filled, width)
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(BarChar, filled))
}

// HeatColor maps a correlation coefficient in [-1, 1] to a diverging
// blue-white-red scale.
func HeatColor(r float64) lipgloss.Color {
	switch {
	case math.IsNaN(r):
		return SlateLight
	case r >= 0.6:
		return lipgloss.Color("#B91C1C")
	case r >= 0.2:
		return lipgloss.Color("#F87171")
	case r > -0.2:
		return lipgloss.Color("#D1D5DB")
	case r > -0.6:
		return lipgloss.Color("#60A5FA")
	default:
		return lipgloss.Color("#1D4ED8")
	}
}

// HeatCell renders text on the heat color for r
func HeatCell(text string, r float64, width int) string {
	return lipgloss.NewStyle().
		Foreground(SlateDark).
		Background(HeatColor(r)).
		Render(PadLeft(text, width))
}
