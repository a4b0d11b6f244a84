package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/tui/styles"
)

// Chart renderers shared by the text report and the terminal UI. Each
// returns a block of lines without a trailing newline, sized to width.

const (
	maxLabelWidth = 28
	cellWidth     = 9
	heatWidth     = 8
)

var noData = styles.DimStyle.Render("  no data")

func labelWidth(width int) int {
	return max(8, min(maxLabelWidth, width/3))
}

// Bars renders a ranked sequence as a horizontal bar chart
func Bars(counts []domain.LabelCount, width int, color lipgloss.Color) string {
	if len(counts) == 0 {
		return noData
	}
	lw := labelWidth(width)
	peak, digits := 0, 1
	for _, lc := range counts {
		peak = max(peak, lc.Count)
		digits = max(digits, len(strconv.Itoa(lc.Count)))
	}
	bw := max(1, width-lw-digits-4)

	lines := make([]string, len(counts))
	for i, lc := range counts {
		lines[i] = fmt.Sprintf("  %s %s %d",
			styles.Pad(lc.Label, lw),
			styles.Bar(lc.Count, peak, bw, color),
			lc.Count)
	}
	return strings.Join(lines, "\n")
}

// YearBars renders a year-ordered sequence as a bar chart
func YearBars(counts []domain.YearCount, width int, color lipgloss.Color) string {
	lcs := make([]domain.LabelCount, len(counts))
	for i, yc := range counts {
		lcs[i] = domain.LabelCount{Label: strconv.Itoa(yc.Year), Count: yc.Count}
	}
	return Bars(lcs, width, color)
}

// CrossTabTable renders a contingency table with one column per content type
func CrossTabTable(ct domain.CrossTab, width int) string {
	if len(ct.Rows) == 0 {
		return noData
	}
	lw := labelWidth(width)
	var b strings.Builder
	b.WriteString("  " + styles.Pad("", lw))
	for j, col := range ct.Cols {
		color := styles.SeriesColors[j%len(styles.SeriesColors)]
		b.WriteString(" " + lipgloss.NewStyle().Foreground(color).Render(styles.PadLeft(col, cellWidth)))
	}

	for i, row := range ct.Rows {
		b.WriteString("\n  " + styles.Pad(row, lw))
		for j := range ct.Cols {
			b.WriteString(" " + styles.PadLeft(strconv.Itoa(ct.Cells[i][j]), cellWidth))
		}
	}
	return b.String()
}

// HistogramChart renders the non-empty bins of h as bars
func HistogramChart(h domain.Histogram, width int, color lipgloss.Color) string {
	var counts []domain.LabelCount
	for i, c := range h.Counts {
		if c == 0 {
			continue
		}
		counts = append(counts, domain.LabelCount{
			Label: fmt.Sprintf("%.1f-%.1f", h.Edges[i], h.Edges[i+1]),
			Count: c,
		})
	}
	return Bars(counts, width, color)
}

// BoxTable renders box-plot statistics as a table, one row per group
func BoxTable(boxes []domain.BoxStats, width int) string {
	if len(boxes) == 0 {
		return noData
	}
	lw := labelWidth(width)
	lines := []string{styles.DimStyle.Render(fmt.Sprintf("  %s %5s %7s %7s %7s %7s %7s %8s",
		styles.Pad("group", lw), "n", "min", "q1", "median", "q3", "max", "outliers"))}
	for _, b := range boxes {
		lines = append(lines, fmt.Sprintf("  %s %5d %7.1f %7.1f %7.1f %7.1f %7.1f %8d",
			styles.Pad(b.Group, lw), b.N, b.Min, b.Q1, b.Median, b.Q3, b.Max, len(b.Outliers)))
	}
	return strings.Join(lines, "\n")
}

// CorrelationGrid renders the matrix as a heat map. Undefined cells show "--".
func CorrelationGrid(m domain.CorrelationMatrix) string {
	if len(m.Labels) == 0 {
		return noData
	}
	const rowLabel = 18
	var b strings.Builder
	b.WriteString("  " + styles.Pad("", rowLabel))
	for _, l := range m.Labels {
		b.WriteString(" " + styles.DimStyle.Render(styles.PadLeft(shortLabel(l), heatWidth)))
	}

	for i, l := range m.Labels {
		b.WriteString("\n  " + styles.Pad(l, rowLabel))
		for j := range m.Labels {
			text := "--"
			if m.Defined(i, j) {
				text = fmt.Sprintf("%.2f", m.At(i, j))
			}
			b.WriteString(" " + styles.HeatCell(text, m.At(i, j), heatWidth))
		}
	}
	return b.String()
}

// SummaryTable renders a describe-style summary, one row per column
func SummaryTable(summary []domain.ColumnSummary, width int) string {
	if len(summary) == 0 {
		return noData
	}
	lw := min(14, labelWidth(width))
	lines := []string{styles.DimStyle.Render(fmt.Sprintf("  %s %6s %7s %-16s %5s %9s %8s %7s %7s %7s",
		styles.Pad("column", lw), "count", "unique", "top", "freq", "mean", "std", "min", "median", "max"))}
	for _, s := range summary {
		lines = append(lines, fmt.Sprintf("  %s %6d %7s %-16s %5s %9s %8s %7s %7s %7s",
			styles.Pad(s.Column, lw), s.Count,
			intCell(s.Unique, !s.Numeric), styles.Pad(s.Top, 16), intCell(s.Freq, !s.Numeric),
			floatCell(s.Mean, 2), floatCell(s.Std, 2), floatCell(s.Min, 0), floatCell(s.P50, 0), floatCell(s.Max, 0)))
	}
	return strings.Join(lines, "\n")
}

// HeadTable renders the first rows of the table in a compact form
func HeadTable(titles []domain.Title, width int) string {
	if len(titles) == 0 {
		return noData
	}
	tw := max(10, min(32, width-60))
	lines := []string{styles.DimStyle.Render(fmt.Sprintf("  %s %-8s %s %5s %-8s %-10s",
		styles.Pad("title", tw), "type", styles.Pad("country", 16), "year", "rating", "duration"))}
	for _, t := range titles {
		lines = append(lines, fmt.Sprintf("  %s %-8s %s %5d %-8s %-10s",
			styles.Pad(t.Title, tw), styles.Truncate(t.Type.String(), 8), styles.Pad(t.Country, 16),
			t.ReleaseYear, styles.Truncate(t.Rating, 8), styles.Truncate(t.Duration, 10)))
	}
	return strings.Join(lines, "\n")
}

func intCell(v int, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

func floatCell(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

// shortLabel abbreviates a column name for the matrix header
func shortLabel(label string) string {
	label = strings.TrimPrefix(label, "duration_")
	return strings.ReplaceAll(label, "_", " ")
}
