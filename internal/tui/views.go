package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/kinostat/internal/analysis"
	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/report"
	"github.com/mmcdole/kinostat/internal/tui/styles"
)

// renderTab renders the body of a non-table tab as a block of lines
func renderTab(t Tab, d *report.Dashboard, width int) string {
	switch t {
	case TabOverview:
		return renderOverview(d, width)
	case TabTrends:
		return sections(
			section("Titles by Release Year", report.YearBars(d.ByReleaseYear, width, styles.Crimson)),
			section(report.YearAddedHeading(d.Options), report.YearBars(d.ByYearAdded, width, styles.Crimson)),
		)
	case TabCountries:
		return sections(
			section(fmt.Sprintf("Top %d Countries", d.Options.TopN), report.Bars(d.TopCountries, width, styles.Crimson)),
			section("Movies vs TV Shows by Country", report.CrossTabTable(d.CountryTypes, width)),
		)
	case TabGenres:
		directors := styles.DimStyle.Render("  no genre in view")
		heading := "Top Directors by Genre"
		if d.Genre != "" {
			heading = "Top Directors in " + d.Genre
			directors = report.Bars(d.GenreDirectors, width, styles.Amber)
		}
		return sections(
			section(fmt.Sprintf("Top %d Genres", d.Options.TopN), report.Bars(d.TopGenres, width, styles.Crimson)),
			section("Genres by Content Type", report.CrossTabTable(d.GenreTypes, width)),
			section(heading, directors),
		)
	case TabRatings:
		return sections(
			section("Rating Distribution", report.Bars(d.TopRatings, width, styles.Crimson)),
			section("Ratings by Content Type", report.CrossTabTable(d.RatingTypes, width)),
		)
	case TabPeople:
		return sections(
			section(fmt.Sprintf("Top %d Directors", d.Options.TopN), report.Bars(d.TopDirectors, width, styles.Amber)),
			section(fmt.Sprintf("Top %d Actors", d.Options.TopN), report.Bars(d.TopActors, width, styles.Amber)),
		)
	case TabDuration:
		return renderDuration(d, width)
	case TabCorrelation:
		return section("Correlation of numeric columns",
			styles.DimStyle.Render(styles.Truncate(analysis.CorrelationNote, width-1))+"\n"+report.CorrelationGrid(d.Correlation))
	default:
		return ""
	}
}

func renderOverview(d *report.Dashboard, width int) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Total Titles", d.Metrics.Total),
		" ",
		metricCard("Movies", d.Metrics.Movies),
		" ",
		metricCard("TV Shows", d.Metrics.TVShows),
	)
	return sections(
		cards,
		section(fmt.Sprintf("First %d rows of the dataset", len(d.Head)), report.HeadTable(d.Head, width)),
		section("Summary statistics", report.SummaryTable(d.Summary, width)),
	)
}

func renderDuration(d *report.Dashboard, width int) string {
	if d.DurationErr != nil {
		return section("Duration", styles.ErrorStyle.Render("  "+d.DurationErr.Error()))
	}
	parts := []string{
		section("Movie runtime (min)", report.HistogramChart(d.MovieHistogram, width, styles.Blue)),
		section("TV show length (seasons)", report.HistogramChart(d.ShowHistogram, width, styles.Blue)),
		section("Duration by content type", report.BoxTable(d.BoxByType, width)),
		section("Duration by rating", report.BoxTable(d.BoxByRating, width)),
	}
	if n := len(d.Malformed); n > 0 {
		names := make([]string, 0, min(n, 5))
		for _, m := range d.Malformed[:min(n, 5)] {
			names = append(names, fmt.Sprintf("%s (%q)", m.Title, m.Raw))
		}
		parts = append(parts, styles.DimStyle.Render(fmt.Sprintf("  %d skipped with malformed durations: %s",
			n, strings.Join(names, ", "))))
	}
	return sections(parts...)
}

func metricCard(label string, value int) string {
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.SubtitleStyle.Render(label),
		styles.CardValueStyle.Render(humanize.Comma(int64(value))),
	))
}

func section(heading, body string) string {
	return styles.HeadingStyle.Render(heading) + "\n" + body
}

func sections(parts ...string) string {
	return strings.Join(parts, "\n\n")
}

// renderTabBar renders the tab strip with the active tab highlighted
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(bar) > width {
		// Narrow terminal: show only the active tab with its position
		bar = styles.ActiveTabStyle.Render(fmt.Sprintf("%d/%d %s", int(active)+1, int(tabCount), active))
	}
	return bar
}

// dataColumns sizes the Data tab columns to width
func dataColumns(width int) []table.Column {
	fixed := 8 + 5 + 8 + 10
	flex := max(30, width-fixed-12)
	return []table.Column{
		{Title: "Title", Width: flex * 4 / 10},
		{Title: "Type", Width: 8},
		{Title: "Country", Width: flex * 3 / 10},
		{Title: "Year", Width: 5},
		{Title: "Rating", Width: 8},
		{Title: "Duration", Width: 10},
		{Title: "Genres", Width: flex * 3 / 10},
	}
}

// dataRows converts the filtered view to table rows
func dataRows(view []domain.Title) []table.Row {
	rows := make([]table.Row, len(view))
	for i, t := range view {
		rows[i] = table.Row{
			t.Title,
			t.Type.String(),
			t.Country,
			fmt.Sprint(t.ReleaseYear),
			t.Rating,
			t.Duration,
			strings.Join(t.Genres, domain.GenreSeparator),
		}
	}
	return rows
}

// newDataTable creates the Data tab table in the application palette
func newDataTable() table.Model {
	t := table.New(table.WithFocused(true))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.DimGray).
		BorderBottom(true).
		Foreground(styles.Amber).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.White).
		Background(styles.SlateLight).
		Bold(false)
	t.SetStyles(s)
	return t
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
