package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mmcdole/kinostat/internal/analysis"
	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/tui/styles"
)

// TextWidth is the line width of the plain-text report
const TextWidth = 100

// WriteText renders the dashboard as a plain-text report
func WriteText(w io.Writer, d *Dashboard) error {
	bw := bufio.NewWriter(w)
	p := &printer{w: bw}

	p.line(styles.TitleStyle.Render("Streaming Titles EDA"))
	p.line(styles.DimStyle.Render(DescribeSelection(d.Selection)))
	p.blank()

	if d.Empty() {
		p.line(styles.ErrorStyle.Render("No data: " + domain.ErrEmptyResult.Error()))
		if p.err != nil {
			return p.err
		}
		return bw.Flush()
	}

	p.heading(fmt.Sprintf("Showing %s records after filtering", humanize.Comma(int64(len(d.Records)))))
	p.line(fmt.Sprintf("Total Titles: %s   Movies: %s   TV Shows: %s",
		humanize.Comma(int64(d.Metrics.Total)),
		humanize.Comma(int64(d.Metrics.Movies)),
		humanize.Comma(int64(d.Metrics.TVShows))))
	p.blank()

	p.section("First rows", HeadTable(d.Head, TextWidth))
	p.section("Summary statistics", SummaryTable(d.Summary, TextWidth))

	p.section("Titles by Release Year", YearBars(d.ByReleaseYear, TextWidth, styles.Crimson))
	p.section(YearAddedHeading(d.Options), YearBars(d.ByYearAdded, TextWidth, styles.Crimson))

	p.section(fmt.Sprintf("Top %d Countries", d.Options.TopN), Bars(d.TopCountries, TextWidth, styles.Crimson))
	p.section("Movies vs TV Shows by Country", CrossTabTable(d.CountryTypes, TextWidth))

	p.section(fmt.Sprintf("Top %d Genres", d.Options.TopN), Bars(d.TopGenres, TextWidth, styles.Crimson))
	p.section("Genres by Content Type", CrossTabTable(d.GenreTypes, TextWidth))
	if d.Genre != "" {
		p.section("Top Directors in "+d.Genre, Bars(d.GenreDirectors, TextWidth, styles.Amber))
	}

	p.section("Rating Distribution", Bars(d.TopRatings, TextWidth, styles.Crimson))
	p.section("Ratings by Content Type", CrossTabTable(d.RatingTypes, TextWidth))

	p.section(fmt.Sprintf("Top %d Directors", d.Options.TopN), Bars(d.TopDirectors, TextWidth, styles.Amber))
	p.section(fmt.Sprintf("Top %d Actors", d.Options.TopN), Bars(d.TopActors, TextWidth, styles.Amber))

	p.heading("Duration")
	if d.DurationErr != nil {
		p.line(styles.ErrorStyle.Render(d.DurationErr.Error()))
		p.blank()
	} else {
		p.section("Movie runtime (min)", HistogramChart(d.MovieHistogram, TextWidth, styles.Blue))
		p.section("TV show length (seasons)", HistogramChart(d.ShowHistogram, TextWidth, styles.Blue))
		p.section("Duration by content type", BoxTable(d.BoxByType, TextWidth))
		p.section("Duration by rating", BoxTable(d.BoxByRating, TextWidth))
		if n := len(d.Malformed); n > 0 {
			p.line(styles.DimStyle.Render(fmt.Sprintf("%d title(s) skipped with malformed durations", n)))
			p.blank()
		}
	}

	p.section("Correlation", analysis.CorrelationNote+"\n"+CorrelationGrid(d.Correlation))

	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

// YearAddedHeading names the year-added panel for the active grouping
func YearAddedHeading(opts Options) string {
	if opts.AddedYearUsesReleaseYear {
		return "Titles by Year Added (grouped by release year)"
	}
	return "Titles by Year Added"
}

// DescribeSelection summarizes the active filters in one line
func DescribeSelection(sel Selection) string {
	var parts []string
	if sel.Predicates.Types != nil {
		names := make([]string, len(sel.Predicates.Types))
		for i, t := range sel.Predicates.Types {
			names[i] = t.String()
		}
		parts = append(parts, "type: "+strings.Join(names, ", "))
	}
	if sel.Predicates.Countries != nil {
		c := sel.Predicates.Countries
		if len(c) > 5 {
			parts = append(parts, fmt.Sprintf("countries: %d selected", len(c)))
		} else {
			parts = append(parts, "countries: "+strings.Join(c, ", "))
		}
	}
	if y := sel.Predicates.Years; y != nil {
		parts = append(parts, fmt.Sprintf("release years: %d-%d", y.Min, y.Max))
	}
	if len(parts) == 0 {
		return "No filters"
	}
	return "Filters: " + strings.Join(parts, "; ")
}

// printer accumulates the first write error so rendering code stays flat
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) blank() { p.line("") }

func (p *printer) heading(s string) {
	p.line(styles.HeadingStyle.Render(s))
}

func (p *printer) section(heading, body string) {
	p.heading(heading)
	p.line(body)
	p.blank()
}
