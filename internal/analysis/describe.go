package analysis

import (
	"sort"
	"strings"

	"github.com/mmcdole/kinostat/internal/domain"
)

const dateLayout = "2006-01-02"

type describeColumn struct {
	name    string
	numeric bool
	text    func(domain.Title) string
	number  func(domain.Title) float64
}

var describeColumns = []describeColumn{
	{name: "show_id", text: func(t domain.Title) string { return t.ShowID }},
	{name: "type", text: func(t domain.Title) string { return t.Type.String() }},
	{name: "title", text: func(t domain.Title) string { return t.Title }},
	{name: "director", text: func(t domain.Title) string { return t.Director }},
	{name: "cast", text: func(t domain.Title) string { return t.Cast }},
	{name: "country", text: func(t domain.Title) string { return t.Country }},
	{name: "date_added", text: func(t domain.Title) string { return t.DateAdded.Format(dateLayout) }},
	{name: "release_year", numeric: true, number: func(t domain.Title) float64 { return float64(t.ReleaseYear) }},
	{name: "rating", text: func(t domain.Title) string { return t.Rating }},
	{name: "duration", text: func(t domain.Title) string { return t.Duration }},
	{name: "listed_in", text: func(t domain.Title) string { return strings.Join(t.Genres, domain.GenreSeparator) }},
	{name: "description", text: func(t domain.Title) string { return t.Description }},
	{name: "year_added", numeric: true, number: func(t domain.Title) float64 { return float64(t.YearAdded) }},
	{name: "month_added", numeric: true, number: func(t domain.Title) float64 { return float64(t.MonthAdded) }},
	{name: "day_added", numeric: true, number: func(t domain.Title) float64 { return float64(t.DayAdded) }},
}

// Describe summarizes every column of a table. Text columns report the
// non-missing count, distinct values and the most frequent value; numeric
// columns report count, mean, sample std, min, quartiles and max. A table
// without any show ids omits that column.
func Describe(titles []domain.Title) []domain.ColumnSummary {
	out := make([]domain.ColumnSummary, 0, len(describeColumns))
	for _, col := range describeColumns {
		var s domain.ColumnSummary
		if col.numeric {
			s = describeNumeric(col, titles)
		} else {
			s = describeText(col, titles)
		}
		if col.name == "show_id" && s.Count == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func describeText(col describeColumn, titles []domain.Title) domain.ColumnSummary {
	s := domain.ColumnSummary{Column: col.name}
	c := newCounter()
	for _, t := range titles {
		if v := col.text(t); v != "" {
			s.Count++
			c.add(v)
		}
	}
	s.Unique = len(c.order)
	if ranked := c.ranked(); len(ranked) > 0 {
		s.Top = ranked[0].Label
		s.Freq = ranked[0].Count
	}
	return s
}

func describeNumeric(col describeColumn, titles []domain.Title) domain.ColumnSummary {
	s := domain.ColumnSummary{Column: col.name, Numeric: true, Count: len(titles)}
	if len(titles) == 0 {
		return s
	}

	values := make([]float64, len(titles))
	for i, t := range titles {
		values[i] = col.number(t)
	}
	sort.Float64s(values)

	mean, std, ok := meanStd(values)
	s.Mean = &mean
	if ok {
		s.Std = &std
	}
	s.Min = ptr(values[0])
	s.P25 = ptr(Quantile(values, 0.25))
	s.P50 = ptr(Quantile(values, 0.5))
	s.P75 = ptr(Quantile(values, 0.75))
	s.Max = ptr(values[len(values)-1])
	return s
}

func ptr(v float64) *float64 { return &v }
