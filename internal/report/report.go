// Package report assembles a dashboard snapshot: one filtered view and
// every panel computed from it.
package report

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mmcdole/kinostat/internal/analysis"
	"github.com/mmcdole/kinostat/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DurationPolicy decides what malformed duration strings do to the
// duration panels.
type DurationPolicy string

const (
	// DurationSkip leaves malformed records out and lists them
	DurationSkip DurationPolicy = "skip"
	// DurationFail empties the duration panels and reports an error
	DurationFail DurationPolicy = "fail"
)

// ParseDurationPolicy accepts "skip" or "fail" in any case
func ParseDurationPolicy(s string) (DurationPolicy, error) {
	switch p := DurationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DurationSkip, DurationFail:
		return p, nil
	case "":
		return DurationSkip, nil
	default:
		return "", fmt.Errorf("unknown duration policy %q (want skip or fail)", s)
	}
}

// Selection is what the user picked in the filter controls
type Selection struct {
	Predicates domain.Predicates `json:"predicates" yaml:"predicates"`
	Genre      string            `json:"genre,omitempty" yaml:"genre,omitempty"`
}

// Options tunes panel computation
type Options struct {
	TopN     int
	Bins     int
	HeadRows int

	// AddedYearUsesReleaseYear groups the "year added" panel by release
	// year, reproducing the chart the dashboard originally shipped with.
	AddedYearUsesReleaseYear bool

	DurationPolicy DurationPolicy
}

// DefaultOptions returns the dashboard defaults
func DefaultOptions() Options {
	return Options{
		TopN:           analysis.DefaultTopN,
		Bins:           analysis.DefaultBins,
		HeadRows:       10,
		DurationPolicy: DurationSkip,
	}
}

// Dashboard is one computed snapshot. Every field is derived from Records
// except Head and Summary, which describe the whole table.
type Dashboard struct {
	Selection   Selection
	Options     Options
	GeneratedAt time.Time

	Records []domain.Title
	Head    []domain.Title
	Summary []domain.ColumnSummary
	Metrics domain.KeyMetrics

	ByReleaseYear []domain.YearCount
	ByYearAdded   []domain.YearCount

	TopCountries []domain.LabelCount
	CountryTypes domain.CrossTab

	TopGenres      []domain.LabelCount
	GenreTypes     domain.CrossTab
	Genre          string
	GenreDirectors []domain.LabelCount

	TopRatings  []domain.LabelCount
	RatingTypes domain.CrossTab

	TopDirectors []domain.LabelCount
	TopActors    []domain.LabelCount

	MovieDurations domain.DurationSeries
	ShowDurations  domain.DurationSeries
	MovieHistogram domain.Histogram
	ShowHistogram  domain.Histogram
	BoxByType      []domain.BoxStats
	BoxByRating    []domain.BoxStats
	Scatter        []domain.ScatterPoint
	Malformed      []*domain.MalformedDurationError

	// DurationErr is set under DurationFail when any record in the view
	// has a malformed duration; the duration panels are then empty.
	DurationErr error

	Correlation domain.CorrelationMatrix
}

// Empty reports whether the filters matched no records
func (d *Dashboard) Empty() bool {
	return len(d.Records) == 0
}

// Err returns domain.ErrEmptyResult for an empty view, else nil.
// It is informational; every panel is still valid.
func (d *Dashboard) Err() error {
	if d.Empty() {
		return domain.ErrEmptyResult
	}
	return nil
}

// Build filters titles once and computes every panel concurrently. The
// panels only read the view, so they share it without locking.
//
// Under DurationFail a malformed duration yields a complete dashboard
// together with an error wrapping domain.ErrMalformedDuration; only the
// duration panels are left empty. A cancelled ctx returns (nil, ctx.Err()).
func Build(ctx context.Context, titles []domain.Title, sel Selection, opts Options) (*Dashboard, error) {
	opts = withDefaults(opts)
	view := analysis.Filter(titles, sel.Predicates)

	d := &Dashboard{
		Selection:   sel,
		Options:     opts,
		GeneratedAt: time.Now(),
		Records:     view,
		Head:        head(titles, opts.HeadRows),
	}

	g, gctx := errgroup.WithContext(ctx)
	panel := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	panel(func() { d.Summary = analysis.Describe(titles) })
	panel(func() { d.Metrics = analysis.Metrics(view) })
	panel(func() {
		d.ByReleaseYear = analysis.CountsByReleaseYear(view)
		if opts.AddedYearUsesReleaseYear {
			d.ByYearAdded = analysis.CountsByReleaseYear(view)
		} else {
			d.ByYearAdded = analysis.CountsByYearAdded(view)
		}
	})
	panel(func() {
		d.TopCountries = analysis.TopCountries(view, opts.TopN)
		d.CountryTypes = analysis.CountryTypeCrossTab(view, d.TopCountries)
	})
	panel(func() {
		d.TopGenres = analysis.TopGenres(view, opts.TopN)
		d.GenreTypes = analysis.GenreTypeCrossTab(view, d.TopGenres)
		d.Genre = pickGenre(view, sel.Genre)
		d.GenreDirectors = analysis.TopDirectorsInGenre(view, d.Genre, opts.TopN)
	})
	panel(func() {
		d.TopRatings = analysis.TopRatings(view, opts.TopN)
		d.RatingTypes = analysis.RatingTypeCrossTab(view, d.TopRatings)
	})
	panel(func() {
		d.TopDirectors = analysis.TopDirectors(view, opts.TopN)
		d.TopActors = analysis.TopActors(view, opts.TopN)
	})
	panel(func() { d.Correlation = analysis.Correlation(view) })
	panel(func() { buildDurations(d, view, opts) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, d.DurationErr
}

func buildDurations(d *Dashboard, view []domain.Title, opts Options) {
	d.Malformed = analysis.MalformedDurations(view)
	if opts.DurationPolicy == DurationFail && len(d.Malformed) > 0 {
		d.DurationErr = fmt.Errorf("duration panels: %d malformed value(s), first: %w",
			len(d.Malformed), d.Malformed[0])
		d.MovieDurations = domain.DurationSeries{Unit: domain.UnitMinutes, Values: []int{}}
		d.ShowDurations = domain.DurationSeries{Unit: domain.UnitSeasons, Values: []int{}}
		d.MovieHistogram = analysis.HistogramOf(nil, opts.Bins)
		d.ShowHistogram = analysis.HistogramOf(nil, opts.Bins)
		d.BoxByType = []domain.BoxStats{}
		d.BoxByRating = []domain.BoxStats{}
		d.Scatter = []domain.ScatterPoint{}
		return
	}

	d.MovieDurations = analysis.MovieDurations(view)
	d.ShowDurations = analysis.ShowDurations(view)
	d.MovieHistogram = analysis.HistogramOf(d.MovieDurations.Values, opts.Bins)
	d.ShowHistogram = analysis.HistogramOf(d.ShowDurations.Values, opts.Bins)
	d.BoxByType = analysis.DurationBoxByType(view)
	d.BoxByRating = analysis.DurationBoxByRating(view)
	d.Scatter = analysis.DurationScatter(view)
}

// pickGenre keeps the requested genre when the view lists it, otherwise
// falls back to the alphabetically first genre, the top of the picker.
func pickGenre(view []domain.Title, want string) string {
	genres := analysis.GenreOptions(view)
	if len(genres) == 0 {
		return ""
	}
	if slices.Contains(genres, want) {
		return want
	}
	return genres[0]
}

func head(titles []domain.Title, n int) []domain.Title {
	n = min(n, len(titles))
	return append([]domain.Title{}, titles[:n]...)
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.TopN < 1 {
		opts.TopN = def.TopN
	}
	if opts.Bins < 1 {
		opts.Bins = def.Bins
	}
	if opts.HeadRows < 0 {
		opts.HeadRows = 0
	}
	if opts.DurationPolicy == "" {
		opts.DurationPolicy = def.DurationPolicy
	}
	return opts
}
