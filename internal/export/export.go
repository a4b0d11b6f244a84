// Package export writes a dashboard snapshot to disk. The format follows
// the file extension: JSON, YAML, or a SQLite database.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmcdole/kinostat/internal/analysis"
	"github.com/mmcdole/kinostat/internal/domain"
	"github.com/mmcdole/kinostat/internal/report"
	"gopkg.in/yaml.v3"
)

// Format is an export file format
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// FormatFor maps a path's extension to a Format
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Write exports d to path, replacing any existing file
func Write(ctx context.Context, path string, d *report.Dashboard) error {
	if d == nil {
		return domain.ErrDatasetNotLoaded
	}
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	switch format {
	case FormatSQLite:
		return writeSQLite(ctx, path, d)
	case FormatYAML:
		data, err := yaml.Marshal(newSnapshot(d))
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return writeFile(path, data)
	default:
		data, err := json.MarshalIndent(newSnapshot(d), "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return writeFile(path, append(data, '\n'))
	}
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// snapshot is the document form of a dashboard. NaN correlations become
// null and malformed durations become plain records.
type snapshot struct {
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Selection   report.Selection `json:"selection" yaml:"selection"`
	Records     int              `json:"records" yaml:"records"`

	Metrics       domain.KeyMetrics  `json:"metrics" yaml:"metrics"`
	ByReleaseYear []domain.YearCount `json:"by_release_year" yaml:"by_release_year"`
	ByYearAdded   []domain.YearCount `json:"by_year_added" yaml:"by_year_added"`

	TopCountries   []domain.LabelCount `json:"top_countries" yaml:"top_countries"`
	CountryTypes   domain.CrossTab     `json:"country_types" yaml:"country_types"`
	TopGenres      []domain.LabelCount `json:"top_genres" yaml:"top_genres"`
	GenreTypes     domain.CrossTab     `json:"genre_types" yaml:"genre_types"`
	Genre          string              `json:"genre,omitempty" yaml:"genre,omitempty"`
	GenreDirectors []domain.LabelCount `json:"genre_directors" yaml:"genre_directors"`
	TopRatings     []domain.LabelCount `json:"top_ratings" yaml:"top_ratings"`
	RatingTypes    domain.CrossTab     `json:"rating_types" yaml:"rating_types"`
	TopDirectors   []domain.LabelCount `json:"top_directors" yaml:"top_directors"`
	TopActors      []domain.LabelCount `json:"top_actors" yaml:"top_actors"`

	Durations   durations              `json:"durations" yaml:"durations"`
	Correlation correlation            `json:"correlation" yaml:"correlation"`
	Summary     []domain.ColumnSummary `json:"summary" yaml:"summary"`
	Titles      []domain.Title         `json:"titles" yaml:"titles"`
}

type durations struct {
	Movies      domain.DurationSeries `json:"movies" yaml:"movies"`
	Shows       domain.DurationSeries `json:"shows" yaml:"shows"`
	MovieBins   domain.Histogram      `json:"movie_histogram" yaml:"movie_histogram"`
	ShowBins    domain.Histogram      `json:"show_histogram" yaml:"show_histogram"`
	ByType      []domain.BoxStats     `json:"by_type" yaml:"by_type"`
	ByRating    []domain.BoxStats     `json:"by_rating" yaml:"by_rating"`
	Malformed   []malformed           `json:"malformed,omitempty" yaml:"malformed,omitempty"`
	Error       string                `json:"error,omitempty" yaml:"error,omitempty"`
	ScatterSize int                   `json:"scatter_points" yaml:"scatter_points"`
}

type malformed struct {
	Title string `json:"title" yaml:"title"`
	Raw   string `json:"raw" yaml:"raw"`
}

type correlation struct {
	Labels []string     `json:"labels" yaml:"labels"`
	Values [][]*float64 `json:"values" yaml:"values"`
	Note   string       `json:"note" yaml:"note"`
}

func newSnapshot(d *report.Dashboard) snapshot {
	s := snapshot{
		GeneratedAt:    d.GeneratedAt.UTC(),
		Selection:      d.Selection,
		Records:        len(d.Records),
		Metrics:        d.Metrics,
		ByReleaseYear:  d.ByReleaseYear,
		ByYearAdded:    d.ByYearAdded,
		TopCountries:   d.TopCountries,
		CountryTypes:   d.CountryTypes,
		TopGenres:      d.TopGenres,
		GenreTypes:     d.GenreTypes,
		Genre:          d.Genre,
		GenreDirectors: d.GenreDirectors,
		TopRatings:     d.TopRatings,
		RatingTypes:    d.RatingTypes,
		TopDirectors:   d.TopDirectors,
		TopActors:      d.TopActors,
		Durations: durations{
			Movies:      d.MovieDurations,
			Shows:       d.ShowDurations,
			MovieBins:   d.MovieHistogram,
			ShowBins:    d.ShowHistogram,
			ByType:      d.BoxByType,
			ByRating:    d.BoxByRating,
			ScatterSize: len(d.Scatter),
		},
		Correlation: correlation{
			Labels: d.Correlation.Labels,
			Values: d.Correlation.Rows(),
			Note:   analysis.CorrelationNote,
		},
		Summary: d.Summary,
		Titles:  d.Records,
	}
	for _, m := range d.Malformed {
		s.Durations.Malformed = append(s.Durations.Malformed, malformed{Title: m.Title, Raw: m.Raw})
	}
	if d.DurationErr != nil {
		s.Durations.Error = d.DurationErr.Error()
	}
	return s
}
