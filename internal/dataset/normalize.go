package dataset

import (
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/kinostat/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Load reads and normalizes a CSV in one step
func Load(r io.Reader) ([]domain.Title, domain.LoadStats, error) {
	raw, err := ReadCSV(r)
	if err != nil {
		return nil, domain.LoadStats{}, err
	}
	return Normalize(raw)
}

// Normalize cleans a raw table into titles:
//   - date_added is parsed as a calendar date; rows where it does not parse
//     are dropped, and year/month/day are derived from the rest
//   - missing country and rating become "Unknown"
//   - listed_in is split on ", " (nil when the cell is empty)
//   - names and genres are NFC-normalized
//
// A header without title, type or release_year is a *domain.SchemaError.
// The output depends only on the input, so Normalize is idempotent.
func Normalize(raw *RawTable) ([]domain.Title, domain.LoadStats, error) {
	if missing := raw.Missing(); len(missing) > 0 {
		return nil, domain.LoadStats{}, &domain.SchemaError{Missing: missing}
	}

	stats := domain.LoadStats{Rows: len(raw.Rows)}
	titles := make([]domain.Title, 0, len(raw.Rows))

	for i := range raw.Rows {
		added, ok := ParseDate(raw.Cell(i, ColDateAdded))
		if !ok {
			stats.BadDate++
			continue
		}
		year, ok := parseYear(raw.Cell(i, ColReleaseYear))
		if !ok {
			stats.BadReleaseYear++
			continue
		}

		titles = append(titles, domain.Title{
			ShowID:      raw.Cell(i, ColShowID),
			Title:       raw.Cell(i, ColTitle),
			Type:        domain.ParseContentType(raw.Cell(i, ColType)),
			Director:    normalizeNames(raw.Cell(i, ColDirector)),
			Cast:        normalizeNames(raw.Cell(i, ColCast)),
			Country:     orUnknown(raw.Cell(i, ColCountry)),
			DateAdded:   added,
			YearAdded:   added.Year(),
			MonthAdded:  int(added.Month()),
			DayAdded:    added.Day(),
			ReleaseYear: year,
			Rating:      orUnknown(raw.Cell(i, ColRating)),
			Duration:    raw.Cell(i, ColDuration),
			Genres:      SplitGenres(raw.Cell(i, ColListedIn)),
			Description: raw.Cell(i, ColDescription),
		})
	}

	stats.Kept = len(titles)
	return titles, stats, nil
}

// ParseDate parses a date_added cell ("September 25, 2021", "2021-09-25", ...)
// and truncates it to midnight UTC. ok is false for an empty or unparseable cell.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// SplitGenres splits a listed_in cell into an ordered list.
// An empty cell yields nil, never an empty slice.
func SplitGenres(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, domain.GenreSeparator)
	for i, p := range parts {
		parts[i] = norm.NFC.String(p)
	}
	return parts
}

func normalizeNames(s string) string {
	if s == "" {
		return ""
	}
	return norm.NFC.String(s)
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}

// maxYear bounds release_year; anything past it is a corrupt cell
const maxYear = 9999

// parseYear accepts "2015" and the "2015.0" form spreadsheets emit
func parseYear(s string) (int, bool) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, y >= 0 && y <= maxYear
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > maxYear {
		return 0, false
	}
	return int(f), true
}
