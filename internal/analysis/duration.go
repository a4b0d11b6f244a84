package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mmcdole/kinostat/internal/domain"
)

// Durations from malformed strings are left out of every series below and
// reported through Skipped (or MalformedDurations) instead of failing the
// panel.

// MovieDurations collects runtimes in minutes for the movies in a view
func MovieDurations(view []domain.Title) domain.DurationSeries {
	return durationsOf(view, domain.ContentTypeMovie, domain.UnitMinutes)
}

// ShowDurations collects season counts for the TV shows in a view
func ShowDurations(view []domain.Title) domain.DurationSeries {
	return durationsOf(view, domain.ContentTypeTVShow, domain.UnitSeasons)
}

func durationsOf(view []domain.Title, typ domain.ContentType, unit domain.DurationUnit) domain.DurationSeries {
	s := domain.DurationSeries{Unit: unit, Values: []int{}}
	for _, t := range view {
		if t.Type != typ {
			continue
		}
		d, err := t.ParsedDuration()
		if err != nil {
			s.Skipped = appendMalformed(s.Skipped, err)
			continue
		}
		s.Values = append(s.Values, d.Value)
	}
	return s
}

// MalformedDurations lists every title in a view whose duration does not parse
func MalformedDurations(view []domain.Title) []*domain.MalformedDurationError {
	var bad []*domain.MalformedDurationError
	for _, t := range view {
		if _, err := t.ParsedDuration(); err != nil {
			bad = appendMalformed(bad, err)
		}
	}
	return bad
}

func appendMalformed(list []*domain.MalformedDurationError, err error) []*domain.MalformedDurationError {
	var mde *domain.MalformedDurationError
	if errors.As(err, &mde) {
		return append(list, mde)
	}
	return list
}

// DurationScatter plots each title's duration against its release year
func DurationScatter(view []domain.Title) []domain.ScatterPoint {
	points := make([]domain.ScatterPoint, 0, len(view))
	for _, t := range view {
		d, err := t.ParsedDuration()
		if err != nil {
			continue
		}
		points = append(points, domain.ScatterPoint{ReleaseYear: t.ReleaseYear, Duration: d, Type: t.Type})
	}
	return points
}

// DurationBoxByType summarizes durations per content type. Each group
// holds a single unit; a type whose records carry both units is split.
func DurationBoxByType(view []domain.Title) []domain.BoxStats {
	return boxBy(view, func(t domain.Title, _ domain.DurationUnit) string {
		return t.Type.String()
	})
}

// DurationBoxByRating summarizes durations per rating, split by unit so
// minutes and seasons never share a box: "TV-MA (min)", "TV-MA (seasons)".
func DurationBoxByRating(view []domain.Title) []domain.BoxStats {
	return boxBy(view, func(t domain.Title, u domain.DurationUnit) string {
		return fmt.Sprintf("%s (%s)", t.Rating, u)
	})
}

func boxBy(view []domain.Title, group func(domain.Title, domain.DurationUnit) string) []domain.BoxStats {
	type key struct {
		group string
		unit  domain.DurationUnit
	}
	samples := make(map[key][]float64)
	var keys []key
	for _, t := range view {
		d, err := t.ParsedDuration()
		if err != nil {
			continue
		}
		k := key{group: group(t, d.Unit), unit: d.Unit}
		if _, ok := samples[k]; !ok {
			keys = append(keys, k)
		}
		samples[k] = append(samples[k], float64(d.Value))
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].group != keys[j].group {
			return keys[i].group < keys[j].group
		}
		return keys[i].unit < keys[j].unit
	})

	out := make([]domain.BoxStats, 0, len(keys))
	for _, k := range keys {
		out = append(out, Box(k.group, k.unit, samples[k]))
	}
	return out
}
