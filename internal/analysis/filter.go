// Package analysis filters the normalized title table and computes the
// aggregate projections behind every dashboard panel. Every function is a
// pure, read-only view over its input and is total over an empty view.
package analysis

import (
	"sort"

	"github.com/mmcdole/kinostat/internal/domain"
)

// Complete reports whether a title passes the fixed baseline guard that
// applies to every view regardless of the user's selections: genres,
// rating, date_added, director, duration, description, cast and title must
// all be present.
func Complete(t domain.Title) bool {
	return t.IsComplete()
}

// Matches reports whether a title satisfies every user predicate.
// It does not apply the baseline guard.
func Matches(t domain.Title, p domain.Predicates) bool {
	if p.Types != nil && !containsType(p.Types, t.Type) {
		return false
	}
	if p.Countries != nil && !containsString(p.Countries, t.Country) {
		return false
	}
	if p.Years != nil && !p.Years.Contains(t.ReleaseYear) {
		return false
	}
	return true
}

// Filter returns the filtered view: the titles passing the baseline guard
// and every predicate, in table order. The input is not modified.
func Filter(titles []domain.Title, p domain.Predicates) []domain.Title {
	view := make([]domain.Title, 0, len(titles))
	for _, t := range titles {
		if Complete(t) && Matches(t, p) {
			view = append(view, t)
		}
	}
	return view
}

// Options lists the values each filter control offers for a table:
// content types in first-appearance order, sorted countries and genres,
// and the release-year bounds.
func Options(titles []domain.Title) domain.FilterOptions {
	opts := domain.FilterOptions{
		Types:     []domain.ContentType{},
		Countries: []string{},
	}

	seenType := make(map[domain.ContentType]bool)
	seenCountry := make(map[string]bool)
	for i, t := range titles {
		if !seenType[t.Type] {
			seenType[t.Type] = true
			opts.Types = append(opts.Types, t.Type)
		}
		if !seenCountry[t.Country] {
			seenCountry[t.Country] = true
			opts.Countries = append(opts.Countries, t.Country)
		}
		if i == 0 || t.ReleaseYear < opts.MinYear {
			opts.MinYear = t.ReleaseYear
		}
		if i == 0 || t.ReleaseYear > opts.MaxYear {
			opts.MaxYear = t.ReleaseYear
		}
	}
	sort.Strings(opts.Countries)
	opts.Genres = GenreOptions(titles)

	return opts
}

// GenreOptions returns the sorted unique genres listed across titles
func GenreOptions(titles []domain.Title) []string {
	seen := make(map[string]bool)
	genres := []string{}
	for _, t := range titles {
		for _, g := range t.Genres {
			if !seen[g] {
				seen[g] = true
				genres = append(genres, g)
			}
		}
	}
	sort.Strings(genres)
	return genres
}

// AllOf returns predicates selecting every option, which is the dashboard's
// initial state.
func AllOf(opts domain.FilterOptions) domain.Predicates {
	return domain.Predicates{
		Types:     append([]domain.ContentType{}, opts.Types...),
		Countries: append([]string{}, opts.Countries...),
		Years:     &domain.YearRange{Min: opts.MinYear, Max: opts.MaxYear},
	}
}

func containsType(types []domain.ContentType, t domain.ContentType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
