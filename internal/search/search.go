// Package search resolves user-typed names against the values a filter
// offers (countries, genres, content types) and ranks picker matches.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/kinostat/internal/domain"
	sfuzzy "github.com/sahilm/fuzzy"
)

// Match is one picker hit with the matched rune positions for highlighting
type Match struct {
	Index          int
	Value          string
	MatchedIndexes []int
	Score          int
}

// Index implements sahilm/fuzzy.Source over a fixed option list
type Index struct {
	options []string
	lower   []string // Pre-computed lowercase options
}

// NewIndex builds an index over options. The slice is not copied.
func NewIndex(options []string) *Index {
	lower := make([]string, len(options))
	for i, o := range options {
		lower[i] = strings.ToLower(o)
	}
	return &Index{options: options, lower: lower}
}

// String returns the lowercase option at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lower[i] }

// Len returns the number of options (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.options) }

// Filter ranks the options matching query, best first. An empty query
// matches every option in index order.
func (idx *Index) Filter(query string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		all := make([]Match, len(idx.options))
		for i, o := range idx.options {
			all[i] = Match{Index: i, Value: o}
		}
		return all
	}

	found := sfuzzy.FindFrom(query, idx)
	out := make([]Match, len(found))
	for i, m := range found {
		out[i] = Match{
			Index:          m.Index,
			Value:          idx.options[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return out
}

// Filter returns the indexes of options matching query, best first
func Filter(query string, options []string) []int {
	matches := NewIndex(options).Filter(query)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

// Resolve maps a typed name to one of options. A case-insensitive exact
// match wins; otherwise the closest option containing the query's
// characters in order is chosen. No candidate yields domain.ErrNoMatch.
func Resolve(query string, options []string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", fmt.Errorf("%w: empty name", domain.ErrNoMatch)
	}

	for _, o := range options {
		if strings.EqualFold(o, q) {
			return o, nil
		}
	}

	ranks := fuzzy.RankFindFold(q, options)
	if len(ranks) == 0 {
		return "", fmt.Errorf("%w: %q", domain.ErrNoMatch, q)
	}
	sort.Stable(ranks)
	return options[ranks[0].OriginalIndex], nil
}

// ResolveAll resolves every query, stopping at the first failure.
// Duplicates after resolution are collapsed.
func ResolveAll(queries []string, options []string) ([]string, error) {
	seen := make(map[string]bool, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		v, err := Resolve(q, options)
		if err != nil {
			return nil, err
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}

// ResolveTypes resolves content type names against the types present
func ResolveTypes(queries []string, types []domain.ContentType) ([]domain.ContentType, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	// Accept the compact "TVShow" spelling before fuzzy matching
	normalized := make([]string, len(queries))
	for i, q := range queries {
		normalized[i] = domain.ParseContentType(q).String()
	}
	resolved, err := ResolveAll(normalized, names)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ContentType, len(resolved))
	for i, r := range resolved {
		out[i] = domain.ContentType(r)
	}
	return out, nil
}
