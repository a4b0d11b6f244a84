package analysis

import (
	"sort"
	"strings"

	"github.com/mmcdole/kinostat/internal/domain"
)

// DefaultTopN is the cut-off for every ranked panel
const DefaultTopN = 10

// counter tallies labels and remembers the order they first appeared in,
// so equal counts rank by first appearance.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// ranked returns every label by descending count
func (c *counter) ranked() []domain.LabelCount {
	out := make([]domain.LabelCount, len(c.order))
	for i, label := range c.order {
		out[i] = domain.LabelCount{Label: label, Count: c.counts[label]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func (c *counter) top(n int) []domain.LabelCount {
	if n <= 0 {
		n = DefaultTopN
	}
	out := c.ranked()
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Metrics counts the titles, movies and TV shows in a view
func Metrics(view []domain.Title) domain.KeyMetrics {
	m := domain.KeyMetrics{Total: len(view)}
	for _, t := range view {
		switch t.Type {
		case domain.ContentTypeMovie:
			m.Movies++
		case domain.ContentTypeTVShow:
			m.TVShows++
		}
	}
	return m
}

// CountsByReleaseYear counts titles per release year, ascending by year
func CountsByReleaseYear(view []domain.Title) []domain.YearCount {
	return countByYear(view, func(t domain.Title) int { return t.ReleaseYear })
}

// CountsByYearAdded counts titles per year they were added to the service,
// ascending by year.
func CountsByYearAdded(view []domain.Title) []domain.YearCount {
	return countByYear(view, func(t domain.Title) int { return t.YearAdded })
}

func countByYear(view []domain.Title, key func(domain.Title) int) []domain.YearCount {
	counts := make(map[int]int)
	for _, t := range view {
		counts[key(t)]++
	}
	out := make([]domain.YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, domain.YearCount{Year: year, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopCountries ranks countries by title count. The country field is
// matched as a whole, so "India, France" is its own label.
func TopCountries(view []domain.Title, n int) []domain.LabelCount {
	c := newCounter()
	for _, t := range view {
		c.add(t.Country)
	}
	return c.top(n)
}

// TopGenres ranks genres by occurrence. A title counts once for every
// genre it lists, so counts can sum past the number of titles.
func TopGenres(view []domain.Title, n int) []domain.LabelCount {
	c := newCounter()
	for _, t := range view {
		for _, g := range t.Genres {
			c.add(g)
		}
	}
	return c.top(n)
}

// TopRatings ranks ratings by title count
func TopRatings(view []domain.Title, n int) []domain.LabelCount {
	c := newCounter()
	for _, t := range view {
		c.add(t.Rating)
	}
	return c.top(n)
}

// TopDirectors ranks directors by title count, skipping titles without one
func TopDirectors(view []domain.Title, n int) []domain.LabelCount {
	return topDirectors(view, n, func(domain.Title) bool { return true })
}

// TopDirectorsInGenre ranks directors among the titles listing genre.
// An empty genre yields an empty ranking.
func TopDirectorsInGenre(view []domain.Title, genre string, n int) []domain.LabelCount {
	if genre == "" {
		return []domain.LabelCount{}
	}
	return topDirectors(view, n, func(t domain.Title) bool { return t.HasGenre(genre) })
}

func topDirectors(view []domain.Title, n int, keep func(domain.Title) bool) []domain.LabelCount {
	c := newCounter()
	for _, t := range view {
		if t.Director != "" && keep(t) {
			c.add(t.Director)
		}
	}
	return c.top(n)
}

// TopActors ranks individual cast members by the number of titles they
// appear in.
func TopActors(view []domain.Title, n int) []domain.LabelCount {
	c := newCounter()
	for _, t := range view {
		for _, name := range t.CastMembers() {
			if name = strings.TrimSpace(name); name != "" {
				c.add(name)
			}
		}
	}
	return c.top(n)
}
