package catalog

import (
	"time"

	"github.com/mmcdole/kinostat/internal/domain"
)

// Table is the immutable handle to one loaded dataset version. It is safe
// for concurrent readers: nothing mutates it after construction and
// Titles hands out copies.
type Table struct {
	path        string
	fingerprint string
	stats       domain.LoadStats
	titles      []domain.Title
	loadedAt    time.Time
	fromCache   bool
}

func newTable(path, fp string, stats domain.LoadStats, titles []domain.Title, loadedAt time.Time, fromCache bool) *Table {
	return &Table{
		path:        path,
		fingerprint: fp,
		stats:       stats,
		titles:      titles,
		loadedAt:    loadedAt,
		fromCache:   fromCache,
	}
}

// Titles returns a deep copy of the normalized rows
func (t *Table) Titles() []domain.Title {
	out := make([]domain.Title, len(t.titles))
	copy(out, t.titles)
	for i := range out {
		if out[i].Genres != nil {
			out[i].Genres = append([]string{}, out[i].Genres...)
		}
	}
	return out
}

// View calls fn with the rows without copying them. fn must not modify
// or retain the slice.
func (t *Table) View(fn func([]domain.Title)) {
	fn(t.titles)
}

func (t *Table) Len() int                { return len(t.titles) }
func (t *Table) Path() string            { return t.path }
func (t *Table) Fingerprint() string     { return t.fingerprint }
func (t *Table) Stats() domain.LoadStats { return t.stats }
func (t *Table) LoadedAt() time.Time     { return t.loadedAt }

// FromCache reports whether the rows came from the table store
func (t *Table) FromCache() bool { return t.fromCache }
