package domain

import "time"

// LoadStats records what the normalizer kept and dropped
type LoadStats struct {
	Rows           int `json:"rows" yaml:"rows"`                         // Data rows read
	Kept           int `json:"kept" yaml:"kept"`                         // Rows surviving normalization
	BadDate        int `json:"bad_date" yaml:"bad_date"`                 // Dropped: unparseable date_added
	BadReleaseYear int `json:"bad_release_year" yaml:"bad_release_year"` // Dropped: non-integer release_year
}

// CachedTable is a normalized table as persisted by a TableStore
type CachedTable struct {
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	Stats       LoadStats `json:"stats"`
	StoredAt    time.Time `json:"stored_at"`
	Titles      []Title   `json:"titles"`
}

// TableStore caches normalized tables keyed by dataset fingerprint.
// A fingerprint changes whenever the raw bytes or the normalizer change,
// so a hit never needs a freshness check.
type TableStore interface {
	GetTable(fingerprint string) (*CachedTable, bool)
	SaveTable(table *CachedTable) error

	// Invalidate drops one dataset version
	Invalidate(fingerprint string)
	// InvalidateAll wipes the entire cache
	InvalidateAll()

	Close() error
}
