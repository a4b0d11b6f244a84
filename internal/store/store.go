package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/kinostat/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketTables  = []byte("tables")
	bucketSources = []byte("sources")
)

var allBuckets = [][]byte{bucketTables, bucketSources}

// tableHeader is everything in a CachedTable except the rows, stored apart
// so listing cached versions never decodes the titles.
type tableHeader struct {
	Fingerprint string           `json:"fingerprint"`
	Source      string           `json:"source"`
	Stats       domain.LoadStats `json:"stats"`
	StoredAt    time.Time        `json:"stored_at"`
}

// TableStore implements domain.TableStore using BoltDB.
//
// Keys in the tables bucket are "{fingerprint}:meta" and
// "{fingerprint}:titles". The sources bucket maps a dataset path to the
// fingerprint last saved for it, so saving a new version of a file drops
// the stale one.
type TableStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewTableStore opens the cache under cacheDir. An empty cacheDir keeps
// everything in memory for the life of the process.
func NewTableStore(cacheDir string) (*TableStore, error) {
	if cacheDir == "" {
		// Memory-only mode (no persistence)
		return &TableStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "kinostat.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &TableStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *TableStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *TableStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

// setAll writes several keys of one bucket in a single bolt transaction
func (s *TableStore) setAll(bucket []byte, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		encoded[key] = data
	}

	s.mu.Lock()
	for key, data := range encoded {
		s.cache[string(bucket)+":"+key] = data
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		for key, data := range encoded {
			if err := b.Put([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TableStore) set(bucket []byte, key string, value any) error {
	return s.setAll(bucket, map[string]any{key: value})
}

func (s *TableStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	// Delete from BoltDB using prefix scan
	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		// Collect first; deleting under a live cursor skips keys
		var keys [][]byte
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		return deleteKeys(b, keys)
	})
}

// === Tables ===

func metaKey(fp string) string   { return fp + ":meta" }
func titlesKey(fp string) string { return fp + ":titles" }

// GetTable returns the cached table for a fingerprint
func (s *TableStore) GetTable(fingerprint string) (*domain.CachedTable, bool) {
	var h tableHeader
	if !s.get(bucketTables, metaKey(fingerprint), &h) {
		return nil, false
	}
	var titles []domain.Title
	if !s.get(bucketTables, titlesKey(fingerprint), &titles) {
		return nil, false
	}
	return &domain.CachedTable{
		Fingerprint: h.Fingerprint,
		Source:      h.Source,
		Stats:       h.Stats,
		StoredAt:    h.StoredAt,
		Titles:      titles,
	}, true
}

// SaveTable stores a table under its fingerprint. A previous version saved
// for the same source is dropped.
func (s *TableStore) SaveTable(table *domain.CachedTable) error {
	if table.Fingerprint == "" {
		return fmt.Errorf("save table: empty fingerprint")
	}

	if table.Source != "" {
		var previous string
		if s.get(bucketSources, table.Source, &previous) && previous != table.Fingerprint {
			s.Invalidate(previous)
		}
	}

	storedAt := table.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now()
	}
	err := s.setAll(bucketTables, map[string]any{
		metaKey(table.Fingerprint): tableHeader{
			Fingerprint: table.Fingerprint,
			Source:      table.Source,
			Stats:       table.Stats,
			StoredAt:    storedAt,
		},
		titlesKey(table.Fingerprint): table.Titles,
	})
	if err != nil {
		return err
	}

	if table.Source == "" {
		return nil
	}
	return s.set(bucketSources, table.Source, table.Fingerprint)
}

// Invalidate drops one dataset version
func (s *TableStore) Invalidate(fingerprint string) {
	s.deletePrefix(bucketTables, fingerprint+":")
}

// InvalidateAll wipes every cached table
func (s *TableStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			var keys [][]byte
			b.ForEach(func(k, _ []byte) error {
				keys = append(keys, append([]byte(nil), k...))
				return nil
			})
			if err := deleteKeys(b, keys); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteKeys(b *bolt.Bucket, keys [][]byte) error {
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.TableStore = (*TableStore)(nil)
