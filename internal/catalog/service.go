// Package catalog owns the lifecycle of the loaded dataset: it is opened
// once into an immutable Table, served from the table cache when the file
// is unchanged, and only re-read through an explicit Reload.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mmcdole/kinostat/internal/dataset"
	"github.com/mmcdole/kinostat/internal/domain"
)

// Service orchestrates dataset reads and the table store.
type Service struct {
	store  domain.TableStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new catalog service.
func NewService(store domain.TableStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Open loads the dataset at path. A table cached under the same
// fingerprint is returned without normalizing again; otherwise the file
// is normalized and the result saved. Schema failures satisfy
// errors.Is(err, domain.ErrSchema).
func (s *Service) Open(ctx context.Context, path string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("failed to read dataset", "error", err, "path", path)
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	fp := dataset.Fingerprint(data)

	if cached, ok := s.store.GetTable(fp); ok {
		s.logger.Debug("cache fresh", "path", source, "fingerprint", fp, "count", len(cached.Titles))
		return newTable(source, cached.Fingerprint, cached.Stats, cached.Titles, s.now(), true), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Debug("cache stale, normalizing", "path", source, "fingerprint", fp)
	titles, stats, err := dataset.Load(bytes.NewReader(data))
	if err != nil {
		s.logger.Error("failed to normalize dataset", "error", err, "path", source)
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if stats.BadDate > 0 {
		s.logger.Info("dropped titles without a valid date_added", "count", stats.BadDate, "path", source)
	}
	if stats.BadReleaseYear > 0 {
		s.logger.Warn("dropped titles with a non-integer release_year", "count", stats.BadReleaseYear, "path", source)
	}

	err = s.store.SaveTable(&domain.CachedTable{
		Fingerprint: fp,
		Source:      source,
		Stats:       stats,
		StoredAt:    s.now(),
		Titles:      titles,
	})
	if err != nil {
		s.logger.Error("failed to save table", "error", err, "fingerprint", fp)
	}

	s.logger.Info("loaded dataset", "path", source, "rows", stats.Rows, "kept", stats.Kept)
	return newTable(source, fp, stats, titles, s.now(), false), nil
}

// Invalidate drops the cached copy of t. The handle itself stays valid.
func (s *Service) Invalidate(t *Table) {
	if t == nil {
		return
	}
	s.logger.Debug("invalidating table", "path", t.Path(), "fingerprint", t.Fingerprint())
	s.store.Invalidate(t.Fingerprint())
}

// Reload invalidates t and opens its file again. This is the only way to
// pick up a changed dataset mid-session.
func (s *Service) Reload(ctx context.Context, t *Table) (*Table, error) {
	if t == nil {
		return nil, domain.ErrDatasetNotLoaded
	}
	s.Invalidate(t)
	return s.Open(ctx, t.Path())
}
