// Package merge grows a saved query's result set with records it has not seen.
package merge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/google/uuid"
)

type Merger struct {
	store   storage.ResultStore
	indexer storage.ResultIndexer
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(m *Merger)

// WithIndexer mirrors every inserted result into a search index.
func WithIndexer(idx storage.ResultIndexer) Option {
	return func(m *Merger) {
		m.indexer = idx
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Merger) {
		m.now = now
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Merger) {
		if l != nil {
			m.logger = l
		}
	}
}

func New(store storage.ResultStore, opts ...Option) *Merger {
	m := &Merger{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge inserts the fresh results whose URL is not yet stored under
// savedQueryID and returns how many were written. Existing rows are never
// updated, so merging the same batch twice inserts nothing the second time.
func (m *Merger) Merge(ctx context.Context, savedQueryID uuid.UUID, fresh []domain.Result) (int, error) {
	now := m.now().UTC()
	seen := make(map[string]struct{}, len(fresh))
	inserted := make([]domain.PersistedResult, 0, len(fresh))
	// Rows written before a failure are committed, so they are indexed too.
	defer func() { m.index(ctx, savedQueryID, inserted) }()

	for _, r := range fresh {
		key := r.Key()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		_, exists, err := m.store.FindResult(ctx, savedQueryID, key)
		if err != nil {
			return len(inserted), fmt.Errorf("failed to look up result %s: %w", key, err)
		}
		if exists {
			continue
		}

		r.URL = key
		pr := domain.NewPersistedResult(savedQueryID, r, now)
		if pr.Metadata, err = json.Marshal(pr.Result); err != nil {
			return len(inserted), fmt.Errorf("failed to encode result metadata: %w", err)
		}

		ok, err := m.store.InsertResult(ctx, pr)
		if err != nil {
			return len(inserted), fmt.Errorf("failed to insert result %s: %w", key, err)
		}
		if ok {
			inserted = append(inserted, pr)
		}
	}

	m.logger.Info("results merged", "search_id", savedQueryID, "fresh", len(fresh), "inserted", len(inserted))
	return len(inserted), nil
}

func (m *Merger) index(ctx context.Context, savedQueryID uuid.UUID, results []domain.PersistedResult) {
	if m.indexer == nil || len(results) == 0 {
		return
	}
	if err := m.indexer.IndexResults(ctx, results); err != nil {
		m.logger.Error("failed to index merged results", "search_id", savedQueryID, "count", len(results), "error", err)
	}
}
