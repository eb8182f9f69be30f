// Package automation re-runs saved queries on their schedule.
package automation

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-radar/internal/aggregator"
	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/google/uuid"
)

type Merger interface {
	Merge(ctx context.Context, savedQueryID uuid.UUID, fresh []domain.Result) (int, error)
}

// Refresher runs a saved query again and merges what is new.
type Refresher struct {
	queries  storage.SavedQueryStore
	searcher aggregator.Searcher
	merger   Merger
}

func NewRefresher(queries storage.SavedQueryStore, searcher aggregator.Searcher, merger Merger) *Refresher {
	return &Refresher{
		queries:  queries,
		searcher: searcher,
		merger:   merger,
	}
}

// Refresh returns the number of results added to the saved query.
func (r *Refresher) Refresh(ctx context.Context, savedQueryID uuid.UUID) (int, error) {
	q, err := r.queries.FindSavedQuery(ctx, savedQueryID)
	if err != nil {
		return 0, fmt.Errorf("failed to load saved query %s: %w", savedQueryID, err)
	}

	fresh, err := r.searcher.SearchAllSources(ctx, q.QueryText, q.Filters)
	if err != nil {
		return 0, fmt.Errorf("failed to search sources: %w", err)
	}

	inserted, err := r.merger.Merge(ctx, q.ID, fresh)
	if err != nil {
		return inserted, fmt.Errorf("failed to merge results: %w", err)
	}
	return inserted, nil
}
