package storage

import (
	"context"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
)

// ResultIndexer mirrors newly persisted results into a full-text index.
type ResultIndexer interface {
	IndexResults(ctx context.Context, results []domain.PersistedResult) error
}
