package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/es"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/pg"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/sqlite"
)

// NewStore opens the store selected by cfg.Type.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing config for PostgreSQL storage")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewStore(pool), nil

	case storage.SQLite:
		if cfg.SQLite == nil {
			return nil, fmt.Errorf("missing config for SQLite storage")
		}
		db, err := sqlite.Open(*cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return sqlite.New(db), nil

	case storage.InMem:
		return in_mem.NewStore(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}

// NewIndexer returns nil when no search index is configured.
func NewIndexer(ctx context.Context, cfg *StorageConfig) (storage.ResultIndexer, error) {
	if cfg.Es == nil {
		return nil, nil
	}
	idx, err := es.NewIndexer(ctx, *cfg.Es)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
