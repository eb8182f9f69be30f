//go:build integration

package pg

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/storagetest"
	pgtesting "github.com/DjordjeVuckovic/news-radar/pkg/testing"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	container := pgtesting.NewPGContainerWithCleanup(ctx, t)
	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	st := NewStore(pool)
	storagetest.Run(t, func(t *testing.T) storage.Store {
		_, err := pool.GetConn().Exec(ctx, "TRUNCATE searches CASCADE")
		require.NoError(t, err)
		return st
	})
}

func TestConnectionPool_MigrateTwice(t *testing.T) {
	ctx := context.Background()
	container := pgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, pool.Migrate(ctx))
	require.NoError(t, pool.Ping(ctx))
}
